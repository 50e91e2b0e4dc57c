package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/baharkarakas/payment-authorizer/internal/api/httpx"
	"github.com/baharkarakas/payment-authorizer/internal/logger"
	"github.com/baharkarakas/payment-authorizer/internal/repository"
)

func Health(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("ok")) }

// Ready pings every backing store.
func Ready(pingers map[string]repository.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := map[string]string{}
		code := http.StatusOK
		for name, p := range pingers {
			if err := p.Ping(ctx); err != nil {
				logger.From(ctx).Warn("readiness", "store", name, "err", err)
				status[name] = "down"
				code = http.StatusServiceUnavailable
				continue
			}
			status[name] = "up"
		}
		httpx.WriteJSON(w, code, status)
	}
}
