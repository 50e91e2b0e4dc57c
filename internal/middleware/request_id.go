package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/baharkarakas/payment-authorizer/internal/logger"
)

type reqIDKeyType struct{}

var requestIDKey reqIDKeyType

const RequestIDHeader = "X-Request-Id"

func RequestIDFrom(ctx context.Context) string {
	if s, ok := ctx.Value(requestIDKey).(string); ok {
		return s
	}
	return ""
}

// RequestID reuses a sane inbound X-Request-Id or makes one, and puts a
// request-scoped logger on the context.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		ctx := context.WithValue(r.Context(), requestIDKey, id)
		ctx = logger.WithContext(ctx, logger.From(ctx).With("request_id", id))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
