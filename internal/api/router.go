package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/baharkarakas/payment-authorizer/internal/api/handlers"
	"github.com/baharkarakas/payment-authorizer/internal/auth"
	"github.com/baharkarakas/payment-authorizer/internal/metrics"
	"github.com/baharkarakas/payment-authorizer/internal/middleware"
	"github.com/baharkarakas/payment-authorizer/internal/repository"
	"github.com/baharkarakas/payment-authorizer/internal/services"
)

type RouterDeps struct {
	RateRPS    int
	Authorizer handlers.Authorizer
	Queries    *services.QueryService
	Tokens     *auth.TokenManager
	Operators  *auth.Operators
	Pingers    map[string]repository.Pinger
}

func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recover, middleware.HTTPMetrics, middleware.RateLimit(d.RateRPS))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader, handlers.ReplayHeader},
	}))

	// health & metrics
	r.Get("/health", handlers.Health)
	r.Get("/ready", handlers.Ready(d.Pingers))
	r.Handle("/metrics", metrics.Handler())

	authz := handlers.NewAuthorizeHandler(d.Authorizer)
	r.Post("/authorize", authz.Authorize)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/authorize", authz.Authorize)

		// ---------- operator auth ----------
		ah := handlers.NewAuthHandler(d.Tokens, d.Operators)
		r.Post("/auth/login", ah.Login)
		r.Post("/auth/refresh", ah.Refresh)

		// ---------- admin ----------
		r.Group(func(r chi.Router) {
			r.Use(middleware.NewAuthMiddleware(d.Tokens).Auth, middleware.RequireRole(auth.RoleOperator))

			adm := handlers.NewAdminHandler(d.Queries)
			r.Get("/admin/transactions", adm.ListTransactions)
			r.Get("/admin/transactions/{id}", adm.GetTransaction)
			r.Get("/admin/reconciliation", adm.ListReconciliation)
			r.Get("/admin/accounts/{bank}/{number}", adm.GetAccount)
		})
	})

	return r
}
