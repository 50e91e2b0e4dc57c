package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/baharkarakas/payment-authorizer/internal/auth"
)

var ok = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

func TestRequestID_GeneratesAndPropagates(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFrom(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotEmpty(t, seen)
	require.Equal(t, seen, rec.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, "abc-123", seen)
}

func TestRecover(t *testing.T) {
	h := Recover(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Body.String(), "internal_error")
}

func TestRateLimit(t *testing.T) {
	h := RateLimit(2)(ok)
	codes := []int{}
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		codes = append(codes, rec.Code)
	}
	require.Equal(t, []int{200, 200, 429}, codes)

	rec := httptest.NewRecorder()
	RateLimit(0)(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

func adminRouter(tm *auth.TokenManager) http.Handler {
	r := chi.NewRouter()
	r.Use(NewAuthMiddleware(tm).Auth, RequireRole(auth.RoleOperator))
	r.Get("/admin", func(w http.ResponseWriter, r *http.Request) {
		op, _ := OperatorFrom(r.Context())
		_, _ = w.Write([]byte(op.Name))
	})
	return r
}

func TestAuthAndRole(t *testing.T) {
	tm := auth.NewTokenManager("a", "r", "iss", time.Minute, time.Hour)
	h := adminRouter(tm)

	do := func(authz string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		if authz != "" {
			req.Header.Set("Authorization", authz)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	require.Equal(t, http.StatusUnauthorized, do("").Code)
	require.Equal(t, http.StatusUnauthorized, do("Bearer garbage").Code)

	access, refresh, _, err := tm.GeneratePair("ops", auth.RoleOperator)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, do("Bearer "+refresh).Code)

	rec := do("bearer " + access)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ops", rec.Body.String())

	viewer, _, _, err := tm.GeneratePair("someone", "viewer")
	require.NoError(t, err)
	require.Equal(t, http.StatusForbidden, do("Bearer "+viewer).Code)
}

func TestHTTPMetrics_PassesStatus(t *testing.T) {
	r := chi.NewRouter()
	r.Use(HTTPMetrics)
	r.Get("/x/{id}", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTeapot) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x/1", nil))
	require.Equal(t, http.StatusTeapot, rec.Code)
}
