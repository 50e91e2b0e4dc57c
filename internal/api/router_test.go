package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/baharkarakas/payment-authorizer/internal/api/handlers"
	"github.com/baharkarakas/payment-authorizer/internal/api/httpx"
	"github.com/baharkarakas/payment-authorizer/internal/auth"
	"github.com/baharkarakas/payment-authorizer/internal/events"
	"github.com/baharkarakas/payment-authorizer/internal/gate"
	"github.com/baharkarakas/payment-authorizer/internal/models"
	"github.com/baharkarakas/payment-authorizer/internal/repository"
	"github.com/baharkarakas/payment-authorizer/internal/repository/memory"
	"github.com/baharkarakas/payment-authorizer/internal/services"
)

type inlinePool struct{}

func (inlinePool) Submit(f func()) bool { f(); return true }

type pingerFunc func(context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

type testServer struct {
	h     http.Handler
	repos repository.Repositories
	tm    *auth.TokenManager
}

func newServer(t *testing.T, g gate.Gate) *testServer {
	t.Helper()
	ctx := context.Background()
	repos := memory.NewRepositories()
	seed := repository.Seed{
		Merchants: []models.Merchant{{ID: "m-1", Name: "Corner Shop", Token: "tok-123"}},
		Accounts: []models.Account{
			{Bank: "First Bank", AccountNumber: "4111111111111111", Kind: models.KindCredit, CreditLimit: decimal.NewFromInt(500), CreditUsed: decimal.NewFromInt(100)},
			{Bank: "First Bank", AccountNumber: "5500000000000004", Kind: models.KindDebit, Balance: decimal.NewFromInt(50)},
		},
	}
	require.NoError(t, seed.Apply(ctx, repos.Seeder))

	rec := services.NewRecorder(repos.Transactions, repos.Reconciliation, events.NewPublisher(nil, inlinePool{}), 0)
	svc := services.NewAuthorizationService(repos.Merchants, repos.Accounts, repos.Transactions, rec, g, services.AuthorizationOptions{})

	hash, err := auth.HashPassword("s3cret")
	require.NoError(t, err)
	tm := auth.NewTokenManager("a", "r", "test", time.Minute, time.Hour)

	h := NewRouter(RouterDeps{
		Authorizer: svc,
		Queries:    services.NewQueryService(repos.Transactions, repos.Reconciliation, repos.Accounts),
		Tokens:     tm,
		Operators:  auth.NewOperators("ops", hash),
		Pingers:    map[string]repository.Pinger{"memory": pingerFunc(func(context.Context) error { return nil })},
	})
	return &testServer{h: h, repos: repos, tm: tm}
}

func (s *testServer) do(t *testing.T, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body != "" {
		rd = bytes.NewReader([]byte(body))
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.h.ServeHTTP(rec, req)
	return rec
}

func authBody(card, cardType, amount, token string) string {
	return `{"merchant_name":"Corner Shop","merchant_token":"` + token + `","bank":"First Bank",` +
		`"cc_num":"` + card + `","card_type":"` + cardType + `","security_code":"123",` +
		`"amount":` + amount + `,"card_zip":"10001","timestamp":"2024-03-01T10:00:00Z"}`
}

func TestAuthorize_StatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		body   string
		code   int
		status string
	}{
		{"approved", authBody("4111111111111111", "credit", "300", "tok-123"), 200, models.StatusApproved},
		{"declined", authBody("4111111111111111", "credit", "450", "tok-123"), 200, models.StatusDeclined},
		{"bad account", authBody("9999999999999999", "credit", "1", "tok-123"), 400, models.StatusBadAccount},
		{"card type", authBody("4111111111111111", "Crypto", "1", "tok-123"), 400, models.StatusInvalidCardType},
		{"merchant", authBody("4111111111111111", "credit", "1", "nope"), 401, models.StatusMerchantUnauthorized},
		{"bad amount", authBody("4111111111111111", "credit", "-3", "tok-123"), 400, models.StatusInvalidRequest},
		{"sub-scale amount", authBody("4111111111111111", "credit", "0.00004", "tok-123"), 400, models.StatusInvalidRequest},
		{"huge exponent", authBody("4111111111111111", "credit", `"1e400000000"`, "tok-123"), 400, models.StatusInvalidRequest},
		{"no body", "", 400, models.StatusNoBody},
		{"not json", "{", 400, models.StatusNoBody},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newServer(t, gate.Always)
			rec := s.do(t, http.MethodPost, "/api/v1/authorize", tc.body, "")
			require.Equal(t, tc.code, rec.Code, rec.Body.String())

			var m map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
			if tc.code == 200 {
				require.Equal(t, tc.status, m["status"])
				require.Len(t, m["transaction_id"], 64)
			} else {
				require.Equal(t, tc.status, m["error"])
			}
		})
	}
}

func TestAuthorize_BankUnavailable(t *testing.T) {
	s := newServer(t, gate.Never)
	rec := s.do(t, http.MethodPost, "/authorize", authBody("4111111111111111", "credit", "1", "tok-123"), "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var e httpx.APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))
	require.Equal(t, models.StatusBankUnavailable, e.Error)
}

func TestAuthorize_FieldDetails(t *testing.T) {
	s := newServer(t, gate.Always)
	rec := s.do(t, http.MethodPost, "/api/v1/authorize", `{"merchant_name":"Corner Shop"}`, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var e struct {
		Details []struct {
			Field string `json:"field"`
		} `json:"details"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))
	require.NotEmpty(t, e.Details)
}

func login(t *testing.T, s *testServer) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/v1/auth/login", `{"username":"ops","password":"s3cret"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var tok struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tok))
	require.NotEmpty(t, tok.RefreshToken)
	return tok.AccessToken
}

func TestLogin_BadPassword(t *testing.T) {
	s := newServer(t, gate.Always)
	rec := s.do(t, http.MethodPost, "/api/v1/auth/login", `{"username":"ops","password":"x"}`, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdmin_RequiresToken(t *testing.T) {
	s := newServer(t, gate.Always)
	rec := s.do(t, http.MethodGet, "/api/v1/admin/reconciliation", "", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdmin_Queries(t *testing.T) {
	s := newServer(t, gate.Always)
	rec := s.do(t, http.MethodPost, "/api/v1/authorize", authBody("4111111111111111", "credit", "300", "tok-123"), "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		TransactionID string `json:"transaction_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	token := login(t, s)

	rec = s.do(t, http.MethodGet, "/api/v1/admin/transactions/"+resp.TransactionID, "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	var tx models.TransactionRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tx))
	require.Equal(t, models.OutcomeApproved, tx.Outcome)

	rec = s.do(t, http.MethodGet, "/api/v1/admin/transactions/nope", "", token)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/admin/transactions?merchant=Corner%20Shop&limit=5", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	var txs []models.TransactionRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &txs))
	require.Len(t, txs, 1)

	rec = s.do(t, http.MethodGet, "/api/v1/admin/accounts/First%20Bank/4111111111111111", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	var acc map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &acc))
	require.Equal(t, "400", acc["credit_used"])
	require.Equal(t, "100", acc["available"])
	require.Equal(t, "1111", acc["last4"])
}

func TestHealthAndReady(t *testing.T) {
	s := newServer(t, gate.Always)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/health", "", "").Code)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/ready", "", "").Code)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/metrics", "", "").Code)
}

func TestAuthorize_ReplayedFailureHasOwnCode(t *testing.T) {
	s := newServer(t, gate.Always)
	body := authBody("4111111111111111", "credit", "300", "tok-123")

	var in models.AuthorizationInput
	require.NoError(t, json.Unmarshal([]byte(body), &in))
	req, err := models.ParseAuthorizationRequest(in)
	require.NoError(t, err)
	id := services.TransactionID(req)
	require.NoError(t, s.repos.Transactions.Append(context.Background(), models.TransactionRecord{
		TransactionID: id,
		MerchantName:  "Corner Shop",
		Amount:        req.Amount,
		Status:        models.StatusRecordingFailed,
		Outcome:       models.OutcomeRecordingFailed,
	}))

	rec := s.do(t, http.MethodPost, "/api/v1/authorize", body, "")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, "true", rec.Header().Get(handlers.ReplayHeader))

	var e struct {
		Code    string            `json:"code"`
		Details map[string]string `json:"details"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))
	require.Equal(t, handlers.CodeReplayedFailure, e.Code)
	require.Equal(t, id, e.Details["transaction_id"])

	// a new timestamp is a new request and goes through
	rec = s.do(t, http.MethodPost, "/api/v1/authorize", strings.Replace(body, "10:00:00Z", "10:00:01Z", 1), "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, rec.Header().Get(handlers.ReplayHeader))
}

func TestAuthorize_ReplayedApprovalMarked(t *testing.T) {
	s := newServer(t, gate.Always)
	body := authBody("4111111111111111", "credit", "300", "tok-123")
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/authorize", body, "").Code)

	rec := s.do(t, http.MethodPost, "/authorize", body, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "true", rec.Header().Get(handlers.ReplayHeader))

	acc, err := s.repos.Accounts.GetAccount(context.Background(), models.AccountKey{Bank: "First Bank", AccountNumber: "4111111111111111"})
	require.NoError(t, err)
	require.Equal(t, "400", acc.CreditUsed.String())
}
