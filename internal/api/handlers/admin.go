package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/baharkarakas/payment-authorizer/internal/api/httpx"
	"github.com/baharkarakas/payment-authorizer/internal/logger"
	"github.com/baharkarakas/payment-authorizer/internal/models"
	"github.com/baharkarakas/payment-authorizer/internal/repository"
	"github.com/baharkarakas/payment-authorizer/internal/services"
)

type AdminHandler struct {
	Q *services.QueryService
}

func NewAdminHandler(q *services.QueryService) *AdminHandler {
	return &AdminHandler{Q: q}
}

func pageParams(r *http.Request) (limit, offset int) {
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}

func writeStoreErr(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		httpx.WriteError(w, http.StatusNotFound, "not_found", "not found", nil)
		return
	}
	logger.From(r.Context()).Error("admin query", "err", err)
	httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "internal error", nil)
}

func (h *AdminHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	tx, err := h.Q.GetTransaction(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreErr(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, tx)
}

func (h *AdminHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	txs, err := h.Q.ListTransactions(r.Context(), r.URL.Query().Get("merchant"), limit, offset)
	if err != nil {
		writeStoreErr(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, txs)
}

func (h *AdminHandler) ListReconciliation(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	es, err := h.Q.ListReconciliation(r.Context(), limit, offset)
	if err != nil {
		writeStoreErr(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, es)
}

type accountView struct {
	Bank        string `json:"bank"`
	Last4       string `json:"last4"`
	Kind        string `json:"kind"`
	CreditLimit string `json:"credit_limit,omitempty"`
	CreditUsed  string `json:"credit_used,omitempty"`
	Available   string `json:"available"`
	Balance     string `json:"balance,omitempty"`
}

func (h *AdminHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	a, err := h.Q.GetAccount(r.Context(), chi.URLParam(r, "bank"), chi.URLParam(r, "number"))
	if err != nil {
		writeStoreErr(w, r, err)
		return
	}
	v := accountView{
		Bank:      a.Bank,
		Last4:     models.Last4(a.AccountNumber),
		Kind:      string(a.Kind),
		Available: a.Available(a.Kind).String(),
	}
	if a.Kind == models.KindCredit {
		v.CreditLimit, v.CreditUsed = a.CreditLimit.String(), a.CreditUsed.String()
	} else {
		v.Balance = a.Balance.String()
	}
	httpx.WriteJSON(w, http.StatusOK, v)
}
