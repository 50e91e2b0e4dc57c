package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/baharkarakas/payment-authorizer/internal/api/httpx"
	"github.com/baharkarakas/payment-authorizer/internal/logger"
	"github.com/baharkarakas/payment-authorizer/internal/models"
	"github.com/baharkarakas/payment-authorizer/internal/services"
	"github.com/baharkarakas/payment-authorizer/internal/validate"
)

type Authorizer interface {
	Authorize(ctx context.Context, in models.AuthorizationInput) services.Decision
}

type AuthorizeHandler struct {
	Svc Authorizer
}

func NewAuthorizeHandler(svc Authorizer) *AuthorizeHandler {
	return &AuthorizeHandler{Svc: svc}
}

const (
	// ReplayHeader marks an answer served from the transaction log.
	ReplayHeader = "Idempotent-Replayed"
	// CodeReplayedFailure tells the client the same payload will keep
	// failing; a new timestamp makes it a new request.
	CodeReplayedFailure = "replayed_failure"
)

type authorizeResp struct {
	Status        string `json:"status"`
	TransactionID string `json:"transaction_id"`
}

func (h *AuthorizeHandler) Authorize(w http.ResponseWriter, r *http.Request) {
	var in models.AuthorizationInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		logger.From(r.Context()).Debug("authorize: bad body", "err", err)
		httpx.WriteError(w, http.StatusBadRequest, string(models.OutcomeInvalidRequest), models.StatusNoBody, nil)
		return
	}

	d := h.Svc.Authorize(r.Context(), in)
	if d.Replayed {
		w.Header().Set(ReplayHeader, "true")
	}
	if d.Replayed && d.Outcome == models.OutcomeRecordingFailed {
		httpx.WriteError(w, d.Outcome.HTTPStatus(), CodeReplayedFailure, d.Outcome.StatusText(), map[string]string{
			"transaction_id": d.TransactionID,
			"hint":           "resend with a new timestamp",
		})
		return
	}
	switch d.Outcome {
	case models.OutcomeApproved, models.OutcomeDeclined:
		httpx.WriteJSON(w, d.Outcome.HTTPStatus(), authorizeResp{
			Status:        d.Outcome.StatusText(),
			TransactionID: d.TransactionID,
		})
	case models.OutcomeInvalidRequest:
		var errs validate.Errs
		var details any
		if errors.As(d.Err, &errs) {
			details = errs
		}
		httpx.WriteError(w, d.Outcome.HTTPStatus(), string(d.Outcome), d.Outcome.StatusText(), details)
	default:
		var details any
		if d.TransactionID != "" {
			details = map[string]string{"transaction_id": d.TransactionID}
		}
		httpx.WriteError(w, d.Outcome.HTTPStatus(), string(d.Outcome), d.Outcome.StatusText(), details)
	}
}
