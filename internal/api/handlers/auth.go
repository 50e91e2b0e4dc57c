package handlers

import (
	"net/http"
	"time"

	"github.com/baharkarakas/payment-authorizer/internal/api/httpx"
	"github.com/baharkarakas/payment-authorizer/internal/auth"
	"github.com/baharkarakas/payment-authorizer/internal/logger"
)

type AuthHandler struct {
	TM  *auth.TokenManager
	Ops *auth.Operators
}

func NewAuthHandler(tm *auth.TokenManager, ops *auth.Operators) *AuthHandler {
	return &AuthHandler{TM: tm, Ops: ops}
}

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResp struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"` // access, seconds
}

func (h *AuthHandler) writePair(w http.ResponseWriter, r *http.Request, subject string) {
	access, refresh, exp, err := h.TM.GeneratePair(subject, auth.RoleOperator)
	if err != nil {
		logger.From(r.Context()).Error("token generation", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "token generation failed", nil)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, tokenResp{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(time.Until(exp).Truncate(time.Second).Seconds()),
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := httpx.DecodeJSON(r, &req); err != nil || req.Username == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "invalid request", nil)
		return
	}
	if err := h.Ops.Authenticate(req.Username, req.Password); err != nil {
		logger.From(r.Context()).Warn("operator login failed", "username", req.Username)
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "invalid credentials", nil)
		return
	}
	h.writePair(w, r, req.Username)
}

type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshReq
	if err := httpx.DecodeJSON(r, &req); err != nil || req.RefreshToken == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "invalid request", nil)
		return
	}
	claims, err := h.TM.ParseRefresh(req.RefreshToken)
	if err != nil {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "invalid refresh token", nil)
		return
	}
	h.writePair(w, r, claims.Subject)
}
