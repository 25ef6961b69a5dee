package authhandler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"dailypay/internal/domain/auth"
	"dailypay/internal/requestctx"
	"dailypay/internal/transport/http/api"
	"dailypay/internal/transport/http/shared"
)

type Handler struct {
	Secret       string
	OperatorID   string
	PasswordHash string
	TokenTTL     time.Duration
}

func NewHandler(secret, operatorID, passwordHash string, ttl time.Duration) *Handler {
	return &Handler{Secret: secret, OperatorID: operatorID, PasswordHash: passwordHash, TokenTTL: ttl}
}

type tokenRequest struct {
	OperatorID string `json:"operatorId"`
	Password   string `json:"password"`
}

type tokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (h *Handler) HandleToken(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	var payload tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	v.Required("operatorId", payload.OperatorID, "is required")
	v.Required("password", payload.Password, "is required")
	if v.Reject(w, requestID) {
		return
	}

	if err := auth.Authenticate(h.OperatorID, h.PasswordHash, payload.OperatorID, payload.Password); err != nil {
		slog.Warn("operator login rejected", "operator", payload.OperatorID, "requestId", requestID)
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", requestID)
		return
	}

	token, err := auth.GenerateToken(h.Secret, auth.Claims{OperatorID: payload.OperatorID}, h.TokenTTL)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "token_error", "failed to issue token", requestID)
		return
	}
	api.Success(w, tokenResponse{Token: token, ExpiresAt: time.Now().Add(h.TokenTTL).UTC()}, requestID)
}
