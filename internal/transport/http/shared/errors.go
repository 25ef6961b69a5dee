package shared

import (
	"errors"
	"log/slog"
	"net/http"

	"dailypay/internal/domain/ledger"
	"dailypay/internal/domain/payout"
	"dailypay/internal/domain/session"
	"dailypay/internal/domain/tabulation"
	"dailypay/internal/transport/http/api"
)

// FailDomain maps engine and ledger errors onto the response envelope.
func FailDomain(w http.ResponseWriter, err error, requestID string) {
	var formatErr *tabulation.FormatError
	var inputErr *session.InputError
	var validationErr *payout.ValidationError

	switch {
	case errors.Is(err, session.ErrSessionActive):
		api.Fail(w, http.StatusConflict, "session_active", "a session is already open; cancel it first", requestID)
	case errors.Is(err, ledger.ErrAlreadyProcessed):
		api.Fail(w, http.StatusConflict, "already_processed", "this file was already processed", requestID)
	case errors.Is(err, session.ErrNoSession):
		api.Fail(w, http.StatusNotFound, "no_session", "no active session; upload a file first", requestID)
	case errors.Is(err, session.ErrOperator):
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
	case errors.Is(err, tabulation.ErrEmptyFile):
		api.Fail(w, http.StatusBadRequest, "format_error", err.Error(), requestID)
	case errors.As(err, &formatErr):
		api.FailWithDetails(w, http.StatusBadRequest, "format_error", formatErr.Error(),
			map[string]any{"field": formatErr.Field, "row": formatErr.Row}, requestID)
	case errors.As(err, &inputErr):
		api.FailWithDetails(w, http.StatusUnprocessableEntity, "invalid_input", inputErr.Error(),
			map[string]any{"state": inputErr.State, "line": inputErr.Line}, requestID)
	case errors.As(err, &validationErr):
		api.FailWithDetails(w, http.StatusUnprocessableEntity, "validation_error", validationErr.Error(),
			map[string]any{"field": validationErr.Field}, requestID)
	case errors.Is(err, ledger.ErrCorruptState):
		slog.Error("ledger unreadable", "err", err, "requestId", requestID)
		api.Fail(w, http.StatusServiceUnavailable, "storage_error", "ledger state is unreadable", requestID)
	default:
		slog.Error("request failed", "err", err, "requestId", requestID)
		api.Fail(w, http.StatusInternalServerError, "storage_error", "operation failed", requestID)
	}
}
