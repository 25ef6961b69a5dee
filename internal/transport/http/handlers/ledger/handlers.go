package ledgerhandler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"

	"dailypay/internal/domain/ledger"
	"dailypay/internal/requestctx"
	"dailypay/internal/transport/http/api"
	"dailypay/internal/transport/http/shared"
)

const resetConfirmation = "RESET"

type Handler struct {
	Store ledger.Store
}

func NewHandler(store ledger.Store) *Handler {
	return &Handler{Store: store}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/ledger", func(r chi.Router) {
		r.Get("/warnings", h.handleWarnings)
		r.Post("/reset", h.handleReset)
	})
}

type workerWarning struct {
	Worker string `json:"worker"`
	Count  int    `json:"count"`
	Fired  bool   `json:"fired"`
}

type warningsResponse struct {
	ProcessedFiles int             `json:"processedFiles"`
	Warnings       []workerWarning `json:"warnings"`
}

type resetRequest struct {
	Confirm string `json:"confirm"`
}

func (h *Handler) handleWarnings(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	state, err := h.Store.Load(r.Context())
	if err != nil {
		shared.FailDomain(w, err, requestID)
		return
	}

	out := warningsResponse{ProcessedFiles: len(state.Fingerprints), Warnings: make([]workerWarning, 0, len(state.Warnings))}
	for worker, count := range state.Warnings {
		if count == 0 {
			continue
		}
		out.Warnings = append(out.Warnings, workerWarning{Worker: worker, Count: count, Fired: state.Warnings.Fired(worker)})
	}
	sort.Slice(out.Warnings, func(i, j int) bool { return out.Warnings[i].Worker < out.Warnings[j].Worker })
	api.Success(w, out, requestID)
}

func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	var payload resetRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	v := shared.NewValidator()
	v.Equals("confirm", payload.Confirm, resetConfirmation, "must be \"RESET\"")
	if v.Reject(w, requestID) {
		return
	}

	if err := h.Store.Reset(r.Context()); err != nil {
		shared.FailDomain(w, err, requestID)
		return
	}
	slog.Warn("ledger reset", "operator", requestctx.GetOperatorID(r.Context()), "requestId", requestID)
	api.Success(w, map[string]bool{"reset": true}, requestID)
}
