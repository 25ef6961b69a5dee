package sessionhandler

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"dailypay/internal/domain/session"
	"dailypay/internal/requestctx"
	"dailypay/internal/transport/http/api"
	"dailypay/internal/transport/http/middleware"
	"dailypay/internal/transport/http/shared"
)

type Handler struct {
	Engine   *session.Engine
	MaxBytes int64
}

func NewHandler(engine *session.Engine, maxBytes int64) *Handler {
	return &Handler{Engine: engine, MaxBytes: maxBytes}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/session", func(r chi.Router) {
		r.Get("/", h.handleCurrent)
		r.Post("/upload", h.handleUpload)
		r.Post("/text", h.handleText)
		r.Post("/cancel", h.handleCancel)
	})
}

type textRequest struct {
	Text string `json:"text"`
}

type sessionResponse struct {
	State   session.State    `json:"state"`
	Session *session.Session `json:"session,omitempty"`
}

func (h *Handler) handleCurrent(w http.ResponseWriter, r *http.Request) {
	operator, _ := middleware.GetOperator(r)
	current, ok := h.Engine.Current(operator.OperatorID)
	if !ok {
		api.Success(w, sessionResponse{State: session.StateIdle}, requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, sessionResponse{State: current.State, Session: &current}, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	operator, _ := middleware.GetOperator(r)

	data, err := h.readUpload(r)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			api.Fail(w, http.StatusRequestEntityTooLarge, "file_too_large", "uploaded file is too large", requestID)
			return
		}
		api.Fail(w, http.StatusBadRequest, "invalid_upload", err.Error(), requestID)
		return
	}
	if len(data) == 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_upload", "file is empty", requestID)
		return
	}

	reply, err := h.Engine.Upload(r.Context(), operator.OperatorID, data)
	if err != nil {
		shared.FailDomain(w, err, requestID)
		return
	}
	api.Created(w, reply, requestID)
}

// readUpload accepts a multipart form with a "file" part or the raw file as
// the request body.
func (h *Handler) readUpload(r *http.Request) ([]byte, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if !strings.HasPrefix(mediaType, "multipart/") {
		return io.ReadAll(r.Body)
	}
	if err := r.ParseMultipartForm(h.MaxBytes); err != nil {
		return nil, err
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, errors.New("multipart field \"file\" is required")
	}
	defer file.Close()
	return io.ReadAll(file)
}

func (h *Handler) handleText(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	operator, _ := middleware.GetOperator(r)

	var payload textRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	v := shared.NewValidator()
	v.Required("text", payload.Text, "is required")
	if v.Reject(w, requestID) {
		return
	}

	reply, err := h.Engine.Text(r.Context(), operator.OperatorID, payload.Text)
	if err != nil {
		shared.FailDomain(w, err, requestID)
		return
	}
	api.Success(w, reply, requestID)
}

func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	operator, _ := middleware.GetOperator(r)

	reply, err := h.Engine.Cancel(r.Context(), operator.OperatorID)
	if err != nil {
		shared.FailDomain(w, err, requestID)
		return
	}
	api.Success(w, reply, requestID)
}
