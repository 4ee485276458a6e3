package http

import (
	"encoding/json"
	"net/http"

	"probability-quiz-service/internal/app"
	"probability-quiz-service/internal/domain"
	"probability-quiz-service/internal/logging"
)

// APIHandler exposes the quiz commands as JSON endpoints.
type APIHandler struct {
	service *app.QuizService
}

func NewAPIHandler(service *app.QuizService) *APIHandler {
	return &APIHandler{service: service}
}

type answerRequest struct {
	Option *int `json:"option"`
}

type answerResponse struct {
	Session  domain.SessionView   `json:"session"`
	Result   *domain.AnswerResult `json:"result"`
	Recorded bool                 `json:"recorded"`
}

type shareResponse struct {
	QR string `json:"qr"`
}

// Register mounts the API routes on mux.
func (h *APIHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/sessions", h.start)
	mux.HandleFunc("GET /api/sessions/{id}", h.get)
	mux.HandleFunc("POST /api/sessions/{id}/answer", h.answer)
	mux.HandleFunc("POST /api/sessions/{id}/next", h.next)
	mux.HandleFunc("POST /api/sessions/{id}/reset", h.reset)
	mux.HandleFunc("DELETE /api/sessions/{id}", h.end)
	mux.HandleFunc("GET /api/share", h.share)
}

func (h *APIHandler) start(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Start(r.Context(), r.URL.Query().Get("session"))
	if err != nil {
		logger := logging.FromContext(r.Context())
		logger.Error().Err(err).Msg("start session")
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, view)
}

func (h *APIHandler) get(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.View(r.Context(), r.PathValue("id"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (h *APIHandler) answer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Option == nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "body must be {\"option\": <index>}")
		return
	}
	view, result, err := h.service.SubmitAnswer(r.Context(), r.PathValue("id"), *req.Option)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, answerResponse{Session: view, Result: result, Recorded: result != nil})
}

func (h *APIHandler) next(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Advance(r.Context(), r.PathValue("id"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (h *APIHandler) reset(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Reset(r.Context(), r.PathValue("id"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (h *APIHandler) end(w http.ResponseWriter, r *http.Request) {
	h.service.End(r.Context(), r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) share(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, shareResponse{QR: h.service.ShareQR()})
}
