package quiz

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/studybuddy/backend/internal/middleware"
	"github.com/studybuddy/backend/internal/models"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers quiz endpoints on the protected subrouter.
func (h *Handler) RegisterRoutes(protected *mux.Router) {
	protected.HandleFunc("/quizzes", h.ListQuizzes).Methods("GET")
	protected.HandleFunc("/quizzes/{quizID:[0-9]+}/sessions", h.StartQuiz).Methods("POST")

	protected.HandleFunc("/quiz-sessions/{sessionID}", h.GetSession).Methods("GET")
	protected.HandleFunc("/quiz-sessions/{sessionID}", h.AbandonSession).Methods("DELETE")
	protected.HandleFunc("/quiz-sessions/{sessionID}/answer", h.SubmitAnswer).Methods("POST")
	protected.HandleFunc("/quiz-sessions/{sessionID}/next", h.NextQuestion).Methods("POST")
	protected.HandleFunc("/quiz-sessions/{sessionID}/resolve", h.ResolveExhaustion).Methods("POST")

	protected.HandleFunc("/quiz-history", h.GetHistory).Methods("GET")
}

func (h *Handler) ListQuizzes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Catalog())
}

func (h *Handler) StartQuiz(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	quizID, err := strconv.Atoi(mux.Vars(r)["quizID"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid quiz ID"})
		return
	}

	resp, err := h.service.StartQuiz(r.Context(), userID, quizID)
	if err != nil {
		writeQuizError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	resp, err := h.service.Get(r.Context(), userID, mux.Vars(r)["sessionID"])
	if err != nil {
		writeQuizError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var req models.SubmitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if req.Option == nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "option is required"})
		return
	}

	resp, err := h.service.Answer(r.Context(), userID, mux.Vars(r)["sessionID"], *req.Option)
	if err != nil {
		writeQuizError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) NextQuestion(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	resp, err := h.service.Next(r.Context(), userID, mux.Vars(r)["sessionID"])
	if err != nil {
		writeQuizError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) ResolveExhaustion(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var req models.ResolveExhaustionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	resp, err := h.service.Resolve(r.Context(), userID, mux.Vars(r)["sessionID"], ExhaustionOption(req.Option))
	if err != nil {
		writeQuizError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) AbandonSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	if err := h.service.Abandon(r.Context(), userID, mux.Vars(r)["sessionID"]); err != nil {
		writeQuizError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	page := intQueryParam(r.URL.Query(), "page", 1)
	pageSize := intQueryParam(r.URL.Query(), "page_size", 20)

	resp, err := h.service.History(r.Context(), userID, page, pageSize)
	if err != nil {
		log.Printf("[quiz] GetHistory error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to get quiz history"})
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeQuizError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrQuizNotFound), errors.Is(err, ErrSessionNotFound):
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: err.Error()})
	case errors.Is(err, ErrInvalidOption), errors.Is(err, ErrUnknownOption):
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
	case errors.Is(err, ErrEmptyPool),
		errors.Is(err, ErrNotInProgress),
		errors.Is(err, ErrNotAnswered),
		errors.Is(err, ErrExhausted),
		errors.Is(err, ErrNotExhausted):
		writeJSON(w, http.StatusConflict, models.ErrorResponse{Error: err.Error()})
	default:
		log.Printf("[quiz] error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to update quiz"})
	}
}

func intQueryParam(query url.Values, key string, defaultVal int) int {
	s := query.Get(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return defaultVal
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
