package skills

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
	"github.com/studybuddy/backend/internal/validation"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(protected *mux.Router) {
	protected.HandleFunc("/skills", h.ListSkills).Methods("GET")
	protected.HandleFunc("/skills", h.AddSkill).Methods("POST")
	protected.HandleFunc("/skills/activities", h.ListActivities).Methods("GET")
	protected.HandleFunc("/skills/activities", h.LogActivity).Methods("POST")
	protected.HandleFunc("/skills/summary", h.GetSummary).Methods("GET")
}

func (h *Handler) ListSkills(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}
	list, err := h.service.Skills(r.Context(), userID)
	if err != nil {
		writeSkillsError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) AddSkill(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}
	var req models.CreateSkillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	sk, err := h.service.AddSkill(r.Context(), userID, req)
	if err != nil {
		writeSkillsError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sk)
}

func (h *Handler) LogActivity(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}
	var req models.LogActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	resp, err := h.service.LogActivity(r.Context(), userID, req)
	if err != nil {
		writeSkillsError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *Handler) ListActivities(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}
	limit := intQueryParam(r.URL.Query(), "limit", 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}
	list, err := h.service.Activities(r.Context(), userID, limit)
	if err != nil {
		writeSkillsError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}
	sum, err := h.service.Summary(r.Context(), userID)
	if err != nil {
		writeSkillsError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func writeSkillsError(w http.ResponseWriter, err error) {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: verrs.Error()})
		return
	}
	log.Printf("[skills] error: %v", err)
	writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
}

func intQueryParam(query url.Values, key string, defaultVal int) int {
	s := query.Get(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
