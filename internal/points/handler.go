package points

import (
	"encoding/json"
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

func (h *Handler) RegisterRoutes(protected *mux.Router) {
	protected.HandleFunc("/points", h.GetPoints).Methods("GET")
	protected.HandleFunc("/points/events", h.GetEvents).Methods("GET")
	protected.HandleFunc("/leaderboard", h.GetLeaderboard).Methods("GET")
}

func (h *Handler) GetPoints(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	resp, err := h.service.Summary(r.Context(), userID)
	if err != nil {
		log.Printf("[points] GetPoints error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to get points"})
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetEvents(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	limit := clamp(intQueryParam(r.URL.Query(), "limit", 20), 1, 100)
	events, err := h.service.RecentEvents(r.Context(), userID, limit)
	if err != nil {
		log.Printf("[points] GetEvents error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to get point events"})
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	limit := clamp(intQueryParam(r.URL.Query(), "limit", 50), 1, 100)
	entries, err := h.service.Leaderboard(r.Context(), userID, limit)
	if err != nil {
		log.Printf("[points] GetLeaderboard error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to get leaderboard"})
		return
	}
	writeJSON(w, http.StatusOK, entries)
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

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
