package studyplan

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

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
	protected.HandleFunc("/study-plans", h.GeneratePlan).Methods("POST")
	protected.HandleFunc("/study-plans/current", h.GetCurrentPlan).Methods("GET")
	protected.HandleFunc("/study-plans/current", h.DeleteCurrentPlan).Methods("DELETE")
}

func (h *Handler) GeneratePlan(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var req models.GeneratePlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	draft, err := DraftFromRequest(req)
	if err != nil {
		writePlanError(w, err)
		return
	}

	plan, err := h.service.Generate(r.Context(), userID, *draft)
	if err != nil {
		writePlanError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, plan)
}

func (h *Handler) GetCurrentPlan(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	plan, err := h.service.Current(r.Context(), userID)
	if err != nil {
		writePlanError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (h *Handler) DeleteCurrentPlan(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	if err := h.service.Discard(r.Context(), userID); err != nil {
		writePlanError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DraftFromRequest builds a draft, rejecting duplicate subject names the
// same way the draft editor does.
func DraftFromRequest(req models.GeneratePlanRequest) (*Draft, error) {
	d := &Draft{ExamDate: req.ExamDate, DailyHours: req.DailyHours, Subjects: []Subject{}}
	for _, in := range req.Subjects {
		s := Subject{Name: in.Name, Portions: []Portion{}}
		if s.Name != "" && d.nameTaken(s.Name, -1) {
			return nil, duplicateName(s.Name)
		}
		d.Subjects = append(d.Subjects, s)
		i := len(d.Subjects) - 1
		for _, p := range in.Portions {
			if err := d.AddPortion(i, p.Topic, p.Hours); err != nil {
				return nil, err
			}
		}
	}
	return d, nil
}

func writePlanError(w http.ResponseWriter, err error) {
	var verr *ValidationError
	var inf *InfeasibleError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: verr.Message})
	case errors.As(err, &inf):
		writeJSON(w, http.StatusUnprocessableEntity, models.ErrorResponse{Error: inf.Message})
	case errors.Is(err, ErrNoPlan):
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "No study plan found"})
	default:
		log.Printf("[studyplan] error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to process study plan"})
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
