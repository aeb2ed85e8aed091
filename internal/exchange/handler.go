package exchange

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
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
	protected.HandleFunc("/exchange/listings", h.ListListings).Methods("GET")
	protected.HandleFunc("/exchange/listings", h.CreateListing).Methods("POST")
	protected.HandleFunc("/exchange/listings/{id:[0-9]+}/requests", h.RequestSession).Methods("POST")
	protected.HandleFunc("/exchange/requests/incoming", h.ListIncoming).Methods("GET")
	protected.HandleFunc("/exchange/requests/{id:[0-9]+}/respond", h.Respond).Methods("POST")
}

func (h *Handler) ListListings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	listings, err := h.service.Listings(r.Context(), q.Get("kind"), q.Get("q"))
	if err != nil {
		writeExchangeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listings)
}

func (h *Handler) CreateListing(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}
	var req models.CreateListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	l, err := h.service.CreateListing(r.Context(), userID, req)
	if err != nil {
		writeExchangeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, l)
}

func (h *Handler) RequestSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}
	listingID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid listing ID"})
		return
	}
	var req models.CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	sr, err := h.service.RequestSession(r.Context(), userID, listingID, req)
	if err != nil {
		writeExchangeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sr)
}

func (h *Handler) ListIncoming(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}
	list, err := h.service.Incoming(r.Context(), userID)
	if err != nil {
		writeExchangeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) Respond(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}
	requestID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request ID"})
		return
	}
	var req models.RespondSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	sr, err := h.service.Respond(r.Context(), userID, requestID, req.Accept)
	if err != nil {
		writeExchangeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sr)
}

func writeExchangeError(w http.ResponseWriter, err error) {
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: verrs.Error()})
	case errors.Is(err, ErrListingNotFound), errors.Is(err, ErrRequestNotFound):
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: err.Error()})
	case errors.Is(err, ErrOwnListing):
		writeJSON(w, http.StatusForbidden, models.ErrorResponse{Error: err.Error()})
	case errors.Is(err, ErrAlreadyResponded):
		writeJSON(w, http.StatusConflict, models.ErrorResponse{Error: err.Error()})
	default:
		log.Printf("[exchange] error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
