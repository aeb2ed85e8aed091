package auth

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/studybuddy/backend/internal/middleware"
	"github.com/studybuddy/backend/internal/models"
	"github.com/studybuddy/backend/internal/validation"
)

type Handler struct {
	users  UserStore
	tokens *middleware.Tokens
}

func NewHandler(users UserStore, tokens *middleware.Tokens) *Handler {
	return &Handler{users: users, tokens: tokens}
}

// RegisterRoutes mounts the public login route on api and the profile route
// on protected.
func (h *Handler) RegisterRoutes(api, protected *mux.Router) {
	api.HandleFunc("/auth/login", h.Login).Methods("POST")
	protected.HandleFunc("/auth/me", h.GetCurrentUser).Methods("GET")
}

// Login finds the user by name or creates one. Existing users get 200,
// new ones 201.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	in, err := validation.Login(validation.LoginInput{Name: req.Name, Age: req.Age, Education: req.Education})
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	status := http.StatusOK
	message := "User logged in successfully"

	user, err := h.users.FindByName(r.Context(), in.Name)
	if errors.Is(err, ErrUserNotFound) {
		user, err = h.users.Create(r.Context(), in.Name, in.Age, in.Education)
		status = http.StatusCreated
		message = "User created successfully"
	}
	if err != nil {
		log.Printf("[auth] login %q: %v", in.Name, err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to generate token"})
		return
	}

	writeJSON(w, status, models.AuthResponse{
		Success: true,
		Message: message,
		Token:   token,
		User:    *user,
	})
}

func (h *Handler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	user, err := h.users.Get(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "User not found"})
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
