package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/avilam/mensajeria-be/internal/models"
	"github.com/avilam/mensajeria-be/internal/services"
)

// UserHandler handles HTTP requests for user management.
type UserHandler struct {
	service services.UserServiceProvider
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserServiceProvider) *UserHandler {
	return &UserHandler{service: service}
}

// RegisterPayload defines the structure for registration requests.
type RegisterPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

// AuthPayload defines the structure for login requests.
type AuthPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// List handles retrieving all users as id+username pairs.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list users")
		respondError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	respondJSON(w, http.StatusOK, users)
}

// Get handles retrieving a user by their ID. The response keeps the
// result-set shape: an array with zero or one element, 200 even on a miss.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Bad request. Please provide a valid user ID.")
		return
	}

	user, err := h.service.GetUser(r.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			respondJSON(w, http.StatusOK, []models.UserSummary{})
			return
		}
		log.Error().Err(err).Int64("user_id", id).Msg("Failed to get user")
		respondError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	respondJSON(w, http.StatusOK, []models.UserSummary{user})
}

// Create handles new user registration.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if payload.Username == "" || payload.Password == "" || payload.Email == "" {
		respondError(w, http.StatusBadRequest, "Please fill all fields.")
		return
	}

	id, err := h.service.CreateUser(r.Context(), payload.Username, payload.Password, payload.Email)
	if err != nil {
		if errors.Is(err, services.ErrDuplicate) {
			respondError(w, http.StatusConflict, "Username or email already in use")
			return
		}
		log.Error().Err(err).Str("email", payload.Email).Msg("Failed to register user")
		respondError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "User created successfully",
		"id":      id,
	})
}

// Update handles overwriting a user's username and password.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Bad request. Please fill all fields.")
		return
	}

	var payload struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if payload.Username == "" || payload.Password == "" {
		respondError(w, http.StatusBadRequest, "Bad request. Please fill all fields.")
		return
	}

	affected, err := h.service.UpdateUser(r.Context(), id, payload.Username, payload.Password)
	if err != nil {
		if errors.Is(err, services.ErrDuplicate) {
			respondError(w, http.StatusConflict, "Username or email already in use")
			return
		}
		log.Error().Err(err).Int64("user_id", id).Msg("Failed to update user")
		respondError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]int64{"affectedRows": affected})
}

// Delete handles the permanent deletion of a user account.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Bad request. Please provide a valid user ID.")
		return
	}

	affected, err := h.service.DeleteUser(r.Context(), id)
	if err != nil {
		log.Error().Err(err).Int64("user_id", id).Msg("Failed to delete user")
		respondError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]int64{"affectedRows": affected})
}

// Login handles user authentication and session token issuance.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload AuthPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if payload.Email == "" || payload.Password == "" {
		respondError(w, http.StatusBadRequest, "Please provide email and password.")
		return
	}

	user, token, err := h.service.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			log.Warn().Str("email", payload.Email).Msg("Failed authentication attempt")
			respondError(w, http.StatusBadRequest, "Invalid credentials")
			return
		}
		log.Error().Err(err).Str("email", payload.Email).Msg("Login failed")
		respondError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":  "Login successful",
		"token":    token,
		"userData": user,
	})
}

// Profile handles the authenticated profile fetch. Unlike Get, a miss here
// is a 404.
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Bad request. Please provide a valid user ID.")
		return
	}

	user, err := h.service.GetUser(r.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			respondError(w, http.StatusNotFound, "User not found")
			return
		}
		log.Error().Err(err).Int64("user_id", id).Msg("Failed to get profile")
		respondError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	respondJSON(w, http.StatusOK, user)
}
