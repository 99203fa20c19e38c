package handlers

import (
	"encoding/json"
	"net/http"

	"shop-api/internal/middleware"
	"shop-api/internal/models"
	"shop-api/internal/services"

	"github.com/rs/zerolog"
)

type AuthHandler struct {
	userService *services.UserService
	authService *services.AuthService
	logger      zerolog.Logger
}

func NewAuthHandler(userService *services.UserService, authService *services.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		authService: authService,
		logger:      logger,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "A valid email and a password are required")
		return
	}

	user, err := h.userService.Register(&req)
	if err != nil {
		respondServiceError(w, h.logger, err, "Registration failed")
		return
	}

	respondWithData(w, http.StatusCreated, "User registered successfully", map[string]interface{}{
		"user": user,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := h.userService.Authenticate(&req)
	if err != nil {
		h.logger.Warn().Str("email", req.Email).Msg("Login failed")
		respondServiceError(w, h.logger, err, "Login failed")
		return
	}

	platform := r.Header.Get(middleware.PlatformHeader)
	token, _, err := h.authService.IssueSession(user, platform)
	if err != nil {
		h.logger.Error().Err(err).Msg("Session issue failed")
		respondWithError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	respondWithData(w, http.StatusOK, "Login successful", models.AuthResponse{
		User:  user,
		Token: token,
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token, ok := middleware.GetToken(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	if err := h.authService.DeleteSession(token); err != nil {
		respondServiceError(w, h.logger, err, "Logout failed")
		return
	}

	respondWithData(w, http.StatusOK, "Logout successful", nil)
}

// Verify echoes the identity the authentication middleware resolved.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	email, _ := middleware.GetUserEmail(r)
	role, _ := middleware.GetUserRole(r)

	respondWithData(w, http.StatusOK, "", map[string]interface{}{
		"user": map[string]interface{}{
			"id":    userID,
			"email": email,
			"role":  role,
		},
	})
}

func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		respondServiceError(w, h.logger, err, "Profile lookup failed")
		return
	}

	respondWithData(w, http.StatusOK, "", map[string]interface{}{
		"user": user,
	})
}
