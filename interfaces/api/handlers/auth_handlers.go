package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"importsvc/application"
	"importsvc/logging"
)

// AuthHandlers serves registration and login.
type AuthHandlers struct {
	authService application.AuthService
	logger      *logging.Logger
}

// NewAuthHandlers creates the auth handler set.
func NewAuthHandlers(authService application.AuthService, logger *logging.Logger) *AuthHandlers {
	return &AuthHandlers{
		authService: authService,
		logger:      logger.WithComponent("auth_handlers"),
	}
}

type registerRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
}

// Register handles POST /auth/register.
func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if msg, ok := validateRegistration(req); !ok {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	_, token, err := h.authService.Register(r.Context(), strings.TrimSpace(req.Email), strings.TrimSpace(req.Username), req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

// Login handles POST /auth/login.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	_, token, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

func validateRegistration(req registerRequest) (string, bool) {
	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return "a valid email is required", false
	}
	if len(strings.TrimSpace(req.Username)) < 3 {
		return "username must be at least 3 characters", false
	}
	if len(req.Password) < 8 {
		return "password must be at least 8 characters", false
	}
	return "", true
}
