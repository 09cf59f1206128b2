package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/mfalves/plantledger/internal/domain"
	"github.com/mfalves/plantledger/internal/security/auth"
	"github.com/mfalves/plantledger/internal/security/ratelimit"
	"github.com/mfalves/plantledger/internal/state"
)

// LoginRequest represents login credentials. The plantation code is
// optional; empty acts as a wildcard.
type LoginRequest struct {
	Username       string `json:"username" validate:"required"`
	Password       string `json:"password" validate:"required"`
	PlantationCode string `json:"plantationCode"`
}

// LoginResponse contains the session token and the authenticated user.
type LoginResponse struct {
	Token string      `json:"token"`
	User  SessionUser `json:"user"`
}

// SessionUser is the user shape returned to clients; the password never
// leaves the server even though it is stored in plain text.
type SessionUser struct {
	ID             string      `json:"id"`
	Username       string      `json:"username"`
	Role           domain.Role `json:"role"`
	PlantationCode string      `json:"plantationCode"`
}

// LoginHandler handles user authentication
type LoginHandler struct {
	container    *state.Container
	tokenManager *auth.TokenManager
	limiter      *ratelimit.Limiter
	logger       *slog.Logger
}

// NewLoginHandler creates a new login handler
func NewLoginHandler(c *state.Container, tm *auth.TokenManager, limiter *ratelimit.Limiter, logger *slog.Logger) *LoginHandler {
	return &LoginHandler{container: c, tokenManager: tm, limiter: limiter, logger: logger}
}

// ServeHTTP handles POST /api/login requests
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req LoginRequest
	if !readJSON(w, r, h.logger, &req) {
		return
	}

	if h.limiter != nil && !h.limiter.AllowStrict("login:"+req.Username, 10, time.Minute) {
		writeError(w, http.StatusTooManyRequests, "too many login attempts")
		return
	}

	user, err := h.container.Login(req.Username, req.Password, req.PlantationCode)
	if err != nil {
		h.logger.Warn("authentication failed", slog.String("username", req.Username))
		// Generic error to prevent user enumeration
		writeError(w, http.StatusUnauthorized, domain.ErrInvalidCredentials.Error())
		return
	}

	token, err := h.tokenManager.GenerateToken(user)
	if err != nil {
		h.logger.Error("failed to generate token",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "token generation failed")
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{
		Token: token,
		User: SessionUser{
			ID:             user.ID,
			Username:       user.Username,
			Role:           user.Role,
			PlantationCode: user.PlantationCode,
		},
	})
}

// LogoutHandler clears the session on the aggregate.
type LogoutHandler struct {
	container *state.Container
	logger    *slog.Logger
}

func NewLogoutHandler(c *state.Container, logger *slog.Logger) *LogoutHandler {
	return &LogoutHandler{container: c, logger: logger}
}

func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	h.container.Logout()
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}
