package handler

import (
	"log/slog"
	"net/http"

	"github.com/mfalves/plantledger/internal/domain"
	"github.com/mfalves/plantledger/internal/security"
	"github.com/mfalves/plantledger/internal/state"
)

// UsersHandler serves account administration: listing the scoped users,
// creating accounts and removing them. Entry is gated by the screen
// table, so employees never reach the pipeline's own role checks.
type UsersHandler struct {
	container *state.Container
	authz     *security.AuthorizationService
	logger    *slog.Logger
}

func NewUsersHandler(c *state.Container, authz *security.AuthorizationService, logger *slog.Logger) *UsersHandler {
	return &UsersHandler{container: c, authz: authz, logger: logger}
}

func (h *UsersHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	session := sessionUser(r, h.container)
	if session == nil {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	if err := h.authz.ValidateAccess(session.Role, security.ScreenUsers); err != nil {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	switch r.Method {
	case http.MethodGet:
		scoped := h.container.Scoped(session)
		if scoped.Suspended {
			writeError(w, http.StatusForbidden, "workspace suspended")
			return
		}
		out := make([]SessionUser, 0, len(scoped.Users))
		for _, u := range scoped.Users {
			out = append(out, SessionUser{
				ID:             u.ID,
				Username:       u.Username,
				Role:           u.Role,
				PlantationCode: u.PlantationCode,
			})
		}
		writeJSON(w, http.StatusOK, out)

	case http.MethodPost:
		var in state.UserInput
		if !readJSON(w, r, h.logger, &in) {
			return
		}
		user, err := h.container.AddUser(session, in)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, SessionUser{
			ID:             user.ID,
			Username:       user.Username,
			Role:           user.Role,
			PlantationCode: user.PlantationCode,
		})

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// DeleteUserHandler removes an account. Registered on
// DELETE /api/users/{id}.
type DeleteUserHandler struct {
	container *state.Container
	authz     *security.AuthorizationService
	logger    *slog.Logger
}

func NewDeleteUserHandler(c *state.Container, authz *security.AuthorizationService, logger *slog.Logger) *DeleteUserHandler {
	return &DeleteUserHandler{container: c, authz: authz, logger: logger}
}

func (h *DeleteUserHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	session := sessionUser(r, h.container)
	if session == nil {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	if err := h.authz.ValidateAccess(session.Role, security.ScreenUsers); err != nil {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing user id")
		return
	}
	if err := h.container.RemoveUser(session, id); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

// CredentialsRequest updates the session's own username and password.
type CredentialsRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// CredentialsHandler serves PUT /api/users/me.
type CredentialsHandler struct {
	container    *state.Container
	tokenManager tokenIssuer
	logger       *slog.Logger
}

type tokenIssuer interface {
	GenerateToken(user *domain.User) (string, error)
}

func NewCredentialsHandler(c *state.Container, tm tokenIssuer, logger *slog.Logger) *CredentialsHandler {
	return &CredentialsHandler{container: c, tokenManager: tm, logger: logger}
}

func (h *CredentialsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	session := sessionUser(r, h.container)
	if session == nil {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req CredentialsRequest
	if !readJSON(w, r, h.logger, &req) {
		return
	}
	updated, err := h.container.UpdateUserCredentials(session, req.Username, req.Password)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	// The old token still names the old username; hand out a fresh one.
	token, err := h.tokenManager.GenerateToken(updated)
	if err != nil {
		h.logger.Error("failed to reissue token", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "token generation failed")
		return
	}
	writeJSON(w, http.StatusOK, LoginResponse{
		Token: token,
		User: SessionUser{
			ID:             updated.ID,
			Username:       updated.Username,
			Role:           updated.Role,
			PlantationCode: updated.PlantationCode,
		},
	})
}
