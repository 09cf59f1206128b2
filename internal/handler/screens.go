package handler

import (
	"log/slog"
	"net/http"

	"github.com/mfalves/plantledger/internal/security"
	"github.com/mfalves/plantledger/internal/state"
)

// ScreensHandler serves the navigation menu for the session's role,
// resolved from the screen table. Clients render exactly this list; a
// screen absent here is also rejected server-side on entry.
type ScreensHandler struct {
	container *state.Container
	authz     *security.AuthorizationService
	logger    *slog.Logger
}

func NewScreensHandler(c *state.Container, authz *security.AuthorizationService, logger *slog.Logger) *ScreensHandler {
	return &ScreensHandler{container: c, authz: authz, logger: logger}
}

func (h *ScreensHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	session := sessionUser(r, h.container)
	if session == nil {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"role":    session.Role,
		"screens": h.authz.ScreensFor(session.Role),
	})
}
