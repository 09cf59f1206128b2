package handler

import (
	"log/slog"
	"net/http"

	"github.com/mfalves/plantledger/internal/state"
)

// ActivitiesHandler serves the tenant-scoped activity log.
type ActivitiesHandler struct {
	container *state.Container
	logger    *slog.Logger
}

func NewActivitiesHandler(c *state.Container, logger *slog.Logger) *ActivitiesHandler {
	return &ActivitiesHandler{container: c, logger: logger}
}

func (h *ActivitiesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	session := sessionUser(r, h.container)
	if session == nil {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	switch r.Method {
	case http.MethodGet:
		scoped := h.container.Scoped(session)
		if scoped.Suspended {
			writeError(w, http.StatusForbidden, "workspace suspended")
			return
		}
		writeJSON(w, http.StatusOK, scoped.Activities)

	case http.MethodPost:
		var in state.ActivityInput
		if !readJSON(w, r, h.logger, &in) {
			return
		}
		activity, err := h.container.CreateActivity(session, in)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, activity)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}
