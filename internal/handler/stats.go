package handler

import (
	"log/slog"
	"net/http"

	"github.com/mfalves/plantledger/internal/service"
	"github.com/mfalves/plantledger/internal/state"
)

// StatsHandler serves the dashboard aggregates for the session's view.
type StatsHandler struct {
	container *state.Container
	logger    *slog.Logger
}

func NewStatsHandler(c *state.Container, logger *slog.Logger) *StatsHandler {
	return &StatsHandler{container: c, logger: logger}
}

func (h *StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session := sessionUser(r, h.container)
	if session == nil {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	scoped := h.container.Scoped(session)
	if scoped.Suspended {
		writeError(w, http.StatusForbidden, "workspace suspended")
		return
	}
	writeJSON(w, http.StatusOK, service.ComputeStats(scoped))
}
