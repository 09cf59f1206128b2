package handler

import (
	"log/slog"
	"net/http"

	"github.com/mfalves/plantledger/internal/service"
	"github.com/mfalves/plantledger/internal/state"
)

// SyncHandler triggers a sync cycle on demand. The background worker
// runs the same cycle on its interval; both paths are safe to overlap
// in sequence because the pending predicate is the sync flag.
type SyncHandler struct {
	container *state.Container
	syncer    *service.SyncService
	logger    *slog.Logger
}

func NewSyncHandler(c *state.Container, syncer *service.SyncService, logger *slog.Logger) *SyncHandler {
	return &SyncHandler{container: c, syncer: syncer, logger: logger}
}

func (h *SyncHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	session := sessionUser(r, h.container)
	if session == nil {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	if !h.container.Online() {
		writeJSON(w, http.StatusOK, map[string]string{"status": "offline"})
		return
	}
	if err := h.syncer.Sync(r.Context()); err != nil {
		// Sync failure is recoverable by the next cycle; report it
		// without failing the session.
		writeJSON(w, http.StatusOK, map[string]string{"status": "retry", "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "synced"})
}
