package handler

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/mfalves/plantledger/internal/security/auth"
	"github.com/mfalves/plantledger/internal/state"
)

// NotificationsHandler serves the notification list and the mark-read
// action. Notifications are process-local and not tenant scoped; they
// belong to whichever session is active, which holds because the
// process serves a single session at a time.
type NotificationsHandler struct {
	container *state.Container
	logger    *slog.Logger
}

func NewNotificationsHandler(c *state.Container, logger *slog.Logger) *NotificationsHandler {
	return &NotificationsHandler{container: c, logger: logger}
}

func (h *NotificationsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	session := sessionUser(r, h.container)
	if session == nil {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.container.Snapshot().Notifications)

	case http.MethodPost:
		h.container.MarkNotificationsRead()
		writeJSON(w, http.StatusOK, map[string]string{"status": "read"})

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// NotificationStreamHandler pushes notifications over a WebSocket as
// they are emitted by the mutation pipeline. The session token travels
// as a query parameter because browsers cannot set headers on upgrade
// requests.
type NotificationStreamHandler struct {
	container      *state.Container
	tokenManager   *auth.TokenManager
	logger         *slog.Logger
	allowedOrigins []string
}

func NewNotificationStreamHandler(c *state.Container, tm *auth.TokenManager, logger *slog.Logger, allowedOrigins []string) *NotificationStreamHandler {
	return &NotificationStreamHandler{
		container:      c,
		tokenManager:   tm,
		logger:         logger,
		allowedOrigins: allowedOrigins,
	}
}

func (h *NotificationStreamHandler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			for _, allowed := range h.allowedOrigins {
				if origin == allowed {
					return true
				}
			}
			h.logger.Warn("websocket origin rejected", slog.String("origin", origin))
			return false
		},
	}
}

// ServeHTTP handles GET /ws/notifications?token=...
func (h *NotificationStreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	claims, err := h.tokenManager.ValidateToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}
	if h.container.Session(claims.UserID) == nil {
		http.Error(w, "unknown session", http.StatusUnauthorized)
		return
	}

	upgrader := h.getUpgrader()
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}
	defer ws.Close()

	events, cancel := h.container.Subscribe()
	defer cancel()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-events:
			if !ok {
				return
			}
			if err := ws.WriteJSON(n); err != nil {
				h.logger.Debug("notification stream ended", slog.String("reason", err.Error()))
				return
			}
		}
	}
}
