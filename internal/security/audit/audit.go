package audit

import (
	"context"
	"log/slog"
	"time"
)

type Logger struct {
	logger *slog.Logger
}

func NewLogger(logger *slog.Logger) *Logger {
	return &Logger{logger: logger}
}

func (al *Logger) LogAction(ctx context.Context, tenant, userID, action, resource, resourceID, status, details string) {
	requestID := ""
	if reqID := ctx.Value("request_id"); reqID != nil {
		requestID = reqID.(string)
	}

	al.logger.Info("audit",
		slog.String("action", action),
		slog.String("resource", resource),
		slog.String("resource_id", resourceID),
		slog.String("tenant", tenant),
		slog.String("user_id", userID),
		slog.String("status", status),
		slog.String("details", details),
		slog.String("request_id", requestID),
		slog.Time("timestamp", time.Now()),
	)
}

func (al *Logger) LogMutation(ctx context.Context, tenant, userID, resource, resourceID, status string) {
	al.LogAction(ctx, tenant, userID, "create", resource, resourceID, status, "")
}

func (al *Logger) LogRemoval(ctx context.Context, tenant, userID, resource, resourceID, status string) {
	al.LogAction(ctx, tenant, userID, "remove", resource, resourceID, status, "")
}

func (al *Logger) LogDenied(ctx context.Context, tenant, userID, reason string) {
	al.LogAction(ctx, tenant, userID, "access_denied", "api", "", "denied", reason)
}
