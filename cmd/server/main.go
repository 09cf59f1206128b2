package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mfalves/plantledger/internal/assistant"
	"github.com/mfalves/plantledger/internal/domain"
	"github.com/mfalves/plantledger/internal/featureflags"
	"github.com/mfalves/plantledger/internal/handler"
	"github.com/mfalves/plantledger/internal/infrastructure/logger"
	"github.com/mfalves/plantledger/internal/observability/metrics"
	"github.com/mfalves/plantledger/internal/observability/tracing"
	remotestore "github.com/mfalves/plantledger/internal/remote"
	"github.com/mfalves/plantledger/internal/security"
	"github.com/mfalves/plantledger/internal/security/audit"
	"github.com/mfalves/plantledger/internal/security/auth"
	"github.com/mfalves/plantledger/internal/security/middleware"
	"github.com/mfalves/plantledger/internal/security/ratelimit"
	"github.com/mfalves/plantledger/internal/service"
	"github.com/mfalves/plantledger/internal/sharelink"
	"github.com/mfalves/plantledger/internal/state"
	"github.com/mfalves/plantledger/internal/store"
	"github.com/mfalves/plantledger/internal/worker"
	"github.com/mfalves/plantledger/pkg/config"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Initialize structured logger
	log := logger.NewLogger(cfg.LogLevel)
	log.Info("starting PlantLedger server", slog.String("environment", cfg.Environment))

	// 3. Initialize tracing (no-op without an OTLP endpoint configured)
	shutdownTracing, err := tracing.Init(context.Background(), log, "plantledger", cfg.Environment)
	if err != nil {
		log.Warn("tracing init failed", slog.String("error", err.Error()))
		shutdownTracing = func(context.Context) error { return nil }
	}

	// 4. Open the local snapshot store and load the aggregate
	snapshots, err := store.NewBadgerStore(store.Options{Path: cfg.DataDir}, log)
	if err != nil {
		log.Error("failed to open snapshot store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer snapshots.Close()

	appState, err := snapshots.Load()
	if err != nil {
		log.Error("failed to load snapshot", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 4a. Apply a share-link payload, if one was handed to this install
	if cfg.ShareConfig != "" {
		payload, err := sharelink.Decode(cfg.ShareConfig)
		if err != nil {
			log.Warn("ignoring invalid share config", slog.String("error", err.Error()))
		} else {
			plantations, users := sharelink.Merge(appState, payload)
			log.Info("share config merged",
				slog.Int("plantations_added", plantations),
				slog.Int("users_added", users),
			)
		}
	}

	// 5. Initialize the state container
	container := state.NewContainer(appState, snapshots, log)

	// 6. Initialize the sync remote; without a remote URL sync cycles
	// run against a stub that accepts nothing
	var remote domain.Remote
	if cfg.RemoteURL != "" {
		redisRemote, err := remotestore.NewRedisRemote(cfg.RemoteURL, log)
		if err != nil {
			log.Error("failed to connect to sync remote", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer redisRemote.Close()
		remote = redisRemote
		container.SetOnline(true)
	} else {
		remote = remotestore.NewNoop(log)
		container.SetOnline(false)
		log.Info("no remote configured, starting offline")
	}

	// 7. Initialize services
	syncService := service.NewSyncService(container, remote, log)

	// 7a. Initialize security components
	tokenManager := auth.NewTokenManager(cfg.JWTSecret, "plantledger")
	rateLimiter := ratelimit.NewLimiter(100, time.Minute) // 100 requests per minute per tenant
	auditLogger := audit.NewLogger(log)
	authz := security.NewAuthorizationService(log)

	// 7b. Initialize the assistant. FLAG_DISABLE_ASSISTANT is a kill
	// switch; otherwise availability follows the API key.
	responder := assistant.Responder(assistant.Disabled{})
	if !featureflags.Enabled("disable_assistant") {
		responder = assistant.NewOpenAIResponder(cfg.OpenAIKey, cfg.AssistantModel, log)
	}

	// 8. Initialize handlers and routes
	loginHandler := handler.NewLoginHandler(container, tokenManager, rateLimiter, log)
	logoutHandler := handler.NewLogoutHandler(container, log)
	screensHandler := handler.NewScreensHandler(container, authz, log)
	activitiesHandler := handler.NewActivitiesHandler(container, log)
	salesHandler := handler.NewSalesHandler(container, log)
	cashHandler := handler.NewCashHandler(container, log)
	statsHandler := handler.NewStatsHandler(container, log)
	usersHandler := handler.NewUsersHandler(container, authz, log)
	deleteUserHandler := handler.NewDeleteUserHandler(container, authz, log)
	credentialsHandler := handler.NewCredentialsHandler(container, tokenManager, log)
	plantationsHandler := handler.NewPlantationsHandler(container, authz, log)
	plantationStatusHandler := handler.NewPlantationStatusHandler(container, authz, log)
	notificationsHandler := handler.NewNotificationsHandler(container, log)
	notificationStream := handler.NewNotificationStreamHandler(container, tokenManager, log, cfg.CORSAllowedOrigins)
	syncHandler := handler.NewSyncHandler(container, syncService, log)
	assistantHandler := handler.NewAssistantHandler(container, responder, log)

	mux := http.NewServeMux()
	mux.Handle("POST /api/login", loginHandler)
	mux.Handle("POST /api/logout", logoutHandler)
	mux.Handle("GET /api/screens", screensHandler)
	mux.Handle("/api/activities", activitiesHandler)
	mux.Handle("/api/sales", salesHandler)
	mux.Handle("/api/cash", cashHandler)
	mux.Handle("GET /api/stats", statsHandler)
	mux.Handle("/api/users", usersHandler)
	mux.Handle("DELETE /api/users/{id}", deleteUserHandler)
	mux.Handle("PUT /api/users/me", credentialsHandler)
	mux.Handle("/api/plantations", plantationsHandler)
	mux.Handle("PUT /api/plantations/{code}/status", plantationStatusHandler)
	mux.Handle("/api/notifications", notificationsHandler)
	mux.Handle("POST /api/notifications/read", notificationsHandler)
	mux.Handle("GET /ws/notifications", notificationStream)
	mux.Handle("POST /api/sync", syncHandler)
	mux.Handle("POST /api/assistant", assistantHandler)
	mux.Handle("/metrics", promhttp.Handler())

	// Health and readiness endpoints (no auth required)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		// The snapshot store is embedded; once the aggregate is loaded
		// the process is ready regardless of the sync remote.
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ready"))
	})

	// CORS middleware honoring configured origins
	handlerWithCORS := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if originAllowed(cfg.CORSAllowedOrigins, origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		} else if len(cfg.CORSAllowedOrigins) > 0 {
			w.Header().Set("Access-Control-Allow-Origin", cfg.CORSAllowedOrigins[0])
		}
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS, DELETE")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		mux.ServeHTTP(w, r)
	})

	// Chain middleware: request ID -> audit -> rate limit -> JWT -> content type -> metrics -> CORS
	rootHandler := withRequestID(
		middleware.AuditMiddleware(auditLogger)(
			middleware.RateLimitMiddleware(rateLimiter, log)(
				middleware.JWTMiddleware(tokenManager, log)(
					middleware.ValidateJSONContentType(log)(
						metrics.HTTPMetricsMiddleware(handlerWithCORS),
					),
				),
			),
		),
		log,
	)

	// 9. Start the sync worker in background. FLAG_DISABLE_AUTO_SYNC
	// leaves only the manual sync endpoint.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if !featureflags.Enabled("disable_auto_sync") {
		syncWorker := worker.NewSyncWorker(
			syncService,
			log,
			time.Duration(cfg.SyncIntervalMinutes)*time.Minute,
		)
		go syncWorker.Start(ctx)
	} else {
		log.Info("auto sync disabled, relying on manual sync requests")
	}

	// 10. Start HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      rootHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info("server starting",
		slog.Int("port", cfg.ServerPort),
		slog.String("auth", "jwt"),
		slog.String("data_dir", cfg.DataDir),
		slog.Bool("remote_configured", cfg.RemoteURL != ""),
	)

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", slog.String("error", err.Error()))
		}
	}()

	// Wait for shutdown signal
	<-sigChan
	log.Info("shutdown signal received")

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", slog.String("error", err.Error()))
	}

	cancel() // Stop sync worker
	rateLimiter.Stop()
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Warn("tracing shutdown error", slog.String("error", err.Error()))
	}
	log.Info("server stopped")
}

type requestIDKey struct{}

// withRequestID attaches a request ID to the context and response headers for traceability
func withRequestID(next http.Handler, log *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := generateRequestID()
		w.Header().Set("X-Request-ID", reqID)

		ctx := context.WithValue(r.Context(), requestIDKey{}, reqID)
		start := time.Now()

		next.ServeHTTP(w, r.WithContext(ctx))

		log.Info("request completed",
			slog.String("request_id", reqID),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Duration("duration_ms", time.Since(start)),
		)
	})
}

func originAllowed(allowed []string, origin string) bool {
	if origin == "" {
		return false
	}
	for _, a := range allowed {
		if a == "*" || a == origin {
			return true
		}
	}
	return false
}

func generateRequestID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err == nil {
		return hex.EncodeToString(buf)
	}
	return fmt.Sprintf("req-%d", time.Now().UnixNano())
}
