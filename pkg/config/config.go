package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Environment         string
	ServerPort          int
	LogLevel            string
	DataDir             string
	RemoteURL           string
	SyncIntervalMinutes int
	JWTSecret           string
	OpenAIKey           string
	AssistantModel      string
	ShareConfig         string
	CORSAllowedOrigins  []string
}

// Load reads configuration from a .env file (if present) and the
// environment. RemoteURL empty means the sync remote is stubbed;
// ShareConfig carries the base64 share-link payload used to provision
// a tenant on first load.
func Load() (*Config, error) {
	// Missing .env is fine; the environment alone is enough.
	_ = godotenv.Load()

	port, err := strconv.Atoi(getEnv("SERVER_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	syncInterval, err := strconv.Atoi(getEnv("SYNC_INTERVAL_MINUTES", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid SYNC_INTERVAL_MINUTES: %w", err)
	}

	return &Config{
		Environment:         getEnv("ENVIRONMENT", "development"),
		ServerPort:          port,
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		DataDir:             getEnv("DATA_DIR", "./data"),
		RemoteURL:           os.Getenv("REMOTE_REDIS_URL"),
		SyncIntervalMinutes: syncInterval,
		JWTSecret:           os.Getenv("JWT_SECRET"),
		OpenAIKey:           os.Getenv("OPENAI_API_KEY"),
		AssistantModel:      os.Getenv("ASSISTANT_MODEL"),
		ShareConfig:         os.Getenv("SHARE_CONFIG"),
		CORSAllowedOrigins: parseCSVEnv("CORS_ALLOWED_ORIGINS", []string{
			"http://localhost:5173",
			"http://localhost:3000",
		}),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseCSVEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			trimmed := strings.TrimSpace(p)
			if trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}
