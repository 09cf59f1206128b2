package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("SYNC_INTERVAL_MINUTES", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ServerPort != 8080 {
		t.Fatalf("expected default port 8080, got %d", cfg.ServerPort)
	}
	if cfg.SyncIntervalMinutes != 5 {
		t.Fatalf("expected default sync interval 5, got %d", cfg.SyncIntervalMinutes)
	}
	if cfg.DataDir != "./data" {
		t.Fatalf("expected default data dir, got %s", cfg.DataDir)
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		t.Fatal("expected default CORS origins")
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9001")
	t.Setenv("SYNC_INTERVAL_MINUTES", "15")
	t.Setenv("REMOTE_REDIS_URL", "redis://remote:6379/0")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.com, https://staging.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ServerPort != 9001 {
		t.Fatalf("expected port 9001, got %d", cfg.ServerPort)
	}
	if cfg.SyncIntervalMinutes != 15 {
		t.Fatalf("expected sync interval 15, got %d", cfg.SyncIntervalMinutes)
	}
	if cfg.RemoteURL != "redis://remote:6379/0" {
		t.Fatalf("unexpected remote url: %s", cfg.RemoteURL)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://staging.example.com" {
		t.Fatalf("CSV origins not parsed: %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadRejectsInvalidPort(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-port")
	if _, err := Load(); err == nil {
		t.Fatal("expected an error for an invalid port")
	}
}
