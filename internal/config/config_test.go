package config

import (
	"testing"
)

func TestLoad_RequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(t.TempDir()); err == nil {
		t.Fatal("expected error when JWT_SECRET is unset")
	}
}

func TestLoad_DefaultsApply(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("PORT", "")
	t.Setenv("LOG_LEVEL", "")

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Port == "" {
		t.Error("expected default port")
	}
	if cfg.TokenDurationHours != 24 {
		t.Errorf("TokenDurationHours = %d, want 24", cfg.TokenDurationHours)
	}
	if cfg.DBPath == "" {
		t.Error("expected default db path")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("PORT", "9090")
	t.Setenv("TOKEN_DURATION_HOURS", "72")
	t.Setenv("ADMIN_EMAIL", "admin@example.com")

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Port)
	}
	if cfg.TokenDurationHours != 72 {
		t.Errorf("TokenDurationHours = %d, want 72", cfg.TokenDurationHours)
	}
	if cfg.AdminEmail != "admin@example.com" {
		t.Errorf("AdminEmail = %q", cfg.AdminEmail)
	}
}
