package config

import (
	"testing"
	"time"
)

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_ACCESS_SECRET", "secret")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when DATABASE_URL is empty")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/rental")
	t.Setenv("JWT_ACCESS_SECRET", "secret")
	t.Setenv("SMTP_HOST", "")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.GetTokenizerTimeout() != 5*time.Second {
		t.Fatalf("expected tokenizer timeout 5s, got %s", cfg.GetTokenizerTimeout())
	}
	if cfg.GetEmailEnabled() {
		t.Fatal("expected email to be disabled without SMTP_HOST")
	}
	if len(cfg.GetCORSOrigins()) != 2 || cfg.GetCORSOrigins()[1] != "http://b.test" {
		t.Fatalf("unexpected CORS origins %v", cfg.GetCORSOrigins())
	}
	if cfg.GetAdminRole() != "admin" {
		t.Fatalf("expected admin role default, got %q", cfg.GetAdminRole())
	}
}

func TestLoadRejectsWildcardWithCredentials(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/rental")
	t.Setenv("JWT_ACCESS_SECRET", "secret")
	t.Setenv("CORS_ORIGINS", "*")
	t.Setenv("CORS_ALLOW_CREDENTIALS", "true")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for wildcard origins with credentials")
	}
}
