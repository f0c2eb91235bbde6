package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONDUIT_ADDR", "")
	t.Setenv("PORT", "")

	cfg := Load()

	if cfg.Addr != ":8080" {
		t.Fatalf("expected default addr :8080, got %q", cfg.Addr)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Fatalf("expected default token TTL 24h, got %v", cfg.TokenTTL)
	}
	if cfg.DBTimeout != 3*time.Second {
		t.Fatalf("expected default db timeout 3s, got %v", cfg.DBTimeout)
	}
	if cfg.JWTIssuer != "conduit" {
		t.Fatalf("expected default issuer conduit, got %q", cfg.JWTIssuer)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("CONDUIT_ADDR", ":9999")
	t.Setenv("CONDUIT_DB_DSN", "postgres://example/db")
	t.Setenv("CONDUIT_JWT_SECRET", "s3cret")
	t.Setenv("CONDUIT_TOKEN_TTL", "30m")
	t.Setenv("CONDUIT_DB_TIMEOUT", "5s")

	cfg := Load()

	if cfg.Addr != ":9999" {
		t.Fatalf("expected addr :9999, got %q", cfg.Addr)
	}
	if cfg.DSN != "postgres://example/db" {
		t.Fatalf("unexpected dsn %q", cfg.DSN)
	}
	if cfg.JWTSecret != "s3cret" {
		t.Fatalf("unexpected secret %q", cfg.JWTSecret)
	}
	if cfg.TokenTTL != 30*time.Minute {
		t.Fatalf("unexpected ttl %v", cfg.TokenTTL)
	}
	if cfg.DBTimeout != 5*time.Second {
		t.Fatalf("unexpected timeout %v", cfg.DBTimeout)
	}
}

func TestPortFallback(t *testing.T) {
	t.Setenv("PORT", "3000")

	cfg := Load()
	if cfg.Addr != ":3000" {
		t.Fatalf("expected PORT fallback :3000, got %q", cfg.Addr)
	}
}

func TestBadDurationFallsBackToDefault(t *testing.T) {
	t.Setenv("CONDUIT_TOKEN_TTL", "not-a-duration")

	cfg := Load()
	if cfg.TokenTTL != 24*time.Hour {
		t.Fatalf("expected default ttl on parse failure, got %v", cfg.TokenTTL)
	}
}
