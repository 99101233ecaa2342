package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ENV", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("EVENTS_BACKEND", "")
	t.Setenv("SESSION_TTL", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.EventsBackend != "none" {
		t.Fatalf("expected events disabled by default, got %s", cfg.EventsBackend)
	}
	if cfg.SessionTTL != 2*time.Hour {
		t.Fatalf("expected default session ttl, got %s", cfg.SessionTTL)
	}
	if cfg.CurrencySymbol != "R$" {
		t.Fatalf("expected default currency symbol, got %s", cfg.CurrencySymbol)
	}
	if len(cfg.CORSAllowedOrigins) != 0 {
		t.Fatalf("expected no CORS origins, got %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("EVENTS_BACKEND", " Redis ")
	t.Setenv("EVENTS_MAX_LEN", "50")
	t.Setenv("SESSION_TTL", "45m")
	t.Setenv("DEMO_SEED_APPOINTMENTS", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("EMAIL_PROVIDER", "SES")
	t.Setenv("SESSION_CREATE_PER_MINUTE", "30")
	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("expected override port, got %s", cfg.Port)
	}
	if cfg.EventsBackend != "redis" {
		t.Fatalf("expected normalised events backend, got %q", cfg.EventsBackend)
	}
	if cfg.EventsMaxLen != 50 {
		t.Fatalf("expected events max len override, got %d", cfg.EventsMaxLen)
	}
	if cfg.SessionTTL != 45*time.Minute {
		t.Fatalf("expected session ttl override, got %s", cfg.SessionTTL)
	}
	if !cfg.DemoSeed {
		t.Fatalf("expected demo seed enabled")
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected CORS origins %v", cfg.CORSAllowedOrigins)
	}
	if cfg.EmailProvider != "ses" {
		t.Fatalf("expected email provider override, got %s", cfg.EmailProvider)
	}
	if cfg.SessionCreatePerMinute != 30 || cfg.SessionCreateBurst != 10 {
		t.Fatalf("unexpected session create limit %d/%d", cfg.SessionCreatePerMinute, cfg.SessionCreateBurst)
	}
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("EVENTS_MAX_LEN", "lots")
	t.Setenv("SESSION_TTL", "forever")
	cfg := Load()
	if cfg.EventsMaxLen != 10000 {
		t.Fatalf("expected default max len, got %d", cfg.EventsMaxLen)
	}
	if cfg.SessionTTL != 2*time.Hour {
		t.Fatalf("expected default ttl, got %s", cfg.SessionTTL)
	}
}
