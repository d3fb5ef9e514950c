package config

import (
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("CART_TTL_SECONDS", "")
	t.Setenv("CORS_ORIGINS", "")
	cfg := FromEnv()
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("expected default addr, got %q", cfg.HTTPAddr)
	}
	if cfg.CartTTL != 30*time.Minute {
		t.Fatalf("expected 30m cart ttl, got %s", cfg.CartTTL)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Fatalf("expected wildcard cors, got %v", cfg.CORSOrigins)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("CART_TTL_SECONDS", "60")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "bogus")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("REDIS_DB", "2")
	cfg := FromEnv()
	if cfg.HTTPAddr != ":9090" {
		t.Fatalf("expected override addr, got %q", cfg.HTTPAddr)
	}
	if cfg.CartTTL != time.Minute {
		t.Fatalf("expected 1m cart ttl, got %s", cfg.CartTTL)
	}
	if cfg.RequestTimeout != 15*time.Second {
		t.Fatalf("expected default request timeout on bad value, got %s", cfg.RequestTimeout)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected cors origins %v", cfg.CORSOrigins)
	}
	if cfg.RedisDB != 2 {
		t.Fatalf("expected redis db 2, got %d", cfg.RedisDB)
	}
}
