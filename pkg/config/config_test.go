package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if !cfg.App.IsDev() {
		t.Fatalf("expected dev env by default, got %q", cfg.App.Env)
	}
	if cfg.Backend.BaseURL != "https://maobe-pedidos.onrender.com" {
		t.Fatalf("unexpected backend base url %q", cfg.Backend.BaseURL)
	}
	if cfg.Catalog.DefaultSlug != "demo" {
		t.Fatalf("expected demo default slug, got %q", cfg.Catalog.DefaultSlug)
	}
	if cfg.Messaging.Domain != "wa.me" {
		t.Fatalf("unexpected messaging domain %q", cfg.Messaging.Domain)
	}
	if cfg.Redis.Enabled() {
		t.Fatalf("redis should be disabled without url or address")
	}
	if got := cfg.App.LogOutputFormat(); got != LogFormatConsole {
		t.Fatalf("expected console logs in dev, got %q", got)
	}
	if cfg.Sessions.MaxActive != 10000 || cfg.Sessions.OpenRateLimit != 30 || cfg.Sessions.OpenRateLimitWindow != time.Minute {
		t.Fatalf("unexpected session defaults %+v", cfg.Sessions)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv(EnvAppEnv, "prod")
	t.Setenv(EnvPort, "9090")
	t.Setenv(EnvBackendBaseURL, "http://backend.test")
	t.Setenv(EnvBackendTimeout, "3s")
	t.Setenv(EnvRedisURL, "redis://localhost:6379/0")
	t.Setenv(EnvCheckoutLimit, "3")
	t.Setenv(EnvCatalogOrigin, "https://tienda.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if !cfg.App.IsProd() || cfg.App.Port != "9090" {
		t.Fatalf("unexpected app config %+v", cfg.App)
	}
	if cfg.Backend.Timeout != 3*time.Second {
		t.Fatalf("expected 3s timeout, got %v", cfg.Backend.Timeout)
	}
	if !cfg.Redis.Enabled() {
		t.Fatalf("expected redis enabled")
	}
	if cfg.Checkout.RateLimit != 3 {
		t.Fatalf("expected checkout limit 3, got %d", cfg.Checkout.RateLimit)
	}
	if got := cfg.App.LogOutputFormat(); got != LogFormatJSON {
		t.Fatalf("expected json logs outside dev, got %q", got)
	}
}

func TestLoad_ProdRequiresHTTPSCatalogOrigin(t *testing.T) {
	t.Setenv(EnvAppEnv, "prod")
	t.Setenv(EnvCatalogOrigin, "http://tienda.example.com")
	if _, err := Load(); err == nil {
		t.Fatal("expected plain http catalog origin to be rejected in prod")
	}
}

func TestLoad_RejectsRelativeBackendURL(t *testing.T) {
	t.Setenv(EnvBackendBaseURL, "/relative")
	if _, err := Load(); err == nil {
		t.Fatal("expected relative backend url to be rejected")
	}
}

func TestLoad_RejectsRelativeCatalogOrigin(t *testing.T) {
	t.Setenv(EnvCatalogOrigin, "localhost")
	if _, err := Load(); err == nil {
		t.Fatal("expected relative catalog origin to be rejected")
	}
}
