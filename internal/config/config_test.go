package config

import "testing"

func TestLoadDoesNotInjectWeakAuthDefaults(t *testing.T) {
	t.Setenv("AUTH_SECRET", "")

	cfg := Load()
	if cfg.AuthSecret != "" {
		t.Fatalf("expected empty AUTH_SECRET when unset, got %q", cfg.AuthSecret)
	}
}

func TestLoadWindowDefaults(t *testing.T) {
	t.Setenv("DEFAULT_WINDOW_DAYS", "")
	t.Setenv("DEFAULT_PERIOD_DAYS", "-3")
	t.Setenv("VIEW_CACHE_TTL_SECONDS", "abc")

	cfg := Load()
	if cfg.DefaultWindowDays != 7 {
		t.Fatalf("expected window default 7, got %d", cfg.DefaultWindowDays)
	}
	if cfg.DefaultPeriodDays != 30 {
		t.Fatalf("expected period default 30 for invalid input, got %d", cfg.DefaultPeriodDays)
	}
	if cfg.ViewCacheTTLSeconds != 600 {
		t.Fatalf("expected cache ttl default 600, got %d", cfg.ViewCacheTTLSeconds)
	}
}

func TestLoadReadsOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DEFAULT_WINDOW_DAYS", "30")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("GEMINI_MODEL", " gemini-1.5-pro ")

	cfg := Load()
	if cfg.Address() != ":9090" {
		t.Fatalf("unexpected address %q", cfg.Address())
	}
	if cfg.DefaultWindowDays != 30 || cfg.RedisDB != 2 {
		t.Fatalf("unexpected overrides %+v", cfg)
	}
	if cfg.GeminiModel != "gemini-1.5-pro" {
		t.Fatalf("expected trimmed model name, got %q", cfg.GeminiModel)
	}
}
