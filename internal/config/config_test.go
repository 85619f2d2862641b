package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "DOCFMT_API_KEY", "WORKER_COUNT", "DOC_CACHE_SIZE", "DOC_CACHE_TTL", "STRICT_DECODE"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	if cfg.Port != "8090" {
		t.Fatalf("expected port 8090, got %q", cfg.Port)
	}
	if cfg.WorkerCount != 4 || cfg.DocCacheSize != 256 {
		t.Fatalf("expected defaults, got workers=%d cache=%d", cfg.WorkerCount, cfg.DocCacheSize)
	}
	if cfg.DocCacheTTL != 24*time.Hour {
		t.Fatalf("expected 24h cache ttl, got %v", cfg.DocCacheTTL)
	}
	if cfg.StrictDecode {
		t.Fatalf("expected lenient decoding by default")
	}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for missing api key")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DOCFMT_API_KEY", "secret")
	t.Setenv("WORKER_COUNT", "-2")
	t.Setenv("DOC_CACHE_TTL", "90s")
	t.Setenv("STRICT_DECODE", "true")
	t.Setenv("MAX_UPLOAD_BYTES", "not-a-number")
	cfg := Load()
	if cfg.WorkerCount != 4 {
		t.Fatalf("expected non-positive worker count to reset to 4, got %d", cfg.WorkerCount)
	}
	if cfg.DocCacheTTL != 90*time.Second {
		t.Fatalf("expected 90s, got %v", cfg.DocCacheTTL)
	}
	if !cfg.StrictDecode {
		t.Fatalf("expected strict decoding")
	}
	if cfg.MaxUploadBytes != 52428800 {
		t.Fatalf("expected fallback upload limit, got %d", cfg.MaxUploadBytes)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
