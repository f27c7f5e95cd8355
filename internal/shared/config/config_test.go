package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENV", "")
	t.Setenv("CORS_ALLOW_ORIGINS", "")
	t.Setenv("JOB_SEARCH_LOCATION", "")

	cfg := Load()
	if cfg.Env != "dev" {
		t.Fatalf("expected env dev, got %q", cfg.Env)
	}
	if len(cfg.CORSAllowOrigin) != 1 || cfg.CORSAllowOrigin[0] != "*" {
		t.Fatalf("unexpected CORS origins: %v", cfg.CORSAllowOrigin)
	}
	if cfg.JobSearch.Location != "Bangalore" || cfg.JobSearch.Experience != 2 || cfg.JobSearch.Pages != 3 {
		t.Fatalf("unexpected job search defaults: %+v", cfg.JobSearch)
	}
	if cfg.MaxUploadBytes != 10<<20 {
		t.Fatalf("unexpected max upload bytes: %d", cfg.MaxUploadBytes)
	}
	if !cfg.IsDevLike() {
		t.Fatalf("expected dev-like config")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ENV", "prod")
	t.Setenv("OBJECT_STORE", "S3")
	t.Setenv("CORS_ALLOW_ORIGINS", "http://localhost:3000, http://127.0.0.1:3000 ,")
	t.Setenv("JOB_SEARCH_PAGES", "5")
	t.Setenv("JOB_CACHE_TTL", "5m")
	t.Setenv("NAUKRI_ENABLED", "false")
	t.Setenv("JOB_SEARCH_EXPERIENCE", "not-a-number")

	cfg := Load()
	if cfg.Env != "production" {
		t.Fatalf("expected production, got %q", cfg.Env)
	}
	if cfg.ObjectStoreType != "s3" {
		t.Fatalf("expected s3 store, got %q", cfg.ObjectStoreType)
	}
	if len(cfg.CORSAllowOrigin) != 2 {
		t.Fatalf("expected 2 origins, got %v", cfg.CORSAllowOrigin)
	}
	if cfg.JobSearch.Pages != 5 {
		t.Fatalf("expected 5 pages, got %d", cfg.JobSearch.Pages)
	}
	if cfg.JobSearch.CacheTTL != 5*time.Minute {
		t.Fatalf("expected 5m ttl, got %s", cfg.JobSearch.CacheTTL)
	}
	if cfg.JobSearch.NaukriEnabled {
		t.Fatalf("expected naukri disabled")
	}
	if cfg.JobSearch.Experience != 2 {
		t.Fatalf("expected invalid int to fall back to default, got %d", cfg.JobSearch.Experience)
	}
	if cfg.IsDevLike() {
		t.Fatalf("production must not be dev-like")
	}
}
