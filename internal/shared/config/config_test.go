package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("UPLOAD_NAMING", "")
	t.Setenv("INFERENCE_TIMEOUT", "")

	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.Port)
	}
	if cfg.UploadNaming != NamingOverwrite {
		t.Fatalf("expected overwrite naming, got %q", cfg.UploadNaming)
	}
	if cfg.InferenceTimeout != 15*time.Second {
		t.Fatalf("expected 15s inference timeout, got %s", cfg.InferenceTimeout)
	}
	if cfg.UploadRetention != 0 {
		t.Fatalf("expected retention disabled by default, got %s", cfg.UploadRetention)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ENV", "prod")
	t.Setenv("OBJECT_STORE", "S3")
	t.Setenv("UPLOAD_NAMING", "uuid")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("MODEL_POOL_SIZE", "4")
	t.Setenv("CORS_ALLOW_ORIGINS", "http://a.test, http://b.test,")

	cfg := Load()
	if !cfg.IsProduction() {
		t.Fatalf("expected production env, got %q", cfg.Env)
	}
	if cfg.ObjectStoreType != "s3" {
		t.Fatalf("expected s3 store, got %q", cfg.ObjectStoreType)
	}
	if cfg.UploadNaming != NamingUnique {
		t.Fatalf("expected unique naming, got %q", cfg.UploadNaming)
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Fatalf("expected 30m session ttl, got %s", cfg.SessionTTL)
	}
	if cfg.ModelPoolSize != 4 {
		t.Fatalf("expected pool size 4, got %d", cfg.ModelPoolSize)
	}
	if len(cfg.CORSAllowOrigin) != 2 {
		t.Fatalf("expected 2 origins, got %v", cfg.CORSAllowOrigin)
	}
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("SESSION_TTL", "forever")
	t.Setenv("MODEL_THREADS", "-3")

	cfg := Load()
	if cfg.SessionTTL != 24*time.Hour {
		t.Fatalf("expected default ttl, got %s", cfg.SessionTTL)
	}
	if cfg.ModelThreads != 2 {
		t.Fatalf("expected default threads, got %d", cfg.ModelThreads)
	}
}
