package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Upload naming policies.
const (
	NamingOverwrite = "overwrite"
	NamingUnique    = "unique"
)

// Config holds application configuration.
type Config struct {
	Port             string
	Env              string
	CORSAllowOrigin  []string
	TrustedProxies   []string
	ObjectStoreType  string
	LocalStoreDir    string
	AWSRegion        string
	S3Bucket         string
	S3Prefix         string
	SSEKMSKeyID      string
	ModelPath        string
	ModelThreads     int
	ModelPoolSize    int
	InferenceTimeout time.Duration
	DiseaseInfoPath  string
	UploadNaming     string
	UploadRetention  time.Duration
	MaxUploadBytes   int64
	SessionCookie    string
	SessionTTL       time.Duration
	SweepInterval    time.Duration
	AnalyzePerMinute float64
	AnalyzeBurst     int
	ShutdownTimeout  time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	return Config{
		Port:             getEnv("PORT", "8080"),
		Env:              normalizeEnv(getEnv("ENV", "dev")),
		CORSAllowOrigin:  splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:8080")),
		TrustedProxies:   splitAndTrim(getEnv("TRUSTED_PROXIES", "")),
		ObjectStoreType:  normalizeStoreType(getEnv("OBJECT_STORE", "local")),
		LocalStoreDir:    getEnv("LOCAL_STORE_DIR", "./static/uploads"),
		AWSRegion:        getEnv("AWS_REGION", ""),
		S3Bucket:         getEnv("S3_BUCKET", ""),
		S3Prefix:         getEnv("S3_PREFIX", "uploads/"),
		SSEKMSKeyID:      getEnv("SSE_KMS_KEY_ID", ""),
		ModelPath:        getEnv("MODEL_PATH", "skin_disease_model.tflite"),
		ModelThreads:     getInt("MODEL_THREADS", 2),
		ModelPoolSize:    getInt("MODEL_POOL_SIZE", 2),
		InferenceTimeout: getDuration("INFERENCE_TIMEOUT", 15*time.Second),
		DiseaseInfoPath:  getEnv("DISEASE_INFO_PATH", ""),
		UploadNaming:     normalizeNaming(getEnv("UPLOAD_NAMING", NamingOverwrite)),
		UploadRetention:  getDuration("UPLOAD_RETENTION", 0),
		MaxUploadBytes:   int64(getInt("MAX_UPLOAD_BYTES", 10<<20)),
		SessionCookie:    getEnv("SESSION_COOKIE", "skin_session"),
		SessionTTL:       getDuration("SESSION_TTL", 24*time.Hour),
		SweepInterval:    getDuration("SWEEP_INTERVAL", 10*time.Minute),
		AnalyzePerMinute: getFloat("ANALYZE_RATE_PER_MINUTE", 30),
		AnalyzeBurst:     getInt("ANALYZE_BURST", 5),
		ShutdownTimeout:  getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

// IsProduction reports whether the service runs with production settings.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		log.Printf("config: invalid %s=%q, using %d", key, raw, def)
		return def
	}
	return v
}

func getFloat(key string, def float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		log.Printf("config: invalid %s=%q, using %g", key, raw, def)
		return def
	}
	return v
}

func getDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := time.ParseDuration(raw)
	if err != nil || v < 0 {
		log.Printf("config: invalid %s=%q, using %s", key, raw, def)
		return def
	}
	return v
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}

func normalizeNaming(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case NamingUnique, "uuid":
		return NamingUnique
	default:
		return NamingOverwrite
	}
}
