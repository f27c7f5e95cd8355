package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	Port             string
	Env              string
	LogLevel         string
	CORSAllowOrigin  []string
	TrustedProxies   []string
	ObjectStoreType  string
	LocalStoreDir    string
	AWSRegion        string
	S3Bucket         string
	S3Prefix         string
	SSEKMSKeyID      string
	DatabaseURL      string
	RedisURL         string
	RedisPassword    string
	QueueURL         string
	MaxUploadBytes   int64
	UploadRatePerSec float64
	UploadRateBurst  int
	ShutdownTimeout  time.Duration
	WebUploadEnabled bool
	JobSearch        JobSearch
}

// JobSearch configures the job-board search stage of a scan.
type JobSearch struct {
	Location      string
	Experience    int
	Pages         int
	Timeout       time.Duration
	CacheTTL      time.Duration
	NaukriEnabled bool
	NaukriBaseURL string
	AdzunaAppID   string
	AdzunaAppKey  string
	AdzunaCountry string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience; existing env wins.
	for _, path := range []string{".env", "cmd/.env"} {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
		}
	}

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}

	return Config{
		Port:             getEnv("PORT", "8080"),
		Env:              env,
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		CORSAllowOrigin:  splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "*")),
		TrustedProxies:   splitAndTrim(getEnv("TRUSTED_PROXIES", "")),
		ObjectStoreType:  normalizeStoreType(getEnv("OBJECT_STORE", "local")),
		LocalStoreDir:    getEnv("LOCAL_STORE_DIR", "./data"),
		AWSRegion:        getEnv("AWS_REGION", ""),
		S3Bucket:         getEnv("S3_BUCKET", ""),
		S3Prefix:         getEnv("S3_PREFIX", ""),
		SSEKMSKeyID:      getEnv("SSE_KMS_KEY_ID", ""),
		DatabaseURL:      dbURL,
		RedisURL:         getEnv("REDIS_URL", ""),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		QueueURL:         strings.TrimSpace(getEnv("RA_SQS_QUEUE_URL", "")),
		MaxUploadBytes:   int64(getEnvInt("MAX_UPLOAD_BYTES", 10<<20)),
		UploadRatePerSec: getEnvFloat("UPLOAD_RATE_PER_SEC", 0.5),
		UploadRateBurst:  getEnvInt("UPLOAD_RATE_BURST", 5),
		ShutdownTimeout:  getEnvDuration("SHUTDOWN_TIMEOUT", 15*time.Second),
		WebUploadEnabled: getEnvBool("WEB_UPLOAD_ENABLED", true),
		JobSearch: JobSearch{
			Location:      getEnv("JOB_SEARCH_LOCATION", "Bangalore"),
			Experience:    getEnvInt("JOB_SEARCH_EXPERIENCE", 2),
			Pages:         getEnvInt("JOB_SEARCH_PAGES", 3),
			Timeout:       getEnvDuration("JOB_SEARCH_TIMEOUT", 20*time.Second),
			CacheTTL:      getEnvDuration("JOB_CACHE_TTL", 30*time.Minute),
			NaukriEnabled: getEnvBool("NAUKRI_ENABLED", true),
			NaukriBaseURL: getEnv("NAUKRI_BASE_URL", "https://www.naukri.com"),
			AdzunaAppID:   getEnv("ADZUNA_APP_ID", ""),
			AdzunaAppKey:  getEnv("ADZUNA_APP_KEY", ""),
			AdzunaCountry: getEnv("ADZUNA_COUNTRY", "in"),
		},
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("config env %s invalid int: %v", key, err)
		return def
	}
	return val
}

func getEnvFloat(key string, def float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Printf("config env %s invalid float: %v", key, err)
		return def
	}
	return val
}

func getEnvBool(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.ParseBool(raw)
	if err != nil {
		log.Printf("config env %s invalid bool: %v", key, err)
		return def
	}
	return val
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("config env %s invalid duration: %v", key, err)
		return def
	}
	return val
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
	case "development", "dev":
		return "dev"
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

// IsDevLike reports whether env allows in-memory fallbacks.
func (c Config) IsDevLike() bool {
	switch c.Env {
	case "dev", "local":
		return true
	default:
		return false
	}
}
