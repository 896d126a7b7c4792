package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string

	// Billing provider.
	StripeAPIKey string
	// Public site origin used to build checkout redirect URLs.
	AppBaseURL string

	// Upstream transcription inference endpoint.
	TranscribeEndpoint string
	TranscribeAPIKey   string
	TranscribeModel    string
	TranscribeTimeout  time.Duration

	// Client-side split threshold, bytes. Mirrors the upstream API's
	// maximum accepted file size.
	ChunkThreshold int64

	DBType     string
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string
}

// Load loads configuration from environment variables and .env file.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		AppName:     getenv("APP_SERVICE", "transcribe"),
		AppVersion:  getenv("APP_VERSION", "0.1.0"),
		Environment: getenv("ENVIRONMENT", "development"),
		HTTPAddr:    getenv("HTTP_ADDR", ":8080"),

		StripeAPIKey: strings.TrimSpace(getenv("STRIPE_API_KEY", "")),
		AppBaseURL:   strings.TrimRight(getenv("APP_BASE_URL", "https://transcribeai.app"), "/"),

		TranscribeEndpoint: getenv("OPENAI_TRANSCRIBE_URL", "https://api.openai.com/v1/audio/transcriptions"),
		TranscribeAPIKey:   strings.TrimSpace(getenv("OPENAI_API_KEY", "")),
		TranscribeModel:    getenv("OPENAI_TRANSCRIBE_MODEL", "whisper-1"),
		TranscribeTimeout:  getenvDuration("OPENAI_TRANSCRIBE_TIMEOUT", 120*time.Second),

		ChunkThreshold: getenvInt64("CHUNK_THRESHOLD_BYTES", 25_000_000),

		DBType:     getenv("DATABASE_TYPE", "postgres"),
		DBHost:     getenv("DATABASE_HOST", "localhost"),
		DBPort:     getenv("DATABASE_PORT", "5432"),
		DBName:     getenv("DATABASE_NAME", "transcribe"),
		DBUser:     getenv("DATABASE_USER", "postgres"),
		DBPassword: getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:  getenv("DATABASE_SSLMODE", "disable"),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt64(key string, def int64) int64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return def
	}
	return parsed
}

func getenvDuration(key string, def time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return def
	}
	return parsed
}
