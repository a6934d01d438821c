package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	Port           string
	AllowedOrigins string

	DatabaseURL string
	RedisURL    string

	JWTSecret string

	MeiliSearchHost string
	MeiliMasterKey  string

	ResendAPIKey string
	MailFrom     string

	FirebaseCredentials string

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string

	// AuthTimeout bounds login/signup; a slow backend surfaces a distinct
	// timeout error instead of hanging the client.
	AuthTimeout time.Duration

	// DigestCron is the schedule for the daily activity digest, evaluated
	// in JST (midnight-to-midnight window).
	DigestCron string

	RateLimitEventCreate time.Duration
}

func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		MeiliSearchHost: getEnv("MEILISEARCH_HOST", "http://localhost:7700"),
		MeiliMasterKey:  os.Getenv("MEILI_MASTER_KEY"),

		ResendAPIKey: os.Getenv("RESEND_API_KEY"),
		MailFrom:     getEnv("MAIL_FROM", "DAP <noreply@dap.app>"),

		FirebaseCredentials: os.Getenv("FIREBASE_CREDENTIALS"),

		CloudinaryCloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:    os.Getenv("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret: os.Getenv("CLOUDINARY_API_SECRET"),

		DigestCron: getEnv("DIGEST_CRON", "0 0 * * *"),
	}

	var err error
	cfg.AuthTimeout, err = time.ParseDuration(getEnv("AUTH_TIMEOUT", "15s"))
	if err != nil {
		return nil, fmt.Errorf("invalid AUTH_TIMEOUT: %w", err)
	}
	cfg.RateLimitEventCreate, err = time.ParseDuration(getEnv("RATE_LIMIT_EVENT_CREATE", "1m"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_EVENT_CREATE: %w", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
