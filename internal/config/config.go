package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// holds all runtime configuration for the oracle server
type Config struct {
	DatabaseURL         string
	RedisURL            string
	JWTSecret           string
	Environment         string
	BaseURL             string
	FrontendURL         string
	StripeAPIKey        string
	StripeWebhookSecret string
	SMTPHost            string
	SMTPPort            int
	SMTPUser            string
	SMTPPass            string
}

// loads configuration from environment variables
func LoadEnvironmentVariables() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		_ = err // not an error - production environments may not have .env file
	}

	databaseURL := os.Getenv("DATABASE_URL")
	redisURL := os.Getenv("REDIS_URL")
	jwtSecret := os.Getenv("JWT_SECRET")
	environment := os.Getenv("ENVIRONMENT")
	baseURL := os.Getenv("BASE_URL")
	frontendURL := os.Getenv("FRONTEND_URL")
	stripeKey := os.Getenv("STRIPE_SECRET_KEY")
	stripeWebhookSecret := os.Getenv("STRIPE_WEBHOOK_SECRET")

	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	if redisURL == "" {
		return nil, fmt.Errorf("REDIS_URL environment variable is required")
	}

	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	if environment == "" {
		environment = "development"
	}

	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	if frontendURL == "" {
		frontendURL = "http://localhost:5173"
	}

	return &Config{
		DatabaseURL:         databaseURL,
		RedisURL:            redisURL,
		JWTSecret:           jwtSecret,
		Environment:         environment,
		BaseURL:             baseURL,
		FrontendURL:         frontendURL,
		StripeAPIKey:        stripeKey,
		StripeWebhookSecret: stripeWebhookSecret,
		SMTPHost:            os.Getenv("SMTP_HOST"),
		SMTPPort:            envInt("SMTP_PORT", 587),
		SMTPUser:            os.Getenv("SMTP_USER"),
		SMTPPass:            os.Getenv("SMTP_PASS"),
	}, nil
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}

	var n int
	if _, err := fmt.Sscanf(v, "%d", &n); err != nil {
		return fallback
	}

	return n
}
