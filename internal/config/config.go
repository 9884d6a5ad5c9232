package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/smallbiznis/facture/pkg/db"
)

// Config is the full runtime configuration, loaded from the environment
// (optionally seeded from a .env file in development).
type Config struct {
	AppName  string
	HTTPAddr string
	Debug    bool

	DB db.Config

	Auth      AuthConfig
	Gateway   GatewayConfig
	Scheduler SchedulerConfig
	Telemetry TelemetryConfig
	Seed      SeedConfig
}

// AuthConfig controls the bearer-token authentication layer.
type AuthConfig struct {
	// Disabled turns off auth entirely. Intended for local development.
	Disabled bool
}

// GatewayConfig configures the outbound payment gateway client.
type GatewayConfig struct {
	Provider string
	KeyID    string
	Secret   string
	BaseURL  string
	Currency string
	Timeout  time.Duration
}

// SchedulerConfig controls the background issue-queue drainer.
type SchedulerConfig struct {
	Interval  time.Duration
	BatchSize int
}

// TelemetryConfig selects the OTLP metric exporter.
type TelemetryConfig struct {
	Exporter string // "grpc", "http" or "" for none
	Endpoint string
}

// SeedConfig bootstraps the first API user when the users table is empty.
type SeedConfig struct {
	UserName  string
	UserEmail string
	UserToken string
}

// Load reads configuration from the environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		AppName:  getEnv("APP_NAME", "facture"),
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
		Debug:    getBool("APP_DEBUG", false),
		DB: db.Config{
			Driver:          getEnv("DB_DRIVER", "postgres"),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "facture"),
			Password:        getEnv("DB_PASSWORD", ""),
			Name:            getEnv("DB_NAME", "facture"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			DSN:             getEnv("DB_DSN", ""),
			MaxOpenConns:    getInt("DB_MAX_OPEN_CONNS", 20),
			MaxIdleConns:    getInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Auth: AuthConfig{
			Disabled: getBool("AUTH_DISABLED", false),
		},
		Gateway: GatewayConfig{
			Provider: getEnv("GATEWAY_PROVIDER", "razorpay"),
			KeyID:    getEnv("RAZORPAY_KEY_ID", ""),
			Secret:   getEnv("RAZORPAY_KEY_SECRET", ""),
			BaseURL:  getEnv("RAZORPAY_BASE_URL", "https://api.razorpay.com"),
			Currency: getEnv("GATEWAY_CURRENCY", "INR"),
			Timeout:  getDuration("GATEWAY_TIMEOUT", 10*time.Second),
		},
		Scheduler: SchedulerConfig{
			Interval:  getDuration("ISSUE_QUEUE_INTERVAL", 30*time.Second),
			BatchSize: getInt("ISSUE_QUEUE_BATCH", 20),
		},
		Telemetry: TelemetryConfig{
			Exporter: getEnv("OTEL_EXPORTER", ""),
			Endpoint: getEnv("OTEL_ENDPOINT", "localhost:4317"),
		},
		Seed: SeedConfig{
			UserName:  getEnv("SEED_USER_NAME", ""),
			UserEmail: getEnv("SEED_USER_EMAIL", ""),
			UserToken: getEnv("SEED_USER_TOKEN", ""),
		},
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
