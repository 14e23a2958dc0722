package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pro5598/Gearnixx-sub000/orders-service/internal/repository"
)

type Config struct {
	HTTPPort string
	LogLevel string

	DB repository.Credentials

	// KafkaBrokers is empty when order-placed events are not published.
	KafkaBrokers []string

	// PaymentApprovalRate is the percentage of payments the simulator approves.
	PaymentApprovalRate int

	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

// Load reads the environment, after an optional .env file in the working directory.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort: getEnv("HTTP_PORT", "8081"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		DB: repository.Credentials{
			Host:     getEnv("DB_HOST", "localhost"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "ecommerce"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		KafkaBrokers: splitCSV(getEnv("KAFKA_BROKERS", "")),
	}

	var err error
	if cfg.DB.Port, err = getInt("DB_PORT", 5432); err != nil {
		return nil, err
	}
	if cfg.PaymentApprovalRate, err = getInt("PAYMENT_APPROVAL_RATE", 95); err != nil {
		return nil, err
	}
	if cfg.PaymentApprovalRate < 0 || cfg.PaymentApprovalRate > 100 {
		return nil, fmt.Errorf("PAYMENT_APPROVAL_RATE must be within 0..100, got %d", cfg.PaymentApprovalRate)
	}
	if cfg.RequestTimeout, err = getDuration("REQUEST_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = getDuration("SHUTDOWN_TIMEOUT", 5*time.Second); err != nil {
		return nil, err
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
