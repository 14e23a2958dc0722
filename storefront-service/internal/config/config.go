package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pro5598/Gearnixx-sub000/storefront-service/internal/checkout"
	"github.com/shopspring/decimal"
)

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
	BackendMongo  = "mongo"
)

type Config struct {
	HTTPPort         string
	OrdersServiceURL string
	LogLevel         string

	StorageBackend string
	RedisAddr      string
	RedisPassword  string
	RedisTTL       time.Duration
	SQLitePath     string
	MongoURI       string
	MongoDBName    string

	// KafkaBrokers is empty when the order-placed poller is disabled.
	KafkaBrokers []string

	Pricing      checkout.Pricing
	AccountTypes []string

	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

// Load reads the environment, after an optional .env file in the working directory.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort:         getEnv("HTTP_PORT", "8080"),
		OrdersServiceURL: getEnv("ORDERS_SERVICE_URL", "http://localhost:8081"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		StorageBackend:   strings.ToLower(getEnv("STORAGE_BACKEND", BackendMemory)),
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		SQLitePath:       getEnv("SQLITE_PATH", "storefront.db"),
		MongoURI:         getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:      getEnv("MONGO_DB_NAME", "storefront"),
		KafkaBrokers:     splitCSV(getEnv("KAFKA_BROKERS", "")),
		AccountTypes:     splitCSV(getEnv("ACCOUNT_TYPES", "savings,checking")),
	}

	switch cfg.StorageBackend {
	case BackendMemory, BackendRedis, BackendSQLite, BackendMongo:
	default:
		return nil, fmt.Errorf("unknown STORAGE_BACKEND %q", cfg.StorageBackend)
	}

	var err error
	if cfg.RedisTTL, err = getDuration("REDIS_TTL", 30*24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.RequestTimeout, err = getDuration("REQUEST_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = getDuration("SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}

	defaults := checkout.DefaultPricing()
	if cfg.Pricing.ShippingFee, err = getDecimal("SHIPPING_FEE", defaults.ShippingFee); err != nil {
		return nil, err
	}
	if cfg.Pricing.FreeShippingThreshold, err = getDecimal("FREE_SHIPPING_THRESHOLD", defaults.FreeShippingThreshold); err != nil {
		return nil, err
	}
	if cfg.Pricing.TaxRate, err = getDecimal("TAX_RATE", defaults.TaxRate); err != nil {
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

func getDecimal(key string, defaultValue decimal.Decimal) (decimal.Decimal, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(v))
	if err != nil || d.IsNegative() {
		return decimal.Zero, fmt.Errorf("invalid %s: %q", key, v)
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
