package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendDynamoDB = "dynamodb"
)

type Config struct {
	Port               string
	Env                string
	PersistenceBackend string
	RedisURL           string
	CartTTL            time.Duration
	DynamoTable        string
	CartKey            string
	SettlementDelay    time.Duration
	ShippingFee        float64
	DefaultPrice       float64
	KafkaBrokers       []string
	KafkaTopic         string
	NotifySNSTopicARN  string
	OrderSNSTopicARN   string
	CloudWatchEnabled  bool
	LogGroup           string
	RateLimitPerMinute int
	RateLimitBurst     int
}

// Load reads the environment, optionally seeded from a .env file.
func Load() (Config, error) {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := Config{
		Port:               getEnv("PORT", "8090"),
		Env:                getEnv("APP_ENV", "development"),
		PersistenceBackend: strings.ToLower(getEnv("PERSISTENCE_BACKEND", BackendMemory)),
		RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		DynamoTable:        getEnv("DYNAMO_TABLE", "storefront-state"),
		CartKey:            getEnv("CART_KEY", "cart"),
		KafkaBrokers:       splitList(getEnv("KAFKA_BROKERS", "")),
		KafkaTopic:         getEnv("KAFKA_TOPIC", "order.placed"),
		NotifySNSTopicARN:  os.Getenv("NOTIFY_SNS_TOPIC_ARN"),
		OrderSNSTopicARN:   os.Getenv("ORDER_SNS_TOPIC_ARN"),
		CloudWatchEnabled:  getEnv("CLOUDWATCH_ENABLED", "false") == "true",
		LogGroup:           getEnv("CLOUDWATCH_LOG_GROUP", "/repawtly/storefront"),
	}

	var err error
	if cfg.CartTTL, err = getDuration("CART_TTL", 7*24*time.Hour); err != nil {
		return cfg, err
	}
	if cfg.SettlementDelay, err = getDuration("SETTLEMENT_DELAY", 1500*time.Millisecond); err != nil {
		return cfg, err
	}
	if cfg.ShippingFee, err = getFloat("SHIPPING_FEE", 65.00); err != nil {
		return cfg, err
	}
	if cfg.DefaultPrice, err = getFloat("DEFAULT_PRICE", 25.99); err != nil {
		return cfg, err
	}
	if cfg.RateLimitPerMinute, err = getInt("RATE_LIMIT_PER_MINUTE", 100); err != nil {
		return cfg, err
	}
	if cfg.RateLimitBurst, err = getInt("RATE_LIMIT_BURST", 50); err != nil {
		return cfg, err
	}

	return cfg, cfg.Validate()
}

// Validate rejects configurations the storefront cannot start with.
func (c Config) Validate() error {
	switch c.PersistenceBackend {
	case BackendMemory, BackendRedis, BackendDynamoDB:
	default:
		return fmt.Errorf("unknown PERSISTENCE_BACKEND %q", c.PersistenceBackend)
	}
	if c.CartKey == "" {
		return fmt.Errorf("CART_KEY must not be empty")
	}
	if c.SettlementDelay <= 0 {
		return fmt.Errorf("SETTLEMENT_DELAY must be positive")
	}
	if c.CartTTL < 0 {
		return fmt.Errorf("CART_TTL must not be negative")
	}
	if c.ShippingFee <= 0 || c.DefaultPrice <= 0 {
		return fmt.Errorf("SHIPPING_FEE and DEFAULT_PRICE must be positive")
	}
	if c.RateLimitPerMinute <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("rate limit settings must be positive")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getFloat(key string, defaultVal float64) (float64, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
