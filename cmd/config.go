package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort string
	AppEnv   string
	LogLevel string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	// RedisAddr enables the distributed order lock; empty keeps locks in process.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	LockTTL       time.Duration
	LockWait      time.Duration

	// KafkaBrokers is a comma separated list; empty logs events instead.
	KafkaBrokers string

	JWTSecret        string
	MetricsNamespace string
	RetryAttempts    int

	OutboxSchedule  string
	OutboxBatchSize int

	ExpirySchedule  string
	ExpiryBatchSize int
	PendingOrderTTL time.Duration
}

// LoadConfig reads envFile when it exists, then the environment. Variables
// already set in the environment win over the file.
func LoadConfig(envFile string) (Config, error) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", envFile, err)
	}

	r := envReader{}
	cfg := Config{
		HTTPPort: r.str("HTTP_PORT", "8080"),
		AppEnv:   r.str("APP_ENV", "development"),
		LogLevel: r.str("LOG_LEVEL", "info"),

		DBHost:     r.str("DB_HOST", "localhost"),
		DBPort:     r.str("DB_PORT", "5432"),
		DBUser:     r.str("DB_USER", "postgres"),
		DBPassword: r.str("DB_PASSWORD", ""),
		DBName:     r.str("DB_NAME", "storefront"),
		DBSslMode:  r.str("DB_SSLMODE", "disable"),

		RedisAddr:     r.str("REDIS_ADDR", ""),
		RedisPassword: r.str("REDIS_PASSWORD", ""),
		RedisDB:       r.int("REDIS_DB", 0),
		LockTTL:       r.duration("ORDER_LOCK_TTL", 30*time.Second),
		LockWait:      r.duration("ORDER_LOCK_WAIT", 5*time.Second),

		KafkaBrokers: r.str("KAFKA_BROKERS", ""),

		JWTSecret:        r.str("JWT_SECRET", ""),
		MetricsNamespace: r.str("METRICS_NAMESPACE", "storefront"),
		RetryAttempts:    r.int("RETRY_ATTEMPTS", 3),

		OutboxSchedule:  r.str("OUTBOX_RELAY_SCHEDULE", "*/2 * * * * *"),
		OutboxBatchSize: r.int("OUTBOX_BATCH_SIZE", 100),

		ExpirySchedule:  r.str("ORDER_EXPIRY_SCHEDULE", "0 * * * * *"),
		ExpiryBatchSize: r.int("ORDER_EXPIRY_BATCH_SIZE", 100),
		PendingOrderTTL: r.duration("PENDING_ORDER_TTL", 30*time.Minute),
	}
	if err := r.err(); err != nil {
		return Config{}, err
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}
	return cfg, nil
}

// envReader collects parse errors so every bad variable is reported at once.
type envReader struct {
	errList []error
}

func (r *envReader) str(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func (r *envReader) int(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.errList = append(r.errList, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return n
}

func (r *envReader) duration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		r.errList = append(r.errList, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return d
}

func (r *envReader) err() error {
	return errors.Join(r.errList...)
}
