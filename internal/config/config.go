package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment names accepted for the payment gateway.
const (
	EnvSandbox    = "sandbox"
	EnvProduction = "production"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress  string
	DatabaseURI string
	LogLevel    string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CartTTL       time.Duration

	CashfreeAppID     string
	CashfreeSecretKey string
	CashfreeEnv       string

	ReturnURLBase string
	NotifyURLBase string
	OrderCurrency string

	KafkaBrokers    []string
	KafkaTxLogTopic string

	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string

	PendingSweepInterval time.Duration
	PendingMinAge        time.Duration
	PendingSweepBatch    int
	WorkerPoolSize       int
	EffectsQueueSize     int
	ShutdownTimeout      time.Duration
}

const (
	defaultRunAddress           = ":8000"
	defaultLogLevel             = "info"
	defaultRedisAddr            = "localhost:6379"
	defaultCartTTL              = 720 * time.Hour
	defaultCashfreeEnv          = EnvSandbox
	defaultReturnURLBase        = "http://localhost:8000"
	defaultOrderCurrency        = "INR"
	defaultTxLogTopic           = "checkout.transactions"
	defaultPendingSweepInterval = time.Minute
	defaultPendingMinAge        = 15 * time.Minute
	defaultPendingSweepBatch    = 32
	defaultWorkerPoolSize       = 2
	defaultEffectsQueueSize     = 64
	defaultShutdownTimeout      = 10 * time.Second
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:           getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:          getString(lookup, "DATABASE_URI", ""),
		LogLevel:             getString(lookup, "LOG_LEVEL", defaultLogLevel),
		RedisAddr:            getString(lookup, "REDIS_ADDR", defaultRedisAddr),
		RedisPassword:        getString(lookup, "REDIS_PASSWORD", ""),
		RedisDB:              getInt(lookup, "REDIS_DB", 0),
		CartTTL:              getDuration(lookup, "REDIS_CART_TTL", defaultCartTTL),
		CashfreeAppID:        getString(lookup, "CASHFREE_APP_ID", ""),
		CashfreeSecretKey:    getString(lookup, "CASHFREE_SECRET_KEY", ""),
		CashfreeEnv:          getString(lookup, "CASHFREE_ENV", defaultCashfreeEnv),
		ReturnURLBase:        getString(lookup, "RETURN_URL_BASE", defaultReturnURLBase),
		NotifyURLBase:        getString(lookup, "NOTIFY_URL_BASE", ""),
		OrderCurrency:        getString(lookup, "ORDER_CURRENCY", defaultOrderCurrency),
		KafkaTxLogTopic:      getString(lookup, "KAFKA_TXLOG_TOPIC", defaultTxLogTopic),
		SMTPHost:             getString(lookup, "SMTP_HOST", ""),
		SMTPPort:             getString(lookup, "SMTP_PORT", "587"),
		SMTPUser:             getString(lookup, "SMTP_USER", ""),
		SMTPPass:             getString(lookup, "SMTP_PASS", ""),
		PendingSweepInterval: getDuration(lookup, "PENDING_SWEEP_INTERVAL", defaultPendingSweepInterval),
		PendingMinAge:        getDuration(lookup, "PENDING_MIN_AGE", defaultPendingMinAge),
		PendingSweepBatch:    getInt(lookup, "PENDING_SWEEP_BATCH", defaultPendingSweepBatch),
		WorkerPoolSize:       getInt(lookup, "WORKER_POOL_SIZE", defaultWorkerPoolSize),
		EffectsQueueSize:     getInt(lookup, "EFFECTS_QUEUE_SIZE", defaultEffectsQueueSize),
		ShutdownTimeout:      getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}

	if brokers, ok := lookup("KAFKA_BROKERS"); ok && brokers != "" {
		cfg.KafkaBrokers = splitList(brokers)
	}

	fs := flag.NewFlagSet("checkout", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		sweepIntervalStr   = cfg.PendingSweepInterval.String()
		minAgeStr          = cfg.PendingMinAge.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
		brokersStr         = strings.Join(cfg.KafkaBrokers, ",")
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.RedisAddr, "redis", cfg.RedisAddr, "Redis address for the cart store")
	fs.StringVar(&cfg.CashfreeEnv, "gateway-env", cfg.CashfreeEnv, "Payment gateway environment (sandbox|production)")
	fs.StringVar(&cfg.ReturnURLBase, "return-url", cfg.ReturnURLBase, "Base URL for post-payment return redirects")
	fs.StringVar(&brokersStr, "kafka-brokers", brokersStr, "Comma separated Kafka brokers for the transaction log mirror")
	fs.StringVar(&sweepIntervalStr, "sweep-interval", sweepIntervalStr, "Interval between pending purchase sweeps")
	fs.StringVar(&minAgeStr, "pending-min-age", minAgeStr, "Minimum age before a pending purchase is re-verified")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.IntVar(&cfg.WorkerPoolSize, "worker-pool", cfg.WorkerPoolSize, "Number of concurrent side-effect workers")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.PendingSweepInterval, err = time.ParseDuration(sweepIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid sweep interval: %w", err)
	}

	if cfg.PendingMinAge, err = time.ParseDuration(minAgeStr); err != nil {
		return nil, fmt.Errorf("invalid pending min age: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if brokersStr != "" {
		cfg.KafkaBrokers = splitList(brokersStr)
	}

	if secretFile, ok := lookup("CASHFREE_SECRET_KEY_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read gateway secret file: %w", err)
		}
		cfg.CashfreeSecretKey = strings.TrimSpace(string(content))
	}

	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = defaultWorkerPoolSize
	}

	if cfg.EffectsQueueSize <= 0 {
		cfg.EffectsQueueSize = defaultEffectsQueueSize
	}

	if cfg.PendingSweepBatch <= 0 {
		cfg.PendingSweepBatch = defaultPendingSweepBatch
	}

	if cfg.PendingSweepInterval <= 0 {
		cfg.PendingSweepInterval = defaultPendingSweepInterval
	}

	if cfg.PendingMinAge <= 0 {
		cfg.PendingMinAge = defaultPendingMinAge
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.NotifyURLBase == "" {
		cfg.NotifyURLBase = cfg.ReturnURLBase
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if cfg.CashfreeAppID == "" || cfg.CashfreeSecretKey == "" {
		return nil, fmt.Errorf("gateway credentials must be provided")
	}

	if cfg.CashfreeEnv != EnvSandbox && cfg.CashfreeEnv != EnvProduction {
		return nil, fmt.Errorf("unknown gateway environment %q", cfg.CashfreeEnv)
	}

	return cfg, nil
}

// MailEnabled reports whether receipt emails can be sent.
func (c *Config) MailEnabled() bool {
	return c.SMTPHost != ""
}

// TxLogEnabled reports whether the remote transaction log mirror is configured.
func (c *Config) TxLogEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
