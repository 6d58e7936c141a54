package config

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Store drivers accepted by STORE_DRIVER.
const (
	StoreDriverPostgres = "postgres"
	StoreDriverMongo    = "mongo"
	StoreDriverMemory   = "memory"
)

// Config aggregates runtime configuration for the service. It is built once at
// startup and passed by value afterwards.
type Config struct {
	App          AppConfig
	Store        StoreConfig
	Postgres     PostgresConfig
	Mongo        MongoConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Notification NotificationConfig
	Scheduler    SchedulerConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name           string        `env:"APP_NAME, default=membership-service"`
	Env            string        `env:"APP_ENV, default=development"`
	Host           string        `env:"APP_HOST, default=0.0.0.0"`
	Port           string        `env:"APP_PORT, default=5000"`
	Version        string        `env:"APP_VERSION, default=dev"`
	RequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT, default=30s"`
}

// StoreConfig selects the record store backend.
type StoreConfig struct {
	Driver string `env:"STORE_DRIVER, default=postgres"`
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN             string        `env:"POSTGRES_DSN"`
	MaxConns        int32         `env:"POSTGRES_MAX_CONNS, default=10"`
	MinConns        int32         `env:"POSTGRES_MIN_CONNS, default=2"`
	RunMigrations   bool          `env:"POSTGRES_RUN_MIGRATIONS, default=true"`
	ConnMaxIdleTime time.Duration `env:"POSTGRES_CONN_MAX_IDLE, default=30s"`
	ConnMaxLifetime time.Duration `env:"POSTGRES_CONN_MAX_LIFE, default=5m"`
}

// MongoConfig holds MongoDB connection values.
type MongoConfig struct {
	URI      string        `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string        `env:"MONGO_DB, default=membership"`
	Timeout  time.Duration `env:"MONGO_TIMEOUT, default=10s"`
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level      string `env:"LOG_LEVEL, default=info"`
	File       string `env:"LOG_FILE"`
	MaxSizeMB  int    `env:"LOG_MAX_SIZE_MB, default=10"`
	MaxBackups int    `env:"LOG_MAX_BACKUPS, default=7"`
	MaxAgeDays int    `env:"LOG_MAX_AGE_DAYS, default=28"`
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret     string        `env:"AUTH_JWT_SECRET, default=dev-secret"`
	Issuer        string        `env:"AUTH_JWT_ISSUER, default=membership-service"`
	SessionTTL    time.Duration `env:"AUTH_SESSION_TTL, default=24h"`
	ResetTokenTTL time.Duration `env:"AUTH_RESET_TOKEN_TTL, default=15m"`
	OTPTTL        time.Duration `env:"AUTH_OTP_TTL, default=15m"`
	BcryptCost    int           `env:"AUTH_BCRYPT_COST, default=10"`
}

// NotificationConfig holds SMTP credentials. An empty SMTPHost selects the
// log-only dispatcher.
type NotificationConfig struct {
	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT, default=587"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	EmailFrom    string `env:"NOTIFY_EMAIL_FROM, default=noreply@example.com"`
	OrgName      string `env:"NOTIFY_ORG_NAME, default=Membership Admin"`
}

// SchedulerConfig controls the daily birthday job.
type SchedulerConfig struct {
	Enabled      bool   `env:"BIRTHDAY_JOB_ENABLED, default=true"`
	BirthdaySpec string `env:"BIRTHDAY_JOB_SPEC, default=59 59 7 * * *"`
}

// Load reads configuration from the environment, applying defaults where possible.
// A .env file in the working directory is honoured when present.
func Load(ctx context.Context) (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return Config{}, fmt.Errorf("process env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Store.Driver {
	case StoreDriverPostgres:
		if c.Postgres.DSN == "" {
			return fmt.Errorf("POSTGRES_DSN is required for store driver %q", c.Store.Driver)
		}
	case StoreDriverMongo, StoreDriverMemory:
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.Store.Driver)
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("AUTH_JWT_SECRET must not be empty")
	}
	return nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}
