package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v7"
)

// EnvPrefix is prepended to every variable name below.
const EnvPrefix = "VAXCERT_"

const devJWTSigningKey = "dev-secret-key-change-in-production!"

// Storage backends.
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Authorization proof modes.
const (
	AuthSignature = "signature"
	AuthJWT       = "jwt"
)

// Config captures everything cmd/server needs to wire the registry.
type Config struct {
	Addr            string        `env:"ADDR" envDefault:":8080"`
	Environment     string        `env:"ENV" envDefault:"development"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`
	TxTimeout       time.Duration `env:"TX_TIMEOUT" envDefault:"5s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`
	MaxBodyBytes    int64         `env:"MAX_BODY_BYTES" envDefault:"65536"`
	TracingEnabled  bool          `env:"TRACING_ENABLED" envDefault:"false"`

	// BootstrapTokenHash is a bcrypt hash; when set, initialize requires the matching token.
	BootstrapTokenHash string `env:"BOOTSTRAP_TOKEN_HASH"`

	Storage  StorageConfig  `envPrefix:"STORAGE_"`
	Database DatabaseConfig `envPrefix:"DB_"`
	Redis    RedisConfig    `envPrefix:"REDIS_"`
	Kafka    KafkaConfig    `envPrefix:"KAFKA_"`
	Outbox   OutboxConfig   `envPrefix:"OUTBOX_"`
	Auth     AuthConfig     `envPrefix:"AUTH_"`
}

type StorageConfig struct {
	Backend    string `env:"BACKEND" envDefault:"memory"`
	SQLitePath string `env:"SQLITE_PATH" envDefault:"vaxcert.db"`
}

type DatabaseConfig struct {
	URL             string        `env:"URL"`
	MaxOpenConns    int           `env:"MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns    int           `env:"MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"CONN_MAX_LIFETIME" envDefault:"5m"`
	AutoMigrate     bool          `env:"AUTO_MIGRATE" envDefault:"true"`
}

// RedisConfig enables the owner_of cache when URL is set.
type RedisConfig struct {
	URL           string        `env:"URL"`
	PoolSize      int           `env:"POOL_SIZE" envDefault:"10"`
	MinIdleConns  int           `env:"MIN_IDLE_CONNS" envDefault:"2"`
	DialTimeout   time.Duration `env:"DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout   time.Duration `env:"READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout  time.Duration `env:"WRITE_TIMEOUT" envDefault:"3s"`
	OwnerCacheTTL time.Duration `env:"OWNER_CACHE_TTL" envDefault:"5m"`
}

// KafkaConfig enables event publishing when Brokers is set.
type KafkaConfig struct {
	Brokers         string        `env:"BROKERS"`
	ClientID        string        `env:"CLIENT_ID" envDefault:"vaxcert"`
	Topic           string        `env:"TOPIC" envDefault:"vaxcert.registry.events"`
	Acks            string        `env:"ACKS" envDefault:"all"`
	Retries         int           `env:"RETRIES" envDefault:"3"`
	DeliveryTimeout time.Duration `env:"DELIVERY_TIMEOUT" envDefault:"30s"`
}

type OutboxConfig struct {
	PollInterval time.Duration `env:"POLL_INTERVAL" envDefault:"200ms"`
	BatchSize    int           `env:"BATCH_SIZE" envDefault:"100"`
	Retention    time.Duration `env:"RETENTION" envDefault:"168h"`
}

type AuthConfig struct {
	Mode          string `env:"MODE" envDefault:"signature"`
	JWTSigningKey string `env:"JWT_SIGNING_KEY" envDefault:"dev-secret-key-change-in-production!"`
	JWTIssuer     string `env:"JWT_ISSUER" envDefault:"vaxcert"`
	JWTAudience   string `env:"JWT_AUDIENCE" envDefault:"vaxcert-registry"`
}

// FromEnv builds a Config from VAXCERT_* environment variables.
func FromEnv() (Config, error) {
	return parse(env.Options{Prefix: EnvPrefix})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.Storage.Backend = strings.ToLower(strings.TrimSpace(cfg.Storage.Backend))
	cfg.Auth.Mode = strings.ToLower(strings.TrimSpace(cfg.Auth.Mode))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// IsProduction reports whether dev conveniences must be refused.
func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

// Validate rejects combinations the server cannot wire.
func (c Config) Validate() error {
	var errs []error

	switch c.Storage.Backend {
	case BackendMemory, BackendSQLite:
	case BackendPostgres:
		if c.Database.URL == "" {
			errs = append(errs, errors.New("VAXCERT_DB_URL is required for the postgres backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage backend %q", c.Storage.Backend))
	}

	switch c.Auth.Mode {
	case AuthSignature:
	case AuthJWT:
		if len(c.Auth.JWTSigningKey) < 32 {
			errs = append(errs, errors.New("VAXCERT_AUTH_JWT_SIGNING_KEY must be at least 32 bytes"))
		}
		if c.IsProduction() && c.Auth.JWTSigningKey == devJWTSigningKey {
			errs = append(errs, errors.New("the development JWT signing key cannot be used in production"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown auth mode %q", c.Auth.Mode))
	}

	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	if c.Outbox.BatchSize <= 0 {
		errs = append(errs, errors.New("VAXCERT_OUTBOX_BATCH_SIZE must be positive"))
	}
	if c.Outbox.PollInterval <= 0 {
		errs = append(errs, errors.New("VAXCERT_OUTBOX_POLL_INTERVAL must be positive"))
	}

	return errors.Join(errs...)
}

// SlogLevel parses LogLevel.
func (c Config) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	return lvl, nil
}
