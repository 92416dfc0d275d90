package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongodb"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Mongo     MongoConfig
	JWT       JWTConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	SMTP      SMTPConfig
	RateLimit RateLimitConfig
	Jobs      JobsConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Name           string   `env:"APP_NAME" env-default:"orbithr"`
	Version        string   `env:"APP_VERSION" env-default:"v1.0.0"`
	Port           int      `env:"APP_PORT" env-default:"8080"`
	Env            string   `env:"APP_ENV" env-default:"development"`
	LogLevel       string   `env:"LOG_LEVEL" env-default:"info"`
	Timezone       string   `env:"APP_TIMEZONE" env-default:"UTC"`
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" env-separator:"," env-default:"http://localhost:3000"`
}

// DatabaseConfig selects the store and holds the PostgreSQL connection settings.
type DatabaseConfig struct {
	Driver   string `env:"DB_DRIVER" env-default:"postgres"`
	Host     string `env:"DB_HOST" env-default:"localhost"`
	Port     int    `env:"DB_PORT" env-default:"5432"`
	User     string `env:"DB_USER" env-default:"postgres"`
	Password string `env:"DB_PASSWORD"`
	Name     string `env:"DB_NAME" env-default:"orbithr"`
	SSLMode  string `env:"DB_SSL_MODE" env-default:"disable"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI" env-default:"mongodb://localhost:27017"`
	Database string `env:"MONGO_DATABASE" env-default:"orbithr"`
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string        `env:"JWT_SECRET"`
	AccessExpiration time.Duration `env:"JWT_ACCESS_EXPIRATION" env-default:"24h"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" env-default:"0"`
}

// KafkaConfig is optional; leave decisions are only published when Brokers is set.
type KafkaConfig struct {
	Brokers []string `env:"KAFKA_BROKERS" env-separator:","`
	Topic   string   `env:"KAFKA_TOPIC" env-default:"hr.leave.decided"`
}

type SMTPConfig struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT" env-default:"587"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"SMTP_FROM" env-default:"OrbitHR <noreply@orbithr.local>"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `env:"RATE_LIMIT_RPS" env-default:"5"`
	Burst             int     `env:"RATE_LIMIT_BURST" env-default:"10"`
}

type JobsConfig struct {
	CascadeRetryInterval time.Duration `env:"CASCADE_RETRY_INTERVAL" env-default:"5m"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load .env: %w", err)
		}
		slog.Info("no .env file found, using process environment")
	}

	config := &Config{}
	if err := cleanenv.ReadEnv(config); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case DriverMongo:
		if c.Mongo.URI == "" {
			return fmt.Errorf("MONGO_URI is required")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.JWT.AccessExpiration <= 0 {
		return fmt.Errorf("JWT_ACCESS_EXPIRATION must be positive")
	}
	if c.App.Port <= 0 {
		return fmt.Errorf("APP_PORT must be positive")
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// Location returns the timezone used to decide what "today" is.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) KafkaEnabled() bool {
	return len(c.Kafka.Brokers) > 0 && strings.TrimSpace(c.Kafka.Brokers[0]) != ""
}

// LogLevel maps LOG_LEVEL to a slog level.
func (c *Config) LogLevel() slog.Level {
	switch strings.ToLower(c.App.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
