package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds everything the server and the admin commands read from the environment.
type Config struct {
	Env        string `envconfig:"ENV" default:"development"`
	Port       string `envconfig:"PORT" default:"8080" validate:"required,numeric"`
	GinMode    string `envconfig:"GIN_MODE" default:"debug" validate:"oneof=debug release test"`
	CORSOrigin string `envconfig:"CORS_ORIGIN" default:"*"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"INFO" validate:"oneof=DEBUG INFO WARN ERROR"`
	LogFile  string `envconfig:"LOG_FILE"`

	// StoreDriver selects the entity store: postgres for real deployments,
	// memory for local runs without a database.
	StoreDriver string `envconfig:"STORE_DRIVER" default:"postgres" validate:"oneof=postgres memory"`
	DatabaseURL string `envconfig:"DATABASE_URL"`
	DBHost      string `envconfig:"DB_HOST" default:"localhost"`
	DBPort      string `envconfig:"DB_PORT" default:"5432"`
	DBUser      string `envconfig:"DB_USER" default:"postgres"`
	DBPassword  string `envconfig:"DB_PASSWORD"`
	DBName      string `envconfig:"DB_NAME" default:"emergency_response"`
	DBSSLMode   string `envconfig:"DB_SSLMODE" default:"disable"`

	JWTSecret      string `envconfig:"JWT_SECRET" required:"true" validate:"min=16"`
	JWTExpireHours int    `envconfig:"JWT_EXPIRE_HOURS" default:"24" validate:"min=1"`

	RedisAddr     string `envconfig:"REDIS_ADDR"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	StrictTransitions bool   `envconfig:"STRICT_TRANSITIONS" default:"false"`
	SeedFile          string `envconfig:"SEED_FILE" default:"data/seed.yaml"`
}

var validate = validator.New()

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds the configuration from the current environment only.
func FromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// DSN returns the postgres connection string, preferring DATABASE_URL when set.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	dsn := fmt.Sprintf("host=%s port=%s user=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBName, c.DBSSLMode)
	if c.DBPassword != "" {
		dsn += " password=" + c.DBPassword
	}
	return dsn
}

func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.JWTExpireHours) * time.Hour
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development" || c.Env == "local"
}
