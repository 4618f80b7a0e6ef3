package config

import (
	"errors"
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/Dosada05/league-system/db"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds every runtime setting of the league service.
type Config struct {
	DatabaseURL  string        `env:"DATABASE_URL"`
	JWTSecretKey string        `env:"JWT_SECRET_KEY"`
	JWTTTL       time.Duration `env:"JWT_TTL" envDefault:"24h"`
	ServerPort   int           `env:"SERVER_PORT" envDefault:"8080"`
	AutoMigrate  bool          `env:"AUTO_MIGRATE" envDefault:"true"`

	DBMaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	DBMaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"25"`
	DBConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"5m"`
	DBConnectTimeout  time.Duration `env:"DB_CONNECT_TIMEOUT" envDefault:"5s"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	DefaultLanguage          string `env:"DEFAULT_LANGUAGE" envDefault:"en"`
	DefaultTimezone          string `env:"DEFAULT_TIMEZONE" envDefault:"America/New_York"`
	RegistrationRedirectPath string `env:"REGISTRATION_REDIRECT_PATH" envDefault:"/api/v1/account/status"`

	SeasonCopyWindow   time.Duration `env:"SEASON_COPY_WINDOW" envDefault:"720h"`
	SeasonCopyInterval time.Duration `env:"SEASON_COPY_INTERVAL" envDefault:"24h"`

	R2AccountID       string `env:"R2_ACCOUNT_ID"`
	R2AccessKeyID     string `env:"R2_ACCESS_KEY_ID"`
	R2SecretAccessKey string `env:"R2_SECRET_ACCESS_KEY"`
	R2BucketName      string `env:"R2_BUCKET_NAME"`
	R2PublicBaseURL   string `env:"R2_PUBLIC_BASE_URL"`
}

// Pool returns the database pool settings.
func (c *Config) Pool() db.PoolOptions {
	return db.PoolOptions{
		MaxOpenConns:    c.DBMaxOpenConns,
		MaxIdleConns:    c.DBMaxIdleConns,
		ConnMaxLifetime: c.DBConnMaxLifetime,
		ConnectTimeout:  c.DBConnectTimeout,
	}
}

// StorageEnabled reports whether every Cloudflare R2 setting is present.
func (c *Config) StorageEnabled() bool {
	return c.R2AccountID != "" && c.R2AccessKeyID != "" && c.R2SecretAccessKey != "" &&
		c.R2BucketName != "" && c.R2PublicBaseURL != ""
}

// Load reads the configuration from the environment.
// A .env file in the working directory is loaded first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return Parse()
}

// Parse builds a Config from the current environment without touching .env files.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL environment variable is not set")
	}
	if c.JWTSecretKey == "" {
		return errors.New("JWT_SECRET_KEY environment variable is not set")
	}
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", c.ServerPort)
	}
	if _, err := time.LoadLocation(c.DefaultTimezone); err != nil {
		return fmt.Errorf("invalid DEFAULT_TIMEZONE %q: %w", c.DefaultTimezone, err)
	}
	if c.DBMaxOpenConns <= 0 || c.DBMaxIdleConns < 0 {
		return fmt.Errorf("DB_MAX_OPEN_CONNS must be positive and DB_MAX_IDLE_CONNS non-negative, got %d and %d",
			c.DBMaxOpenConns, c.DBMaxIdleConns)
	}
	if c.SeasonCopyWindow <= 0 {
		return fmt.Errorf("SEASON_COPY_WINDOW must be positive, got %s", c.SeasonCopyWindow)
	}
	if c.SeasonCopyInterval <= 0 {
		return fmt.Errorf("SEASON_COPY_INTERVAL must be positive, got %s", c.SeasonCopyInterval)
	}
	return nil
}
