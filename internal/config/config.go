package config

import (
	"fmt"
	"strings"
	"time"

	"anoa.com/productcatalog/pkg/database"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	AppEnv         string `envconfig:"APP_ENV" default:"development"`
	Port           string `envconfig:"PORT" default:"8080"`
	AllowedOrigins string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`

	DatabaseURL string `envconfig:"DATABASE_URL"`
	DBHost      string `envconfig:"DB_HOST" default:"localhost"`
	DBUser      string `envconfig:"DB_USER" default:"postgres"`
	DBPass      string `envconfig:"DB_PASS"`
	DBName      string `envconfig:"DB_NAME" default:"catalog"`
	DBPort      string `envconfig:"DB_PORT" default:"5432"`
	DBSSLMode   string `envconfig:"DB_SSLMODE" default:"disable"`
	DBMaxOpen   int    `envconfig:"DB_MAX_OPEN_CONNS" default:"20"`
	DBMaxIdle   int    `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`

	JWTSecret string `envconfig:"JWT_SECRET"`

	RedisURL       string        `envconfig:"REDIS_URL"`
	WriteRateLimit int           `envconfig:"WRITE_RATE_LIMIT" default:"60"`
	WriteRateSpan  time.Duration `envconfig:"WRITE_RATE_WINDOW" default:"1m"`

	MeiliSearchHost string `envconfig:"MEILISEARCH_HOST"`
	MeiliMasterKey  string `envconfig:"MEILI_MASTER_KEY"`

	MaxPageSize int  `envconfig:"MAX_PAGE_SIZE" default:"100"`
	SeedData    bool `envconfig:"SEED_DATA" default:"false"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`
}

func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if cfg.JWTSecret == "" {
		if !cfg.IsDevelopment() {
			return nil, fmt.Errorf("JWT_SECRET is required when APP_ENV=%s", cfg.AppEnv)
		}
		cfg.JWTSecret = "development-secret"
	}
	if cfg.MeiliSearchHost != "" && !strings.HasPrefix(cfg.MeiliSearchHost, "http") {
		cfg.MeiliSearchHost = "http://" + cfg.MeiliSearchHost + ":7700"
	}

	return &cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func (c *Config) Database() database.Options {
	dsn := c.DatabaseURL
	if dsn == "" {
		dsn = database.DSN(c.DBHost, c.DBUser, c.DBPass, c.DBName, c.DBPort, c.DBSSLMode)
	}
	return database.Options{
		DSN:             dsn,
		MaxOpenConns:    c.DBMaxOpen,
		MaxIdleConns:    c.DBMaxIdle,
		ConnMaxLifetime: time.Hour,
		Debug:           c.IsDevelopment(),
	}
}
