package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all configuration for the application
type Config struct {
	Env Environment

	// Server configuration
	ServerHost     string        `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	ServerPort     string        `env:"SERVER_PORT" envDefault:"8080"`
	ShutdownGrace  time.Duration `env:"SHUTDOWN_GRACE" envDefault:"5s"`
	AllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:8081,http://localhost:19006"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`

	// StoreBackend selects the document store: "sql" or "mongo".
	StoreBackend string `env:"STORE_BACKEND" envDefault:"sql"`

	Database Database `envPrefix:"DB_"`
	Mongo    Mongo    `envPrefix:"MONGO_"`
	Redis    Redis    `envPrefix:"REDIS_"`
	JWT      JWT      `envPrefix:"JWT_"`
	Photos   Photos   `envPrefix:"PHOTOS_"`

	// Hourly per-user limits, enforced only when Redis is configured
	RecipeCreateLimit int `env:"RATE_LIMIT_RECIPE_CREATE" envDefault:"30"`
	RecipeEditLimit   int `env:"RATE_LIMIT_RECIPE_EDIT" envDefault:"60"`
}

// Database holds SQL connection parameters.
type Database struct {
	Driver     string `env:"DRIVER" envDefault:"postgres"`
	Host       string `env:"HOST" envDefault:"localhost"`
	Port       string `env:"PORT" envDefault:"5432"`
	User       string `env:"USER" envDefault:"recipebook"`
	Password   string `env:"PASSWORD"`
	Name       string `env:"NAME" envDefault:"recipebook"`
	SSLMode    string `env:"SSL_MODE" envDefault:"disable"`
	SQLitePath string `env:"SQLITE_PATH" envDefault:"recipebook.db"`
}

// DSN returns the PostgreSQL connection string.
func (d Database) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// URL returns the PostgreSQL connection string in URL form.
func (d Database) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

// Mongo holds MongoDB connection parameters.
type Mongo struct {
	URI      string `env:"URI" envDefault:"mongodb://localhost:27017"`
	Database string `env:"DATABASE" envDefault:"recipebook"`
}

// Redis holds Redis connection parameters. Redis is optional: when no host
// or URL is set, the server falls back to in-process pub/sub and token
// revocation and runs without rate limiting.
type Redis struct {
	URL      string `env:"URL"`
	Host     string `env:"HOST"`
	Port     string `env:"PORT" envDefault:"6379"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
}

// Enabled reports whether a Redis endpoint is configured.
func (r Redis) Enabled() bool {
	return r.URL != "" || r.Host != ""
}

// JWT holds session token parameters.
type JWT struct {
	Secret string        `env:"SECRET" envDefault:"dev-secret"`
	TTL    time.Duration `env:"TTL" envDefault:"24h"`
}

// Photos holds recipe photo storage parameters. Backend is "", "s3" or "minio".
type Photos struct {
	Backend        string        `env:"BACKEND"`
	Bucket         string        `env:"BUCKET" envDefault:"recipebook-photos"`
	URLExpiry      time.Duration `env:"URL_EXPIRY" envDefault:"15m"`
	AWSRegion      string        `env:"AWS_REGION" envDefault:"us-east-1"`
	MinioEndpoint  string        `env:"MINIO_ENDPOINT" envDefault:"localhost:9000"`
	MinioAccessKey string        `env:"MINIO_ACCESS_KEY"`
	MinioSecretKey string        `env:"MINIO_SECRET_KEY"`
	MinioUseSSL    bool          `env:"MINIO_USE_SSL" envDefault:"false"`
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	cfg.Env = GetEnvironment()

	// Outside CI sensitive values may come from Docker secrets
	if cfg.Env != CI {
		applySecrets(cfg)
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// applySecrets overrides sensitive values with Docker secrets when present
func applySecrets(cfg *Config) {
	overrides := map[string]*string{
		"jwt_secret":       &cfg.JWT.Secret,
		"db_password":      &cfg.Database.Password,
		"redis_password":   &cfg.Redis.Password,
		"redis_url":        &cfg.Redis.URL,
		"mongo_uri":        &cfg.Mongo.URI,
		"minio_access_key": &cfg.Photos.MinioAccessKey,
		"minio_secret_key": &cfg.Photos.MinioSecretKey,
	}
	for name, target := range overrides {
		if v := readSecret(name); v != "" {
			*target = v
		}
	}
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}
