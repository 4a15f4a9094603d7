package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("ENV", "test")
	t.Setenv("SECRETS_DIR", t.TempDir())

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, Test, cfg.Env)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "sql", cfg.StoreBackend)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "recipebook", cfg.Database.Name)
	assert.Equal(t, "dev-secret", cfg.JWT.Secret)
	assert.Equal(t, 24*time.Hour, cfg.JWT.TTL)
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, "", cfg.Photos.Backend)
}

func TestLoadConfigEnvironmentOverrides(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("ENV", "test")
	t.Setenv("SECRETS_DIR", t.TempDir())
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("STORE_BACKEND", "mongo")
	t.Setenv("MONGO_URI", "mongodb://mongo:27017")
	t.Setenv("REDIS_URL", "redis://localhost:6379/1")
	t.Setenv("JWT_TTL", "1h")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test,http://b.test")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, "mongo", cfg.StoreBackend)
	assert.Equal(t, "mongodb://mongo:27017", cfg.Mongo.URI)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, time.Hour, cfg.JWT.TTL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
}

func TestLoadConfigReadsSecrets(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "jwt_secret"), []byte("from-secret\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "db_password"), []byte("pgpass"), 0o600))

	t.Setenv("CI", "")
	t.Setenv("ENV", "production")
	t.Setenv("SECRETS_DIR", dir)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, Production, cfg.Env)
	assert.Equal(t, "from-secret", cfg.JWT.Secret)
	assert.Equal(t, "pgpass", cfg.Database.Password)
}

func TestValidateConfig(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Env:          Development,
			ServerPort:   "8080",
			StoreBackend: "sql",
			Database:     Database{Driver: "sqlite"},
			JWT:          JWT{Secret: "s", TTL: time.Hour},

			AllowedOrigins:    []string{"http://localhost:8081"},
			RecipeCreateLimit: 30,
			RecipeEditLimit:   60,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{
			name:    "unknown backend",
			mutate:  func(c *Config) { c.StoreBackend = "firestore" },
			wantErr: "STORE_BACKEND",
		},
		{
			name:    "sqlite in production",
			mutate:  func(c *Config) { c.Env = Production },
			wantErr: "sqlite is not allowed in production",
		},
		{
			name: "default secret in production",
			mutate: func(c *Config) {
				c.Env = Production
				c.Database = Database{Driver: "postgres", Host: "db", Name: "recipebook"}
				c.JWT.Secret = "dev-secret"
			},
			wantErr: "JWT_SECRET",
		},
		{
			name:    "minio without credentials",
			mutate:  func(c *Config) { c.Photos.Backend = "minio" },
			wantErr: "PHOTOS_MINIO_ACCESS_KEY",
		},
		{
			name:    "non-positive ttl",
			mutate:  func(c *Config) { c.JWT.TTL = 0 },
			wantErr: "JWT_TTL",
		},
		{
			name:    "empty cors origins",
			mutate:  func(c *Config) { c.AllowedOrigins = nil },
			wantErr: "CORS_ALLOWED_ORIGINS: must list at least one origin",
		},
		{
			name:    "blank cors origin",
			mutate:  func(c *Config) { c.AllowedOrigins = []string{""} },
			wantErr: "CORS_ALLOWED_ORIGINS: must list at least one origin",
		},
		{
			name:    "cors origin without scheme",
			mutate:  func(c *Config) { c.AllowedOrigins = []string{"localhost:8081"} },
			wantErr: "CORS_ALLOWED_ORIGINS",
		},
		{
			name:    "zero rate limit",
			mutate:  func(c *Config) { c.RecipeCreateLimit = 0 },
			wantErr: "RATE_LIMIT_RECIPE_CREATE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := ValidateConfig(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
