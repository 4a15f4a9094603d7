package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks if the configuration meets the requirements for the current environment
func ValidateConfig(cfg *Config) error {
	var errs []string
	add := func(field, msg string) {
		errs = append(errs, ValidationError{Field: field, Message: msg}.Error())
	}

	if cfg.ServerPort == "" {
		add("SERVER_PORT", "is required")
	}

	switch cfg.StoreBackend {
	case "sql":
		switch cfg.Database.Driver {
		case "postgres":
			if cfg.Database.Host == "" || cfg.Database.Name == "" {
				add("DB_HOST/DB_NAME", "are required for the postgres driver")
			}
		case "sqlite":
			if cfg.Env == Production {
				add("DB_DRIVER", "sqlite is not allowed in production")
			}
		default:
			add("DB_DRIVER", fmt.Sprintf("unknown driver %q", cfg.Database.Driver))
		}
	case "mongo":
		if cfg.Mongo.URI == "" {
			add("MONGO_URI", "is required for the mongo backend")
		}
	default:
		add("STORE_BACKEND", fmt.Sprintf("unknown backend %q", cfg.StoreBackend))
	}

	if cfg.JWT.Secret == "" {
		add("JWT_SECRET", "is required")
	}
	if cfg.Env == Production && cfg.JWT.Secret == "dev-secret" {
		add("JWT_SECRET", "must be set in production")
	}
	if cfg.JWT.TTL <= 0 {
		add("JWT_TTL", "must be positive")
	}

	if cfg.RecipeCreateLimit <= 0 || cfg.RecipeEditLimit <= 0 {
		add("RATE_LIMIT_RECIPE_CREATE/RATE_LIMIT_RECIPE_EDIT", "must be positive")
	}

	if err := validateOrigins(cfg.AllowedOrigins); err != "" {
		add("CORS_ALLOWED_ORIGINS", err)
	}

	switch cfg.Photos.Backend {
	case "", "s3":
	case "minio":
		if cfg.Photos.MinioAccessKey == "" || cfg.Photos.MinioSecretKey == "" {
			add("PHOTOS_MINIO_ACCESS_KEY/PHOTOS_MINIO_SECRET_KEY", "are required for the minio backend")
		}
	default:
		add("PHOTOS_BACKEND", fmt.Sprintf("unknown backend %q", cfg.Photos.Backend))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errs, "\n"))
	}

	return nil
}

// validateOrigins mirrors the checks the CORS middleware panics on
func validateOrigins(origins []string) string {
	n := 0
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		n++
		if origin != "*" && !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			return fmt.Sprintf("bad origin %q: must be '*' or start with http:// or https://", origin)
		}
	}
	if n == 0 {
		return "must list at least one origin"
	}
	return ""
}
