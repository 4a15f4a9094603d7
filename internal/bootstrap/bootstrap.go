// Package bootstrap wires configuration into a running set of services.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pageza/recipebook/backend/config"
	"github.com/pageza/recipebook/backend/internal/api"
	"github.com/pageza/recipebook/backend/internal/database"
	"github.com/pageza/recipebook/backend/internal/middleware"
	"github.com/pageza/recipebook/backend/internal/photos"
	"github.com/pageza/recipebook/backend/internal/realtime"
	"github.com/pageza/recipebook/backend/internal/service"
	"github.com/pageza/recipebook/backend/internal/store"
	"github.com/pageza/recipebook/backend/internal/store/gormstore"
	"github.com/pageza/recipebook/backend/internal/store/mongostore"
)

// App holds the long-lived dependencies of the server
type App struct {
	Store    store.Store
	Broker   realtime.Broker
	Redis    *redis.Client
	Services api.Services
}

// OpenStore connects the configured document store and brings its schema
// or indexes up to date
func OpenStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (store.Store, error) {
	switch cfg.StoreBackend {
	case "sql":
		db, err := database.Open(cfg.Database, log)
		if err != nil {
			return nil, err
		}
		if err := database.Migrate(db); err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		return gormstore.New(db), nil
	case "mongo":
		client, err := database.ConnectMongo(ctx, cfg.Mongo, log)
		if err != nil {
			return nil, err
		}
		s := mongostore.New(client, cfg.Mongo.Database)
		if err := s.EnsureIndexes(ctx); err != nil {
			_ = s.Close()
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

// Build opens every backing service and constructs the application services.
// Without Redis, notifications and token revocation stay in process and
// recipe writes are not rate limited.
func Build(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	s, err := OpenStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	app := &App{Store: s}

	var denylist service.TokenDenylist
	if cfg.Redis.Enabled() {
		client, err := database.NewRedisClient(cfg.Redis, log)
		if err != nil {
			_ = app.Close()
			return nil, err
		}
		app.Redis = client
		app.Broker = realtime.NewRedisBroker(client, log)
		denylist = service.NewRedisDenylist(client)
		app.Services.RecipeCreationLimiter = middleware.NewRecipeCreationRateLimiter(client, cfg.RecipeCreateLimit, log)
		app.Services.RecipeModificationLimiter = middleware.NewRecipeModificationRateLimiter(client, cfg.RecipeEditLimit, log)
	} else {
		log.Warn("redis not configured, using in-process notifications and token revocation")
		app.Broker = realtime.NewHub()
		denylist = service.NewMemoryDenylist()
	}

	photoStorage, err := photos.New(ctx, cfg.Photos)
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	if photoStorage == nil {
		log.Info("recipe photos disabled")
	}

	app.Services.Auth = service.NewAuthService(s, denylist, cfg.JWT.Secret, cfg.JWT.TTL, log)
	app.Services.Profiles = service.NewProfileService(s, app.Broker, log)
	app.Services.Recipes = service.NewRecipeService(s, app.Broker, photoStorage, log)
	app.Services.Favorites = service.NewFavoriteService(s, app.Broker, log)
	app.Services.Photos = service.NewPhotoService(photoStorage, s, cfg.Photos.URLExpiry)
	app.Services.Health = s
	return app, nil
}

// Close releases every connection the app opened
func (a *App) Close() error {
	var errs []error
	if a.Broker != nil {
		errs = append(errs, a.Broker.Close())
	}
	if a.Redis != nil {
		errs = append(errs, a.Redis.Close())
	}
	if a.Store != nil {
		errs = append(errs, a.Store.Close())
	}
	return errors.Join(errs...)
}
