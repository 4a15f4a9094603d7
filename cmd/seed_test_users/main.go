package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/pageza/recipebook/backend/config"
	"github.com/pageza/recipebook/backend/internal/bootstrap"
	"github.com/pageza/recipebook/backend/internal/logger"
	"github.com/pageza/recipebook/backend/internal/service"
	"github.com/pageza/recipebook/backend/internal/types"
)

const password = "testpassword123"

var testUsers = []struct {
	email   string
	profile types.UpdateProfileRequest
}{
	{"john.doe@example.com", types.UpdateProfileRequest{Name: "John Doe", DateOfBirth: "1985-04-12", FavoriteCuisine: "Italian"}},
	{"jane.smith@example.com", types.UpdateProfileRequest{Name: "Jane Smith", DateOfBirth: "1990-09-30", FavoriteCuisine: "Thai"}},
	{"bob.wilson@example.com", types.UpdateProfileRequest{Name: "Bob Wilson", FavoriteCuisine: "Mexican"}},
	{"alice.cooper@example.com", types.UpdateProfileRequest{Name: "Alice Cooper"}},
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if cfg.Env == config.Production {
		fmt.Fprintln(os.Stderr, "refusing to seed test users in production")
		os.Exit(1)
	}
	log, err := logger.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx := context.Background()
	app, err := bootstrap.Build(ctx, cfg, log)
	if err != nil {
		log.Fatal("failed to initialize application", zap.Error(err))
	}
	defer app.Close()

	for _, u := range testUsers {
		session, err := app.Services.Auth.Register(ctx, u.email, password)
		if errors.Is(err, service.ErrEmailTaken) {
			log.Info("user already exists, skipping", zap.String("email", u.email))
			continue
		}
		if err != nil {
			log.Fatal("failed to register user", zap.String("email", u.email), zap.Error(err))
		}

		profile := u.profile
		if _, err := app.Services.Profiles.SaveProfile(ctx, session.UserID, session.Email, &profile); err != nil {
			log.Fatal("failed to save profile", zap.String("email", u.email), zap.Error(err))
		}
		log.Info("created test user", zap.String("email", u.email), zap.String("user_id", session.UserID))
	}
	log.Info("test users ready", zap.String("password", password))
}
