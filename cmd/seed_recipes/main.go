package main

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pageza/recipebook/backend/config"
	"github.com/pageza/recipebook/backend/internal/bootstrap"
	"github.com/pageza/recipebook/backend/internal/logger"
	"github.com/pageza/recipebook/backend/internal/models"
)

// Number of recipes created concurrently
const batchSize = 3

var sampleRecipes = []models.RecipeFields{
	{
		Name:            "Classic pancakes",
		PreparationTime: "20 min",
		Difficulty:      "easy",
		Ingredients:     "200g flour\n2 eggs\n300ml milk\n1 tbsp sugar\npinch of salt",
		Directions:      "Whisk everything into a smooth batter. Rest 10 minutes. Fry ladlefuls in a buttered pan until golden on both sides.",
	},
	{
		Name:            "Tomato soup",
		PreparationTime: "40 min",
		Difficulty:      "easy",
		Ingredients:     "1kg ripe tomatoes\n1 onion\n2 garlic cloves\n500ml stock\nolive oil",
		Directions:      "Soften onion and garlic in oil. Add chopped tomatoes and stock, simmer 25 minutes, then blend and season.",
	},
	{
		Name:            "Chicken curry",
		PreparationTime: "1 h",
		Difficulty:      "medium",
		Ingredients:     "600g chicken thighs\n2 onions\n3 tbsp curry paste\n400ml coconut milk\nfresh coriander",
		Directions:      "Brown the chicken. Fry onions with the paste, add coconut milk and chicken, simmer 30 minutes. Finish with coriander.",
	},
	{
		Name:            "Beef wellington",
		PreparationTime: "2 h 30 min",
		Difficulty:      "hard",
		Ingredients:     "800g beef fillet\n400g mushrooms\n8 slices prosciutto\n500g puff pastry\n1 egg",
		Directions:      "Sear the fillet. Cook the mushrooms down to a paste. Wrap beef in prosciutto and duxelles, then pastry. Egg wash and bake at 200C for 35 minutes.",
	},
	{
		Name:            "Greek salad",
		PreparationTime: "15 min",
		Difficulty:      "easy",
		Ingredients:     "4 tomatoes\n1 cucumber\n1 red onion\n200g feta\nkalamata olives\noregano",
		Directions:      "Chop the vegetables into chunks, top with feta and olives, dress with oil and oregano.",
	},
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
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

	existing, err := app.Store.ListRecipes(ctx)
	if err != nil {
		log.Fatal("failed to list recipes", zap.Error(err))
	}
	names := make(map[string]bool, len(existing))
	for _, r := range existing {
		names[r.Name] = true
	}

	var created atomic.Int32
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchSize)
	for _, fields := range sampleRecipes {
		if names[fields.Name] {
			log.Info("recipe already exists, skipping", zap.String("name", fields.Name))
			continue
		}
		fields := fields
		g.Go(func() error {
			recipe, err := app.Services.Recipes.AddRecipe(gctx, fields)
			if err != nil {
				return fmt.Errorf("create %q: %w", fields.Name, err)
			}
			log.Info("created recipe", zap.String("id", recipe.ID), zap.String("name", recipe.Name))
			created.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatal("seeding failed", zap.Error(err))
	}
	log.Info("seeding complete", zap.Int32("created", created.Load()))
}
