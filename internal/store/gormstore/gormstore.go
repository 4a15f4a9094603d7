// Package gormstore implements store.Store on top of gorm, backed by
// PostgreSQL in production and SQLite in development and tests.
package gormstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/recipebook/backend/internal/models"
	"github.com/pageza/recipebook/backend/internal/store"
)

// Store is a gorm-backed document store
type Store struct {
	db *gorm.DB
}

var _ store.Store = (*Store)(nil)

// New creates a new Store. The schema must already exist (see database.Migrate).
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle for health checks and tests.
func (s *Store) DB() *gorm.DB {
	return s.db
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return store.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey),
		strings.Contains(err.Error(), "UNIQUE constraint failed"),
		strings.Contains(err.Error(), "duplicate key value"):
		return store.ErrDuplicate
	default:
		return err
	}
}

// forUpdate adds a row lock where the dialect supports one. SQLite
// serializes writers on its own.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// CreateAccount inserts a new identity account
func (s *Store) CreateAccount(ctx context.Context, account *models.Account) error {
	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	return translate(s.db.WithContext(ctx).Create(account).Error)
}

// GetAccountByEmail looks an account up by its (normalized) email
func (s *Store) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	var account models.Account
	if err := s.db.WithContext(ctx).First(&account, "email = ?", email).Error; err != nil {
		return nil, translate(err)
	}
	return &account, nil
}

// DeleteAccount removes an account
func (s *Store) DeleteAccount(ctx context.Context, id string) error {
	return translate(s.db.WithContext(ctx).Delete(&models.Account{}, "id = ?", id).Error)
}

// GetProfile retrieves a user's profile document
func (s *Store) GetProfile(ctx context.Context, uid string) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := s.db.WithContext(ctx).First(&profile, "id = ?", uid).Error; err != nil {
		return nil, translate(err)
	}
	if profile.Favorites == nil {
		profile.Favorites = models.StringArray{}
	}
	return &profile, nil
}

// CreateProfile inserts a profile document
func (s *Store) CreateProfile(ctx context.Context, profile *models.UserProfile) error {
	if profile.Favorites == nil {
		profile.Favorites = models.StringArray{}
	}
	return translate(s.db.WithContext(ctx).Create(profile).Error)
}

// MergeProfile writes the editable profile fields, creating the document if needed
func (s *Store) MergeProfile(ctx context.Context, uid string, fields models.ProfileFields) (*models.UserProfile, error) {
	var out models.UserProfile
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var profile models.UserProfile
		err := forUpdate(tx).First(&profile, "id = ?", uid).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			p := models.NewProfile(uid, fields.Email)
			fields.Apply(p)
			if err := tx.Create(p).Error; err != nil {
				return err
			}
			out = *p
			return nil
		case err != nil:
			return err
		}

		fields.Apply(&profile)
		profile.UpdatedAt = time.Now().UTC()
		if err := tx.Model(&models.UserProfile{}).Where("id = ?", uid).Updates(map[string]interface{}{
			"email":            profile.Email,
			"name":             profile.Name,
			"date_of_birth":    profile.DateOfBirth,
			"favorite_cuisine": profile.FavoriteCuisine,
			"updated_at":       profile.UpdatedAt,
		}).Error; err != nil {
			return err
		}
		out = profile
		return nil
	})
	if err != nil {
		return nil, translate(err)
	}
	if out.Favorites == nil {
		out.Favorites = models.StringArray{}
	}
	return &out, nil
}

// ToggleFavorite flips recipeID in the user's favorites inside one transaction
func (s *Store) ToggleFavorite(ctx context.Context, uid, recipeID string) (models.StringArray, bool, error) {
	var (
		favorites models.StringArray
		present   bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var profile models.UserProfile
		err := forUpdate(tx).First(&profile, "id = ?", uid).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			p := models.NewProfile(uid, "")
			p.Favorites = models.StringArray{recipeID}
			favorites, present = p.Favorites, true
			return tx.Create(p).Error
		case err != nil:
			return err
		}

		favorites, present = profile.Favorites.Toggle(recipeID)
		return tx.Model(&models.UserProfile{}).Where("id = ?", uid).Updates(map[string]interface{}{
			"favorites":  favorites,
			"updated_at": time.Now().UTC(),
		}).Error
	})
	if err != nil {
		return nil, false, translate(err)
	}
	return favorites, present, nil
}

// RemoveFavorite drops recipeID from the user's favorites if it is there
func (s *Store) RemoveFavorite(ctx context.Context, uid, recipeID string) (models.StringArray, bool, error) {
	var (
		favorites models.StringArray
		removed   bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var profile models.UserProfile
		if err := forUpdate(tx).First(&profile, "id = ?", uid).Error; err != nil {
			return err
		}

		favorites, removed = profile.Favorites.Remove(recipeID)
		if !removed {
			return nil
		}
		return tx.Model(&models.UserProfile{}).Where("id = ?", uid).Updates(map[string]interface{}{
			"favorites":  favorites,
			"updated_at": time.Now().UTC(),
		}).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.StringArray{}, false, nil
	}
	if err != nil {
		return nil, false, translate(err)
	}
	return favorites, removed, nil
}

// CreateRecipe inserts a recipe, assigning its id
func (s *Store) CreateRecipe(ctx context.Context, recipe *models.Recipe) error {
	if recipe.ID == "" {
		recipe.ID = uuid.NewString()
	}
	return translate(s.db.WithContext(ctx).Create(recipe).Error)
}

// GetRecipe retrieves a recipe by ID
func (s *Store) GetRecipe(ctx context.Context, id string) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &recipe, nil
}

// ReplaceRecipe overwrites all content fields of an existing recipe
func (s *Store) ReplaceRecipe(ctx context.Context, recipe *models.Recipe) error {
	recipe.UpdatedAt = time.Now().UTC()
	result := s.db.WithContext(ctx).Model(&models.Recipe{}).Where("id = ?", recipe.ID).Updates(map[string]interface{}{
		"name":             recipe.Name,
		"preparation_time": recipe.PreparationTime,
		"difficulty":       recipe.Difficulty,
		"ingredients":      recipe.Ingredients,
		"directions":       recipe.Directions,
		"updated_at":       recipe.UpdatedAt,
	})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DeleteRecipe deletes a recipe
func (s *Store) DeleteRecipe(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Delete(&models.Recipe{}, "id = ?", id)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ListRecipes lists every recipe
func (s *Store) ListRecipes(ctx context.Context) ([]models.Recipe, error) {
	var recipes []models.Recipe
	if err := s.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// Ping checks the database connection
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the underlying connection pool
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
