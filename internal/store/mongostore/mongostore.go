// Package mongostore implements store.Store on MongoDB. Collections and
// field names mirror the document layout: accounts, users/{uid} and
// recipes/{id}.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/pageza/recipebook/backend/internal/models"
	"github.com/pageza/recipebook/backend/internal/store"
)

const (
	accountsCollection = "accounts"
	usersCollection    = "users"
	recipesCollection  = "recipes"

	// toggleAttempts bounds retries when a concurrent toggle wins the upsert.
	toggleAttempts = 3
)

// Store is a MongoDB-backed document store.
type Store struct {
	client   *mongo.Client
	accounts *mongo.Collection
	users    *mongo.Collection
	recipes  *mongo.Collection
}

var _ store.Store = (*Store)(nil)

// New creates a new Store on the named database.
func New(client *mongo.Client, database string) *Store {
	db := client.Database(database)
	return &Store{
		client:   client,
		accounts: db.Collection(accountsCollection),
		users:    db.Collection(usersCollection),
		recipes:  db.Collection(recipesCollection),
	}
}

// EnsureIndexes creates the indexes the store relies on. It is idempotent.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	if _, err := s.accounts.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_accounts_email"),
	}); err != nil {
		return fmt.Errorf("create accounts index: %w", err)
	}
	if _, err := s.recipes.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}},
		Options: options.Index().SetName("idx_recipes_created"),
	}); err != nil {
		return fmt.Errorf("create recipes index: %w", err)
	}
	return nil
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return store.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return store.ErrDuplicate
	default:
		return err
	}
}

func normalize(p *models.UserProfile) *models.UserProfile {
	if p.Favorites == nil {
		p.Favorites = models.StringArray{}
	}
	return p
}

// CreateAccount inserts a new identity account
func (s *Store) CreateAccount(ctx context.Context, account *models.Account) error {
	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now().UTC()
	}
	_, err := s.accounts.InsertOne(ctx, account)
	return translate(err)
}

// GetAccountByEmail looks an account up by its (normalized) email
func (s *Store) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	var account models.Account
	if err := s.accounts.FindOne(ctx, bson.M{"email": email}).Decode(&account); err != nil {
		return nil, translate(err)
	}
	return &account, nil
}

// DeleteAccount removes an account
func (s *Store) DeleteAccount(ctx context.Context, id string) error {
	_, err := s.accounts.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// GetProfile retrieves a user's profile document
func (s *Store) GetProfile(ctx context.Context, uid string) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := s.users.FindOne(ctx, bson.M{"_id": uid}).Decode(&profile); err != nil {
		return nil, translate(err)
	}
	return normalize(&profile), nil
}

// CreateProfile inserts a profile document
func (s *Store) CreateProfile(ctx context.Context, profile *models.UserProfile) error {
	normalize(profile)
	_, err := s.users.InsertOne(ctx, profile)
	return translate(err)
}

// MergeProfile sets the editable fields with an upsert. Favorites are only
// written when the document is created.
func (s *Store) MergeProfile(ctx context.Context, uid string, fields models.ProfileFields) (*models.UserProfile, error) {
	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"email":           fields.Email,
			"name":            fields.Name,
			"dateOfBirth":     fields.DateOfBirth,
			"favoriteCuisine": fields.FavoriteCuisine,
			"updatedAt":       now,
		},
		"$setOnInsert": bson.M{
			"favorites": bson.A{},
			"createdAt": now,
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var profile models.UserProfile
	if err := s.users.FindOneAndUpdate(ctx, bson.M{"_id": uid}, update, opts).Decode(&profile); err != nil {
		return nil, translate(err)
	}
	return normalize(&profile), nil
}

// ToggleFavorite pulls recipeID if present, otherwise appends it. Each branch
// is a single conditional update, so two devices toggling at once cannot both
// add or both remove.
func (s *Store) ToggleFavorite(ctx context.Context, uid, recipeID string) (models.StringArray, bool, error) {
	after := options.FindOneAndUpdate().SetReturnDocument(options.After)

	for attempt := 0; attempt < toggleAttempts; attempt++ {
		var profile models.UserProfile
		err := s.users.FindOneAndUpdate(ctx,
			bson.M{"_id": uid, "favorites": recipeID},
			bson.M{
				"$pull": bson.M{"favorites": recipeID},
				"$set":  bson.M{"updatedAt": time.Now().UTC()},
			},
			after,
		).Decode(&profile)
		if err == nil {
			return normalize(&profile).Favorites, false, nil
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, false, err
		}

		now := time.Now().UTC()
		err = s.users.FindOneAndUpdate(ctx,
			bson.M{"_id": uid, "favorites": bson.M{"$ne": recipeID}},
			bson.M{
				"$push": bson.M{"favorites": recipeID},
				"$set":  bson.M{"updatedAt": now},
				"$setOnInsert": bson.M{
					"email":           "",
					"name":            "",
					"dateOfBirth":     "",
					"favoriteCuisine": "",
					"createdAt":       now,
				},
			},
			options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
		).Decode(&profile)
		if err == nil {
			return normalize(&profile).Favorites, true, nil
		}
		// Another writer added recipeID between the two updates; the upsert
		// then collides on _id. Start over.
		if !mongo.IsDuplicateKeyError(err) {
			return nil, false, err
		}
	}
	return nil, false, fmt.Errorf("toggle favorite %s: too much contention", recipeID)
}

// RemoveFavorite pulls recipeID from the user's favorites
func (s *Store) RemoveFavorite(ctx context.Context, uid, recipeID string) (models.StringArray, bool, error) {
	var profile models.UserProfile
	err := s.users.FindOneAndUpdate(ctx,
		bson.M{"_id": uid, "favorites": recipeID},
		bson.M{
			"$pull": bson.M{"favorites": recipeID},
			"$set":  bson.M{"updatedAt": time.Now().UTC()},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&profile)
	if err == nil {
		return normalize(&profile).Favorites, true, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, err
	}

	current, err := s.GetProfile(ctx, uid)
	if errors.Is(err, store.ErrNotFound) {
		return models.StringArray{}, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return current.Favorites, false, nil
}

// CreateRecipe inserts a recipe, assigning its id
func (s *Store) CreateRecipe(ctx context.Context, recipe *models.Recipe) error {
	if recipe.ID == "" {
		recipe.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	recipe.CreatedAt = now
	recipe.UpdatedAt = now
	_, err := s.recipes.InsertOne(ctx, recipe)
	return translate(err)
}

// GetRecipe retrieves a recipe by ID
func (s *Store) GetRecipe(ctx context.Context, id string) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.recipes.FindOne(ctx, bson.M{"_id": id}).Decode(&recipe); err != nil {
		return nil, translate(err)
	}
	return &recipe, nil
}

// ReplaceRecipe overwrites all content fields of an existing recipe
func (s *Store) ReplaceRecipe(ctx context.Context, recipe *models.Recipe) error {
	recipe.UpdatedAt = time.Now().UTC()
	res, err := s.recipes.UpdateOne(ctx, bson.M{"_id": recipe.ID}, bson.M{
		"$set": bson.M{
			"name":            recipe.Name,
			"preparationTime": recipe.PreparationTime,
			"difficulty":      recipe.Difficulty,
			"ingredients":     recipe.Ingredients,
			"directions":      recipe.Directions,
			"updatedAt":       recipe.UpdatedAt,
		},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DeleteRecipe deletes a recipe
func (s *Store) DeleteRecipe(ctx context.Context, id string) error {
	res, err := s.recipes.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ListRecipes lists every recipe
func (s *Store) ListRecipes(ctx context.Context) ([]models.Recipe, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.recipes.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	recipes := []models.Recipe{}
	if err := cur.All(ctx, &recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

// Ping checks the connection to the primary
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
