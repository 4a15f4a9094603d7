package types

import (
	"time"

	"github.com/pageza/recipebook/backend/internal/models"
)

// CredentialsRequest is the body of register and login
type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

// UpdateProfileRequest is the body of a profile save. The email is taken
// from the session, never from the request.
type UpdateProfileRequest struct {
	Name            string `json:"name"`
	DateOfBirth     string `json:"dateOfBirth"`
	FavoriteCuisine string `json:"favoriteCuisine"`
}

// RecipeRequest is the body of recipe create and edit. Every field is
// written; omitted fields are stored empty.
type RecipeRequest struct {
	Name            string `json:"name"`
	PreparationTime string `json:"preparationTime"`
	Difficulty      string `json:"difficulty"`
	Ingredients     string `json:"ingredients"`
	Directions      string `json:"directions"`
}

// Fields converts the request to the recipe's editable content
func (r RecipeRequest) Fields() models.RecipeFields {
	return models.RecipeFields{
		Name:            r.Name,
		PreparationTime: r.PreparationTime,
		Difficulty:      r.Difficulty,
		Ingredients:     r.Ingredients,
		Directions:      r.Directions,
	}
}

// FavoriteResponse is returned by a favorite toggle
type FavoriteResponse struct {
	RecipeID  string   `json:"recipe_id"`
	Favorite  bool     `json:"favorite"`
	Favorites []string `json:"favorites"`
}

// PhotoURLResponse carries a presigned photo URL
type PhotoURLResponse struct {
	URL       string    `json:"url"`
	Method    string    `json:"method"`
	ExpiresAt time.Time `json:"expires_at"`
}
