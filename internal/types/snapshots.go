package types

import (
	"github.com/pageza/recipebook/backend/internal/models"
)

// RecipeListSnapshot is one emission of the recipe list live sequence
type RecipeListSnapshot struct {
	Recipes   []models.Recipe `json:"recipes"`
	Favorites []string        `json:"favorites"`
}

// ProfileSnapshot is one emission of the profile live sequence. Found is
// false while the users/{uid} document does not exist.
type ProfileSnapshot struct {
	Found   bool                `json:"found"`
	Profile *models.UserProfile `json:"profile,omitempty"`
}

// RecipeSnapshot is one emission of the recipe detail live sequence
type RecipeSnapshot struct {
	Found    bool           `json:"found"`
	Recipe   *models.Recipe `json:"recipe,omitempty"`
	Favorite bool           `json:"favorite"`
}

// RecipeDetail is a recipe with the caller's favorite flag
type RecipeDetail struct {
	models.Recipe
	Favorite bool `json:"favorite"`
}
