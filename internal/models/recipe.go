package models

import (
	"time"
)

// Recipe is the recipes/{id} document. All content fields are free text.
type Recipe struct {
	ID              string    `gorm:"type:varchar(36);primaryKey" json:"id" bson:"_id"`
	Name            string    `gorm:"size:255" json:"name" bson:"name"`
	PreparationTime string    `gorm:"size:255" json:"preparationTime" bson:"preparationTime"`
	Difficulty      string    `gorm:"size:255" json:"difficulty" bson:"difficulty"`
	Ingredients     string    `gorm:"type:text" json:"ingredients" bson:"ingredients"`
	Directions      string    `gorm:"type:text" json:"directions" bson:"directions"`
	CreatedAt       time.Time `gorm:"index" json:"-" bson:"createdAt"`
	UpdatedAt       time.Time `json:"-" bson:"updatedAt"`
}

func (Recipe) TableName() string {
	return "recipes"
}

// RecipeFields is the editable content of a recipe. An edit writes every
// field, so a field left empty in the form is stored empty.
type RecipeFields struct {
	Name            string `json:"name"`
	PreparationTime string `json:"preparationTime"`
	Difficulty      string `json:"difficulty"`
	Ingredients     string `json:"ingredients"`
	Directions      string `json:"directions"`
}

// Apply overwrites every content field of r.
func (f RecipeFields) Apply(r *Recipe) {
	r.Name = f.Name
	r.PreparationTime = f.PreparationTime
	r.Difficulty = f.Difficulty
	r.Ingredients = f.Ingredients
	r.Directions = f.Directions
}
