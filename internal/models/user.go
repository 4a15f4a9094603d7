package models

import (
	"time"
)

// Account is the identity record behind a session. Its ID is also the id
// of the user's profile document.
type Account struct {
	ID           string    `gorm:"type:varchar(36);primaryKey" json:"id" bson:"_id"`
	Email        string    `gorm:"size:255;not null;uniqueIndex" json:"email" bson:"email"`
	PasswordHash string    `gorm:"not null" json:"-" bson:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
}

func (Account) TableName() string {
	return "accounts"
}

// UserProfile is the users/{uid} document.
type UserProfile struct {
	ID              string      `gorm:"type:varchar(36);primaryKey" json:"id" bson:"_id"`
	Email           string      `gorm:"size:255" json:"email" bson:"email"`
	Name            string      `gorm:"size:255" json:"name" bson:"name"`
	DateOfBirth     string      `gorm:"size:64" json:"dateOfBirth" bson:"dateOfBirth"`
	FavoriteCuisine string      `gorm:"size:255" json:"favoriteCuisine" bson:"favoriteCuisine"`
	Favorites       StringArray `gorm:"type:text;not null" json:"favorites" bson:"favorites"`
	CreatedAt       time.Time   `json:"-" bson:"createdAt"`
	UpdatedAt       time.Time   `json:"-" bson:"updatedAt"`
}

func (UserProfile) TableName() string {
	return "users"
}

// NewProfile returns the profile written on registration: empty fields and
// an empty favorites set.
func NewProfile(uid, email string) *UserProfile {
	now := time.Now().UTC()
	return &UserProfile{
		ID:        uid,
		Email:     email,
		Favorites: StringArray{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ProfileFields are the profile fields written by a profile save. Favorites
// are deliberately absent: saving a profile never rewrites them.
type ProfileFields struct {
	Email           string `json:"email"`
	Name            string `json:"name"`
	DateOfBirth     string `json:"dateOfBirth"`
	FavoriteCuisine string `json:"favoriteCuisine"`
}

// Apply copies the fields onto p.
func (f ProfileFields) Apply(p *UserProfile) {
	p.Email = f.Email
	p.Name = f.Name
	p.DateOfBirth = f.DateOfBirth
	p.FavoriteCuisine = f.FavoriteCuisine
}
