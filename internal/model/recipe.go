package model

import "time"

type Recipe struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Ingredients   string    `json:"ingredients"`
	Steps         string    `json:"steps"`
	ImageURL      string    `json:"image_url,omitempty"`
	IsDraft       bool      `json:"is_draft"`
	IsAIGenerated bool      `json:"is_ai_generated"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	UserID        string    `json:"user_id"`
}

// RecipeImage pairs a recipe name with its stored image link.
type RecipeImage struct {
	Name string `json:"name"`
	Link string `json:"link,omitempty"`
}
