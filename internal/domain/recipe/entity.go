package recipe

import (
	"errors"
	"time"
)

var (
	// ErrNotFound indicates a recipe could not be located.
	ErrNotFound = errors.New("recipe not found")
	// ErrIngredientNotFound indicates a missing ingredient row.
	ErrIngredientNotFound = errors.New("ingredient not found")
	// ErrPageTooBig signals a page request above the configured cap.
	ErrPageTooBig = errors.New("number of recipes requested is too large")
	// ErrInvalidInput marks a rejected recipe or ingredient payload.
	ErrInvalidInput = errors.New("invalid input")
)

// Recipe aggregates a dish with its preparation method and ingredients.
type Recipe struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Image       string       `json:"image"`
	Method      string       `json:"method"`
	Ingredients []Ingredient `json:"ingredients"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// Ingredient is a single entry on a recipe's ingredient list.
type Ingredient struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}
