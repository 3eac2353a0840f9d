package recipe

import "context"

// Repository defines persistence behaviours for recipes and their
// ingredients.
type Repository interface {
	Create(ctx context.Context, recipe *Recipe) error
	GetByID(ctx context.Context, id string) (*Recipe, error)
	Page(ctx context.Context, count, offset int) ([]*Recipe, error)
	Update(ctx context.Context, recipe *Recipe) error
	Delete(ctx context.Context, id string) error

	PageIngredients(ctx context.Context, recipeID string, count, offset int) ([]Ingredient, error)
	AddIngredient(ctx context.Context, recipeID string, ingredient *Ingredient) error
	UpdateIngredient(ctx context.Context, recipeID string, ingredient *Ingredient) error
	RemoveIngredient(ctx context.Context, recipeID string, ingredientID int64) error
}
