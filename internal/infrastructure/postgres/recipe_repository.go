package postgres

import (
	"context"
	"errors"

	domain "foodie/backend/internal/domain/recipe"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RecipeRepository persists recipes and their ingredients in PostgreSQL.
type RecipeRepository struct {
	pool *pgxpool.Pool
}

// NewRecipeRepository constructs a repository.
func NewRecipeRepository(pool *pgxpool.Pool) *RecipeRepository {
	return &RecipeRepository{pool: pool}
}

// Create inserts a recipe and its ingredients in a single transaction.
func (r *RecipeRepository) Create(ctx context.Context, recipe *domain.Recipe) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const insertRecipe = `
INSERT INTO recipes (id, name, image, method, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
`
	if _, err := tx.Exec(ctx, insertRecipe,
		recipe.ID,
		recipe.Name,
		recipe.Image,
		recipe.Method,
		recipe.CreatedAt,
		recipe.UpdatedAt,
	); err != nil {
		return err
	}

	const insertIngredient = `
INSERT INTO ingredients (recipe_id, name, amount, unit)
VALUES ($1, $2, $3, $4)
RETURNING id
`
	for i := range recipe.Ingredients {
		ing := &recipe.Ingredients[i]
		if err := tx.QueryRow(ctx, insertIngredient,
			recipe.ID, ing.Name, ing.Amount, ing.Unit,
		).Scan(&ing.ID); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// GetByID fetches a recipe with its ingredient list.
func (r *RecipeRepository) GetByID(ctx context.Context, id string) (*domain.Recipe, error) {
	const query = `
SELECT id, name, image, method, created_at, updated_at
FROM recipes WHERE id = $1
`
	row := r.pool.QueryRow(ctx, query, id)
	recipe, err := scanRecipe(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	ingredients, err := r.ingredientsFor(ctx, id)
	if err != nil {
		return nil, err
	}
	recipe.Ingredients = ingredients
	return recipe, nil
}

// Page returns a slice of recipes ordered by name, without ingredient
// details.
func (r *RecipeRepository) Page(ctx context.Context, count, offset int) ([]*domain.Recipe, error) {
	const query = `
SELECT id, name, image, method, created_at, updated_at
FROM recipes
ORDER BY name ASC
LIMIT $1 OFFSET $2
`
	rows, err := r.pool.Query(ctx, query, count, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recipes []*domain.Recipe
	for rows.Next() {
		recipe, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, recipe)
	}
	return recipes, rows.Err()
}

// Update writes recipe field changes to the database.
func (r *RecipeRepository) Update(ctx context.Context, recipe *domain.Recipe) error {
	const query = `
UPDATE recipes
SET name = $2, image = $3, method = $4, updated_at = $5
WHERE id = $1
`
	tag, err := r.pool.Exec(ctx, query,
		recipe.ID,
		recipe.Name,
		recipe.Image,
		recipe.Method,
		recipe.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes a recipe; ingredients cascade.
func (r *RecipeRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM recipes WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// PageIngredients returns up to count ingredients of a recipe starting
// at offset, ordered by id. A missing recipe maps to ErrNotFound so it
// is distinguishable from a recipe with no ingredients.
func (r *RecipeRepository) PageIngredients(ctx context.Context, recipeID string, count, offset int) ([]domain.Ingredient, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM recipes WHERE id = $1)`, recipeID,
	).Scan(&exists); err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrNotFound
	}

	const query = `
SELECT id, name, amount, unit
FROM ingredients
WHERE recipe_id = $1
ORDER BY id ASC
LIMIT $2 OFFSET $3
`
	rows, err := r.pool.Query(ctx, query, recipeID, count, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanIngredients(rows)
}

// AddIngredient appends an ingredient to an existing recipe and fills
// in its generated id.
func (r *RecipeRepository) AddIngredient(ctx context.Context, recipeID string, ingredient *domain.Ingredient) error {
	const query = `
INSERT INTO ingredients (recipe_id, name, amount, unit)
VALUES ($1, $2, $3, $4)
RETURNING id
`
	err := r.pool.QueryRow(ctx, query,
		recipeID, ingredient.Name, ingredient.Amount, ingredient.Unit,
	).Scan(&ingredient.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return err
	}
	return nil
}

// UpdateIngredient modifies an ingredient belonging to the recipe.
func (r *RecipeRepository) UpdateIngredient(ctx context.Context, recipeID string, ingredient *domain.Ingredient) error {
	const query = `
UPDATE ingredients
SET name = $3, amount = $4, unit = $5
WHERE id = $1 AND recipe_id = $2
`
	tag, err := r.pool.Exec(ctx, query,
		ingredient.ID,
		recipeID,
		ingredient.Name,
		ingredient.Amount,
		ingredient.Unit,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrIngredientNotFound
	}
	return nil
}

// RemoveIngredient deletes an ingredient from the recipe.
func (r *RecipeRepository) RemoveIngredient(ctx context.Context, recipeID string, ingredientID int64) error {
	const query = `DELETE FROM ingredients WHERE id = $1 AND recipe_id = $2`
	tag, err := r.pool.Exec(ctx, query, ingredientID, recipeID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrIngredientNotFound
	}
	return nil
}

func (r *RecipeRepository) ingredientsFor(ctx context.Context, recipeID string) ([]domain.Ingredient, error) {
	const query = `
SELECT id, name, amount, unit
FROM ingredients
WHERE recipe_id = $1
ORDER BY id ASC
`
	rows, err := r.pool.Query(ctx, query, recipeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanIngredients(rows)
}

func scanIngredients(rows pgx.Rows) ([]domain.Ingredient, error) {
	var ingredients []domain.Ingredient
	for rows.Next() {
		var ing domain.Ingredient
		if err := rows.Scan(&ing.ID, &ing.Name, &ing.Amount, &ing.Unit); err != nil {
			return nil, err
		}
		ingredients = append(ingredients, ing)
	}
	return ingredients, rows.Err()
}

func scanRecipe(row pgx.Row) (*domain.Recipe, error) {
	var rec domain.Recipe
	err := row.Scan(
		&rec.ID,
		&rec.Name,
		&rec.Image,
		&rec.Method,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
