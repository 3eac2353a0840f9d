package recipe

import (
	"context"
	"fmt"
	"strings"
	"time"

	domain "foodie/backend/internal/domain/recipe"

	"github.com/google/uuid"
)

// MaxPageSize caps the number of recipes returned by a single page
// query.
const MaxPageSize = 50

// Service encapsulates recipe use cases.
type Service struct {
	repo    domain.Repository
	nowFunc func() time.Time
}

// NewService constructs a recipe service.
func NewService(repo domain.Repository) *Service {
	return &Service{
		repo:    repo,
		nowFunc: time.Now,
	}
}

// IngredientInput is the payload for a single ingredient.
type IngredientInput struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

// CreateInput contains the payload required for recipe creation.
type CreateInput struct {
	Name        string            `json:"name"`
	Image       string            `json:"image"`
	Method      string            `json:"method"`
	Ingredients []IngredientInput `json:"ingredients"`
}

// UpdateInput encapsulates partial recipe updates.
type UpdateInput struct {
	Name   *string `json:"name"`
	Image  *string `json:"image"`
	Method *string `json:"method"`
}

// Create stores a new recipe after validation.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.Recipe, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}

	now := s.nowFunc().UTC()
	recipe := &domain.Recipe{
		ID:        uuid.NewString(),
		Name:      input.Name,
		Image:     input.Image,
		Method:    input.Method,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, ing := range input.Ingredients {
		recipe.Ingredients = append(recipe.Ingredients, domain.Ingredient{
			Name:   strings.TrimSpace(ing.Name),
			Amount: ing.Amount,
			Unit:   ing.Unit,
		})
	}

	if err := s.repo.Create(ctx, recipe); err != nil {
		return nil, err
	}
	return recipe, nil
}

// Get fetches a single recipe with its ingredients.
func (s *Service) Get(ctx context.Context, id string) (*domain.Recipe, error) {
	return s.repo.GetByID(ctx, id)
}

// Page returns up to count recipes starting at offset.
func (s *Service) Page(ctx context.Context, count, offset int) ([]*domain.Recipe, error) {
	if count <= 0 {
		count = MaxPageSize
	}
	if count > MaxPageSize {
		return nil, domain.ErrPageTooBig
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.Page(ctx, count, offset)
}

// PageIngredients returns up to count ingredients of a recipe starting
// at offset.
func (s *Service) PageIngredients(ctx context.Context, recipeID string, count, offset int) ([]domain.Ingredient, error) {
	if count <= 0 {
		count = MaxPageSize
	}
	if count > MaxPageSize {
		return nil, domain.ErrPageTooBig
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.PageIngredients(ctx, recipeID, count, offset)
}

// Update applies partial field changes to a recipe.
func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (*domain.Recipe, error) {
	recipe, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
		}
		recipe.Name = name
	}
	if input.Image != nil {
		recipe.Image = *input.Image
	}
	if input.Method != nil {
		recipe.Method = *input.Method
	}
	recipe.UpdatedAt = s.nowFunc().UTC()

	if err := s.repo.Update(ctx, recipe); err != nil {
		return nil, err
	}
	return recipe, nil
}

// Delete removes a recipe and its ingredients.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// AddIngredient appends an ingredient to a recipe.
func (s *Service) AddIngredient(ctx context.Context, recipeID string, input IngredientInput) (*domain.Ingredient, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}

	ingredient := &domain.Ingredient{
		Name:   input.Name,
		Amount: input.Amount,
		Unit:   input.Unit,
	}
	if err := s.repo.AddIngredient(ctx, recipeID, ingredient); err != nil {
		return nil, err
	}
	return ingredient, nil
}

// UpdateIngredient replaces an ingredient's fields.
func (s *Service) UpdateIngredient(ctx context.Context, recipeID string, ingredientID int64, input IngredientInput) (*domain.Ingredient, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}

	ingredient := &domain.Ingredient{
		ID:     ingredientID,
		Name:   input.Name,
		Amount: input.Amount,
		Unit:   input.Unit,
	}
	if err := s.repo.UpdateIngredient(ctx, recipeID, ingredient); err != nil {
		return nil, err
	}
	return ingredient, nil
}

// RemoveIngredient deletes an ingredient from a recipe.
func (s *Service) RemoveIngredient(ctx context.Context, recipeID string, ingredientID int64) error {
	return s.repo.RemoveIngredient(ctx, recipeID, ingredientID)
}
