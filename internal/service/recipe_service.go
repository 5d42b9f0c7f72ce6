package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"recipe-box/internal/imagegen"
	"recipe-box/internal/model"
)

const (
	DefaultListLimit = 5
	maxListLimit     = 100
)

// RecipeStore is the slice of the recipe repository the service depends on.
type RecipeStore interface {
	FindByID(ctx context.Context, id string) (model.Recipe, error)
	List(ctx context.Context, offset int, limit int) ([]model.Recipe, error)
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, rec model.Recipe) error
	Update(ctx context.Context, rec model.Recipe) error
	SetImageURL(ctx context.Context, id string, imageURL string) error
	Delete(ctx context.Context, id string) error
}

// ImageGenerator produces a hosted image URL for a prompt.
type ImageGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type RecipeService struct {
	recipes   RecipeStore
	generator ImageGenerator
}

func NewRecipeService(recipes RecipeStore, generator ImageGenerator) *RecipeService {
	return &RecipeService{recipes: recipes, generator: generator}
}

// Create stores a new recipe owned by the requester. Ownership is fixed
// here and never transfers.
func (s *RecipeService) Create(ctx context.Context, owner model.User, req model.CreateRecipeRequest) (model.Recipe, error) {
	if strings.TrimSpace(req.Name) == "" {
		return model.Recipe{}, model.ErrInvalidInput
	}

	now := time.Now().UTC()
	rec := model.Recipe{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Ingredients: req.Ingredients,
		Steps:       req.Steps,
		IsDraft:     true,
		CreatedAt:   now,
		UpdatedAt:   now,
		UserID:      owner.ID,
	}

	if err := s.recipes.Create(ctx, rec); err != nil {
		return model.Recipe{}, err
	}

	return rec, nil
}

// List returns one page of recipes. Reads are open: no ownership filter is
// applied, any authenticated user sees every recipe.
func (s *RecipeService) List(ctx context.Context, offset int, limit int) ([]model.Recipe, *model.Meta, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	recipes, err := s.recipes.List(ctx, offset, limit)
	if err != nil {
		return nil, nil, err
	}

	total, err := s.recipes.Count(ctx)
	if err != nil {
		return nil, nil, err
	}

	return recipes, &model.Meta{Offset: offset, Limit: limit, Total: total}, nil
}

func (s *RecipeService) Get(ctx context.Context, id string) (model.Recipe, error) {
	return s.recipes.FindByID(ctx, id)
}

// Update applies a sparse patch to a recipe the requester owns. Only
// non-nil fields change; everything else keeps its stored value.
func (s *RecipeService) Update(ctx context.Context, requester model.User, id string, patch model.UpdateRecipeRequest) (model.Recipe, error) {
	rec, err := s.recipes.FindByID(ctx, id)
	if err != nil {
		return model.Recipe{}, err
	}

	if rec.UserID != requester.ID {
		return model.Recipe{}, model.ErrForbidden
	}

	if patch.Name != nil {
		rec.Name = *patch.Name
	}
	if patch.Ingredients != nil {
		rec.Ingredients = *patch.Ingredients
	}
	if patch.Steps != nil {
		rec.Steps = *patch.Steps
	}
	if patch.IsDraft != nil {
		rec.IsDraft = *patch.IsDraft
	}
	rec.UpdatedAt = time.Now().UTC()

	if err := s.recipes.Update(ctx, rec); err != nil {
		return model.Recipe{}, err
	}

	return rec, nil
}

func (s *RecipeService) Delete(ctx context.Context, requester model.User, id string) error {
	rec, err := s.recipes.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if rec.UserID != requester.ID {
		return model.ErrForbidden
	}

	return s.recipes.Delete(ctx, id)
}

// GetImage returns the recipe name with its stored image link. Like the
// other reads it is not ownership-gated.
func (s *RecipeService) GetImage(ctx context.Context, id string) (model.RecipeImage, error) {
	rec, err := s.recipes.FindByID(ctx, id)
	if err != nil {
		return model.RecipeImage{}, err
	}

	return model.RecipeImage{Name: rec.Name, Link: rec.ImageURL}, nil
}

// GenerateImage runs the one-shot generation flow: owner-only, at most one
// image per recipe, and nothing is written unless the provider succeeds.
func (s *RecipeService) GenerateImage(ctx context.Context, requester model.User, id string) (model.GeneratedImage, error) {
	rec, err := s.recipes.FindByID(ctx, id)
	if err != nil {
		return model.GeneratedImage{}, err
	}

	if rec.UserID != requester.ID {
		return model.GeneratedImage{}, model.ErrForbidden
	}

	if rec.ImageURL != "" {
		return model.GeneratedImage{}, model.ErrImageAlreadyExists
	}

	prompt := imagegen.BuildPrompt(rec.Name, rec.Ingredients)

	url, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		// Keep the provider error in the chain for server logs; clients only
		// ever see the generic upstream-unavailable mapping.
		return model.GeneratedImage{}, fmt.Errorf("%w: %v", model.ErrImageGeneration, err)
	}

	if err := s.recipes.SetImageURL(ctx, id, url); err != nil {
		return model.GeneratedImage{}, err
	}

	return model.GeneratedImage{ImageURL: url}, nil
}
