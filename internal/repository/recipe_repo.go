package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"recipe-box/internal/model"
)

type RecipeRepository struct {
	pool *pgxpool.Pool
}

func NewRecipeRepository(pool *pgxpool.Pool) *RecipeRepository {
	return &RecipeRepository{pool: pool}
}

const recipeColumns = `id, name, ingredients, steps, image_url, is_draft, is_ai_generated, created_at, updated_at, user_id`

func scanRecipe(row pgx.Row) (model.Recipe, error) {
	var rec model.Recipe
	var imageURL *string
	err := row.Scan(&rec.ID, &rec.Name, &rec.Ingredients, &rec.Steps, &imageURL,
		&rec.IsDraft, &rec.IsAIGenerated, &rec.CreatedAt, &rec.UpdatedAt, &rec.UserID)
	if err != nil {
		return model.Recipe{}, err
	}
	if imageURL != nil {
		rec.ImageURL = *imageURL
	}
	return rec, nil
}

func (r *RecipeRepository) FindByID(ctx context.Context, id string) (model.Recipe, error) {
	rec, err := scanRecipe(r.pool.QueryRow(ctx,
		`SELECT `+recipeColumns+` FROM recipes WHERE id = $1`, id))

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Recipe{}, model.ErrRecipeNotFound
	}
	if err != nil {
		return model.Recipe{}, fmt.Errorf("find recipe by id: %w", err)
	}
	return rec, nil
}

func (r *RecipeRepository) List(ctx context.Context, offset int, limit int) ([]model.Recipe, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+recipeColumns+` FROM recipes ORDER BY created_at, id OFFSET $1 LIMIT $2`,
		offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	defer rows.Close()

	recipes := make([]model.Recipe, 0)
	for rows.Next() {
		rec, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("scan recipe: %w", err)
		}
		recipes = append(recipes, rec)
	}
	return recipes, rows.Err()
}

func (r *RecipeRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM recipes`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count recipes: %w", err)
	}
	return count, nil
}

func (r *RecipeRepository) Create(ctx context.Context, rec model.Recipe) error {
	var imageURL *string
	if rec.ImageURL != "" {
		imageURL = &rec.ImageURL
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO recipes (id, name, ingredients, steps, image_url, is_draft, is_ai_generated, created_at, updated_at, user_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		rec.ID, rec.Name, rec.Ingredients, rec.Steps, imageURL,
		rec.IsDraft, rec.IsAIGenerated, rec.CreatedAt, rec.UpdatedAt, rec.UserID)
	if err != nil {
		return fmt.Errorf("create recipe: %w", err)
	}
	return nil
}

func (r *RecipeRepository) Update(ctx context.Context, rec model.Recipe) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE recipes SET name = $2, ingredients = $3, steps = $4, is_draft = $5, updated_at = $6
		 WHERE id = $1`,
		rec.ID, rec.Name, rec.Ingredients, rec.Steps, rec.IsDraft, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update recipe: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrRecipeNotFound
	}
	return nil
}

// SetImageURL writes the generated URL only when no image is stored yet, so a
// concurrent second generation cannot overwrite the first.
func (r *RecipeRepository) SetImageURL(ctx context.Context, id string, imageURL string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE recipes SET image_url = $2, updated_at = $3
		 WHERE id = $1 AND image_url IS NULL`,
		id, imageURL, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("set recipe image url: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrImageAlreadyExists
	}
	return nil
}

func (r *RecipeRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM recipes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrRecipeNotFound
	}
	return nil
}
