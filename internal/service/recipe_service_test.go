package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"recipe-box/internal/model"
	"recipe-box/internal/repository"
)

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

var (
	alice = model.User{ID: "user-alice", Username: "alice"}
	bob   = model.User{ID: "user-bob", Username: "bob"}
)

func soupOwnedByAlice() model.Recipe {
	return model.Recipe{
		ID:          "rec-1",
		Name:        "Soup",
		Ingredients: "water,salt",
		Steps:       "boil",
		IsDraft:     true,
		CreatedAt:   time.Now().UTC().Add(-time.Hour),
		UpdatedAt:   time.Now().UTC().Add(-time.Hour),
		UserID:      alice.ID,
	}
}

func TestRecipeService_Create(t *testing.T) {
	recipes := new(repository.MockRecipeRepository)
	svc := NewRecipeService(recipes, new(mockGenerator))

	var created model.Recipe
	recipes.On("Create", mock.Anything, mock.AnythingOfType("model.Recipe")).
		Run(func(args mock.Arguments) { created = args.Get(1).(model.Recipe) }).
		Return(nil)

	rec, err := svc.Create(context.Background(), alice, model.CreateRecipeRequest{
		Name: "Soup", Ingredients: "water,salt", Steps: "boil",
	})
	require.NoError(t, err)

	assert.Equal(t, alice.ID, rec.UserID)
	assert.Empty(t, rec.ImageURL)
	assert.True(t, rec.IsDraft)
	assert.False(t, rec.IsAIGenerated)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, created, rec)
}

func TestRecipeService_Create_RequiresName(t *testing.T) {
	recipes := new(repository.MockRecipeRepository)
	svc := NewRecipeService(recipes, new(mockGenerator))

	_, err := svc.Create(context.Background(), alice, model.CreateRecipeRequest{Name: "  "})
	assert.ErrorIs(t, err, model.ErrInvalidInput)
	recipes.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRecipeService_List_Defaults(t *testing.T) {
	recipes := new(repository.MockRecipeRepository)
	svc := NewRecipeService(recipes, new(mockGenerator))

	recipes.On("List", mock.Anything, 0, DefaultListLimit).Return([]model.Recipe{soupOwnedByAlice()}, nil)
	recipes.On("Count", mock.Anything).Return(1, nil)

	page, meta, err := svc.List(context.Background(), -3, 0)
	require.NoError(t, err)
	assert.Len(t, page, 1)
	assert.Equal(t, 0, meta.Offset)
	assert.Equal(t, DefaultListLimit, meta.Limit)
	assert.Equal(t, 1, meta.Total)
}

func TestRecipeService_Update(t *testing.T) {
	t.Run("partial patch changes only supplied fields", func(t *testing.T) {
		recipes := new(repository.MockRecipeRepository)
		svc := NewRecipeService(recipes, new(mockGenerator))

		recipes.On("FindByID", mock.Anything, "rec-1").Return(soupOwnedByAlice(), nil)

		var persisted model.Recipe
		recipes.On("Update", mock.Anything, mock.AnythingOfType("model.Recipe")).
			Run(func(args mock.Arguments) { persisted = args.Get(1).(model.Recipe) }).
			Return(nil)

		newName := "Hearty Soup"
		updated, err := svc.Update(context.Background(), alice, "rec-1", model.UpdateRecipeRequest{Name: &newName})
		require.NoError(t, err)

		assert.Equal(t, "Hearty Soup", updated.Name)
		assert.Equal(t, "water,salt", updated.Ingredients)
		assert.Equal(t, "boil", updated.Steps)
		assert.True(t, updated.IsDraft)
		assert.Equal(t, persisted, updated)
	})

	t.Run("absent recipe", func(t *testing.T) {
		recipes := new(repository.MockRecipeRepository)
		svc := NewRecipeService(recipes, new(mockGenerator))

		recipes.On("FindByID", mock.Anything, "missing").Return(model.Recipe{}, model.ErrRecipeNotFound)

		_, err := svc.Update(context.Background(), alice, "missing", model.UpdateRecipeRequest{})
		assert.ErrorIs(t, err, model.ErrRecipeNotFound)
	})

	t.Run("non-owner forbidden", func(t *testing.T) {
		recipes := new(repository.MockRecipeRepository)
		svc := NewRecipeService(recipes, new(mockGenerator))

		recipes.On("FindByID", mock.Anything, "rec-1").Return(soupOwnedByAlice(), nil)

		newName := "Stolen Soup"
		_, err := svc.Update(context.Background(), bob, "rec-1", model.UpdateRecipeRequest{Name: &newName})
		assert.ErrorIs(t, err, model.ErrForbidden)
		recipes.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestRecipeService_Delete(t *testing.T) {
	t.Run("owner deletes", func(t *testing.T) {
		recipes := new(repository.MockRecipeRepository)
		svc := NewRecipeService(recipes, new(mockGenerator))

		recipes.On("FindByID", mock.Anything, "rec-1").Return(soupOwnedByAlice(), nil)
		recipes.On("Delete", mock.Anything, "rec-1").Return(nil)

		assert.NoError(t, svc.Delete(context.Background(), alice, "rec-1"))
		recipes.AssertExpectations(t)
	})

	t.Run("non-owner forbidden", func(t *testing.T) {
		recipes := new(repository.MockRecipeRepository)
		svc := NewRecipeService(recipes, new(mockGenerator))

		recipes.On("FindByID", mock.Anything, "rec-1").Return(soupOwnedByAlice(), nil)

		err := svc.Delete(context.Background(), bob, "rec-1")
		assert.ErrorIs(t, err, model.ErrForbidden)
		recipes.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("absent recipe", func(t *testing.T) {
		recipes := new(repository.MockRecipeRepository)
		svc := NewRecipeService(recipes, new(mockGenerator))

		recipes.On("FindByID", mock.Anything, "missing").Return(model.Recipe{}, model.ErrRecipeNotFound)

		assert.ErrorIs(t, svc.Delete(context.Background(), alice, "missing"), model.ErrRecipeNotFound)
	})
}

func TestRecipeService_ReadsIgnoreOwnership(t *testing.T) {
	recipes := new(repository.MockRecipeRepository)
	svc := NewRecipeService(recipes, new(mockGenerator))

	withImage := soupOwnedByAlice()
	withImage.ImageURL = "https://img.example/soup.png"
	recipes.On("FindByID", mock.Anything, "rec-1").Return(withImage, nil)

	// Get and GetImage take no requester at all; any authenticated user
	// reaches them through the gate.
	rec, err := svc.Get(context.Background(), "rec-1")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, rec.UserID)

	img, err := svc.GetImage(context.Background(), "rec-1")
	require.NoError(t, err)
	assert.Equal(t, "Soup", img.Name)
	assert.Equal(t, "https://img.example/soup.png", img.Link)
}

func TestRecipeService_GenerateImage(t *testing.T) {
	t.Run("success persists returned url", func(t *testing.T) {
		recipes := new(repository.MockRecipeRepository)
		generator := new(mockGenerator)
		svc := NewRecipeService(recipes, generator)

		recipes.On("FindByID", mock.Anything, "rec-1").Return(soupOwnedByAlice(), nil)
		generator.On("Generate", mock.Anything, mock.MatchedBy(func(prompt string) bool {
			return len(prompt) > 0
		})).Return("https://img.example/generated.png", nil)
		recipes.On("SetImageURL", mock.Anything, "rec-1", "https://img.example/generated.png").Return(nil)

		out, err := svc.GenerateImage(context.Background(), alice, "rec-1")
		require.NoError(t, err)
		assert.Equal(t, "https://img.example/generated.png", out.ImageURL)
		recipes.AssertExpectations(t)
	})

	t.Run("prompt includes recipe name and ingredients", func(t *testing.T) {
		recipes := new(repository.MockRecipeRepository)
		generator := new(mockGenerator)
		svc := NewRecipeService(recipes, generator)

		recipes.On("FindByID", mock.Anything, "rec-1").Return(soupOwnedByAlice(), nil)

		var prompt string
		generator.On("Generate", mock.Anything, mock.AnythingOfType("string")).
			Run(func(args mock.Arguments) { prompt = args.String(1) }).
			Return("https://img.example/x.png", nil)
		recipes.On("SetImageURL", mock.Anything, "rec-1", mock.Anything).Return(nil)

		_, err := svc.GenerateImage(context.Background(), alice, "rec-1")
		require.NoError(t, err)
		assert.Contains(t, prompt, "Soup")
		assert.Contains(t, prompt, "water,salt")
	})

	t.Run("non-owner forbidden regardless of provider", func(t *testing.T) {
		recipes := new(repository.MockRecipeRepository)
		generator := new(mockGenerator)
		svc := NewRecipeService(recipes, generator)

		recipes.On("FindByID", mock.Anything, "rec-1").Return(soupOwnedByAlice(), nil)

		_, err := svc.GenerateImage(context.Background(), bob, "rec-1")
		assert.ErrorIs(t, err, model.ErrForbidden)
		generator.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
	})

	t.Run("second generation conflicts", func(t *testing.T) {
		recipes := new(repository.MockRecipeRepository)
		generator := new(mockGenerator)
		svc := NewRecipeService(recipes, generator)

		existing := soupOwnedByAlice()
		existing.ImageURL = "https://img.example/soup.png"
		recipes.On("FindByID", mock.Anything, "rec-1").Return(existing, nil)

		_, err := svc.GenerateImage(context.Background(), alice, "rec-1")
		assert.ErrorIs(t, err, model.ErrImageAlreadyExists)
		generator.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
	})

	t.Run("provider failure writes nothing", func(t *testing.T) {
		recipes := new(repository.MockRecipeRepository)
		generator := new(mockGenerator)
		svc := NewRecipeService(recipes, generator)

		recipes.On("FindByID", mock.Anything, "rec-1").Return(soupOwnedByAlice(), nil)
		generator.On("Generate", mock.Anything, mock.Anything).Return("", errors.New("provider down"))

		_, err := svc.GenerateImage(context.Background(), alice, "rec-1")
		assert.ErrorIs(t, err, model.ErrImageGeneration)
		recipes.AssertNotCalled(t, "SetImageURL", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("absent recipe", func(t *testing.T) {
		recipes := new(repository.MockRecipeRepository)
		generator := new(mockGenerator)
		svc := NewRecipeService(recipes, generator)

		recipes.On("FindByID", mock.Anything, "missing").Return(model.Recipe{}, model.ErrRecipeNotFound)

		_, err := svc.GenerateImage(context.Background(), alice, "missing")
		assert.ErrorIs(t, err, model.ErrRecipeNotFound)
	})
}
