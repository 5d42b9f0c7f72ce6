package repository

import (
	"context"

	"github.com/stretchr/testify/mock"

	"recipe-box/internal/model"
)

// MockUserRepository is a testify mock used by service and handler tests.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (model.User, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, u model.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

// MockRecipeRepository is a testify mock used by service and handler tests.
type MockRecipeRepository struct {
	mock.Mock
}

func (m *MockRecipeRepository) FindByID(ctx context.Context, id string) (model.Recipe, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Recipe), args.Error(1)
}

func (m *MockRecipeRepository) List(ctx context.Context, offset int, limit int) ([]model.Recipe, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Recipe), args.Error(1)
}

func (m *MockRecipeRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockRecipeRepository) Create(ctx context.Context, rec model.Recipe) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockRecipeRepository) Update(ctx context.Context, rec model.Recipe) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockRecipeRepository) SetImageURL(ctx context.Context, id string, imageURL string) error {
	args := m.Called(ctx, id, imageURL)
	return args.Error(0)
}

func (m *MockRecipeRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
