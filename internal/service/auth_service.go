package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"recipe-box/internal/model"
)

// UserStore is the slice of the user repository the auth service depends on.
type UserStore interface {
	FindByUsername(ctx context.Context, username string) (model.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Create(ctx context.Context, u model.User) error
}

type AuthService struct {
	users  UserStore
	tokens *TokenService
}

func NewAuthService(users UserStore, tokens *TokenService) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

func (s *AuthService) Signup(ctx context.Context, username string, email string, password string) (model.UserPublic, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if username == "" || password == "" {
		return model.UserPublic{}, model.ErrInvalidInput
	}

	exists, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return model.UserPublic{}, err
	}
	if exists {
		return model.UserPublic{}, model.ErrUsernameTaken
	}

	hash, err := HashPassword(password)
	if err != nil {
		return model.UserPublic{}, err
	}

	now := time.Now().UTC()
	user := model.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return model.UserPublic{}, err
	}

	return user.Public(), nil
}

// Login verifies credentials and mints an access token bound to the
// username. An unknown username and a wrong password are indistinguishable
// to the caller.
func (s *AuthService) Login(ctx context.Context, username string, password string) (model.TokenResponse, error) {
	user, err := s.users.FindByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, model.ErrUserNotFound) {
		return model.TokenResponse{}, model.ErrInvalidCredentials
	}
	if err != nil {
		return model.TokenResponse{}, err
	}

	if !CheckPassword(password, user.PasswordHash) {
		return model.TokenResponse{}, model.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Username)
	if err != nil {
		return model.TokenResponse{}, err
	}

	return model.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user.Public(),
	}, nil
}

// ResolveUser maps a token subject back to a live user record. Used by the
// auth gate on every request; exactly one store lookup, no caching.
func (s *AuthService) ResolveUser(ctx context.Context, username string) (model.User, error) {
	if strings.TrimSpace(username) == "" {
		return model.User{}, model.ErrUserNotFound
	}
	return s.users.FindByUsername(ctx, username)
}

// ValidateToken exposes token validation to the auth gate without handing
// it the signing secret.
func (s *AuthService) ValidateToken(tokenString string) (*model.AuthClaims, bool) {
	return s.tokens.Validate(tokenString)
}
