package model

import "errors"

var (
	// User related errors
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Token related errors
	ErrCredentialsMissing = errors.New("credentials missing")
	ErrInvalidToken       = errors.New("invalid token")

	// Recipe related errors
	ErrRecipeNotFound = errors.New("recipe not found")
	ErrForbidden      = errors.New("forbidden")

	// Image generation errors
	ErrImageAlreadyExists = errors.New("recipe image already exists")
	ErrImageGeneration    = errors.New("image generation failed")

	// Generic errors
	ErrInvalidInput = errors.New("invalid input")
)
