package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"recipe-box/internal/model"
	"recipe-box/pkg/apierror"
)

func writeSuccess(w http.ResponseWriter, status int, data any, meta *model.Meta) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: true,
		Data:    data,
		Meta:    meta,
	})
}

// writeError maps the closed error set onto stable status codes and short
// messages. Storage and provider internals never reach the response body.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	body := &model.APIError{
		Code:    "INTERNAL_ERROR",
		Message: "Unexpected server error",
	}

	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		status = apiErr.HTTPStatus
		body.Code = apiErr.Code
		body.Message = apiErr.Message
		body.Details = apiErr.Details
	} else if errors.Is(err, model.ErrUsernameTaken) {
		status = http.StatusBadRequest
		body.Code = "ALREADY_TAKEN"
		body.Message = "Username already exists"
	} else if errors.Is(err, model.ErrInvalidCredentials) {
		status = http.StatusBadRequest
		body.Code = "BAD_REQUEST"
		body.Message = "Invalid username or password"
	} else if errors.Is(err, model.ErrUserNotFound) {
		status = http.StatusUnauthorized
		body.Code = "UNAUTHORIZED"
		body.Message = "User not found"
	} else if errors.Is(err, model.ErrCredentialsMissing) {
		status = http.StatusForbidden
		body.Code = "FORBIDDEN"
		body.Message = "Credentials missing"
	} else if errors.Is(err, model.ErrInvalidToken) {
		status = http.StatusUnauthorized
		body.Code = "UNAUTHORIZED"
		body.Message = "Not authorized"
	} else if errors.Is(err, model.ErrRecipeNotFound) {
		status = http.StatusNotFound
		body.Code = "NOT_FOUND"
		body.Message = "Recipe not found"
	} else if errors.Is(err, model.ErrForbidden) {
		status = http.StatusForbidden
		body.Code = "FORBIDDEN"
		body.Message = "Not the owner of this recipe"
	} else if errors.Is(err, model.ErrImageAlreadyExists) {
		status = http.StatusConflict
		body.Code = "CONFLICT"
		body.Message = "Recipe image already exists"
	} else if errors.Is(err, model.ErrImageGeneration) {
		status = http.StatusServiceUnavailable
		body.Code = "UPSTREAM_UNAVAILABLE"
		body.Message = "Image generation failed"
		// The wrapped provider detail stays in the log only.
		slog.Warn("image generation failed", "error", err.Error())
	} else if errors.Is(err, model.ErrInvalidInput) {
		status = http.StatusBadRequest
		body.Code = "BAD_REQUEST"
		body.Message = "Invalid input"
	} else {
		// Log unclassified errors so they are visible in container logs.
		slog.Error("unhandled error in writeError", "error", err.Error())
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: false,
		Error:   body,
	})
}
