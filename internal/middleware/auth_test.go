package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-box/internal/model"
)

type stubResolver struct {
	claims *model.AuthClaims
	valid  bool
	user   model.User
	err    error
}

func (s *stubResolver) ValidateToken(string) (*model.AuthClaims, bool) {
	return s.claims, s.valid
}

func (s *stubResolver) ResolveUser(context.Context, string) (model.User, error) {
	return s.user, s.err
}

func gatedHandler(t *testing.T, resolver *stubResolver) (http.Handler, *model.User) {
	t.Helper()

	var seen model.User
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		require.True(t, ok)
		seen = user
		w.WriteHeader(http.StatusOK)
	})

	return NewAuthMiddleware(resolver).RequireAuth(next), &seen
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) model.APIError {
	t.Helper()

	var parsed model.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &parsed))
	require.False(t, parsed.Success)
	require.NotNil(t, parsed.Error)
	return *parsed.Error
}

func TestRequireAuth_MissingCredentials(t *testing.T) {
	handler, _ := gatedHandler(t, &stubResolver{})

	for _, header := range []string{"", "Basic abc", "bearer"} {
		req := httptest.NewRequest(http.MethodGet, "/recipes", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code, "header %q", header)
		apiErr := decodeError(t, rec)
		assert.Equal(t, "FORBIDDEN", apiErr.Code)
		assert.Equal(t, "credentials missing", apiErr.Message)
	}
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	handler, _ := gatedHandler(t, &stubResolver{valid: false})

	req := httptest.NewRequest(http.MethodGet, "/recipes", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	apiErr := decodeError(t, rec)
	assert.Equal(t, "UNAUTHORIZED", apiErr.Code)
	assert.Equal(t, "not authorized", apiErr.Message)
}

func TestRequireAuth_EmptySubject(t *testing.T) {
	handler, _ := gatedHandler(t, &stubResolver{
		claims: &model.AuthClaims{Subject: "  "},
		valid:  true,
	})

	req := httptest.NewRequest(http.MethodGet, "/recipes", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "user not found", decodeError(t, rec).Message)
}

func TestRequireAuth_UnknownSubject(t *testing.T) {
	handler, _ := gatedHandler(t, &stubResolver{
		claims: &model.AuthClaims{Subject: "ghost"},
		valid:  true,
		err:    model.ErrUserNotFound,
	})

	req := httptest.NewRequest(http.MethodGet, "/recipes", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "user not found", decodeError(t, rec).Message)
}

func TestRequireAuth_Success(t *testing.T) {
	handler, seen := gatedHandler(t, &stubResolver{
		claims: &model.AuthClaims{Subject: "alice"},
		valid:  true,
		user:   model.User{ID: "user-1", Username: "alice"},
	})

	req := httptest.NewRequest(http.MethodGet, "/recipes", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", seen.ID)
	assert.Equal(t, "alice", seen.Username)
}

func TestRequireAuth_CaseInsensitiveScheme(t *testing.T) {
	handler, _ := gatedHandler(t, &stubResolver{
		claims: &model.AuthClaims{Subject: "alice"},
		valid:  true,
		user:   model.User{ID: "user-1", Username: "alice"},
	})

	req := httptest.NewRequest(http.MethodGet, "/recipes", nil)
	req.Header.Set("Authorization", "BEARER good-token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
