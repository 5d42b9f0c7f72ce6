//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"recipe-box/internal/config"
	"recipe-box/internal/handler"
	"recipe-box/internal/imagegen"
	"recipe-box/internal/middleware"
	"recipe-box/internal/model"
	"recipe-box/internal/router"
	"recipe-box/internal/service"
)

// memUserStore implements service.UserStore in memory so the full HTTP
// stack can be exercised without PostgreSQL.
type memUserStore struct {
	mu    sync.RWMutex
	users map[string]model.User // keyed by lower(username)
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: map[string]model.User{}}
}

func (s *memUserStore) FindByUsername(_ context.Context, username string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[strings.ToLower(strings.TrimSpace(username))]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return user, nil
}

func (s *memUserStore) ExistsByUsername(_ context.Context, username string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.users[strings.ToLower(strings.TrimSpace(username))]
	return ok, nil
}

func (s *memUserStore) Create(_ context.Context, u model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users[strings.ToLower(u.Username)] = u
	return nil
}

// memRecipeStore implements service.RecipeStore in memory.
type memRecipeStore struct {
	mu      sync.RWMutex
	recipes map[string]model.Recipe
}

func newMemRecipeStore() *memRecipeStore {
	return &memRecipeStore{recipes: map[string]model.Recipe{}}
}

func (s *memRecipeStore) FindByID(_ context.Context, id string) (model.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.recipes[id]
	if !ok {
		return model.Recipe{}, model.ErrRecipeNotFound
	}
	return rec, nil
}

func (s *memRecipeStore) List(_ context.Context, offset int, limit int) ([]model.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]model.Recipe, 0, len(s.recipes))
	for _, rec := range s.recipes {
		all = append(all, rec)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })

	if offset >= len(all) {
		return []model.Recipe{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (s *memRecipeStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.recipes), nil
}

func (s *memRecipeStore) Create(_ context.Context, rec model.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recipes[rec.ID] = rec
	return nil
}

func (s *memRecipeStore) Update(_ context.Context, rec model.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.recipes[rec.ID]; !ok {
		return model.ErrRecipeNotFound
	}
	stored := s.recipes[rec.ID]
	stored.Name = rec.Name
	stored.Ingredients = rec.Ingredients
	stored.Steps = rec.Steps
	stored.IsDraft = rec.IsDraft
	stored.UpdatedAt = rec.UpdatedAt
	s.recipes[rec.ID] = stored
	return nil
}

func (s *memRecipeStore) SetImageURL(_ context.Context, id string, imageURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.recipes[id]
	if !ok {
		return model.ErrRecipeNotFound
	}
	if rec.ImageURL != "" {
		return model.ErrImageAlreadyExists
	}
	rec.ImageURL = imageURL
	rec.UpdatedAt = time.Now().UTC()
	s.recipes[id] = rec
	return nil
}

func (s *memRecipeStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.recipes[id]; !ok {
		return model.ErrRecipeNotFound
	}
	delete(s.recipes, id)
	return nil
}

// fakeImageProvider is an httptest stand-in for the image synthesis API.
func fakeImageProvider(t *testing.T, healthy bool) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !healthy {
			http.Error(w, `{"error":"provider down"}`, http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]string{{"url": "https://img.example/generated.png"}},
		})
	}))
}

func newTestServer(t *testing.T, providerURL string) *httptest.Server {
	t.Helper()

	cfg := &config.Config{
		ServerPort:     "8080",
		RequestTimeout: 30 * time.Second,
		JWTSecret:      "test-secret",
		JWTAccessTTL:   2 * time.Hour,
		CORSOrigins:    []string{"*"},
	}

	tokenService := service.NewTokenService(cfg.JWTSecret, cfg.JWTAccessTTL)
	authService := service.NewAuthService(newMemUserStore(), tokenService)
	authMiddleware := middleware.NewAuthMiddleware(authService)
	authHandler := handler.NewAuthHandler(authService)

	generator := imagegen.NewClient(providerURL, "sk-test", "dall-e-3", "1024x1024", 5*time.Second)
	recipeService := service.NewRecipeService(newMemRecipeStore(), generator)
	recipeHandler := handler.NewRecipeHandler(recipeService)

	server := httptest.NewServer(router.New(cfg, authMiddleware, router.Handlers{
		Auth:   authHandler,
		Recipe: recipeHandler,
	}))
	t.Cleanup(server.Close)

	return server
}

func doJSON(t *testing.T, method string, url string, payload any, token string) *http.Response {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	return resp
}

func decodeData(t *testing.T, resp *http.Response, out any) {
	t.Helper()

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.True(t, envelope.Success)
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}

func signupAndLogin(t *testing.T, serverURL string, username string, password string) string {
	t.Helper()

	signupResp := doJSON(t, http.MethodPost, serverURL+"/api/v1/auth/signup",
		map[string]string{"username": username, "email": username + "@x.com", "password": password}, "")
	require.Equal(t, http.StatusOK, signupResp.StatusCode)

	loginResp := doJSON(t, http.MethodPost, serverURL+"/api/v1/auth/login",
		map[string]string{"username": username, "password": password}, "")
	require.Equal(t, http.StatusOK, loginResp.StatusCode)

	var tokens model.TokenResponse
	decodeData(t, loginResp, &tokens)
	require.NotEmpty(t, tokens.AccessToken)
	require.Equal(t, "bearer", tokens.TokenType)

	return tokens.AccessToken
}
