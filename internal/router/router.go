package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"recipe-box/internal/config"
	"recipe-box/internal/handler"
	"recipe-box/internal/middleware"
)

type Handlers struct {
	Auth   *handler.AuthHandler
	Recipe *handler.RecipeHandler
}

func New(cfg *config.Config, authMiddleware *middleware.AuthMiddleware, h Handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/signup", h.Auth.Signup)
			auth.Post("/login", h.Auth.Login)
		})

		api.Route("/recipes", func(recipes chi.Router) {
			recipes.Use(authMiddleware.RequireAuth)

			recipes.Post("/", h.Recipe.Create)
			recipes.Get("/", h.Recipe.List)
			recipes.Get("/{id}", h.Recipe.Get)
			recipes.Patch("/{id}", h.Recipe.Update)
			recipes.Delete("/{id}", h.Recipe.Delete)
			recipes.Get("/{id}/image", h.Recipe.GetImage)
			recipes.Post("/{id}/generate-image", h.Recipe.GenerateImage)
		})
	})

	return r
}
