package middleware

import (
	"context"
	"net/http"
	"strings"

	"recipe-box/internal/model"
)

// userResolver is the slice of the auth service the gate needs: token
// validation plus a single user lookup per request.
type userResolver interface {
	ValidateToken(tokenString string) (*model.AuthClaims, bool)
	ResolveUser(ctx context.Context, username string) (model.User, error)
}

type contextKey string

const currentUserContextKey contextKey = "current_user"

type AuthMiddleware struct {
	resolver userResolver
}

func NewAuthMiddleware(resolver userResolver) *AuthMiddleware {
	return &AuthMiddleware{resolver: resolver}
}

// RequireAuth gates a handler behind bearer authentication. Outcomes:
// missing credentials reject with 403, anything that fails validation or
// does not resolve to a live user rejects with 401, success stores the
// resolved user record in the request context.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := strings.TrimSpace(r.Header.Get("Authorization"))
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			writeAuthError(w, http.StatusForbidden, "FORBIDDEN", "credentials missing")
			return
		}

		token := strings.TrimSpace(header[7:])
		claims, ok := m.resolver.ValidateToken(token)
		if !ok {
			writeAuthError(w, http.StatusUnauthorized, "UNAUTHORIZED", "not authorized")
			return
		}

		if strings.TrimSpace(claims.Subject) == "" {
			writeAuthError(w, http.StatusUnauthorized, "UNAUTHORIZED", "user not found")
			return
		}

		user, err := m.resolver.ResolveUser(r.Context(), claims.Subject)
		if err != nil {
			writeAuthError(w, http.StatusUnauthorized, "UNAUTHORIZED", "user not found")
			return
		}

		ctx := context.WithValue(r.Context(), currentUserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserFromContext returns the user resolved by RequireAuth.
func UserFromContext(ctx context.Context) (model.User, bool) {
	user, ok := ctx.Value(currentUserContextKey).(model.User)
	return user, ok
}

func writeAuthError(w http.ResponseWriter, status int, code string, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = jsonEncode(w, model.APIResponse{
		Success: false,
		Error: &model.APIError{
			Code:    code,
			Message: message,
		},
	})
}
