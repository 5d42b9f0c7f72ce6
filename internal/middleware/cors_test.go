package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func preflight(t *testing.T, method string) *httptest.ResponseRecorder {
	t.Helper()

	handler := CORS([]string{"*"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/recipes/rec-1", nil)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", method)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestCORS_PreflightAllowsRouteMethods(t *testing.T) {
	// Every method the router actually exposes must survive preflight;
	// the update route uses PATCH.
	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete} {
		rec := preflight(t, method)
		assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), method, "method %s", method)
	}
}

func TestCORS_PreflightRejectsUnusedMethods(t *testing.T) {
	rec := preflight(t, http.MethodPut)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Methods"))
}
