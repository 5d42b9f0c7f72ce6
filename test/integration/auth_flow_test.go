//go:build integration

package integration

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignupLoginFlow(t *testing.T) {
	provider := fakeImageProvider(t, true)
	server := newTestServer(t, provider.URL)

	signupResp := doJSON(t, http.MethodPost, server.URL+"/api/v1/auth/signup",
		map[string]string{"username": "alice", "email": "a@x.com", "password": "pw1"}, "")
	require.Equal(t, http.StatusOK, signupResp.StatusCode)

	var created map[string]string
	decodeData(t, signupResp, &created)
	assert.Equal(t, "alice", created["username"])

	// Second signup with the same username fails no matter the other fields.
	dupResp := doJSON(t, http.MethodPost, server.URL+"/api/v1/auth/signup",
		map[string]string{"username": "alice", "email": "other@x.com", "password": "pw2"}, "")
	assert.Equal(t, http.StatusBadRequest, dupResp.StatusCode)

	loginResp := doJSON(t, http.MethodPost, server.URL+"/api/v1/auth/login",
		map[string]string{"username": "alice", "password": "pw1"}, "")
	assert.Equal(t, http.StatusOK, loginResp.StatusCode)

	wrongResp := doJSON(t, http.MethodPost, server.URL+"/api/v1/auth/login",
		map[string]string{"username": "alice", "password": "wrong"}, "")
	assert.Equal(t, http.StatusBadRequest, wrongResp.StatusCode)
}

func TestAuthGateOutcomes(t *testing.T) {
	provider := fakeImageProvider(t, true)
	server := newTestServer(t, provider.URL)

	// No credentials at all.
	missingResp := doJSON(t, http.MethodGet, server.URL+"/api/v1/recipes", nil, "")
	assert.Equal(t, http.StatusForbidden, missingResp.StatusCode)

	// Garbage bearer token.
	invalidResp := doJSON(t, http.MethodGet, server.URL+"/api/v1/recipes", nil, "not-a-real-token")
	assert.Equal(t, http.StatusUnauthorized, invalidResp.StatusCode)

	// Valid token passes the gate.
	token := signupAndLogin(t, server.URL, "alice", "pw1")
	okResp := doJSON(t, http.MethodGet, server.URL+"/api/v1/recipes", nil, token)
	assert.Equal(t, http.StatusOK, okResp.StatusCode)
}
