package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthit/accounts-api/pkg/client"
)

// stubAPI is a minimal fake of the accounts API, just enough to exercise
// the client's session handling.
type stubAPI struct {
	mux *http.ServeMux

	validAccess  map[string]bool
	validRefresh string

	refreshCalls int
	getUserCalls int
}

func newStubAPI() *stubAPI {
	s := &stubAPI{
		mux:          http.NewServeMux(),
		validAccess:  make(map[string]bool),
		validRefresh: "refresh-1",
	}

	s.mux.HandleFunc("POST /login", func(w http.ResponseWriter, r *http.Request) {
		s.validAccess["access-1"] = true

		http.SetCookie(w, &http.Cookie{
			Name:     "refreshToken",
			Value:    s.validRefresh,
			Path:     "/refreshEnabled",
			HttpOnly: true,
		})
		_ = json.NewEncoder(w).Encode(map[string]any{
			"userid":         "u1",
			"email":          "a@x.com",
			"firstName":      "Ada",
			"lastName":       "Lovelace",
			"confirmedEmail": true,
			"accessToken":    "access-1",
		})
	})

	s.mux.HandleFunc("GET /getUser", func(w http.ResponseWriter, r *http.Request) {
		s.getUserCalls++

		tok := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !s.validAccess[tok] {
			w.WriteHeader(http.StatusForbidden)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "access token is not valid"})
			return
		}

		_ = json.NewEncoder(w).Encode(map[string]any{
			"userid":         "u1",
			"email":          "a@x.com",
			"firstName":      "Ada",
			"lastName":       "Lovelace",
			"confirmedEmail": true,
		})
	})

	s.mux.HandleFunc("GET /refreshEnabled/refresh", func(w http.ResponseWriter, r *http.Request) {
		s.refreshCalls++

		cookie, err := r.Cookie("refreshToken")
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "you are not authenticated"})
			return
		}
		if cookie.Value != s.validRefresh {
			w.WriteHeader(http.StatusForbidden)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "refresh token is not valid"})
			return
		}

		s.validAccess["access-2"] = true
		_ = json.NewEncoder(w).Encode(map[string]string{"accessToken": "access-2"})
	})

	s.mux.HandleFunc("GET /refreshEnabled/logout", func(w http.ResponseWriter, r *http.Request) {
		s.validRefresh = ""
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "you logged out successfully"})
	})

	return s
}

func TestCurrentUser_WithValidAccessToken(t *testing.T) {
	api := newStubAPI()
	server := httptest.NewServer(api.mux)
	defer server.Close()

	c, err := client.New(server.URL)
	require.NoError(t, err)

	_, err = c.Login(context.Background(), "a@x.com", "p1")
	require.NoError(t, err)
	assert.Equal(t, "access-1", c.AccessToken())

	profile, err := c.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Ada", profile.FirstName)
	assert.Zero(t, api.refreshCalls)
}

func TestCurrentUser_RefreshesOnceOn403(t *testing.T) {
	api := newStubAPI()
	server := httptest.NewServer(api.mux)
	defer server.Close()

	c, err := client.New(server.URL)
	require.NoError(t, err)

	_, err = c.Login(context.Background(), "a@x.com", "p1")
	require.NoError(t, err)

	// Invalidate the current access token server-side.
	delete(api.validAccess, "access-1")

	profile, err := c.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Ada", profile.FirstName)

	assert.Equal(t, 1, api.refreshCalls)
	assert.Equal(t, 2, api.getUserCalls)
	assert.Equal(t, "access-2", c.AccessToken())
}

func TestCurrentUser_RefreshFailureClearsSession(t *testing.T) {
	api := newStubAPI()
	server := httptest.NewServer(api.mux)
	defer server.Close()

	c, err := client.New(server.URL)
	require.NoError(t, err)

	_, err = c.Login(context.Background(), "a@x.com", "p1")
	require.NoError(t, err)

	// Invalidate both tokens, as a server restart would.
	delete(api.validAccess, "access-1")
	api.validRefresh = ""

	_, err = c.CurrentUser(context.Background())
	assert.ErrorIs(t, err, client.ErrSessionExpired)
	assert.Empty(t, c.AccessToken())

	// Exactly one refresh attempt was made, no retry loop.
	assert.Equal(t, 1, api.refreshCalls)
}

func TestCurrentUser_NotLoggedIn(t *testing.T) {
	api := newStubAPI()
	server := httptest.NewServer(api.mux)
	defer server.Close()

	c, err := client.New(server.URL)
	require.NoError(t, err)

	// No login: getUser 403s and there is no refresh cookie.
	_, err = c.CurrentUser(context.Background())
	assert.ErrorIs(t, err, client.ErrSessionExpired)
}

func TestLogout_ClearsLocalState(t *testing.T) {
	api := newStubAPI()
	server := httptest.NewServer(api.mux)
	defer server.Close()

	c, err := client.New(server.URL)
	require.NoError(t, err)

	_, err = c.Login(context.Background(), "a@x.com", "p1")
	require.NoError(t, err)
	require.NotEmpty(t, c.AccessToken())

	require.NoError(t, c.Logout(context.Background()))
	assert.Empty(t, c.AccessToken())
}

func TestAPIError_Message(t *testing.T) {
	api := newStubAPI()
	server := httptest.NewServer(api.mux)
	defer server.Close()

	c, err := client.New(server.URL)
	require.NoError(t, err)

	err = c.Refresh(context.Background())

	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "not authenticated")
}
