package discord

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T, baseURL string) *Provider {
	t.Helper()
	p, err := NewProvider(ProviderConfig{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURL:  "http://localhost:8080/auth/discord/callback",
		APIBaseURL:   baseURL,
	})
	require.NoError(t, err)
	return p
}

func TestNewProvider_RequiredFields(t *testing.T) {
	_, err := NewProvider(ProviderConfig{ClientSecret: "s", RedirectURL: "r"})
	require.Error(t, err)

	_, err = NewProvider(ProviderConfig{ClientID: "c", RedirectURL: "r"})
	require.Error(t, err)

	_, err = NewProvider(ProviderConfig{ClientID: "c", ClientSecret: "s"})
	require.Error(t, err)
}

func TestProvider_AuthCodeURL(t *testing.T) {
	p := newTestProvider(t, "https://discord.example/api")

	raw := p.AuthCodeURL("state-123")
	u, err := url.Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, "/api/oauth2/authorize", u.Path)
	q := u.Query()
	assert.Equal(t, "client-id", q.Get("client_id"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "identify", q.Get("scope"))
	assert.Equal(t, "state-123", q.Get("state"))
	assert.Equal(t, "http://localhost:8080/auth/discord/callback", q.Get("redirect_uri"))
}

func TestProvider_Exchange(t *testing.T) {
	var gotForm url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/oauth2/token", r.URL.Path)
		require.NoError(t, r.ParseForm())
		gotForm = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "provider-access-token",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	}))
	defer srv.Close()

	p := newTestProvider(t, srv.URL)

	token, err := p.Exchange(context.Background(), "auth-code")
	require.NoError(t, err)
	assert.Equal(t, "provider-access-token", token)

	assert.Equal(t, "authorization_code", gotForm.Get("grant_type"))
	assert.Equal(t, "auth-code", gotForm.Get("code"))
	assert.Equal(t, "client-id", gotForm.Get("client_id"))
}

func TestProvider_Exchange_EmptyCode(t *testing.T) {
	p := newTestProvider(t, "http://unused.example")
	_, err := p.Exchange(context.Background(), "")
	require.Error(t, err)
}

func TestProvider_Exchange_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	p := newTestProvider(t, srv.URL)
	_, err := p.Exchange(context.Background(), "bad-code")
	require.Error(t, err)
}

func TestProvider_FetchProfile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/users/@me", r.URL.Path)
		require.Equal(t, "Bearer user-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"id":       "111222333",
			"username": "tester",
			"avatar":   "abcdef",
		})
	}))
	defer srv.Close()

	p := newTestProvider(t, srv.URL)

	profile, err := p.FetchProfile(context.Background(), "user-token")
	require.NoError(t, err)
	assert.Equal(t, "111222333", profile.ID)
	assert.Equal(t, "tester", profile.Username)
	assert.Equal(t, "https://cdn.discordapp.com/avatars/111222333/abcdef.png", profile.AvatarURL)
}

func TestProvider_FetchProfile_NoAvatar(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"id":       "111222333",
			"username": "tester",
		})
	}))
	defer srv.Close()

	p := newTestProvider(t, srv.URL)

	profile, err := p.FetchProfile(context.Background(), "user-token")
	require.NoError(t, err)
	assert.Empty(t, profile.AvatarURL)
}

func TestProvider_FetchProfile_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	p := newTestProvider(t, srv.URL)

	_, err := p.FetchProfile(context.Background(), "stale-token")
	require.Error(t, err)
}
