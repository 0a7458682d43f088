package discord

// Package discord provides the Discord OAuth2 and guild-membership adapters.
// Discord is a plain OAuth2 provider (no OIDC discovery document), so the
// endpoints are static.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/zonewatch/zonewatch-api/internal/ports"
	"golang.org/x/oauth2"
)

const (
	// DefaultAPIBaseURL is Discord's REST API base.
	DefaultAPIBaseURL = "https://discord.com/api"
	// cdnBaseURL hosts user avatars.
	cdnBaseURL = "https://cdn.discordapp.com"
	// scopeIdentify is the fixed minimal scope requested at login.
	scopeIdentify = "identify"
)

// ProviderConfig holds configuration for the Discord OAuth provider.
type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	// APIBaseURL overrides the Discord API base, for tests.
	APIBaseURL string
	// HTTPClient is optional; a 30s-timeout client is used by default so a
	// stalled provider cannot suspend a login indefinitely.
	HTTPClient *http.Client
}

// Provider implements ports.OAuthProvider against the Discord API.
type Provider struct {
	config     *oauth2.Config
	baseURL    string
	httpClient *http.Client
}

var _ ports.OAuthProvider = (*Provider)(nil)

// NewProvider creates a Discord OAuth provider.
func NewProvider(cfg ProviderConfig) (*Provider, error) {
	if cfg.ClientID == "" {
		return nil, errors.New("client ID is required")
	}
	if cfg.ClientSecret == "" {
		return nil, errors.New("client secret is required")
	}
	if cfg.RedirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}

	baseURL := cfg.APIBaseURL
	if baseURL == "" {
		baseURL = DefaultAPIBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &Provider{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{scopeIdentify},
			Endpoint: oauth2.Endpoint{
				AuthURL:  baseURL + "/oauth2/authorize",
				TokenURL: baseURL + "/oauth2/token",
				// Discord documents client credentials in the form body.
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		baseURL:    baseURL,
		httpClient: httpClient,
	}, nil
}

// AuthCodeURL returns the authorization URL with client_id, redirect_uri,
// response_type=code, the identify scope, and the given state.
func (p *Provider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state)
}

// Exchange trades the authorization code for an access token. No retry:
// the whole flow is single-shot per browser redirect pair.
func (p *Provider) Exchange(ctx context.Context, code string) (string, error) {
	if code == "" {
		return "", errors.New("authorization code is required")
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	tok, err := p.config.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("exchange authorization code: %w", err)
	}
	if tok.AccessToken == "" {
		return "", errors.New("token response missing access_token")
	}
	return tok.AccessToken, nil
}

// discordUser is the /users/@me response subset we consume.
type discordUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"` // avatar hash, empty when unset
}

// FetchProfile fetches the current user's profile with the access token and
// resolves the CDN avatar URL (empty when the user has no avatar).
func (p *Provider) FetchProfile(ctx context.Context, accessToken string) (ports.Profile, error) {
	if accessToken == "" {
		return ports.Profile{}, errors.New("access token is required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/users/@me", nil)
	if err != nil {
		return ports.Profile{}, fmt.Errorf("build profile request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return ports.Profile{}, fmt.Errorf("fetch profile: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // read-only body

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return ports.Profile{}, fmt.Errorf("fetch profile: status %d", resp.StatusCode)
	}

	var user discordUser
	if decodeErr := json.NewDecoder(resp.Body).Decode(&user); decodeErr != nil {
		return ports.Profile{}, fmt.Errorf("decode profile: %w", decodeErr)
	}
	if user.ID == "" {
		return ports.Profile{}, errors.New("profile response missing id")
	}

	return ports.Profile{
		ID:        user.ID,
		Username:  user.Username,
		AvatarURL: avatarURL(user.ID, user.Avatar),
	}, nil
}

// avatarURL derives the display avatar URL from the profile, or empty when
// no avatar is set.
func avatarURL(userID, avatarHash string) string {
	if avatarHash == "" {
		return ""
	}
	return fmt.Sprintf("%s/avatars/%s/%s.png", cdnBaseURL, userID, avatarHash)
}
