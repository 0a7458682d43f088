package discord

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/zonewatch/zonewatch-api/internal/ports"
)

var (
	// ErrInvalidArguments is returned when any membership-check argument is
	// missing. This is caller misuse, not a provider failure.
	ErrInvalidArguments = errors.New("missing required arguments for guild membership verification")
	// ErrMemberFetchFailed is returned when the privileged member lookup
	// does not succeed.
	ErrMemberFetchFailed = errors.New("guild member lookup failed")
	// ErrMemberIdentityMismatch is returned when the member lookup resolves
	// to a different user than expected.
	ErrMemberIdentityMismatch = errors.New("guild member lookup returned a different user")
)

// GuildVerifierConfig holds configuration for the guild verifier.
type GuildVerifierConfig struct {
	// APIBaseURL overrides the Discord API base, for tests.
	APIBaseURL string
	// HTTPClient is optional; defaults to a 30s-timeout client.
	HTTPClient *http.Client
	// Cache is optional; when set, member role ids are cached so repeated
	// checks skip the privileged lookup.
	Cache ports.MemberRoleCache
	// Logger is optional.
	Logger *slog.Logger
}

// GuildVerifier checks guild membership and role holdings against the
// Discord API: the caller's guild list with the user token, then the
// specific member record with the bot credential.
type GuildVerifier struct {
	baseURL    string
	httpClient *http.Client
	cache      ports.MemberRoleCache
	logger     *slog.Logger
}

var _ ports.GuildVerifier = (*GuildVerifier)(nil)

// NewGuildVerifier creates a GuildVerifier.
func NewGuildVerifier(cfg GuildVerifierConfig) *GuildVerifier {
	baseURL := cfg.APIBaseURL
	if baseURL == "" {
		baseURL = DefaultAPIBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &GuildVerifier{baseURL: baseURL, httpClient: httpClient, cache: cfg.Cache, logger: logger}
}

type guildSummary struct {
	ID string `json:"id"`
}

type guildMember struct {
	User  *discordUser `json:"user"`
	Roles []string     `json:"roles"`
}

// VerifyMembership confirms the user belongs to the guild and reports
// whether their member roles intersect the allowed set. When the guild is
// absent from the caller's guild list, it returns immediately without the
// privileged lookup.
func (v *GuildVerifier) VerifyMembership(ctx context.Context, in ports.MembershipInput) (ports.MembershipResult, error) {
	if in.AccessToken == "" || in.UserID == "" || in.GuildID == "" || in.BotToken == "" || in.AllowedRoleIDs == nil {
		return ports.MembershipResult{}, ErrInvalidArguments
	}

	isMember, err := v.isGuildMember(ctx, in.AccessToken, in.GuildID)
	if err != nil {
		return ports.MembershipResult{}, err
	}
	if !isMember {
		return ports.MembershipResult{IsMember: false, HasAllowedRole: false, MemberRoles: []string{}}, nil
	}

	roles, err := v.memberRoles(ctx, in)
	if err != nil {
		return ports.MembershipResult{}, err
	}

	return ports.MembershipResult{
		IsMember:       true,
		HasAllowedRole: intersects(roles, in.AllowedRoleIDs),
		MemberRoles:    roles,
	}, nil
}

// isGuildMember checks the caller's guild list with the user-scoped token.
func (v *GuildVerifier) isGuildMember(ctx context.Context, accessToken, guildID string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.baseURL+"/users/@me/guilds", nil)
	if err != nil {
		return false, fmt.Errorf("build guild list request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("fetch user guilds: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // read-only body

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return false, fmt.Errorf("fetch user guilds: status %d", resp.StatusCode)
	}

	var guilds []guildSummary
	if decodeErr := json.NewDecoder(resp.Body).Decode(&guilds); decodeErr != nil {
		return false, fmt.Errorf("decode user guilds: %w", decodeErr)
	}
	for _, g := range guilds {
		if g.ID == guildID {
			return true, nil
		}
	}
	return false, nil
}

// memberRoles returns the member's role ids, from cache when possible.
// The cache is only filled after a successful, identity-checked lookup.
func (v *GuildVerifier) memberRoles(ctx context.Context, in ports.MembershipInput) ([]string, error) {
	if v.cache != nil {
		roles, ok, err := v.cache.Get(ctx, in.GuildID, in.UserID)
		if err != nil {
			v.logger.WarnContext(ctx, "member role cache read failed", "error", err)
		} else if ok {
			return roles, nil
		}
	}

	roles, err := v.fetchMemberRoles(ctx, in)
	if err != nil {
		return nil, err
	}

	if v.cache != nil {
		if cacheErr := v.cache.Set(ctx, in.GuildID, in.UserID, roles); cacheErr != nil {
			v.logger.WarnContext(ctx, "member role cache write failed", "error", cacheErr)
		}
	}
	return roles, nil
}

// fetchMemberRoles performs the privileged (bot-credentialed) lookup of the
// member-in-guild record and defends against a confused-identity response.
func (v *GuildVerifier) fetchMemberRoles(ctx context.Context, in ports.MembershipInput) ([]string, error) {
	endpoint := fmt.Sprintf("%s/guilds/%s/members/%s",
		v.baseURL, url.PathEscape(in.GuildID), url.PathEscape(in.UserID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build member request: %w", err)
	}
	req.Header.Set("Authorization", "Bot "+in.BotToken)

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMemberFetchFailed, err)
	}
	defer resp.Body.Close() //nolint:errcheck // read-only body

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrMemberFetchFailed, resp.StatusCode)
	}

	var member guildMember
	if decodeErr := json.NewDecoder(resp.Body).Decode(&member); decodeErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrMemberFetchFailed, decodeErr)
	}
	if member.User == nil || member.User.ID != in.UserID {
		return nil, ErrMemberIdentityMismatch
	}
	if member.Roles == nil {
		return []string{}, nil
	}
	return member.Roles, nil
}

func intersects(held, allowed []string) bool {
	allowedSet := make(map[string]struct{}, len(allowed))
	for _, id := range allowed {
		allowedSet[id] = struct{}{}
	}
	for _, id := range held {
		if _, ok := allowedSet[id]; ok {
			return true
		}
	}
	return false
}
