package ports

// Package ports defines interfaces (hexagonal ports) for auth-related
// behavior. Implementations live in internal/adapters; orchestration in
// internal/service.

import (
	"context"

	domainauth "github.com/zonewatch/zonewatch-api/internal/domain/auth"
	"github.com/zonewatch/zonewatch-api/internal/domain/model"
)

// Profile is the identity-provider view of a user, with provider-specific
// details (avatar URL template) already resolved by the adapter.
type Profile struct {
	ID        string // provider-assigned stable id
	Username  string
	AvatarURL string // empty when the user has no avatar set
}

// OAuthProvider drives the provider side of the authorization-code flow.
type OAuthProvider interface {
	// AuthCodeURL returns the provider authorization URL carrying the
	// anti-forgery state value.
	AuthCodeURL(state string) string

	// Exchange trades an authorization code for a user-scoped access token.
	Exchange(ctx context.Context, code string) (string, error)

	// FetchProfile fetches the current user's profile with the access token.
	FetchProfile(ctx context.Context, accessToken string) (Profile, error)
}

// UpsertUserInput carries the profile fields persisted on login.
type UpsertUserInput struct {
	DiscordID string
	Username  string
	AvatarURL string // empty clears the stored avatar
}

// UserStore persists and resolves application users. Lookups distinguish
// "not found" (a sentinel) from infrastructure failure (any other error).
type UserStore interface {
	// Upsert creates the user on first login for a Discord id and updates
	// username/avatar/last-login on repeat logins. Never creates duplicates.
	Upsert(ctx context.Context, in UpsertUserInput) (*model.User, error)

	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByDiscordID(ctx context.Context, discordID string) (*model.User, error)

	// SetDiscordRoleIDs replaces the guild role ids cached on the user
	// record. A nil slice clears them.
	SetDiscordRoleIDs(ctx context.Context, id string, roleIDs []string) (*model.User, error)
}

// SessionCodec issues and verifies self-contained signed session credentials.
type SessionCodec interface {
	Issue(user *model.User) (string, error)
	Verify(token string) (domainauth.Claims, error)
}

// MembershipInput groups the arguments for a guild membership check.
// All fields are required.
type MembershipInput struct {
	AccessToken    string // user-scoped OAuth access token
	UserID         string // Discord user id expected for this token
	GuildID        string
	AllowedRoleIDs []string
	BotToken       string // bot credential for the privileged member lookup
}

// MembershipResult reports guild membership and role holdings.
type MembershipResult struct {
	IsMember       bool
	HasAllowedRole bool
	MemberRoles    []string
}

// GuildVerifier confirms a user belongs to a guild and holds allowed roles
// within it.
type GuildVerifier interface {
	VerifyMembership(ctx context.Context, in MembershipInput) (MembershipResult, error)
}

// MemberRoleCache caches guild member role ids so repeated gate checks do
// not hammer the provider's privileged member endpoint. A miss is reported
// via the boolean, not an error.
type MemberRoleCache interface {
	Get(ctx context.Context, guildID, userID string) ([]string, bool, error)
	Set(ctx context.Context, guildID, userID string, roleIDs []string) error
}
