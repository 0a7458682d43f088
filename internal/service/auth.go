package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/zonewatch/zonewatch-api/internal/data"
	domainauth "github.com/zonewatch/zonewatch-api/internal/domain/auth"
	"github.com/zonewatch/zonewatch-api/internal/domain/model"
	"github.com/zonewatch/zonewatch-api/internal/ports"
)

// Sentinel errors exposed by the auth service. HTTP handlers translate these
// into redirect error codes or response status codes.
var (
	ErrTokenExchangeFailed = errors.New("token exchange failed")
	ErrProfileFetchFailed  = errors.New("profile fetch failed")
	ErrUserPersistFailed   = errors.New("user persist failed")

	ErrInvalidSessionToken   = errors.New("invalid session token")
	ErrInvalidSessionPayload = errors.New("invalid session payload")
	ErrSessionUserNotFound   = errors.New("session user not found")
	ErrUserLookupFailed      = errors.New("user lookup failed")
)

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Provider ports.OAuthProvider
	Users    ports.UserStore
	Codec    ports.SessionCodec

	// Verifier, when set together with Guild, enriches logins with the
	// user's guild role ids. Verification failure never blocks login.
	Verifier ports.GuildVerifier
	Guild    GuildSettings

	Logger *slog.Logger
}

// GuildSettings identifies the guild consulted during login enrichment.
type GuildSettings struct {
	GuildID        string
	BotToken       string
	AllowedRoleIDs []string
}

func (g GuildSettings) configured() bool {
	return g.GuildID != "" && g.BotToken != ""
}

// AuthService orchestrates the login flow by coordinating the identity
// provider, user persistence, and session credential issuance.
type AuthService struct {
	provider ports.OAuthProvider
	users    ports.UserStore
	codec    ports.SessionCodec
	verifier ports.GuildVerifier
	guild    GuildSettings
	logger   *slog.Logger
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		provider: opts.Provider,
		users:    opts.Users,
		codec:    opts.Codec,
		verifier: opts.Verifier,
		guild:    opts.Guild,
		logger:   logger.With("component", "auth_service"),
	}
}

// BeginLoginResult contains the result of beginning a login flow.
type BeginLoginResult struct {
	AuthURL string
	State   string
}

// BeginLogin generates a fresh state value and the provider authorization URL.
func (s *AuthService) BeginLogin(_ context.Context) (*BeginLoginResult, error) {
	state := uuid.NewString()
	return &BeginLoginResult{
		AuthURL: s.provider.AuthCodeURL(state),
		State:   state,
	}, nil
}

// CompleteLoginResult contains the result of completing a login flow.
type CompleteLoginResult struct {
	User  *model.User
	Token string
}

// CompleteLogin exchanges the authorization code for an access token, fetches
// the provider profile, upserts the user record, and issues a session token.
func (s *AuthService) CompleteLogin(ctx context.Context, code string) (*CompleteLoginResult, error) {
	if code == "" {
		return nil, fmt.Errorf("%w: authorization code is required", ErrTokenExchangeFailed)
	}

	accessToken, err := s.provider.Exchange(ctx, code)
	if err != nil {
		s.logger.ErrorContext(ctx, "token exchange failed", "err", err)
		return nil, errors.Join(ErrTokenExchangeFailed, err)
	}

	profile, err := s.provider.FetchProfile(ctx, accessToken)
	if err != nil {
		s.logger.ErrorContext(ctx, "profile fetch failed", "err", err)
		return nil, errors.Join(ErrProfileFetchFailed, err)
	}

	user, err := s.users.Upsert(ctx, ports.UpsertUserInput{
		DiscordID: profile.ID,
		Username:  profile.Username,
		AvatarURL: profile.AvatarURL,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "user upsert failed", "err", err, "discord_id", profile.ID)
		return nil, errors.Join(ErrUserPersistFailed, err)
	}

	user = s.enrichGuildRoles(ctx, accessToken, user)

	token, err := s.codec.Issue(user)
	if err != nil {
		s.logger.ErrorContext(ctx, "token issue failed", "err", err, "user_id", user.ID)
		return nil, errors.Join(ErrUserPersistFailed, err)
	}

	s.logger.InfoContext(ctx, "login completed", "user_id", user.ID, "discord_id", user.DiscordID)
	return &CompleteLoginResult{User: user, Token: token}, nil
}

// enrichGuildRoles records the user's guild role ids on the user record when
// the membership verifier is configured. Enrichment is best effort; any
// failure leaves the login untouched.
func (s *AuthService) enrichGuildRoles(ctx context.Context, accessToken string, user *model.User) *model.User {
	if s.verifier == nil || !s.guild.configured() {
		return user
	}

	result, err := s.verifier.VerifyMembership(ctx, ports.MembershipInput{
		AccessToken:    accessToken,
		UserID:         user.DiscordID,
		GuildID:        s.guild.GuildID,
		AllowedRoleIDs: s.guild.AllowedRoleIDs,
		BotToken:       s.guild.BotToken,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "guild membership check failed", "err", err, "user_id", user.ID)
		return user
	}
	if !result.IsMember {
		return user
	}

	updated, err := s.users.SetDiscordRoleIDs(ctx, user.ID, result.MemberRoles)
	if err != nil {
		s.logger.WarnContext(ctx, "guild role persist failed", "err", err, "user_id", user.ID)
		return user
	}
	return updated
}

// AuthenticateToken verifies a session token and resolves the current user
// record. The claims are returned alongside the user so callers can consult
// token-carried guild role IDs.
func (s *AuthService) AuthenticateToken(ctx context.Context, token string) (*model.User, domainauth.Claims, error) {
	claims, err := s.codec.Verify(token)
	if err != nil {
		return nil, domainauth.Claims{}, errors.Join(ErrInvalidSessionToken, err)
	}
	if claims.Empty() {
		return nil, domainauth.Claims{}, ErrInvalidSessionPayload
	}

	user, err := s.lookupUser(ctx, claims)
	if err != nil {
		return nil, domainauth.Claims{}, err
	}
	return user, claims, nil
}

// lookupUser resolves the user record named by the claims, preferring the
// internal user ID and falling back to the Discord ID.
func (s *AuthService) lookupUser(ctx context.Context, claims domainauth.Claims) (*model.User, error) {
	var (
		user *model.User
		err  error
	)
	switch {
	case claims.UserID != "":
		user, err = s.users.GetByID(ctx, claims.UserID)
	case claims.DiscordID != "":
		user, err = s.users.GetByDiscordID(ctx, claims.DiscordID)
	default:
		return nil, ErrInvalidSessionPayload
	}
	if err != nil {
		if errors.Is(err, data.ErrUserNotFound) {
			return nil, ErrSessionUserNotFound
		}
		s.logger.ErrorContext(ctx, "user lookup failed", "err", err)
		return nil, errors.Join(ErrUserLookupFailed, err)
	}
	return user, nil
}
