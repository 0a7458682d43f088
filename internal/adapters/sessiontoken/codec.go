package sessiontoken

// Package sessiontoken signs and verifies the self-contained session
// credential. The credential is an HS256 JWT carrying the internal user id
// and the Discord id, with a fixed lifetime. There is no server-side
// revocation record; the credential ends by client discard or expiry.

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	domainauth "github.com/zonewatch/zonewatch-api/internal/domain/auth"
	"github.com/zonewatch/zonewatch-api/internal/domain/model"
)

// DefaultLifetime is the fixed credential lifetime from issuance.
const DefaultLifetime = 7 * 24 * time.Hour

var (
	// ErrExpired is returned for a well-signed credential past its expiry.
	ErrExpired = errors.New("session token expired")
	// ErrInvalidSignature is returned when the signature does not verify
	// under the configured secret.
	ErrInvalidSignature = errors.New("session token signature invalid")
	// ErrMalformed is returned for tokens that cannot be parsed at all.
	ErrMalformed = errors.New("session token malformed")
)

// CodecOptions configures a Codec.
type CodecOptions struct {
	// Secret is the HMAC signing secret. Required.
	Secret string
	// Lifetime overrides DefaultLifetime when positive.
	Lifetime time.Duration
	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Codec issues and verifies session credentials with a single shared secret.
type Codec struct {
	secret   []byte
	lifetime time.Duration
	now      func() time.Time
}

// NewCodec creates a Codec. The secret is required; an empty secret would
// make every forged credential verifiable.
func NewCodec(opts CodecOptions) (*Codec, error) {
	if opts.Secret == "" {
		return nil, errors.New("session token secret is required")
	}
	lifetime := opts.Lifetime
	if lifetime <= 0 {
		lifetime = DefaultLifetime
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Codec{secret: []byte(opts.Secret), lifetime: lifetime, now: now}, nil
}

// sessionClaims is the wire shape of the credential payload.
type sessionClaims struct {
	UserID         string   `json:"userId,omitempty"`
	DiscordID      string   `json:"discordId,omitempty"`
	DiscordRoleIDs []string `json:"discordRoleIds,omitempty"`
	jwt.RegisteredClaims
}

// Issue mints a credential for the user. Subject mirrors the Discord id so
// verifiers that only understand registered claims can still identify the
// principal.
func (c *Codec) Issue(user *model.User) (string, error) {
	if user == nil {
		return "", errors.New("user is required")
	}

	now := c.now()
	claims := sessionClaims{
		UserID:         user.ID,
		DiscordID:      user.DiscordID,
		DiscordRoleIDs: user.DiscordRoleIDList(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.DiscordID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.lifetime)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the embedded claims.
// The distinct failure reasons are surfaced as sentinels so callers and
// tests can tell them apart, even where the wire-level error is unified.
func (c *Codec) Verify(token string) (domainauth.Claims, error) {
	var claims sessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (any, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return domainauth.Claims{}, ErrExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return domainauth.Claims{}, ErrInvalidSignature
		case errors.Is(err, jwt.ErrTokenMalformed):
			return domainauth.Claims{}, ErrMalformed
		default:
			return domainauth.Claims{}, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
	}
	if !parsed.Valid {
		return domainauth.Claims{}, ErrInvalidSignature
	}

	discordID := claims.DiscordID
	if discordID == "" {
		discordID = claims.Subject
	}
	return domainauth.Claims{
		UserID:         claims.UserID,
		DiscordID:      discordID,
		DiscordRoleIDs: claims.DiscordRoleIDs,
	}, nil
}
