package httpx

import (
	"context"

	domainauth "github.com/zonewatch/zonewatch-api/internal/domain/auth"
	"github.com/zonewatch/zonewatch-api/internal/domain/model"
)

// userKey is an unexported context key type to avoid collisions across packages.
// Centralized in this file so all handlers/middleware use the same keys.
type userKey struct{}

type claimsKey struct{}

type accessKey struct{}

// SetUserInContext returns a child context that carries the authenticated user.
// If user is nil, the original ctx is returned unchanged.
func SetUserInContext(ctx context.Context, user *model.User) context.Context {
	if user == nil {
		return ctx
	}
	return context.WithValue(ctx, userKey{}, user)
}

// GetUserFromContext returns the authenticated user from context and a boolean indicating presence.
func GetUserFromContext(ctx context.Context) (*model.User, bool) {
	if user, ok := ctx.Value(userKey{}).(*model.User); ok && user != nil {
		return user, true
	}
	return nil, false
}

// SetClaimsInContext returns a child context that carries the verified session claims.
func SetClaimsInContext(ctx context.Context, claims domainauth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// GetClaimsFromContext returns the verified session claims from context.
func GetClaimsFromContext(ctx context.Context) (domainauth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(domainauth.Claims)
	return claims, ok
}

// SetAccessInContext returns a child context that carries the role gate decision.
func SetAccessInContext(ctx context.Context, decision domainauth.AccessDecision) context.Context {
	return context.WithValue(ctx, accessKey{}, decision)
}

// GetAccessFromContext returns the role gate decision from context.
func GetAccessFromContext(ctx context.Context) (domainauth.AccessDecision, bool) {
	decision, ok := ctx.Value(accessKey{}).(domainauth.AccessDecision)
	return decision, ok
}
