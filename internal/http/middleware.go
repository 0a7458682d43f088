package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	domainauth "github.com/zonewatch/zonewatch-api/internal/domain/auth"
	"github.com/zonewatch/zonewatch-api/internal/domain/model"
	"github.com/zonewatch/zonewatch-api/internal/service"
)

// SessionCookieName is the cookie the session credential is read from.
const SessionCookieName = "session_token"

// discordRoleIDsHeader optionally carries guild role IDs supplied by a
// trusted frontend proxy, merged with the persisted and token-carried sets.
const discordRoleIDsHeader = "X-Discord-Role-Ids"

// AuthServiceInterface defines the auth operations middleware depends on.
type AuthServiceInterface interface {
	AuthenticateToken(ctx context.Context, token string) (*model.User, domainauth.Claims, error)
}

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			const defaultHTTPStatus = 200
			ww := &respWriter{ResponseWriter: w, status: defaultHTTPStatus}
			next.ServeHTTP(ww, r)
			logger.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// AuthenticateSession returns a middleware that verifies the session
// credential and attaches the resolved user and claims to the request
// context. Missing or bad credentials end the request here.
func AuthenticateSession(authSvc AuthServiceInterface) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractSessionToken(r)
			if token == "" {
				WriteError(w, ErrorParams{
					Code:    http.StatusUnauthorized,
					ErrCode: "missing_session_token",
					Err:     errors.New("session token is required"),
				})
				return
			}

			user, claims, err := authSvc.AuthenticateToken(r.Context(), token)
			if err != nil {
				writeAuthenticationError(w, err)
				return
			}

			ctx := SetUserInContext(r.Context(), user)
			ctx = SetClaimsInContext(ctx, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole returns a middleware that gates the request on the two-source
// role check. It must run after AuthenticateSession; a request with no
// identity in context is rejected rather than allowed through.
func RequireRole(requiredRole domainauth.Role, roleIDs domainauth.RoleIDConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := GetUserFromContext(r.Context())
			if !ok {
				// No identity in context means the gate was reached without
				// the session middleware. Deny rather than fall through.
				WriteJSON(w, http.StatusForbidden, map[string]any{
					"error":        "forbidden",
					"requiredRole": string(requiredRole),
				})
				return
			}
			claims, _ := GetClaimsFromContext(r.Context())

			decision, err := domainauth.EvaluateAccess(domainauth.EvaluateInput{
				StoredRole:     string(user.Role),
				DiscordRoleIDs: gatherDiscordRoleIDs(r, user, claims),
				RequiredRole:   string(requiredRole),
				RoleIDs:        roleIDs,
			})
			if err != nil {
				WriteError(w, ErrorParams{
					Code:    http.StatusInternalServerError,
					ErrCode: "access_evaluation_failed",
					Err:     err,
				})
				return
			}
			if !decision.Allowed {
				WriteJSON(w, http.StatusForbidden, map[string]any{
					"error":        "forbidden",
					"requiredRole": string(requiredRole),
				})
				return
			}

			ctx := SetAccessInContext(r.Context(), decision)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireOfficer gates the request on the officer rank.
func RequireOfficer(roleIDs domainauth.RoleIDConfig) func(http.Handler) http.Handler {
	return RequireRole(domainauth.RoleOfficer, roleIDs)
}

// RequireSupervisor gates the request on the supervisor rank.
func RequireSupervisor(roleIDs domainauth.RoleIDConfig) func(http.Handler) http.Handler {
	return RequireRole(domainauth.RoleSupervisor, roleIDs)
}

// RequireAdmin gates the request on the admin rank.
func RequireAdmin(roleIDs domainauth.RoleIDConfig) func(http.Handler) http.Handler {
	return RequireRole(domainauth.RoleAdmin, roleIDs)
}

// extractSessionToken reads the credential from the session cookie, falling
// back to the Authorization bearer header.
func extractSessionToken(r *http.Request) string {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authz := r.Header.Get("Authorization")
	const bearerPrefix = "Bearer "
	if len(authz) > len(bearerPrefix) && strings.EqualFold(authz[:len(bearerPrefix)], bearerPrefix) {
		return strings.TrimSpace(authz[len(bearerPrefix):])
	}
	return ""
}

// gatherDiscordRoleIDs merges the guild role IDs known from the request
// header, the stored user record, and the verified claims.
func gatherDiscordRoleIDs(r *http.Request, user *model.User, claims domainauth.Claims) []string {
	headerIDs := domainauth.ParseRoleIDs(r.Header.Get(discordRoleIDsHeader))
	return domainauth.UnionRoleIDs(headerIDs, user.DiscordRoleIDList(), claims.DiscordRoleIDs)
}

func writeAuthenticationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidSessionPayload):
		WriteError(w, ErrorParams{Code: http.StatusUnauthorized, ErrCode: "invalid_session_payload", Err: err})
	case errors.Is(err, service.ErrSessionUserNotFound):
		WriteError(w, ErrorParams{Code: http.StatusUnauthorized, ErrCode: "session_user_not_found", Err: err})
	case errors.Is(err, service.ErrUserLookupFailed):
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "user_lookup_failed", Err: err})
	default:
		WriteError(w, ErrorParams{Code: http.StatusUnauthorized, ErrCode: "invalid_session_token", Err: err})
	}
}
