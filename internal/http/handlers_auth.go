package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/zonewatch/zonewatch-api/internal/service"
)

// StateCookieName is the short-lived cookie carrying the OAuth state value
// between the login redirect and the provider callback.
const StateCookieName = "discord_oauth_state"

// stateCookieMaxAge bounds how long a login attempt stays valid.
const stateCookieMaxAge = 600

// LoginFlowService defines the login flow operations handlers depend on.
type LoginFlowService interface {
	BeginLogin(ctx context.Context) (*service.BeginLoginResult, error)
	CompleteLogin(ctx context.Context, code string) (*service.CompleteLoginResult, error)
}

// AuthHandlers provides HTTP handlers for the OAuth login flow and session introspection.
type AuthHandlers struct {
	Svc             LoginFlowService
	FrontendBaseURL string
	CookieDomain    string
	Logger          *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// Login handles the login initiation endpoint.
// GET /auth/discord/login.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	result, err := h.Svc.BeginLogin(r.Context())
	if err != nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "login_failed",
			Err:     err,
		})
		return
	}

	h.setStateCookie(w, r, result.State)
	http.Redirect(w, r, result.AuthURL, http.StatusFound)
}

// Callback handles the OAuth callback endpoint.
// GET /auth/discord/callback?code=<code>&state=<state>.
//
// All flow failures redirect back to the frontend login page with a
// machine-readable error code. A missing code or state counts as a state
// mismatch, and the exchange is never attempted when that check fails.
func (h *AuthHandlers) Callback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")

	stateCookie, err := r.Cookie(StateCookieName)
	if err != nil || code == "" || state == "" || stateCookie.Value != state {
		h.redirectLoginError(w, r, "oauth_state_mismatch")
		return
	}
	h.clearStateCookie(w, r)

	result, err := h.Svc.CompleteLogin(r.Context(), code)
	if err != nil {
		h.logger().ErrorContext(r.Context(), "login completion failed", "err", err)
		h.redirectLoginError(w, r, callbackErrorCode(err))
		return
	}

	u, err := url.Parse(h.FrontendBaseURL)
	if err != nil {
		h.redirectLoginError(w, r, "oauth_callback_failed")
		return
	}
	u = u.JoinPath("/auth/callback")
	q := url.Values{}
	q.Set("provider", "discord")
	q.Set("discord_id", result.User.DiscordID)
	q.Set("token", result.Token)
	u.RawQuery = q.Encode()

	http.Redirect(w, r, u.String(), http.StatusFound)
}

// Me returns the authenticated user's record.
// GET /auth/session/me (behind AuthenticateSession).
func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := GetUserFromContext(r.Context())
	if !ok {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "missing_session_token",
			Err:     errors.New("session token is required"),
		})
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"user": user})
}

// Protected returns a handler for the role-gated check endpoints. It reports
// the gate decision that let the request through.
func Protected(requiredRole string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		decision, _ := GetAccessFromContext(r.Context())
		WriteJSON(w, http.StatusOK, map[string]any{
			"access":        "granted",
			"requiredRole":  requiredRole,
			"authorization": decision,
		})
	}
}

func callbackErrorCode(err error) string {
	switch {
	case errors.Is(err, service.ErrTokenExchangeFailed):
		return "discord_token_failed"
	case errors.Is(err, service.ErrProfileFetchFailed):
		return "discord_profile_failed"
	case errors.Is(err, service.ErrUserPersistFailed):
		return "user_persist_failed"
	default:
		return "oauth_callback_failed"
	}
}

func (h *AuthHandlers) redirectLoginError(w http.ResponseWriter, r *http.Request, errCode string) {
	u, err := url.Parse(h.FrontendBaseURL)
	if err != nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: errCode,
			Err:     errors.New("frontend base URL is invalid"),
		})
		return
	}
	u = u.JoinPath("/login")
	q := url.Values{}
	q.Set("error", errCode)
	u.RawQuery = q.Encode()
	http.Redirect(w, r, u.String(), http.StatusFound)
}

func (h *AuthHandlers) setStateCookie(w http.ResponseWriter, r *http.Request, state string) {
	http.SetCookie(w, &http.Cookie{
		Name:     StateCookieName,
		Value:    state,
		Path:     "/",
		Domain:   h.CookieDomain,
		MaxAge:   stateCookieMaxAge,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandlers) clearStateCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     StateCookieName,
		Value:    "",
		Path:     "/",
		Domain:   h.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}
