package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/zonewatch/zonewatch-api/internal/domain/auth"
	"github.com/zonewatch/zonewatch-api/internal/domain/model"
	"github.com/zonewatch/zonewatch-api/internal/service"
)

// stubLoginFlow records calls and returns canned login flow results.
type stubLoginFlow struct {
	beginResult    *service.BeginLoginResult
	beginErr       error
	completeResult *service.CompleteLoginResult
	completeErr    error

	completeCalls int
	lastCode      string
}

func (s *stubLoginFlow) BeginLogin(_ context.Context) (*service.BeginLoginResult, error) {
	if s.beginErr != nil {
		return nil, s.beginErr
	}
	return s.beginResult, nil
}

func (s *stubLoginFlow) CompleteLogin(_ context.Context, code string) (*service.CompleteLoginResult, error) {
	s.completeCalls++
	s.lastCode = code
	if s.completeErr != nil {
		return nil, s.completeErr
	}
	return s.completeResult, nil
}

func newAuthHandlers(svc *stubLoginFlow) *AuthHandlers {
	return &AuthHandlers{Svc: svc, FrontendBaseURL: "https://app.example.com"}
}

func findCookie(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestLogin_RedirectsWithStateCookie(t *testing.T) {
	svc := &stubLoginFlow{beginResult: &service.BeginLoginResult{
		AuthURL: "https://discord.com/oauth2/authorize?state=state-1",
		State:   "state-1",
	}}
	h := newAuthHandlers(svc)

	rec := httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodGet, "/auth/discord/login", nil))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, svc.beginResult.AuthURL, rec.Header().Get("Location"))

	cookie := findCookie(t, rec, StateCookieName)
	require.NotNil(t, cookie)
	assert.Equal(t, "state-1", cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, stateCookieMaxAge, cookie.MaxAge)
}

func TestLogin_BeginFailure(t *testing.T) {
	h := newAuthHandlers(&stubLoginFlow{beginErr: assert.AnError})

	rec := httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodGet, "/auth/discord/login", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "login_failed", decodeErrorBody(t, rec)["error"])
}

func TestCallback_Success(t *testing.T) {
	user := &model.User{ID: "user-1", DiscordID: "111", Username: "tester", Role: domainauth.RoleOfficer}
	svc := &stubLoginFlow{completeResult: &service.CompleteLoginResult{User: user, Token: "session-token"}}
	h := newAuthHandlers(svc)

	req := httptest.NewRequest(http.MethodGet, "/auth/discord/callback?code=auth-code&state=state-1", nil)
	req.AddCookie(&http.Cookie{Name: StateCookieName, Value: "state-1"})
	rec := httptest.NewRecorder()
	h.Callback(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "auth-code", svc.lastCode)

	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "https", loc.Scheme)
	assert.Equal(t, "app.example.com", loc.Host)
	assert.Equal(t, "/auth/callback", loc.Path)
	assert.Equal(t, "discord", loc.Query().Get("provider"))
	assert.Equal(t, "111", loc.Query().Get("discord_id"))
	assert.Equal(t, "session-token", loc.Query().Get("token"))

	cleared := findCookie(t, rec, StateCookieName)
	require.NotNil(t, cleared)
	assert.Negative(t, cleared.MaxAge)
}

func TestCallback_StateMismatchNeverExchanges(t *testing.T) {
	tests := []struct {
		name   string
		target string
		cookie string
	}{
		{"no cookie", "/auth/discord/callback?code=auth-code&state=state-1", ""},
		{"empty state", "/auth/discord/callback?code=auth-code", "state-1"},
		{"mismatched state", "/auth/discord/callback?code=auth-code&state=other", "state-1"},
		{"missing code", "/auth/discord/callback?state=state-1", "state-1"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubLoginFlow{}
			h := newAuthHandlers(svc)

			req := httptest.NewRequest(http.MethodGet, tc.target, nil)
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: StateCookieName, Value: tc.cookie})
			}
			rec := httptest.NewRecorder()
			h.Callback(rec, req)

			assert.Equal(t, http.StatusFound, rec.Code)
			loc, err := url.Parse(rec.Header().Get("Location"))
			require.NoError(t, err)
			assert.Equal(t, "/login", loc.Path)
			assert.Equal(t, "oauth_state_mismatch", loc.Query().Get("error"))
			assert.Zero(t, svc.completeCalls)
		})
	}
}

func TestCallback_ErrorCodeMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"exchange failed", service.ErrTokenExchangeFailed, "discord_token_failed"},
		{"profile failed", service.ErrProfileFetchFailed, "discord_profile_failed"},
		{"persist failed", service.ErrUserPersistFailed, "user_persist_failed"},
		{"unexpected", assert.AnError, "oauth_callback_failed"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newAuthHandlers(&stubLoginFlow{completeErr: tc.err})

			req := httptest.NewRequest(http.MethodGet, "/auth/discord/callback?code=auth-code&state=state-1", nil)
			req.AddCookie(&http.Cookie{Name: StateCookieName, Value: "state-1"})
			rec := httptest.NewRecorder()
			h.Callback(rec, req)

			assert.Equal(t, http.StatusFound, rec.Code)
			loc, err := url.Parse(rec.Header().Get("Location"))
			require.NoError(t, err)
			assert.Equal(t, "/login", loc.Path)
			assert.Equal(t, tc.wantCode, loc.Query().Get("error"))
		})
	}
}

func TestMe_ReturnsSessionUser(t *testing.T) {
	h := newAuthHandlers(&stubLoginFlow{})
	user := &model.User{ID: "user-1", DiscordID: "111", Username: "tester", Role: domainauth.RoleAdmin}

	req := httptest.NewRequest(http.MethodGet, "/auth/session/me", nil)
	req = req.WithContext(SetUserInContext(req.Context(), user))
	rec := httptest.NewRecorder()
	h.Me(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		User model.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "user-1", body.User.ID)
	assert.Equal(t, domainauth.RoleAdmin, body.User.Role)
}

func TestMe_WithoutIdentity(t *testing.T) {
	h := newAuthHandlers(&stubLoginFlow{})

	rec := httptest.NewRecorder()
	h.Me(rec, httptest.NewRequest(http.MethodGet, "/auth/session/me", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "missing_session_token", decodeErrorBody(t, rec)["error"])
}

func TestProtected_ReportsDecision(t *testing.T) {
	handler := Protected("supervisor")

	decision := domainauth.AccessDecision{
		Allowed:      true,
		Reason:       domainauth.ReasonGrantedByDatabaseRole,
		RequiredRole: domainauth.RoleSupervisor,
		FromDatabase: true,
	}
	req := httptest.NewRequest(http.MethodGet, "/auth/protected/supervisor", nil)
	req = req.WithContext(SetAccessInContext(req.Context(), decision))
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Access        string                    `json:"access"`
		RequiredRole  string                    `json:"requiredRole"`
		Authorization domainauth.AccessDecision `json:"authorization"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "granted", body.Access)
	assert.Equal(t, "supervisor", body.RequiredRole)
	assert.True(t, body.Authorization.FromDatabase)
	assert.Equal(t, domainauth.ReasonGrantedByDatabaseRole, body.Authorization.Reason)
}
