package httpx

import (
	"log/slog"
	"net/http"

	domainauth "github.com/zonewatch/zonewatch-api/internal/domain/auth"
	"github.com/zonewatch/zonewatch-api/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth            *service.AuthService
	Zones           *service.ZoneService
	RoleIDs         domainauth.RoleIDConfig
	FrontendBaseURL string
	CookieDomain    string
	Logger          *slog.Logger // Logger for request and handler errors (optional)
}

// NewRouter creates and configures a new HTTP router.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	authHandlers := &AuthHandlers{
		Svc:             services.Auth,
		FrontendBaseURL: services.FrontendBaseURL,
		CookieDomain:    services.CookieDomain,
		Logger:          services.Logger,
	}
	zoneHandlers := &ZoneHandlers{Svc: services.Zones, Logger: services.Logger}

	registerAuthRoutes(mux, authHandlers, services)
	registerZoneRoutes(mux, zoneHandlers, services)
	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	return mux
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers, services RouterServices) {
	session := AuthenticateSession(services.Auth)

	mux.Handle("GET /auth/discord/login", http.HandlerFunc(h.Login))
	mux.Handle("GET /auth/discord/callback", http.HandlerFunc(h.Callback))
	mux.Handle("GET /auth/session/me", session(http.HandlerFunc(h.Me)))

	officer := RequireOfficer(services.RoleIDs)
	supervisor := RequireSupervisor(services.RoleIDs)
	admin := RequireAdmin(services.RoleIDs)

	mux.Handle("GET /auth/protected/officer",
		session(officer(Protected(string(domainauth.RoleOfficer)))))
	mux.Handle("GET /auth/protected/supervisor",
		session(supervisor(Protected(string(domainauth.RoleSupervisor)))))
	mux.Handle("GET /auth/protected/admin",
		session(admin(Protected(string(domainauth.RoleAdmin)))))
}

func registerZoneRoutes(mux *http.ServeMux, h *ZoneHandlers, services RouterServices) {
	session := AuthenticateSession(services.Auth)
	supervisor := RequireSupervisor(services.RoleIDs)

	mux.Handle("GET /zones", http.HandlerFunc(h.List))
	mux.Handle("POST /zones", session(supervisor(http.HandlerFunc(h.Create))))
	mux.Handle("DELETE /zones/{id}", session(supervisor(http.HandlerFunc(h.Delete))))
}
