package config

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to.
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`

	// FrontendBaseURL is where login flow redirects land
	// (e.g., "https://app.example.com"). Startup fails without it.
	FrontendBaseURL string `env:"FRONTEND_BASE_URL,required"`

	// CookieDomain is the domain for auth cookies.
	// Leave empty to use the request domain.
	CookieDomain string `env:"APP_COOKIE_DOMAIN" envDefault:""`
}
