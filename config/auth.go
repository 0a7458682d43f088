package config

import (
	"time"

	domainauth "github.com/zonewatch/zonewatch-api/internal/domain/auth"
)

// DiscordConfig contains the Discord OAuth application credentials and the
// guild settings used for membership verification.
type DiscordConfig struct {
	ClientID     string `env:"CLIENT_ID,required"`
	ClientSecret string `env:"CLIENT_SECRET,required"`
	CallbackURL  string `env:"CALLBACK_URL,required"`

	// APIBaseURL overrides the Discord API base URL (useful for tests).
	APIBaseURL string `env:"API_BASE_URL" envDefault:"https://discord.com/api"`

	// GuildID is the guild consulted for membership verification.
	GuildID string `env:"GUILD_ID"`

	// BotToken authorizes privileged guild member lookups.
	BotToken string `env:"BOT_TOKEN"`
}

// SessionConfig contains session credential settings.
type SessionConfig struct {
	// Secret signs session credentials. Startup fails without it.
	Secret string `env:"JWT_SESSION_SECRET,required"`

	// Lifetime is how long an issued credential stays valid.
	Lifetime time.Duration `env:"SESSION_LIFETIME" envDefault:"168h"`
}

// RolesConfig maps application ranks to Discord role identifiers.
// Each value is a comma-separated list of role IDs.
type RolesConfig struct {
	AdminRoleIDs      string `env:"DISCORD_ADMIN_ROLE_ID"      envDefault:""`
	SupervisorRoleIDs string `env:"DISCORD_SUPERVISOR_ROLE_ID" envDefault:""`
	OfficerRoleIDs    string `env:"DISCORD_OFFICER_ROLE_ID"    envDefault:""`
}

// RoleIDConfig converts the raw env values into the evaluator's config.
func (r RolesConfig) RoleIDConfig() domainauth.RoleIDConfig {
	return domainauth.RoleIDConfig{
		Admin:      domainauth.ParseRoleIDs(r.AdminRoleIDs),
		Supervisor: domainauth.ParseRoleIDs(r.SupervisorRoleIDs),
		Officer:    domainauth.ParseRoleIDs(r.OfficerRoleIDs),
	}
}
