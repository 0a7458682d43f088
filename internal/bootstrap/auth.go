package bootstrap

import (
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/zonewatch/zonewatch-api/config"
	"github.com/zonewatch/zonewatch-api/internal/adapters/discord"
	redisadapter "github.com/zonewatch/zonewatch-api/internal/adapters/redis"
	"github.com/zonewatch/zonewatch-api/internal/adapters/sessiontoken"
	"github.com/zonewatch/zonewatch-api/internal/data"
	"github.com/zonewatch/zonewatch-api/internal/service"
)

// AuthDeps contains dependencies for the auth service.
type AuthDeps struct {
	Discord  config.DiscordConfig
	Session  config.SessionConfig
	Roles    config.RolesConfig
	Users    *data.UserRepo
	Verifier *discord.GuildVerifier
	Logger   *slog.Logger
}

// BuildAuthService wires the Discord provider, user store, and session codec
// into the auth service.
func BuildAuthService(deps AuthDeps) (*service.AuthService, error) {
	provider, err := discord.NewProvider(discord.ProviderConfig{
		ClientID:     deps.Discord.ClientID,
		ClientSecret: deps.Discord.ClientSecret,
		RedirectURL:  deps.Discord.CallbackURL,
		APIBaseURL:   deps.Discord.APIBaseURL,
	})
	if err != nil {
		return nil, err
	}

	codec, err := sessiontoken.NewCodec(sessiontoken.CodecOptions{
		Secret:   deps.Session.Secret,
		Lifetime: deps.Session.Lifetime,
	})
	if err != nil {
		return nil, err
	}

	opts := service.AuthServiceOptions{
		Provider: provider,
		Users:    deps.Users,
		Codec:    codec,
		Logger:   deps.Logger,
	}
	if deps.Verifier != nil {
		opts.Verifier = deps.Verifier
		opts.Guild = service.GuildSettings{
			GuildID:        deps.Discord.GuildID,
			BotToken:       deps.Discord.BotToken,
			AllowedRoleIDs: deps.Roles.RoleIDConfig().AllIDs(),
		}
	}
	return service.NewAuthService(opts), nil
}

// GuildVerifierDeps contains dependencies for the guild membership verifier.
type GuildVerifierDeps struct {
	Discord     config.DiscordConfig
	RedisClient redis.UniversalClient
	CacheTTL    time.Duration
	Logger      *slog.Logger
}

// BuildGuildVerifier wires the Discord guild verifier with a Redis-backed
// member role cache when a Redis client is available.
func BuildGuildVerifier(deps GuildVerifierDeps) *discord.GuildVerifier {
	cfg := discord.GuildVerifierConfig{
		APIBaseURL: deps.Discord.APIBaseURL,
		Logger:     deps.Logger,
	}
	if deps.RedisClient != nil {
		cfg.Cache = redisadapter.NewMemberRoleCache(deps.RedisClient, deps.CacheTTL)
	}
	return discord.NewGuildVerifier(cfg)
}
