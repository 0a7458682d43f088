package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/zonewatch/zonewatch-api/config"
	"github.com/zonewatch/zonewatch-api/internal/adapters/discord"
	"github.com/zonewatch/zonewatch-api/internal/data"
	"github.com/zonewatch/zonewatch-api/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Auth     *service.AuthService
	Zones    *service.ZoneService
	Verifier *discord.GuildVerifier
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// NewServices builds the service container from shared infrastructure.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	verifier := BuildGuildVerifier(GuildVerifierDeps{
		Discord:     deps.Config.Discord,
		RedisClient: deps.RedisClient,
		CacheTTL:    deps.Config.Redis.MemberRoleTTL,
		Logger:      logger,
	})

	authSvc, err := BuildAuthService(AuthDeps{
		Discord:  deps.Config.Discord,
		Session:  deps.Config.Session,
		Roles:    deps.Config.Roles,
		Users:    data.NewUserRepo(deps.DB),
		Verifier: verifier,
		Logger:   logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build auth service: %w", err)
	}

	return ServiceContainer{
		Auth:     authSvc,
		Zones:    service.NewZoneService(deps.DB, logger),
		Verifier: verifier,
	}, nil
}

// RunConfig groups dependencies for the service run loop.
type RunConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

// RunWithShutdown starts the HTTP server and blocks until a termination
// signal arrives, then shuts the server down gracefully.
func RunWithShutdown(ctx context.Context, cfg *RunConfig) error {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := StartHTTPServer(&HTTPServerConfig{
		Config:   cfg.Config,
		Services: cfg.Services,
		Logger:   logger,
	})

	g, gctx := errgroup.WithContext(sigCtx)
	g.Go(func() error {
		<-gctx.Done()
		// Use the parent context so shutdown is not already canceled.
		return ShutdownHTTPServer(ctx, server, logger)
	})

	return g.Wait()
}
