package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/zonewatch/zonewatch-api/internal/data/pgxutil"
	"github.com/zonewatch/zonewatch-api/internal/domain/model"
	apperrors "github.com/zonewatch/zonewatch-api/internal/errors"
	"github.com/zonewatch/zonewatch-api/internal/ports"
)

// UserRepo provides database operations for users.
type UserRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewUserRepo creates a new UserRepo with real time provider.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewUserRepoWithTimeProvider creates a new UserRepo with a custom time provider (useful for tests).
func NewUserRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *UserRepo {
	return &UserRepo{DB: db, timeProvider: tp}
}

// Upsert inserts a user keyed on discord_id, refreshing the profile fields and
// last_login on conflict. The stored role is never touched here so that a
// role assigned out of band survives repeated logins.
func (r *UserRepo) Upsert(ctx context.Context, in ports.UpsertUserInput) (*model.User, error) {
	discordID := strings.TrimSpace(in.DiscordID)
	if discordID == "" {
		return nil, ErrDiscordIDRequired
	}

	var avatar *string
	if in.AvatarURL != "" {
		avatar = &in.AvatarURL
	}

	now := r.timeProvider.Now().UTC()
	var out model.User
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO users (
				discord_id, username, avatar, last_login, created_at
			) VALUES (
				$1, $2, $3, $4, $4
			)
			ON CONFLICT (discord_id) DO UPDATE SET
				username   = EXCLUDED.username,
				avatar     = EXCLUDED.avatar,
				last_login = EXCLUDED.last_login
			RETURNING id, discord_id, username, avatar, role, discord_role_ids, created_at, last_login
		`,
			discordID,
			strings.TrimSpace(in.Username),
			avatar,
			now,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", apperrors.MapDBError(err))
	}
	return &out, nil
}

// GetByID retrieves a user by ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	return r.getByQuery(ctx, userGetByIDQuery, "failed to get user by ID", id)
}

// GetByDiscordID retrieves a user by Discord ID.
func (r *UserRepo) GetByDiscordID(ctx context.Context, discordID string) (*model.User, error) {
	return r.getByQuery(ctx, userGetByDiscordIDQuery, "failed to get user by discord ID", discordID)
}

// SetDiscordRoleIDs replaces the cached guild role list for a user. A nil
// slice clears the column.
func (r *UserRepo) SetDiscordRoleIDs(ctx context.Context, id string, roleIDs []string) (*model.User, error) {
	var stored *string
	if len(roleIDs) > 0 {
		joined := strings.Join(roleIDs, ",")
		stored = &joined
	}

	var out model.User
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			UPDATE users SET discord_role_ids = $2
			WHERE id = $1
			RETURNING id, discord_id, username, avatar, role, discord_role_ids, created_at, last_login
		`, id, stored)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to set discord role ids: %w", apperrors.MapDBError(err))
	}
	return &out, nil
}

// SQL query constants for static queries (no dynamic WHERE/ORDER BY).
const (
	userGetByIDQuery = `
		SELECT id, discord_id, username, avatar, role, discord_role_ids, created_at, last_login
		FROM users
		WHERE id = $1`

	userGetByDiscordIDQuery = `
		SELECT id, discord_id, username, avatar, role, discord_role_ids, created_at, last_login
		FROM users
		WHERE discord_id = $1`
)

// getByQuery is a helper function to execute a query and return a single user.
func (r *UserRepo) getByQuery(
	ctx context.Context,
	q string,
	errMsg string,
	args ...any,
) (*model.User, error) {
	var user model.User
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, q, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		user, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%s: %w", errMsg, apperrors.MapDBError(err))
	}
	return &user, nil
}
