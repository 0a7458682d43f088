package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/zonewatch/zonewatch-api/internal/data/pgxutil"
	"github.com/zonewatch/zonewatch-api/internal/domain/model"
	apperrors "github.com/zonewatch/zonewatch-api/internal/errors"
)

// ZoneRepo provides database operations for zones.
type ZoneRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewZoneRepo creates a new ZoneRepo with real time provider.
func NewZoneRepo(db *sql.DB) *ZoneRepo {
	return &ZoneRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewZoneRepoWithTimeProvider creates a new ZoneRepo with a custom time provider (useful for tests).
func NewZoneRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *ZoneRepo {
	return &ZoneRepo{DB: db, timeProvider: tp}
}

// List retrieves all zones ordered by ID.
func (r *ZoneRepo) List(ctx context.Context) ([]*model.Zone, error) {
	var rowsOut []model.Zone
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT id, name, created_at
			FROM zones
			ORDER BY id`)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Zone])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list zones: %w", apperrors.MapDBError(err))
	}

	res := make([]*model.Zone, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// Create inserts a new zone.
func (r *ZoneRepo) Create(ctx context.Context, req *model.CreateZoneRequest) (*model.Zone, error) {
	if req == nil {
		return nil, errors.New("create zone request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	createdAt := r.timeProvider.Now().UTC()
	var out model.Zone
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO zones (name, created_at)
			VALUES ($1, $2)
			RETURNING id, name, created_at`,
			strings.TrimSpace(req.Name),
			createdAt,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Zone])
		return err
	}); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, ErrZoneNameExists
		}
		return nil, fmt.Errorf("failed to create zone: %w", apperrors.MapDBError(err))
	}
	return &out, nil
}

// Delete deletes a zone by ID and returns the deleted row.
func (r *ZoneRepo) Delete(ctx context.Context, id int64) (*model.Zone, error) {
	var out model.Zone
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			DELETE FROM zones
			WHERE id = $1
			RETURNING id, name, created_at`, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Zone])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrZoneNotFound
		}
		return nil, fmt.Errorf("failed to delete zone: %w", apperrors.MapDBError(err))
	}
	return &out, nil
}
