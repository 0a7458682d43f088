package service

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/zonewatch/zonewatch-api/internal/data"
	"github.com/zonewatch/zonewatch-api/internal/domain/model"
)

// ZoneRepository defines the data operations the zone service requires.
type ZoneRepository interface {
	List(ctx context.Context) ([]*model.Zone, error)
	Create(ctx context.Context, req *model.CreateZoneRequest) (*model.Zone, error)
	Delete(ctx context.Context, id int64) (*model.Zone, error)
}

// ZoneService provides business operations for zones.
type ZoneService struct {
	repo   ZoneRepository
	logger *slog.Logger
}

// NewZoneService creates a ZoneService backed by the database.
func NewZoneService(db *sql.DB, logger *slog.Logger) *ZoneService {
	return NewZoneServiceWithRepo(data.NewZoneRepo(db), logger)
}

// NewZoneServiceWithRepo creates a ZoneService with an explicit repository (useful for tests).
func NewZoneServiceWithRepo(repo ZoneRepository, logger *slog.Logger) *ZoneService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ZoneService{repo: repo, logger: logger.With("component", "zone_service")}
}

// List returns all zones ordered by ID.
func (s *ZoneService) List(ctx context.Context) ([]*model.Zone, error) {
	return s.repo.List(ctx)
}

// Create validates and persists a new zone.
func (s *ZoneService) Create(ctx context.Context, req *model.CreateZoneRequest) (*model.Zone, error) {
	zone, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "zone created", "zone_id", zone.ID, "name", zone.Name)
	return zone, nil
}

// Delete removes a zone and returns the deleted row.
func (s *ZoneService) Delete(ctx context.Context, id int64) (*model.Zone, error) {
	zone, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "zone deleted", "zone_id", zone.ID, "name", zone.Name)
	return zone, nil
}
