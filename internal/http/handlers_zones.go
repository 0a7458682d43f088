package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/zonewatch/zonewatch-api/internal/data"
	"github.com/zonewatch/zonewatch-api/internal/domain/model"
)

// ZoneServiceInterface defines the zone operations handlers depend on.
type ZoneServiceInterface interface {
	List(ctx context.Context) ([]*model.Zone, error)
	Create(ctx context.Context, req *model.CreateZoneRequest) (*model.Zone, error)
	Delete(ctx context.Context, id int64) (*model.Zone, error)
}

// ZoneHandlers provides HTTP handlers for zone operations.
type ZoneHandlers struct {
	Svc    ZoneServiceInterface
	Logger *slog.Logger
}

func (h *ZoneHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// List handles zone listing.
// GET /zones.
func (h *ZoneHandlers) List(w http.ResponseWriter, r *http.Request) {
	zones, err := h.Svc.List(r.Context())
	if err != nil {
		h.logger().ErrorContext(r.Context(), "zone list failed", "err", err)
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "zones_fetch_failed",
			Err:     errors.New("failed to fetch zones"),
		})
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"zones": zones})
}

// Create handles zone creation.
// POST /zones (supervisor gate).
func (h *ZoneHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateZoneRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_zone_name",
			Err:     err,
		})
		return
	}

	zone, err := h.Svc.Create(r.Context(), &req)
	if err != nil {
		if errors.Is(err, data.ErrZoneNameExists) {
			WriteError(w, ErrorParams{
				Code:    http.StatusConflict,
				ErrCode: "zone_name_exists",
				Err:     err,
			})
			return
		}
		h.logger().ErrorContext(r.Context(), "zone create failed", "err", err)
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "zone_create_failed",
			Err:     errors.New("failed to create zone"),
		})
		return
	}
	WriteJSON(w, http.StatusCreated, map[string]any{"zone": zone})
}

// Delete handles zone deletion.
// DELETE /zones/{id} (supervisor gate).
func (h *ZoneHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_zone_id",
			Err:     errors.New("zone id must be a positive integer"),
		})
		return
	}

	zone, err := h.Svc.Delete(r.Context(), id)
	if err != nil {
		if errors.Is(err, data.ErrZoneNotFound) {
			WriteError(w, ErrorParams{
				Code:    http.StatusNotFound,
				ErrCode: "zone_not_found",
				Err:     err,
			})
			return
		}
		h.logger().ErrorContext(r.Context(), "zone delete failed", "err", err, "zone_id", id)
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "zone_delete_failed",
			Err:     errors.New("failed to delete zone"),
		})
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"zone": zone})
}
