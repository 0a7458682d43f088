package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zonewatch/zonewatch-api/internal/data"
	"github.com/zonewatch/zonewatch-api/internal/domain/model"
)

// fakeZoneRepo is an in-memory ZoneRepository for unit tests.
type fakeZoneRepo struct {
	zones  []*model.Zone
	nextID int64

	listErr error
}

func newFakeZoneRepo() *fakeZoneRepo {
	return &fakeZoneRepo{nextID: 1}
}

func (f *fakeZoneRepo) List(_ context.Context) ([]*model.Zone, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]*model.Zone, len(f.zones))
	copy(out, f.zones)
	return out, nil
}

func (f *fakeZoneRepo) Create(_ context.Context, req *model.CreateZoneRequest) (*model.Zone, error) {
	for _, z := range f.zones {
		if z.Name == req.Name {
			return nil, data.ErrZoneNameExists
		}
	}
	zone := &model.Zone{ID: f.nextID, Name: req.Name, CreatedAt: time.Now()}
	f.nextID++
	f.zones = append(f.zones, zone)
	return zone, nil
}

func (f *fakeZoneRepo) Delete(_ context.Context, id int64) (*model.Zone, error) {
	for i, z := range f.zones {
		if z.ID == id {
			f.zones = append(f.zones[:i], f.zones[i+1:]...)
			return z, nil
		}
	}
	return nil, data.ErrZoneNotFound
}

func TestZoneService_CreateAndList(t *testing.T) {
	svc := NewZoneServiceWithRepo(newFakeZoneRepo(), nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, &model.CreateZoneRequest{Name: "harbor"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, "harbor", created.Name)

	zones, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, zones, 1)
	assert.Equal(t, "harbor", zones[0].Name)
}

func TestZoneService_CreateDuplicateName(t *testing.T) {
	svc := NewZoneServiceWithRepo(newFakeZoneRepo(), nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, &model.CreateZoneRequest{Name: "harbor"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, &model.CreateZoneRequest{Name: "harbor"})
	assert.ErrorIs(t, err, data.ErrZoneNameExists)
}

func TestZoneService_Delete(t *testing.T) {
	repo := newFakeZoneRepo()
	svc := NewZoneServiceWithRepo(repo, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, &model.CreateZoneRequest{Name: "harbor"})
	require.NoError(t, err)

	deleted, err := svc.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, deleted.ID)

	zones, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, zones)
}

func TestZoneService_DeleteMissing(t *testing.T) {
	svc := NewZoneServiceWithRepo(newFakeZoneRepo(), nil)

	_, err := svc.Delete(context.Background(), 42)
	assert.ErrorIs(t, err, data.ErrZoneNotFound)
}

func TestZoneService_ListError(t *testing.T) {
	repo := newFakeZoneRepo()
	repo.listErr = assert.AnError
	svc := NewZoneServiceWithRepo(repo, nil)

	_, err := svc.List(context.Background())
	assert.ErrorIs(t, err, assert.AnError)
}
