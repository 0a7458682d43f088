package data

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/zonewatch/zonewatch-api/internal/domain/auth"
	"github.com/zonewatch/zonewatch-api/internal/ports"
	"github.com/zonewatch/zonewatch-api/internal/testutil"
)

func TestUserRepo_Upsert(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	tp := NewFixedTimeProvider(testutil.TestTime())
	repo := NewUserRepoWithTimeProvider(db, tp)

	t.Run("first login creates user", func(t *testing.T) {
		user, err := repo.Upsert(context.Background(), ports.UpsertUserInput{
			DiscordID: "111222333",
			Username:  "tester",
			AvatarURL: "https://cdn.example.com/avatars/111222333/a.png",
		})
		require.NoError(t, err)
		require.NotNil(t, user)

		assert.NotEmpty(t, user.ID)
		assert.Equal(t, "111222333", user.DiscordID)
		assert.Equal(t, "tester", user.Username)
		require.NotNil(t, user.Avatar)
		assert.Equal(t, "https://cdn.example.com/avatars/111222333/a.png", *user.Avatar)
		assert.Equal(t, domainauth.RoleOfficer, user.Role)
		assert.Nil(t, user.DiscordRoleIDs)
		require.NotNil(t, user.LastLogin)
		assert.True(t, user.LastLogin.Equal(testutil.TestTime()))
	})

	t.Run("repeat login refreshes profile but not role", func(t *testing.T) {
		first, err := repo.Upsert(context.Background(), ports.UpsertUserInput{
			DiscordID: "444555666",
			Username:  "original",
		})
		require.NoError(t, err)

		_, err = db.ExecContext(context.Background(),
			"UPDATE users SET role = 'admin' WHERE id = $1", first.ID)
		require.NoError(t, err)

		tp.AddTime(24 * time.Hour)
		second, err := repo.Upsert(context.Background(), ports.UpsertUserInput{
			DiscordID: "444555666",
			Username:  "renamed",
		})
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, "renamed", second.Username)
		assert.Equal(t, domainauth.RoleAdmin, second.Role)
		require.NotNil(t, second.LastLogin)
		assert.True(t, second.LastLogin.After(*first.LastLogin))
		assert.True(t, second.CreatedAt.Equal(first.CreatedAt))
	})

	t.Run("blank discord id rejected", func(t *testing.T) {
		_, err := repo.Upsert(context.Background(), ports.UpsertUserInput{
			DiscordID: "   ",
			Username:  "ghost",
		})
		assert.ErrorIs(t, err, ErrDiscordIDRequired)
	})
}

func TestUserRepo_Lookups(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	repo := NewUserRepo(db)

	created, err := repo.Upsert(context.Background(), ports.UpsertUserInput{
		DiscordID: "111222333",
		Username:  "tester",
	})
	require.NoError(t, err)

	t.Run("by id", func(t *testing.T) {
		user, err := repo.GetByID(context.Background(), created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.DiscordID, user.DiscordID)
	})

	t.Run("by discord id", func(t *testing.T) {
		user, err := repo.GetByDiscordID(context.Background(), "111222333")
		require.NoError(t, err)
		assert.Equal(t, created.ID, user.ID)
	})

	t.Run("missing id", func(t *testing.T) {
		_, err := repo.GetByID(context.Background(), "00000000-0000-0000-0000-000000000000")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("missing discord id", func(t *testing.T) {
		_, err := repo.GetByDiscordID(context.Background(), "999")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestUserRepo_SetDiscordRoleIDs(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	repo := NewUserRepo(db)

	created, err := repo.Upsert(context.Background(), ports.UpsertUserInput{
		DiscordID: "111222333",
		Username:  "tester",
	})
	require.NoError(t, err)

	updated, err := repo.SetDiscordRoleIDs(context.Background(), created.ID, []string{"100", "200"})
	require.NoError(t, err)
	require.NotNil(t, updated.DiscordRoleIDs)
	assert.Equal(t, "100,200", *updated.DiscordRoleIDs)
	assert.Equal(t, []string{"100", "200"}, updated.DiscordRoleIDList())

	cleared, err := repo.SetDiscordRoleIDs(context.Background(), created.ID, nil)
	require.NoError(t, err)
	assert.Nil(t, cleared.DiscordRoleIDs)

	_, err = repo.SetDiscordRoleIDs(context.Background(),
		"00000000-0000-0000-0000-000000000000", []string{"100"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}
