package repository

import (
	"context"
	"testing"

	"sheriffrex/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleRewardRepository_GetByGuild(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewRoleRewardRepository(testDB.DB)
	ctx := context.Background()

	t.Run("no rewards configured", func(t *testing.T) {
		rewards, err := repo.GetByGuild(ctx, 999999)
		require.NoError(t, err)
		assert.Empty(t, rewards)
	})

	t.Run("ordered by level ascending", func(t *testing.T) {
		require.NoError(t, repo.Upsert(ctx, testutil.CreateTestRoleReward(100, 10, 2001, "Deputy")))
		require.NoError(t, repo.Upsert(ctx, testutil.CreateTestRoleReward(100, 3, 2002, "Ranch Hand")))
		require.NoError(t, repo.Upsert(ctx, testutil.CreateTestRoleReward(100, 5, 2003, "Outrider")))
		// Another guild's reward must not leak in
		require.NoError(t, repo.Upsert(ctx, testutil.CreateTestRoleReward(200, 1, 2004, "Tenderfoot")))

		rewards, err := repo.GetByGuild(ctx, 100)
		require.NoError(t, err)
		require.Len(t, rewards, 3)
		assert.Equal(t, int64(3), rewards[0].Level)
		assert.Equal(t, int64(5), rewards[1].Level)
		assert.Equal(t, int64(10), rewards[2].Level)
	})
}

func TestRoleRewardRepository_Upsert(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewRoleRewardRepository(testDB.DB)
	ctx := context.Background()

	// Reconfiguring the same (guild, level) overwrites the role
	require.NoError(t, repo.Upsert(ctx, testutil.CreateTestRoleReward(100, 5, 3001, "Outrider")))
	require.NoError(t, repo.Upsert(ctx, testutil.CreateTestRoleReward(100, 5, 3002, "Trail Boss")))

	rewards, err := repo.GetByGuild(ctx, 100)
	require.NoError(t, err)
	require.Len(t, rewards, 1)
	assert.Equal(t, int64(3002), rewards[0].RoleID)
	assert.Equal(t, "Trail Boss", rewards[0].RoleName)
}

func TestRoleRewardRepository_Delete(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewRoleRewardRepository(testDB.DB)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, testutil.CreateTestRoleReward(100, 5, 3001, "Outrider")))
	require.NoError(t, repo.Delete(ctx, 100, 5))

	rewards, err := repo.GetByGuild(ctx, 100)
	require.NoError(t, err)
	assert.Empty(t, rewards)

	// Deleting an unconfigured level is not an error
	require.NoError(t, repo.Delete(ctx, 100, 42))
}
