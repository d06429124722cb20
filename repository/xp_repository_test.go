package repository

import (
	"context"
	"testing"
	"time"

	"sheriffrex/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestXPRepository_GetByUserID(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewXPRepository(testDB.DB)
	ctx := context.Background()

	t.Run("record not found", func(t *testing.T) {
		record, err := repo.GetByUserID(ctx, 999999)
		require.NoError(t, err)
		assert.Nil(t, record)
	})

	t.Run("record found", func(t *testing.T) {
		testRecord := testutil.CreateTestXPRecordWithProgress(123456, 42, 3)
		require.NoError(t, repo.Upsert(ctx, testRecord))

		record, err := repo.GetByUserID(ctx, 123456)
		require.NoError(t, err)
		require.NotNil(t, record)

		assert.Equal(t, int64(123456), record.UserID)
		assert.Equal(t, int64(42), record.XP)
		assert.Equal(t, int64(3), record.Level)
		assert.WithinDuration(t, testRecord.LastGrantAt, record.LastGrantAt, time.Millisecond)
	})
}

func TestXPRepository_Upsert(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewXPRepository(testDB.DB)
	ctx := context.Background()

	t.Run("insert then update", func(t *testing.T) {
		record := testutil.CreateTestXPRecordWithProgress(111, 10, 0)
		require.NoError(t, repo.Upsert(ctx, record))
		assert.False(t, record.CreatedAt.IsZero())

		record.XP = 5
		record.Level = 1
		record.LastGrantAt = time.Now().Truncate(time.Millisecond)
		require.NoError(t, repo.Upsert(ctx, record))

		stored, err := repo.GetByUserID(ctx, 111)
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, int64(5), stored.XP)
		assert.Equal(t, int64(1), stored.Level)
		assert.True(t, stored.UpdatedAt.After(stored.CreatedAt) || stored.UpdatedAt.Equal(stored.CreatedAt))
	})
}

func TestXPRepository_GetByUserIDForUpdate(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewXPRepository(testDB.DB)
	ctx := context.Background()

	record := testutil.CreateTestXPRecordWithProgress(222, 7, 2)
	require.NoError(t, repo.Upsert(ctx, record))

	// The locked read must run inside a transaction
	tx, err := testDB.DB.Begin(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)

	txRepo := newXPRepositoryWithTx(tx)
	locked, err := txRepo.GetByUserIDForUpdate(ctx, 222)
	require.NoError(t, err)
	require.NotNil(t, locked)
	assert.Equal(t, int64(7), locked.XP)
	assert.Equal(t, int64(2), locked.Level)

	missing, err := txRepo.GetByUserIDForUpdate(ctx, 999999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestXPRepository_GetLeaderboard(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewXPRepository(testDB.DB)
	ctx := context.Background()

	// A: level 2 xp 10, B: level 3 xp 5, C: level 2 xp 50
	require.NoError(t, repo.Upsert(ctx, testutil.CreateTestXPRecordWithProgress(1, 10, 2)))
	require.NoError(t, repo.Upsert(ctx, testutil.CreateTestXPRecordWithProgress(2, 5, 3)))
	require.NoError(t, repo.Upsert(ctx, testutil.CreateTestXPRecordWithProgress(3, 50, 2)))

	entries, err := repo.GetLeaderboard(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// Level descending, xp breaks the tie
	assert.Equal(t, int64(2), entries[0].UserID)
	assert.Equal(t, int64(3), entries[1].UserID)
	assert.Equal(t, int64(1), entries[2].UserID)

	t.Run("limit truncates", func(t *testing.T) {
		top, err := repo.GetLeaderboard(ctx, 2)
		require.NoError(t, err)
		require.Len(t, top, 2)
		assert.Equal(t, int64(2), top[0].UserID)
	})
}
