package service

import (
	"context"
	"testing"
	"time"

	"sheriffrex/events"
	"sheriffrex/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestXPForLevel_StrictlyIncreasing(t *testing.T) {
	assert.Equal(t, int64(100), XPForLevel(0))
	assert.Equal(t, int64(155), XPForLevel(1))
	assert.Equal(t, int64(220), XPForLevel(2))

	for level := int64(0); level < 200; level++ {
		assert.Greater(t, XPForLevel(level+1), XPForLevel(level),
			"threshold must grow at level %d", level)
	}
}

func TestLevelingService_GrantXP_MultipleLevelUps(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockXPRepo := new(MockXPRepository)
	mockPublisher := new(MockEventPublisher)

	mockUoW.SetRepositories(mockXPRepo, nil, mockPublisher)

	svc := NewLevelingService(mockFactory, time.Minute)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	// No stored record: the user starts at the zero record
	mockXPRepo.On("GetByUserIDForUpdate", ctx, int64(42)).Return(nil, nil)

	// 350 XP from level 0 consumes 100 (level 0) and 155 (level 1),
	// leaving 95 toward level 2's threshold of 220
	mockXPRepo.On("Upsert", ctx, mock.MatchedBy(func(r *models.XPRecord) bool {
		return r.UserID == 42 && r.XP == 95 && r.Level == 2 && !r.LastGrantAt.IsZero()
	})).Return(nil)

	mockPublisher.On("Publish", mock.MatchedBy(func(e events.Event) bool {
		granted, ok := e.(events.XPGrantedEvent)
		return ok && granted.UserID == 42 && granted.Amount == 350 && granted.Level == 2
	})).Return()
	mockPublisher.On("Publish", mock.MatchedBy(func(e events.Event) bool {
		levelUp, ok := e.(events.LevelUpEvent)
		return ok && levelUp.OldLevel == 0 && levelUp.NewLevel == 2
	})).Return()

	result, err := svc.GrantXP(ctx, 42, 350, true)

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.Granted)
	assert.True(t, result.LeveledUp)
	assert.Equal(t, int64(0), result.OldLevel)
	assert.Equal(t, int64(2), result.NewLevel)
	assert.Equal(t, int64(95), result.XP)

	mockFactory.AssertExpectations(t)
	mockUoW.AssertExpectations(t)
	mockXPRepo.AssertExpectations(t)
	mockPublisher.AssertExpectations(t)
}

func TestLevelingService_GrantXP_CooldownRejectsWithoutMutation(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockXPRepo := new(MockXPRepository)
	mockPublisher := new(MockEventPublisher)

	mockUoW.SetRepositories(mockXPRepo, nil, mockPublisher)

	now := time.Now()
	svc := &levelingService{
		uowFactory: mockFactory,
		cooldown:   time.Minute,
		now:        func() time.Time { return now },
	}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	lastGrant := now.Add(-30 * time.Second)
	stored := &models.XPRecord{UserID: 42, XP: 80, Level: 3, LastGrantAt: lastGrant}
	mockXPRepo.On("GetByUserIDForUpdate", ctx, int64(42)).Return(stored, nil)

	result, err := svc.GrantXP(ctx, 42, 50, false)

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.False(t, result.Granted)
	assert.False(t, result.LeveledUp)
	assert.Equal(t, int64(3), result.OldLevel)
	assert.Equal(t, int64(3), result.NewLevel)
	assert.Equal(t, int64(80), result.XP)

	// A rejected grant writes nothing, not even the timestamp
	mockXPRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	mockPublisher.AssertNotCalled(t, "Publish", mock.Anything)
	mockUoW.AssertNotCalled(t, "Commit")
	assert.Equal(t, lastGrant, stored.LastGrantAt)
	assert.Equal(t, int64(80), stored.XP)
}

func TestLevelingService_GrantXP_BypassIgnoresCooldown(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockXPRepo := new(MockXPRepository)
	mockPublisher := new(MockEventPublisher)

	mockUoW.SetRepositories(mockXPRepo, nil, mockPublisher)

	svc := NewLevelingService(mockFactory, time.Minute)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	stored := &models.XPRecord{UserID: 42, XP: 10, Level: 1, LastGrantAt: time.Now()}
	mockXPRepo.On("GetByUserIDForUpdate", ctx, int64(42)).Return(stored, nil)
	mockXPRepo.On("Upsert", ctx, mock.MatchedBy(func(r *models.XPRecord) bool {
		return r.XP == 60 && r.Level == 1
	})).Return(nil)
	mockPublisher.On("Publish", mock.AnythingOfType("events.XPGrantedEvent")).Return()

	result, err := svc.GrantXP(ctx, 42, 50, true)

	require.NoError(t, err)
	assert.True(t, result.Granted)
	assert.False(t, result.LeveledUp)
	assert.Equal(t, int64(60), result.XP)

	mockXPRepo.AssertExpectations(t)
}

func TestLevelingService_GrantXP_InvalidAmount(t *testing.T) {
	ctx := context.Background()

	mockFactory := new(MockUnitOfWorkFactory)
	svc := NewLevelingService(mockFactory, time.Minute)

	for _, amount := range []int64{0, -5} {
		result, err := svc.GrantXP(ctx, 42, amount, true)
		assert.ErrorIs(t, err, ErrInvalidAmount)
		assert.Nil(t, result)
	}

	mockFactory.AssertNotCalled(t, "Create")
}

func TestLevelingService_GrantXP_StoreErrorPropagates(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockXPRepo := new(MockXPRepository)
	mockPublisher := new(MockEventPublisher)

	mockUoW.SetRepositories(mockXPRepo, nil, mockPublisher)

	svc := NewLevelingService(mockFactory, time.Minute)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockXPRepo.On("GetByUserIDForUpdate", ctx, int64(42)).Return(nil, assert.AnError)

	result, err := svc.GrantXP(ctx, 42, 50, true)

	require.Error(t, err)
	assert.Nil(t, result)
	mockUoW.AssertNotCalled(t, "Commit")
}

func TestLevelingService_GrantXP_InvariantPreserved(t *testing.T) {
	ctx := context.Background()

	store := newMemStore()
	svc := NewLevelingService(newMemUnitOfWorkFactory(store), time.Minute)

	// Grants of varied size, including multi-level jumps
	amounts := []int64{10, 90, 1, 350, 25, 25, 25, 2000, 17, 9999}

	for _, amount := range amounts {
		result, err := svc.GrantXP(ctx, 7, amount, true)
		require.NoError(t, err)
		require.True(t, result.Granted)

		record := store.records[7]
		require.NotNil(t, record)
		assert.GreaterOrEqual(t, record.XP, int64(0))
		assert.Less(t, record.XP, XPForLevel(record.Level),
			"xp %d must stay below the threshold for level %d after granting %d",
			record.XP, record.Level, amount)
		assert.Equal(t, result.NewLevel, record.Level)
		assert.Equal(t, result.XP, record.XP)
	}
}

func TestLevelingService_GetUser_ZeroRecordWhenAbsent(t *testing.T) {
	ctx := context.Background()

	store := newMemStore()
	svc := NewLevelingService(newMemUnitOfWorkFactory(store), time.Minute)

	record, err := svc.GetUser(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, int64(42), record.UserID)
	assert.Equal(t, int64(0), record.XP)
	assert.Equal(t, int64(0), record.Level)
	assert.True(t, record.LastGrantAt.IsZero())

	// Reading must not create storage state
	assert.Empty(t, store.records)
}

func TestLevelingService_Leaderboard_Ordering(t *testing.T) {
	ctx := context.Background()

	store := newMemStore()
	store.records[1] = &models.XPRecord{UserID: 1, XP: 10, Level: 2} // A
	store.records[2] = &models.XPRecord{UserID: 2, XP: 5, Level: 3}  // B
	store.records[3] = &models.XPRecord{UserID: 3, XP: 50, Level: 2} // C

	svc := NewLevelingService(newMemUnitOfWorkFactory(store), time.Minute)

	entries, err := svc.Leaderboard(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// B first on level, then C over A on xp
	assert.Equal(t, int64(2), entries[0].UserID)
	assert.Equal(t, int64(3), entries[1].UserID)
	assert.Equal(t, int64(1), entries[2].UserID)
	assert.Equal(t, []int{1, 2, 3}, []int{entries[0].Rank, entries[1].Rank, entries[2].Rank})

	_, err = svc.Leaderboard(ctx, 0)
	assert.Error(t, err)
}
