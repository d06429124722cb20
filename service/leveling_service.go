package service

import (
	"context"
	"fmt"
	"time"

	"sheriffrex/events"
	"sheriffrex/models"
)

// XPForLevel returns the XP required to advance from level to level+1.
// The curve is quadratic so each level costs more than the last.
func XPForLevel(level int64) int64 {
	return 5*level*level + 50*level + 100
}

type levelingService struct {
	uowFactory UnitOfWorkFactory
	cooldown   time.Duration
	now        func() time.Time
}

// NewLevelingService creates a new leveling service. cooldown is the
// minimum interval between non-bypassed grants for the same user.
func NewLevelingService(uowFactory UnitOfWorkFactory, cooldown time.Duration) LevelingService {
	return &levelingService{
		uowFactory: uowFactory,
		cooldown:   cooldown,
		now:        time.Now,
	}
}

func (s *levelingService) GrantXP(ctx context.Context, userID int64, amount int64, bypassCooldown bool) (*models.LevelUpResult, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	record, err := uow.XPRepository().GetByUserIDForUpdate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get xp record: %w", err)
	}
	if record == nil {
		record = &models.XPRecord{UserID: userID}
	}

	now := s.now()

	// Cooldown rejection is a true no-op: nothing is written, not even
	// the grant timestamp
	if !bypassCooldown && now.Sub(record.LastGrantAt) < s.cooldown {
		return &models.LevelUpResult{
			Granted:  false,
			OldLevel: record.Level,
			NewLevel: record.Level,
			XP:       record.XP,
		}, nil
	}

	oldLevel := record.Level
	record.XP += amount
	record.LastGrantAt = now

	// A single large grant can cross several level boundaries. Each
	// threshold is evaluated against the already-incremented level.
	for record.XP >= XPForLevel(record.Level) {
		record.XP -= XPForLevel(record.Level)
		record.Level++
	}

	if err := uow.XPRepository().Upsert(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to persist xp record: %w", err)
	}

	uow.EventBus().Publish(events.XPGrantedEvent{
		UserID: userID,
		Amount: amount,
		XP:     record.XP,
		Level:  record.Level,
	})
	if record.Level > oldLevel {
		uow.EventBus().Publish(events.LevelUpEvent{
			UserID:   userID,
			OldLevel: oldLevel,
			NewLevel: record.Level,
		})
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.LevelUpResult{
		Granted:   true,
		LeveledUp: record.Level > oldLevel,
		OldLevel:  oldLevel,
		NewLevel:  record.Level,
		XP:        record.XP,
	}, nil
}

func (s *levelingService) GetUser(ctx context.Context, userID int64) (*models.XPRecord, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	record, err := uow.XPRepository().GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get xp record: %w", err)
	}
	if record == nil {
		// Unknown users read as the zero record; no row is created
		return &models.XPRecord{UserID: userID}, nil
	}

	return record, nil
}

func (s *levelingService) Leaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("leaderboard limit must be positive")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	entries, err := uow.XPRepository().GetLeaderboard(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}

	for i, entry := range entries {
		entry.Rank = i + 1
	}

	return entries, nil
}
