package service

import (
	"context"

	"sheriffrex/events"
	"sheriffrex/models"
)

// XPRepository defines the interface for XP record data access
type XPRepository interface {
	// GetByUserID retrieves a user's XP record, or nil if none exists
	GetByUserID(ctx context.Context, userID int64) (*models.XPRecord, error)

	// GetByUserIDForUpdate retrieves a user's XP record with a row lock,
	// serializing concurrent grants for the same user. Must run inside
	// a transaction. Returns nil if no record exists.
	GetByUserIDForUpdate(ctx context.Context, userID int64) (*models.XPRecord, error)

	// Upsert inserts or replaces a user's XP record
	Upsert(ctx context.Context, record *models.XPRecord) error

	// GetLeaderboard returns the top records ordered by level then XP,
	// both descending
	GetLeaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error)
}

// RoleRewardRepository defines the interface for level reward configuration
type RoleRewardRepository interface {
	// GetByGuild returns all rewards configured for a guild, ordered by
	// level ascending
	GetByGuild(ctx context.Context, guildID int64) ([]*models.RoleReward, error)

	// Upsert creates a reward or overwrites the role at an existing level
	Upsert(ctx context.Context, reward *models.RoleReward) error

	// Delete removes the reward configured at a level, if any
	Delete(ctx context.Context, guildID int64, level int64) error
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork binds repositories and event publishing to one transaction
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	XPRepository() XPRepository
	RoleRewardRepository() RoleRewardRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory creates units of work
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// RoleManager abstracts guild membership mutation so the reward
// dispatcher stays independent of the Discord session
type RoleManager interface {
	// GrantRole adds a role to a guild member. Returns
	// ErrMissingPermission or ErrRoleNotFound (wrapped) when the role
	// cannot be added for that reason.
	GrantRole(ctx context.Context, guildID, userID, roleID int64) error
}

// LevelingService defines the XP ledger operations
type LevelingService interface {
	// GrantXP adds XP to a user, applying the cooldown gate unless
	// bypassed, and advances their level across as many thresholds as
	// the new total crosses
	GrantXP(ctx context.Context, userID int64, amount int64, bypassCooldown bool) (*models.LevelUpResult, error)

	// GetUser returns the stored record, or a zero-value record if the
	// user has never been granted XP. Never creates storage state.
	GetUser(ctx context.Context, userID int64) (*models.XPRecord, error)

	// Leaderboard returns the top limit records ordered by level then XP
	Leaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error)
}

// RewardService defines the level-up reward dispatcher
type RewardService interface {
	// CheckAndGrantRewards grants every configured reward for the guild
	// at or below newLevel that the member does not already hold, and
	// returns the names of the roles actually granted, in attempt order.
	// Individual grant failures are logged and skipped.
	CheckAndGrantRewards(ctx context.Context, guildID, userID int64, memberRoleIDs []int64, newLevel int64) ([]string, error)

	// ConfigureReward creates a reward or overwrites the role at an
	// existing level
	ConfigureReward(ctx context.Context, reward *models.RoleReward) error

	// RemoveReward deletes the reward configured at a level
	RemoveReward(ctx context.Context, guildID, level int64) error

	// ListRewards returns the guild's rewards ordered by level ascending
	ListRewards(ctx context.Context, guildID int64) ([]*models.RoleReward, error)
}
