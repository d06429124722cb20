package models

import (
	"time"
)

// XPRecord tracks a Discord user's leveling progress. XP holds the
// progress toward the next level only; it is reset, not accumulated,
// each time a level threshold is crossed.
type XPRecord struct {
	UserID      int64     `db:"user_id"`
	XP          int64     `db:"xp"`
	Level       int64     `db:"level"`
	LastGrantAt time.Time `db:"last_grant_at"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// LevelUpResult describes the outcome of a single XP grant
type LevelUpResult struct {
	Granted   bool  // false when the cooldown rejected the grant
	LeveledUp bool  // true when at least one level boundary was crossed
	OldLevel  int64 // level before the grant
	NewLevel  int64 // level after the grant
	XP        int64 // remaining XP toward the next level
}

// LeaderboardEntry is a single row of the server leaderboard
type LeaderboardEntry struct {
	Rank   int
	UserID int64
	XP     int64
	Level  int64
}
