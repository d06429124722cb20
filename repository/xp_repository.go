package repository

import (
	"context"
	"fmt"

	"sheriffrex/database"
	"sheriffrex/models"

	"github.com/jackc/pgx/v5"
)

// XPRepository implements the service.XPRepository interface
type XPRepository struct {
	q queryable
}

// NewXPRepository creates a new XP repository
func NewXPRepository(db *database.DB) *XPRepository {
	return &XPRepository{q: db.Pool}
}

// newXPRepositoryWithTx creates a new XP repository with a transaction
func newXPRepositoryWithTx(tx queryable) *XPRepository {
	return &XPRepository{q: tx}
}

// GetByUserID retrieves a user's XP record, or nil if none exists
func (r *XPRepository) GetByUserID(ctx context.Context, userID int64) (*models.XPRecord, error) {
	return r.get(ctx, userID, false)
}

// GetByUserIDForUpdate retrieves a user's XP record with a row lock so
// concurrent grants for the same user serialize on the row. Returns nil
// if no record exists.
func (r *XPRepository) GetByUserIDForUpdate(ctx context.Context, userID int64) (*models.XPRecord, error) {
	return r.get(ctx, userID, true)
}

func (r *XPRepository) get(ctx context.Context, userID int64, forUpdate bool) (*models.XPRecord, error) {
	query := `
		SELECT user_id, xp, level, last_grant_at, created_at, updated_at
		FROM xp_records
		WHERE user_id = $1
	`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var record models.XPRecord
	err := r.q.QueryRow(ctx, query, userID).Scan(
		&record.UserID,
		&record.XP,
		&record.Level,
		&record.LastGrantAt,
		&record.CreatedAt,
		&record.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get xp record for user %d: %w", userID, err)
	}

	return &record, nil
}

// Upsert inserts or replaces a user's XP record
func (r *XPRepository) Upsert(ctx context.Context, record *models.XPRecord) error {
	query := `
		INSERT INTO xp_records (user_id, xp, level, last_grant_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE
		SET xp = EXCLUDED.xp,
		    level = EXCLUDED.level,
		    last_grant_at = EXCLUDED.last_grant_at,
		    updated_at = NOW()
		RETURNING created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		record.UserID,
		record.XP,
		record.Level,
		record.LastGrantAt,
	).Scan(&record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert xp record for user %d: %w", record.UserID, err)
	}

	return nil
}

// GetLeaderboard returns the top records ordered by level descending,
// ties broken by xp descending
func (r *XPRepository) GetLeaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error) {
	query := `
		SELECT user_id, xp, level
		FROM xp_records
		ORDER BY level DESC, xp DESC
		LIMIT $1
	`

	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []*models.LeaderboardEntry
	for rows.Next() {
		var entry models.LeaderboardEntry
		if err := rows.Scan(&entry.UserID, &entry.XP, &entry.Level); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leaderboard entries: %w", err)
	}

	return entries, nil
}
