package repository

import (
	"context"
	"fmt"

	"sheriffrex/database"
	"sheriffrex/models"
)

// RoleRewardRepository implements the service.RoleRewardRepository interface
type RoleRewardRepository struct {
	q queryable
}

// NewRoleRewardRepository creates a new role reward repository
func NewRoleRewardRepository(db *database.DB) *RoleRewardRepository {
	return &RoleRewardRepository{q: db.Pool}
}

// newRoleRewardRepositoryWithTx creates a new role reward repository with a transaction
func newRoleRewardRepositoryWithTx(tx queryable) *RoleRewardRepository {
	return &RoleRewardRepository{q: tx}
}

// GetByGuild returns all rewards configured for a guild, ordered by
// level ascending
func (r *RoleRewardRepository) GetByGuild(ctx context.Context, guildID int64) ([]*models.RoleReward, error) {
	query := `
		SELECT guild_id, level, role_id, role_name, created_at, updated_at
		FROM role_rewards
		WHERE guild_id = $1
		ORDER BY level ASC
	`

	rows, err := r.q.Query(ctx, query, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to get role rewards for guild %d: %w", guildID, err)
	}
	defer rows.Close()

	var rewards []*models.RoleReward
	for rows.Next() {
		var reward models.RoleReward
		err := rows.Scan(
			&reward.GuildID,
			&reward.Level,
			&reward.RoleID,
			&reward.RoleName,
			&reward.CreatedAt,
			&reward.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan role reward: %w", err)
		}
		rewards = append(rewards, &reward)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate role rewards: %w", err)
	}

	return rewards, nil
}

// Upsert creates a reward or overwrites the role configured at an
// existing level
func (r *RoleRewardRepository) Upsert(ctx context.Context, reward *models.RoleReward) error {
	query := `
		INSERT INTO role_rewards (guild_id, level, role_id, role_name)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (guild_id, level) DO UPDATE
		SET role_id = EXCLUDED.role_id,
		    role_name = EXCLUDED.role_name,
		    updated_at = NOW()
		RETURNING created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		reward.GuildID,
		reward.Level,
		reward.RoleID,
		reward.RoleName,
	).Scan(&reward.CreatedAt, &reward.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert role reward for guild %d level %d: %w", reward.GuildID, reward.Level, err)
	}

	return nil
}

// Delete removes the reward configured at a level. Deleting a level
// with no reward is not an error.
func (r *RoleRewardRepository) Delete(ctx context.Context, guildID int64, level int64) error {
	query := `
		DELETE FROM role_rewards
		WHERE guild_id = $1 AND level = $2
	`

	_, err := r.q.Exec(ctx, query, guildID, level)
	if err != nil {
		return fmt.Errorf("failed to delete role reward for guild %d level %d: %w", guildID, level, err)
	}

	return nil
}
