package service

import (
	"context"
	"sort"

	"sheriffrex/events"
	"sheriffrex/models"
)

// memStore is an in-memory store shared by memUnitOfWork instances.
// It backs property-style tests that run many grants in sequence,
// where wiring per-call mock expectations would drown the test.
type memStore struct {
	records   map[int64]*models.XPRecord
	rewards   map[int64][]*models.RoleReward
	published []events.Event
}

func newMemStore() *memStore {
	return &memStore{
		records: make(map[int64]*models.XPRecord),
		rewards: make(map[int64][]*models.RoleReward),
	}
}

type memUnitOfWorkFactory struct {
	store *memStore
}

func newMemUnitOfWorkFactory(store *memStore) UnitOfWorkFactory {
	return &memUnitOfWorkFactory{store: store}
}

func (f *memUnitOfWorkFactory) Create() UnitOfWork {
	return &memUnitOfWork{store: f.store}
}

type memUnitOfWork struct {
	store   *memStore
	pending []events.Event
}

func (u *memUnitOfWork) Begin(ctx context.Context) error { return nil }

func (u *memUnitOfWork) Commit() error {
	u.store.published = append(u.store.published, u.pending...)
	u.pending = nil
	return nil
}

func (u *memUnitOfWork) Rollback() error {
	u.pending = nil
	return nil
}

func (u *memUnitOfWork) XPRepository() XPRepository                 { return (*memXPRepository)(u) }
func (u *memUnitOfWork) RoleRewardRepository() RoleRewardRepository { return (*memRoleRewardRepository)(u) }
func (u *memUnitOfWork) EventBus() EventPublisher                   { return u }

func (u *memUnitOfWork) Publish(e events.Event) {
	u.pending = append(u.pending, e)
}

type memXPRepository memUnitOfWork

func (r *memXPRepository) GetByUserID(ctx context.Context, userID int64) (*models.XPRecord, error) {
	record, ok := r.store.records[userID]
	if !ok {
		return nil, nil
	}
	copied := *record
	return &copied, nil
}

func (r *memXPRepository) GetByUserIDForUpdate(ctx context.Context, userID int64) (*models.XPRecord, error) {
	return r.GetByUserID(ctx, userID)
}

func (r *memXPRepository) Upsert(ctx context.Context, record *models.XPRecord) error {
	copied := *record
	r.store.records[record.UserID] = &copied
	return nil
}

func (r *memXPRepository) GetLeaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error) {
	var entries []*models.LeaderboardEntry
	for _, record := range r.store.records {
		entries = append(entries, &models.LeaderboardEntry{
			UserID: record.UserID,
			XP:     record.XP,
			Level:  record.Level,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Level != entries[j].Level {
			return entries[i].Level > entries[j].Level
		}
		return entries[i].XP > entries[j].XP
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

type memRoleRewardRepository memUnitOfWork

func (r *memRoleRewardRepository) GetByGuild(ctx context.Context, guildID int64) ([]*models.RoleReward, error) {
	rewards := append([]*models.RoleReward(nil), r.store.rewards[guildID]...)
	sort.Slice(rewards, func(i, j int) bool { return rewards[i].Level < rewards[j].Level })
	return rewards, nil
}

func (r *memRoleRewardRepository) Upsert(ctx context.Context, reward *models.RoleReward) error {
	for i, existing := range r.store.rewards[reward.GuildID] {
		if existing.Level == reward.Level {
			r.store.rewards[reward.GuildID][i] = reward
			return nil
		}
	}
	r.store.rewards[reward.GuildID] = append(r.store.rewards[reward.GuildID], reward)
	return nil
}

func (r *memRoleRewardRepository) Delete(ctx context.Context, guildID int64, level int64) error {
	rewards := r.store.rewards[guildID]
	for i, existing := range rewards {
		if existing.Level == level {
			r.store.rewards[guildID] = append(rewards[:i], rewards[i+1:]...)
			return nil
		}
	}
	return nil
}
