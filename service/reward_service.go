package service

import (
	"context"
	"fmt"
	"strconv"

	"sheriffrex/events"
	"sheriffrex/models"

	log "github.com/sirupsen/logrus"
)

type rewardService struct {
	uowFactory  UnitOfWorkFactory
	roleManager RoleManager
}

// NewRewardService creates a new level-up reward dispatcher
func NewRewardService(uowFactory UnitOfWorkFactory, roleManager RoleManager) RewardService {
	return &rewardService{
		uowFactory:  uowFactory,
		roleManager: roleManager,
	}
}

func (s *rewardService) CheckAndGrantRewards(ctx context.Context, guildID, userID int64, memberRoleIDs []int64, newLevel int64) ([]string, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	rewards, err := uow.RoleRewardRepository().GetByGuild(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to get role rewards for guild %d: %w", guildID, err)
	}

	held := make(map[int64]struct{}, len(memberRoleIDs))
	for _, roleID := range memberRoleIDs {
		held[roleID] = struct{}{}
	}

	var granted []string
	for _, reward := range rewards {
		if reward.Level > newLevel {
			// Rewards are ordered by level ascending
			break
		}
		if _, ok := held[reward.RoleID]; ok {
			// Eligibility is determined by current role possession, so
			// re-dispatching the same level grants nothing twice
			continue
		}

		if err := s.roleManager.GrantRole(ctx, guildID, userID, reward.RoleID); err != nil {
			// One failed grant must not abort the rest
			log.WithFields(log.Fields{
				"guildID": guildID,
				"userID":  userID,
				"roleID":  reward.RoleID,
				"level":   reward.Level,
			}).WithError(err).Warn("Failed to grant level reward role")
			continue
		}

		uow.EventBus().Publish(events.RewardGrantedEvent{
			GuildID:  guildID,
			UserID:   userID,
			Level:    reward.Level,
			RoleID:   reward.RoleID,
			RoleName: reward.RoleName,
		})

		name := reward.RoleName
		if name == "" {
			name = strconv.FormatInt(reward.RoleID, 10)
		}
		granted = append(granted, name)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return granted, nil
}

func (s *rewardService) ConfigureReward(ctx context.Context, reward *models.RoleReward) error {
	if reward.Level < 0 {
		return fmt.Errorf("reward level must be non-negative")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.RoleRewardRepository().Upsert(ctx, reward); err != nil {
		return fmt.Errorf("failed to save role reward: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (s *rewardService) RemoveReward(ctx context.Context, guildID, level int64) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.RoleRewardRepository().Delete(ctx, guildID, level); err != nil {
		return fmt.Errorf("failed to delete role reward: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (s *rewardService) ListRewards(ctx context.Context, guildID int64) ([]*models.RoleReward, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	rewards, err := uow.RoleRewardRepository().GetByGuild(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to get role rewards: %w", err)
	}

	return rewards, nil
}
