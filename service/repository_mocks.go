package service

import (
	"context"

	"sheriffrex/events"
	"sheriffrex/models"

	"github.com/stretchr/testify/mock"
)

// MockXPRepository is a mock implementation of XPRepository
type MockXPRepository struct {
	mock.Mock
}

func (m *MockXPRepository) GetByUserID(ctx context.Context, userID int64) (*models.XPRecord, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.XPRecord), args.Error(1)
}

func (m *MockXPRepository) GetByUserIDForUpdate(ctx context.Context, userID int64) (*models.XPRecord, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.XPRecord), args.Error(1)
}

func (m *MockXPRepository) Upsert(ctx context.Context, record *models.XPRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockXPRepository) GetLeaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LeaderboardEntry), args.Error(1)
}

// MockRoleRewardRepository is a mock implementation of RoleRewardRepository
type MockRoleRewardRepository struct {
	mock.Mock
}

func (m *MockRoleRewardRepository) GetByGuild(ctx context.Context, guildID int64) ([]*models.RoleReward, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.RoleReward), args.Error(1)
}

func (m *MockRoleRewardRepository) Upsert(ctx context.Context, reward *models.RoleReward) error {
	args := m.Called(ctx, reward)
	return args.Error(0)
}

func (m *MockRoleRewardRepository) Delete(ctx context.Context, guildID int64, level int64) error {
	args := m.Called(ctx, guildID, level)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
}

// MockRoleManager is a mock implementation of RoleManager
type MockRoleManager struct {
	mock.Mock
}

func (m *MockRoleManager) GrantRole(ctx context.Context, guildID, userID, roleID int64) error {
	args := m.Called(ctx, guildID, userID, roleID)
	return args.Error(0)
}

// MockUnitOfWork is a mock implementation of UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
	xpRepo         XPRepository
	roleRewardRepo RoleRewardRepository
	eventBus       EventPublisher
}

// SetRepositories configures the repositories returned by this unit of work
func (m *MockUnitOfWork) SetRepositories(xpRepo XPRepository, roleRewardRepo RoleRewardRepository, eventBus EventPublisher) {
	m.xpRepo = xpRepo
	m.roleRewardRepo = roleRewardRepo
	m.eventBus = eventBus
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) XPRepository() XPRepository {
	return m.xpRepo
}

func (m *MockUnitOfWork) RoleRewardRepository() RoleRewardRepository {
	return m.roleRewardRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	return m.eventBus
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}
