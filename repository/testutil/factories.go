package testutil

import (
	"time"

	"sheriffrex/models"
)

// CreateTestXPRecord creates an XP record with default values
func CreateTestXPRecord(userID int64) *models.XPRecord {
	return &models.XPRecord{
		UserID:      userID,
		XP:          0,
		Level:       0,
		LastGrantAt: time.Now().Add(-time.Hour).Truncate(time.Millisecond),
	}
}

// CreateTestXPRecordWithProgress creates an XP record at a specific level
func CreateTestXPRecordWithProgress(userID, xp, level int64) *models.XPRecord {
	record := CreateTestXPRecord(userID)
	record.XP = xp
	record.Level = level
	return record
}

// CreateTestRoleReward creates a role reward with default values
func CreateTestRoleReward(guildID, level, roleID int64, roleName string) *models.RoleReward {
	return &models.RoleReward{
		GuildID:  guildID,
		Level:    level,
		RoleID:   roleID,
		RoleName: roleName,
	}
}
