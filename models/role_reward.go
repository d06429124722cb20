package models

import (
	"time"
)

// RoleReward maps a level in a guild to the role granted when a
// member first reaches it. A guild may configure many rewards at
// different levels; reconfiguring the same level overwrites the role.
type RoleReward struct {
	GuildID   int64     `db:"guild_id"`
	Level     int64     `db:"level"`
	RoleID    int64     `db:"role_id"`
	RoleName  string    `db:"role_name"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
