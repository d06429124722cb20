package bot

import (
	"context"
	"errors"
	"fmt"

	"sheriffrex/bot/common"
	"sheriffrex/service"

	"github.com/bwmarrin/discordgo"
)

// sessionRoleManager implements service.RoleManager on top of the
// Discord session, translating REST failures into the service error
// taxonomy so the dispatcher can log them meaningfully.
type sessionRoleManager struct {
	session *discordgo.Session
}

func newSessionRoleManager(session *discordgo.Session) service.RoleManager {
	return &sessionRoleManager{session: session}
}

func (m *sessionRoleManager) GrantRole(ctx context.Context, guildID, userID, roleID int64) error {
	err := m.session.GuildMemberRoleAdd(
		common.FormatUserID(guildID),
		common.FormatUserID(userID),
		common.FormatUserID(roleID),
		discordgo.WithContext(ctx),
	)
	if err == nil {
		return nil
	}

	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Message != nil {
		switch restErr.Message.Code {
		case discordgo.ErrCodeMissingPermissions, discordgo.ErrCodeMissingAccess:
			return fmt.Errorf("%w: role %d in guild %d", service.ErrMissingPermission, roleID, guildID)
		case discordgo.ErrCodeUnknownRole:
			return fmt.Errorf("%w: role %d in guild %d", service.ErrRoleNotFound, roleID, guildID)
		}
	}

	return fmt.Errorf("failed to add role %d to user %d: %w", roleID, userID, err)
}
