package rewards

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"sheriffrex/bot/common"
	"sheriffrex/models"
	"sheriffrex/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func (f *Feature) handleSet(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	var level int64
	var role *discordgo.Role
	for _, option := range options {
		switch option.Name {
		case "level":
			level = option.IntValue()
		case "role":
			role = option.RoleValue(s, i.GuildID)
		}
	}

	if level < 1 {
		common.RespondWithError(s, i, "Level must be at least 1.")
		return
	}
	if role == nil {
		common.RespondWithError(s, i, "That role could not be found.")
		return
	}

	guildID, err := common.ParseUserID(i.GuildID)
	if err != nil {
		log.Errorf("Error parsing guild ID %s: %v", i.GuildID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}
	roleID, err := common.ParseUserID(role.ID)
	if err != nil {
		log.Errorf("Error parsing role ID %s: %v", role.ID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	reward := &models.RoleReward{
		GuildID:  guildID,
		Level:    level,
		RoleID:   roleID,
		RoleName: role.Name,
	}
	if err := f.rewardService.ConfigureReward(ctx, reward); err != nil {
		log.Errorf("Error configuring reward for guild %d level %d: %v", guildID, level, err)
		common.RespondWithError(s, i, "Unable to save the reward. Please try again.")
		return
	}

	message := fmt.Sprintf("Wranglers reaching **level %d** will now earn the **%s** badge.", level, role.Name)
	if err := common.RespondWithSuccess(s, i, message, false); err != nil {
		log.Errorf("Error responding to levelrewards set: %v", err)
	}
}

func (f *Feature) handleRemove(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	var level int64
	for _, option := range options {
		if option.Name == "level" {
			level = option.IntValue()
		}
	}

	guildID, err := common.ParseUserID(i.GuildID)
	if err != nil {
		log.Errorf("Error parsing guild ID %s: %v", i.GuildID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	if err := f.rewardService.RemoveReward(ctx, guildID, level); err != nil {
		log.Errorf("Error removing reward for guild %d level %d: %v", guildID, level, err)
		common.RespondWithError(s, i, "Unable to remove the reward. Please try again.")
		return
	}

	message := fmt.Sprintf("Cleared the reward at **level %d**.", level)
	if err := common.RespondWithSuccess(s, i, message, false); err != nil {
		log.Errorf("Error responding to levelrewards remove: %v", err)
	}
}

func (f *Feature) handleList(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	guildID, err := common.ParseUserID(i.GuildID)
	if err != nil {
		log.Errorf("Error parsing guild ID %s: %v", i.GuildID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	rewardList, err := f.rewardService.ListRewards(ctx, guildID)
	if err != nil {
		log.Errorf("Error listing rewards for guild %d: %v", guildID, err)
		common.RespondWithError(s, i, "Unable to list rewards. Please try again.")
		return
	}

	if len(rewardList) == 0 {
		common.RespondWithError(s, i, "No level rewards configured yet. Use `/levelrewards set` to add one.")
		return
	}

	var lines []string
	for _, reward := range rewardList {
		lines = append(lines, fmt.Sprintf("Level **%d** → <@&%d>", reward.Level, reward.RoleID))
	}

	embed := &discordgo.MessageEmbed{
		Title:       "🎖️ Level Rewards",
		Description: strings.Join(lines, "\n"),
		Color:       0xC27C0E,
	}

	if err := common.RespondWithEmbed(s, i, embed, false); err != nil {
		log.Errorf("Error responding to levelrewards list: %v", err)
	}
}

// handleGrant is the administrative XP grant, which skips the cooldown
func (f *Feature) handleGrant(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	var targetUser *discordgo.User
	var amount int64
	for _, option := range options {
		switch option.Name {
		case "user":
			targetUser = option.UserValue(s)
		case "amount":
			amount = option.IntValue()
		}
	}

	if targetUser == nil {
		common.RespondWithError(s, i, "That user could not be found.")
		return
	}

	userID, err := common.ParseUserID(targetUser.ID)
	if err != nil {
		log.Errorf("Error parsing Discord ID %s: %v", targetUser.ID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	result, err := f.levelingService.GrantXP(ctx, userID, amount, true)
	if err != nil {
		if errors.Is(err, service.ErrInvalidAmount) {
			common.RespondWithError(s, i, "XP amount must be a positive number.")
			return
		}
		log.Errorf("Error granting XP to user %d: %v", userID, err)
		common.RespondWithError(s, i, "Unable to grant XP. Please try again.")
		return
	}

	message := fmt.Sprintf("Granted **%s XP** to <@%s>.", common.FormatXP(amount), targetUser.ID)
	if result.LeveledUp {
		message += fmt.Sprintf(" They're now **level %d**!", result.NewLevel)

		// Dispatch any level rewards the grant unlocked
		guildID, err := common.ParseUserID(i.GuildID)
		if err == nil {
			granted, err := f.rewardService.CheckAndGrantRewards(ctx, guildID, userID, memberRoleIDs(s, i.GuildID, targetUser.ID), result.NewLevel)
			if err != nil {
				log.Errorf("Error dispatching level rewards for user %d: %v", userID, err)
			} else if len(granted) > 0 {
				message += fmt.Sprintf(" New badge earned: **%s**", strings.Join(granted, "**, **"))
			}
		}
	}

	if err := common.RespondWithSuccess(s, i, message, false); err != nil {
		log.Errorf("Error responding to levelrewards grant: %v", err)
	}
}

// memberRoleIDs fetches the target member's current roles, so reward
// dispatch can skip roles they already hold
func memberRoleIDs(s *discordgo.Session, guildID, userID string) []int64 {
	member, err := s.GuildMember(guildID, userID)
	if err != nil || member == nil {
		return nil
	}

	var roleIDs []int64
	for _, roleID := range member.Roles {
		if id, err := common.ParseUserID(roleID); err == nil {
			roleIDs = append(roleIDs, id)
		}
	}
	return roleIDs
}
