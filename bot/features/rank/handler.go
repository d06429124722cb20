package rank

import (
	"context"
	"fmt"

	"sheriffrex/bot/common"
	"sheriffrex/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func (f *Feature) handleRank(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	// Default to the caller, unless a user option was given
	targetUser := i.Member.User
	for _, option := range i.ApplicationCommandData().Options {
		if option.Name == "user" {
			targetUser = option.UserValue(s)
		}
	}

	userID, err := common.ParseUserID(targetUser.ID)
	if err != nil {
		log.Errorf("Error parsing Discord ID %s: %v", targetUser.ID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	record, err := f.levelingService.GetUser(ctx, userID)
	if err != nil {
		log.Errorf("Error getting xp record for user %d: %v", userID, err)
		common.RespondWithError(s, i, "Unable to retrieve rank. Please try again.")
		return
	}

	threshold := service.XPForLevel(record.Level)
	displayName := common.GetDisplayName(s, i.GuildID, targetUser.ID)

	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("🤠 %s's Trail Record", displayName),
		Color: 0xC27C0E,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Level",
				Value:  fmt.Sprintf("**%d**", record.Level),
				Inline: true,
			},
			{
				Name:   "XP",
				Value:  fmt.Sprintf("%s / %s", common.FormatXP(record.XP), common.FormatXP(threshold)),
				Inline: true,
			},
			{
				Name:  "Progress to next level",
				Value: common.FormatProgressBar(record.XP, threshold, 12),
			},
		},
	}

	if !record.LastGrantAt.IsZero() {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Last XP earned",
			Value: common.FormatDiscordTimestamp(record.LastGrantAt, "R"),
		})
	}

	if err := common.RespondWithEmbed(s, i, embed, false); err != nil {
		log.Errorf("Error responding to rank command: %v", err)
	}
}
