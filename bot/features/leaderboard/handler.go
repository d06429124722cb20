package leaderboard

import (
	"context"
	"fmt"
	"strings"

	"sheriffrex/bot/common"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const defaultLimit = 10
const maxLimit = 25

func (f *Feature) handleLeaderboard(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	limit := defaultLimit
	for _, option := range i.ApplicationCommandData().Options {
		if option.Name == "limit" {
			limit = int(option.IntValue())
		}
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	// Resolving display names does a member lookup per entry, which can
	// outlast the interaction response window
	if err := common.DeferResponse(s, i, false); err != nil {
		log.Errorf("Error deferring leaderboard response: %v", err)
		return
	}

	entries, err := f.levelingService.Leaderboard(ctx, limit)
	if err != nil {
		log.Errorf("Error getting leaderboard: %v", err)
		common.FollowUpWithError(s, i, "Unable to retrieve the leaderboard. Please try again.")
		return
	}

	if len(entries) == 0 {
		common.FollowUpWithError(s, i, "Nobody has earned any XP yet. Get to talkin', partner!")
		return
	}

	var lines []string
	for _, entry := range entries {
		medal := fmt.Sprintf("`#%d`", entry.Rank)
		switch entry.Rank {
		case 1:
			medal = "🥇"
		case 2:
			medal = "🥈"
		case 3:
			medal = "🥉"
		}
		name := common.GetDisplayNameInt64(s, i.GuildID, entry.UserID)
		lines = append(lines, fmt.Sprintf("%s **%s** — level %d (%s XP)",
			medal, name, entry.Level, common.FormatXP(entry.XP)))
	}

	embed := &discordgo.MessageEmbed{
		Title:       "🏜️ Top Wranglers",
		Description: strings.Join(lines, "\n"),
		Color:       0xC27C0E,
	}

	if err := common.UpdateMessage(s, i, embed); err != nil {
		log.Errorf("Error responding to leaderboard command: %v", err)
	}
}
