package bot

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"sheriffrex/bot/common"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// handleMessageCreate accrues XP for ordinary chat messages. Flow per
// message: throttle gate → GrantXP → on level-up, dispatch role
// rewards and announce.
func (b *Bot) handleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	if m.GuildID == "" {
		// No XP for DMs
		return
	}

	userID, err := common.ParseUserID(m.Author.ID)
	if err != nil {
		log.Errorf("Error parsing Discord ID %s: %v", m.Author.ID, err)
		return
	}

	// Cheap pre-filter; the ledger's cooldown is still the authority
	if !b.throttle.Allow(userID) {
		return
	}

	ctx := context.Background()

	result, err := b.levelingService.GrantXP(ctx, userID, b.rollXPAmount(), false)
	if err != nil {
		// The grant failed before anything was written; the user just
		// doesn't earn XP for this message
		log.Errorf("Error granting XP to user %d: %v", userID, err)
		return
	}
	if !result.Granted || !result.LeveledUp {
		return
	}

	b.announceLevelUp(ctx, s, m, result.NewLevel)
}

// rollXPAmount picks a random grant size within the configured range
func (b *Bot) rollXPAmount() int64 {
	min, max := b.config.XPPerMessageMin, b.config.XPPerMessageMax
	if max <= min {
		return min
	}
	return min + rand.Int63n(max-min+1)
}

// announceLevelUp dispatches role rewards and posts the level-up
// message. A reward failure never suppresses the announcement.
func (b *Bot) announceLevelUp(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, newLevel int64) {
	guildID, err := common.ParseUserID(m.GuildID)
	if err != nil {
		log.Errorf("Error parsing guild ID %s: %v", m.GuildID, err)
		return
	}
	userID, _ := common.ParseUserID(m.Author.ID)

	var memberRoleIDs []int64
	if m.Member != nil {
		for _, roleID := range m.Member.Roles {
			if id, err := common.ParseUserID(roleID); err == nil {
				memberRoleIDs = append(memberRoleIDs, id)
			}
		}
	}

	granted, err := b.rewardService.CheckAndGrantRewards(ctx, guildID, userID, memberRoleIDs, newLevel)
	if err != nil {
		log.Errorf("Error dispatching level rewards for user %d: %v", userID, err)
	}

	message := fmt.Sprintf("🤠 Yeehaw, <@%s>! You've wrangled your way up to **level %d**!", m.Author.ID, newLevel)
	if len(granted) > 0 {
		message += fmt.Sprintf("\nNew badge earned: **%s**", strings.Join(granted, "**, **"))
	}

	if _, err := s.ChannelMessageSend(m.ChannelID, message); err != nil {
		log.Errorf("Error sending level-up message: %v", err)
	}
}
