package bot

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"sheriffrex/bot/common"
	"sheriffrex/bot/features/leaderboard"
	"sheriffrex/bot/features/rank"
	"sheriffrex/bot/features/rewards"
	"sheriffrex/events"
	"sheriffrex/service"

	"github.com/bwmarrin/discordgo"
)

// Config holds bot configuration
type Config struct {
	Token   string
	GuildID string

	// XP accrual settings for the message handler
	XPPerMessageMin int64
	XPPerMessageMax int64
	XPCooldown      time.Duration

	// Showcase role held by the member atop the leaderboard
	TopWranglerRoleID  string
	TopWranglerEnabled bool
}

type Bot struct {
	config          Config
	session         *discordgo.Session
	levelingService service.LevelingService
	rewardService   service.RewardService
	eventBus        *events.Bus
	throttle        *xpThrottle

	rankFeature        *rank.Feature
	leaderboardFeature *leaderboard.Feature
	rewardsFeature     *rewards.Feature
}

// New creates the Discord bot. The reward service is assembled here
// rather than in cmd because its role-grant collaborator is the
// session itself.
func New(config Config, levelingService service.LevelingService, uowFactory service.UnitOfWorkFactory, eventBus *events.Bus) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsAll

	rewardService := service.NewRewardService(uowFactory, newSessionRoleManager(dg))

	bot := &Bot{
		config:          config,
		session:         dg,
		levelingService: levelingService,
		rewardService:   rewardService,
		eventBus:        eventBus,
		throttle:        newXPThrottle(config.XPCooldown),
	}
	bot.rankFeature = rank.New(levelingService)
	bot.leaderboardFeature = leaderboard.New(levelingService)
	bot.rewardsFeature = rewards.New(rewardService, levelingService)

	// Register slash command and message handlers
	dg.AddHandler(bot.handleCommands)
	dg.AddHandler(bot.handleMessageCreate)

	// Open websocket connection
	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	// Register slash commands with Discord
	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	// Keep the throttle map from growing unboundedly
	go bot.startThrottlePruning()

	// Subscribe to level-up events for top wrangler role updates
	if bot.config.TopWranglerEnabled {
		eventBus.Subscribe(events.EventTypeLevelUp, func(ctx context.Context, event events.Event) {
			if _, ok := event.(events.LevelUpEvent); ok {
				if err := bot.updateTopWranglerRole(ctx); err != nil {
					log.Errorf("Failed to update top wrangler role: %v", err)
				}
			}
		})
		log.Info("Top wrangler role management enabled")

		// Perform initial sync of the top wrangler role
		go func() {
			// Wait a moment for the Discord connection to settle
			time.Sleep(2 * time.Second)
			ctx := context.Background()
			if err := bot.updateTopWranglerRole(ctx); err != nil {
				log.Errorf("Failed to sync top wrangler role on startup: %v", err)
			} else {
				log.Info("Top wrangler role synced on startup")
			}
		}()
	}

	return bot, nil
}

func (b *Bot) Close() error {
	return b.session.Close()
}

// startThrottlePruning periodically drops idle throttle entries
func (b *Bot) startThrottlePruning() {
	ticker := time.NewTicker(30 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		b.throttle.Prune()
	}
}

// updateTopWranglerRole moves the showcase role onto the member
// currently atop the leaderboard
func (b *Bot) updateTopWranglerRole(ctx context.Context) error {
	if !b.config.TopWranglerEnabled || b.config.TopWranglerRoleID == "" {
		return nil // Feature disabled
	}

	entries, err := b.levelingService.Leaderboard(ctx, 1)
	if err != nil {
		return fmt.Errorf("failed to get leaderboard: %w", err)
	}
	if len(entries) == 0 {
		// Nobody has earned XP yet
		return nil
	}
	topUserID := common.FormatUserID(entries[0].UserID)

	members, err := b.session.GuildMembers(b.config.GuildID, "", 1000)
	if err != nil {
		return fmt.Errorf("failed to get guild members: %w", err)
	}

	// Find who currently has the role
	var currentHolders []string
	for _, member := range members {
		for _, roleID := range member.Roles {
			if roleID == b.config.TopWranglerRoleID {
				currentHolders = append(currentHolders, member.User.ID)
				break
			}
		}
	}

	// Remove the role from anyone who shouldn't have it
	hasRole := false
	for _, holderID := range currentHolders {
		if holderID == topUserID {
			hasRole = true
			continue
		}
		if err := b.session.GuildMemberRoleRemove(b.config.GuildID, holderID, b.config.TopWranglerRoleID); err != nil {
			log.Errorf("Failed to remove top wrangler role from user %s: %v", holderID, err)
		} else {
			log.Infof("Removed top wrangler role from user %s", holderID)
		}
	}

	if !hasRole {
		if err := b.session.GuildMemberRoleAdd(b.config.GuildID, topUserID, b.config.TopWranglerRoleID); err != nil {
			log.Errorf("Failed to add top wrangler role to user %s: %v", topUserID, err)
		} else {
			log.Infof("Added top wrangler role to user %s (level %d)", topUserID, entries[0].Level)
		}
	}

	return nil
}
