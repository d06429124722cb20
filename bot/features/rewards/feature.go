package rewards

import (
	"sheriffrex/service"

	"github.com/bwmarrin/discordgo"
)

type Feature struct {
	rewardService   service.RewardService
	levelingService service.LevelingService
}

func New(rewardService service.RewardService, levelingService service.LevelingService) *Feature {
	return &Feature{
		rewardService:   rewardService,
		levelingService: levelingService,
	}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		return
	}

	switch options[0].Name {
	case "set":
		f.handleSet(s, i, options[0].Options)
	case "remove":
		f.handleRemove(s, i, options[0].Options)
	case "list":
		f.handleList(s, i)
	case "grant":
		f.handleGrant(s, i, options[0].Options)
	}
}
