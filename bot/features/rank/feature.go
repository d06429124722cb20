package rank

import (
	"sheriffrex/service"

	"github.com/bwmarrin/discordgo"
)

type Feature struct {
	levelingService service.LevelingService
}

func New(levelingService service.LevelingService) *Feature {
	return &Feature{
		levelingService: levelingService,
	}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleRank(s, i)
}
