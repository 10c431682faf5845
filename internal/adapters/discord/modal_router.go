package discord

import (
	"github.com/bwmarrin/discordgo"
)

// HandleModalSubmit route les différents modals en fonction de leur CustomID.
func (h *Handler) HandleModalSubmit(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ModalSubmitData()
	switch data.CustomID {
	case addEventModalID:
		h.handleAddEventModalSubmit(s, i, data)
	default:
		// Modal inconnu : on ignore silencieusement pour rester robuste.
	}
}
