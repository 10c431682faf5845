package discord

import (
	"log"

	"github.com/bwmarrin/discordgo"
)

func respondEphemeral(s *discordgo.Session, i *discordgo.Interaction, content string) {
	respond(s, i, content, discordgo.MessageFlagsEphemeral)
}

func respondPublic(s *discordgo.Session, i *discordgo.Interaction, content string) {
	respond(s, i, content, 0)
}

func respond(s *discordgo.Session, i *discordgo.Interaction, content string, flags discordgo.MessageFlags) {
	err := s.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   flags,
		},
	})
	if err != nil {
		log.Printf("⚠️ Réponse à l'interaction %s: %v", i.ID, err)
	}
}

// deferEphemeral acknowledges i so the handler can take longer than Discord's
// three second window; the answer is then sent with followUp.
func deferEphemeral(s *discordgo.Session, i *discordgo.Interaction) {
	err := s.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	})
	if err != nil {
		log.Printf("⚠️ Accusé de réception de l'interaction %s: %v", i.ID, err)
	}
}

func followUp(s *discordgo.Session, i *discordgo.Interaction, content string) {
	if _, err := s.InteractionResponseEdit(i, &discordgo.WebhookEdit{Content: &content}); err != nil {
		log.Printf("⚠️ Réponse différée à l'interaction %s: %v", i.ID, err)
	}
}
