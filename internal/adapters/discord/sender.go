package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"calbot/internal/ports/output"
)

// Discord rejects messages above 2000 characters.
const maxMessageLen = 2000

var _ output.MessageSender = (*ChannelSender)(nil)

// ChannelSender posts plain text messages to Discord channels. A destination
// is a channel id.
type ChannelSender struct {
	session *discordgo.Session
}

func NewChannelSender(session *discordgo.Session) *ChannelSender {
	return &ChannelSender{session: session}
}

func (c *ChannelSender) Send(ctx context.Context, destination, body string) error {
	if _, err := c.session.ChannelMessageSend(destination, truncate(body, maxMessageLen), discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("discord: send to %s: %w", destination, err)
	}
	return nil
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
