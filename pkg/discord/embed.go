package discord

import (
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"calbot/internal/domain/entities"
	"calbot/internal/ports/output"
	"calbot/pkg/tz"
)

const (
	embedColor = 0x5865F2

	// Discord rejects embed descriptions above 4096 characters.
	maxDescriptionLen = 4000
)

// BuildEventListEmbed lists events, one line each, in the given locale.
// Lines that would overflow the embed are dropped.
func BuildEventListEmbed(tr output.T, locale string, events []entities.Event, loc *time.Location) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: tr.T(locale, "events.list.header", nil),
		Color: embedColor,
	}
	if len(events) == 0 {
		embed.Description = tr.T(locale, "events.list.empty", nil)
		return embed
	}

	var b strings.Builder
	for _, ev := range events {
		line := tr.T(locale, "events.list.item", map[string]any{
			"Title": ev.Title,
			"Start": tz.Format(ev.StartTime, loc),
			"End":   tz.Format(ev.EndTime, loc),
			"ID":    ev.ID,
		})
		if b.Len()+len(line)+1 > maxDescriptionLen {
			break
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
	}
	embed.Description = b.String()
	return embed
}
