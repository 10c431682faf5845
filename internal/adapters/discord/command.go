package discord

import (
	"context"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"

	"calbot/internal/domain"
	"calbot/internal/domain/entities"
	pkgdiscord "calbot/pkg/discord"
	"calbot/pkg/tz"
)

const (
	cmdEvents      = "events"
	cmdAddEvent    = "addevent"
	cmdDeleteEvent = "deleteevent"
	cmdImport      = "import"
	cmdClearEvents = "clearevents"
	cmdBroadcast   = "broadcast"

	defaultListLimit = 10
	maxListLimit     = 25
)

// adminPermissions are the permissions accepted for mutating commands.
const adminPermissions int64 = discordgo.PermissionAdministrator | discordgo.PermissionManageEvents

// Commands returns the slash commands registered at startup.
func Commands() []*discordgo.ApplicationCommand {
	minLimit := 1.0
	admin := adminPermissions
	return []*discordgo.ApplicationCommand{
		{
			Name:        cmdEvents,
			Description: "Lister les prochains événements",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionInteger, Name: "limite", Description: "Nombre maximum d'événements", MinValue: &minLimit, MaxValue: maxListLimit},
			},
		},
		{Name: cmdAddEvent, Description: "Ajouter un événement", DefaultMemberPermissions: &admin},
		{
			Name:                     cmdDeleteEvent,
			Description:              "Supprimer un événement",
			DefaultMemberPermissions: &admin,
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionString, Name: "id", Description: "Identifiant de l'événement", Required: true},
			},
		},
		{
			Name:                     cmdImport,
			Description:              "Importer un calendrier ICS",
			DefaultMemberPermissions: &admin,
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionString, Name: "url", Description: "Adresse du calendrier (https ou webcal)", Required: true},
			},
		},
		{Name: cmdClearEvents, Description: "Supprimer tous les événements", DefaultMemberPermissions: &admin},
		{
			Name:        cmdBroadcast,
			Description: "Diffusion des rappels",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "action",
					Description: "check lance une vérification, status affiche l'état",
					Required:    true,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "check", Value: "check"},
						{Name: "status", Value: "status"},
					},
				},
			},
		},
	}
}

// HandleCommand routes a slash command to its handler.
func (h *Handler) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	opts := optionMap(data.Options)

	if requiresAdmin(data.Name, opts) && !isAdmin(i.Member) {
		respondEphemeral(s, i.Interaction, h.translate("errors.not_admin", nil))
		return
	}

	switch data.Name {
	case cmdEvents:
		h.handleEvents(s, i, opts)
	case cmdAddEvent:
		h.openAddEventModal(s, i)
	case cmdDeleteEvent:
		h.handleDeleteEvent(s, i, opts)
	case cmdImport:
		h.handleImport(s, i, opts)
	case cmdClearEvents:
		h.handleClearEvents(s, i)
	case cmdBroadcast:
		h.handleBroadcast(s, i, opts)
	}
}

func (h *Handler) handleEvents(s *discordgo.Session, i *discordgo.InteractionCreate, opts map[string]*discordgo.ApplicationCommandInteractionDataOption) {
	limit := defaultListLimit
	if o, ok := opts["limite"]; ok {
		limit = int(o.IntValue())
	}
	events := h.events.Upcoming(context.Background(), h.now(), limit)
	embed := pkgdiscord.BuildEventListEmbed(h.translator, h.locale, events, h.loc)
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Embeds: []*discordgo.MessageEmbed{embed}},
	})
	if err != nil {
		log.Printf("⚠️ Réponse /%s: %v", cmdEvents, err)
	}
}

func (h *Handler) handleDeleteEvent(s *discordgo.Session, i *discordgo.InteractionCreate, opts map[string]*discordgo.ApplicationCommandInteractionDataOption) {
	id := strings.TrimSpace(stringOption(opts, "id"))
	deleted, err := h.events.Delete(context.Background(), id)
	switch {
	case err != nil:
		log.Printf("❌ Suppression de l'événement %s: %v", id, err)
		respondEphemeral(s, i.Interaction, pkgdiscord.DomainErrorMessage(h.translator, h.locale, err))
	case !deleted:
		respondEphemeral(s, i.Interaction, h.translate("events.not_found", nil))
	default:
		log.Printf("✅ Événement %s supprimé par %s", id, interactionUserID(i))
		respondEphemeral(s, i.Interaction, h.translate("events.deleted", nil))
	}
}

func (h *Handler) handleImport(s *discordgo.Session, i *discordgo.InteractionCreate, opts map[string]*discordgo.ApplicationCommandInteractionDataOption) {
	url := stringOption(opts, "url")
	deferEphemeral(s, i.Interaction)

	res, err := h.importer.Import(context.Background(), url)
	if err != nil {
		log.Printf("❌ Import de %s: %v", url, err)
		msg := h.translate("errors.import_failed", nil)
		if domain.Code(err) != "" {
			msg = pkgdiscord.DomainErrorMessage(h.translator, h.locale, err)
		}
		followUp(s, i.Interaction, msg)
		return
	}
	followUp(s, i.Interaction, h.translate("import.summary", map[string]any{
		"Created": res.Created,
		"Updated": res.Updated,
		"Errors":  res.Errors,
	}))
}

func (h *Handler) handleClearEvents(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if err := h.events.Clear(context.Background()); err != nil {
		log.Printf("❌ Suppression de tous les événements: %v", err)
		respondEphemeral(s, i.Interaction, pkgdiscord.DomainErrorMessage(h.translator, h.locale, err))
		return
	}
	log.Printf("🧹 Événements supprimés par %s", interactionUserID(i))
	respondEphemeral(s, i.Interaction, h.translate("events.cleared", nil))
}

func (h *Handler) handleBroadcast(s *discordgo.Session, i *discordgo.InteractionCreate, opts map[string]*discordgo.ApplicationCommandInteractionDataOption) {
	if stringOption(opts, "action") == "check" {
		deferEphemeral(s, i.Interaction)
		sent := h.broadcast.CheckNow(context.Background())
		followUp(s, i.Interaction, h.translate("broadcast.check.result", map[string]any{"Sent": sent}))
		return
	}
	respondEphemeral(s, i.Interaction, h.statusText(h.broadcast.Status()))
}

func (h *Handler) statusText(st entities.BroadcastStatus) string {
	nextRun := h.translate("broadcast.status.never", nil)
	if st.Running && !st.NextRun.IsZero() {
		nextRun = tz.Format(st.NextRun, h.loc)
	}
	destinations := h.translate("broadcast.status.never", nil)
	if len(st.Config.TargetDestinations) > 0 {
		mentions := make([]string, len(st.Config.TargetDestinations))
		for k, d := range st.Config.TargetDestinations {
			mentions[k] = "<#" + d + ">"
		}
		destinations = strings.Join(mentions, ", ")
	}
	return h.translate("broadcast.status", map[string]any{
		"Enabled":      st.Config.Enabled,
		"Interval":     st.Config.CheckInterval,
		"LeadTime":     st.Config.LeadTime,
		"Destinations": destinations,
		"NextRun":      nextRun,
		"MetadataSize": st.MetadataSize,
	})
}

// requiresAdmin reports whether the command mutates state. /broadcast status
// and /events are open to everyone.
func requiresAdmin(name string, opts map[string]*discordgo.ApplicationCommandInteractionDataOption) bool {
	switch name {
	case cmdEvents:
		return false
	case cmdBroadcast:
		return stringOption(opts, "action") == "check"
	default:
		return true
	}
}

func isAdmin(member *discordgo.Member) bool {
	return member != nil && member.Permissions&adminPermissions != 0
}

func interactionUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

func optionMap(options []*discordgo.ApplicationCommandInteractionDataOption) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(options))
	for _, o := range options {
		m[o.Name] = o
	}
	return m
}

func stringOption(opts map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	if o, ok := opts[name]; ok {
		return o.StringValue()
	}
	return ""
}
