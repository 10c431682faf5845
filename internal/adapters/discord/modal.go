package discord

import (
	"context"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"

	"calbot/internal/domain/entities"
	pkgdiscord "calbot/pkg/discord"
)

const (
	addEventModalID = "add_event_modal"

	fieldTitle       = "title"
	fieldDescription = "description"
	fieldDate        = "date"
	fieldStart       = "start"
	fieldEnd         = "end"

	placeholderDate  = "Ex: 14/07/2026"
	placeholderClock = "Ex: 18:30"
)

func (h *Handler) openAddEventModal(s *discordgo.Session, i *discordgo.InteractionCreate) {
	row := func(id, labelKey string, style discordgo.TextInputStyle, required bool, placeholder string) discordgo.ActionsRow {
		return discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.TextInput{
				CustomID:    id,
				Label:       h.translate(labelKey, nil),
				Style:       style,
				Required:    required,
				Placeholder: placeholder,
			},
		}}
	}
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: addEventModalID,
			Title:    h.translate("addevent.modal.title", nil),
			Components: []discordgo.MessageComponent{
				row(fieldTitle, "addevent.field.title", discordgo.TextInputShort, true, ""),
				row(fieldDescription, "addevent.field.description", discordgo.TextInputParagraph, false, ""),
				row(fieldDate, "addevent.field.date", discordgo.TextInputShort, true, placeholderDate),
				row(fieldStart, "addevent.field.start", discordgo.TextInputShort, true, placeholderClock),
				row(fieldEnd, "addevent.field.end", discordgo.TextInputShort, false, placeholderClock),
			},
		},
	})
	if err != nil {
		log.Printf("⚠️ Ouverture du formulaire /%s: %v", cmdAddEvent, err)
	}
}

func (h *Handler) handleAddEventModalSubmit(s *discordgo.Session, i *discordgo.InteractionCreate, data discordgo.ModalSubmitInteractionData) {
	if !isAdmin(i.Member) {
		respondEphemeral(s, i.Interaction, h.translate("errors.not_admin", nil))
		return
	}
	in, err := h.modalEventInput(pkgdiscord.ExtractModalValues(data))
	if err != nil {
		respondEphemeral(s, i.Interaction, pkgdiscord.DomainErrorMessage(h.translator, h.locale, err))
		return
	}

	ev, err := h.events.Create(context.Background(), in)
	switch {
	case err != nil:
		log.Printf("❌ Création de l'événement %q: %v", in.Title, err)
		respondEphemeral(s, i.Interaction, pkgdiscord.DomainErrorMessage(h.translator, h.locale, err))
	case ev == nil:
		respondEphemeral(s, i.Interaction, h.translate("events.duplicate", map[string]any{"Title": in.Title}))
	default:
		log.Printf("✅ Événement %s créé par %s", ev.ID, interactionUserID(i))
		respondPublic(s, i.Interaction, h.translate("events.created", map[string]any{"Title": ev.Title, "ID": ev.ID}))
	}
}

// modalEventInput turns the modal fields into a custom event payload.
func (h *Handler) modalEventInput(values map[string]string) (entities.EventInput, error) {
	start, end, err := pkgdiscord.EventSpan(values[fieldDate], values[fieldStart], values[fieldEnd], h.loc)
	if err != nil {
		return entities.EventInput{}, err
	}
	custom := true
	in := entities.EventInput{
		Title:     strings.TrimSpace(values[fieldTitle]),
		StartTime: pkgdiscord.FormatInputTime(start),
		EndTime:   pkgdiscord.FormatInputTime(end),
		Custom:    &custom,
	}
	if desc := strings.TrimSpace(values[fieldDescription]); desc != "" {
		in.Description = &desc
	}
	return in, nil
}
