package mailer

import (
	"fmt"
	"time"

	"github.com/ojusave/murder-mystery-sub000/internal/domain"
)

// EventInfo is the slice of configuration the templates interpolate.
type EventInfo struct {
	Name         string
	Instant      time.Time
	VenueAddress string
	BaseURL      string
}

func (e EventInfo) when() string {
	return e.Instant.Format("Monday, January 2 2006 at 3:04 PM MST")
}

func (e EventInfo) portalLink(token string) string {
	return fmt.Sprintf("%s/rsvp/%s", e.BaseURL, token)
}

// Message is a rendered email body.
type Message struct {
	Subject string
	Text    string
	HTML    string
}

// TemplateData carries the fields a template may substitute. Character is
// required only for the character_* types; Subject/Message override the
// rendered content for bulk email.
type TemplateData struct {
	Guest     *domain.Guest
	Character *domain.Character
	Subject   string
	Message   string
}

// Render builds the message for a template type by format substitution only.
// Unknown types and missing required data are validation errors.
func Render(typ domain.EmailType, ev EventInfo, data TemplateData) (Message, error) {
	if data.Guest == nil {
		return Message{}, domain.Validationf("template %s requires a guest", typ)
	}
	g := data.Guest

	switch typ {
	case domain.EmailRSVPReceived:
		link := ev.portalLink(g.AccessToken)
		return Message{
			Subject: fmt.Sprintf("We got your RSVP for %s", ev.Name),
			Text: fmt.Sprintf("Hi %s,\n\nThanks for your RSVP to %s. The host is reviewing the guest list and you'll hear back soon.\n\nManage your RSVP: %s\n", g.Name, ev.Name, link),
			HTML: fmt.Sprintf(`<p>Hi %s,</p><p>Thanks for your RSVP to <b>%s</b>. The host is reviewing the guest list and you'll hear back soon.</p><p><a href="%s">Manage your RSVP</a></p>`, g.Name, ev.Name, link),
		}, nil

	case domain.EmailRSVPUpdated:
		link := ev.portalLink(g.AccessToken)
		return Message{
			Subject: fmt.Sprintf("Your RSVP for %s was updated", ev.Name),
			Text: fmt.Sprintf("Hi %s,\n\nYour RSVP details were updated. If this wasn't you, reply to this email.\n\nReview them here: %s\n", g.Name, link),
			HTML: fmt.Sprintf(`<p>Hi %s,</p><p>Your RSVP details were updated. If this wasn't you, reply to this email.</p><p><a href="%s">Review your RSVP</a></p>`, g.Name, link),
		}, nil

	case domain.EmailApproved:
		link := ev.portalLink(g.AccessToken)
		return Message{
			Subject: fmt.Sprintf("You're in! %s", ev.Name),
			Text: fmt.Sprintf("Hi %s,\n\nYou're confirmed for %s on %s at %s.\n\nYour guest page: %s\n", g.Name, ev.Name, ev.when(), ev.VenueAddress, link),
			HTML: fmt.Sprintf(`<p>Hi %s,</p><p>You're confirmed for <b>%s</b> on %s at %s.</p><p><a href="%s">Your guest page</a></p>`, g.Name, ev.Name, ev.when(), ev.VenueAddress, link),
		}, nil

	case domain.EmailRejected:
		return Message{
			Subject: fmt.Sprintf("About your RSVP for %s", ev.Name),
			Text: fmt.Sprintf("Hi %s,\n\nUnfortunately the guest list for %s is full and we can't fit you in this time. We hope to see you at the next one.\n", g.Name, ev.Name),
			HTML: fmt.Sprintf(`<p>Hi %s,</p><p>Unfortunately the guest list for <b>%s</b> is full and we can't fit you in this time. We hope to see you at the next one.</p>`, g.Name, ev.Name),
		}, nil

	case domain.EmailCharacterAssigned:
		if data.Character == nil {
			return Message{}, domain.Validationf("template %s requires a character", typ)
		}
		c := data.Character
		link := ev.portalLink(g.AccessToken)
		return Message{
			Subject: fmt.Sprintf("Your character for %s: %s", ev.Name, c.DisplayName),
			Text: fmt.Sprintf("Hi %s,\n\nYou will be playing %s.\n\nBackstory:\n%s\n\nFull details: %s\n", g.Name, c.DisplayName, c.Traits.Backstory, link),
			HTML: fmt.Sprintf(`<p>Hi %s,</p><p>You will be playing <b>%s</b>.</p><p>Backstory:<br>%s</p><p><a href="%s">Full details</a></p>`, g.Name, c.DisplayName, c.Traits.Backstory, link),
		}, nil

	case domain.EmailCharacterUpdated:
		if data.Character == nil {
			return Message{}, domain.Validationf("template %s requires a character", typ)
		}
		c := data.Character
		link := ev.portalLink(g.AccessToken)
		return Message{
			Subject: fmt.Sprintf("Your character for %s changed", ev.Name),
			Text: fmt.Sprintf("Hi %s,\n\nThe host updated your character %s. Check the latest details before the party: %s\n", g.Name, c.DisplayName, link),
			HTML: fmt.Sprintf(`<p>Hi %s,</p><p>The host updated your character <b>%s</b>. Check the latest details before the party.</p><p><a href="%s">Your guest page</a></p>`, g.Name, c.DisplayName, link),
		}, nil

	case domain.EmailCharacterRemoved:
		if data.Character == nil {
			return Message{}, domain.Validationf("template %s requires a character", typ)
		}
		c := data.Character
		return Message{
			Subject: fmt.Sprintf("Your character for %s was withdrawn", ev.Name),
			Text: fmt.Sprintf("Hi %s,\n\nThe host withdrew your character %s. A new character will be assigned before the party.\n", g.Name, c.DisplayName),
			HTML: fmt.Sprintf(`<p>Hi %s,</p><p>The host withdrew your character <b>%s</b>. A new character will be assigned before the party.</p>`, g.Name, c.DisplayName),
		}, nil

	case domain.EmailCancellation:
		return Message{
			Subject: fmt.Sprintf("Your cancellation for %s", ev.Name),
			Text: fmt.Sprintf("Hi %s,\n\nYour RSVP for %s is canceled. Sorry you can't make it.\n", g.Name, ev.Name),
			HTML: fmt.Sprintf(`<p>Hi %s,</p><p>Your RSVP for <b>%s</b> is canceled. Sorry you can't make it.</p>`, g.Name, ev.Name),
		}, nil

	case domain.EmailRegistrationDeleted:
		return Message{
			Subject: fmt.Sprintf("Your registration for %s was removed", ev.Name),
			Text: fmt.Sprintf("Hi %s,\n\nYour registration for %s and all associated data were removed by the host.\n", g.Name, ev.Name),
			HTML: fmt.Sprintf(`<p>Hi %s,</p><p>Your registration for <b>%s</b> and all associated data were removed by the host.</p>`, g.Name, ev.Name),
		}, nil

	case domain.EmailHostNotification:
		return Message{
			Subject: fmt.Sprintf("[%s] %s", ev.Name, data.Subject),
			Text:    data.Message,
			HTML:    fmt.Sprintf("<p>%s</p>", data.Message),
		}, nil

	case domain.EmailBulk:
		return Message{
			Subject: data.Subject,
			Text:    fmt.Sprintf("Hi %s,\n\n%s\n", g.Name, data.Message),
			HTML:    fmt.Sprintf("<p>Hi %s,</p><p>%s</p>", g.Name, data.Message),
		}, nil

	case domain.EmailReminderOneWeek:
		return reminderMessage(ev, g, "one week"), nil
	case domain.EmailReminderTwoDay:
		return reminderMessage(ev, g, "two days"), nil
	case domain.EmailReminderOneDay:
		return reminderMessage(ev, g, "one day"), nil
	case domain.EmailReminderFiveHour:
		return reminderMessage(ev, g, "five hours"), nil
	}

	return Message{}, domain.Validationf("unknown email template %q", typ)
}

func reminderMessage(ev EventInfo, g *domain.Guest, distance string) Message {
	link := ev.portalLink(g.AccessToken)
	return Message{
		Subject: fmt.Sprintf("%s is %s away", ev.Name, distance),
		Text: fmt.Sprintf("Hi %s,\n\n%s is %s away: %s at %s.\n\nYour guest page: %s\n", g.Name, ev.Name, distance, ev.when(), ev.VenueAddress, link),
		HTML: fmt.Sprintf(`<p>Hi %s,</p><p><b>%s</b> is %s away: %s at %s.</p><p><a href="%s">Your guest page</a></p>`, g.Name, ev.Name, distance, ev.when(), ev.VenueAddress, link),
	}
}
