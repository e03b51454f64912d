package service

import (
	"context"

	"github.com/ojusave/murder-mystery-sub000/internal/domain"
	"github.com/ojusave/murder-mystery-sub000/internal/mailer"
	"github.com/ojusave/murder-mystery-sub000/internal/repository"
	"github.com/ojusave/murder-mystery-sub000/pkg/logger"
)

// Notifier is the single funnel for outbound guest email: it renders a
// template, performs the provider call, and records the attempt in the email
// event log. Delivery failures are logged and recorded, never propagated as
// fatal — the caller's primary mutation has already committed.
type Notifier struct {
	mail      mailer.Service
	eventLog  repository.EmailEventRepository
	info      mailer.EventInfo
	hostEmail string
}

func NewNotifier(mail mailer.Service, eventLog repository.EmailEventRepository, info mailer.EventInfo, hostEmail string) *Notifier {
	return &Notifier{
		mail:      mail,
		eventLog:  eventLog,
		info:      info,
		hostEmail: hostEmail,
	}
}

// Notify sends one guest-facing email and records the outcome. The returned
// error reports delivery failure for callers that aggregate results (the
// reminder scheduler); lifecycle callers ignore it.
func (n *Notifier) Notify(ctx context.Context, guest *domain.Guest, typ domain.EmailType, data mailer.TemplateData) error {
	data.Guest = guest
	msg, err := mailer.Render(typ, n.info, data)
	if err != nil {
		logger.ErrorContext(ctx, "email template render failed", "type", typ, "guest_id", guest.ID, "error", err)
		n.record(ctx, guest.ID, typ, domain.EmailFailed, "", "", err.Error())
		return err
	}

	return n.deliver(ctx, guest.ID, typ, guest.Email, guest.Name, msg)
}

// NotifyHost alerts the host about a guest action (cancellations, new RSVPs).
// The audit row is keyed to the guest the alert concerns.
func (n *Notifier) NotifyHost(ctx context.Context, guest *domain.Guest, subject, message string) error {
	msg, err := mailer.Render(domain.EmailHostNotification, n.info, mailer.TemplateData{
		Guest:   guest,
		Subject: subject,
		Message: message,
	})
	if err != nil {
		logger.ErrorContext(ctx, "host notification render failed", "guest_id", guest.ID, "error", err)
		return err
	}

	return n.deliver(ctx, guest.ID, domain.EmailHostNotification, n.hostEmail, "", msg)
}

// Enqueue writes a queued event for the worker to deliver later. Used only
// by the bulk-email path.
func (n *Notifier) Enqueue(ctx context.Context, guestID int64, typ domain.EmailType, subject, message string) error {
	_, err := n.eventLog.Record(ctx, guestID, typ, domain.EmailQueued, subject, message, "")
	return err
}

// Deliver sends a previously queued event's content. The worker owns the
// status transition; this only performs the provider call.
func (n *Notifier) Deliver(ctx context.Context, guest *domain.Guest, ev *domain.EmailEvent) error {
	msg, err := mailer.Render(ev.Type, n.info, mailer.TemplateData{
		Guest:   guest,
		Subject: ev.Subject,
		Message: ev.Message,
	})
	if err != nil {
		return err
	}

	if _, err := n.mail.Send(guest.Email, guest.Name, msg.Subject, msg.Text, msg.HTML); err != nil {
		return err
	}
	return nil
}

func (n *Notifier) deliver(ctx context.Context, guestID int64, typ domain.EmailType, toEmail, toName string, msg mailer.Message) error {
	if _, err := n.mail.Send(toEmail, toName, msg.Subject, msg.Text, msg.HTML); err != nil {
		logger.ErrorContext(ctx, "email delivery failed", "type", typ, "guest_id", guestID, "error", err)
		n.record(ctx, guestID, typ, domain.EmailFailed, msg.Subject, msg.Text, err.Error())
		return err
	}

	n.record(ctx, guestID, typ, domain.EmailSent, msg.Subject, msg.Text, "")
	return nil
}

// record appends to the audit log; a failure here must never surface to the
// primary operation.
func (n *Notifier) record(ctx context.Context, guestID int64, typ domain.EmailType, status domain.EmailStatus, subject, message, errText string) {
	if _, err := n.eventLog.Record(ctx, guestID, typ, status, subject, message, errText); err != nil {
		logger.ErrorContext(ctx, "failed to record email event", "type", typ, "guest_id", guestID, "error", err)
	}
}
