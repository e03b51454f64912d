package domain

import "time"

type EmailType string

const (
	EmailRSVPReceived        EmailType = "rsvp_received"
	EmailRSVPUpdated         EmailType = "rsvp_updated"
	EmailApproved            EmailType = "approved"
	EmailRejected            EmailType = "rejected"
	EmailCharacterAssigned   EmailType = "character_assigned"
	EmailCharacterUpdated    EmailType = "character_updated"
	EmailCharacterRemoved    EmailType = "character_removed"
	EmailCancellation        EmailType = "cancellation"
	EmailRegistrationDeleted EmailType = "registration_deleted"
	EmailBulk                EmailType = "bulk_email"
	EmailReminderOneWeek     EmailType = "reminder_one_week"
	EmailReminderTwoDay      EmailType = "reminder_two_day"
	EmailReminderOneDay      EmailType = "reminder_one_day"
	EmailReminderFiveHour    EmailType = "reminder_five_hour"
	EmailHostNotification    EmailType = "host_notification"
)

func ParseEmailType(s string) (EmailType, bool) {
	switch EmailType(s) {
	case EmailRSVPReceived, EmailRSVPUpdated, EmailApproved, EmailRejected,
		EmailCharacterAssigned, EmailCharacterUpdated, EmailCharacterRemoved,
		EmailCancellation, EmailRegistrationDeleted, EmailBulk,
		EmailReminderOneWeek, EmailReminderTwoDay, EmailReminderOneDay,
		EmailReminderFiveHour, EmailHostNotification:
		return EmailType(s), true
	default:
		return "", false
	}
}

type EmailStatus string

const (
	EmailQueued EmailStatus = "queued"
	EmailSent   EmailStatus = "sent"
	EmailFailed EmailStatus = "failed"
)

// EmailEvent is one row of the notification audit log. Rows are append-only;
// the only permitted mutation is the queued -> sent/failed transition.
type EmailEvent struct {
	ID        int64       `json:"id"`
	GuestID   int64       `json:"guest_id"`
	Type      EmailType   `json:"type"`
	Status    EmailStatus `json:"status"`
	Subject   string      `json:"subject,omitempty"`
	Message   string      `json:"message,omitempty"`
	Error     string      `json:"error,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}
