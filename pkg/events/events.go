package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/ojusave/murder-mystery-sub000/pkg/logger"
)

// Publisher announces guest-lifecycle changes to interested listeners.
// Publishing is strictly best-effort: callers log failures and move on.
type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
	Close() error
}

type NATSEventBus struct {
	conn *nats.Conn
}

func NewNATSEventBus(url string) (*NATSEventBus, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NATSEventBus{conn: conn}, nil
}

func (n *NATSEventBus) Publish(ctx context.Context, subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	logger.DebugContext(ctx, "Publishing event", "subject", subject, "data", string(payload))

	return n.conn.Publish(subject, payload)
}

func (n *NATSEventBus) Close() error {
	n.conn.Close()
	return nil
}

// NoopPublisher is used when no NATS URL is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, interface{}) error { return nil }
func (NoopPublisher) Close() error                                       { return nil }

// Event subjects
const (
	GuestCreated  = "guest.created"
	GuestUpdated  = "guest.updated"
	GuestApproved = "guest.approved"
	GuestRejected = "guest.rejected"
	GuestCanceled = "guest.canceled"
	GuestDeleted  = "guest.deleted"

	CharacterAssigned = "character.assigned"
	CharacterUpdated  = "character.updated"
	CharacterRemoved  = "character.removed"

	ReminderSent = "reminder.sent"
)

// Event payloads
type GuestEvent struct {
	GuestID    int64     `json:"guest_id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

type CharacterEvent struct {
	CharacterID int64     `json:"character_id"`
	GuestID     int64     `json:"guest_id"`
	DisplayName string    `json:"display_name"`
	OccurredAt  time.Time `json:"occurred_at"`
}

type ReminderEvent struct {
	GuestID    int64     `json:"guest_id"`
	Kind       string    `json:"kind"`
	OccurredAt time.Time `json:"occurred_at"`
}
