package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/ojusave/murder-mystery-sub000/internal/domain"
	"github.com/ojusave/murder-mystery-sub000/internal/mailer"
	"github.com/ojusave/murder-mystery-sub000/internal/repository"
	"github.com/ojusave/murder-mystery-sub000/pkg/events"
	"github.com/ojusave/murder-mystery-sub000/pkg/logger"
)

// ReminderService fires at most one of four pre-event reminders per guest per
// window. The per-guest flag is flipped with a conditional update before the
// send, so concurrent runs cannot double-send; a delivery failure after the
// flip is recorded as a failed event rather than retried.
//
// The external trigger (cron or HTTP) must fire at least hourly, otherwise
// the exact-equality windows below can be skipped.
type ReminderService struct {
	guests   repository.GuestRepository
	notifier *Notifier
	bus      events.Publisher
	eventAt  time.Time
}

func NewReminderService(guests repository.GuestRepository, notifier *Notifier, bus events.Publisher, eventAt time.Time) *ReminderService {
	return &ReminderService{
		guests:   guests,
		notifier: notifier,
		bus:      bus,
		eventAt:  eventAt,
	}
}

// ReminderResult summarizes one scheduler invocation.
type ReminderResult struct {
	Checked int `json:"checked"`
	Sent    int `json:"sent"`
	Failed  int `json:"failed"`
}

// Run evaluates every approved guest against the four reminder windows.
// One guest's failure never aborts the loop; errors are aggregated and
// returned alongside the counts.
func (s *ReminderService) Run(ctx context.Context, now time.Time) (ReminderResult, error) {
	var result ReminderResult

	daysUntil := int(s.eventAt.Sub(now).Hours() / 24)
	hoursUntil := int(s.eventAt.Sub(now).Hours())

	var due []domain.ReminderKind
	if daysUntil == 7 {
		due = append(due, domain.ReminderOneWeek)
	}
	if daysUntil == 2 {
		due = append(due, domain.ReminderTwoDay)
	}
	if daysUntil == 1 {
		due = append(due, domain.ReminderOneDay)
	}
	if hoursUntil == 5 {
		due = append(due, domain.ReminderFiveHour)
	}
	if len(due) == 0 {
		return result, nil
	}

	guests, err := s.guests.ListApproved(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to list approved guests: %w", err)
	}
	result.Checked = len(guests)

	var errs error
	for i := range guests {
		guest := guests[i]
		for _, kind := range due {
			if kind.FlagSet(&guest) {
				continue
			}

			// Claim the window first; losing the claim means another
			// invocation already owns this reminder.
			claimed, err := s.guests.MarkReminderSent(ctx, guest.ID, kind)
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("guest %d %s: %w", guest.ID, kind, err))
				continue
			}
			if !claimed {
				continue
			}

			if err := s.notifier.Notify(ctx, &guest, kind.EmailType(), mailer.TemplateData{}); err != nil {
				result.Failed++
				errs = multierr.Append(errs, fmt.Errorf("guest %d %s: %w", guest.ID, kind, err))
				continue
			}
			result.Sent++

			if err := s.bus.Publish(ctx, events.ReminderSent, events.ReminderEvent{
				GuestID:    guest.ID,
				Kind:       string(kind),
				OccurredAt: time.Now(),
			}); err != nil {
				logger.ErrorContext(ctx, "failed to publish reminder event", "guest_id", guest.ID, "kind", kind, "error", err)
			}
		}
	}

	logger.InfoContext(ctx, "reminder run finished",
		"due_windows", len(due),
		"checked", result.Checked,
		"sent", result.Sent,
		"failed", result.Failed,
	)
	return result, errs
}
