package worker

import (
	"context"
	"time"

	"github.com/ojusave/murder-mystery-sub000/internal/domain"
	"github.com/ojusave/murder-mystery-sub000/internal/repository"
	"github.com/ojusave/murder-mystery-sub000/internal/service"
	"github.com/ojusave/murder-mystery-sub000/pkg/logger"
)

// EmailWorker drains queued email events on a fixed interval. Each event is
// delivered via the notifier and finalized in place with a conditional
// update, so an event is transitioned out of queued at most once.
type EmailWorker struct {
	eventLog  repository.EmailEventRepository
	guests    repository.GuestRepository
	notifier  *service.Notifier
	interval  time.Duration
	batchSize int
}

func New(eventLog repository.EmailEventRepository, guests repository.GuestRepository, notifier *service.Notifier, interval time.Duration, batchSize int) *EmailWorker {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if batchSize <= 0 {
		batchSize = 10
	}
	return &EmailWorker{
		eventLog:  eventLog,
		guests:    guests,
		notifier:  notifier,
		interval:  interval,
		batchSize: batchSize,
	}
}

// Run loops until the context is canceled.
func (w *EmailWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logger.Info("email worker started", "interval", w.interval.String(), "batch_size", w.batchSize)

	for {
		select {
		case <-ctx.Done():
			logger.Info("email worker stopped")
			return ctx.Err()
		case <-ticker.C:
			w.Tick(ctx)
		}
	}
}

// Tick processes one batch. One event's failure never blocks the rest.
func (w *EmailWorker) Tick(ctx context.Context) (processed int) {
	batch, err := w.eventLog.ListQueued(ctx, w.batchSize)
	if err != nil {
		logger.ErrorContext(ctx, "failed to list queued emails", "error", err)
		return 0
	}

	for i := range batch {
		ev := batch[i]
		w.process(ctx, &ev)
		processed++
	}
	return processed
}

func (w *EmailWorker) process(ctx context.Context, ev *domain.EmailEvent) {
	guest, err := w.guests.GetByID(ctx, ev.GuestID)
	if err != nil {
		logger.ErrorContext(ctx, "queued email: guest lookup failed", "event_id", ev.ID, "error", err)
		return
	}
	if guest == nil {
		// Guest deleted between enqueue and drain. The cascade normally
		// removes the row too; if it survived, close it out.
		w.finalize(ctx, ev.ID, domain.EmailFailed, "guest no longer exists")
		return
	}

	if err := w.notifier.Deliver(ctx, guest, ev); err != nil {
		w.finalize(ctx, ev.ID, domain.EmailFailed, err.Error())
		return
	}
	w.finalize(ctx, ev.ID, domain.EmailSent, "")
}

func (w *EmailWorker) finalize(ctx context.Context, id int64, status domain.EmailStatus, errText string) {
	ok, err := w.eventLog.MarkResult(ctx, id, status, errText)
	if err != nil {
		logger.ErrorContext(ctx, "failed to finalize email event", "event_id", id, "status", status, "error", err)
		return
	}
	if !ok {
		logger.WarnContext(ctx, "email event already finalized", "event_id", id)
	}
}
