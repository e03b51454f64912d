package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/ojusave/murder-mystery-sub000/internal/service"
	"github.com/ojusave/murder-mystery-sub000/pkg/logger"
)

// Scheduler runs the reminder pass on a cron spec. The spec must fire at
// least hourly or the exact-equality reminder windows can be skipped; the
// HTTP trigger endpoint remains available as an external backstop.
type Scheduler struct {
	reminders *service.ReminderService
	cron      *cron.Cron
	spec      string
	now       func() time.Time
}

func New(reminders *service.ReminderService, spec string) *Scheduler {
	if spec == "" {
		spec = "@hourly"
	}
	return &Scheduler{
		reminders: reminders,
		cron:      cron.New(cron.WithLogger(cron.DiscardLogger)),
		spec:      spec,
		now:       time.Now,
	}
}

func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, func() {
		ctx := context.Background()
		if _, err := s.reminders.Run(ctx, s.now()); err != nil {
			logger.Warn("scheduled reminder run had failures", "error", err)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	logger.Info("reminder scheduler started", "spec", s.spec)
	return nil
}

// Stop halts the scheduler, waiting for a running job to complete.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}
