package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/ojusave/murder-mystery-sub000/internal/domain"
	"github.com/ojusave/murder-mystery-sub000/internal/mailer"
	"github.com/ojusave/murder-mystery-sub000/internal/repository"
	"github.com/ojusave/murder-mystery-sub000/pkg/events"
	"github.com/ojusave/murder-mystery-sub000/pkg/logger"
)

type GuestService interface {
	Create(ctx context.Context, req *domain.GuestCreateReq) (*domain.Guest, error)
	GetByID(ctx context.Context, id int64) (*domain.Guest, error)
	GetByToken(ctx context.Context, token string) (*domain.Guest, error)
	List(ctx context.Context, status *domain.GuestStatus, limit, offset int) ([]domain.Guest, error)
	UpdateByToken(ctx context.Context, token string, patch domain.GuestPatch) (*domain.Guest, error)
	UpdateByID(ctx context.Context, id int64, patch domain.GuestPatch) (*domain.Guest, error)
	SetStatus(ctx context.Context, id int64, to domain.GuestStatus) (*domain.Guest, error)
	Cancel(ctx context.Context, token string) (*domain.Guest, error)
	Delete(ctx context.Context, id int64) error
	Timeline(ctx context.Context, token string) ([]domain.EmailEvent, error)
	ListEvents(ctx context.Context, guestID int64) ([]domain.EmailEvent, error)
	QueueBulkEmail(ctx context.Context, subject, message string) (int, error)
}

type guestService struct {
	guests   repository.GuestRepository
	eventLog repository.EmailEventRepository
	notifier *Notifier
	bus      events.Publisher
	validate *validator.Validate
}

func NewGuestService(
	guests repository.GuestRepository,
	eventLog repository.EmailEventRepository,
	notifier *Notifier,
	bus events.Publisher,
) GuestService {
	return &guestService{
		guests:   guests,
		eventLog: eventLog,
		notifier: notifier,
		bus:      bus,
		validate: validator.New(),
	}
}

func (s *guestService) Create(ctx context.Context, req *domain.GuestCreateReq) (*domain.Guest, error) {
	req.Normalize()
	if err := s.validate.Struct(req); err != nil {
		return nil, domain.Validationf("invalid rsvp: %v", err)
	}

	guest, err := s.guests.Create(ctx, req, uuid.NewString())
	if err != nil {
		// ErrDuplicateEmail passes through untouched; the caller is told to
		// use the update path.
		return nil, err
	}

	s.notifier.Notify(ctx, guest, domain.EmailRSVPReceived, mailer.TemplateData{})
	s.notifier.NotifyHost(ctx, guest, "New RSVP",
		fmt.Sprintf("%s <%s> just submitted an RSVP.", guest.Name, guest.Email))
	s.publishGuest(ctx, events.GuestCreated, guest)

	return guest, nil
}

func (s *guestService) GetByID(ctx context.Context, id int64) (*domain.Guest, error) {
	guest, err := s.guests.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get guest: %w", err)
	}
	if guest == nil {
		return nil, domain.ErrNotFound
	}
	return guest, nil
}

func (s *guestService) GetByToken(ctx context.Context, token string) (*domain.Guest, error) {
	guest, err := s.guests.GetByToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to get guest: %w", err)
	}
	if guest == nil {
		return nil, domain.ErrNotFound
	}
	return guest, nil
}

func (s *guestService) List(ctx context.Context, status *domain.GuestStatus, limit, offset int) ([]domain.Guest, error) {
	return s.guests.List(ctx, status, limit, offset)
}

func (s *guestService) UpdateByToken(ctx context.Context, token string, patch domain.GuestPatch) (*domain.Guest, error) {
	guest, err := s.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.applyPatch(ctx, guest, patch)
}

func (s *guestService) UpdateByID(ctx context.Context, id int64, patch domain.GuestPatch) (*domain.Guest, error) {
	guest, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.applyPatch(ctx, guest, patch)
}

func (s *guestService) applyPatch(ctx context.Context, guest *domain.Guest, patch domain.GuestPatch) (*domain.Guest, error) {
	if patch.IsEmpty() {
		return guest, nil
	}
	if err := s.validate.Struct(&patch); err != nil {
		return nil, domain.Validationf("invalid update: %v", err)
	}

	updated, err := s.guests.UpdatePatch(ctx, guest.ID, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to update guest: %w", err)
	}
	if updated == nil {
		return nil, domain.ErrNotFound
	}

	s.notifier.Notify(ctx, updated, domain.EmailRSVPUpdated, mailer.TemplateData{})
	s.publishGuest(ctx, events.GuestUpdated, updated)

	return updated, nil
}

// SetStatus applies the admin approval axis: pending -> approved|rejected.
func (s *guestService) SetStatus(ctx context.Context, id int64, to domain.GuestStatus) (*domain.Guest, error) {
	if to != domain.GuestApproved && to != domain.GuestRejected {
		return nil, domain.Validationf("status must be approved or rejected, got %q", to)
	}

	guest, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if guest.Status != domain.GuestPending {
		return nil, domain.Validationf("only pending guests can be %s (current status %s)", to, guest.Status)
	}

	ok, err := s.guests.UpdateStatus(ctx, id, domain.GuestPending, to)
	if err != nil {
		return nil, fmt.Errorf("failed to update status: %w", err)
	}
	if !ok {
		// Lost a race with another admin action.
		return nil, domain.Validationf("guest is no longer pending")
	}
	guest.Status = to

	switch to {
	case domain.GuestApproved:
		s.notifier.Notify(ctx, guest, domain.EmailApproved, mailer.TemplateData{})
		s.publishGuest(ctx, events.GuestApproved, guest)
	case domain.GuestRejected:
		s.notifier.Notify(ctx, guest, domain.EmailRejected, mailer.TemplateData{})
		s.publishGuest(ctx, events.GuestRejected, guest)
	}

	return guest, nil
}

// Cancel is the only transition a token-holding guest may invoke themselves.
func (s *guestService) Cancel(ctx context.Context, token string) (*domain.Guest, error) {
	guest, err := s.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	if guest.Status == domain.GuestCanceled {
		return nil, domain.ErrAlreadyCanceled
	}
	if !guest.CanCancel() {
		return nil, domain.Validationf("a %s registration cannot be canceled", guest.Status)
	}

	ok, err := s.guests.UpdateStatus(ctx, guest.ID, guest.Status, domain.GuestCanceled)
	if err != nil {
		return nil, fmt.Errorf("failed to cancel guest: %w", err)
	}
	if !ok {
		return nil, domain.ErrAlreadyCanceled
	}
	guest.Status = domain.GuestCanceled

	s.notifier.Notify(ctx, guest, domain.EmailCancellation, mailer.TemplateData{})
	s.notifier.NotifyHost(ctx, guest, "Guest canceled",
		fmt.Sprintf("%s <%s> canceled their RSVP.", guest.Name, guest.Email))
	s.publishGuest(ctx, events.GuestCanceled, guest)

	return guest, nil
}

// Delete removes the guest and, via cascade, their character and email
// events. The deletion email is sent first, best-effort: data removal is
// never gated on notification success.
func (s *guestService) Delete(ctx context.Context, id int64) error {
	guest, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	s.notifier.Notify(ctx, guest, domain.EmailRegistrationDeleted, mailer.TemplateData{})

	ok, err := s.guests.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete guest: %w", err)
	}
	if !ok {
		return domain.ErrNotFound
	}

	s.publishGuest(ctx, events.GuestDeleted, guest)
	return nil
}

func (s *guestService) Timeline(ctx context.Context, token string) ([]domain.EmailEvent, error) {
	guest, err := s.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.eventLog.ListByGuest(ctx, guest.ID)
}

func (s *guestService) ListEvents(ctx context.Context, guestID int64) ([]domain.EmailEvent, error) {
	if _, err := s.GetByID(ctx, guestID); err != nil {
		return nil, err
	}
	return s.eventLog.ListByGuest(ctx, guestID)
}

// QueueBulkEmail enqueues one bulk_email event per approved guest. The
// queued-email worker is the sole consumer of these rows.
func (s *guestService) QueueBulkEmail(ctx context.Context, subject, message string) (int, error) {
	if subject == "" || message == "" {
		return 0, domain.Validationf("subject and message are required")
	}

	guests, err := s.guests.ListApproved(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list approved guests: %w", err)
	}

	queued := 0
	for i := range guests {
		if err := s.notifier.Enqueue(ctx, guests[i].ID, domain.EmailBulk, subject, message); err != nil {
			logger.ErrorContext(ctx, "failed to enqueue bulk email", "guest_id", guests[i].ID, "error", err)
			continue
		}
		queued++
	}
	return queued, nil
}

func (s *guestService) publishGuest(ctx context.Context, subject string, guest *domain.Guest) {
	ev := events.GuestEvent{
		GuestID:    guest.ID,
		Email:      guest.Email,
		Name:       guest.Name,
		Status:     string(guest.Status),
		OccurredAt: time.Now(),
	}
	if err := s.bus.Publish(ctx, subject, ev); err != nil {
		logger.ErrorContext(ctx, "failed to publish guest event", "subject", subject, "guest_id", guest.ID, "error", err)
	}
}
