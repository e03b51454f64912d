package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ojusave/murder-mystery-sub000/internal/domain"
	"github.com/ojusave/murder-mystery-sub000/internal/mailer"
	"github.com/ojusave/murder-mystery-sub000/internal/service"
)

type stubGuestRepo struct {
	guests map[int64]*domain.Guest
}

func (r *stubGuestRepo) GetByID(_ context.Context, id int64) (*domain.Guest, error) {
	g, ok := r.guests[id]
	if !ok {
		return nil, nil
	}
	cp := *g
	return &cp, nil
}

func (r *stubGuestRepo) Create(context.Context, *domain.GuestCreateReq, string) (*domain.Guest, error) {
	return nil, errors.New("not implemented")
}
func (r *stubGuestRepo) GetByToken(context.Context, string) (*domain.Guest, error) {
	return nil, errors.New("not implemented")
}
func (r *stubGuestRepo) List(context.Context, *domain.GuestStatus, int, int) ([]domain.Guest, error) {
	return nil, errors.New("not implemented")
}
func (r *stubGuestRepo) ListApproved(context.Context) ([]domain.Guest, error) {
	return nil, errors.New("not implemented")
}
func (r *stubGuestRepo) UpdatePatch(context.Context, int64, domain.GuestPatch) (*domain.Guest, error) {
	return nil, errors.New("not implemented")
}
func (r *stubGuestRepo) UpdateStatus(context.Context, int64, domain.GuestStatus, domain.GuestStatus) (bool, error) {
	return false, errors.New("not implemented")
}
func (r *stubGuestRepo) MarkReminderSent(context.Context, int64, domain.ReminderKind) (bool, error) {
	return false, errors.New("not implemented")
}
func (r *stubGuestRepo) Delete(context.Context, int64) (bool, error) {
	return false, errors.New("not implemented")
}

type stubEmailLog struct {
	mu     sync.Mutex
	events []domain.EmailEvent
	nextID int64
}

func (r *stubEmailLog) enqueue(guestID int64, subject, message string) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	r.events = append(r.events, domain.EmailEvent{
		ID:      r.nextID,
		GuestID: guestID,
		Type:    domain.EmailBulk,
		Status:  domain.EmailQueued,
		Subject: subject,
		Message: message,
	})
	return r.nextID
}

func (r *stubEmailLog) get(id int64) domain.EmailEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e.ID == id {
			return e
		}
	}
	return domain.EmailEvent{}
}

func (r *stubEmailLog) Record(_ context.Context, guestID int64, typ domain.EmailType, status domain.EmailStatus, subject, message, errText string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	r.events = append(r.events, domain.EmailEvent{
		ID: r.nextID, GuestID: guestID, Type: typ, Status: status,
		Subject: subject, Message: message, Error: errText,
	})
	return r.nextID, nil
}

func (r *stubEmailLog) ListByGuest(_ context.Context, guestID int64) ([]domain.EmailEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.EmailEvent
	for _, e := range r.events {
		if e.GuestID == guestID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *stubEmailLog) ListQueued(_ context.Context, limit int) ([]domain.EmailEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.EmailEvent
	for _, e := range r.events {
		if e.Status == domain.EmailQueued {
			out = append(out, e)
			if limit > 0 && len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (r *stubEmailLog) MarkResult(_ context.Context, id int64, status domain.EmailStatus, errText string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.events {
		if r.events[i].ID == id && r.events[i].Status == domain.EmailQueued {
			r.events[i].Status = status
			r.events[i].Error = errText
			return true, nil
		}
	}
	return false, nil
}

type stubMailer struct {
	mu    sync.Mutex
	sends int
	err   error
}

func (m *stubMailer) Send(string, string, string, string, string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	m.sends++
	return "msg-id", nil
}

func newWorkerFixture(batchSize int) (*EmailWorker, *stubEmailLog, *stubGuestRepo, *stubMailer) {
	log := &stubEmailLog{}
	guests := &stubGuestRepo{guests: map[int64]*domain.Guest{
		1: {ID: 1, Status: domain.GuestApproved, Email: "ada@example.com", Name: "Ada", AccessToken: "tok"},
	}}
	mail := &stubMailer{}
	notifier := service.NewNotifier(mail, log, mailer.EventInfo{
		Name:    "The Blackwood Affair",
		Instant: time.Date(2025, 11, 1, 20, 0, 0, 0, time.UTC),
		BaseURL: "http://localhost:8080",
	}, "host@example.com")
	return New(log, guests, notifier, time.Second, batchSize), log, guests, mail
}

func TestWorkerDeliversQueued(t *testing.T) {
	w, log, _, mail := newWorkerFixture(10)
	id := log.enqueue(1, "Costume notes", "Bring a mask.")

	processed := w.Tick(context.Background())
	assert.Equal(t, 1, processed)
	assert.Equal(t, 1, mail.sends)
	assert.Equal(t, domain.EmailSent, log.get(id).Status)

	// The event left queued status; a second tick finds nothing.
	assert.Equal(t, 0, w.Tick(context.Background()))
	assert.Equal(t, 1, mail.sends)
}

func TestWorkerMarksFailed(t *testing.T) {
	w, log, _, mail := newWorkerFixture(10)
	id := log.enqueue(1, "Costume notes", "Bring a mask.")
	mail.err = errors.New("provider down")

	w.Tick(context.Background())

	ev := log.get(id)
	assert.Equal(t, domain.EmailFailed, ev.Status)
	assert.NotEmpty(t, ev.Error)

	// Failed events are not retried.
	mail.err = nil
	assert.Equal(t, 0, w.Tick(context.Background()))
	assert.Equal(t, 0, mail.sends)
}

func TestWorkerFailsEventForMissingGuest(t *testing.T) {
	w, log, _, _ := newWorkerFixture(10)
	id := log.enqueue(42, "Costume notes", "Bring a mask.")

	w.Tick(context.Background())

	ev := log.get(id)
	assert.Equal(t, domain.EmailFailed, ev.Status)
	assert.Contains(t, ev.Error, "guest no longer exists")
}

func TestWorkerHonorsBatchSize(t *testing.T) {
	w, log, _, mail := newWorkerFixture(2)
	for i := 0; i < 5; i++ {
		log.enqueue(1, "Costume notes", "Bring a mask.")
	}

	assert.Equal(t, 2, w.Tick(context.Background()))
	assert.Equal(t, 2, w.Tick(context.Background()))
	assert.Equal(t, 1, w.Tick(context.Background()))
	assert.Equal(t, 5, mail.sends)
}

func TestWorkerRunStopsOnCancel(t *testing.T) {
	w, _, _, _ := newWorkerFixture(10)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop after cancel")
	}
}
