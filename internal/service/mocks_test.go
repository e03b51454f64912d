package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ojusave/murder-mystery-sub000/internal/domain"
	"github.com/ojusave/murder-mystery-sub000/internal/mailer"
)

// memGuestRepo is an in-memory GuestRepository for service tests.
type memGuestRepo struct {
	mu     sync.Mutex
	guests map[int64]*domain.Guest
	nextID int64

	createErr error
}

func newMemGuestRepo() *memGuestRepo {
	return &memGuestRepo{guests: make(map[int64]*domain.Guest)}
}

func (r *memGuestRepo) add(g domain.Guest) *domain.Guest {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	g.ID = r.nextID
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now()
	}
	g.UpdatedAt = g.CreatedAt
	r.guests[g.ID] = &g
	return &g
}

func (r *memGuestRepo) Create(_ context.Context, in *domain.GuestCreateReq, token string) (*domain.Guest, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.mu.Lock()
	for _, g := range r.guests {
		if g.Email == in.Email {
			r.mu.Unlock()
			return nil, domain.ErrDuplicateEmail
		}
	}
	r.mu.Unlock()

	return r.add(domain.Guest{
		AccessToken:         token,
		Status:              domain.GuestPending,
		Email:               in.Email,
		Name:                in.Name,
		Interest:            in.Interest,
		DressUp:             in.DressUp,
		GenderPreference:    in.GenderPreference,
		CharacterPreference: in.CharacterPreference,
		Talents:             in.Talents,
		BringItems:          in.BringItems,
	}), nil
}

func (r *memGuestRepo) GetByID(_ context.Context, id int64) (*domain.Guest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.guests[id]
	if !ok {
		return nil, nil
	}
	cp := *g
	return &cp, nil
}

func (r *memGuestRepo) GetByToken(_ context.Context, token string) (*domain.Guest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, g := range r.guests {
		if g.AccessToken == token {
			cp := *g
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memGuestRepo) List(_ context.Context, status *domain.GuestStatus, _, _ int) ([]domain.Guest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Guest
	for _, g := range r.guests {
		if status != nil && g.Status != *status {
			continue
		}
		out = append(out, *g)
	}
	return out, nil
}

func (r *memGuestRepo) ListApproved(ctx context.Context) ([]domain.Guest, error) {
	approved := domain.GuestApproved
	return r.List(ctx, &approved, 0, 0)
}

func (r *memGuestRepo) UpdatePatch(_ context.Context, id int64, patch domain.GuestPatch) (*domain.Guest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.guests[id]
	if !ok {
		return nil, nil
	}
	if patch.Name != nil {
		g.Name = *patch.Name
	}
	if patch.Interest != nil {
		g.Interest = *patch.Interest
	}
	if patch.DressUp != nil {
		g.DressUp = *patch.DressUp
	}
	if patch.GenderPreference != nil {
		g.GenderPreference = *patch.GenderPreference
	}
	if patch.CharacterPreference != nil {
		g.CharacterPreference = *patch.CharacterPreference
	}
	if patch.Talents != nil {
		g.Talents = *patch.Talents
	}
	if patch.BringItems != nil {
		g.BringItems = *patch.BringItems
	}
	g.UpdatedAt = time.Now()
	cp := *g
	return &cp, nil
}

func (r *memGuestRepo) UpdateStatus(_ context.Context, id int64, from, to domain.GuestStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.guests[id]
	if !ok || g.Status != from {
		return false, nil
	}
	g.Status = to
	return true, nil
}

func (r *memGuestRepo) MarkReminderSent(_ context.Context, id int64, kind domain.ReminderKind) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.guests[id]
	if !ok {
		return false, nil
	}
	switch kind {
	case domain.ReminderOneWeek:
		if g.ReminderOneWeekSent {
			return false, nil
		}
		g.ReminderOneWeekSent = true
	case domain.ReminderTwoDay:
		if g.ReminderTwoDaySent {
			return false, nil
		}
		g.ReminderTwoDaySent = true
	case domain.ReminderOneDay:
		if g.ReminderOneDaySent {
			return false, nil
		}
		g.ReminderOneDaySent = true
	case domain.ReminderFiveHour:
		if g.ReminderFiveHourSent {
			return false, nil
		}
		g.ReminderFiveHourSent = true
	default:
		return false, errors.New("unknown reminder kind")
	}
	return true, nil
}

func (r *memGuestRepo) Delete(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.guests[id]; !ok {
		return false, nil
	}
	delete(r.guests, id)
	return true, nil
}

// memCharacterRepo is an in-memory CharacterRepository.
type memCharacterRepo struct {
	mu         sync.Mutex
	characters map[int64]*domain.Character
	nextID     int64
}

func newMemCharacterRepo() *memCharacterRepo {
	return &memCharacterRepo{characters: make(map[int64]*domain.Character)}
}

func (r *memCharacterRepo) Create(_ context.Context, in *domain.CharacterCreateReq) (*domain.Character, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if in.GuestID != nil {
		for _, c := range r.characters {
			if c.GuestID != nil && *c.GuestID == *in.GuestID {
				return nil, domain.ErrCharacterTaken
			}
		}
	}
	r.nextID++
	c := &domain.Character{
		ID:          r.nextID,
		GuestID:     in.GuestID,
		DisplayName: in.DisplayName,
		Traits:      domain.Traits{Backstory: in.Backstory, Extra: in.Extra},
		HostNotes:   in.HostNotes,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if in.GuestID != nil {
		now := time.Now()
		c.AssignedAt = &now
	}
	r.characters[c.ID] = c
	cp := *c
	return &cp, nil
}

func (r *memCharacterRepo) GetByID(_ context.Context, id int64) (*domain.Character, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.characters[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *memCharacterRepo) GetByGuest(_ context.Context, guestID int64) (*domain.Character, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.characters {
		if c.GuestID != nil && *c.GuestID == guestID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memCharacterRepo) List(_ context.Context) ([]domain.Character, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Character
	for _, c := range r.characters {
		out = append(out, *c)
	}
	return out, nil
}

func (r *memCharacterRepo) ListUnassigned(_ context.Context) ([]domain.Character, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Character
	for _, c := range r.characters {
		if c.GuestID == nil {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *memCharacterRepo) UpdatePatch(_ context.Context, id int64, patch domain.CharacterPatch, traits domain.Traits) (*domain.Character, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.characters[id]
	if !ok {
		return nil, nil
	}
	if patch.DisplayName != nil {
		c.DisplayName = *patch.DisplayName
	}
	if patch.HostNotes != nil {
		c.HostNotes = *patch.HostNotes
	}
	c.Traits = traits
	c.UpdatedAt = time.Now()
	cp := *c
	return &cp, nil
}

func (r *memCharacterRepo) Assign(_ context.Context, id, guestID int64, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.characters[id]
	if !ok || c.GuestID != nil {
		return false, nil
	}
	c.GuestID = &guestID
	c.AssignedAt = &at
	return true, nil
}

func (r *memCharacterRepo) Unassign(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.characters[id]
	if !ok || c.GuestID == nil {
		return false, nil
	}
	c.GuestID = nil
	c.AssignedAt = nil
	return true, nil
}

func (r *memCharacterRepo) Delete(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.characters[id]; !ok {
		return false, nil
	}
	delete(r.characters, id)
	return true, nil
}

// memEmailLog is an in-memory EmailEventRepository.
type memEmailLog struct {
	mu     sync.Mutex
	events []domain.EmailEvent
	nextID int64
}

func newMemEmailLog() *memEmailLog { return &memEmailLog{} }

func (r *memEmailLog) Record(_ context.Context, guestID int64, typ domain.EmailType, status domain.EmailStatus, subject, message, errText string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	r.events = append(r.events, domain.EmailEvent{
		ID:        r.nextID,
		GuestID:   guestID,
		Type:      typ,
		Status:    status,
		Subject:   subject,
		Message:   message,
		Error:     errText,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	})
	return r.nextID, nil
}

func (r *memEmailLog) ListByGuest(_ context.Context, guestID int64) ([]domain.EmailEvent, error) {
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

func (r *memEmailLog) ListQueued(_ context.Context, limit int) ([]domain.EmailEvent, error) {
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

func (r *memEmailLog) MarkResult(_ context.Context, id int64, status domain.EmailStatus, errText string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.events {
		if r.events[i].ID == id && r.events[i].Status == domain.EmailQueued {
			r.events[i].Status = status
			r.events[i].Error = errText
			r.events[i].UpdatedAt = time.Now()
			return true, nil
		}
	}
	return false, nil
}

// countByType tallies audit rows for assertions.
func (r *memEmailLog) countByType(typ domain.EmailType, status domain.EmailStatus) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Type == typ && e.Status == status {
			n++
		}
	}
	return n
}

// fakeMailer captures sends; set err to simulate provider failure.
type fakeMailer struct {
	mu    sync.Mutex
	sends []fakeSend
	err   error
}

type fakeSend struct {
	To      string
	Subject string
	Text    string
}

func (m *fakeMailer) Send(toEmail, _, subject, text, _ string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	m.sends = append(m.sends, fakeSend{To: toEmail, Subject: subject, Text: text})
	return "msg-id", nil
}

func (m *fakeMailer) sentTo(email string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, s := range m.sends {
		if s.To == email {
			n++
		}
	}
	return n
}

var _ mailer.Service = (*fakeMailer)(nil)

func testNotifier(mail mailer.Service, log *memEmailLog) *Notifier {
	info := mailer.EventInfo{
		Name:         "The Blackwood Affair",
		Instant:      time.Date(2025, 11, 1, 20, 0, 0, 0, time.UTC),
		VenueAddress: "13 Ravenwood Lane",
		BaseURL:      "http://localhost:8080",
	}
	return NewNotifier(mail, log, info, "host@example.com")
}
