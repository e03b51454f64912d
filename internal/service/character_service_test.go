package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ojusave/murder-mystery-sub000/internal/domain"
	"github.com/ojusave/murder-mystery-sub000/pkg/events"
)

type characterFixture struct {
	guests     GuestService
	characters CharacterService
	guestRepo  *memGuestRepo
	log        *memEmailLog
	mail       *fakeMailer
}

func newCharacterFixture(t *testing.T) *characterFixture {
	t.Helper()
	guestRepo := newMemGuestRepo()
	characterRepo := newMemCharacterRepo()
	log := newMemEmailLog()
	mail := &fakeMailer{}
	notifier := testNotifier(mail, log)
	return &characterFixture{
		guests:     NewGuestService(guestRepo, log, notifier, events.NoopPublisher{}),
		characters: NewCharacterService(characterRepo, guestRepo, notifier, events.NoopPublisher{}),
		guestRepo:  guestRepo,
		log:        log,
		mail:       mail,
	}
}

func (f *characterFixture) approvedGuest(t *testing.T, email string) *domain.Guest {
	t.Helper()
	g, err := f.guests.Create(context.Background(), &domain.GuestCreateReq{Email: email, Name: "Guest"})
	require.NoError(t, err)
	g, err = f.guests.SetStatus(context.Background(), g.ID, domain.GuestApproved)
	require.NoError(t, err)
	return g
}

func TestCharacterAssignThenEdit(t *testing.T) {
	f := newCharacterFixture(t)
	guest := f.approvedGuest(t, "ada@example.com")

	character, err := f.characters.Create(context.Background(), &domain.CharacterCreateReq{
		DisplayName: "Colonel Ashworth",
		Backstory:   "A retired officer with a gambling debt.",
		HostNotes:   "the murderer",
	})
	require.NoError(t, err)

	assigned, err := f.characters.Assign(context.Background(), character.ID, guest.ID)
	require.NoError(t, err)
	require.NotNil(t, assigned.GuestID)
	assert.Equal(t, guest.ID, *assigned.GuestID)
	assert.NotNil(t, assigned.AssignedAt)
	assert.Equal(t, 1, f.log.countByType(domain.EmailCharacterAssigned, domain.EmailSent))

	// Editing the assigned character notifies once, as an update.
	name := "Colonel Blackwood"
	updated, err := f.characters.Update(context.Background(), character.ID, domain.CharacterPatch{DisplayName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Colonel Blackwood", updated.DisplayName)
	assert.Equal(t, 1, f.log.countByType(domain.EmailCharacterUpdated, domain.EmailSent))
	assert.Equal(t, 1, f.log.countByType(domain.EmailCharacterAssigned, domain.EmailSent))
}

func TestCharacterAssignGuestAlreadyHoldsOne(t *testing.T) {
	f := newCharacterFixture(t)
	guest := f.approvedGuest(t, "ada@example.com")

	first, err := f.characters.Create(context.Background(), &domain.CharacterCreateReq{DisplayName: "Butler"})
	require.NoError(t, err)
	second, err := f.characters.Create(context.Background(), &domain.CharacterCreateReq{DisplayName: "Maid"})
	require.NoError(t, err)

	_, err = f.characters.Assign(context.Background(), first.ID, guest.ID)
	require.NoError(t, err)

	_, err = f.characters.Assign(context.Background(), second.ID, guest.ID)
	assert.ErrorIs(t, err, domain.ErrCharacterTaken)
	assert.Equal(t, 1, f.log.countByType(domain.EmailCharacterAssigned, domain.EmailSent))
}

func TestCharacterAssignAlreadyAssignedCharacter(t *testing.T) {
	f := newCharacterFixture(t)
	ada := f.approvedGuest(t, "ada@example.com")
	eve := f.approvedGuest(t, "eve@example.com")

	character, err := f.characters.Create(context.Background(), &domain.CharacterCreateReq{DisplayName: "Butler"})
	require.NoError(t, err)

	_, err = f.characters.Assign(context.Background(), character.ID, ada.ID)
	require.NoError(t, err)

	_, err = f.characters.Assign(context.Background(), character.ID, eve.ID)
	assert.True(t, domain.IsValidation(err))
}

func TestCharacterCreateWithDirectAssignment(t *testing.T) {
	f := newCharacterFixture(t)
	guest := f.approvedGuest(t, "ada@example.com")

	character, err := f.characters.Create(context.Background(), &domain.CharacterCreateReq{
		DisplayName: "Vicar",
		GuestID:     &guest.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, character.GuestID)
	assert.Equal(t, guest.ID, *character.GuestID)
	assert.Equal(t, 1, f.log.countByType(domain.EmailCharacterAssigned, domain.EmailSent))
}

func TestCharacterUpdateUnassignedSendsNothing(t *testing.T) {
	f := newCharacterFixture(t)

	character, err := f.characters.Create(context.Background(), &domain.CharacterCreateReq{DisplayName: "Butler"})
	require.NoError(t, err)

	backstory := "Knows every secret passage."
	updated, err := f.characters.Update(context.Background(), character.ID, domain.CharacterPatch{Backstory: &backstory})
	require.NoError(t, err)
	assert.Equal(t, backstory, updated.Traits.Backstory)
	assert.Equal(t, 0, f.log.countByType(domain.EmailCharacterUpdated, domain.EmailSent))
}

func TestCharacterUnassign(t *testing.T) {
	f := newCharacterFixture(t)
	guest := f.approvedGuest(t, "ada@example.com")

	character, err := f.characters.Create(context.Background(), &domain.CharacterCreateReq{DisplayName: "Butler"})
	require.NoError(t, err)
	_, err = f.characters.Assign(context.Background(), character.ID, guest.ID)
	require.NoError(t, err)

	released, err := f.characters.Unassign(context.Background(), character.ID)
	require.NoError(t, err)
	assert.Nil(t, released.GuestID)
	assert.Nil(t, released.AssignedAt)
	assert.Equal(t, 1, f.log.countByType(domain.EmailCharacterRemoved, domain.EmailSent))

	_, err = f.characters.Unassign(context.Background(), character.ID)
	assert.True(t, domain.IsValidation(err))
}

func TestCharacterDeleteAssigned(t *testing.T) {
	f := newCharacterFixture(t)
	guest := f.approvedGuest(t, "ada@example.com")

	character, err := f.characters.Create(context.Background(), &domain.CharacterCreateReq{DisplayName: "Butler"})
	require.NoError(t, err)
	_, err = f.characters.Assign(context.Background(), character.ID, guest.ID)
	require.NoError(t, err)

	require.NoError(t, f.characters.Delete(context.Background(), character.ID))
	assert.Equal(t, 1, f.log.countByType(domain.EmailCharacterRemoved, domain.EmailSent))

	_, err = f.characters.GetByID(context.Background(), character.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCharacterDeleteUnassignedIsSilent(t *testing.T) {
	f := newCharacterFixture(t)

	character, err := f.characters.Create(context.Background(), &domain.CharacterCreateReq{DisplayName: "Butler"})
	require.NoError(t, err)

	require.NoError(t, f.characters.Delete(context.Background(), character.ID))
	assert.Equal(t, 0, f.log.countByType(domain.EmailCharacterRemoved, domain.EmailSent))
}

func TestCharacterListUnassigned(t *testing.T) {
	f := newCharacterFixture(t)
	guest := f.approvedGuest(t, "ada@example.com")

	butler, err := f.characters.Create(context.Background(), &domain.CharacterCreateReq{DisplayName: "Butler"})
	require.NoError(t, err)
	_, err = f.characters.Create(context.Background(), &domain.CharacterCreateReq{DisplayName: "Maid"})
	require.NoError(t, err)

	_, err = f.characters.Assign(context.Background(), butler.ID, guest.ID)
	require.NoError(t, err)

	free, err := f.characters.ListUnassigned(context.Background())
	require.NoError(t, err)
	require.Len(t, free, 1)
	assert.Equal(t, "Maid", free[0].DisplayName)
}
