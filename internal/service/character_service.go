package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/ojusave/murder-mystery-sub000/internal/domain"
	"github.com/ojusave/murder-mystery-sub000/internal/mailer"
	"github.com/ojusave/murder-mystery-sub000/internal/repository"
	"github.com/ojusave/murder-mystery-sub000/pkg/events"
	"github.com/ojusave/murder-mystery-sub000/pkg/logger"
)

type CharacterService interface {
	Create(ctx context.Context, req *domain.CharacterCreateReq) (*domain.Character, error)
	GetByID(ctx context.Context, id int64) (*domain.Character, error)
	GetByGuest(ctx context.Context, guestID int64) (*domain.Character, error)
	List(ctx context.Context) ([]domain.Character, error)
	ListUnassigned(ctx context.Context) ([]domain.Character, error)
	Assign(ctx context.Context, characterID, guestID int64) (*domain.Character, error)
	Update(ctx context.Context, id int64, patch domain.CharacterPatch) (*domain.Character, error)
	Unassign(ctx context.Context, id int64) (*domain.Character, error)
	Delete(ctx context.Context, id int64) error
}

type characterService struct {
	characters repository.CharacterRepository
	guests     repository.GuestRepository
	notifier   *Notifier
	bus        events.Publisher
	validate   *validator.Validate
}

func NewCharacterService(
	characters repository.CharacterRepository,
	guests repository.GuestRepository,
	notifier *Notifier,
	bus events.Publisher,
) CharacterService {
	return &characterService{
		characters: characters,
		guests:     guests,
		notifier:   notifier,
		bus:        bus,
		validate:   validator.New(),
	}
}

func (s *characterService) Create(ctx context.Context, req *domain.CharacterCreateReq) (*domain.Character, error) {
	req.Normalize()
	if err := s.validate.Struct(req); err != nil {
		return nil, domain.Validationf("invalid character: %v", err)
	}

	var guest *domain.Guest
	if req.GuestID != nil {
		var err error
		guest, err = s.guests.GetByID(ctx, *req.GuestID)
		if err != nil {
			return nil, fmt.Errorf("failed to get guest: %w", err)
		}
		if guest == nil {
			return nil, domain.ErrNotFound
		}
	}

	character, err := s.characters.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	if guest != nil {
		s.notifier.Notify(ctx, guest, domain.EmailCharacterAssigned, mailer.TemplateData{Character: character})
		s.publishCharacter(ctx, events.CharacterAssigned, character)
	}

	return character, nil
}

func (s *characterService) GetByID(ctx context.Context, id int64) (*domain.Character, error) {
	character, err := s.characters.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get character: %w", err)
	}
	if character == nil {
		return nil, domain.ErrNotFound
	}
	return character, nil
}

func (s *characterService) GetByGuest(ctx context.Context, guestID int64) (*domain.Character, error) {
	character, err := s.characters.GetByGuest(ctx, guestID)
	if err != nil {
		return nil, fmt.Errorf("failed to get character: %w", err)
	}
	if character == nil {
		return nil, domain.ErrNotFound
	}
	return character, nil
}

func (s *characterService) List(ctx context.Context) ([]domain.Character, error) {
	return s.characters.List(ctx)
}

func (s *characterService) ListUnassigned(ctx context.Context) ([]domain.Character, error) {
	return s.characters.ListUnassigned(ctx)
}

// Assign attaches an unassigned character to a guest who does not hold one.
// A guest already holding a character gets a conflict, not a second email.
func (s *characterService) Assign(ctx context.Context, characterID, guestID int64) (*domain.Character, error) {
	guest, err := s.guests.GetByID(ctx, guestID)
	if err != nil {
		return nil, fmt.Errorf("failed to get guest: %w", err)
	}
	if guest == nil {
		return nil, domain.ErrNotFound
	}

	existing, err := s.characters.GetByGuest(ctx, guestID)
	if err != nil {
		return nil, fmt.Errorf("failed to check current character: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrCharacterTaken
	}

	character, err := s.GetByID(ctx, characterID)
	if err != nil {
		return nil, err
	}
	if character.Assigned() {
		return nil, domain.Validationf("character %q is already assigned", character.DisplayName)
	}

	ok, err := s.characters.Assign(ctx, characterID, guestID, time.Now())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.Validationf("character %q is already assigned", character.DisplayName)
	}

	character, err = s.GetByID(ctx, characterID)
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, guest, domain.EmailCharacterAssigned, mailer.TemplateData{Character: character})
	s.publishCharacter(ctx, events.CharacterAssigned, character)

	return character, nil
}

func (s *characterService) Update(ctx context.Context, id int64, patch domain.CharacterPatch) (*domain.Character, error) {
	if err := s.validate.Struct(&patch); err != nil {
		return nil, domain.Validationf("invalid update: %v", err)
	}

	character, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	traits := character.Traits
	if patch.Backstory != nil {
		traits.Backstory = *patch.Backstory
	}
	if patch.Extra != nil {
		traits.Extra = patch.Extra
	}

	updated, err := s.characters.UpdatePatch(ctx, id, patch, traits)
	if err != nil {
		return nil, fmt.Errorf("failed to update character: %w", err)
	}
	if updated == nil {
		return nil, domain.ErrNotFound
	}

	if updated.Assigned() {
		guest, err := s.guests.GetByID(ctx, *updated.GuestID)
		if err != nil || guest == nil {
			logger.ErrorContext(ctx, "assigned guest lookup failed after character update", "character_id", id, "error", err)
			return updated, nil
		}
		s.notifier.Notify(ctx, guest, domain.EmailCharacterUpdated, mailer.TemplateData{Character: updated})
		s.publishCharacter(ctx, events.CharacterUpdated, updated)
	}

	return updated, nil
}

// Unassign detaches a character from its guest; the character row survives.
func (s *characterService) Unassign(ctx context.Context, id int64) (*domain.Character, error) {
	character, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !character.Assigned() {
		return nil, domain.Validationf("character %q is not assigned", character.DisplayName)
	}

	// Read the guest before detaching so the removal email can still be
	// rendered from a consistent snapshot.
	guest, err := s.guests.GetByID(ctx, *character.GuestID)
	if err != nil {
		return nil, fmt.Errorf("failed to get guest: %w", err)
	}

	ok, err := s.characters.Unassign(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to unassign character: %w", err)
	}
	if !ok {
		return nil, domain.Validationf("character %q is not assigned", character.DisplayName)
	}

	if guest != nil {
		s.notifier.Notify(ctx, guest, domain.EmailCharacterRemoved, mailer.TemplateData{Character: character})
		s.publishCharacter(ctx, events.CharacterRemoved, character)
	}

	character.GuestID = nil
	character.AssignedAt = nil
	return character, nil
}

// Delete removes the character row. For an assigned character the removal
// email reads guest and character data before the row is gone.
func (s *characterService) Delete(ctx context.Context, id int64) error {
	character, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	var guest *domain.Guest
	if character.Assigned() {
		guest, err = s.guests.GetByID(ctx, *character.GuestID)
		if err != nil {
			return fmt.Errorf("failed to get guest: %w", err)
		}
	}

	if guest != nil {
		s.notifier.Notify(ctx, guest, domain.EmailCharacterRemoved, mailer.TemplateData{Character: character})
	}

	ok, err := s.characters.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete character: %w", err)
	}
	if !ok {
		return domain.ErrNotFound
	}

	if guest != nil {
		s.publishCharacter(ctx, events.CharacterRemoved, character)
	}
	return nil
}

func (s *characterService) publishCharacter(ctx context.Context, subject string, character *domain.Character) {
	ev := events.CharacterEvent{
		CharacterID: character.ID,
		DisplayName: character.DisplayName,
		OccurredAt:  time.Now(),
	}
	if character.GuestID != nil {
		ev.GuestID = *character.GuestID
	}
	if err := s.bus.Publish(ctx, subject, ev); err != nil {
		logger.ErrorContext(ctx, "failed to publish character event", "subject", subject, "character_id", character.ID, "error", err)
	}
}
