package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// Traits is the character's trait bag. The backstory is the one field every
// consumer reads, so it is a first-class member; anything else the host
// records lands in Extra without type probing on the consumer side.
type Traits struct {
	Backstory string            `json:"backstory"`
	Extra     map[string]string `json:"extra,omitempty"`
}

func (t Traits) Value() ([]byte, error) {
	return json.Marshal(t)
}

func ParseTraits(raw []byte) (Traits, error) {
	var t Traits
	if len(raw) == 0 {
		return t, nil
	}
	err := json.Unmarshal(raw, &t)
	return t, err
}

// Character is a role optionally assigned to a guest. AssignedAt is non-nil
// exactly when GuestID is non-nil; the store enforces the same invariant.
type Character struct {
	ID          int64      `json:"id"`
	GuestID     *int64     `json:"guest_id,omitempty"`
	DisplayName string     `json:"display_name"`
	Traits      Traits     `json:"traits"`
	HostNotes   string     `json:"host_notes"`
	AssignedAt  *time.Time `json:"assigned_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (c *Character) Assigned() bool {
	return c.GuestID != nil
}

type CharacterCreateReq struct {
	DisplayName string            `json:"display_name" validate:"required,min=1,max=200"`
	Backstory   string            `json:"backstory" validate:"max=10000"`
	Extra       map[string]string `json:"extra,omitempty"`
	HostNotes   string            `json:"host_notes" validate:"max=10000"`
	GuestID     *int64            `json:"guest_id,omitempty"`
}

func (r *CharacterCreateReq) Normalize() {
	r.DisplayName = strings.TrimSpace(r.DisplayName)
}

type CharacterPatch struct {
	DisplayName *string           `json:"display_name,omitempty" validate:"omitempty,min=1,max=200"`
	Backstory   *string           `json:"backstory,omitempty" validate:"omitempty,max=10000"`
	Extra       map[string]string `json:"extra,omitempty"`
	HostNotes   *string           `json:"host_notes,omitempty" validate:"omitempty,max=10000"`
}

// PublicDTO is the guest-visible view: host notes stay with the host.
type CharacterDTO struct {
	ID          int64      `json:"id"`
	GuestID     *int64     `json:"guest_id,omitempty"`
	DisplayName string     `json:"display_name"`
	Backstory   string     `json:"backstory"`
	AssignedAt  *time.Time `json:"assigned_at,omitempty"`
}

func (c *Character) PublicDTO() CharacterDTO {
	return CharacterDTO{
		ID:          c.ID,
		GuestID:     c.GuestID,
		DisplayName: c.DisplayName,
		Backstory:   c.Traits.Backstory,
		AssignedAt:  c.AssignedAt,
	}
}
