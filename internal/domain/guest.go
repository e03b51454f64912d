package domain

import (
	"strings"
	"time"
)

type GuestStatus string

const (
	GuestPending  GuestStatus = "pending"
	GuestApproved GuestStatus = "approved"
	GuestRejected GuestStatus = "rejected"
	GuestCanceled GuestStatus = "canceled"
)

func ParseGuestStatus(s string) (GuestStatus, bool) {
	switch GuestStatus(s) {
	case GuestPending, GuestApproved, GuestRejected, GuestCanceled:
		return GuestStatus(s), true
	default:
		return "", false
	}
}

type Guest struct {
	ID          int64       `json:"id"`
	AccessToken string      `json:"access_token"`
	Status      GuestStatus `json:"status"`

	Email string `json:"email"`
	Name  string `json:"name"`

	Interest            string `json:"interest"`
	DressUp             string `json:"dress_up"`
	GenderPreference    string `json:"gender_preference"`
	CharacterPreference string `json:"character_preference"`
	Talents             string `json:"talents"`
	BringItems          string `json:"bring_items"`

	ReminderOneWeekSent  bool `json:"reminder_one_week_sent"`
	ReminderTwoDaySent   bool `json:"reminder_two_day_sent"`
	ReminderOneDaySent   bool `json:"reminder_one_day_sent"`
	ReminderFiveHourSent bool `json:"reminder_five_hour_sent"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (g *Guest) CanCancel() bool {
	return g.Status == GuestPending || g.Status == GuestApproved
}

// GuestCreateReq is the public RSVP intake payload.
type GuestCreateReq struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"required,min=1,max=200"`

	Interest            string `json:"interest" validate:"max=2000"`
	DressUp             string `json:"dress_up" validate:"max=2000"`
	GenderPreference    string `json:"gender_preference" validate:"max=200"`
	CharacterPreference string `json:"character_preference" validate:"max=2000"`
	Talents             string `json:"talents" validate:"max=2000"`
	BringItems          string `json:"bring_items" validate:"max=2000"`
}

func (r *GuestCreateReq) Normalize() {
	r.Email = NormalizeEmail(r.Email)
	r.Name = strings.TrimSpace(r.Name)
}

// GuestPatch carries optional preference updates; nil means leave unchanged.
// Email and status are deliberately not patchable through this path.
type GuestPatch struct {
	Name                *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Interest            *string `json:"interest,omitempty" validate:"omitempty,max=2000"`
	DressUp             *string `json:"dress_up,omitempty" validate:"omitempty,max=2000"`
	GenderPreference    *string `json:"gender_preference,omitempty" validate:"omitempty,max=200"`
	CharacterPreference *string `json:"character_preference,omitempty" validate:"omitempty,max=2000"`
	Talents             *string `json:"talents,omitempty" validate:"omitempty,max=2000"`
	BringItems          *string `json:"bring_items,omitempty" validate:"omitempty,max=2000"`
}

func (p *GuestPatch) IsEmpty() bool {
	return p.Name == nil && p.Interest == nil && p.DressUp == nil &&
		p.GenderPreference == nil && p.CharacterPreference == nil &&
		p.Talents == nil && p.BringItems == nil
}

// GuestDTO is the admin/portal view of a guest; the access token is only
// included on the creation response.
type GuestDTO struct {
	ID                  int64       `json:"id"`
	Status              GuestStatus `json:"status"`
	Email               string      `json:"email"`
	Name                string      `json:"name"`
	Interest            string      `json:"interest"`
	DressUp             string      `json:"dress_up"`
	GenderPreference    string      `json:"gender_preference"`
	CharacterPreference string      `json:"character_preference"`
	Talents             string      `json:"talents"`
	BringItems          string      `json:"bring_items"`
	CreatedAt           time.Time   `json:"created_at"`
	UpdatedAt           time.Time   `json:"updated_at"`
}

func (g *Guest) DTO() GuestDTO {
	return GuestDTO{
		ID:                  g.ID,
		Status:              g.Status,
		Email:               g.Email,
		Name:                g.Name,
		Interest:            g.Interest,
		DressUp:             g.DressUp,
		GenderPreference:    g.GenderPreference,
		CharacterPreference: g.CharacterPreference,
		Talents:             g.Talents,
		BringItems:          g.BringItems,
		CreatedAt:           g.CreatedAt,
		UpdatedAt:           g.UpdatedAt,
	}
}

// NormalizeEmail lowercases and trims an email address before it is compared
// against the unique constraint.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
