package domain

import "time"

type FAQ struct {
	ID        int64     `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	SortOrder int       `json:"sort_order"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type FAQCreateReq struct {
	Question  string `json:"question" validate:"required,min=1,max=2000"`
	Answer    string `json:"answer" validate:"required,min=1,max=10000"`
	SortOrder int    `json:"sort_order"`
	Active    *bool  `json:"active,omitempty"`
}

type FAQPatch struct {
	Question  *string `json:"question,omitempty" validate:"omitempty,min=1,max=2000"`
	Answer    *string `json:"answer,omitempty" validate:"omitempty,min=1,max=10000"`
	SortOrder *int    `json:"sort_order,omitempty"`
	Active    *bool   `json:"active,omitempty"`
}
