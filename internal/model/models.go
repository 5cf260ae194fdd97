package model

import "time"

type ID = string

type User struct {
	ID        ID        `json:"id" db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	Name string `json:"name" db:"name"`

	// SessionToken correlates a cookie holder to this user. Never
	// serialized: the cookie is the only transport.
	SessionToken string `json:"-" db:"session_id"`
}

type Meal struct {
	ID        ID        `json:"id" db:"id"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`

	// Date and Hour are stored verbatim as the client sent them.
	Date string `json:"date" db:"date"`
	Hour string `json:"hour" db:"hour"`

	// Inside is true when the meal conformed to the diet plan.
	Inside bool `json:"inside" db:"inside"`

	Owner ID `json:"userId" db:"user_id"`
}

// Metrics is the per-user summary over all owned meals. Sequence carries the
// names of in-diet meals in storage order: a flat filtered projection, not a
// longest-streak computation.
type Metrics struct {
	Total    int      `json:"total"`
	OnDiet   int      `json:"isTrue"`
	OffDiet  int      `json:"isFalse"`
	Sequence []string `json:"sequence"`
}
