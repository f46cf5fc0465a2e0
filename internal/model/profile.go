package model

import "time"

type Profile struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// NeedsOnboarding reports whether the user still has to pick a display name.
func (p *Profile) NeedsOnboarding() bool {
	return p == nil || p.Name == ""
}
