package model

import "time"

type Staff struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`

	// Loaded only on request, not part of the staff row
	Availabilities AvailabilitySet `json:"availabilities,omitempty"`
}
