package model

import "time"

// Booking assigns a staff member to a client for [StartTime, EndTime).
type Booking struct {
	ID           int64     `json:"id"`
	StaffID      int64     `json:"staffId"`
	ClientName   string    `json:"clientName"`
	ClientPhone  string    `json:"clientPhone"`
	StartTime    time.Time `json:"startTime"`
	EndTime      time.Time `json:"endTime"`
	Address      *string   `json:"address"`
	Instructions *string   `json:"instructions"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	Staff *Staff `json:"staff,omitempty"`
}
