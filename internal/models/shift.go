package models

import "time"

// ShiftKind classifies a shift by its time window.
type ShiftKind string

const (
	ShiftMorning   ShiftKind = "MORNING"
	ShiftAfternoon ShiftKind = "AFTERNOON"
	ShiftNight     ShiftKind = "NIGHT"
	ShiftFullDay   ShiftKind = "FULL_DAY"
)

// Shift represents one scheduled work interval for one person on one date.
// StartTime and EndTime are opaque "HH:MM" tokens; night shifts legitimately
// wrap past midnight, so no ordering is enforced between them.
type Shift struct {
	ID         string    `db:"id" json:"id"`
	PersonID   string    `db:"person_id" json:"person_id"`
	Date       time.Time `db:"date" json:"date"`
	StartTime  string    `db:"start_time" json:"start_time"`
	EndTime    string    `db:"end_time" json:"end_time"`
	Kind       ShiftKind `db:"kind" json:"kind"`
	Position   *string   `db:"position" json:"position,omitempty"`
	Notes      *string   `db:"notes" json:"notes,omitempty"`
	Holiday    bool      `db:"holiday" json:"holiday"`
	Assigned   bool      `db:"assigned" json:"assigned"`
	AssignedBy *string   `db:"assigned_by" json:"assigned_by,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// ShiftFilter captures filtering options for the administrative shift list.
type ShiftFilter struct {
	PersonID  string
	Kind      string
	From      *time.Time
	To        *time.Time
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// ThreeWeekView groups a person's shifts into the prior, current and next
// Sunday-anchored calendar weeks.
type ThreeWeekView struct {
	LastWeek    []Shift `json:"last_week"`
	CurrentWeek []Shift `json:"current_week"`
	NextWeek    []Shift `json:"next_week"`
}
