package models

import (
	"time"

	"github.com/lib/pq"
)

// PersonRole represents the access roles recognised by the API.
type PersonRole string

const (
	RoleAdmin PersonRole = "ADMIN"
	RoleStaff PersonRole = "STAFF"
)

// CapabilityShiftEligible marks a person as assignable to work shifts.
const CapabilityShiftEligible = "SHIFT_ELIGIBLE"

// Person is a rostered identity. Capabilities is a set of tags; only
// SHIFT_ELIGIBLE gates scheduling.
type Person struct {
	ID           string         `db:"id" json:"id"`
	Email        string         `db:"email" json:"email"`
	PasswordHash string         `db:"password_hash" json:"-"`
	FullName     string         `db:"full_name" json:"full_name"`
	Role         PersonRole     `db:"role" json:"role"`
	Capabilities pq.StringArray `db:"capabilities" json:"capabilities"`
	Active       bool           `db:"active" json:"active"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}

// ShiftEligible reports whether the person carries the shift-eligible tag.
func (p *Person) ShiftEligible() bool {
	for _, tag := range p.Capabilities {
		if tag == CapabilityShiftEligible {
			return true
		}
	}
	return false
}

// PrimaryCapability returns the first capability tag other than the
// eligibility marker, falling back to the marker itself. Used as the default
// position label on auto-assigned shifts.
func (p *Person) PrimaryCapability() string {
	for _, tag := range p.Capabilities {
		if tag != CapabilityShiftEligible {
			return tag
		}
	}
	if len(p.Capabilities) > 0 {
		return p.Capabilities[0]
	}
	return ""
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
