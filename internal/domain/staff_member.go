package domain

import (
	"strings"
	"time"
)

// StaffMember models one rostered ground-crew employee. Records are
// immutable once loaded; teams reference members, they do not own them.
type StaffMember struct {
	ID               string
	Name             string
	ShiftStart       time.Time
	ShiftEnd         time.Time
	MaxFlightsPerDay int
}

// OnShiftAt reports whether the member's shift covers the instant
// (start inclusive, end exclusive).
func (s StaffMember) OnShiftAt(t time.Time) bool {
	return !t.Before(s.ShiftStart) && t.Before(s.ShiftEnd)
}

// DisplayName converts roster-style "LastName, FirstName" to
// "FirstName LastName". Names without a comma pass through unchanged.
func (s StaffMember) DisplayName() string {
	last, first, found := strings.Cut(s.Name, ", ")
	if !found {
		return s.Name
	}
	return first + " " + last
}
