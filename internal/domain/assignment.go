package domain

import "time"

// Failure reasons recorded on unsuccessful assignments.
const (
	ReasonNoTeamAvailable      = "NoTeamAvailable"
	ReasonInsufficientTeamSize = "InsufficientTeamSize"
)

// Assignment is one append-only record of binding a flight to a team.
// Exactly one record exists per processed flight; failed bindings carry a
// reason instead of a team.
type Assignment struct {
	ID            string
	FlightID      string
	Route         string
	Aircraft      string
	Gate          string
	ETA           time.Time
	ETD           time.Time
	Heaviness     Heaviness
	RequiredSize  int
	TeamName      *string
	TeamSize      int
	MemberNames   []string
	Success       bool
	FailureReason string
	AssignedAt    time.Time
}
