package domain

import "time"

// Team is a persistent ramp crew identified by one of the fixed labels.
// Teams survive the whole shift; membership changes flow through approved
// notifications or manual swaps. A team with zero members is inert.
type Team struct {
	Name            string
	Members         []StaffMember
	FlightCount     int
	CurrentFlightID *string
	LastFlightEnd   *time.Time
	Size            int
}

// Recompute refreshes the derived size after any membership mutation.
func (t *Team) Recompute() {
	t.Size = len(t.Members)
}

// MemberIDs returns the ids of current members in roster order.
func (t *Team) MemberIDs() []string {
	ids := make([]string, 0, len(t.Members))
	for _, m := range t.Members {
		ids = append(ids, m.ID)
	}
	return ids
}

// MemberNames returns display names of current members in roster order.
func (t *Team) MemberNames() []string {
	names := make([]string, 0, len(t.Members))
	for _, m := range t.Members {
		names = append(names, m.DisplayName())
	}
	return names
}

// HasMember reports whether the employee is currently on the team.
func (t *Team) HasMember(employeeID string) bool {
	for _, m := range t.Members {
		if m.ID == employeeID {
			return true
		}
	}
	return false
}
