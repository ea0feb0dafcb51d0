package registry

import (
	"math/rand"
	"time"

	"github.com/spec-kit/ramp-scheduler/internal/domain"
	"github.com/spec-kit/ramp-scheduler/internal/roster"
	apperrors "github.com/spec-kit/ramp-scheduler/pkg/util"
)

// FormationPolicy controls how many teams a staff pool yields.
type FormationPolicy struct {
	MinTeamSize     int
	CriticalMinSize int
	MaxTeams        int
}

// DefaultFormationPolicy matches station practice: up to four teams of at
// least three, a lone degraded team only when two people remain.
func DefaultFormationPolicy() FormationPolicy {
	return FormationPolicy{MinTeamSize: 3, CriticalMinSize: 2, MaxTeams: 4}
}

// TeamRegistry exclusively owns the team set and the assignment log. The
// fixed label set is preallocated; teams are never destroyed during a shift.
// All mutation happens through the single active scheduler call.
type TeamRegistry struct {
	labels []string
	teams  []*domain.Team
	byName map[string]*domain.Team

	log    []domain.Assignment
	logged map[string]struct{}

	rng *rand.Rand
}

// New preallocates one inert team per label. The rng drives the formation
// shuffle; tests pass a fixed seed to pin partitions.
func New(labels []string, rng *rand.Rand) *TeamRegistry {
	r := &TeamRegistry{
		labels: append([]string(nil), labels...),
		byName: make(map[string]*domain.Team, len(labels)),
		logged: make(map[string]struct{}),
		rng:    rng,
	}
	for _, label := range r.labels {
		team := &domain.Team{Name: label}
		r.teams = append(r.teams, team)
		r.byName[label] = team
	}
	return r
}

// FormInitialTeams partitions the staff on shift at the instant across the
// fixed labels. Returns the remainder members the partition could not place.
func (r *TeamRegistry) FormInitialTeams(pool *roster.Pool, instant time.Time, policy FormationPolicy) ([]domain.StaffMember, error) {
	available := pool.OnShift(instant)
	if len(available) == 0 {
		return nil, apperrors.NewNoStaffAvailable("no staff available at shift start",
			map[string]any{"instant": instant})
	}

	numTeams := teamCount(len(available), policy)
	if numTeams == 0 {
		return nil, apperrors.NewNoStaffAvailable("not enough staff to form even a degraded team",
			map[string]any{"available": len(available)})
	}
	if max := len(r.labels); numTeams > max {
		numTeams = max
	}

	// Random distribution, balance preserved by the base/remainder split.
	shuffled := append([]domain.StaffMember(nil), available...)
	r.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	base := len(shuffled) / numTeams
	extra := len(shuffled) % numTeams

	idx := 0
	for i := 0; i < numTeams; i++ {
		size := base
		if i < extra {
			size++
		}
		team := r.byName[r.labels[i]]
		team.Members = append([]domain.StaffMember(nil), shuffled[idx:idx+size]...)
		team.FlightCount = 0
		team.CurrentFlightID = nil
		team.LastFlightEnd = nil
		team.Recompute()
		idx += size
	}

	remainder := append([]domain.StaffMember(nil), shuffled[idx:]...)
	return remainder, nil
}

func teamCount(available int, policy FormationPolicy) int {
	for k := policy.MaxTeams; k >= 2; k-- {
		if available >= k*policy.MinTeamSize {
			return k
		}
	}
	if available >= policy.MinTeamSize || available >= policy.CriticalMinSize {
		return 1
	}
	return 0
}

// Teams returns the registry's teams in label order.
func (r *TeamRegistry) Teams() []*domain.Team {
	return r.teams
}

// TeamByName looks a team up by label.
func (r *TeamRegistry) TeamByName(name string) (*domain.Team, bool) {
	t, ok := r.byName[name]
	return t, ok
}

// AvailableTeams returns teams qualified to take a flight at the instant, in
// label order. A team qualifies when it has no current flight, has rested at
// least minBreak since its last one, and every member is still on shift.
// Inert (empty) teams are never offered.
func (r *TeamRegistry) AvailableTeams(instant time.Time, minBreak time.Duration) []*domain.Team {
	var out []*domain.Team
	for _, team := range r.teams {
		if team.Size == 0 || team.CurrentFlightID != nil {
			continue
		}
		if team.LastFlightEnd != nil && instant.Sub(*team.LastFlightEnd) < minBreak {
			continue
		}
		allOn := true
		for _, m := range team.Members {
			if m.ShiftEnd.Before(instant) {
				allOn = false
				break
			}
		}
		if allOn {
			out = append(out, team)
		}
	}
	return out
}

// BindFlight marks the team busy with the flight and bumps its counter.
func (r *TeamRegistry) BindFlight(teamName, flightID string) bool {
	team, ok := r.byName[teamName]
	if !ok {
		return false
	}
	id := flightID
	team.CurrentFlightID = &id
	team.FlightCount++
	return true
}

// ReleaseFlight clears the team's current flight and records the rest mark.
func (r *TeamRegistry) ReleaseFlight(teamName string, flightEnd time.Time) bool {
	team, ok := r.byName[teamName]
	if !ok {
		return false
	}
	end := flightEnd
	team.CurrentFlightID = nil
	team.LastFlightEnd = &end
	return true
}

// RecordAssignment appends to the log. Flights already logged are never
// reprocessed; the second record is dropped.
func (r *TeamRegistry) RecordAssignment(a domain.Assignment) bool {
	if _, seen := r.logged[a.FlightID]; seen {
		return false
	}
	r.logged[a.FlightID] = struct{}{}
	r.log = append(r.log, a)
	return true
}

// HasAssignment reports whether a flight already has a log record.
func (r *TeamRegistry) HasAssignment(flightID string) bool {
	_, seen := r.logged[flightID]
	return seen
}

// Assignments returns a copy of the append-only log.
func (r *TeamRegistry) Assignments() []domain.Assignment {
	return append([]domain.Assignment(nil), r.log...)
}

// RemoveMember drops the employee from the team and recomputes its size.
func (r *TeamRegistry) RemoveMember(teamName, employeeID string) bool {
	team, ok := r.byName[teamName]
	if !ok {
		return false
	}
	for i, m := range team.Members {
		if m.ID == employeeID {
			team.Members = append(team.Members[:i], team.Members[i+1:]...)
			team.Recompute()
			return true
		}
	}
	return false
}

// AddMember appends the employee to the team and recomputes its size.
func (r *TeamRegistry) AddMember(teamName string, member domain.StaffMember) bool {
	team, ok := r.byName[teamName]
	if !ok || team.HasMember(member.ID) {
		return false
	}
	team.Members = append(team.Members, member)
	team.Recompute()
	return true
}

// ReplaceMember swaps the leaving employee for the joining one in place.
func (r *TeamRegistry) ReplaceMember(teamName, leavingID string, joining domain.StaffMember) bool {
	if !r.RemoveMember(teamName, leavingID) {
		return false
	}
	return r.AddMember(teamName, joining)
}

// SwapMember moves the employee between teams. No-op when the employee is
// not on the source team or either label is unknown.
func (r *TeamRegistry) SwapMember(fromTeam, toTeam, employeeID string) bool {
	from, ok := r.byName[fromTeam]
	if !ok {
		return false
	}
	if _, ok := r.byName[toTeam]; !ok {
		return false
	}
	var moving *domain.StaffMember
	for i := range from.Members {
		if from.Members[i].ID == employeeID {
			m := from.Members[i]
			moving = &m
			break
		}
	}
	if moving == nil {
		return false
	}
	r.RemoveMember(fromTeam, employeeID)
	r.AddMember(toTeam, *moving)
	return true
}

// MemberOfAnyTeam reports whether the employee is on some team.
func (r *TeamRegistry) MemberOfAnyTeam(employeeID string) bool {
	for _, team := range r.teams {
		if team.HasMember(employeeID) {
			return true
		}
	}
	return false
}

// FirstTeamBelow returns the first team (label order) with fewer members
// than the ideal size, used to suggest a home for joining staff.
func (r *TeamRegistry) FirstTeamBelow(idealSize int) *string {
	for _, team := range r.teams {
		if team.Size > 0 && team.Size < idealSize {
			name := team.Name
			return &name
		}
	}
	return nil
}
