package roster

import (
	"time"

	"github.com/spec-kit/ramp-scheduler/internal/domain"
)

// Pool is a read-only view over the loaded staff roster. The core never
// mutates it; every query copies so callers cannot either.
type Pool struct {
	members []domain.StaffMember
	byID    map[string]int
}

// NewPool builds a pool from the staff source's ordered records.
func NewPool(members []domain.StaffMember) *Pool {
	p := &Pool{
		members: append([]domain.StaffMember(nil), members...),
		byID:    make(map[string]int, len(members)),
	}
	for i, m := range p.members {
		p.byID[m.ID] = i
	}
	return p
}

// Len returns the roster size.
func (p *Pool) Len() int {
	return len(p.members)
}

// All returns every roster record in source order.
func (p *Pool) All() []domain.StaffMember {
	return append([]domain.StaffMember(nil), p.members...)
}

// ByID looks up a single member.
func (p *Pool) ByID(id string) (domain.StaffMember, bool) {
	i, ok := p.byID[id]
	if !ok {
		return domain.StaffMember{}, false
	}
	return p.members[i], true
}

// OnShift returns members whose shift covers the instant
// (start <= instant < end), in source order.
func (p *Pool) OnShift(instant time.Time) []domain.StaffMember {
	var out []domain.StaffMember
	for _, m := range p.members {
		if m.OnShiftAt(instant) {
			out = append(out, m)
		}
	}
	return out
}

// StartedBetween returns members whose shift start falls in [from, to],
// in source order.
func (p *Pool) StartedBetween(from, to time.Time) []domain.StaffMember {
	var out []domain.StaffMember
	for _, m := range p.members {
		if !m.ShiftStart.Before(from) && !m.ShiftStart.After(to) {
			out = append(out, m)
		}
	}
	return out
}

// CoveringThrough returns members already on shift at the instant whose
// shift extends strictly beyond the until mark, in source order.
func (p *Pool) CoveringThrough(instant, until time.Time) []domain.StaffMember {
	var out []domain.StaffMember
	for _, m := range p.members {
		if !m.ShiftStart.After(instant) && m.ShiftEnd.After(until) {
			out = append(out, m)
		}
	}
	return out
}

// EarliestStart returns the earliest shift start on the roster, or false
// when the roster is empty.
func (p *Pool) EarliestStart() (time.Time, bool) {
	if len(p.members) == 0 {
		return time.Time{}, false
	}
	earliest := p.members[0].ShiftStart
	for _, m := range p.members[1:] {
		if m.ShiftStart.Before(earliest) {
			earliest = m.ShiftStart
		}
	}
	return earliest, true
}
