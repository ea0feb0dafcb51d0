package domain

import "time"

// Heaviness classifies the workload intensity of a turnaround.
type Heaviness string

const (
	HeavinessLight  Heaviness = "Light"
	HeavinessMedium Heaviness = "Medium"
	HeavinessHeavy  Heaviness = "Heavy"
)

// FlightEvent is one inbound/outbound turnaround at the station.
// Read-only input from the flight source.
type FlightEvent struct {
	ID             string
	InboundCity    string
	OutboundFlight string
	OutboundCity   string
	ETA            time.Time
	ETD            time.Time
	Gate           string
	Aircraft       string
	Heaviness      Heaviness
}

// Route renders the inbound/outbound city pair.
func (f FlightEvent) Route() string {
	return f.InboundCity + " -> " + f.OutboundCity
}

// TurnaroundMinutes is the ground time between arrival and departure.
func (f FlightEvent) TurnaroundMinutes() float64 {
	return f.ETD.Sub(f.ETA).Minutes()
}

// SizePolicy is the injected heaviness-to-team-size table. One table serves
// the whole system; AllowUndersized controls whether the engine accepts a
// smaller team when no candidate meets the requirement.
type SizePolicy struct {
	Sizes           map[Heaviness]int
	AllowUndersized bool
}

// DefaultSizePolicy returns the standard Light 3 / Medium 4 / Heavy 5 table.
func DefaultSizePolicy() SizePolicy {
	return SizePolicy{
		Sizes: map[Heaviness]int{
			HeavinessLight:  3,
			HeavinessMedium: 4,
			HeavinessHeavy:  5,
		},
		AllowUndersized: true,
	}
}

// RequiredSize maps a heaviness class to the team size it needs.
// Unknown classes fall back to the Medium requirement.
func (p SizePolicy) RequiredSize(h Heaviness) int {
	if n, ok := p.Sizes[h]; ok {
		return n
	}
	return p.Sizes[HeavinessMedium]
}
