package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/ramp-scheduler/internal/domain"
	"github.com/spec-kit/ramp-scheduler/internal/events"
	"github.com/spec-kit/ramp-scheduler/internal/observability"
	"github.com/spec-kit/ramp-scheduler/internal/registry"
)

// AssignmentService binds flights inside a rolling window to available
// teams, recording one log entry per processed flight.
type AssignmentService struct {
	flights    []domain.FlightEvent
	teams      *registry.TeamRegistry
	policy     domain.SizePolicy
	minBreak   time.Duration
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// AssignmentDependencies bundles engine collaborators.
type AssignmentDependencies struct {
	Flights    []domain.FlightEvent
	Teams      *registry.TeamRegistry
	Policy     domain.SizePolicy
	MinBreak   time.Duration
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
}

// NewAssignmentService creates the service.
func NewAssignmentService(deps AssignmentDependencies) *AssignmentService {
	return &AssignmentService{
		flights:    deps.Flights,
		teams:      deps.Teams,
		policy:     deps.Policy,
		minBreak:   deps.MinBreak,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     deps.Logger,
	}
}

// Flights returns the engine's flight source records in source order.
func (s *AssignmentService) Flights() []domain.FlightEvent {
	return append([]domain.FlightEvent(nil), s.flights...)
}

// AssignFlightsInWindow processes flights arriving in
// [instant, instant+window) that have no log record yet, in ascending
// arrival order (source order breaks ties). Per-flight failures never abort
// the pass. Returns the number of flights processed.
func (s *AssignmentService) AssignFlightsInWindow(ctx context.Context, instant time.Time, window time.Duration) int {
	horizon := instant.Add(window)

	var due []domain.FlightEvent
	for _, f := range s.flights {
		if f.ETA.Before(instant) || !f.ETA.Before(horizon) {
			continue
		}
		if s.teams.HasAssignment(f.ID) {
			continue
		}
		due = append(due, f)
	}
	sort.SliceStable(due, func(i, j int) bool {
		return due[i].ETA.Before(due[j].ETA)
	})

	for _, flight := range due {
		s.assignFlight(ctx, flight, instant)
	}
	return len(due)
}

func (s *AssignmentService) assignFlight(ctx context.Context, flight domain.FlightEvent, instant time.Time) {
	required := s.policy.RequiredSize(flight.Heaviness)

	available := s.teams.AvailableTeams(flight.ETA, s.minBreak)
	if len(available) == 0 {
		s.recordFailure(ctx, flight, required, domain.ReasonNoTeamAvailable, instant)
		return
	}

	candidates := make([]*domain.Team, 0, len(available))
	for _, t := range available {
		if t.Size >= required {
			candidates = append(candidates, t)
		}
	}
	if len(candidates) == 0 {
		if !s.policy.AllowUndersized {
			s.recordFailure(ctx, flight, required, domain.ReasonInsufficientTeamSize, instant)
			return
		}
		// An undersized crew beats an unworked flight.
		candidates = available
	}

	selected := candidates[0]
	for _, t := range candidates[1:] {
		if t.FlightCount < selected.FlightCount {
			selected = t
		}
	}

	members := selected.MemberNames()
	teamName := selected.Name
	s.teams.BindFlight(teamName, flight.ID)
	s.teams.RecordAssignment(domain.Assignment{
		ID:           uuid.NewString(),
		FlightID:     flight.ID,
		Route:        flight.Route(),
		Aircraft:     flight.Aircraft,
		Gate:         flight.Gate,
		ETA:          flight.ETA,
		ETD:          flight.ETD,
		Heaviness:    flight.Heaviness,
		RequiredSize: required,
		TeamName:     &teamName,
		TeamSize:     selected.Size,
		MemberNames:  members,
		Success:      true,
		AssignedAt:   instant,
	})
	// Synchronous release: the engine does not model mid-turnaround
	// occupancy beyond the rest-break bookkeeping.
	s.teams.ReleaseFlight(teamName, flight.ETD)

	s.metrics.RecordAssignment(true)
	s.logger.Info("flight assigned",
		zap.String("flight_id", flight.ID),
		zap.String("team", teamName),
		zap.Int("team_size", selected.Size),
		zap.Int("required_size", required),
	)
	s.publish(ctx, events.EventFlightAssigned, instant, events.FlightAssignedPayload{
		FlightID:  flight.ID,
		TeamName:  teamName,
		TeamSize:  selected.Size,
		Members:   members,
		Heaviness: string(flight.Heaviness),
	})
}

func (s *AssignmentService) recordFailure(ctx context.Context, flight domain.FlightEvent, required int, reason string, instant time.Time) {
	s.teams.RecordAssignment(domain.Assignment{
		ID:            uuid.NewString(),
		FlightID:      flight.ID,
		Route:         flight.Route(),
		Aircraft:      flight.Aircraft,
		Gate:          flight.Gate,
		ETA:           flight.ETA,
		ETD:           flight.ETD,
		Heaviness:     flight.Heaviness,
		RequiredSize:  required,
		Success:       false,
		FailureReason: reason,
		AssignedAt:    instant,
	})
	s.metrics.RecordAssignment(false)
	s.logger.Warn("flight unassigned",
		zap.String("flight_id", flight.ID),
		zap.String("reason", reason),
	)
	s.publish(ctx, events.EventAssignmentFailed, instant, events.AssignmentFailedPayload{
		FlightID: flight.ID,
		Reason:   reason,
	})
}

func (s *AssignmentService) publish(ctx context.Context, eventType events.EventType, simTime time.Time, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		SimTime:   simTime,
		Payload:   payload,
	})
}
