package service

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/ramp-scheduler/internal/domain"
	"github.com/spec-kit/ramp-scheduler/internal/observability"
	"github.com/spec-kit/ramp-scheduler/internal/registry"
)

var testDay = time.Date(2025, 9, 13, 0, 0, 0, 0, time.UTC)

func clock(hour, min int) time.Time {
	return testDay.Add(time.Duration(hour)*time.Hour + time.Duration(min)*time.Minute)
}

func staffer(id, name string, start, end time.Time) domain.StaffMember {
	return domain.StaffMember{ID: id, Name: name, ShiftStart: start, ShiftEnd: end}
}

// teamsOf builds a registry with the given label -> member-count layout,
// every member on shift 06:00-14:00.
func teamsOf(t *testing.T, layout map[string]int) *registry.TeamRegistry {
	t.Helper()
	reg := registry.New([]string{"Alpha", "Bravo", "Charlie", "Delta"}, rand.New(rand.NewSource(1)))
	seq := 0
	for _, label := range []string{"Alpha", "Bravo", "Charlie", "Delta"} {
		for i := 0; i < layout[label]; i++ {
			seq++
			id := "EMP" + string(rune('0'+seq/10)) + string(rune('0'+seq%10))
			require.True(t, reg.AddMember(label, staffer(id, "Crew "+id, clock(6, 0), clock(14, 0))))
		}
	}
	return reg
}

func medium(id string, eta, etd time.Time) domain.FlightEvent {
	return domain.FlightEvent{
		ID:           id,
		InboundCity:  "AMS",
		OutboundCity: "MAD",
		ETA:          eta,
		ETD:          etd,
		Gate:         "B12",
		Heaviness:    domain.HeavinessMedium,
	}
}

func newEngine(t *testing.T, reg *registry.TeamRegistry, flights []domain.FlightEvent, policy domain.SizePolicy) *AssignmentService {
	t.Helper()
	return NewAssignmentService(AssignmentDependencies{
		Flights:  flights,
		Teams:    reg,
		Policy:   policy,
		MinBreak: 15 * time.Minute,
		Metrics:  observability.NewMetrics(),
		Logger:   zap.NewNop(),
	})
}

func TestAssignFlightsInWindow(t *testing.T) {
	ctx := context.Background()

	t.Run("only flights inside the window are processed", func(t *testing.T) {
		reg := teamsOf(t, map[string]int{"Alpha": 4})
		flights := []domain.FlightEvent{
			medium("UX0900", clock(5, 0), clock(5, 45)),
			medium("UX1001", clock(6, 30), clock(7, 15)),
			medium("UX1002", clock(9, 59), clock(10, 40)),
			medium("UX1003", clock(10, 0), clock(10, 45)),
		}
		engine := newEngine(t, reg, flights, domain.DefaultSizePolicy())

		processed := engine.AssignFlightsInWindow(ctx, clock(6, 0), 4*time.Hour)
		require.Equal(t, 2, processed)

		require.True(t, reg.HasAssignment("UX1001"))
		require.True(t, reg.HasAssignment("UX1002"))
		require.False(t, reg.HasAssignment("UX0900"))
		require.False(t, reg.HasAssignment("UX1003"))
	})

	t.Run("a second pass never reprocesses logged flights", func(t *testing.T) {
		reg := teamsOf(t, map[string]int{"Alpha": 4})
		flights := []domain.FlightEvent{medium("UX1001", clock(6, 30), clock(7, 15))}
		engine := newEngine(t, reg, flights, domain.DefaultSizePolicy())

		require.Equal(t, 1, engine.AssignFlightsInWindow(ctx, clock(6, 0), 4*time.Hour))
		require.Equal(t, 0, engine.AssignFlightsInWindow(ctx, clock(6, 0), 4*time.Hour))
		require.Len(t, reg.Assignments(), 1)
	})

	t.Run("least worked team wins", func(t *testing.T) {
		reg := teamsOf(t, map[string]int{"Alpha": 4, "Bravo": 4})
		alpha, _ := reg.TeamByName("Alpha")
		bravo, _ := reg.TeamByName("Bravo")
		alpha.FlightCount = 5
		bravo.FlightCount = 3

		engine := newEngine(t, reg, []domain.FlightEvent{medium("UX1001", clock(8, 0), clock(8, 45))}, domain.DefaultSizePolicy())
		engine.AssignFlightsInWindow(ctx, clock(8, 0), time.Hour)

		log := reg.Assignments()
		require.Len(t, log, 1)
		require.True(t, log[0].Success)
		require.NotNil(t, log[0].TeamName)
		require.Equal(t, "Bravo", *log[0].TeamName)
		require.Equal(t, 4, bravo.FlightCount)
	})

	t.Run("tie on the counter falls to label order", func(t *testing.T) {
		reg := teamsOf(t, map[string]int{"Alpha": 4, "Bravo": 4})
		engine := newEngine(t, reg, []domain.FlightEvent{medium("UX1001", clock(8, 0), clock(8, 45))}, domain.DefaultSizePolicy())
		engine.AssignFlightsInWindow(ctx, clock(8, 0), time.Hour)

		log := reg.Assignments()
		require.Equal(t, "Alpha", *log[0].TeamName)
	})

	t.Run("no team available records a failure", func(t *testing.T) {
		reg := teamsOf(t, map[string]int{"Alpha": 4})
		require.True(t, reg.BindFlight("Alpha", "UX0999"))

		engine := newEngine(t, reg, []domain.FlightEvent{medium("UX1001", clock(8, 0), clock(8, 45))}, domain.DefaultSizePolicy())
		engine.AssignFlightsInWindow(ctx, clock(8, 0), time.Hour)

		log := reg.Assignments()
		require.Len(t, log, 1)
		require.False(t, log[0].Success)
		require.Equal(t, domain.ReasonNoTeamAvailable, log[0].FailureReason)
		require.Nil(t, log[0].TeamName)
	})

	t.Run("undersized crew is used when allowed", func(t *testing.T) {
		reg := teamsOf(t, map[string]int{"Alpha": 3})
		engine := newEngine(t, reg, []domain.FlightEvent{medium("UX1001", clock(8, 0), clock(8, 45))}, domain.DefaultSizePolicy())
		engine.AssignFlightsInWindow(ctx, clock(8, 0), time.Hour)

		log := reg.Assignments()
		require.True(t, log[0].Success)
		require.Equal(t, "Alpha", *log[0].TeamName)
		require.Equal(t, 3, log[0].TeamSize)
		require.Equal(t, 4, log[0].RequiredSize)
	})

	t.Run("strict sizing records insufficient team size", func(t *testing.T) {
		reg := teamsOf(t, map[string]int{"Alpha": 3})
		strict := domain.DefaultSizePolicy()
		strict.AllowUndersized = false

		engine := newEngine(t, reg, []domain.FlightEvent{medium("UX1001", clock(8, 0), clock(8, 45))}, strict)
		engine.AssignFlightsInWindow(ctx, clock(8, 0), time.Hour)

		log := reg.Assignments()
		require.False(t, log[0].Success)
		require.Equal(t, domain.ReasonInsufficientTeamSize, log[0].FailureReason)
	})

	t.Run("teams rest between consecutive flights", func(t *testing.T) {
		reg := teamsOf(t, map[string]int{"Alpha": 4})
		flights := []domain.FlightEvent{
			medium("UX1001", clock(8, 0), clock(8, 45)),
			medium("UX1002", clock(8, 50), clock(9, 30)),
			medium("UX1003", clock(9, 10), clock(9, 50)),
		}
		engine := newEngine(t, reg, flights, domain.DefaultSizePolicy())
		engine.AssignFlightsInWindow(ctx, clock(8, 0), 4*time.Hour)

		byFlight := make(map[string]domain.Assignment)
		for _, a := range reg.Assignments() {
			byFlight[a.FlightID] = a
		}
		require.True(t, byFlight["UX1001"].Success)
		require.False(t, byFlight["UX1002"].Success, "5 minutes after the previous turnaround is inside the break")
		require.True(t, byFlight["UX1003"].Success, "25 minutes of rest clears the break")
	})

	t.Run("success snapshot carries the crew names", func(t *testing.T) {
		reg := teamsOf(t, map[string]int{"Alpha": 4})
		engine := newEngine(t, reg, []domain.FlightEvent{medium("UX1001", clock(8, 0), clock(8, 45))}, domain.DefaultSizePolicy())
		engine.AssignFlightsInWindow(ctx, clock(8, 0), time.Hour)

		log := reg.Assignments()
		require.Len(t, log[0].MemberNames, 4)
		require.Equal(t, "AMS -> MAD", log[0].Route)

		alpha, _ := reg.TeamByName("Alpha")
		require.Nil(t, alpha.CurrentFlightID)
		require.NotNil(t, alpha.LastFlightEnd)
		require.Equal(t, clock(8, 45), *alpha.LastFlightEnd)
	})
}
