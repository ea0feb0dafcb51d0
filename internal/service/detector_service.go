package service

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/ramp-scheduler/internal/domain"
	"github.com/spec-kit/ramp-scheduler/internal/ledger"
	"github.com/spec-kit/ramp-scheduler/internal/observability"
	"github.com/spec-kit/ramp-scheduler/internal/registry"
	"github.com/spec-kit/ramp-scheduler/internal/roster"
)

// DetectorPolicy carries the detection windows and the ideal team size used
// for join suggestions.
type DetectorPolicy struct {
	DepartureWindow time.Duration
	ArrivalWindow   time.Duration
	IdealTeamSize   int
}

// DetectorService scans the roster against team state at an instant and
// emits notifications into the ledger when shift boundaries open staffing
// gaps or surplus. Caller-driven: it runs once per clock tick.
type DetectorService struct {
	pool    *roster.Pool
	teams   *registry.TeamRegistry
	ledger  *ledger.Ledger
	policy  DetectorPolicy
	metrics *observability.Metrics
	logger  *zap.Logger

	// seen de-duplicates emissions by (type, member, team): re-running the
	// detector at an unchanged instant must not repeat a notification.
	seen map[string]struct{}
}

// NewDetectorService creates the service.
func NewDetectorService(pool *roster.Pool, teams *registry.TeamRegistry, ldg *ledger.Ledger, policy DetectorPolicy, metrics *observability.Metrics, logger *zap.Logger) *DetectorService {
	return &DetectorService{
		pool:    pool,
		teams:   teams,
		ledger:  ldg,
		policy:  policy,
		metrics: metrics,
		logger:  logger,
		seen:    make(map[string]struct{}),
	}
}

// DetectChanges runs both scans at the instant and returns the ids of the
// notifications created.
func (s *DetectorService) DetectChanges(instant time.Time) []int64 {
	var created []int64
	created = append(created, s.scanDepartures(instant)...)
	created = append(created, s.scanArrivals(instant)...)
	return created
}

// Forget clears the de-duplication mark for a rejected notification so the
// underlying condition may emit again on a later tick.
func (s *DetectorService) Forget(n domain.Notification) {
	delete(s.seen, seenKeyFor(n))
}

// scanDepartures finds team members whose shift end falls inside
// (instant, instant+departureWindow] and pairs each with a replacement from
// the pool when one exists.
func (s *DetectorService) scanDepartures(instant time.Time) []int64 {
	var created []int64
	deadline := instant.Add(s.policy.DepartureWindow)

	for _, team := range s.teams.Teams() {
		for _, member := range team.Members {
			if !member.ShiftEnd.After(instant) || member.ShiftEnd.After(deadline) {
				continue
			}

			replacement, found := s.findReplacement(instant)
			if found {
				key := seenKey(domain.NotificationTeamReplacement, member.ID, team.Name)
				if s.marked(key) {
					continue
				}
				id := s.ledger.Create(domain.TeamReplacementPayload{
					TeamName:       team.Name,
					LeavingID:      member.ID,
					LeavingName:    member.DisplayName(),
					LeaveAt:        member.ShiftEnd,
					JoiningID:      replacement.ID,
					JoiningName:    replacement.DisplayName(),
					JoinShiftStart: replacement.ShiftStart,
					JoinShiftEnd:   replacement.ShiftEnd,
				}, instant)
				s.emitted(key, domain.NotificationTeamReplacement, id)
				created = append(created, id)
				continue
			}

			key := seenKey(domain.NotificationTeamLeave, member.ID, team.Name)
			if s.marked(key) {
				continue
			}
			id := s.ledger.Create(domain.TeamLeavePayload{
				TeamName:          team.Name,
				EmployeeID:        member.ID,
				EmployeeName:      member.DisplayName(),
				LeaveAt:           member.ShiftEnd,
				RemainingTeamSize: team.Size - 1,
			}, instant)
			s.emitted(key, domain.NotificationTeamLeave, id)
			created = append(created, id)
		}
	}
	return created
}

// scanArrivals finds pool members whose shift started inside
// [instant-arrivalWindow, instant] and who sit on no team yet.
func (s *DetectorService) scanArrivals(instant time.Time) []int64 {
	var created []int64

	for _, arrival := range s.pool.StartedBetween(instant.Add(-s.policy.ArrivalWindow), instant) {
		if s.teams.MemberOfAnyTeam(arrival.ID) {
			continue
		}
		key := seenKey(domain.NotificationTeamJoin, arrival.ID, "")
		if s.marked(key) {
			continue
		}
		id := s.ledger.Create(domain.TeamJoinPayload{
			EmployeeID:    arrival.ID,
			EmployeeName:  arrival.DisplayName(),
			ShiftStart:    arrival.ShiftStart,
			ShiftEnd:      arrival.ShiftEnd,
			SuggestedTeam: s.teams.FirstTeamBelow(s.policy.IdealTeamSize),
		}, instant)
		s.emitted(key, domain.NotificationTeamJoin, id)
		created = append(created, id)
	}
	return created
}

// findReplacement returns the first pool member covering
// [instant, instant+departureWindow) who is not already on a team.
func (s *DetectorService) findReplacement(instant time.Time) (domain.StaffMember, bool) {
	for _, candidate := range s.pool.CoveringThrough(instant, instant.Add(s.policy.DepartureWindow)) {
		if !s.teams.MemberOfAnyTeam(candidate.ID) {
			return candidate, true
		}
	}
	return domain.StaffMember{}, false
}

func (s *DetectorService) marked(key string) bool {
	_, ok := s.seen[key]
	return ok
}

func (s *DetectorService) emitted(key string, kind domain.NotificationType, id int64) {
	s.seen[key] = struct{}{}
	s.metrics.RecordNotification(string(kind))
	s.logger.Info("staffing change detected",
		zap.String("type", string(kind)),
		zap.Int64("notification_id", id),
	)
}

func seenKey(kind domain.NotificationType, memberID, teamName string) string {
	return fmt.Sprintf("%s|%s|%s", kind, memberID, teamName)
}

func seenKeyFor(n domain.Notification) string {
	switch p := n.Payload.(type) {
	case domain.TeamJoinPayload:
		return seenKey(domain.NotificationTeamJoin, p.EmployeeID, "")
	case domain.TeamLeavePayload:
		return seenKey(domain.NotificationTeamLeave, p.EmployeeID, p.TeamName)
	case domain.TeamReplacementPayload:
		return seenKey(domain.NotificationTeamReplacement, p.LeavingID, p.TeamName)
	case domain.RemainderEmployeePayload:
		return seenKey(domain.NotificationRemainderEmployee, p.EmployeeID, "")
	}
	return seenKey(n.Type, "", "")
}
