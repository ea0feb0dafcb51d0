package service

import (
	"context"
	"encoding/csv"
	"io"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/ramp-scheduler/internal/domain"
	"github.com/spec-kit/ramp-scheduler/internal/events"
	"github.com/spec-kit/ramp-scheduler/internal/ledger"
	"github.com/spec-kit/ramp-scheduler/internal/observability"
	"github.com/spec-kit/ramp-scheduler/internal/registry"
	"github.com/spec-kit/ramp-scheduler/internal/roster"
	apperrors "github.com/spec-kit/ramp-scheduler/pkg/util"
)

// SchedulerService is the orchestration layer: it owns the simulation clock
// and mediates every cross-component change. Registry and ledger never talk
// to each other directly; approved ledger changes are applied to the
// registry here.
//
// One mutex makes each operation a single exclusive transaction against the
// registry and ledger, which is the concurrency boundary the engine was
// designed around.
type SchedulerService struct {
	mu sync.Mutex

	pool       *roster.Pool
	teams      *registry.TeamRegistry
	ledger     *ledger.Ledger
	detector   *DetectorService
	engine     *AssignmentService
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger

	formation registry.FormationPolicy
	window    time.Duration

	clock       time.Time
	initialized bool
}

// SchedulerDependencies bundles the orchestration collaborators.
type SchedulerDependencies struct {
	Pool       *roster.Pool
	Teams      *registry.TeamRegistry
	Ledger     *ledger.Ledger
	Detector   *DetectorService
	Engine     *AssignmentService
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
	Formation  registry.FormationPolicy
	Window     time.Duration
}

// NewSchedulerService creates the service.
func NewSchedulerService(deps SchedulerDependencies) *SchedulerService {
	return &SchedulerService{
		pool:       deps.Pool,
		teams:      deps.Teams,
		ledger:     deps.Ledger,
		detector:   deps.Detector,
		engine:     deps.Engine,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     deps.Logger,
		formation:  deps.Formation,
		window:     deps.Window,
	}
}

// InitShift forms initial teams at the given instant (or the roster's
// earliest shift start) and sets the simulation clock. Remainder members
// each produce a remainder_employee notification for manual placement.
func (s *SchedulerService) InitShift(ctx context.Context, at *time.Time) ([]domain.Team, []domain.StaffMember, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	instant := time.Time{}
	if at != nil {
		instant = *at
	} else {
		earliest, ok := s.pool.EarliestStart()
		if !ok {
			return nil, nil, apperrors.NewNoStaffAvailable("roster is empty", nil)
		}
		instant = earliest
	}

	remainder, err := s.teams.FormInitialTeams(s.pool, instant, s.formation)
	if err != nil {
		return nil, nil, err
	}
	s.clock = instant
	s.initialized = true

	suggested := s.teams.FirstTeamBelow(s.formation.MinTeamSize + 1)
	for _, member := range remainder {
		id := s.ledger.Create(domain.RemainderEmployeePayload{
			EmployeeID:    member.ID,
			EmployeeName:  member.DisplayName(),
			ShiftStart:    member.ShiftStart,
			ShiftEnd:      member.ShiftEnd,
			SuggestedTeam: suggested,
		}, instant)
		s.publishNotificationCreated(ctx, instant, id, domain.NotificationRemainderEmployee)
	}

	teams := s.teamSnapshots()
	names := make([]string, 0, len(teams))
	active := 0
	for _, t := range teams {
		if t.Size > 0 {
			names = append(names, t.Name)
			active++
		}
	}
	s.logger.Info("shift initialized",
		zap.Time("instant", instant),
		zap.Int("teams", active),
		zap.Int("remainder", len(remainder)),
	)
	s.publish(ctx, events.EventShiftInitialized, instant, events.ShiftInitializedPayload{
		TeamCount:      active,
		TeamNames:      names,
		StaffOnShift:   len(s.pool.OnShift(instant)),
		RemainderCount: len(remainder),
	})
	return teams, remainder, nil
}

// Clock returns the current simulation instant.
func (s *SchedulerService) Clock() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clock
}

// AdvanceClock moves the simulation clock forward and runs the change
// detector at the new instant. Returns the new clock and the ids of any
// notifications created.
func (s *SchedulerService) AdvanceClock(ctx context.Context, step time.Duration) (time.Time, []int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return time.Time{}, nil, apperrors.NewConflict("shift not initialized", nil)
	}
	if step <= 0 {
		return time.Time{}, nil, apperrors.NewValidationError("step must be positive", nil)
	}

	s.clock = s.clock.Add(step)
	created := s.detector.DetectChanges(s.clock)
	for _, id := range created {
		if n, err := s.ledger.GetPending(id); err == nil {
			s.publishNotificationCreated(ctx, s.clock, id, n.Type)
		}
	}
	return s.clock, created, nil
}

// AssignWindow runs the assignment engine for the current clock. A zero
// window falls back to the configured one.
func (s *SchedulerService) AssignWindow(ctx context.Context, window time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return 0, apperrors.NewConflict("shift not initialized", nil)
	}
	if window <= 0 {
		window = s.window
	}
	return s.engine.AssignFlightsInWindow(ctx, s.clock, window), nil
}

// Approve applies one pending notification to the registry and resolves it.
// For join-style notifications the target team is the caller override or the
// stored suggestion; with neither the notification stays pending and
// InvalidOverride is returned so the caller can retry.
func (s *SchedulerService) Approve(ctx context.Context, id int64, teamOverride *string) (domain.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending, err := s.ledger.GetPending(id)
	if err != nil {
		return domain.Notification{}, err
	}

	switch p := pending.Payload.(type) {
	case domain.TeamReplacementPayload:
		joining, ok := s.pool.ByID(p.JoiningID)
		if !ok {
			return domain.Notification{}, apperrors.NewNotFound("replacement employee",
				map[string]any{"employee_id": p.JoiningID})
		}
		s.teams.ReplaceMember(p.TeamName, p.LeavingID, joining)
		s.publishTeamChanged(ctx, p.TeamName, "replacement", p.JoiningID)

	case domain.TeamLeavePayload:
		s.teams.RemoveMember(p.TeamName, p.EmployeeID)
		s.publishTeamChanged(ctx, p.TeamName, "leave", p.EmployeeID)

	case domain.TeamJoinPayload:
		target, err := resolveTarget(teamOverride, p.SuggestedTeam)
		if err != nil {
			return domain.Notification{}, err
		}
		if err := s.appendFromPool(ctx, target, p.EmployeeID, "join"); err != nil {
			return domain.Notification{}, err
		}

	case domain.RemainderEmployeePayload:
		target, err := resolveTarget(teamOverride, p.SuggestedTeam)
		if err != nil {
			return domain.Notification{}, err
		}
		if err := s.appendFromPool(ctx, target, p.EmployeeID, "join"); err != nil {
			return domain.Notification{}, err
		}
	}

	resolved, err := s.ledger.Approve(id, teamOverride, s.clock)
	if err != nil {
		return domain.Notification{}, err
	}
	s.metrics.RecordResolution(string(domain.NotificationApproved))
	s.logger.Info("notification approved", zap.Int64("notification_id", id), zap.String("type", string(resolved.Type)))
	s.publish(ctx, events.EventNotificationResolved, s.clock, events.NotificationResolvedPayload{
		NotificationID: id,
		Type:           resolved.Type,
		Status:         resolved.Status,
	})
	return resolved, nil
}

// Reject resolves the notification as rejected; team state is untouched and
// the detector may raise the condition again later.
func (s *SchedulerService) Reject(ctx context.Context, id int64, reason string) (domain.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	resolved, err := s.ledger.Reject(id, reason, s.clock)
	if err != nil {
		return domain.Notification{}, err
	}
	s.detector.Forget(resolved)
	s.metrics.RecordResolution(string(domain.NotificationRejected))
	s.logger.Info("notification rejected", zap.Int64("notification_id", id), zap.String("reason", reason))
	s.publish(ctx, events.EventNotificationResolved, s.clock, events.NotificationResolvedPayload{
		NotificationID: id,
		Type:           resolved.Type,
		Status:         resolved.Status,
	})
	return resolved, nil
}

// SwapMember manually moves an employee between teams.
func (s *SchedulerService) SwapMember(ctx context.Context, fromTeam, toTeam, employeeID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	moved := s.teams.SwapMember(fromTeam, toTeam, employeeID)
	if moved {
		s.publishTeamChanged(ctx, toTeam, "swap", employeeID)
	}
	return moved, nil
}

// Teams returns value snapshots of all teams in label order.
func (s *SchedulerService) Teams() []domain.Team {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.teamSnapshots()
}

// PendingNotifications returns formatted pending notifications.
func (s *SchedulerService) PendingNotifications() []domain.NotificationView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return formatAll(s.ledger.Pending())
}

// HistoryNotifications returns formatted resolved notifications.
func (s *SchedulerService) HistoryNotifications() []domain.NotificationView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return formatAll(s.ledger.History())
}

// Assignments returns the append-only assignment log.
func (s *SchedulerService) Assignments() []domain.Assignment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.teams.Assignments()
}

// MemberSchedule groups successful assignments by member display name.
func (s *SchedulerService) MemberSchedule() map[string][]domain.Assignment {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string][]domain.Assignment)
	for _, a := range s.teams.Assignments() {
		if !a.Success {
			continue
		}
		for _, name := range a.MemberNames {
			out[name] = append(out[name], a)
		}
	}
	for name := range out {
		entries := out[name]
		sort.SliceStable(entries, func(i, j int) bool { return entries[i].ETA.Before(entries[j].ETA) })
		out[name] = entries
	}
	return out
}

// Summary aggregates the operational dashboard counters.
type Summary struct {
	Clock                time.Time      `json:"clock"`
	TotalFlights         int            `json:"total_flights"`
	AssignedFlights      int            `json:"assigned_flights"`
	FailedFlights        int            `json:"failed_flights"`
	PendingNotifications int            `json:"pending_notifications"`
	ActiveTeams          int            `json:"active_teams"`
	TeamFlightCounts     map[string]int `json:"team_flight_counts"`
}

// Summarize builds the dashboard projection.
func (s *SchedulerService) Summarize() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	summary := Summary{
		Clock:                s.clock,
		TotalFlights:         len(s.engine.Flights()),
		PendingNotifications: s.ledger.PendingCount(),
		TeamFlightCounts:     make(map[string]int),
	}
	for _, a := range s.teams.Assignments() {
		if a.Success {
			summary.AssignedFlights++
		} else {
			summary.FailedFlights++
		}
	}
	for _, t := range s.teams.Teams() {
		if t.Size > 0 {
			summary.ActiveTeams++
			summary.TeamFlightCounts[t.Name] = t.FlightCount
		}
	}
	return summary
}

// ExportAssignments writes the assignment log as delimited text.
func (s *SchedulerService) ExportAssignments(w io.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cw := csv.NewWriter(w)
	header := []string{"flight_id", "route", "eta", "etd", "gate", "team", "team_size", "status", "reason"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, a := range s.teams.Assignments() {
		team := ""
		if a.TeamName != nil {
			team = *a.TeamName
		}
		status := "assigned"
		if !a.Success {
			status = "unassigned"
		}
		record := []string{
			a.FlightID,
			a.Route,
			a.ETA.Format("15:04"),
			a.ETD.Format("15:04"),
			a.Gate,
			team,
			strconv.Itoa(a.TeamSize),
			status,
			a.FailureReason,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (s *SchedulerService) teamSnapshots() []domain.Team {
	teams := s.teams.Teams()
	out := make([]domain.Team, 0, len(teams))
	for _, t := range teams {
		snapshot := *t
		snapshot.Members = append([]domain.StaffMember(nil), t.Members...)
		out = append(out, snapshot)
	}
	return out
}

func (s *SchedulerService) appendFromPool(ctx context.Context, teamName, employeeID, change string) error {
	if _, ok := s.teams.TeamByName(teamName); !ok {
		return apperrors.NewInvalidOverride("unknown target team", map[string]any{"team": teamName})
	}
	member, ok := s.pool.ByID(employeeID)
	if !ok {
		return apperrors.NewNotFound("employee", map[string]any{"employee_id": employeeID})
	}
	if !s.teams.AddMember(teamName, member) {
		return apperrors.NewConflict("employee already on the team",
			map[string]any{"employee_id": employeeID, "team": teamName})
	}
	s.publishTeamChanged(ctx, teamName, change, employeeID)
	return nil
}

func resolveTarget(override, suggested *string) (string, error) {
	if override != nil && *override != "" {
		return *override, nil
	}
	if suggested != nil && *suggested != "" {
		return *suggested, nil
	}
	return "", apperrors.NewInvalidOverride("a target team is required to approve this notification", nil)
}

func formatAll(notifications []domain.Notification) []domain.NotificationView {
	out := make([]domain.NotificationView, 0, len(notifications))
	for _, n := range notifications {
		out = append(out, domain.FormatNotification(n))
	}
	return out
}

func (s *SchedulerService) publishTeamChanged(ctx context.Context, teamName, change, employeeID string) {
	size := 0
	if t, ok := s.teams.TeamByName(teamName); ok {
		size = t.Size
	}
	s.publish(ctx, events.EventTeamChanged, s.clock, events.TeamChangedPayload{
		TeamName:   teamName,
		Change:     change,
		EmployeeID: employeeID,
		NewSize:    size,
	})
}

func (s *SchedulerService) publishNotificationCreated(ctx context.Context, simTime time.Time, id int64, kind domain.NotificationType) {
	s.publish(ctx, events.EventNotificationCreated, simTime, events.NotificationCreatedPayload{
		NotificationID: id,
		Type:           kind,
	})
}

func (s *SchedulerService) publish(ctx context.Context, eventType events.EventType, simTime time.Time, payload interface{}) {
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
