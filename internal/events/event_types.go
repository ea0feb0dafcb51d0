package events

import (
	"time"

	"github.com/spec-kit/ramp-scheduler/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventShiftInitialized     EventType = "shift_initialized"
	EventFlightAssigned       EventType = "flight_assigned"
	EventAssignmentFailed     EventType = "assignment_failed"
	EventTeamChanged          EventType = "team_changed"
	EventNotificationCreated  EventType = "notification_created"
	EventNotificationResolved EventType = "notification_resolved"
)

// Event represents a domain event emitted by services. SimTime carries the
// simulation-clock instant the event refers to; Timestamp is wall time.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	SimTime   time.Time   `json:"sim_time"`
	Payload   interface{} `json:"payload"`
}

// ShiftInitializedPayload payload.
type ShiftInitializedPayload struct {
	TeamCount      int      `json:"team_count"`
	TeamNames      []string `json:"team_names"`
	StaffOnShift   int      `json:"staff_on_shift"`
	RemainderCount int      `json:"remainder_count"`
}

// FlightAssignedPayload payload.
type FlightAssignedPayload struct {
	FlightID  string   `json:"flight_id"`
	TeamName  string   `json:"team_name"`
	TeamSize  int      `json:"team_size"`
	Members   []string `json:"members"`
	Heaviness string   `json:"heaviness"`
}

// AssignmentFailedPayload payload.
type AssignmentFailedPayload struct {
	FlightID string `json:"flight_id"`
	Reason   string `json:"reason"`
}

// TeamChangedPayload payload.
type TeamChangedPayload struct {
	TeamName   string `json:"team_name"`
	Change     string `json:"change"`
	EmployeeID string `json:"employee_id"`
	NewSize    int    `json:"new_size"`
}

// NotificationCreatedPayload payload.
type NotificationCreatedPayload struct {
	NotificationID int64                   `json:"notification_id"`
	Type           domain.NotificationType `json:"type"`
}

// NotificationResolvedPayload payload.
type NotificationResolvedPayload struct {
	NotificationID int64                     `json:"notification_id"`
	Type           domain.NotificationType   `json:"type"`
	Status         domain.NotificationStatus `json:"status"`
}
