package dto

import "time"

// InitShiftRequest payload. Instant is optional; when absent the shift
// starts at the roster's earliest shift start.
type InitShiftRequest struct {
	Instant *time.Time `json:"instant,omitempty"`
}

// AdvanceClockRequest payload.
type AdvanceClockRequest struct {
	Minutes int `json:"minutes"`
}

// AssignWindowRequest payload. Zero WindowHours uses the configured window.
type AssignWindowRequest struct {
	WindowHours int `json:"window_hours"`
}

// SwapMemberRequest payload.
type SwapMemberRequest struct {
	FromTeam   string `json:"from_team"`
	ToTeam     string `json:"to_team"`
	EmployeeID string `json:"employee_id"`
}

// ApproveNotificationRequest payload.
type ApproveNotificationRequest struct {
	TeamOverride *string `json:"team_override,omitempty"`
}

// RejectNotificationRequest payload.
type RejectNotificationRequest struct {
	Reason string `json:"reason,omitempty"`
}

// TeamResponse is the team projection returned by the API.
type TeamResponse struct {
	Name          string     `json:"name"`
	Size          int        `json:"size"`
	Members       []string   `json:"members"`
	FlightCount   int        `json:"flight_count"`
	CurrentStatus string     `json:"current_status"`
	LastFlightEnd *time.Time `json:"last_flight_end,omitempty"`
}

// AssignmentResponse is the assignment-log projection.
type AssignmentResponse struct {
	FlightID     string    `json:"flight_id"`
	Route        string    `json:"route"`
	Aircraft     string    `json:"aircraft,omitempty"`
	Gate         string    `json:"gate"`
	ETA          time.Time `json:"eta"`
	ETD          time.Time `json:"etd"`
	Heaviness    string    `json:"heaviness"`
	RequiredSize int       `json:"required_size"`
	Team         *string   `json:"team"`
	TeamSize     int       `json:"team_size,omitempty"`
	Members      []string  `json:"members,omitempty"`
	Success      bool      `json:"success"`
	Reason       string    `json:"reason,omitempty"`
}
