package domain

import "time"

// NotificationType enumerates staffing-change notification kinds.
type NotificationType string

const (
	NotificationTeamJoin          NotificationType = "team_join"
	NotificationTeamLeave         NotificationType = "team_leave"
	NotificationTeamReplacement   NotificationType = "team_replacement"
	NotificationRemainderEmployee NotificationType = "remainder_employee"
)

// NotificationStatus tracks the approval state machine. Pending is the only
// non-terminal state; a resolved notification is never resolved again.
type NotificationStatus string

const (
	NotificationPending  NotificationStatus = "pending"
	NotificationApproved NotificationStatus = "approved"
	NotificationRejected NotificationStatus = "rejected"
)

// NotificationPayload is the tagged union of per-type payloads. Every place
// that interprets a notification switches exhaustively on the concrete type.
type NotificationPayload interface {
	Kind() NotificationType
}

// TeamJoinPayload announces a pool member who just started a shift and is
// not on any team.
type TeamJoinPayload struct {
	EmployeeID    string
	EmployeeName  string
	ShiftStart    time.Time
	ShiftEnd      time.Time
	SuggestedTeam *string
}

func (TeamJoinPayload) Kind() NotificationType { return NotificationTeamJoin }

// TeamLeavePayload announces a member leaving with no replacement found.
type TeamLeavePayload struct {
	TeamName          string
	EmployeeID        string
	EmployeeName      string
	LeaveAt           time.Time
	RemainingTeamSize int
}

func (TeamLeavePayload) Kind() NotificationType { return NotificationTeamLeave }

// TeamReplacementPayload pairs a departing member with a pool member whose
// shift covers the gap.
type TeamReplacementPayload struct {
	TeamName       string
	LeavingID      string
	LeavingName    string
	LeaveAt        time.Time
	JoiningID      string
	JoiningName    string
	JoinShiftStart time.Time
	JoinShiftEnd   time.Time
}

func (TeamReplacementPayload) Kind() NotificationType { return NotificationTeamReplacement }

// RemainderEmployeePayload flags a member left unallocated by initial
// formation; approval places them on a team chosen by the operator.
type RemainderEmployeePayload struct {
	EmployeeID    string
	EmployeeName  string
	ShiftStart    time.Time
	ShiftEnd      time.Time
	SuggestedTeam *string
}

func (RemainderEmployeePayload) Kind() NotificationType { return NotificationRemainderEmployee }

// Notification is one pending or resolved change request. Owned exclusively
// by the ledger; ids are assigned monotonically.
type Notification struct {
	ID           int64
	Type         NotificationType
	Status       NotificationStatus
	Payload      NotificationPayload
	CreatedAt    time.Time
	ResolvedAt   *time.Time
	RejectReason string
	TeamOverride *string
}
