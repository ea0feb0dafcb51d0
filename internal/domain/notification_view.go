package domain

import (
	"fmt"
	"time"
)

// NotificationView is the human-readable projection of a notification used
// by the presentation layer.
type NotificationView struct {
	ID                   int64
	Type                 NotificationType
	Status               NotificationStatus
	Time                 string
	Title                string
	Message              string
	Details              map[string]string
	AllowManualSelection bool
}

const clockLayout = "15:04"

// FormatNotification renders one notification per payload variant.
func FormatNotification(n Notification) NotificationView {
	view := NotificationView{
		ID:     n.ID,
		Type:   n.Type,
		Status: n.Status,
		Time:   n.CreatedAt.Format("15:04:05"),
	}

	switch p := n.Payload.(type) {
	case TeamJoinPayload:
		view.Title = "Team Member Joining"
		view.Message = fmt.Sprintf("%s is joining Team %s", p.EmployeeName, teamOrTBD(p.SuggestedTeam))
		view.Details = map[string]string{
			"Employee": p.EmployeeName,
			"Team":     teamOrTBD(p.SuggestedTeam),
			"Shift":    shiftRange(p.ShiftStart, p.ShiftEnd),
		}
		view.AllowManualSelection = true
	case TeamReplacementPayload:
		view.Title = "Team Member Replacement"
		view.Message = fmt.Sprintf("%s will replace %s on Team %s at %s",
			p.JoiningName, p.LeavingName, p.TeamName, p.LeaveAt.Format(clockLayout))
		view.Details = map[string]string{
			"Team":             p.TeamName,
			"Leaving":          p.LeavingName,
			"Leaving At":       p.LeaveAt.Format(clockLayout),
			"Joining":          p.JoiningName,
			"New Member Shift": shiftRange(p.JoinShiftStart, p.JoinShiftEnd),
		}
	case TeamLeavePayload:
		view.Title = "Team Member Leaving"
		view.Message = fmt.Sprintf("%s is leaving Team %s (no replacement available)", p.EmployeeName, p.TeamName)
		view.Details = map[string]string{
			"Employee":        p.EmployeeName,
			"Team":            p.TeamName,
			"Leaving At":      p.LeaveAt.Format(clockLayout),
			"Team Size After": fmt.Sprintf("%d", p.RemainingTeamSize),
		}
	case RemainderEmployeePayload:
		view.Title = "Unassigned Employee Needs Team"
		view.Message = fmt.Sprintf("%s needs to be assigned to a team", p.EmployeeName)
		view.Details = map[string]string{
			"Employee":       p.EmployeeName,
			"Shift":          shiftRange(p.ShiftStart, p.ShiftEnd),
			"Suggested Team": teamOrTBD(p.SuggestedTeam),
		}
		view.AllowManualSelection = true
	}

	return view
}

func teamOrTBD(team *string) string {
	if team == nil || *team == "" {
		return "TBD"
	}
	return *team
}

func shiftRange(start, end time.Time) string {
	return start.Format(clockLayout) + " - " + end.Format(clockLayout)
}
