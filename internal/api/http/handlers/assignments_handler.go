package handlers

import (
	"bytes"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ramp-scheduler/internal/api/dto"
	"github.com/spec-kit/ramp-scheduler/internal/domain"
	"github.com/spec-kit/ramp-scheduler/internal/service"
)

// AssignmentsHandler exposes the assignment log projections.
type AssignmentsHandler struct {
	scheduler *service.SchedulerService
}

// NewAssignmentsHandler constructs handler.
func NewAssignmentsHandler(scheduler *service.SchedulerService) *AssignmentsHandler {
	return &AssignmentsHandler{scheduler: scheduler}
}

// List handles GET /assignments.
func (h *AssignmentsHandler) List(c *fiber.Ctx) error {
	log := h.scheduler.Assignments()
	out := make([]dto.AssignmentResponse, 0, len(log))
	for _, a := range log {
		out = append(out, assignmentResponse(a))
	}
	return c.JSON(fiber.Map{"data": out})
}

// ByMember handles GET /assignments/by-member.
func (h *AssignmentsHandler) ByMember(c *fiber.Ctx) error {
	grouped := h.scheduler.MemberSchedule()
	out := make(map[string][]dto.AssignmentResponse, len(grouped))
	for name, entries := range grouped {
		views := make([]dto.AssignmentResponse, 0, len(entries))
		for _, a := range entries {
			views = append(views, assignmentResponse(a))
		}
		out[name] = views
	}
	return c.JSON(fiber.Map{"data": out})
}

// Export handles GET /assignments/export, returning the log as CSV.
func (h *AssignmentsHandler) Export(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := h.scheduler.ExportAssignments(&buf); err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="daily_schedule.csv"`)
	return c.Send(buf.Bytes())
}

func assignmentResponse(a domain.Assignment) dto.AssignmentResponse {
	return dto.AssignmentResponse{
		FlightID:     a.FlightID,
		Route:        a.Route,
		Aircraft:     a.Aircraft,
		Gate:         a.Gate,
		ETA:          a.ETA,
		ETD:          a.ETD,
		Heaviness:    string(a.Heaviness),
		RequiredSize: a.RequiredSize,
		Team:         a.TeamName,
		TeamSize:     a.TeamSize,
		Members:      a.MemberNames,
		Success:      a.Success,
		Reason:       a.FailureReason,
	}
}
