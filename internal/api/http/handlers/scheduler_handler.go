package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ramp-scheduler/internal/api/dto"
	"github.com/spec-kit/ramp-scheduler/internal/domain"
	"github.com/spec-kit/ramp-scheduler/internal/service"
)

// SchedulerHandler drives the simulation clock and the assignment engine.
type SchedulerHandler struct {
	scheduler *service.SchedulerService
}

// NewSchedulerHandler constructs handler.
func NewSchedulerHandler(scheduler *service.SchedulerService) *SchedulerHandler {
	return &SchedulerHandler{scheduler: scheduler}
}

// InitShift handles POST /scheduler/shift/init.
func (h *SchedulerHandler) InitShift(c *fiber.Ctx) error {
	var req dto.InitShiftRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(http.StatusBadRequest, "invalid payload")
		}
	}

	teams, remainder, err := h.scheduler.InitShift(c.UserContext(), req.Instant)
	if err != nil {
		return err
	}

	remainderNames := make([]string, 0, len(remainder))
	for _, m := range remainder {
		remainderNames = append(remainderNames, m.DisplayName())
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"clock":     h.scheduler.Clock(),
			"teams":     teamResponses(teams),
			"remainder": remainderNames,
		},
	})
}

// AdvanceClock handles POST /scheduler/clock/advance.
func (h *SchedulerHandler) AdvanceClock(c *fiber.Ctx) error {
	var req dto.AdvanceClockRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	clock, created, err := h.scheduler.AdvanceClock(c.UserContext(), time.Duration(req.Minutes)*time.Minute)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"clock":                 clock,
			"notifications_created": created,
		},
	})
}

// AssignWindow handles POST /scheduler/assign.
func (h *SchedulerHandler) AssignWindow(c *fiber.Ctx) error {
	var req dto.AssignWindowRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(http.StatusBadRequest, "invalid payload")
		}
	}

	processed, err := h.scheduler.AssignWindow(c.UserContext(), time.Duration(req.WindowHours)*time.Hour)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"processed": processed,
			"clock":     h.scheduler.Clock(),
		},
	})
}

// Summary handles GET /scheduler/summary.
func (h *SchedulerHandler) Summary(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.scheduler.Summarize()})
}

func teamResponses(teams []domain.Team) []dto.TeamResponse {
	out := make([]dto.TeamResponse, 0, len(teams))
	for _, t := range teams {
		status := "Available"
		if t.CurrentFlightID != nil {
			status = "On Flight"
		}
		out = append(out, dto.TeamResponse{
			Name:          t.Name,
			Size:          t.Size,
			Members:       t.MemberNames(),
			FlightCount:   t.FlightCount,
			CurrentStatus: status,
			LastFlightEnd: t.LastFlightEnd,
		})
	}
	return out
}
