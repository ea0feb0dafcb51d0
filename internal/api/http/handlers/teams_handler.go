package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ramp-scheduler/internal/api/dto"
	"github.com/spec-kit/ramp-scheduler/internal/service"
)

// TeamsHandler exposes team state and manual adjustments.
type TeamsHandler struct {
	scheduler *service.SchedulerService
}

// NewTeamsHandler constructs handler.
func NewTeamsHandler(scheduler *service.SchedulerService) *TeamsHandler {
	return &TeamsHandler{scheduler: scheduler}
}

// List handles GET /teams.
func (h *TeamsHandler) List(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": teamResponses(h.scheduler.Teams())})
}

// Swap handles POST /teams/swap.
func (h *TeamsHandler) Swap(c *fiber.Ctx) error {
	var req dto.SwapMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.FromTeam == "" || req.ToTeam == "" || req.EmployeeID == "" {
		return fiber.NewError(http.StatusBadRequest, "from_team, to_team and employee_id required")
	}

	moved, err := h.scheduler.SwapMember(c.UserContext(), req.FromTeam, req.ToTeam, req.EmployeeID)
	if err != nil {
		return err
	}
	if !moved {
		return fiber.NewError(http.StatusNotFound, "employee not found on source team")
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"moved": true}})
}
