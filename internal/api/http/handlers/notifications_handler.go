package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ramp-scheduler/internal/api/dto"
	"github.com/spec-kit/ramp-scheduler/internal/service"
)

// NotificationsHandler exposes the ledger's queue and resolution actions.
type NotificationsHandler struct {
	scheduler *service.SchedulerService
}

// NewNotificationsHandler constructs handler.
func NewNotificationsHandler(scheduler *service.SchedulerService) *NotificationsHandler {
	return &NotificationsHandler{scheduler: scheduler}
}

// Pending handles GET /notifications/pending.
func (h *NotificationsHandler) Pending(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.scheduler.PendingNotifications()})
}

// History handles GET /notifications/history.
func (h *NotificationsHandler) History(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.scheduler.HistoryNotifications()})
}

// Approve handles POST /notifications/:id/approve.
func (h *NotificationsHandler) Approve(c *fiber.Ctx) error {
	id, err := notificationID(c)
	if err != nil {
		return err
	}

	var req dto.ApproveNotificationRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(http.StatusBadRequest, "invalid payload")
		}
	}

	resolved, err := h.scheduler.Approve(c.UserContext(), id, req.TeamOverride)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"notification_id": resolved.ID,
			"status":          resolved.Status,
		},
	})
}

// Reject handles POST /notifications/:id/reject.
func (h *NotificationsHandler) Reject(c *fiber.Ctx) error {
	id, err := notificationID(c)
	if err != nil {
		return err
	}

	var req dto.RejectNotificationRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(http.StatusBadRequest, "invalid payload")
		}
	}

	resolved, err := h.scheduler.Reject(c.UserContext(), id, req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"notification_id": resolved.ID,
			"status":          resolved.Status,
		},
	})
}

func notificationID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return 0, fiber.NewError(http.StatusBadRequest, "invalid notification id")
	}
	return id, nil
}
