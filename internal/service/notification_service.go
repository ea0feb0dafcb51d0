package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/ramp-scheduler/internal/config"
	"github.com/spec-kit/ramp-scheduler/internal/events"
)

// NotificationService forwards scheduler events to outbound channels.
// Email and webhook delivery are stubs logged at debug level.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventShiftInitialized, n.handleShiftInitialized)
	n.dispatcher.Subscribe(events.EventFlightAssigned, n.handleFlightAssigned)
	n.dispatcher.Subscribe(events.EventAssignmentFailed, n.handleAssignmentFailed)
	n.dispatcher.Subscribe(events.EventNotificationCreated, n.handleNotificationCreated)
	n.dispatcher.Subscribe(events.EventNotificationResolved, n.handleNotificationResolved)
}

func (n *NotificationService) handleShiftInitialized(ctx context.Context, event events.Event) error {
	n.logger.Info("ShiftInitialized", zap.Time("sim_time", event.SimTime), zap.Any("payload", event.Payload))
	n.sendWebhookStub(ctx, event)
	return nil
}

func (n *NotificationService) handleFlightAssigned(ctx context.Context, event events.Event) error {
	n.logger.Info("FlightAssigned", zap.Time("sim_time", event.SimTime), zap.Any("payload", event.Payload))
	n.sendWebhookStub(ctx, event)
	return nil
}

func (n *NotificationService) handleAssignmentFailed(ctx context.Context, event events.Event) error {
	n.logger.Warn("AssignmentFailed", zap.Time("sim_time", event.SimTime), zap.Any("payload", event.Payload))
	n.sendWebhookStub(ctx, event)
	return nil
}

func (n *NotificationService) handleNotificationCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("NotificationCreated", zap.Time("sim_time", event.SimTime), zap.Any("payload", event.Payload))
	n.sendEmailStub(ctx, event)
	return nil
}

func (n *NotificationService) handleNotificationResolved(ctx context.Context, event events.Event) error {
	n.logger.Info("NotificationResolved", zap.Time("sim_time", event.SimTime), zap.Any("payload", event.Payload))
	n.sendWebhookStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("event_type", string(event.Type)))
}
