package http

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/ramp-scheduler/internal/observability"
	apperrors "github.com/spec-kit/ramp-scheduler/pkg/util"
)

// RegisterMiddlewares attaches global middlewares such as error handling and logging.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, timeout time.Duration) {
	if timeout > 0 {
		app.Use(requestTimeoutMiddleware(timeout))
	}
	app.Use(errorHandlingMiddleware(logger, metrics))
	app.Use(observability.RequestLogger(logger, metrics))
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// errorHandlingMiddleware renders every handler error as the standard
// envelope and recovers panics into a 500.
func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(nil)
			}
			if err == nil {
				return
			}
			if fiberErr, ok := err.(*fiber.Error); ok {
				err = writeErrorEnvelope(c, fiberErr.Code, "REQUEST_FAILED", fiberErr.Message, nil)
				return
			}

			domainErr := apperrors.ToDomainError(err)
			if metrics != nil {
				metrics.RecordError(c.Path(), c.Method(), domainErr.Code)
			}
			if domainErr.HTTPStatus >= 500 {
				logger.Error("request failed", zap.Error(domainErr))
			}
			err = writeErrorEnvelope(c, domainErr.HTTPStatus, domainErr.Code, domainErr.Message, domainErr.Details)
		}()
		return c.Next()
	}
}

func writeErrorEnvelope(c *fiber.Ctx, status int, code, message string, details map[string]any) error {
	body := fiber.Map{"code": code, "message": message}
	if len(details) > 0 {
		body["details"] = details
	}
	c.Status(status)
	_ = c.JSON(fiber.Map{"error": body})
	return nil
}
