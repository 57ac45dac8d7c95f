package handler

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/fairyhunter13/hotel-pricing/internal/service"
)

const dateLayout = "2006-01-02"

// formatValidationError converts the first validator error into a client message.
// Field names are the json names registered by internal/validator.
func formatValidationError(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return "invalid request"
	}

	fe := ve[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return "invalid request: " + field + " is required"
	case "notblank":
		return "invalid request: " + field + " cannot be whitespace only"
	case "max":
		return fmt.Sprintf("invalid request: %s exceeds maximum length of %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("invalid request: %s must be at least %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("invalid request: %s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("invalid request: %s must be one of [%s]", field, fe.Param())
	case "weekday":
		return "invalid request: " + field + " must contain days 0 (Sunday) to 6 (Saturday)"
	case "datetime":
		return "invalid request: " + field + " must be a YYYY-MM-DD date"
	default:
		return "invalid request: " + field + " is invalid"
	}
}

// requestLog starts a log event carrying the request identity.
func requestLog(c *fiber.Ctx, ev *zerolog.Event) *zerolog.Event {
	return ev.
		Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
		Str("method", c.Method()).
		Str("path", c.Path())
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

// parseDiscountID reads the :id route parameter.
func parseDiscountID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, errors.New("invalid request: id must be a UUID")
	}
	return id, nil
}

// writeServiceError maps service sentinels to HTTP responses.
// Unmapped errors are logged and answered with fallbackStatus.
func writeServiceError(c *fiber.Ctx, err error, fallbackStatus int, msg string) error {
	switch {
	case errors.Is(err, service.ErrDiscountNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "discount not found"})
	case errors.Is(err, service.ErrUsageNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "usage not found"})
	case errors.Is(err, service.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidRequest):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	case errors.Is(err, service.ErrUsageLimitReached):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "discount usage limit reached"})
	case errors.Is(err, service.ErrDiscountInUse):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "discount has been used, deactivate it instead"})
	}

	requestLog(c, log.Error().Err(err)).Msg(msg)
	if fallbackStatus == fiber.StatusServiceUnavailable {
		return c.Status(fallbackStatus).JSON(fiber.Map{"error": "service temporarily unavailable"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
}
