package handler

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/fairyhunter13/hotel-pricing/internal/model"
)

// UsageServiceInterface defines the usage ledger operations.
type UsageServiceInterface interface {
	RecordUsage(ctx context.Context, discountID uuid.UUID, bookingID string, originalPrice, discountAmount, finalPrice decimal.Decimal) error
	CancelUsage(ctx context.Context, discountID uuid.UUID, bookingID string) error
}

// UsageHandler handles HTTP requests that consume or release discount uses.
type UsageHandler struct {
	service   UsageServiceInterface
	validator *validator.Validate
}

// NewUsageHandler creates a new UsageHandler with the given service and validator.
func NewUsageHandler(svc UsageServiceInterface, v *validator.Validate) *UsageHandler {
	return &UsageHandler{service: svc, validator: v}
}

// Record handles POST /api/discounts/:id/usages.
// Ledger failures that outlive the retry budget answer 503 so the booking flow can retry.
func (h *UsageHandler) Record(c *fiber.Ctx) error {
	id, err := parseDiscountID(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	var req model.RecordUsageRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, formatValidationError(err))
	}

	err = h.service.RecordUsage(c.Context(), id, req.BookingID, *req.OriginalPrice, *req.DiscountAmount, *req.FinalPrice)
	if err != nil {
		return writeServiceError(c, err, fiber.StatusServiceUnavailable, "failed to record discount usage")
	}

	requestLog(c, log.Info()).
		Str("discount_id", id.String()).
		Str("booking_id", req.BookingID).
		Msg("discount usage recorded")

	return c.SendStatus(fiber.StatusCreated)
}

// Cancel handles DELETE /api/discounts/:id/usages/:bookingId.
func (h *UsageHandler) Cancel(c *fiber.Ctx) error {
	id, err := parseDiscountID(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	bookingID := c.Params("bookingId")
	if bookingID == "" {
		return badRequest(c, "invalid request: booking_id is required")
	}

	if err := h.service.CancelUsage(c.Context(), id, bookingID); err != nil {
		return writeServiceError(c, err, fiber.StatusServiceUnavailable, "failed to cancel discount usage")
	}

	requestLog(c, log.Info()).
		Str("discount_id", id.String()).
		Str("booking_id", bookingID).
		Msg("discount usage cancelled")

	return c.SendStatus(fiber.StatusNoContent)
}
