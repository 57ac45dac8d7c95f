package handler

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/fairyhunter13/hotel-pricing/internal/model"
)

// DiscountServiceInterface defines the catalog management operations.
type DiscountServiceInterface interface {
	Create(ctx context.Context, req *model.DiscountRequest) (*model.Discount, error)
	Update(ctx context.Context, id uuid.UUID, req *model.DiscountRequest) (*model.Discount, error)
	Get(ctx context.Context, id uuid.UUID) (*model.DiscountResponse, error)
	List(ctx context.Context) ([]model.DiscountResponse, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	Delete(ctx context.Context, id uuid.UUID) error
	UsageStats(ctx context.Context, id uuid.UUID) (*model.DiscountStats, error)
}

// DiscountHandler handles HTTP requests for the discount catalog.
type DiscountHandler struct {
	service   DiscountServiceInterface
	validator *validator.Validate
}

// NewDiscountHandler creates a new DiscountHandler with the given service and validator.
func NewDiscountHandler(svc DiscountServiceInterface, v *validator.Validate) *DiscountHandler {
	return &DiscountHandler{service: svc, validator: v}
}

// Create handles POST /api/discounts.
func (h *DiscountHandler) Create(c *fiber.Ctx) error {
	var req model.DiscountRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, formatValidationError(err))
	}

	discount, err := h.service.Create(c.Context(), &req)
	if err != nil {
		return writeServiceError(c, err, fiber.StatusInternalServerError, "failed to create discount")
	}

	requestLog(c, log.Info()).
		Str("discount_id", discount.ID.String()).
		Str("discount_name", discount.Name).
		Msg("discount created")

	return c.Status(fiber.StatusCreated).JSON(discount)
}

// List handles GET /api/discounts.
func (h *DiscountHandler) List(c *fiber.Ctx) error {
	discounts, err := h.service.List(c.Context())
	if err != nil {
		return writeServiceError(c, err, fiber.StatusInternalServerError, "failed to list discounts")
	}
	return c.JSON(discounts)
}

// Get handles GET /api/discounts/:id.
func (h *DiscountHandler) Get(c *fiber.Ctx) error {
	id, err := parseDiscountID(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	discount, err := h.service.Get(c.Context(), id)
	if err != nil {
		return writeServiceError(c, err, fiber.StatusInternalServerError, "failed to get discount")
	}
	return c.JSON(discount)
}

// Update handles PUT /api/discounts/:id.
func (h *DiscountHandler) Update(c *fiber.Ctx) error {
	id, err := parseDiscountID(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	var req model.DiscountRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, formatValidationError(err))
	}

	discount, err := h.service.Update(c.Context(), id, &req)
	if err != nil {
		return writeServiceError(c, err, fiber.StatusInternalServerError, "failed to update discount")
	}

	requestLog(c, log.Info()).Str("discount_id", id.String()).Msg("discount updated")
	return c.JSON(discount)
}

// SetActive handles PATCH /api/discounts/:id/active.
func (h *DiscountHandler) SetActive(c *fiber.Ctx) error {
	id, err := parseDiscountID(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	var req model.SetActiveRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, formatValidationError(err))
	}

	if err := h.service.SetActive(c.Context(), id, *req.IsActive); err != nil {
		return writeServiceError(c, err, fiber.StatusInternalServerError, "failed to toggle discount")
	}

	requestLog(c, log.Info()).
		Str("discount_id", id.String()).
		Bool("is_active", *req.IsActive).
		Msg("discount toggled")

	return c.JSON(fiber.Map{"id": id, "is_active": *req.IsActive})
}

// Delete handles DELETE /api/discounts/:id.
func (h *DiscountHandler) Delete(c *fiber.Ctx) error {
	id, err := parseDiscountID(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	if err := h.service.Delete(c.Context(), id); err != nil {
		return writeServiceError(c, err, fiber.StatusInternalServerError, "failed to delete discount")
	}

	requestLog(c, log.Info()).Str("discount_id", id.String()).Msg("discount deleted")
	return c.SendStatus(fiber.StatusNoContent)
}

// Stats handles GET /api/discounts/:id/stats.
func (h *DiscountHandler) Stats(c *fiber.Ctx) error {
	id, err := parseDiscountID(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	stats, err := h.service.UsageStats(c.Context(), id)
	if err != nil {
		return writeServiceError(c, err, fiber.StatusInternalServerError, "failed to get discount stats")
	}
	return c.JSON(stats)
}
