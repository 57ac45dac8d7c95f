package handler

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/fairyhunter13/hotel-pricing/internal/model"
	"github.com/fairyhunter13/hotel-pricing/internal/pricing"
)

// PricingServiceInterface defines the price resolution operations.
type PricingServiceInterface interface {
	CalculatePriceWithDiscounts(ctx context.Context, params model.PriceParams) model.PriceResult
	ListApplicableDiscounts(ctx context.Context, q model.DiscountQuery) ([]model.Discount, error)
}

// PricingHandler handles HTTP requests for price quotes.
// Stay dates are parsed in the property time zone.
type PricingHandler struct {
	service   PricingServiceInterface
	validator *validator.Validate
	loc       *time.Location
}

// NewPricingHandler creates a new PricingHandler.
func NewPricingHandler(svc PricingServiceInterface, v *validator.Validate, loc *time.Location) *PricingHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &PricingHandler{service: svc, validator: v, loc: loc}
}

// Quote handles POST /api/pricing/quote.
// The response is always a price: discount resolution failures degrade to the undiscounted price.
func (h *PricingHandler) Quote(c *fiber.Ctx) error {
	var req model.QuoteRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, formatValidationError(err))
	}
	if req.Location == "" && req.Room.Location == "" {
		return badRequest(c, "invalid request: location is required")
	}

	checkIn, checkOut, err := h.parseStay(req.CheckIn, req.CheckOut)
	if err != nil {
		return badRequest(c, err.Error())
	}
	if _, err := stayNights(req.Nights, checkIn, checkOut); err != nil {
		return badRequest(c, err.Error())
	}

	result := h.service.CalculatePriceWithDiscounts(c.Context(), model.PriceParams{
		Room:      req.Room,
		Location:  req.Location,
		CheckIn:   checkIn,
		CheckOut:  checkOut,
		Guests:    req.Guests,
		IsTourist: req.IsTourist,
	})

	requestLog(c, log.Debug()).
		Str("room_id", req.Room.ID).
		Str("original_price", result.OriginalPrice.String()).
		Str("final_price", result.FinalPrice.String()).
		Int("applied_discounts", len(result.AppliedDiscounts)).
		Msg("price quoted")

	return c.JSON(result)
}

// ListApplicable handles POST /api/pricing/discounts.
func (h *PricingHandler) ListApplicable(c *fiber.Ctx) error {
	var req model.ApplicableDiscountsRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, formatValidationError(err))
	}

	checkIn, checkOut, err := h.parseStay(req.CheckIn, req.CheckOut)
	if err != nil {
		return badRequest(c, err.Error())
	}
	nights, err := stayNights(req.Nights, checkIn, checkOut)
	if err != nil {
		return badRequest(c, err.Error())
	}

	discounts, err := h.service.ListApplicableDiscounts(c.Context(), model.DiscountQuery{
		Location:     req.Location,
		RoomID:       req.RoomID,
		RoomCategory: req.RoomCategory,
		CheckIn:      checkIn,
		CheckOut:     checkOut,
		Nights:       nights,
		Guests:       req.Guests,
		IsTourist:    req.IsTourist,
	})
	if err != nil {
		return writeServiceError(c, err, fiber.StatusServiceUnavailable, "failed to list applicable discounts")
	}
	return c.JSON(discounts)
}

func (h *PricingHandler) parseStay(checkIn, checkOut string) (time.Time, time.Time, error) {
	in, err := time.ParseInLocation(dateLayout, checkIn, h.loc)
	if err != nil {
		return time.Time{}, time.Time{}, errInvalidDate("check_in")
	}
	out, err := time.ParseInLocation(dateLayout, checkOut, h.loc)
	if err != nil {
		return time.Time{}, time.Time{}, errInvalidDate("check_out")
	}
	return in, out, nil
}

type errInvalidDate string

func (e errInvalidDate) Error() string {
	return "invalid request: " + string(e) + " must be a YYYY-MM-DD date"
}

var errNightsMismatch = errors.New("invalid request: nights does not match check_in and check_out")

// stayNights derives the night count from the dates. A supplied count must agree with it.
func stayNights(supplied *int, checkIn, checkOut time.Time) (int, error) {
	nights := pricing.NightsBetween(checkIn, checkOut)
	if supplied != nil && *supplied != nights {
		return 0, errNightsMismatch
	}
	return nights, nil
}
