package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Room is a read-only rate snapshot supplied by the room catalog.
// Absent rate fields decode as zero.
type Room struct {
	ID               string           `json:"id" validate:"required,notblank,max=255"`
	Category         string           `json:"category" validate:"max=255"`
	Location         Location         `json:"location" validate:"omitempty,oneof=siteA siteB"`
	BasePrice        decimal.Decimal  `json:"base_price"`
	VatPrice         decimal.Decimal  `json:"vat_price"`
	FridayPrice      decimal.Decimal  `json:"friday_price"`
	FridayVatPrice   decimal.Decimal  `json:"friday_vat_price"`
	SaturdayPrice    *decimal.Decimal `json:"saturday_price,omitempty"`
	SaturdayVatPrice *decimal.Decimal `json:"saturday_vat_price,omitempty"`
	BaseOccupancy    int              `json:"base_occupancy"`
	ExtraGuestCharge decimal.Decimal  `json:"extra_guest_charge"`
}

// DiscountQuery describes a prospective stay for discount matching.
type DiscountQuery struct {
	Location     Location
	RoomID       string
	RoomCategory string
	CheckIn      time.Time
	CheckOut     time.Time
	Nights       int
	Guests       int
	IsTourist    bool
}

// PriceParams is the input of a full price resolution.
type PriceParams struct {
	Room      Room
	Location  Location
	CheckIn   time.Time
	CheckOut  time.Time
	Guests    int
	IsTourist bool
}

// AppliedDiscount is one discount layered onto a price, in application order.
type AppliedDiscount struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Type        DiscountType    `json:"type"`
	Value       decimal.Decimal `json:"value"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

// PriceResult is the outcome of a full price resolution.
type PriceResult struct {
	OriginalPrice      decimal.Decimal   `json:"original_price"`
	PricePerNight      decimal.Decimal   `json:"price_per_night"`
	FinalPrice         decimal.Decimal   `json:"final_price"`
	FinalPricePerNight decimal.Decimal   `json:"final_price_per_night"`
	TotalDiscount      decimal.Decimal   `json:"total_discount"`
	AppliedDiscounts   []AppliedDiscount `json:"applied_discounts"`
	HasDiscount        bool              `json:"has_discount"`
	SavingsPercentage  int64             `json:"savings_percentage"`
}

// QuoteRequest is the DTO for POST /api/pricing/quote.
// Dates are YYYY-MM-DD in the property time zone.
type QuoteRequest struct {
	Room      Room     `json:"room"`
	Location  Location `json:"location" validate:"omitempty,oneof=siteA siteB"`
	CheckIn   string   `json:"check_in" validate:"required,datetime=2006-01-02"`
	CheckOut  string   `json:"check_out" validate:"required,datetime=2006-01-02"`
	Nights    *int     `json:"nights" validate:"omitempty,gte=1"`
	Guests    int      `json:"guests" validate:"required,gte=1"`
	IsTourist bool     `json:"is_tourist"`
}

// ApplicableDiscountsRequest is the DTO for POST /api/pricing/discounts.
type ApplicableDiscountsRequest struct {
	Location     Location `json:"location" validate:"required,oneof=siteA siteB"`
	RoomID       string   `json:"room_id" validate:"max=255"`
	RoomCategory string   `json:"room_category" validate:"max=255"`
	CheckIn      string   `json:"check_in" validate:"required,datetime=2006-01-02"`
	CheckOut     string   `json:"check_out" validate:"required,datetime=2006-01-02"`
	Nights       *int     `json:"nights" validate:"omitempty,gte=1"`
	Guests       int      `json:"guests" validate:"required,gte=1"`
	IsTourist    bool     `json:"is_tourist"`
}
