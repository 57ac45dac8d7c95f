package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DiscountType selects how a discount value is applied to a price.
type DiscountType string

const (
	DiscountTypePercentage  DiscountType = "percentage"
	DiscountTypeFixedAmount DiscountType = "fixed_amount"
)

// Location identifies a property. LocationBoth is the wildcard for rules.
type Location string

const (
	LocationSiteA Location = "siteA"
	LocationSiteB Location = "siteB"
	LocationBoth  Location = "both"
)

// ValidityType governs when a discount is temporally eligible.
type ValidityType string

const (
	ValidityUnlimited  ValidityType = "unlimited"
	ValidityDateRange  ValidityType = "date_range"
	ValidityLastMinute ValidityType = "last_minute"
)

// Validity holds the temporal window of a discount.
// ValidFrom/ValidUntil are used by date_range, DaysBeforeArrival/IncludeArrivalDay by last_minute.
type Validity struct {
	Type              ValidityType `json:"type"`
	ValidFrom         *time.Time   `json:"valid_from,omitempty"`
	ValidUntil        *time.Time   `json:"valid_until,omitempty"`
	DaysBeforeArrival int          `json:"days_before_arrival"`
	IncludeArrivalDay bool         `json:"include_arrival_day"`
}

// Restrictions bounds the stays a discount applies to.
// A nil max bound and an empty ValidDaysOfWeek mean no constraint.
type Restrictions struct {
	MinNights             int   `json:"min_nights"`
	MaxNights             *int  `json:"max_nights,omitempty"`
	MinGuests             int   `json:"min_guests"`
	MaxGuests             *int  `json:"max_guests,omitempty"`
	ValidDaysOfWeek       []int `json:"valid_days_of_week"`
	ApplicableForTourists bool  `json:"applicable_for_tourists"`
	ApplicableForIsraelis bool  `json:"applicable_for_israelis"`
}

// UsageLimit is the usage cap and its counter. MaxUses nil means uncapped.
type UsageLimit struct {
	MaxUses     *int `json:"max_uses,omitempty"`
	CurrentUses int  `json:"current_uses"`
}

// UsageEntry records one consumption of a discount by a booking.
type UsageEntry struct {
	BookingID      string          `json:"booking_id"`
	UsedAt         time.Time       `json:"used_at"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	OriginalPrice  decimal.Decimal `json:"original_price"`
	FinalPrice     decimal.Decimal `json:"final_price"`
}

// Discount is a promotional rule in the catalog.
type Discount struct {
	ID                   uuid.UUID       `json:"id"`
	Name                 string          `json:"name"`
	Description          string          `json:"description"`
	DiscountType         DiscountType    `json:"discount_type"`
	DiscountValue        decimal.Decimal `json:"discount_value"`
	Location             Location        `json:"location"`
	ApplicableRooms      []string        `json:"applicable_rooms"`
	ApplicableCategories []string        `json:"applicable_categories"`
	Validity             Validity        `json:"validity"`
	Restrictions         Restrictions    `json:"restrictions"`
	Priority             int             `json:"priority"`
	Combinable           bool            `json:"combinable"`
	UsageLimit           UsageLimit      `json:"usage_limit"`
	UsageHistory         []UsageEntry    `json:"usage_history,omitempty"`
	IsActive             bool            `json:"is_active"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// DiscountResponse is the API response DTO for a single discount.
type DiscountResponse struct {
	Discount
	UsagePercentage float64 `json:"usage_percentage"`
}

// DiscountStats summarizes the usage ledger of one discount.
type DiscountStats struct {
	DiscountID      uuid.UUID       `json:"discount_id"`
	TotalUses       int             `json:"total_uses"`
	CurrentUses     int             `json:"current_uses"`
	MaxUses         *int            `json:"max_uses,omitempty"`
	UsagePercentage float64         `json:"usage_percentage"`
	TotalSavings    decimal.Decimal `json:"total_savings"`
}

// ValidityRequest is the validity part of DiscountRequest.
type ValidityRequest struct {
	Type              ValidityType `json:"type" validate:"omitempty,oneof=unlimited date_range last_minute"`
	ValidFrom         *time.Time   `json:"valid_from"`
	ValidUntil        *time.Time   `json:"valid_until"`
	DaysBeforeArrival *int         `json:"days_before_arrival" validate:"omitempty,gte=0"`
	IncludeArrivalDay *bool        `json:"include_arrival_day"`
}

// RestrictionsRequest is the restrictions part of DiscountRequest.
type RestrictionsRequest struct {
	MinNights             *int  `json:"min_nights" validate:"omitempty,gte=1"`
	MaxNights             *int  `json:"max_nights" validate:"omitempty,gte=1"`
	MinGuests             *int  `json:"min_guests" validate:"omitempty,gte=1"`
	MaxGuests             *int  `json:"max_guests" validate:"omitempty,gte=1"`
	ValidDaysOfWeek       []int `json:"valid_days_of_week" validate:"omitempty,dive,weekday"`
	ApplicableForTourists *bool `json:"applicable_for_tourists"`
	ApplicableForIsraelis *bool `json:"applicable_for_israelis"`
}

// DiscountRequest is the DTO for creating or replacing a discount.
// Usage counters are never accepted from clients.
type DiscountRequest struct {
	Name                 string              `json:"name" validate:"required,notblank,max=255"`
	Description          string              `json:"description" validate:"max=2000"`
	DiscountType         DiscountType        `json:"discount_type" validate:"required,oneof=percentage fixed_amount"`
	DiscountValue        *decimal.Decimal    `json:"discount_value" validate:"required"`
	Location             Location            `json:"location" validate:"required,oneof=siteA siteB both"`
	ApplicableRooms      []string            `json:"applicable_rooms" validate:"omitempty,dive,notblank"`
	ApplicableCategories []string            `json:"applicable_categories" validate:"omitempty,dive,notblank"`
	Validity             ValidityRequest     `json:"validity"`
	Restrictions         RestrictionsRequest `json:"restrictions"`
	Priority             *int                `json:"priority" validate:"omitempty,gte=0,lte=10"`
	Combinable           *bool               `json:"combinable"`
	MaxUses              *int                `json:"max_uses" validate:"omitempty,gte=1"`
	IsActive             *bool               `json:"is_active"`
}

// SetActiveRequest is the DTO for toggling a discount on or off.
type SetActiveRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

// RecordUsageRequest is the DTO the booking flow posts when a booking consumes a discount.
type RecordUsageRequest struct {
	BookingID      string           `json:"booking_id" validate:"required,notblank,max=255"`
	OriginalPrice  *decimal.Decimal `json:"original_price" validate:"required"`
	DiscountAmount *decimal.Decimal `json:"discount_amount" validate:"required"`
	FinalPrice     *decimal.Decimal `json:"final_price" validate:"required"`
}
