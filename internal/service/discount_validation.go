package service

import (
	"fmt"
	"strings"

	"github.com/fairyhunter13/hotel-pricing/internal/model"
)

const (
	defaultMinNights = 1
	defaultMinGuests = 1
	maxPriority      = 10
)

// discountFromRequest maps a request onto a discount with defaults for every omitted field.
// Identity, usage counters and timestamps are left to the caller.
func discountFromRequest(req *model.DiscountRequest) (*model.Discount, error) {
	if req == nil || req.DiscountValue == nil {
		return nil, ErrInvalidRequest
	}

	d := &model.Discount{
		Name:                 strings.TrimSpace(req.Name),
		Description:          req.Description,
		DiscountType:         req.DiscountType,
		DiscountValue:        *req.DiscountValue,
		Location:             req.Location,
		ApplicableRooms:      nonNil(req.ApplicableRooms),
		ApplicableCategories: nonNil(req.ApplicableCategories),
		Validity: model.Validity{
			Type:              req.Validity.Type,
			ValidFrom:         req.Validity.ValidFrom,
			ValidUntil:        req.Validity.ValidUntil,
			DaysBeforeArrival: derefInt(req.Validity.DaysBeforeArrival, 0),
			IncludeArrivalDay: derefBool(req.Validity.IncludeArrivalDay, true),
		},
		Restrictions: model.Restrictions{
			MinNights:             derefInt(req.Restrictions.MinNights, defaultMinNights),
			MaxNights:             req.Restrictions.MaxNights,
			MinGuests:             derefInt(req.Restrictions.MinGuests, defaultMinGuests),
			MaxGuests:             req.Restrictions.MaxGuests,
			ValidDaysOfWeek:       nonNil(req.Restrictions.ValidDaysOfWeek),
			ApplicableForTourists: derefBool(req.Restrictions.ApplicableForTourists, true),
			ApplicableForIsraelis: derefBool(req.Restrictions.ApplicableForIsraelis, true),
		},
		Priority:   derefInt(req.Priority, 0),
		Combinable: derefBool(req.Combinable, true),
		UsageLimit: model.UsageLimit{MaxUses: req.MaxUses},
		IsActive:   derefBool(req.IsActive, true),
	}
	if d.Validity.Type == "" {
		d.Validity.Type = model.ValidityUnlimited
	}
	if d.Validity.Type != model.ValidityDateRange {
		d.Validity.ValidFrom = nil
		d.Validity.ValidUntil = nil
	}
	if d.Validity.Type != model.ValidityLastMinute {
		d.Validity.DaysBeforeArrival = 0
	}

	return d, nil
}

// validateDiscount rejects a discount that breaks a catalog invariant.
// Every write path calls it before persisting.
func validateDiscount(d *model.Discount) error {
	if d.Name == "" {
		return invalid("name is required")
	}

	switch d.DiscountType {
	case model.DiscountTypePercentage, model.DiscountTypeFixedAmount:
	default:
		return invalid("unknown discount_type %q", d.DiscountType)
	}
	if d.DiscountValue.IsNegative() {
		return invalid("discount_value must not be negative")
	}

	switch d.Location {
	case model.LocationSiteA, model.LocationSiteB, model.LocationBoth:
	default:
		return invalid("unknown location %q", d.Location)
	}

	if err := validateValidity(d.Validity); err != nil {
		return err
	}
	if err := validateRestrictions(d.Restrictions); err != nil {
		return err
	}

	if d.Priority < 0 || d.Priority > maxPriority {
		return invalid("priority must be between 0 and %d", maxPriority)
	}

	if d.UsageLimit.CurrentUses < 0 {
		return invalid("current_uses must not be negative")
	}
	if maxUses := d.UsageLimit.MaxUses; maxUses != nil {
		if *maxUses < 1 {
			return invalid("max_uses must be at least 1")
		}
		if d.UsageLimit.CurrentUses > *maxUses {
			return invalid("max_uses %d is below current_uses %d", *maxUses, d.UsageLimit.CurrentUses)
		}
	}

	return nil
}

func validateValidity(v model.Validity) error {
	switch v.Type {
	case model.ValidityUnlimited:
	case model.ValidityDateRange:
		if v.ValidFrom == nil || v.ValidUntil == nil {
			return invalid("date_range requires valid_from and valid_until")
		}
		if !v.ValidFrom.Before(*v.ValidUntil) {
			return invalid("valid_from must be before valid_until")
		}
	case model.ValidityLastMinute:
		if v.DaysBeforeArrival < 0 {
			return invalid("days_before_arrival must not be negative")
		}
	default:
		return invalid("unknown validity type %q", v.Type)
	}
	return nil
}

func validateRestrictions(r model.Restrictions) error {
	if r.MinNights < 1 {
		return invalid("min_nights must be at least 1")
	}
	if r.MaxNights != nil && *r.MaxNights < r.MinNights {
		return invalid("max_nights must not be below min_nights")
	}
	if r.MinGuests < 1 {
		return invalid("min_guests must be at least 1")
	}
	if r.MaxGuests != nil && *r.MaxGuests < r.MinGuests {
		return invalid("max_guests must not be below min_guests")
	}
	for _, day := range r.ValidDaysOfWeek {
		if day < 0 || day > 6 {
			return invalid("valid_days_of_week entries must be 0-6, got %d", day)
		}
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func derefInt(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

func derefBool(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}
