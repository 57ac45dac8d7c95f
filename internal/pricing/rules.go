package pricing

import (
	"math"
	"time"

	"github.com/fairyhunter13/hotel-pricing/internal/model"
)

// IsCurrentlyValid reports whether d is temporally eligible at now for a stay
// starting on checkIn. Calendar days are counted in loc.
func IsCurrentlyValid(d model.Discount, now, checkIn time.Time, loc *time.Location) bool {
	switch d.Validity.Type {
	case model.ValidityUnlimited, "":
		return true
	case model.ValidityDateRange:
		if d.Validity.ValidFrom != nil && now.Before(*d.Validity.ValidFrom) {
			return false
		}
		if d.Validity.ValidUntil != nil && now.After(*d.Validity.ValidUntil) {
			return false
		}
		return true
	case model.ValidityLastMinute:
		days := DaysUntil(now, checkIn, loc)
		if days < 0 {
			return false
		}
		if d.Validity.IncludeArrivalDay {
			return days <= d.Validity.DaysBeforeArrival
		}
		return days < d.Validity.DaysBeforeArrival
	default:
		return false
	}
}

// DaysUntil counts whole calendar days from now to checkIn in loc.
// It is negative when checkIn is already in the past.
func DaysUntil(now, checkIn time.Time, loc *time.Location) int {
	ny, nm, nd := now.In(loc).Date()
	cy, cm, cd := checkIn.In(loc).Date()
	from := time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC)
	to := time.Date(cy, cm, cd, 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}

// IsUsageCapReached reports whether a capped discount has been used up.
func IsUsageCapReached(d model.Discount) bool {
	return d.UsageLimit.MaxUses != nil && d.UsageLimit.CurrentUses >= *d.UsageLimit.MaxUses
}

// UsagePercentage is the share of the usage cap consumed, 0 for uncapped discounts.
func UsagePercentage(d model.Discount) float64 {
	if d.UsageLimit.MaxUses == nil || *d.UsageLimit.MaxUses <= 0 {
		return 0
	}
	pct := float64(d.UsageLimit.CurrentUses) / float64(*d.UsageLimit.MaxUses) * 100
	return math.Round(pct*100) / 100
}
