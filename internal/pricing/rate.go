package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fairyhunter13/hotel-pricing/internal/model"
)

// NightlyRate selects the room rate billed for the night starting on day.
// Tourists pay the VAT-exempt rate, everyone else the VAT-inclusive one.
// Saturday uses the dedicated Saturday rate when the room has one and the
// Friday rate of the same traveler class otherwise.
func NightlyRate(room model.Room, day time.Time, isTourist bool) decimal.Decimal {
	switch day.Weekday() {
	case time.Friday:
		if isTourist {
			return room.FridayPrice
		}
		return room.FridayVatPrice
	case time.Saturday:
		if isTourist {
			if room.SaturdayPrice != nil {
				return *room.SaturdayPrice
			}
			return room.FridayPrice
		}
		if room.SaturdayVatPrice != nil {
			return *room.SaturdayVatPrice
		}
		return room.FridayVatPrice
	default:
		if isTourist {
			return room.BasePrice
		}
		return room.VatPrice
	}
}

// ExtraGuestSurcharge is the per-night charge for guests above the base occupancy.
func ExtraGuestSurcharge(room model.Room, guests int) decimal.Decimal {
	extra := guests - room.BaseOccupancy
	if extra <= 0 {
		return decimal.Zero
	}
	return room.ExtraGuestCharge.Mul(decimal.NewFromInt(int64(extra)))
}
