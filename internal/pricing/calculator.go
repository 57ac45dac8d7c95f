package pricing

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fairyhunter13/hotel-pricing/internal/model"
)

// ErrMalformedRoom is returned when a room snapshot cannot be priced.
var ErrMalformedRoom = errors.New("malformed room data")

// StayDays returns the calendar day of every billed night in [checkIn, checkOut).
// The checkout day is never billed. Days are in checkIn's location.
func StayDays(checkIn, checkOut time.Time) []time.Time {
	start := dateOf(checkIn, checkIn.Location())
	end := dateOf(checkOut, checkIn.Location())
	if !start.Before(end) {
		return nil
	}

	var days []time.Time
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// NightsBetween returns the number of billed nights of a stay.
func NightsBetween(checkIn, checkOut time.Time) int {
	return len(StayDays(checkIn, checkOut))
}

// CalculateOriginalPrice sums the nightly rate plus the extra-guest surcharge over
// every night of the stay and rounds the total to 2 decimals.
// A stay with checkOut <= checkIn costs 0 whatever the room.
func CalculateOriginalPrice(room model.Room, checkIn, checkOut time.Time, guests int, isTourist bool) (decimal.Decimal, error) {
	days := StayDays(checkIn, checkOut)
	if len(days) == 0 {
		return decimal.Zero, nil
	}
	if err := validateRoom(room); err != nil {
		return decimal.Zero, err
	}

	surcharge := ExtraGuestSurcharge(room, guests)
	total := decimal.Zero
	for _, day := range days {
		total = total.Add(NightlyRate(room, day, isTourist)).Add(surcharge)
	}
	return RoundMoney(total), nil
}

func validateRoom(room model.Room) error {
	rates := map[string]decimal.Decimal{
		"base_price":         room.BasePrice,
		"vat_price":          room.VatPrice,
		"friday_price":       room.FridayPrice,
		"friday_vat_price":   room.FridayVatPrice,
		"extra_guest_charge": room.ExtraGuestCharge,
	}
	if room.SaturdayPrice != nil {
		rates["saturday_price"] = *room.SaturdayPrice
	}
	if room.SaturdayVatPrice != nil {
		rates["saturday_vat_price"] = *room.SaturdayVatPrice
	}
	for field, rate := range rates {
		if rate.IsNegative() {
			return fmt.Errorf("%w: %s is negative", ErrMalformedRoom, field)
		}
	}
	if room.BaseOccupancy < 0 {
		return fmt.Errorf("%w: base_occupancy is negative", ErrMalformedRoom)
	}
	return nil
}

// dateOf truncates t to midnight of its calendar date in loc.
func dateOf(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
