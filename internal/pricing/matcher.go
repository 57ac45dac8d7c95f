package pricing

import (
	"slices"
	"sort"
	"time"

	"github.com/fairyhunter13/hotel-pricing/internal/model"
)

// FindApplicableDiscounts filters catalog down to the discounts eligible for q at now,
// ranked by priority descending and, within a priority, newest first.
//
// The catalog may be a pre-filtered snapshot; the coarse checks (active, location,
// usage cap) are repeated here so a stale snapshot never yields an ineligible rule.
func FindApplicableDiscounts(catalog []model.Discount, q model.DiscountQuery, now time.Time, loc *time.Location) []model.Discount {
	eligible := make([]model.Discount, 0, len(catalog))
	for _, d := range catalog {
		if !passesCoarseFilter(d, q.Location) {
			continue
		}
		if !IsCurrentlyValid(d, now, q.CheckIn, loc) {
			continue
		}
		if !matchesScope(d, q.RoomID, q.RoomCategory) {
			continue
		}
		if !matchesStayBounds(d.Restrictions, q.Nights, q.Guests) {
			continue
		}
		if !matchesDaysOfWeek(d.Restrictions.ValidDaysOfWeek, q.CheckIn, q.CheckOut) {
			continue
		}
		if !matchesTravelerType(d.Restrictions, q.IsTourist) {
			continue
		}
		eligible = append(eligible, d)
	}

	SortByPriority(eligible)
	return eligible
}

// SortByPriority orders discounts by priority desc, then created_at desc, then id.
func SortByPriority(discounts []model.Discount) {
	sort.SliceStable(discounts, func(i, j int) bool {
		a, b := discounts[i], discounts[j]
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID.String() < b.ID.String()
	})
}

func passesCoarseFilter(d model.Discount, location model.Location) bool {
	if !d.IsActive {
		return false
	}
	if d.Location != location && d.Location != model.LocationBoth {
		return false
	}
	return !IsUsageCapReached(d)
}

func matchesScope(d model.Discount, roomID, category string) bool {
	if len(d.ApplicableRooms) > 0 && !slices.Contains(d.ApplicableRooms, roomID) {
		return false
	}
	if len(d.ApplicableCategories) > 0 && !slices.Contains(d.ApplicableCategories, category) {
		return false
	}
	return true
}

func matchesStayBounds(r model.Restrictions, nights, guests int) bool {
	if nights < r.MinNights || (r.MaxNights != nil && nights > *r.MaxNights) {
		return false
	}
	if guests < r.MinGuests || (r.MaxGuests != nil && guests > *r.MaxGuests) {
		return false
	}
	return true
}

// matchesDaysOfWeek passes when any night of the stay falls on a listed weekday.
func matchesDaysOfWeek(validDays []int, checkIn, checkOut time.Time) bool {
	if len(validDays) == 0 {
		return true
	}
	for _, day := range StayDays(checkIn, checkOut) {
		if slices.Contains(validDays, int(day.Weekday())) {
			return true
		}
	}
	return false
}

func matchesTravelerType(r model.Restrictions, isTourist bool) bool {
	if isTourist {
		return r.ApplicableForTourists
	}
	return r.ApplicableForIsraelis
}
