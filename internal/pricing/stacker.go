package pricing

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/fairyhunter13/hotel-pricing/internal/model"
)

// StackingOrder selects the sequence in which eligible discounts are layered.
type StackingOrder string

const (
	// StackByCreation layers the oldest rule first, independent of priority.
	StackByCreation StackingOrder = "created"
	// StackByPriority layers rules in their eligibility ranking.
	StackByPriority StackingOrder = "priority"
)

// ParseStackingOrder validates a configured stacking order.
func ParseStackingOrder(s string) (StackingOrder, error) {
	switch StackingOrder(s) {
	case StackByCreation, StackByPriority:
		return StackingOrder(s), nil
	default:
		return "", fmt.Errorf("unknown stacking order %q", s)
	}
}

// StackResult is the outcome of layering discounts onto a price.
type StackResult struct {
	TotalDiscountAmount decimal.Decimal
	AppliedDiscounts    []model.AppliedDiscount
}

// CalculateCombinedDiscounts applies eligible discounts one after another on a running
// price that starts at originalPrice. Each amount is computed against the running price.
//
// Once any discount has been applied, non-combinable rules are skipped. A non-combinable
// rule that is applied ends the resolution.
func CalculateCombinedDiscounts(originalPrice decimal.Decimal, eligible []model.Discount, order StackingOrder) StackResult {
	running := originalPrice
	total := decimal.Zero
	applied := make([]model.AppliedDiscount, 0, len(eligible))

	for _, d := range orderForStacking(eligible, order) {
		if len(applied) > 0 && !d.Combinable {
			continue
		}

		amount := DiscountAmount(d, running)
		if !amount.IsPositive() {
			continue
		}

		running = running.Sub(amount)
		total = total.Add(amount)
		applied = append(applied, model.AppliedDiscount{
			ID:          d.ID,
			Name:        d.Name,
			Type:        d.DiscountType,
			Value:       d.DiscountValue,
			Amount:      amount,
			Description: d.Description,
		})

		if !d.Combinable {
			break
		}
	}

	return StackResult{
		TotalDiscountAmount: RoundMoney(total),
		AppliedDiscounts:    applied,
	}
}

// DiscountAmount is what d takes off runningPrice. It never exceeds runningPrice.
func DiscountAmount(d model.Discount, runningPrice decimal.Decimal) decimal.Decimal {
	if !runningPrice.IsPositive() || d.DiscountValue.IsNegative() {
		return decimal.Zero
	}

	switch d.DiscountType {
	case model.DiscountTypePercentage:
		amount := RoundUnit(runningPrice.Mul(d.DiscountValue).Div(hundred))
		return minDecimal(amount, runningPrice)
	case model.DiscountTypeFixedAmount:
		return minDecimal(d.DiscountValue, runningPrice)
	default:
		return decimal.Zero
	}
}

func orderForStacking(eligible []model.Discount, order StackingOrder) []model.Discount {
	ordered := make([]model.Discount, len(eligible))
	copy(ordered, eligible)

	if order == StackByPriority {
		SortByPriority(ordered)
		return ordered
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID.String() < b.ID.String()
	})
	return ordered
}
