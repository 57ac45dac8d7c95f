package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/fairyhunter13/hotel-pricing/internal/clock"
	"github.com/fairyhunter13/hotel-pricing/internal/metrics"
	"github.com/fairyhunter13/hotel-pricing/internal/model"
	"github.com/fairyhunter13/hotel-pricing/internal/pricing"
)

// CandidateLister loads the coarse-filtered catalog for a location.
// Implemented by the discount repository and the Redis catalog cache.
type CandidateLister interface {
	ListCandidates(ctx context.Context, location model.Location) ([]model.Discount, error)
}

// PricingService composes price calculation, discount matching and stacking.
type PricingService struct {
	catalog CandidateLister
	clock   clock.Clock
	loc     *time.Location
	order   pricing.StackingOrder
	metrics *metrics.Metrics
}

// NewPricingService creates a PricingService. loc is the property time zone used
// for last-minute windows.
func NewPricingService(catalog CandidateLister, clk clock.Clock, loc *time.Location, order pricing.StackingOrder, m *metrics.Metrics) *PricingService {
	if clk == nil {
		clk = clock.NewRealClock()
	}
	if loc == nil {
		loc = time.UTC
	}
	if order == "" {
		order = pricing.StackByCreation
	}
	return &PricingService{
		catalog: catalog,
		clock:   clk,
		loc:     loc,
		order:   order,
		metrics: m,
	}
}

// CalculatePriceWithDiscounts prices a stay and applies every eligible discount.
// It never fails: any internal error yields the undiscounted result for whatever
// original price could be computed.
func (s *PricingService) CalculatePriceWithDiscounts(ctx context.Context, params model.PriceParams) (result model.PriceResult) {
	nights := pricing.NightsBetween(params.CheckIn, params.CheckOut)
	original := decimal.Zero

	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Interface("panic", r).
				Str("room_id", params.Room.ID).
				Msg("price resolution panicked, serving undiscounted price")
			s.metrics.RecordFailOpen(metrics.StagePanic)
			s.metrics.RecordQuote(metrics.OutcomeFailOpen)
			result = undiscounted(original, nights)
		}
	}()

	var err error
	original, err = pricing.CalculateOriginalPrice(params.Room, params.CheckIn, params.CheckOut, params.Guests, params.IsTourist)
	if err != nil {
		log.Warn().Err(err).Str("room_id", params.Room.ID).Msg("original price failed, serving zero price without discounts")
		s.metrics.RecordFailOpen(metrics.StagePrice)
		s.metrics.RecordQuote(metrics.OutcomeFailOpen)
		original = decimal.Zero
		return undiscounted(original, nights)
	}
	if !original.IsPositive() {
		s.metrics.RecordQuote(metrics.OutcomeNoDiscount)
		return undiscounted(original, nights)
	}

	q := queryFor(params, nights)
	catalog, err := s.catalog.ListCandidates(ctx, q.Location)
	if err != nil {
		log.Warn().Err(err).Str("location", string(q.Location)).Msg("discount catalog unavailable, serving undiscounted price")
		s.metrics.RecordFailOpen(metrics.StageCatalog)
		s.metrics.RecordQuote(metrics.OutcomeFailOpen)
		return undiscounted(original, nights)
	}

	eligible := pricing.FindApplicableDiscounts(catalog, q, s.clock.Now(), s.loc)
	stack := pricing.CalculateCombinedDiscounts(original, eligible, s.order)

	result = buildResult(original, nights, stack)
	if result.HasDiscount {
		s.metrics.RecordQuote(metrics.OutcomeDiscounted)
		s.metrics.ObserveDiscount(result.TotalDiscount.InexactFloat64())
	} else {
		s.metrics.RecordQuote(metrics.OutcomeNoDiscount)
	}
	return result
}

// ListApplicableDiscounts returns the discounts a stay would be eligible for, ranked by priority.
// Unlike CalculatePriceWithDiscounts, catalog errors are returned.
func (s *PricingService) ListApplicableDiscounts(ctx context.Context, q model.DiscountQuery) ([]model.Discount, error) {
	q.Nights = pricing.NightsBetween(q.CheckIn, q.CheckOut)

	catalog, err := s.catalog.ListCandidates(ctx, q.Location)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	return pricing.FindApplicableDiscounts(catalog, q, s.clock.Now(), s.loc), nil
}

func queryFor(params model.PriceParams, nights int) model.DiscountQuery {
	location := params.Location
	if location == "" {
		location = params.Room.Location
	}
	return model.DiscountQuery{
		Location:     location,
		RoomID:       params.Room.ID,
		RoomCategory: params.Room.Category,
		CheckIn:      params.CheckIn,
		CheckOut:     params.CheckOut,
		Nights:       nights,
		Guests:       params.Guests,
		IsTourist:    params.IsTourist,
	}
}

func buildResult(original decimal.Decimal, nights int, stack pricing.StackResult) model.PriceResult {
	total := stack.TotalDiscountAmount
	final := pricing.RoundMoney(original.Sub(total))
	if final.IsNegative() {
		final = decimal.Zero
	}

	savings := int64(0)
	if original.IsPositive() {
		savings = total.Div(original).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	}

	return model.PriceResult{
		OriginalPrice:      original,
		PricePerNight:      perNight(original, nights),
		FinalPrice:         final,
		FinalPricePerNight: perNight(final, nights),
		TotalDiscount:      total,
		AppliedDiscounts:   stack.AppliedDiscounts,
		HasDiscount:        len(stack.AppliedDiscounts) > 0,
		SavingsPercentage:  savings,
	}
}

func undiscounted(original decimal.Decimal, nights int) model.PriceResult {
	return buildResult(original, nights, pricing.StackResult{
		TotalDiscountAmount: decimal.Zero,
		AppliedDiscounts:    []model.AppliedDiscount{},
	})
}

func perNight(amount decimal.Decimal, nights int) decimal.Decimal {
	if nights <= 0 {
		return amount
	}
	return pricing.RoundMoney(amount.Div(decimal.NewFromInt(int64(nights))))
}
