package handler

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fairyhunter13/hotel-pricing/internal/model"
)

// mockDiscountService is a mock implementation of DiscountServiceInterface.
type mockDiscountService struct {
	createFn     func(ctx context.Context, req *model.DiscountRequest) (*model.Discount, error)
	updateFn     func(ctx context.Context, id uuid.UUID, req *model.DiscountRequest) (*model.Discount, error)
	getFn        func(ctx context.Context, id uuid.UUID) (*model.DiscountResponse, error)
	listFn       func(ctx context.Context) ([]model.DiscountResponse, error)
	setActiveFn  func(ctx context.Context, id uuid.UUID, active bool) error
	deleteFn     func(ctx context.Context, id uuid.UUID) error
	usageStatsFn func(ctx context.Context, id uuid.UUID) (*model.DiscountStats, error)
}

func (m *mockDiscountService) Create(ctx context.Context, req *model.DiscountRequest) (*model.Discount, error) {
	if m.createFn != nil {
		return m.createFn(ctx, req)
	}
	return &model.Discount{ID: uuid.New(), Name: req.Name}, nil
}

func (m *mockDiscountService) Update(ctx context.Context, id uuid.UUID, req *model.DiscountRequest) (*model.Discount, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, req)
	}
	return &model.Discount{ID: id, Name: req.Name}, nil
}

func (m *mockDiscountService) Get(ctx context.Context, id uuid.UUID) (*model.DiscountResponse, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return &model.DiscountResponse{Discount: model.Discount{ID: id}}, nil
}

func (m *mockDiscountService) List(ctx context.Context) ([]model.DiscountResponse, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return []model.DiscountResponse{}, nil
}

func (m *mockDiscountService) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	if m.setActiveFn != nil {
		return m.setActiveFn(ctx, id, active)
	}
	return nil
}

func (m *mockDiscountService) Delete(ctx context.Context, id uuid.UUID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockDiscountService) UsageStats(ctx context.Context, id uuid.UUID) (*model.DiscountStats, error) {
	if m.usageStatsFn != nil {
		return m.usageStatsFn(ctx, id)
	}
	return &model.DiscountStats{DiscountID: id}, nil
}

// mockPricingService is a mock implementation of PricingServiceInterface.
type mockPricingService struct {
	calculateFn      func(ctx context.Context, params model.PriceParams) model.PriceResult
	listApplicableFn func(ctx context.Context, q model.DiscountQuery) ([]model.Discount, error)
}

func (m *mockPricingService) CalculatePriceWithDiscounts(ctx context.Context, params model.PriceParams) model.PriceResult {
	if m.calculateFn != nil {
		return m.calculateFn(ctx, params)
	}
	return model.PriceResult{AppliedDiscounts: []model.AppliedDiscount{}}
}

func (m *mockPricingService) ListApplicableDiscounts(ctx context.Context, q model.DiscountQuery) ([]model.Discount, error) {
	if m.listApplicableFn != nil {
		return m.listApplicableFn(ctx, q)
	}
	return []model.Discount{}, nil
}

// mockUsageService is a mock implementation of UsageServiceInterface.
type mockUsageService struct {
	recordFn func(ctx context.Context, discountID uuid.UUID, bookingID string, originalPrice, discountAmount, finalPrice decimal.Decimal) error
	cancelFn func(ctx context.Context, discountID uuid.UUID, bookingID string) error
}

func (m *mockUsageService) RecordUsage(ctx context.Context, discountID uuid.UUID, bookingID string, originalPrice, discountAmount, finalPrice decimal.Decimal) error {
	if m.recordFn != nil {
		return m.recordFn(ctx, discountID, bookingID, originalPrice, discountAmount, finalPrice)
	}
	return nil
}

func (m *mockUsageService) CancelUsage(ctx context.Context, discountID uuid.UUID, bookingID string) error {
	if m.cancelFn != nil {
		return m.cancelFn(ctx, discountID, bookingID)
	}
	return nil
}

// mockPinger implements Pinger for health checks.
type mockPinger struct {
	pingErr error
}

func (m *mockPinger) Ping(ctx context.Context) error {
	return m.pingErr
}
