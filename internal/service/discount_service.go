package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fairyhunter13/hotel-pricing/internal/clock"
	"github.com/fairyhunter13/hotel-pricing/internal/model"
	"github.com/fairyhunter13/hotel-pricing/internal/pricing"
)

// DiscountRepositoryInterface defines the interface for discount catalog access.
type DiscountRepositoryInterface interface {
	Insert(ctx context.Context, discount *model.Discount) error
	Update(ctx context.Context, discount *model.Discount) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Discount, error)
	List(ctx context.Context) ([]model.Discount, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// UsageHistoryReader reads the usage ledger of a discount.
type UsageHistoryReader interface {
	ListByDiscount(ctx context.Context, discountID uuid.UUID) ([]model.UsageEntry, error)
}

// CacheInvalidator drops cached catalog snapshots after a write.
type CacheInvalidator interface {
	Invalidate(ctx context.Context)
}

type noopInvalidator struct{}

func (noopInvalidator) Invalidate(context.Context) {}

// DiscountService provides business logic for the discount catalog.
type DiscountService struct {
	discountRepo DiscountRepositoryInterface
	usageRepo    UsageHistoryReader
	cache        CacheInvalidator
	clock        clock.Clock
}

// NewDiscountService creates a new DiscountService. A nil cache disables invalidation.
func NewDiscountService(discountRepo DiscountRepositoryInterface, usageRepo UsageHistoryReader, cache CacheInvalidator, clk clock.Clock) *DiscountService {
	if cache == nil {
		cache = noopInvalidator{}
	}
	if clk == nil {
		clk = clock.NewRealClock()
	}
	return &DiscountService{
		discountRepo: discountRepo,
		usageRepo:    usageRepo,
		cache:        cache,
		clock:        clk,
	}
}

// Create validates and stores a new discount.
// Returns ErrValidation (wrapped) if the rule breaks a catalog invariant.
func (s *DiscountService) Create(ctx context.Context, req *model.DiscountRequest) (*model.Discount, error) {
	discount, err := discountFromRequest(req)
	if err != nil {
		return nil, err
	}
	if err := validateDiscount(discount); err != nil {
		return nil, err
	}

	discount.ID = uuid.New()
	now := s.clock.Now()
	discount.CreatedAt = now
	discount.UpdatedAt = now

	if err := s.discountRepo.Insert(ctx, discount); err != nil {
		return nil, fmt.Errorf("insert discount: %w", err)
	}
	s.cache.Invalidate(ctx)
	return discount, nil
}

// Update replaces the rule fields of a discount. Usage counters are kept.
// Returns ErrDiscountNotFound if the discount doesn't exist.
func (s *DiscountService) Update(ctx context.Context, id uuid.UUID, req *model.DiscountRequest) (*model.Discount, error) {
	existing, err := s.discountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get discount: %w", err)
	}
	if existing == nil {
		return nil, ErrDiscountNotFound
	}

	discount, err := discountFromRequest(req)
	if err != nil {
		return nil, err
	}
	discount.ID = existing.ID
	discount.CreatedAt = existing.CreatedAt
	discount.UpdatedAt = s.clock.Now()
	discount.UsageLimit.CurrentUses = existing.UsageLimit.CurrentUses

	if err := validateDiscount(discount); err != nil {
		return nil, err
	}

	if err := s.discountRepo.Update(ctx, discount); err != nil {
		return nil, fmt.Errorf("update discount: %w", err)
	}
	s.cache.Invalidate(ctx)
	return discount, nil
}

// Get returns a discount with its usage history.
// Returns ErrDiscountNotFound if the discount doesn't exist.
func (s *DiscountService) Get(ctx context.Context, id uuid.UUID) (*model.DiscountResponse, error) {
	discount, err := s.discountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get discount: %w", err)
	}
	if discount == nil {
		return nil, ErrDiscountNotFound
	}

	history, err := s.usageRepo.ListByDiscount(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get usage history: %w", err)
	}
	discount.UsageHistory = history

	return &model.DiscountResponse{
		Discount:        *discount,
		UsagePercentage: pricing.UsagePercentage(*discount),
	}, nil
}

// List returns the whole catalog, active and inactive.
func (s *DiscountService) List(ctx context.Context) ([]model.DiscountResponse, error) {
	discounts, err := s.discountRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list discounts: %w", err)
	}

	out := make([]model.DiscountResponse, 0, len(discounts))
	for _, d := range discounts {
		out = append(out, model.DiscountResponse{
			Discount:        d,
			UsagePercentage: pricing.UsagePercentage(d),
		})
	}
	return out, nil
}

// SetActive toggles a discount between active and inactive.
func (s *DiscountService) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	if err := s.discountRepo.SetActive(ctx, id, active); err != nil {
		return err
	}
	s.cache.Invalidate(ctx)
	return nil
}

// Delete removes a discount that was never used.
// Returns ErrDiscountInUse once current_uses > 0; deactivate it instead.
func (s *DiscountService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.discountRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx)
	return nil
}

// UsageStats aggregates the usage ledger of a discount.
func (s *DiscountService) UsageStats(ctx context.Context, id uuid.UUID) (*model.DiscountStats, error) {
	discount, err := s.discountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get discount: %w", err)
	}
	if discount == nil {
		return nil, ErrDiscountNotFound
	}

	history, err := s.usageRepo.ListByDiscount(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get usage history: %w", err)
	}

	savings := decimal.Zero
	for _, entry := range history {
		savings = savings.Add(entry.DiscountAmount)
	}

	return &model.DiscountStats{
		DiscountID:      discount.ID,
		TotalUses:       len(history),
		CurrentUses:     discount.UsageLimit.CurrentUses,
		MaxUses:         discount.UsageLimit.MaxUses,
		UsagePercentage: pricing.UsagePercentage(*discount),
		TotalSavings:    pricing.RoundMoney(savings),
	}, nil
}
