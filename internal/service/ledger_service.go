package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/fairyhunter13/hotel-pricing/internal/clock"
	"github.com/fairyhunter13/hotel-pricing/internal/metrics"
	"github.com/fairyhunter13/hotel-pricing/internal/model"
	"github.com/fairyhunter13/hotel-pricing/pkg/database"
)

// UsageRepositoryInterface defines the transactional usage ledger operations.
type UsageRepositoryInterface interface {
	IncrementUsage(ctx context.Context, tx database.TxQuerier, discountID uuid.UUID) error
	InsertUsage(ctx context.Context, tx database.TxQuerier, discountID uuid.UUID, entry model.UsageEntry) error
	DeleteUsages(ctx context.Context, tx database.TxQuerier, discountID uuid.UUID, bookingID string) (int64, error)
	DecrementUsage(ctx context.Context, tx database.TxQuerier, discountID uuid.UUID) error
}

// maxBackoffShift caps the exponential growth of the retry delay at Backoff * 2^10.
const maxBackoffShift = 10

// RetryPolicy bounds how often a failed ledger write is retried.
type RetryPolicy struct {
	MaxRetries int
	Backoff    time.Duration
}

// delay returns the wait before the retry that follows attempt (zero based).
func (p RetryPolicy) delay(attempt int) time.Duration {
	return p.Backoff * time.Duration(1<<min(attempt, maxBackoffShift))
}

// LedgerService records and cancels discount usages against bookings.
type LedgerService struct {
	pool      database.TxBeginner
	usageRepo UsageRepositoryInterface
	cache     CacheInvalidator
	clock     clock.Clock
	metrics   *metrics.Metrics
	retry     RetryPolicy
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(pool database.TxBeginner, usageRepo UsageRepositoryInterface, cache CacheInvalidator, clk clock.Clock, m *metrics.Metrics, retry RetryPolicy) *LedgerService {
	if cache == nil {
		cache = noopInvalidator{}
	}
	if clk == nil {
		clk = clock.NewRealClock()
	}
	if retry.MaxRetries < 0 {
		retry.MaxRetries = 0
	}
	return &LedgerService{
		pool:      pool,
		usageRepo: usageRepo,
		cache:     cache,
		clock:     clk,
		metrics:   m,
		retry:     retry,
	}
}

// RecordUsage consumes one use of a discount for a booking.
// The counter is incremented only while below max_uses, in the same transaction as the
// history entry. Returns:
//   - ErrDiscountNotFound if the discount doesn't exist
//   - ErrUsageLimitReached if the usage cap is already reached
func (s *LedgerService) RecordUsage(ctx context.Context, discountID uuid.UUID, bookingID string, originalPrice, discountAmount, finalPrice decimal.Decimal) error {
	if bookingID == "" {
		return ErrInvalidRequest
	}

	entry := model.UsageEntry{
		BookingID:      bookingID,
		UsedAt:         s.clock.Now(),
		DiscountAmount: discountAmount,
		OriginalPrice:  originalPrice,
		FinalPrice:     finalPrice,
	}

	return s.write(ctx, metrics.OpRecord, discountID, bookingID, func(tx pgx.Tx) error {
		// 1. Conditional increment, fails when the cap is reached
		if err := s.usageRepo.IncrementUsage(ctx, tx, discountID); err != nil {
			return err
		}
		// 2. Append history entry
		return s.usageRepo.InsertUsage(ctx, tx, discountID, entry)
	})
}

// CancelUsage removes the usages recorded for a booking and gives one use back.
// Returns ErrUsageNotFound if the booking never consumed the discount.
func (s *LedgerService) CancelUsage(ctx context.Context, discountID uuid.UUID, bookingID string) error {
	if bookingID == "" {
		return ErrInvalidRequest
	}

	return s.write(ctx, metrics.OpCancel, discountID, bookingID, func(tx pgx.Tx) error {
		deleted, err := s.usageRepo.DeleteUsages(ctx, tx, discountID, bookingID)
		if err != nil {
			return err
		}
		if deleted == 0 {
			return ErrUsageNotFound
		}
		return s.usageRepo.DecrementUsage(ctx, tx, discountID)
	})
}

// write runs fn in a transaction, retrying transient failures with exponential backoff.
// Failures other than domain outcomes are logged as reconciliation items once retries stop.
func (s *LedgerService) write(ctx context.Context, op string, discountID uuid.UUID, bookingID string, fn func(tx pgx.Tx) error) error {
	attempts := s.retry.MaxRetries + 1

	var err error
retryLoop:
	for attempt := 0; attempt < attempts; attempt++ {
		err = database.WithTx(ctx, s.pool, fn)
		if err == nil {
			s.metrics.RecordLedgerWrite(op, metrics.OutcomeSuccess)
			s.cache.Invalidate(ctx)
			return nil
		}

		if isDomainError(err) {
			s.metrics.RecordLedgerWrite(op, outcomeOf(err))
			return err
		}
		if !isRetryable(err) || attempt == attempts-1 {
			break
		}

		backoff := s.retry.delay(attempt)
		log.Warn().
			Err(err).
			Str("op", op).
			Str("discount_id", discountID.String()).
			Int("attempt", attempt+1).
			Dur("next_retry_in", backoff).
			Msg("ledger write failed, retrying")

		select {
		case <-ctx.Done():
			err = ctx.Err()
			break retryLoop
		case <-time.After(backoff):
		}
	}

	s.metrics.RecordLedgerWrite(op, metrics.OutcomeError)
	s.metrics.RecordReconciliation(op)
	log.Error().
		Err(err).
		Bool("reconciliation", true).
		Str("op", op).
		Str("discount_id", discountID.String()).
		Str("booking_id", bookingID).
		Msg("ledger write abandoned, manual reconciliation required")

	return fmt.Errorf("%s usage: %w", op, err)
}

// isDomainError reports whether err is a final business outcome rather than a failure.
func isDomainError(err error) bool {
	return errors.Is(err, ErrDiscountNotFound) ||
		errors.Is(err, ErrUsageLimitReached) ||
		errors.Is(err, ErrUsageNotFound) ||
		errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrValidation)
}

// isRetryable reports whether a failed write may succeed on a later attempt.
// A commit with an unknown outcome is never retried: the first attempt may have applied.
func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, database.ErrCommitUnknown) {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if len(pgErr.Code) < 2 {
			return false
		}
		// connection, transaction rollback, resources, operator intervention, system error
		switch pgErr.Code[:2] {
		case "08", "40", "53", "57", "58":
			return true
		default:
			return false
		}
	}
	return true
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, ErrUsageLimitReached):
		return metrics.OutcomeCapReached
	case errors.Is(err, ErrDiscountNotFound), errors.Is(err, ErrUsageNotFound):
		return metrics.OutcomeNotFound
	default:
		return metrics.OutcomeError
	}
}
