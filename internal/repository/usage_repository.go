package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fairyhunter13/hotel-pricing/internal/model"
	"github.com/fairyhunter13/hotel-pricing/internal/service"
	"github.com/fairyhunter13/hotel-pricing/pkg/database"
)

// UsagePoolInterface defines the database operations needed by UsageRepository outside a transaction.
type UsagePoolInterface interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// UsageRepository provides data access for the discount usage ledger using pgx.
type UsageRepository struct {
	pool UsagePoolInterface
}

// NewUsageRepository creates a new UsageRepository with the given pool.
func NewUsageRepository(pool *pgxpool.Pool) *UsageRepository {
	return &UsageRepository{pool: pool}
}

// NewUsageRepositoryWithPool creates a new UsageRepository with a custom pool interface.
// This is primarily used for testing.
func NewUsageRepositoryWithPool(pool UsagePoolInterface) *UsageRepository {
	return &UsageRepository{pool: pool}
}

// IncrementUsage consumes one use of a discount if its cap allows it.
// The check and the increment are a single statement, so concurrent callers can never
// push current_uses past max_uses. Returns:
//   - service.ErrDiscountNotFound if the discount doesn't exist
//   - service.ErrUsageLimitReached if current_uses already equals max_uses
func (r *UsageRepository) IncrementUsage(ctx context.Context, tx database.TxQuerier, discountID uuid.UUID) error {
	query := `UPDATE discounts
		SET current_uses = current_uses + 1, updated_at = NOW()
		WHERE id = $1 AND (max_uses IS NULL OR current_uses < max_uses)`

	tag, err := tx.Exec(ctx, query, discountID)
	if err != nil {
		return fmt.Errorf("increment usage for %s: %w", discountID, err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var exists bool
	err = tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM discounts WHERE id = $1)`, discountID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check discount %s: %w", discountID, err)
	}
	if !exists {
		return service.ErrDiscountNotFound
	}
	return service.ErrUsageLimitReached
}

// InsertUsage appends a usage history entry within a transaction.
func (r *UsageRepository) InsertUsage(ctx context.Context, tx database.TxQuerier, discountID uuid.UUID, entry model.UsageEntry) error {
	query := `INSERT INTO discount_usages (discount_id, booking_id, used_at, discount_amount, original_price, final_price)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := tx.Exec(ctx, query,
		discountID, entry.BookingID, entry.UsedAt, entry.DiscountAmount, entry.OriginalPrice, entry.FinalPrice)
	if err != nil {
		return fmt.Errorf("insert usage for %s: %w", discountID, err)
	}
	return nil
}

// DeleteUsages removes every history entry of a booking and returns how many were removed.
func (r *UsageRepository) DeleteUsages(ctx context.Context, tx database.TxQuerier, discountID uuid.UUID, bookingID string) (int64, error) {
	query := `DELETE FROM discount_usages WHERE discount_id = $1 AND booking_id = $2`

	tag, err := tx.Exec(ctx, query, discountID, bookingID)
	if err != nil {
		return 0, fmt.Errorf("delete usages of booking %s: %w", bookingID, err)
	}
	return tag.RowsAffected(), nil
}

// DecrementUsage gives one use back, floored at zero.
func (r *UsageRepository) DecrementUsage(ctx context.Context, tx database.TxQuerier, discountID uuid.UUID) error {
	query := `UPDATE discounts SET current_uses = GREATEST(current_uses - 1, 0), updated_at = NOW() WHERE id = $1`

	_, err := tx.Exec(ctx, query, discountID)
	if err != nil {
		return fmt.Errorf("decrement usage for %s: %w", discountID, err)
	}
	return nil
}

// ListByDiscount returns the usage history of a discount in recording order.
// On success, returns an empty slice (not nil) when no usages exist.
func (r *UsageRepository) ListByDiscount(ctx context.Context, discountID uuid.UUID) ([]model.UsageEntry, error) {
	query := `SELECT booking_id, used_at, discount_amount, original_price, final_price
		FROM discount_usages WHERE discount_id = $1 ORDER BY used_at, id`

	rows, err := r.pool.Query(ctx, query, discountID)
	if err != nil {
		return nil, fmt.Errorf("get usages for discount %s: %w", discountID, err)
	}
	defer rows.Close()

	entries := []model.UsageEntry{}
	for rows.Next() {
		var e model.UsageEntry
		if err := rows.Scan(&e.BookingID, &e.UsedAt, &e.DiscountAmount, &e.OriginalPrice, &e.FinalPrice); err != nil {
			return nil, fmt.Errorf("scan usage entry: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate usage rows: %w", err)
	}
	return entries, nil
}
