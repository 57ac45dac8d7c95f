package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fairyhunter13/hotel-pricing/internal/model"
	"github.com/fairyhunter13/hotel-pricing/internal/service"
)

const pgCheckViolation = "23514"

const discountColumns = `id, name, description, discount_type, discount_value, location,
	applicable_rooms, applicable_categories,
	validity_type, valid_from, valid_until, days_before_arrival, include_arrival_day,
	min_nights, max_nights, min_guests, max_guests, valid_days_of_week,
	applicable_for_tourists, applicable_for_israelis,
	priority, combinable, max_uses, current_uses, is_active, created_at, updated_at`

// PoolInterface defines the database operations needed by repositories.
// This allows for easier testing with mocks.
type PoolInterface interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// DiscountRepository provides data access for the discount catalog using pgx.
type DiscountRepository struct {
	pool PoolInterface
}

// NewDiscountRepository creates a new DiscountRepository with the given pool.
func NewDiscountRepository(pool *pgxpool.Pool) *DiscountRepository {
	return &DiscountRepository{pool: pool}
}

// NewDiscountRepositoryWithPool creates a new DiscountRepository with a custom pool interface.
// This is primarily used for testing.
func NewDiscountRepositoryWithPool(pool PoolInterface) *DiscountRepository {
	return &DiscountRepository{pool: pool}
}

// Insert stores a new discount.
// Returns service.ErrValidation if a table constraint rejects the row.
func (r *DiscountRepository) Insert(ctx context.Context, d *model.Discount) error {
	query := `INSERT INTO discounts (` + discountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18,
			$19, $20, $21, $22, $23, $24, $25, $26, $27)`

	_, err := r.pool.Exec(ctx, query,
		d.ID, d.Name, d.Description, d.DiscountType, d.DiscountValue, d.Location,
		nonNilStrings(d.ApplicableRooms), nonNilStrings(d.ApplicableCategories),
		d.Validity.Type, d.Validity.ValidFrom, d.Validity.ValidUntil,
		d.Validity.DaysBeforeArrival, d.Validity.IncludeArrivalDay,
		d.Restrictions.MinNights, d.Restrictions.MaxNights,
		d.Restrictions.MinGuests, d.Restrictions.MaxGuests, nonNilInts(d.Restrictions.ValidDaysOfWeek),
		d.Restrictions.ApplicableForTourists, d.Restrictions.ApplicableForIsraelis,
		d.Priority, d.Combinable, d.UsageLimit.MaxUses, d.UsageLimit.CurrentUses, d.IsActive,
		d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		return translateWriteError("insert discount", err)
	}
	return nil
}

// Update replaces the rule fields of a discount. current_uses is never written here.
// Returns service.ErrDiscountNotFound if no row matches.
func (r *DiscountRepository) Update(ctx context.Context, d *model.Discount) error {
	query := `UPDATE discounts SET
		name = $2, description = $3, discount_type = $4, discount_value = $5, location = $6,
		applicable_rooms = $7, applicable_categories = $8,
		validity_type = $9, valid_from = $10, valid_until = $11,
		days_before_arrival = $12, include_arrival_day = $13,
		min_nights = $14, max_nights = $15, min_guests = $16, max_guests = $17, valid_days_of_week = $18,
		applicable_for_tourists = $19, applicable_for_israelis = $20,
		priority = $21, combinable = $22, max_uses = $23, is_active = $24, updated_at = $25
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query,
		d.ID, d.Name, d.Description, d.DiscountType, d.DiscountValue, d.Location,
		nonNilStrings(d.ApplicableRooms), nonNilStrings(d.ApplicableCategories),
		d.Validity.Type, d.Validity.ValidFrom, d.Validity.ValidUntil,
		d.Validity.DaysBeforeArrival, d.Validity.IncludeArrivalDay,
		d.Restrictions.MinNights, d.Restrictions.MaxNights,
		d.Restrictions.MinGuests, d.Restrictions.MaxGuests, nonNilInts(d.Restrictions.ValidDaysOfWeek),
		d.Restrictions.ApplicableForTourists, d.Restrictions.ApplicableForIsraelis,
		d.Priority, d.Combinable, d.UsageLimit.MaxUses, d.IsActive, d.UpdatedAt,
	)
	if err != nil {
		return translateWriteError("update discount", err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrDiscountNotFound
	}
	return nil
}

// GetByID retrieves a discount by id.
// Returns nil, nil if the discount is not found (service layer handles this).
func (r *DiscountRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Discount, error) {
	query := `SELECT ` + discountColumns + ` FROM discounts WHERE id = $1`

	d, err := scanDiscount(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found - let service handle
		}
		return nil, fmt.Errorf("get discount %s: %w", id, err)
	}
	return d, nil
}

// List returns every discount, highest priority and newest first.
func (r *DiscountRepository) List(ctx context.Context) ([]model.Discount, error) {
	query := `SELECT ` + discountColumns + ` FROM discounts ORDER BY priority DESC, created_at DESC, id`
	return r.queryDiscounts(ctx, "list discounts", query)
}

// ListCandidates returns the active discounts of a location (or "both") whose usage cap
// has not been reached. Fine-grained eligibility is left to the matcher.
func (r *DiscountRepository) ListCandidates(ctx context.Context, location model.Location) ([]model.Discount, error) {
	query := `SELECT ` + discountColumns + ` FROM discounts
		WHERE is_active
		  AND (location = $1 OR location = 'both')
		  AND (max_uses IS NULL OR current_uses < max_uses)
		ORDER BY priority DESC, created_at DESC, id`
	return r.queryDiscounts(ctx, "list candidate discounts", query, location)
}

// SetActive toggles the is_active flag.
// Returns service.ErrDiscountNotFound if no row matches.
func (r *DiscountRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	query := `UPDATE discounts SET is_active = $2, updated_at = NOW() WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id, active)
	if err != nil {
		return fmt.Errorf("set discount %s active: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrDiscountNotFound
	}
	return nil
}

// Delete removes a discount that has never been used.
// Returns service.ErrDiscountInUse if current_uses > 0, service.ErrDiscountNotFound if missing.
func (r *DiscountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM discounts WHERE id = $1 AND current_uses = 0`, id)
	if err != nil {
		return fmt.Errorf("delete discount %s: %w", id, err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var currentUses int
	err = r.pool.QueryRow(ctx, `SELECT current_uses FROM discounts WHERE id = $1`, id).Scan(&currentUses)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return service.ErrDiscountNotFound
		}
		return fmt.Errorf("check discount %s usage: %w", id, err)
	}
	return service.ErrDiscountInUse
}

func (r *DiscountRepository) queryDiscounts(ctx context.Context, op, query string, args ...any) ([]model.Discount, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	discounts := []model.Discount{}
	for rows.Next() {
		d, err := scanDiscount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan discount: %w", err)
		}
		discounts = append(discounts, *d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate discount rows: %w", err)
	}
	return discounts, nil
}

// scanDiscount reads one row selected with discountColumns.
func scanDiscount(row pgx.Row) (*model.Discount, error) {
	var d model.Discount
	err := row.Scan(
		&d.ID,
		&d.Name,
		&d.Description,
		&d.DiscountType,
		&d.DiscountValue,
		&d.Location,
		&d.ApplicableRooms,
		&d.ApplicableCategories,
		&d.Validity.Type,
		&d.Validity.ValidFrom,
		&d.Validity.ValidUntil,
		&d.Validity.DaysBeforeArrival,
		&d.Validity.IncludeArrivalDay,
		&d.Restrictions.MinNights,
		&d.Restrictions.MaxNights,
		&d.Restrictions.MinGuests,
		&d.Restrictions.MaxGuests,
		&d.Restrictions.ValidDaysOfWeek,
		&d.Restrictions.ApplicableForTourists,
		&d.Restrictions.ApplicableForIsraelis,
		&d.Priority,
		&d.Combinable,
		&d.UsageLimit.MaxUses,
		&d.UsageLimit.CurrentUses,
		&d.IsActive,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	d.ApplicableRooms = nonNilStrings(d.ApplicableRooms)
	d.ApplicableCategories = nonNilStrings(d.ApplicableCategories)
	d.Restrictions.ValidDaysOfWeek = nonNilInts(d.Restrictions.ValidDaysOfWeek)
	return &d, nil
}

func translateWriteError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgCheckViolation {
		return fmt.Errorf("%w: %s", service.ErrValidation, pgErr.ConstraintName)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nonNilInts(s []int) []int {
	if s == nil {
		return []int{}
	}
	return s
}
