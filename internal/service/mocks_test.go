package service

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/fairyhunter13/hotel-pricing/internal/model"
	"github.com/fairyhunter13/hotel-pricing/pkg/database"
)

// mockDiscountRepository is a mock implementation of DiscountRepositoryInterface.
type mockDiscountRepository struct {
	insertFn    func(ctx context.Context, discount *model.Discount) error
	updateFn    func(ctx context.Context, discount *model.Discount) error
	getByIDFn   func(ctx context.Context, id uuid.UUID) (*model.Discount, error)
	listFn      func(ctx context.Context) ([]model.Discount, error)
	setActiveFn func(ctx context.Context, id uuid.UUID, active bool) error
	deleteFn    func(ctx context.Context, id uuid.UUID) error
}

func (m *mockDiscountRepository) Insert(ctx context.Context, discount *model.Discount) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, discount)
	}
	return nil
}

func (m *mockDiscountRepository) Update(ctx context.Context, discount *model.Discount) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, discount)
	}
	return nil
}

func (m *mockDiscountRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Discount, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockDiscountRepository) List(ctx context.Context) ([]model.Discount, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return []model.Discount{}, nil
}

func (m *mockDiscountRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	if m.setActiveFn != nil {
		return m.setActiveFn(ctx, id, active)
	}
	return nil
}

func (m *mockDiscountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

// mockUsageRepository is a mock implementation of UsageRepositoryInterface and UsageHistoryReader.
type mockUsageRepository struct {
	incrementUsageFn func(ctx context.Context, tx database.TxQuerier, discountID uuid.UUID) error
	insertUsageFn    func(ctx context.Context, tx database.TxQuerier, discountID uuid.UUID, entry model.UsageEntry) error
	deleteUsagesFn   func(ctx context.Context, tx database.TxQuerier, discountID uuid.UUID, bookingID string) (int64, error)
	decrementUsageFn func(ctx context.Context, tx database.TxQuerier, discountID uuid.UUID) error
	listByDiscountFn func(ctx context.Context, discountID uuid.UUID) ([]model.UsageEntry, error)
}

func (m *mockUsageRepository) IncrementUsage(ctx context.Context, tx database.TxQuerier, discountID uuid.UUID) error {
	if m.incrementUsageFn != nil {
		return m.incrementUsageFn(ctx, tx, discountID)
	}
	return nil
}

func (m *mockUsageRepository) InsertUsage(ctx context.Context, tx database.TxQuerier, discountID uuid.UUID, entry model.UsageEntry) error {
	if m.insertUsageFn != nil {
		return m.insertUsageFn(ctx, tx, discountID, entry)
	}
	return nil
}

func (m *mockUsageRepository) DeleteUsages(ctx context.Context, tx database.TxQuerier, discountID uuid.UUID, bookingID string) (int64, error) {
	if m.deleteUsagesFn != nil {
		return m.deleteUsagesFn(ctx, tx, discountID, bookingID)
	}
	return 1, nil
}

func (m *mockUsageRepository) DecrementUsage(ctx context.Context, tx database.TxQuerier, discountID uuid.UUID) error {
	if m.decrementUsageFn != nil {
		return m.decrementUsageFn(ctx, tx, discountID)
	}
	return nil
}

func (m *mockUsageRepository) ListByDiscount(ctx context.Context, discountID uuid.UUID) ([]model.UsageEntry, error) {
	if m.listByDiscountFn != nil {
		return m.listByDiscountFn(ctx, discountID)
	}
	return []model.UsageEntry{}, nil
}

// mockInvalidator counts cache invalidations.
type mockInvalidator struct {
	mu    sync.Mutex
	calls int
}

func (m *mockInvalidator) Invalidate(context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
}

func (m *mockInvalidator) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// mockCatalog is a mock implementation of CandidateLister.
type mockCatalog struct {
	listCandidatesFn func(ctx context.Context, location model.Location) ([]model.Discount, error)
}

func (m *mockCatalog) ListCandidates(ctx context.Context, location model.Location) ([]model.Discount, error) {
	if m.listCandidatesFn != nil {
		return m.listCandidatesFn(ctx, location)
	}
	return []model.Discount{}, nil
}

// mockTx is a mock implementation of pgx.Tx for testing transactions.
type mockTx struct {
	commitFn   func(ctx context.Context) error
	rollbackFn func(ctx context.Context) error
	committed  bool
}

func (m *mockTx) Begin(ctx context.Context) (pgx.Tx, error) {
	return nil, errors.New("nested transactions not supported")
}

func (m *mockTx) Commit(ctx context.Context) error {
	if m.commitFn != nil {
		return m.commitFn(ctx)
	}
	m.committed = true
	return nil
}

func (m *mockTx) Rollback(ctx context.Context) error {
	if m.rollbackFn != nil {
		return m.rollbackFn(ctx)
	}
	return nil
}

func (m *mockTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}

func (m *mockTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	return nil
}

func (m *mockTx) LargeObjects() pgx.LargeObjects {
	return pgx.LargeObjects{}
}

func (m *mockTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}

func (m *mockTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (m *mockTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}

func (m *mockTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}

func (m *mockTx) Conn() *pgx.Conn {
	return nil
}

// mockTxBeginner is a mock implementation of database.TxBeginner.
type mockTxBeginner struct {
	beginFn func(ctx context.Context) (pgx.Tx, error)
}

func (m *mockTxBeginner) Begin(ctx context.Context) (pgx.Tx, error) {
	if m.beginFn != nil {
		return m.beginFn(ctx)
	}
	return &mockTx{}, nil
}

func intPtr(i int) *int {
	return &i
}

func boolPtr(b bool) *bool {
	return &b
}
