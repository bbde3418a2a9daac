package inventory

import (
	"context"
	"testing"

	"github.com/erp/reorder/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func record(t *testing.T, itemID uuid.UUID, quantity int64) StockRecord {
	rec, err := NewStockRecord(itemID, "MAIN", quantity)
	require.NoError(t, err)
	return *rec
}

func TestSumAvailable(t *testing.T) {
	itemID := uuid.New()

	t.Run("sums across records", func(t *testing.T) {
		records := []StockRecord{
			record(t, itemID, 10),
			record(t, itemID, 5),
		}
		assert.Equal(t, int64(15), SumAvailable(records))
	})

	t.Run("empty input yields zero", func(t *testing.T) {
		assert.Equal(t, int64(0), SumAvailable(nil))
		assert.Equal(t, int64(0), SumAvailable([]StockRecord{}))
	})

	t.Run("blocked records contribute nothing", func(t *testing.T) {
		blocked := record(t, itemID, 100)
		blocked.IsBlocked = true
		records := []StockRecord{blocked, record(t, itemID, 7)}
		assert.Equal(t, int64(7), SumAvailable(records))
	})

	t.Run("falls back to quantity when available is unset", func(t *testing.T) {
		rec := record(t, itemID, 12)
		rec.AvailableQuantity = nil
		assert.Equal(t, int64(12), SumAvailable([]StockRecord{rec}))
	})

	t.Run("negative available clamps to zero", func(t *testing.T) {
		rec := record(t, itemID, 10)
		negative := int64(-3)
		rec.AvailableQuantity = &negative
		assert.Equal(t, int64(0), SumAvailable([]StockRecord{rec}))
	})
}

// stubStockRecordRepo is a StockRecordRepository test double
type stubStockRecordRepo struct {
	records []StockRecord
	err     error
}

func (s *stubStockRecordRepo) Save(ctx context.Context, record *StockRecord) error {
	return nil
}

func (s *stubStockRecordRepo) FindByItemID(ctx context.Context, itemID uuid.UUID) ([]StockRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.records, nil
}

func (s *stubStockRecordRepo) FindByItemAndLocation(ctx context.Context, itemID uuid.UUID, locationCode string) (*StockRecord, error) {
	return nil, shared.ErrNotFound
}

func TestStockAggregator_AvailableStock(t *testing.T) {
	itemID := uuid.New()

	t.Run("aggregates repository records", func(t *testing.T) {
		repo := &stubStockRecordRepo{records: []StockRecord{
			record(t, itemID, 4),
			record(t, itemID, 6),
		}}
		agg := NewStockAggregator(repo, zap.NewNop())
		assert.Equal(t, int64(10), agg.AvailableStock(context.Background(), itemID))
	})

	t.Run("lookup failure degrades to zero stock", func(t *testing.T) {
		repo := &stubStockRecordRepo{err: shared.ErrUpstreamFailure}
		agg := NewStockAggregator(repo, zap.NewNop())
		assert.Equal(t, int64(0), agg.AvailableStock(context.Background(), itemID))
	})

	t.Run("no records is a valid out-of-stock signal", func(t *testing.T) {
		repo := &stubStockRecordRepo{}
		agg := NewStockAggregator(repo, zap.NewNop())
		assert.Equal(t, int64(0), agg.AvailableStock(context.Background(), itemID))
	})
}
