package inventory

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SumAvailable reduces a set of stock records into a single available
// quantity. Blocked records contribute nothing; negative quantities are
// clamped to zero per record. An empty input yields 0.
func SumAvailable(records []StockRecord) int64 {
	var total int64
	for i := range records {
		total += records[i].Usable()
	}
	return total
}

// StockAggregator resolves the available stock figure for an item.
// Lookup failure and missing records both degrade to zero: stock absence
// is a valid "out of stock" signal, never a fatal condition here.
type StockAggregator struct {
	records StockRecordRepository
	logger  *zap.Logger
}

// NewStockAggregator creates a new StockAggregator
func NewStockAggregator(records StockRecordRepository, logger *zap.Logger) *StockAggregator {
	return &StockAggregator{
		records: records,
		logger:  logger,
	}
}

// AvailableStock returns the aggregate available quantity for an item,
// always >= 0
func (a *StockAggregator) AvailableStock(ctx context.Context, itemID uuid.UUID) int64 {
	records, err := a.records.FindByItemID(ctx, itemID)
	if err != nil {
		a.logger.Warn("stock lookup failed, treating as zero stock",
			zap.String("item_id", itemID.String()),
			zap.Error(err),
		)
		return 0
	}
	return SumAvailable(records)
}
