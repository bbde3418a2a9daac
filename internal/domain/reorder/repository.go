package reorder

import (
	"context"

	"github.com/google/uuid"
)

// DraftFilter narrows draft listings
type DraftFilter struct {
	Status   *DraftStatus
	Page     int
	PageSize int
}

// DraftRepository defines persistence operations for draft purchase
// requests
type DraftRepository interface {
	Save(ctx context.Context, draft *DraftPurchaseRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*DraftPurchaseRequest, error)
	FindByNumber(ctx context.Context, draftNumber string) (*DraftPurchaseRequest, error)
	FindAll(ctx context.Context, filter DraftFilter) ([]DraftPurchaseRequest, int64, error)
	GenerateDraftNumber(ctx context.Context) (string, error)
}
