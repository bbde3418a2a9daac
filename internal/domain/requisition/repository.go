package requisition

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines persistence operations for requisitions
type Repository interface {
	Save(ctx context.Context, req *Requisition) error
	FindByID(ctx context.Context, id uuid.UUID) (*Requisition, error)
	FindByNumber(ctx context.Context, number string) (*Requisition, error)
	GenerateNumber(ctx context.Context) (string, error)
}
