package workorder

import (
	"context"

	"github.com/energypac/erp-backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository defines persistence operations for work orders
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*WorkOrder, error)
	// FindByIDForUpdate loads a work order holding a row lock for the
	// duration of the surrounding transaction
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*WorkOrder, error)
	FindByNumber(ctx context.Context, woNumber string) (*WorkOrder, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]WorkOrder, int64, error)
	Save(ctx context.Context, order *WorkOrder) error
	SaveWithLock(ctx context.Context, order *WorkOrder) error
}
