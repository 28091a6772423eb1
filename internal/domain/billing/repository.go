package billing

import (
	"context"

	"github.com/energypac/erp-backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository defines persistence operations for bills
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Bill, error)
	// FindByIDForUpdate loads a bill holding a row lock for the duration of
	// the surrounding transaction; payment recording serializes on it
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Bill, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Bill, int64, error)
	FindByWorkOrder(ctx context.Context, workOrderID uuid.UUID) ([]Bill, error)
	FindPendingPayment(ctx context.Context) ([]Bill, error)
	Create(ctx context.Context, bill *Bill) error
	Save(ctx context.Context, bill *Bill) error
}
