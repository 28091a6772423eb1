package procurement

import (
	"context"

	"github.com/energypac/erp-backend/internal/domain/catalog"
	"github.com/energypac/erp-backend/internal/domain/procurement"
	"github.com/energypac/erp-backend/internal/domain/shared"
)

// TransactionScope provides transactional access to the repositories a
// purchase order operation touches. Receipt and cancellation mutate the
// purchase order and product stock together and must commit atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides the procurement side repositories within
// one transaction.
type TransactionalRepositories interface {
	// PurchaseOrderRepo returns the purchase order repository scoped to the current transaction
	PurchaseOrderRepo() procurement.Repository
	// ProductRepo returns the product repository scoped to the current transaction
	ProductRepo() catalog.ProductRepository
	// SequenceRepo returns the document sequence repository scoped to the current transaction
	SequenceRepo() shared.DocumentSequenceRepository
}

// NoOpTransactionScope is a transaction scope without real transactions, for
// testing.
type NoOpTransactionScope struct {
	purchaseOrderRepo procurement.Repository
	productRepo       catalog.ProductRepository
	sequenceRepo      shared.DocumentSequenceRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	purchaseOrderRepo procurement.Repository,
	productRepo catalog.ProductRepository,
	sequenceRepo shared.DocumentSequenceRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		purchaseOrderRepo: purchaseOrderRepo,
		productRepo:       productRepo,
		sequenceRepo:      sequenceRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// PurchaseOrderRepo returns the purchase order repository.
func (s *NoOpTransactionScope) PurchaseOrderRepo() procurement.Repository {
	return s.purchaseOrderRepo
}

// ProductRepo returns the product repository.
func (s *NoOpTransactionScope) ProductRepo() catalog.ProductRepository {
	return s.productRepo
}

// SequenceRepo returns the document sequence repository.
func (s *NoOpTransactionScope) SequenceRepo() shared.DocumentSequenceRepository {
	return s.sequenceRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
