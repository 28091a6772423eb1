package billing

import (
	"context"

	"github.com/energypac/erp-backend/internal/domain/billing"
	"github.com/energypac/erp-backend/internal/domain/catalog"
	"github.com/energypac/erp-backend/internal/domain/shared"
	"github.com/energypac/erp-backend/internal/domain/workorder"
)

// TransactionScope provides transactional access to the repositories a bill
// operation touches. When a function is executed within a transaction scope,
// all repository operations are part of the same database transaction and are
// committed or rolled back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories involved in
// bill generation, payment and cancellation within one transaction.
//
// Bill generation mutates three aggregates at once: the bill, the work order
// (delivered quantities, advance pool) and the catalog products (stock). The
// work order and product rows are loaded with row locks so concurrent bill
// submissions against the same data serialize instead of double-spending
// pending quantities or stock.
type TransactionalRepositories interface {
	// BillRepo returns the bill repository scoped to the current transaction
	BillRepo() billing.Repository
	// WorkOrderRepo returns the work order repository scoped to the current transaction
	WorkOrderRepo() workorder.Repository
	// ProductRepo returns the product repository scoped to the current transaction
	ProductRepo() catalog.ProductRepository
	// SequenceRepo returns the document sequence repository scoped to the current transaction
	SequenceRepo() shared.DocumentSequenceRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. This is useful for testing or when transaction support is not
// required.
type NoOpTransactionScope struct {
	billRepo      billing.Repository
	workOrderRepo workorder.Repository
	productRepo   catalog.ProductRepository
	sequenceRepo  shared.DocumentSequenceRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	billRepo billing.Repository,
	workOrderRepo workorder.Repository,
	productRepo catalog.ProductRepository,
	sequenceRepo shared.DocumentSequenceRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		billRepo:      billRepo,
		workOrderRepo: workOrderRepo,
		productRepo:   productRepo,
		sequenceRepo:  sequenceRepo,
	}
}

// Execute runs the function without a real transaction (for testing/compatibility).
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// BillRepo returns the bill repository.
func (s *NoOpTransactionScope) BillRepo() billing.Repository {
	return s.billRepo
}

// WorkOrderRepo returns the work order repository.
func (s *NoOpTransactionScope) WorkOrderRepo() workorder.Repository {
	return s.workOrderRepo
}

// ProductRepo returns the product repository.
func (s *NoOpTransactionScope) ProductRepo() catalog.ProductRepository {
	return s.productRepo
}

// SequenceRepo returns the document sequence repository.
func (s *NoOpTransactionScope) SequenceRepo() shared.DocumentSequenceRepository {
	return s.sequenceRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
