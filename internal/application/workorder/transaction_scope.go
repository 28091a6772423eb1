package workorder

import (
	"context"

	"github.com/energypac/erp-backend/internal/domain/catalog"
	"github.com/energypac/erp-backend/internal/domain/shared"
	"github.com/energypac/erp-backend/internal/domain/workorder"
)

// TransactionScope provides transactional access to the repositories a work
// order operation touches. Creation consumes a document sequence number and
// reads product stock snapshots; both must see the same transaction.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides the work order side repositories within
// one transaction.
type TransactionalRepositories interface {
	// WorkOrderRepo returns the work order repository scoped to the current transaction
	WorkOrderRepo() workorder.Repository
	// ProductRepo returns the product repository scoped to the current transaction
	ProductRepo() catalog.ProductRepository
	// SequenceRepo returns the document sequence repository scoped to the current transaction
	SequenceRepo() shared.DocumentSequenceRepository
}

// NoOpTransactionScope is a transaction scope without real transactions, for
// testing.
type NoOpTransactionScope struct {
	workOrderRepo workorder.Repository
	productRepo   catalog.ProductRepository
	sequenceRepo  shared.DocumentSequenceRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	workOrderRepo workorder.Repository,
	productRepo catalog.ProductRepository,
	sequenceRepo shared.DocumentSequenceRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		workOrderRepo: workOrderRepo,
		productRepo:   productRepo,
		sequenceRepo:  sequenceRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
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

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
