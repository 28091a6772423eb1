package persistence

import (
	"context"

	appbilling "github.com/energypac/erp-backend/internal/application/billing"
	appprocurement "github.com/energypac/erp-backend/internal/application/procurement"
	appworkorder "github.com/energypac/erp-backend/internal/application/workorder"
	"github.com/energypac/erp-backend/internal/domain/billing"
	"github.com/energypac/erp-backend/internal/domain/catalog"
	"github.com/energypac/erp-backend/internal/domain/procurement"
	"github.com/energypac/erp-backend/internal/domain/shared"
	"github.com/energypac/erp-backend/internal/domain/workorder"
	"gorm.io/gorm"
)

// GormTransactionScope implements the application-layer transaction scopes
// using GORM transactions. One scope serves the billing, work order and
// procurement contexts; each sees only the repositories its interface names.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appbilling.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// WorkOrderScope adapts the scope to the work order context
func (s *GormTransactionScope) WorkOrderScope() appworkorder.TransactionScope {
	return &gormWorkOrderScope{db: s.db}
}

// ProcurementScope adapts the scope to the procurement context
func (s *GormTransactionScope) ProcurementScope() appprocurement.TransactionScope {
	return &gormProcurementScope{db: s.db}
}

type gormWorkOrderScope struct {
	db *gorm.DB
}

func (s *gormWorkOrderScope) Execute(ctx context.Context, fn func(repos appworkorder.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

type gormProcurementScope struct {
	db *gorm.DB
}

func (s *gormProcurementScope) Execute(ctx context.Context, fn func(repos appprocurement.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories provides access to all repositories within a transaction
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// BillRepo returns the bill repository scoped to the current transaction
func (r *gormTransactionalRepositories) BillRepo() billing.Repository {
	return NewGormBillRepository(r.tx)
}

// WorkOrderRepo returns the work order repository scoped to the current transaction
func (r *gormTransactionalRepositories) WorkOrderRepo() workorder.Repository {
	return NewGormWorkOrderRepository(r.tx)
}

// ProductRepo returns the product repository scoped to the current transaction
func (r *gormTransactionalRepositories) ProductRepo() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

// PurchaseOrderRepo returns the purchase order repository scoped to the current transaction
func (r *gormTransactionalRepositories) PurchaseOrderRepo() procurement.Repository {
	return NewGormPurchaseOrderRepository(r.tx)
}

// SequenceRepo returns the document sequence repository scoped to the current transaction
func (r *gormTransactionalRepositories) SequenceRepo() shared.DocumentSequenceRepository {
	return NewGormDocumentSequenceRepository(r.tx)
}

// Interface assertions
var (
	_ appbilling.TransactionScope              = (*GormTransactionScope)(nil)
	_ appbilling.TransactionalRepositories     = (*gormTransactionalRepositories)(nil)
	_ appworkorder.TransactionScope            = (*gormWorkOrderScope)(nil)
	_ appworkorder.TransactionalRepositories   = (*gormTransactionalRepositories)(nil)
	_ appprocurement.TransactionScope          = (*gormProcurementScope)(nil)
	_ appprocurement.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
)
