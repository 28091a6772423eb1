package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/energypac/erp-backend/internal/domain/billing"
	"github.com/energypac/erp-backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormBillRepository implements the billing Repository using GORM
type GormBillRepository struct {
	db *gorm.DB
}

// NewGormBillRepository creates a new GormBillRepository
func NewGormBillRepository(db *gorm.DB) *GormBillRepository {
	return &GormBillRepository{db: db}
}

// FindByID finds a bill with its items and payments by ID
func (r *GormBillRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Bill, error) {
	var bill billing.Bill
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Payments", orderPaymentsByNumber).
		First(&bill, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &bill, nil
}

// orderPaymentsByNumber keeps every loaded payment ledger in its recorded
// sequence
func orderPaymentsByNumber(db *gorm.DB) *gorm.DB {
	return db.Order("payment_number ASC")
}

// FindByIDForUpdate finds a bill by ID holding a row lock on the bill.
// Payment recording and cancellation serialize on this lock.
func (r *GormBillRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*billing.Bill, error) {
	var bill billing.Bill
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&bill, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if err := r.db.WithContext(ctx).
		Where("bill_id = ?", id).
		Find(&bill.Items).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).
		Where("bill_id = ?", id).
		Order("payment_number ASC").
		Find(&bill.Payments).Error; err != nil {
		return nil, err
	}
	return &bill, nil
}

// FindAll finds bills with filtering and pagination
func (r *GormBillRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.Bill, int64, error) {
	query := r.db.WithContext(ctx).Model(&billing.Bill{})

	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(bill_number) LIKE ? OR LOWER(wo_number) LIKE ? OR LOWER(client_name) LIKE ?",
			pattern, pattern, pattern)
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if workOrderID, ok := filter.Filters["work_order_id"]; ok {
		query = query.Where("work_order_id = ?", workOrderID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderBy := ValidateSortField(filter.OrderBy, BillSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)

	var bills []billing.Bill
	if err := query.
		Preload("Items").
		Preload("Payments", orderPaymentsByNumber).
		Order(orderBy + " " + orderDir).
		Offset((filter.Page - 1) * filter.PageSize).
		Limit(filter.PageSize).
		Find(&bills).Error; err != nil {
		return nil, 0, err
	}

	return bills, total, nil
}

// FindByWorkOrder finds all bills raised against a work order
func (r *GormBillRepository) FindByWorkOrder(ctx context.Context, workOrderID uuid.UUID) ([]billing.Bill, error) {
	var bills []billing.Bill
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Payments", orderPaymentsByNumber).
		Where("work_order_id = ?", workOrderID).
		Order("bill_date ASC, created_at ASC").
		Find(&bills).Error; err != nil {
		return nil, err
	}
	return bills, nil
}

// FindPendingPayment finds generated bills that still carry an outstanding balance
func (r *GormBillRepository) FindPendingPayment(ctx context.Context) ([]billing.Bill, error) {
	var bills []billing.Bill
	if err := r.db.WithContext(ctx).
		Preload("Payments", orderPaymentsByNumber).
		Where("status = ? AND balance > 0", billing.StatusGenerated).
		Order("bill_date ASC").
		Find(&bills).Error; err != nil {
		return nil, err
	}
	return bills, nil
}

// Create inserts a new bill with its items
func (r *GormBillRepository) Create(ctx context.Context, bill *billing.Bill) error {
	return r.db.WithContext(ctx).Create(bill).Error
}

// Save updates a bill. The payment ledger is append-only: rows already on
// disk are left untouched and only newly recorded payments are inserted.
func (r *GormBillRepository) Save(ctx context.Context, bill *billing.Bill) error {
	result := r.db.WithContext(ctx).
		Model(bill).
		Where("id = ?", bill.ID).
		Updates(map[string]interface{}{
			"amount_paid":  bill.AmountPaid,
			"balance":      bill.Balance,
			"status":       bill.Status,
			"cancelled_at": bill.CancelledAt,
			"version":      bill.Version,
			"updated_at":   bill.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}

	if len(bill.Payments) > 0 {
		if err := r.db.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&bill.Payments).Error; err != nil {
			return err
		}
	}
	return nil
}

// Ensure GormBillRepository implements Repository
var _ billing.Repository = (*GormBillRepository)(nil)
