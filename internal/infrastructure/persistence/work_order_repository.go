package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/energypac/erp-backend/internal/domain/shared"
	"github.com/energypac/erp-backend/internal/domain/workorder"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormWorkOrderRepository implements the work order Repository using GORM
type GormWorkOrderRepository struct {
	db *gorm.DB
}

// NewGormWorkOrderRepository creates a new GormWorkOrderRepository
func NewGormWorkOrderRepository(db *gorm.DB) *GormWorkOrderRepository {
	return &GormWorkOrderRepository{db: db}
}

// FindByID finds a work order with its items by ID
func (r *GormWorkOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*workorder.WorkOrder, error) {
	var order workorder.WorkOrder
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByIDForUpdate finds a work order by ID holding a row lock on the order.
// Delivery application and advance mutations serialize on this lock.
func (r *GormWorkOrderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*workorder.WorkOrder, error) {
	var order workorder.WorkOrder
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if err := r.db.WithContext(ctx).
		Where("work_order_id = ?", id).
		Find(&order.Items).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByNumber finds a work order by its WO number
func (r *GormWorkOrderRepository) FindByNumber(ctx context.Context, woNumber string) (*workorder.WorkOrder, error) {
	var order workorder.WorkOrder
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "wo_number = ?", woNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindAll finds work orders with filtering and pagination
func (r *GormWorkOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]workorder.WorkOrder, int64, error) {
	query := r.db.WithContext(ctx).Model(&workorder.WorkOrder{})

	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(wo_number) LIKE ? OR LOWER(client_name) LIKE ?", pattern, pattern)
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if clientName, ok := filter.Filters["client_name"]; ok {
		query = query.Where("LOWER(client_name) LIKE ?", "%"+strings.ToLower(clientName.(string))+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderBy := ValidateSortField(filter.OrderBy, WorkOrderSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)

	var orders []workorder.WorkOrder
	if err := query.
		Preload("Items").
		Order(orderBy + " " + orderDir).
		Offset((filter.Page - 1) * filter.PageSize).
		Limit(filter.PageSize).
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// Save creates or updates a work order with its items
func (r *GormWorkOrderRepository) Save(ctx context.Context, order *workorder.WorkOrder) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(order).Error
}

// SaveWithLock saves with optimistic locking. The match is against the
// version loaded at read time; the row advances exactly one version per
// persist no matter how many aggregate mutations led here.
func (r *GormWorkOrderRepository) SaveWithLock(ctx context.Context, order *workorder.WorkOrder) error {
	result := r.db.WithContext(ctx).
		Model(order).
		Where("id = ? AND version = ?", order.ID, order.Version).
		Updates(map[string]interface{}{
			"status":                order.Status,
			"advance_received":      order.AdvanceReceived,
			"advance_deducted":      order.AdvanceDeducted,
			"total_delivered_value": order.TotalDeliveredValue,
			"notes":                 order.Notes,
			"cancelled_at":          order.CancelledAt,
			"version":               order.Version + 1,
			"updated_at":            order.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_FAILED", "Work order was modified by another transaction")
	}
	order.IncrementVersion()

	if len(order.Items) > 0 {
		if err := r.db.WithContext(ctx).
			Clauses(clause.OnConflict{UpdateAll: true}).
			Create(&order.Items).Error; err != nil {
			return err
		}
	}
	return nil
}

// Ensure GormWorkOrderRepository implements Repository
var _ workorder.Repository = (*GormWorkOrderRepository)(nil)
