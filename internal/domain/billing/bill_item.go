package billing

import (
	"fmt"
	"time"

	"github.com/energypac/erp-backend/internal/domain/shared"
	"github.com/energypac/erp-backend/internal/domain/workorder"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BillItem is a point-in-time snapshot of a work order item delivery
// Every descriptive field is copied from the work order item so the bill
// stays readable even if the catalog changes later.
type BillItem struct {
	ID                          uuid.UUID       `gorm:"type:uuid;primary_key"`
	BillID                      uuid.UUID       `gorm:"type:uuid;not null;index"`
	WorkOrderItemID             uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID                   *uuid.UUID      `gorm:"type:uuid;index"` // nil for manual items
	ItemCode                    string          `gorm:"type:varchar(50);not null"`
	ItemName                    string          `gorm:"type:varchar(200);not null"`
	Description                 string          `gorm:"type:text"`
	HSNCode                     string          `gorm:"type:varchar(20)"`
	Unit                        string          `gorm:"type:varchar(20);not null"`
	Rate                        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	OrderedQuantity             decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	PreviouslyDeliveredQuantity decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	DeliveredQuantity           decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	PendingQuantity             decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Amount                      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt                   time.Time       `gorm:"not null"`
	UpdatedAt                   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (BillItem) TableName() string {
	return "bill_items"
}

// NewBillItemFromWorkOrderItem snapshots a work order item for a delivery of
// the given quantity. The work order item must not yet have this delivery
// applied: PreviouslyDeliveredQuantity captures its current delivered total.
func NewBillItemFromWorkOrderItem(billID uuid.UUID, item *workorder.WorkOrderItem, quantity decimal.Decimal) (*BillItem, error) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY",
			fmt.Sprintf("Delivery quantity for %s must be positive", item.ItemName))
	}
	if quantity.GreaterThan(item.PendingQuantity()) {
		return nil, shared.NewDomainError("EXCEEDS_PENDING",
			fmt.Sprintf("Cannot deliver %s of %s. Only %s pending.",
				quantity.String(), item.ItemName, item.PendingQuantity().String()))
	}

	now := time.Now()
	pending := item.Quantity.Sub(item.DeliveredQuantity.Add(quantity))
	if pending.IsNegative() {
		pending = decimal.Zero
	}

	return &BillItem{
		ID:                          uuid.New(),
		BillID:                      billID,
		WorkOrderItemID:             item.ID,
		ProductID:                   item.ProductID,
		ItemCode:                    item.ItemCode,
		ItemName:                    item.ItemName,
		Description:                 item.Description,
		HSNCode:                     item.HSNCode,
		Unit:                        item.Unit,
		Rate:                        item.Rate,
		OrderedQuantity:             item.Quantity,
		PreviouslyDeliveredQuantity: item.DeliveredQuantity,
		DeliveredQuantity:           quantity,
		PendingQuantity:             pending,
		Amount:                      quantity.Mul(item.Rate).Round(2),
		CreatedAt:                   now,
		UpdatedAt:                   now,
	}, nil
}

// IsProductBacked returns true if the item moves catalog stock
func (i *BillItem) IsProductBacked() bool {
	return i.ProductID != nil
}
