package procurement

import (
	"time"

	"github.com/energypac/erp-backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status represents the status of a purchase order
type Status string

const (
	StatusPending           Status = "PENDING"
	StatusPartiallyReceived Status = "PARTIALLY_RECEIVED"
	StatusCompleted         Status = "COMPLETED"
	StatusCancelled         Status = "CANCELLED"
)

// IsValid checks if the status is a valid purchase order status
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusPartiallyReceived, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of the status
func (s Status) String() string {
	return string(s)
}

// CanReceive returns true if items can still be marked received
func (s Status) CanReceive() bool {
	return s == StatusPending || s == StatusPartiallyReceived
}

// PurchaseOrderItem is a line on a purchase order
// Receipt is all-or-nothing per line: IsReceived flips once and adds the full
// ordered quantity to the product's stock ledger.
type PurchaseOrderItem struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key"`
	PurchaseOrderID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemCode        string          `gorm:"type:varchar(50);not null"`
	ItemName        string          `gorm:"type:varchar(200);not null"`
	Unit            string          `gorm:"type:varchar(20);not null"`
	Quantity        decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Rate            decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Amount          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	IsReceived      bool            `gorm:"not null;default:false"`
	ReceivedAt      *time.Time
	CreatedAt       time.Time `gorm:"not null"`
	UpdatedAt       time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PurchaseOrderItem) TableName() string {
	return "purchase_order_items"
}

// NewItemInput carries the data needed to add a line to a new purchase order
type NewItemInput struct {
	ProductID uuid.UUID
	ItemCode  string
	ItemName  string
	Unit      string
	Quantity  decimal.Decimal
	Rate      decimal.Decimal
}

// newPurchaseOrderItem builds a validated item for the given order
func newPurchaseOrderItem(orderID uuid.UUID, input NewItemInput) (*PurchaseOrderItem, error) {
	if input.ProductID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if input.ItemName == "" {
		return nil, shared.NewDomainError("INVALID_ITEM_NAME", "Item name cannot be empty")
	}
	if input.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if input.Rate.IsNegative() {
		return nil, shared.NewDomainError("INVALID_RATE", "Rate cannot be negative")
	}

	now := time.Now()
	return &PurchaseOrderItem{
		ID:              uuid.New(),
		PurchaseOrderID: orderID,
		ProductID:       input.ProductID,
		ItemCode:        input.ItemCode,
		ItemName:        input.ItemName,
		Unit:            input.Unit,
		Quantity:        input.Quantity,
		Rate:            input.Rate,
		Amount:          input.Quantity.Mul(input.Rate).Round(2),
		IsReceived:      false,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// PurchaseOrder is the aggregate root for a vendor order
type PurchaseOrder struct {
	shared.BaseAggregateRoot
	PONumber           string              `gorm:"type:varchar(50);not null;uniqueIndex"`
	VendorName         string              `gorm:"type:varchar(200);not null"`
	PODate             time.Time           `gorm:"not null"`
	Items              []PurchaseOrderItem `gorm:"foreignKey:PurchaseOrderID;references:ID"`
	TotalAmount        decimal.Decimal     `gorm:"type:decimal(12,2);not null;default:0"`
	Status             Status              `gorm:"type:varchar(30);not null;default:'PENDING'"`
	Notes              string              `gorm:"type:text"`
	CancellationReason string              `gorm:"type:varchar(500)"`
	CancelledBy        string              `gorm:"type:varchar(100)"`
	CancelledAt        *time.Time
}

// TableName returns the table name for GORM
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// NewPurchaseOrder creates a new purchase order with its items
func NewPurchaseOrder(poNumber, vendorName string, poDate time.Time, items []NewItemInput) (*PurchaseOrder, error) {
	if poNumber == "" {
		return nil, shared.NewDomainError("INVALID_PO_NUMBER", "Purchase order number cannot be empty")
	}
	if vendorName == "" {
		return nil, shared.NewDomainError("INVALID_VENDOR", "Vendor name cannot be empty")
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "At least one item is required")
	}

	order := &PurchaseOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		PONumber:          poNumber,
		VendorName:        vendorName,
		PODate:            poDate,
		Items:             make([]PurchaseOrderItem, 0, len(items)),
		Status:            StatusPending,
	}

	total := decimal.Zero
	for _, input := range items {
		item, err := newPurchaseOrderItem(order.ID, input)
		if err != nil {
			return nil, err
		}
		order.Items = append(order.Items, *item)
		total = total.Add(item.Amount)
	}
	order.TotalAmount = total

	order.AddDomainEvent(NewPurchaseOrderCreatedEvent(order))

	return order, nil
}

// SetNotes sets free-form notes on the order
func (o *PurchaseOrder) SetNotes(notes string) {
	o.Notes = notes
	o.UpdatedAt = time.Now()
}

// GetItem returns an item by its ID
func (o *PurchaseOrder) GetItem(itemID uuid.UUID) *PurchaseOrderItem {
	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			return &o.Items[idx]
		}
	}
	return nil
}

// ReceivedItems returns the items already marked received
func (o *PurchaseOrder) ReceivedItems() []PurchaseOrderItem {
	items := make([]PurchaseOrderItem, 0)
	for _, item := range o.Items {
		if item.IsReceived {
			items = append(items, item)
		}
	}
	return items
}

// MarkItemPurchased marks a single line as received and returns it so the
// caller can post the quantity to the product's stock ledger
func (o *PurchaseOrder) MarkItemPurchased(itemID uuid.UUID) (*PurchaseOrderItem, error) {
	if !o.Status.CanReceive() {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot receive items on a "+o.Status.String()+" purchase order")
	}

	item := o.GetItem(itemID)
	if item == nil {
		return nil, shared.NewDomainError("ITEM_NOT_FOUND", "Purchase order item not found")
	}
	if item.IsReceived {
		return nil, shared.NewDomainError("ALREADY_RECEIVED", "Item is already marked as purchased")
	}

	now := time.Now()
	item.IsReceived = true
	item.ReceivedAt = &now
	item.UpdatedAt = now

	o.RefreshStatus()
	o.UpdatedAt = now

	o.AddDomainEvent(NewPurchaseOrderItemReceivedEvent(o, item))

	return item, nil
}

// MarkAllPurchased marks every outstanding line as received and returns the
// newly received items
func (o *PurchaseOrder) MarkAllPurchased() ([]PurchaseOrderItem, error) {
	if !o.Status.CanReceive() {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot receive items on a "+o.Status.String()+" purchase order")
	}

	now := time.Now()
	received := make([]PurchaseOrderItem, 0)
	for idx := range o.Items {
		if o.Items[idx].IsReceived {
			continue
		}
		o.Items[idx].IsReceived = true
		o.Items[idx].ReceivedAt = &now
		o.Items[idx].UpdatedAt = now
		received = append(received, o.Items[idx])
	}

	if len(received) == 0 {
		return nil, shared.NewDomainError("ALREADY_RECEIVED", "All items are already marked as purchased")
	}

	o.RefreshStatus()
	o.UpdatedAt = now

	for idx := range received {
		o.AddDomainEvent(NewPurchaseOrderItemReceivedEvent(o, &received[idx]))
	}

	return received, nil
}

// Cancel cancels the order and returns the received items whose stock the
// caller must reverse. Completed and cancelled orders cannot be cancelled.
func (o *PurchaseOrder) Cancel(reason, cancelledBy string) ([]PurchaseOrderItem, error) {
	if o.Status == StatusCancelled {
		return nil, shared.NewDomainError("INVALID_STATE", "Purchase order is already cancelled")
	}
	if o.Status == StatusCompleted {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot cancel completed purchase order")
	}

	reversed := o.ReceivedItems()

	now := time.Now()
	o.Status = StatusCancelled
	o.CancellationReason = reason
	o.CancelledBy = cancelledBy
	o.CancelledAt = &now
	o.UpdatedAt = now

	o.AddDomainEvent(NewPurchaseOrderCancelledEvent(o, reversed))

	return reversed, nil
}

// DeriveStatus maps item receipt state to an order status
// A cancelled order keeps its status regardless of item state.
func DeriveStatus(items []PurchaseOrderItem) Status {
	if len(items) == 0 {
		return StatusPending
	}

	allReceived := true
	anyReceived := false
	for _, item := range items {
		if item.IsReceived {
			anyReceived = true
		} else {
			allReceived = false
		}
	}

	if allReceived {
		return StatusCompleted
	}
	if anyReceived {
		return StatusPartiallyReceived
	}
	return StatusPending
}

// RefreshStatus recomputes the status from item state, preserving CANCELLED
func (o *PurchaseOrder) RefreshStatus() {
	if o.Status == StatusCancelled {
		return
	}
	o.Status = DeriveStatus(o.Items)
}

// IsCancelled returns true if the order is cancelled
func (o *PurchaseOrder) IsCancelled() bool {
	return o.Status == StatusCancelled
}

// IsCompleted returns true if every item has been received
func (o *PurchaseOrder) IsCompleted() bool {
	return o.Status == StatusCompleted
}
