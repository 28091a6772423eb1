package workorder

import (
	"fmt"
	"time"

	"github.com/energypac/erp-backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status represents the status of a work order
type Status string

const (
	StatusActive             Status = "ACTIVE"
	StatusPartiallyDelivered Status = "PARTIALLY_DELIVERED"
	StatusCompleted          Status = "COMPLETED"
	StatusCancelled          Status = "CANCELLED"
)

// IsValid checks if the status is a valid work order status
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusPartiallyDelivered, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of the status
func (s Status) String() string {
	return string(s)
}

// CanBill returns true if deliveries can still be billed against this status
func (s Status) CanBill() bool {
	return s == StatusActive || s == StatusPartiallyDelivered
}

// ItemStockStatus classifies the stock snapshot taken at work order creation
type ItemStockStatus string

const (
	ItemStockStatusInStock      ItemStockStatus = "IN_STOCK"
	ItemStockStatusPartialStock ItemStockStatus = "PARTIAL_STOCK"
	ItemStockStatusOutOfStock   ItemStockStatus = "OUT_OF_STOCK"
	ItemStockStatusManualItem   ItemStockStatus = "MANUAL_ITEM"
)

// WorkOrderItem represents a line item on a work order
// Rate and product details are frozen at creation; DeliveredQuantity is the
// running total of quantities billed against this line.
type WorkOrderItem struct {
	ID                uuid.UUID       `gorm:"type:uuid;primary_key"`
	WorkOrderID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID         *uuid.UUID      `gorm:"type:uuid;index"` // nil for manual items
	ItemCode          string          `gorm:"type:varchar(50);not null"`
	ItemName          string          `gorm:"type:varchar(200);not null"`
	Description       string          `gorm:"type:text"`
	HSNCode           string          `gorm:"type:varchar(20)"`
	Unit              string          `gorm:"type:varchar(20);not null"`
	Rate              decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Quantity          decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	DeliveredQuantity decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	StockAvailable    bool            `gorm:"not null;default:false"`
	StockQuantity     decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"` // stock snapshot at creation
	CreatedAt         time.Time       `gorm:"not null"`
	UpdatedAt         time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (WorkOrderItem) TableName() string {
	return "work_order_items"
}

// NewItemInput carries the data needed to add a line to a new work order
type NewItemInput struct {
	ProductID     *uuid.UUID
	ItemCode      string
	ItemName      string
	Description   string
	HSNCode       string
	Unit          string
	Rate          decimal.Decimal
	Quantity      decimal.Decimal
	StockQuantity decimal.Decimal // current stock at creation, zero for manual items
}

// newWorkOrderItem builds a validated item for the given work order
func newWorkOrderItem(workOrderID uuid.UUID, input NewItemInput) (*WorkOrderItem, error) {
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
	return &WorkOrderItem{
		ID:                uuid.New(),
		WorkOrderID:       workOrderID,
		ProductID:         input.ProductID,
		ItemCode:          input.ItemCode,
		ItemName:          input.ItemName,
		Description:       input.Description,
		HSNCode:           input.HSNCode,
		Unit:              input.Unit,
		Rate:              input.Rate,
		Quantity:          input.Quantity,
		DeliveredQuantity: decimal.Zero,
		StockAvailable:    input.ProductID != nil && input.StockQuantity.GreaterThanOrEqual(input.Quantity),
		StockQuantity:     input.StockQuantity,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

// PendingQuantity returns the quantity still to be delivered
func (i *WorkOrderItem) PendingQuantity() decimal.Decimal {
	pending := i.Quantity.Sub(i.DeliveredQuantity)
	if pending.IsNegative() {
		return decimal.Zero
	}
	return pending
}

// IsFullyDelivered returns true if the whole ordered quantity has been delivered
func (i *WorkOrderItem) IsFullyDelivered() bool {
	return i.DeliveredQuantity.GreaterThanOrEqual(i.Quantity)
}

// IsManual returns true for items not backed by a catalog product
func (i *WorkOrderItem) IsManual() bool {
	return i.ProductID == nil
}

// StockStatus classifies the stock snapshot taken when the order was created
func (i *WorkOrderItem) StockStatus() ItemStockStatus {
	if i.IsManual() {
		return ItemStockStatusManualItem
	}
	if i.StockQuantity.GreaterThanOrEqual(i.Quantity) {
		return ItemStockStatusInStock
	}
	if i.StockQuantity.IsPositive() {
		return ItemStockStatusPartialStock
	}
	return ItemStockStatusOutOfStock
}

// addDelivered adds to the delivered quantity, bounded by the pending quantity
func (i *WorkOrderItem) addDelivered(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Delivery quantity must be positive")
	}
	if quantity.GreaterThan(i.PendingQuantity()) {
		return shared.NewDomainError("EXCEEDS_PENDING",
			fmt.Sprintf("Cannot deliver %s of %s. Only %s pending.",
				quantity.String(), i.ItemName, i.PendingQuantity().String()))
	}

	i.DeliveredQuantity = i.DeliveredQuantity.Add(quantity)
	i.UpdatedAt = time.Now()

	return nil
}

// removeDelivered reverses a delivery, bounded by the delivered quantity
func (i *WorkOrderItem) removeDelivered(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Reversal quantity must be positive")
	}
	if quantity.GreaterThan(i.DeliveredQuantity) {
		return shared.NewDomainError("INVALID_QUANTITY",
			fmt.Sprintf("Cannot reverse %s of %s. Only %s delivered.",
				quantity.String(), i.ItemName, i.DeliveredQuantity.String()))
	}

	i.DeliveredQuantity = i.DeliveredQuantity.Sub(quantity)
	i.UpdatedAt = time.Now()

	return nil
}

// WorkOrder is the aggregate root for a client order
// Client details are snapshotted onto the order; monetary totals are derived
// from the items and the GST percentages frozen at creation.
type WorkOrder struct {
	shared.BaseAggregateRoot
	WONumber            string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	ClientName          string          `gorm:"type:varchar(200);not null"`
	ContactPerson       string          `gorm:"type:varchar(100)"`
	Phone               string          `gorm:"type:varchar(20)"`
	Email               string          `gorm:"type:varchar(100)"`
	Address             string          `gorm:"type:text"`
	WODate              time.Time       `gorm:"not null"`
	Items               []WorkOrderItem `gorm:"foreignKey:WorkOrderID;references:ID"`
	CGSTPercentage      decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	SGSTPercentage      decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	IGSTPercentage      decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	Subtotal            decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalAmount         decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	AdvanceReceived     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	AdvanceDeducted     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalDeliveredValue decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Status              Status          `gorm:"type:varchar(30);not null;default:'ACTIVE'"`
	Notes               string          `gorm:"type:text"`
	CancelledAt         *time.Time
}

// TableName returns the table name for GORM
func (WorkOrder) TableName() string {
	return "work_orders"
}

// NewWorkOrder creates a new work order with its items
func NewWorkOrder(woNumber, clientName string, woDate time.Time, cgst, sgst, igst decimal.Decimal, items []NewItemInput) (*WorkOrder, error) {
	if woNumber == "" {
		return nil, shared.NewDomainError("INVALID_WO_NUMBER", "Work order number cannot be empty")
	}
	if clientName == "" {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Client name cannot be empty")
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "At least one item is required")
	}
	for _, pct := range []decimal.Decimal{cgst, sgst, igst} {
		if pct.IsNegative() {
			return nil, shared.NewDomainError("INVALID_TAX", "Tax percentage cannot be negative")
		}
	}

	order := &WorkOrder{
		BaseAggregateRoot:   shared.NewBaseAggregateRoot(),
		WONumber:            woNumber,
		ClientName:          clientName,
		WODate:              woDate,
		Items:               make([]WorkOrderItem, 0, len(items)),
		CGSTPercentage:      cgst,
		SGSTPercentage:      sgst,
		IGSTPercentage:      igst,
		AdvanceReceived:     decimal.Zero,
		AdvanceDeducted:     decimal.Zero,
		TotalDeliveredValue: decimal.Zero,
		Status:              StatusActive,
	}

	for _, input := range items {
		item, err := newWorkOrderItem(order.ID, input)
		if err != nil {
			return nil, err
		}
		order.Items = append(order.Items, *item)
	}

	order.recalculateTotals()
	order.AddDomainEvent(NewWorkOrderCreatedEvent(order))

	return order, nil
}

// SetClientContact sets the optional client contact snapshot fields
func (o *WorkOrder) SetClientContact(contactPerson, phone, email, address string) {
	o.ContactPerson = contactPerson
	o.Phone = phone
	o.Email = email
	o.Address = address
	o.UpdatedAt = time.Now()
}

// SetNotes sets free-form notes on the order
func (o *WorkOrder) SetNotes(notes string) {
	o.Notes = notes
	o.UpdatedAt = time.Now()
}

// recalculateTotals recomputes subtotal and the tax-inclusive total
func (o *WorkOrder) recalculateTotals() {
	subtotal := decimal.Zero
	for _, item := range o.Items {
		subtotal = subtotal.Add(item.Quantity.Mul(item.Rate))
	}
	o.Subtotal = subtotal.Round(2)

	hundred := decimal.NewFromInt(100)
	cgst := o.Subtotal.Mul(o.CGSTPercentage).Div(hundred).Round(2)
	sgst := o.Subtotal.Mul(o.SGSTPercentage).Div(hundred).Round(2)
	igst := o.Subtotal.Mul(o.IGSTPercentage).Div(hundred).Round(2)
	o.TotalAmount = o.Subtotal.Add(cgst).Add(sgst).Add(igst)
}

// AdvanceRemaining returns the advance still available for deduction
func (o *WorkOrder) AdvanceRemaining() decimal.Decimal {
	remaining := o.AdvanceReceived.Sub(o.AdvanceDeducted)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// RecordAdvance records an advance receipt from the client
func (o *WorkOrder) RecordAdvance(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Advance amount must be positive")
	}
	if o.Status == StatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Cannot record advance on a cancelled work order")
	}

	o.AdvanceReceived = o.AdvanceReceived.Add(amount)
	o.UpdatedAt = time.Now()

	return nil
}

// DeductAdvance consumes part of the remaining advance for a bill
func (o *WorkOrder) DeductAdvance(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Deduction amount cannot be negative")
	}
	if amount.GreaterThan(o.AdvanceRemaining()) {
		return shared.NewDomainError("INVALID_AMOUNT", "Deduction exceeds remaining advance")
	}

	o.AdvanceDeducted = o.AdvanceDeducted.Add(amount)
	o.UpdatedAt = time.Now()

	return nil
}

// RestoreAdvance returns a previously deducted advance amount to the pool
func (o *WorkOrder) RestoreAdvance(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Restore amount cannot be negative")
	}
	if amount.GreaterThan(o.AdvanceDeducted) {
		return shared.NewDomainError("INVALID_AMOUNT", "Restore exceeds deducted advance")
	}

	o.AdvanceDeducted = o.AdvanceDeducted.Sub(amount)
	o.UpdatedAt = time.Now()

	return nil
}

// GetItem returns an item by its ID
func (o *WorkOrder) GetItem(itemID uuid.UUID) *WorkOrderItem {
	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			return &o.Items[idx]
		}
	}
	return nil
}

// ApplyDelivery records a billed delivery against an item and updates the
// derived status
func (o *WorkOrder) ApplyDelivery(itemID uuid.UUID, quantity decimal.Decimal) error {
	item := o.GetItem(itemID)
	if item == nil {
		return shared.NewDomainError("ITEM_NOT_FOUND", "Work order item not found")
	}

	if err := item.addDelivered(quantity); err != nil {
		return err
	}

	o.RefreshStatus()
	o.UpdatedAt = time.Now()

	return nil
}

// ReverseDelivery is the exact inverse of ApplyDelivery, used when the
// corresponding bill is cancelled
func (o *WorkOrder) ReverseDelivery(itemID uuid.UUID, quantity decimal.Decimal) error {
	item := o.GetItem(itemID)
	if item == nil {
		return shared.NewDomainError("ITEM_NOT_FOUND", "Work order item not found")
	}

	if err := item.removeDelivered(quantity); err != nil {
		return err
	}

	o.RefreshStatus()
	o.UpdatedAt = time.Now()

	return nil
}

// AddDeliveredValue accrues a bill's tax-inclusive total onto the order's
// running delivered value
func (o *WorkOrder) AddDeliveredValue(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Delivered value cannot be negative")
	}

	o.TotalDeliveredValue = o.TotalDeliveredValue.Add(amount).Round(2)
	o.UpdatedAt = time.Now()

	return nil
}

// SubtractDeliveredValue reverses a bill's contribution to the delivered
// value, clamping at zero
func (o *WorkOrder) SubtractDeliveredValue(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Delivered value cannot be negative")
	}

	o.TotalDeliveredValue = o.TotalDeliveredValue.Sub(amount).Round(2)
	if o.TotalDeliveredValue.IsNegative() {
		o.TotalDeliveredValue = decimal.Zero
	}
	o.UpdatedAt = time.Now()

	return nil
}

// DeriveStatus maps item delivery state to a work order status
// A cancelled order keeps its status regardless of item state.
func DeriveStatus(items []WorkOrderItem) Status {
	if len(items) == 0 {
		return StatusActive
	}

	allDelivered := true
	anyDelivered := false
	for _, item := range items {
		if !item.IsFullyDelivered() {
			allDelivered = false
		}
		if item.DeliveredQuantity.IsPositive() {
			anyDelivered = true
		}
	}

	if allDelivered {
		return StatusCompleted
	}
	if anyDelivered {
		return StatusPartiallyDelivered
	}
	return StatusActive
}

// RefreshStatus recomputes the status from item state, preserving CANCELLED
func (o *WorkOrder) RefreshStatus() {
	if o.Status == StatusCancelled {
		return
	}
	o.Status = DeriveStatus(o.Items)
}

// Cancel cancels the work order
func (o *WorkOrder) Cancel() error {
	if o.Status == StatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Work order is already cancelled")
	}
	if o.Status == StatusCompleted {
		return shared.NewDomainError("INVALID_STATE", "Work order is already completed")
	}

	now := time.Now()
	o.Status = StatusCancelled
	o.CancelledAt = &now
	o.UpdatedAt = now

	o.AddDomainEvent(NewWorkOrderCancelledEvent(o))

	return nil
}

// IsCancelled returns true if the order is cancelled
func (o *WorkOrder) IsCancelled() bool {
	return o.Status == StatusCancelled
}

// IsCompleted returns true if all items are fully delivered
func (o *WorkOrder) IsCompleted() bool {
	return o.Status == StatusCompleted
}
