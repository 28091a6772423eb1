package billing

import (
	"time"

	"github.com/energypac/erp-backend/internal/domain/shared"
	"github.com/energypac/erp-backend/internal/domain/shared/valueobject"
	"github.com/energypac/erp-backend/internal/domain/workorder"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status represents the status of a bill
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusGenerated Status = "GENERATED"
	StatusPaid      Status = "PAID"
	StatusCancelled Status = "CANCELLED"
)

// IsValid checks if the status is a valid bill status
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusGenerated, StatusPaid, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of the status
func (s Status) String() string {
	return string(s)
}

// Bill is the aggregate root for a delivery bill raised against a work order
// Items, tax percentages and the advance deduction are all snapshots taken at
// generation time; the payment ledger is append-only.
type Bill struct {
	shared.BaseAggregateRoot
	BillNumber      string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	WorkOrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	WONumber        string          `gorm:"type:varchar(50);not null"`
	ClientName      string          `gorm:"type:varchar(200);not null"`
	BillDate        time.Time       `gorm:"not null"`
	Items           []BillItem      `gorm:"foreignKey:BillID;references:ID"`
	Payments        []BillPayment   `gorm:"foreignKey:BillID;references:ID"`
	CGSTPercentage  decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	SGSTPercentage  decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	IGSTPercentage  decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CGSTAmount      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	SGSTAmount      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	IGSTAmount      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	AdvanceDeducted decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	NetPayable      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	AmountPaid      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Balance         decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Status          Status          `gorm:"type:varchar(20);not null;default:'GENERATED'"`
	Notes           string          `gorm:"type:text"`
	CancelledAt     *time.Time
}

// TableName returns the table name for GORM
func (Bill) TableName() string {
	return "bills"
}

// NewBill starts a bill against a work order, copying the client snapshot and
// tax percentages. Items are added with AddDeliveryItem and the monetary
// fields are computed by Finalize.
func NewBill(billNumber string, order *workorder.WorkOrder, billDate time.Time, notes string) (*Bill, error) {
	if billNumber == "" {
		return nil, shared.NewDomainError("INVALID_BILL_NUMBER", "Bill number cannot be empty")
	}
	if order == nil {
		return nil, shared.NewDomainError("WORK_ORDER_NOT_FOUND", "Work order not found")
	}
	if order.IsCancelled() {
		return nil, shared.NewDomainError("INVALID_STATE", "Work order is cancelled")
	}
	if order.IsCompleted() {
		return nil, shared.NewDomainError("INVALID_STATE", "Work order is already completed")
	}

	return &Bill{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		BillNumber:        billNumber,
		WorkOrderID:       order.ID,
		WONumber:          order.WONumber,
		ClientName:        order.ClientName,
		BillDate:          billDate,
		Items:             make([]BillItem, 0),
		Payments:          make([]BillPayment, 0),
		CGSTPercentage:    order.CGSTPercentage,
		SGSTPercentage:    order.SGSTPercentage,
		IGSTPercentage:    order.IGSTPercentage,
		Status:            StatusGenerated,
		Notes:             notes,
	}, nil
}

// AddDeliveryItem snapshots a work order item into the bill for the delivered
// quantity. It must be called before the delivery is applied to the work
// order so that the previously-delivered figure is captured correctly.
func (b *Bill) AddDeliveryItem(item *workorder.WorkOrderItem, quantity decimal.Decimal) (*BillItem, error) {
	if item == nil {
		return nil, shared.NewDomainError("ITEM_NOT_FOUND", "Work order item not found")
	}

	billItem, err := NewBillItemFromWorkOrderItem(b.ID, item, quantity)
	if err != nil {
		return nil, err
	}

	b.Items = append(b.Items, *billItem)

	return billItem, nil
}

// Finalize computes subtotal, taxes, the advance deduction and the opening
// balance. advanceAvailable is the work order's remaining advance; the
// deduction is capped at the bill total.
func (b *Bill) Finalize(advanceAvailable decimal.Decimal) error {
	if len(b.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "At least one item is required")
	}
	if advanceAvailable.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Advance available cannot be negative")
	}

	subtotal := valueobject.ZeroINR()
	for _, item := range b.Items {
		subtotal = subtotal.MustAdd(valueobject.NewMoneyINR(item.Amount))
	}

	cgst := subtotal.CalculatePercentage(b.CGSTPercentage).Round(2)
	sgst := subtotal.CalculatePercentage(b.SGSTPercentage).Round(2)
	igst := subtotal.CalculatePercentage(b.IGSTPercentage).Round(2)
	total := subtotal.MustAdd(cgst).MustAdd(sgst).MustAdd(igst)

	deducted, err := total.Min(valueobject.NewMoneyINR(advanceAvailable))
	if err != nil {
		return err
	}
	netPayable := total.MustSubtract(deducted)

	b.Subtotal = subtotal.Amount().Round(2)
	b.CGSTAmount = cgst.Amount()
	b.SGSTAmount = sgst.Amount()
	b.IGSTAmount = igst.Amount()
	b.TotalAmount = total.Amount()
	b.AdvanceDeducted = deducted.Amount()
	b.NetPayable = netPayable.Amount()
	b.AmountPaid = decimal.Zero
	b.Balance = netPayable.Amount()
	b.UpdatedAt = time.Now()

	if b.Balance.IsZero() {
		// fully covered by the advance
		b.Status = StatusPaid
	}

	b.AddDomainEvent(NewBillGeneratedEvent(b))

	return nil
}

// RecordPayment appends a payment to the ledger and moves the paid total and
// balance forward. Payments beyond the outstanding balance are rejected and
// the bill becomes PAID exactly when the balance reaches zero.
func (b *Bill) RecordPayment(amount decimal.Decimal, mode PaymentMode, paymentDate time.Time, reference, notes string) (*BillPayment, error) {
	if b.Status == StatusCancelled {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot record payment on a cancelled bill")
	}
	if b.Status == StatusPaid {
		return nil, shared.NewDomainError("ALREADY_PAID", "Bill is already fully paid")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if amount.GreaterThan(b.Balance) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount exceeds outstanding balance")
	}
	if !mode.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_MODE", "Unknown payment mode")
	}

	b.AmountPaid = b.AmountPaid.Add(amount)
	balance := b.NetPayable.Sub(b.AmountPaid)
	if balance.IsNegative() {
		balance = decimal.Zero
	}
	b.Balance = balance

	if b.Balance.IsZero() {
		b.Status = StatusPaid
	}

	payment := NewBillPayment(b.ID, len(b.Payments)+1, amount, mode, paymentDate, reference, notes, b.AmountPaid, b.Balance)
	b.Payments = append(b.Payments, *payment)

	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	b.AddDomainEvent(NewPaymentRecordedEvent(b, payment))

	return payment, nil
}

// Cancel marks the bill cancelled. Paid bills cannot be cancelled and the
// payment ledger is never reversed; the caller reverses stock and work order
// state using the bill items.
func (b *Bill) Cancel() error {
	if b.Status == StatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Bill is already cancelled")
	}
	if b.Status == StatusPaid {
		return shared.NewDomainError("INVALID_STATE", "Cannot cancel paid bill")
	}

	now := time.Now()
	b.Status = StatusCancelled
	b.CancelledAt = &now
	b.UpdatedAt = now
	b.IncrementVersion()

	b.AddDomainEvent(NewBillCancelledEvent(b))

	return nil
}

// IsCancelled returns true if the bill is cancelled
func (b *Bill) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// IsPaid returns true if the bill is fully paid
func (b *Bill) IsPaid() bool {
	return b.Status == StatusPaid
}

// HasOutstandingBalance returns true if money is still owed on the bill
func (b *Bill) HasOutstandingBalance() bool {
	return b.Status != StatusCancelled && b.Balance.IsPositive()
}
