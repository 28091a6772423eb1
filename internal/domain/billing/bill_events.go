package billing

import (
	"github.com/energypac/erp-backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeBill = "Bill"

// Event type constants
const (
	EventTypeBillGenerated   = "BillGenerated"
	EventTypeBillCancelled   = "BillCancelled"
	EventTypePaymentRecorded = "PaymentRecorded"
)

// BillGeneratedEvent is raised when a bill is generated against a work order
type BillGeneratedEvent struct {
	shared.BaseDomainEvent
	BillID          uuid.UUID       `json:"bill_id"`
	BillNumber      string          `json:"bill_number"`
	WorkOrderID     uuid.UUID       `json:"work_order_id"`
	WONumber        string          `json:"wo_number"`
	ClientName      string          `json:"client_name"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	AdvanceDeducted decimal.Decimal `json:"advance_deducted"`
	NetPayable      decimal.Decimal `json:"net_payable"`
	ItemCount       int             `json:"item_count"`
}

// NewBillGeneratedEvent creates a new BillGeneratedEvent
func NewBillGeneratedEvent(bill *Bill) *BillGeneratedEvent {
	return &BillGeneratedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBillGenerated, AggregateTypeBill, bill.ID),
		BillID:          bill.ID,
		BillNumber:      bill.BillNumber,
		WorkOrderID:     bill.WorkOrderID,
		WONumber:        bill.WONumber,
		ClientName:      bill.ClientName,
		Subtotal:        bill.Subtotal,
		TotalAmount:     bill.TotalAmount,
		AdvanceDeducted: bill.AdvanceDeducted,
		NetPayable:      bill.NetPayable,
		ItemCount:       len(bill.Items),
	}
}

// EventType returns the event type name
func (e *BillGeneratedEvent) EventType() string {
	return EventTypeBillGenerated
}

// BillCancelledEvent is raised when a bill is cancelled and its effects reversed
type BillCancelledEvent struct {
	shared.BaseDomainEvent
	BillID      uuid.UUID       `json:"bill_id"`
	BillNumber  string          `json:"bill_number"`
	WorkOrderID uuid.UUID       `json:"work_order_id"`
	AmountPaid  decimal.Decimal `json:"amount_paid"`
}

// NewBillCancelledEvent creates a new BillCancelledEvent
func NewBillCancelledEvent(bill *Bill) *BillCancelledEvent {
	return &BillCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBillCancelled, AggregateTypeBill, bill.ID),
		BillID:          bill.ID,
		BillNumber:      bill.BillNumber,
		WorkOrderID:     bill.WorkOrderID,
		AmountPaid:      bill.AmountPaid,
	}
}

// EventType returns the event type name
func (e *BillCancelledEvent) EventType() string {
	return EventTypeBillCancelled
}

// PaymentRecordedEvent is raised for every payment ledger entry
type PaymentRecordedEvent struct {
	shared.BaseDomainEvent
	BillID        uuid.UUID       `json:"bill_id"`
	BillNumber    string          `json:"bill_number"`
	PaymentNumber int             `json:"payment_number"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMode   PaymentMode     `json:"payment_mode"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	FullyPaid     bool            `json:"fully_paid"`
}

// NewPaymentRecordedEvent creates a new PaymentRecordedEvent
func NewPaymentRecordedEvent(bill *Bill, payment *BillPayment) *PaymentRecordedEvent {
	return &PaymentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentRecorded, AggregateTypeBill, bill.ID),
		BillID:          bill.ID,
		BillNumber:      bill.BillNumber,
		PaymentNumber:   payment.PaymentNumber,
		Amount:          payment.Amount,
		PaymentMode:     payment.PaymentMode,
		BalanceAfter:    payment.BalanceAfter,
		FullyPaid:       bill.IsPaid(),
	}
}

// EventType returns the event type name
func (e *PaymentRecordedEvent) EventType() string {
	return EventTypePaymentRecorded
}
