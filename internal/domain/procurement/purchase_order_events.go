package procurement

import (
	"time"

	"github.com/energypac/erp-backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	AggregateTypePurchaseOrder = "PurchaseOrder"

	EventTypePurchaseOrderCreated      = "PurchaseOrderCreated"
	EventTypePurchaseOrderItemReceived = "PurchaseOrderItemReceived"
	EventTypePurchaseOrderCancelled    = "PurchaseOrderCancelled"
)

// PurchaseOrderCreatedEvent is raised when a purchase order is created
type PurchaseOrderCreatedEvent struct {
	shared.BaseDomainEvent
	PONumber    string          `json:"po_number"`
	VendorName  string          `json:"vendor_name"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	ItemCount   int             `json:"item_count"`
}

// NewPurchaseOrderCreatedEvent creates a new purchase order created event
func NewPurchaseOrderCreatedEvent(order *PurchaseOrder) *PurchaseOrderCreatedEvent {
	return &PurchaseOrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderCreated, AggregateTypePurchaseOrder, order.ID),
		PONumber:        order.PONumber,
		VendorName:      order.VendorName,
		TotalAmount:     order.TotalAmount,
		ItemCount:       len(order.Items),
	}
}

// EventType returns the event type
func (e *PurchaseOrderCreatedEvent) EventType() string {
	return EventTypePurchaseOrderCreated
}

// PurchaseOrderItemReceivedEvent is raised when a line is marked purchased
type PurchaseOrderItemReceivedEvent struct {
	shared.BaseDomainEvent
	PONumber   string          `json:"po_number"`
	ItemID     uuid.UUID       `json:"item_id"`
	ProductID  uuid.UUID       `json:"product_id"`
	ItemName   string          `json:"item_name"`
	Quantity   decimal.Decimal `json:"quantity"`
	ReceivedAt time.Time       `json:"received_at"`
}

// NewPurchaseOrderItemReceivedEvent creates a new item received event
func NewPurchaseOrderItemReceivedEvent(order *PurchaseOrder, item *PurchaseOrderItem) *PurchaseOrderItemReceivedEvent {
	receivedAt := time.Now()
	if item.ReceivedAt != nil {
		receivedAt = *item.ReceivedAt
	}
	return &PurchaseOrderItemReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderItemReceived, AggregateTypePurchaseOrder, order.ID),
		PONumber:        order.PONumber,
		ItemID:          item.ID,
		ProductID:       item.ProductID,
		ItemName:        item.ItemName,
		Quantity:        item.Quantity,
		ReceivedAt:      receivedAt,
	}
}

// EventType returns the event type
func (e *PurchaseOrderItemReceivedEvent) EventType() string {
	return EventTypePurchaseOrderItemReceived
}

// PurchaseOrderCancelledEvent is raised when a purchase order is cancelled
type PurchaseOrderCancelledEvent struct {
	shared.BaseDomainEvent
	PONumber      string `json:"po_number"`
	Reason        string `json:"reason"`
	ReversedItems int    `json:"reversed_items"`
}

// NewPurchaseOrderCancelledEvent creates a new purchase order cancelled event
func NewPurchaseOrderCancelledEvent(order *PurchaseOrder, reversed []PurchaseOrderItem) *PurchaseOrderCancelledEvent {
	return &PurchaseOrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderCancelled, AggregateTypePurchaseOrder, order.ID),
		PONumber:        order.PONumber,
		Reason:          order.CancellationReason,
		ReversedItems:   len(reversed),
	}
}

// EventType returns the event type
func (e *PurchaseOrderCancelledEvent) EventType() string {
	return EventTypePurchaseOrderCancelled
}
