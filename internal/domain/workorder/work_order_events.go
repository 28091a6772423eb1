package workorder

import (
	"github.com/energypac/erp-backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeWorkOrder = "WorkOrder"

// Event type constants
const (
	EventTypeWorkOrderCreated   = "WorkOrderCreated"
	EventTypeWorkOrderCancelled = "WorkOrderCancelled"
)

// WorkOrderCreatedEvent is raised when a new work order is created
type WorkOrderCreatedEvent struct {
	shared.BaseDomainEvent
	WorkOrderID uuid.UUID       `json:"work_order_id"`
	WONumber    string          `json:"wo_number"`
	ClientName  string          `json:"client_name"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	ItemCount   int             `json:"item_count"`
}

// NewWorkOrderCreatedEvent creates a new WorkOrderCreatedEvent
func NewWorkOrderCreatedEvent(order *WorkOrder) *WorkOrderCreatedEvent {
	return &WorkOrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeWorkOrderCreated, AggregateTypeWorkOrder, order.ID),
		WorkOrderID:     order.ID,
		WONumber:        order.WONumber,
		ClientName:      order.ClientName,
		TotalAmount:     order.TotalAmount,
		ItemCount:       len(order.Items),
	}
}

// EventType returns the event type name
func (e *WorkOrderCreatedEvent) EventType() string {
	return EventTypeWorkOrderCreated
}

// WorkOrderCancelledEvent is raised when a work order is cancelled
type WorkOrderCancelledEvent struct {
	shared.BaseDomainEvent
	WorkOrderID uuid.UUID `json:"work_order_id"`
	WONumber    string    `json:"wo_number"`
	ClientName  string    `json:"client_name"`
}

// NewWorkOrderCancelledEvent creates a new WorkOrderCancelledEvent
func NewWorkOrderCancelledEvent(order *WorkOrder) *WorkOrderCancelledEvent {
	return &WorkOrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeWorkOrderCancelled, AggregateTypeWorkOrder, order.ID),
		WorkOrderID:     order.ID,
		WONumber:        order.WONumber,
		ClientName:      order.ClientName,
	}
}

// EventType returns the event type name
func (e *WorkOrderCancelledEvent) EventType() string {
	return EventTypeWorkOrderCancelled
}
