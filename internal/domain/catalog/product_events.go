package catalog

import (
	"github.com/energypac/erp-backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeProduct = "Product"

// Event type constants
const (
	EventTypeProductCreated = "ProductCreated"
	EventTypeStockDeducted  = "StockDeducted"
	EventTypeStockRestored  = "StockRestored"
)

// ProductCreatedEvent is raised when a new product is created
type ProductCreatedEvent struct {
	shared.BaseDomainEvent
	ProductID   uuid.UUID `json:"product_id"`
	ProductCode string    `json:"product_code"`
	Name        string    `json:"name"`
}

// NewProductCreatedEvent creates a new ProductCreatedEvent
func NewProductCreatedEvent(product *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductCreated, AggregateTypeProduct, product.ID),
		ProductID:       product.ID,
		ProductCode:     product.ProductCode,
		Name:            product.Name,
	}
}

// EventType returns the event type name
func (e *ProductCreatedEvent) EventType() string {
	return EventTypeProductCreated
}

// StockDeductedEvent is raised when stock is deducted for a delivery
type StockDeductedEvent struct {
	shared.BaseDomainEvent
	ProductID      uuid.UUID       `json:"product_id"`
	ProductCode    string          `json:"product_code"`
	ProductName    string          `json:"product_name"`
	Quantity       decimal.Decimal `json:"quantity"`
	RemainingStock decimal.Decimal `json:"remaining_stock"`
	MinStock       decimal.Decimal `json:"min_stock"`
}

// NewStockDeductedEvent creates a new StockDeductedEvent
func NewStockDeductedEvent(product *Product, quantity decimal.Decimal) *StockDeductedEvent {
	return &StockDeductedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockDeducted, AggregateTypeProduct, product.ID),
		ProductID:       product.ID,
		ProductCode:     product.ProductCode,
		ProductName:     product.Name,
		Quantity:        quantity,
		RemainingStock:  product.CurrentStock,
		MinStock:        product.MinStock,
	}
}

// EventType returns the event type name
func (e *StockDeductedEvent) EventType() string {
	return EventTypeStockDeducted
}

// StockRestoredEvent is raised when a cancellation returns stock to the ledger
type StockRestoredEvent struct {
	shared.BaseDomainEvent
	ProductID      uuid.UUID       `json:"product_id"`
	ProductCode    string          `json:"product_code"`
	ProductName    string          `json:"product_name"`
	Quantity       decimal.Decimal `json:"quantity"`
	RemainingStock decimal.Decimal `json:"remaining_stock"`
}

// NewStockRestoredEvent creates a new StockRestoredEvent
func NewStockRestoredEvent(product *Product, quantity decimal.Decimal) *StockRestoredEvent {
	return &StockRestoredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockRestored, AggregateTypeProduct, product.ID),
		ProductID:       product.ID,
		ProductCode:     product.ProductCode,
		ProductName:     product.Name,
		Quantity:        quantity,
		RemainingStock:  product.CurrentStock,
	}
}

// EventType returns the event type name
func (e *StockRestoredEvent) EventType() string {
	return EventTypeStockRestored
}
