package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/energypac/erp-backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ProductStatus represents the status of a product
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
)

// StockStatus classifies how well the current stock covers a required quantity
type StockStatus string

const (
	StockStatusInStock      StockStatus = "IN_STOCK"
	StockStatusPartialStock StockStatus = "PARTIAL_STOCK"
	StockStatusOutOfStock   StockStatus = "OUT_OF_STOCK"
)

// Product represents a product/SKU and its stock ledger
// CurrentStock is only mutated through DeductStock and RestoreStock so that
// every movement is balanced by a delivery or a reversal.
type Product struct {
	shared.BaseAggregateRoot
	ProductCode  string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name         string          `gorm:"type:varchar(200);not null"`
	Description  string          `gorm:"type:text"`
	HSNCode      string          `gorm:"type:varchar(20)"`
	Unit         string          `gorm:"type:varchar(20);not null"`
	Rate         decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CurrentStock decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	MinStock     decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Status       ProductStatus   `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product
func NewProduct(code, name, unit string) (*Product, error) {
	if err := validateProductCode(code); err != nil {
		return nil, err
	}
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if unit == "" {
		return nil, shared.NewDomainError("INVALID_UNIT", "Unit cannot be empty")
	}

	product := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductCode:       strings.ToUpper(code),
		Name:              name,
		Unit:              unit,
		Rate:              decimal.Zero,
		CurrentStock:      decimal.Zero,
		MinStock:          decimal.Zero,
		Status:            ProductStatusActive,
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// Update updates the product's descriptive fields
func (p *Product) Update(name, description, hsnCode string) error {
	if err := validateProductName(name); err != nil {
		return err
	}

	p.Name = name
	p.Description = description
	p.HSNCode = hsnCode
	p.UpdatedAt = time.Now()

	return nil
}

// SetRate sets the default selling rate
func (p *Product) SetRate(rate decimal.Decimal) error {
	if rate.IsNegative() {
		return shared.NewDomainError("INVALID_RATE", "Rate cannot be negative")
	}

	p.Rate = rate
	p.UpdatedAt = time.Now()

	return nil
}

// SetMinStock sets the minimum stock level for low-stock warnings
func (p *Product) SetMinStock(minStock decimal.Decimal) error {
	if minStock.IsNegative() {
		return shared.NewDomainError("INVALID_MIN_STOCK", "Minimum stock cannot be negative")
	}

	p.MinStock = minStock
	p.UpdatedAt = time.Now()

	return nil
}

// HasSufficientStock returns true if the current stock covers the quantity
func (p *Product) HasSufficientStock(quantity decimal.Decimal) bool {
	return p.CurrentStock.GreaterThanOrEqual(quantity)
}

// StockStatusFor classifies stock coverage for a required quantity
func (p *Product) StockStatusFor(required decimal.Decimal) StockStatus {
	if p.CurrentStock.GreaterThanOrEqual(required) {
		return StockStatusInStock
	}
	if p.CurrentStock.IsPositive() {
		return StockStatusPartialStock
	}
	return StockStatusOutOfStock
}

// DeductStock removes quantity from the current stock
// The stock never goes below zero; deliveries must be validated first
func (p *Product) DeductStock(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Deduct quantity must be positive")
	}
	if p.CurrentStock.LessThan(quantity) {
		return shared.NewDomainError("INSUFFICIENT_STOCK",
			fmt.Sprintf("Insufficient stock for %s. Available: %s, Requested: %s",
				p.Name, p.CurrentStock.String(), quantity.String()))
	}

	p.CurrentStock = p.CurrentStock.Sub(quantity)
	p.UpdatedAt = time.Now()

	p.AddDomainEvent(NewStockDeductedEvent(p, quantity))

	return nil
}

// RestoreStock adds quantity back to the current stock
// It is the exact inverse of DeductStock and is used when a bill is cancelled
func (p *Product) RestoreStock(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Restore quantity must be positive")
	}

	p.CurrentStock = p.CurrentStock.Add(quantity)
	p.UpdatedAt = time.Now()

	p.AddDomainEvent(NewStockRestoredEvent(p, quantity))

	return nil
}

// AddStock records received goods against the stock ledger
func (p *Product) AddStock(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Add quantity must be positive")
	}

	p.CurrentStock = p.CurrentStock.Add(quantity)
	p.UpdatedAt = time.Now()

	return nil
}

// RemoveStock reverses previously received goods (purchase order cancellation)
// Unlike DeductStock it allows the stock to go negative so that a reversal is
// always exact even when the goods were already delivered onward
func (p *Product) RemoveStock(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Remove quantity must be positive")
	}

	p.CurrentStock = p.CurrentStock.Sub(quantity)
	p.UpdatedAt = time.Now()

	return nil
}

// IsBelowMinStock returns true if the current stock is below the minimum level
func (p *Product) IsBelowMinStock() bool {
	return p.MinStock.IsPositive() && p.CurrentStock.LessThan(p.MinStock)
}

// IsActive returns true if the product is active
func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

// Deactivate deactivates the product
func (p *Product) Deactivate() error {
	if p.Status == ProductStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Product is already inactive")
	}

	p.Status = ProductStatusInactive
	p.UpdatedAt = time.Now()

	return nil
}

// Activate activates the product
func (p *Product) Activate() error {
	if p.Status == ProductStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Product is already active")
	}

	p.Status = ProductStatusActive
	p.UpdatedAt = time.Now()

	return nil
}

// validateProductCode validates the product code (item code)
func validateProductCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Product code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Product code cannot exceed 50 characters")
	}
	for _, r := range code {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewDomainError("INVALID_CODE", "Product code can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}

// validateProductName validates the product name
func validateProductName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}
