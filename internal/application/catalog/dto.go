package catalog

import (
	"time"

	"github.com/energypac/erp-backend/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateProductRequest is the request to create a product
type CreateProductRequest struct {
	ProductCode string          `json:"product_code" binding:"required"`
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	HSNCode     string          `json:"hsn_code"`
	Unit        string          `json:"unit" binding:"required"`
	Rate        decimal.Decimal `json:"rate"`
	MinStock    decimal.Decimal `json:"min_stock"`
}

// UpdateProductRequest is the request to update a product
// Nil fields are left unchanged.
type UpdateProductRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	HSNCode     *string          `json:"hsn_code"`
	Rate        *decimal.Decimal `json:"rate"`
	MinStock    *decimal.Decimal `json:"min_stock"`
	Status      *string          `json:"status"`
}

// ProductListFilter carries list filtering and pagination options
type ProductListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir"`
	Search   string `form:"search"`
	Status   string `form:"status"`
}

// ProductResponse is the product representation
type ProductResponse struct {
	ID           uuid.UUID       `json:"id"`
	ProductCode  string          `json:"product_code"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	HSNCode      string          `json:"hsn_code,omitempty"`
	Unit         string          `json:"unit"`
	Rate         decimal.Decimal `json:"rate"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	MinStock     decimal.Decimal `json:"min_stock"`
	BelowMin     bool            `json:"below_min_stock"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ToProductResponse converts a product to its response representation
func ToProductResponse(product *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:           product.ID,
		ProductCode:  product.ProductCode,
		Name:         product.Name,
		Description:  product.Description,
		HSNCode:      product.HSNCode,
		Unit:         product.Unit,
		Rate:         product.Rate,
		CurrentStock: product.CurrentStock,
		MinStock:     product.MinStock,
		BelowMin:     product.IsBelowMinStock(),
		Status:       string(product.Status),
		CreatedAt:    product.CreatedAt,
		UpdatedAt:    product.UpdatedAt,
	}
}

// ToProductResponses converts a slice of products
func ToProductResponses(products []catalog.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses
}
