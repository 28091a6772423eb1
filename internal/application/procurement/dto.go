package procurement

import (
	"time"

	"github.com/energypac/erp-backend/internal/domain/procurement"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseOrderItemRequest is one line of a purchase order creation request
// Code, name and unit default from the catalog when left empty.
type PurchaseOrderItemRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	ItemCode  string          `json:"item_code"`
	ItemName  string          `json:"item_name"`
	Unit      string          `json:"unit"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	Rate      decimal.Decimal `json:"rate"`
}

// CreatePurchaseOrderRequest is the request to create a purchase order
type CreatePurchaseOrderRequest struct {
	VendorName string                     `json:"vendor_name" binding:"required"`
	PODate     *time.Time                 `json:"po_date"`
	Notes      string                     `json:"notes"`
	Items      []PurchaseOrderItemRequest `json:"items" binding:"required,min=1"`
}

// MarkItemPurchasedRequest identifies the line to mark received
type MarkItemPurchasedRequest struct {
	ItemID uuid.UUID `json:"item_id" binding:"required"`
}

// CancelPurchaseOrderRequest carries the optional cancellation reason
type CancelPurchaseOrderRequest struct {
	Reason      string `json:"reason"`
	CancelledBy string `json:"cancelled_by"`
}

// PurchaseOrderListFilter carries list filtering and pagination options
type PurchaseOrderListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir"`
	Search   string `form:"search"`
	Status   string `form:"status"`
	Vendor   string `form:"vendor"`
}

// PurchaseOrderItemResponse is the representation of a purchase order line
type PurchaseOrderItemResponse struct {
	ID         uuid.UUID       `json:"id"`
	ProductID  uuid.UUID       `json:"product_id"`
	ItemCode   string          `json:"item_code"`
	ItemName   string          `json:"item_name"`
	Unit       string          `json:"unit"`
	Quantity   decimal.Decimal `json:"quantity"`
	Rate       decimal.Decimal `json:"rate"`
	Amount     decimal.Decimal `json:"amount"`
	IsReceived bool            `json:"is_received"`
	ReceivedAt *time.Time      `json:"received_at,omitempty"`
}

// PurchaseOrderResponse is the full purchase order representation
type PurchaseOrderResponse struct {
	ID                 uuid.UUID                   `json:"id"`
	PONumber           string                      `json:"po_number"`
	VendorName         string                      `json:"vendor_name"`
	PODate             time.Time                   `json:"po_date"`
	Items              []PurchaseOrderItemResponse `json:"items"`
	TotalAmount        decimal.Decimal             `json:"total_amount"`
	Status             string                      `json:"status"`
	Notes              string                      `json:"notes,omitempty"`
	CancellationReason string                      `json:"cancellation_reason,omitempty"`
	CancelledBy        string                      `json:"cancelled_by,omitempty"`
	CancelledAt        *time.Time                  `json:"cancelled_at,omitempty"`
	CreatedAt          time.Time                   `json:"created_at"`
	UpdatedAt          time.Time                   `json:"updated_at"`
}

// PurchaseOrderListItemResponse is the compact representation for list endpoints
type PurchaseOrderListItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	PONumber    string          `json:"po_number"`
	VendorName  string          `json:"vendor_name"`
	PODate      time.Time       `json:"po_date"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ToPurchaseOrderItemResponse converts an item to its response representation
func ToPurchaseOrderItemResponse(item *procurement.PurchaseOrderItem) PurchaseOrderItemResponse {
	return PurchaseOrderItemResponse{
		ID:         item.ID,
		ProductID:  item.ProductID,
		ItemCode:   item.ItemCode,
		ItemName:   item.ItemName,
		Unit:       item.Unit,
		Quantity:   item.Quantity,
		Rate:       item.Rate,
		Amount:     item.Amount,
		IsReceived: item.IsReceived,
		ReceivedAt: item.ReceivedAt,
	}
}

// ToPurchaseOrderResponse converts a purchase order to its full representation
func ToPurchaseOrderResponse(order *procurement.PurchaseOrder) PurchaseOrderResponse {
	items := make([]PurchaseOrderItemResponse, len(order.Items))
	for i := range order.Items {
		items[i] = ToPurchaseOrderItemResponse(&order.Items[i])
	}
	return PurchaseOrderResponse{
		ID:                 order.ID,
		PONumber:           order.PONumber,
		VendorName:         order.VendorName,
		PODate:             order.PODate,
		Items:              items,
		TotalAmount:        order.TotalAmount,
		Status:             order.Status.String(),
		Notes:              order.Notes,
		CancellationReason: order.CancellationReason,
		CancelledBy:        order.CancelledBy,
		CancelledAt:        order.CancelledAt,
		CreatedAt:          order.CreatedAt,
		UpdatedAt:          order.UpdatedAt,
	}
}

// ToPurchaseOrderListItemResponses converts purchase orders to compact list representations
func ToPurchaseOrderListItemResponses(orders []procurement.PurchaseOrder) []PurchaseOrderListItemResponse {
	responses := make([]PurchaseOrderListItemResponse, len(orders))
	for i := range orders {
		order := &orders[i]
		responses[i] = PurchaseOrderListItemResponse{
			ID:          order.ID,
			PONumber:    order.PONumber,
			VendorName:  order.VendorName,
			PODate:      order.PODate,
			TotalAmount: order.TotalAmount,
			Status:      order.Status.String(),
			CreatedAt:   order.CreatedAt,
		}
	}
	return responses
}
