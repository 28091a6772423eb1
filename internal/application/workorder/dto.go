package workorder

import (
	"time"

	"github.com/energypac/erp-backend/internal/domain/workorder"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WorkOrderItemRequest is one line of a work order creation request
// Product-backed lines may leave code/name/unit empty; they are filled from
// the catalog. Manual lines must carry them explicitly.
type WorkOrderItemRequest struct {
	ProductID   *uuid.UUID      `json:"product_id"`
	ItemCode    string          `json:"item_code"`
	ItemName    string          `json:"item_name"`
	Description string          `json:"description"`
	HSNCode     string          `json:"hsn_code"`
	Unit        string          `json:"unit"`
	Rate        decimal.Decimal `json:"rate"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
}

// CreateWorkOrderRequest is the request to create a work order
type CreateWorkOrderRequest struct {
	ClientName     string                 `json:"client_name" binding:"required"`
	ContactPerson  string                 `json:"contact_person"`
	Phone          string                 `json:"phone"`
	Email          string                 `json:"email"`
	Address        string                 `json:"address"`
	WODate         *time.Time             `json:"wo_date"`
	CGSTPercentage decimal.Decimal        `json:"cgst_percentage"`
	SGSTPercentage decimal.Decimal        `json:"sgst_percentage"`
	IGSTPercentage decimal.Decimal        `json:"igst_percentage"`
	Notes          string                 `json:"notes"`
	Items          []WorkOrderItemRequest `json:"items" binding:"required,min=1"`
}

// RecordAdvanceRequest is the request to record an advance receipt
type RecordAdvanceRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// WorkOrderListFilter carries list filtering and pagination options
type WorkOrderListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir"`
	Search   string `form:"search"`
	Status   string `form:"status"`
	Client   string `form:"client"`
}

// WorkOrderItemResponse is the representation of a work order line
type WorkOrderItemResponse struct {
	ID                uuid.UUID       `json:"id"`
	ProductID         *uuid.UUID      `json:"product_id,omitempty"`
	ItemCode          string          `json:"item_code"`
	ItemName          string          `json:"item_name"`
	Description       string          `json:"description,omitempty"`
	HSNCode           string          `json:"hsn_code,omitempty"`
	Unit              string          `json:"unit"`
	Rate              decimal.Decimal `json:"rate"`
	Quantity          decimal.Decimal `json:"quantity"`
	DeliveredQuantity decimal.Decimal `json:"delivered_quantity"`
	PendingQuantity   decimal.Decimal `json:"pending_quantity"`
	StockStatus       string          `json:"stock_status"`
	StockQuantity     decimal.Decimal `json:"stock_quantity"`
}

// WorkOrderResponse is the full work order representation
type WorkOrderResponse struct {
	ID                  uuid.UUID               `json:"id"`
	WONumber            string                  `json:"wo_number"`
	ClientName          string                  `json:"client_name"`
	ContactPerson       string                  `json:"contact_person,omitempty"`
	Phone               string                  `json:"phone,omitempty"`
	Email               string                  `json:"email,omitempty"`
	Address             string                  `json:"address,omitempty"`
	WODate              time.Time               `json:"wo_date"`
	Items               []WorkOrderItemResponse `json:"items"`
	CGSTPercentage      decimal.Decimal         `json:"cgst_percentage"`
	SGSTPercentage      decimal.Decimal         `json:"sgst_percentage"`
	IGSTPercentage      decimal.Decimal         `json:"igst_percentage"`
	Subtotal            decimal.Decimal         `json:"subtotal"`
	TotalAmount         decimal.Decimal         `json:"total_amount"`
	AdvanceReceived     decimal.Decimal         `json:"advance_received"`
	AdvanceDeducted     decimal.Decimal         `json:"advance_deducted"`
	AdvanceRemaining    decimal.Decimal         `json:"advance_remaining"`
	TotalDeliveredValue decimal.Decimal         `json:"total_delivered_value"`
	Status              string                  `json:"status"`
	Notes               string                  `json:"notes,omitempty"`
	CancelledAt         *time.Time              `json:"cancelled_at,omitempty"`
	CreatedAt           time.Time               `json:"created_at"`
	UpdatedAt           time.Time               `json:"updated_at"`
}

// WorkOrderListItemResponse is the compact representation for list endpoints
type WorkOrderListItemResponse struct {
	ID               uuid.UUID       `json:"id"`
	WONumber         string          `json:"wo_number"`
	ClientName       string          `json:"client_name"`
	WODate           time.Time       `json:"wo_date"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	AdvanceRemaining decimal.Decimal `json:"advance_remaining"`
	Status           string          `json:"status"`
	CreatedAt        time.Time       `json:"created_at"`
}

// DeliveryStatusItemResponse is the per-item delivery progress view
type DeliveryStatusItemResponse struct {
	ID                uuid.UUID       `json:"id"`
	ItemCode          string          `json:"item_code"`
	ItemName          string          `json:"item_name"`
	Unit              string          `json:"unit"`
	Quantity          decimal.Decimal `json:"quantity"`
	DeliveredQuantity decimal.Decimal `json:"delivered_quantity"`
	PendingQuantity   decimal.Decimal `json:"pending_quantity"`
	FullyDelivered    bool            `json:"fully_delivered"`
}

// DeliveryStatusResponse summarizes delivery and advance progress of an order
type DeliveryStatusResponse struct {
	WorkOrderID         uuid.UUID                    `json:"work_order_id"`
	WONumber            string                       `json:"wo_number"`
	Status              string                       `json:"status"`
	Items               []DeliveryStatusItemResponse `json:"items"`
	TotalAmount         decimal.Decimal              `json:"total_amount"`
	TotalDeliveredValue decimal.Decimal              `json:"total_delivered_value"`
	AdvanceReceived     decimal.Decimal              `json:"advance_received"`
	AdvanceDeducted     decimal.Decimal              `json:"advance_deducted"`
	AdvanceRemaining    decimal.Decimal              `json:"advance_remaining"`
}

// ToWorkOrderItemResponse converts a work order item to its response representation
func ToWorkOrderItemResponse(item *workorder.WorkOrderItem) WorkOrderItemResponse {
	return WorkOrderItemResponse{
		ID:                item.ID,
		ProductID:         item.ProductID,
		ItemCode:          item.ItemCode,
		ItemName:          item.ItemName,
		Description:       item.Description,
		HSNCode:           item.HSNCode,
		Unit:              item.Unit,
		Rate:              item.Rate,
		Quantity:          item.Quantity,
		DeliveredQuantity: item.DeliveredQuantity,
		PendingQuantity:   item.PendingQuantity(),
		StockStatus:       string(item.StockStatus()),
		StockQuantity:     item.StockQuantity,
	}
}

// ToWorkOrderResponse converts a work order to its full response representation
func ToWorkOrderResponse(order *workorder.WorkOrder) WorkOrderResponse {
	items := make([]WorkOrderItemResponse, len(order.Items))
	for i := range order.Items {
		items[i] = ToWorkOrderItemResponse(&order.Items[i])
	}
	return WorkOrderResponse{
		ID:                  order.ID,
		WONumber:            order.WONumber,
		ClientName:          order.ClientName,
		ContactPerson:       order.ContactPerson,
		Phone:               order.Phone,
		Email:               order.Email,
		Address:             order.Address,
		WODate:              order.WODate,
		Items:               items,
		CGSTPercentage:      order.CGSTPercentage,
		SGSTPercentage:      order.SGSTPercentage,
		IGSTPercentage:      order.IGSTPercentage,
		Subtotal:            order.Subtotal,
		TotalAmount:         order.TotalAmount,
		AdvanceReceived:     order.AdvanceReceived,
		AdvanceDeducted:     order.AdvanceDeducted,
		AdvanceRemaining:    order.AdvanceRemaining(),
		TotalDeliveredValue: order.TotalDeliveredValue,
		Status:              order.Status.String(),
		Notes:               order.Notes,
		CancelledAt:         order.CancelledAt,
		CreatedAt:           order.CreatedAt,
		UpdatedAt:           order.UpdatedAt,
	}
}

// ToWorkOrderListItemResponses converts work orders to compact list representations
func ToWorkOrderListItemResponses(orders []workorder.WorkOrder) []WorkOrderListItemResponse {
	responses := make([]WorkOrderListItemResponse, len(orders))
	for i := range orders {
		order := &orders[i]
		responses[i] = WorkOrderListItemResponse{
			ID:               order.ID,
			WONumber:         order.WONumber,
			ClientName:       order.ClientName,
			WODate:           order.WODate,
			TotalAmount:      order.TotalAmount,
			AdvanceRemaining: order.AdvanceRemaining(),
			Status:           order.Status.String(),
			CreatedAt:        order.CreatedAt,
		}
	}
	return responses
}

// ToDeliveryStatusResponse converts a work order to its delivery progress view
func ToDeliveryStatusResponse(order *workorder.WorkOrder) DeliveryStatusResponse {
	items := make([]DeliveryStatusItemResponse, len(order.Items))
	for i := range order.Items {
		item := &order.Items[i]
		items[i] = DeliveryStatusItemResponse{
			ID:                item.ID,
			ItemCode:          item.ItemCode,
			ItemName:          item.ItemName,
			Unit:              item.Unit,
			Quantity:          item.Quantity,
			DeliveredQuantity: item.DeliveredQuantity,
			PendingQuantity:   item.PendingQuantity(),
			FullyDelivered:    item.IsFullyDelivered(),
		}
	}
	return DeliveryStatusResponse{
		WorkOrderID:         order.ID,
		WONumber:            order.WONumber,
		Status:              order.Status.String(),
		Items:               items,
		TotalAmount:         order.TotalAmount,
		TotalDeliveredValue: order.TotalDeliveredValue,
		AdvanceReceived:     order.AdvanceReceived,
		AdvanceDeducted:     order.AdvanceDeducted,
		AdvanceRemaining:    order.AdvanceRemaining(),
	}
}
