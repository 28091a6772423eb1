package billing

import (
	"time"

	"github.com/energypac/erp-backend/internal/domain/billing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BillItemRequest is one delivery line in a bill generation request
type BillItemRequest struct {
	WorkOrderItemID uuid.UUID       `json:"work_order_item_id" binding:"required"`
	Quantity        decimal.Decimal `json:"quantity" binding:"required"`
}

// CreateBillRequest is the request to generate a bill against a work order
type CreateBillRequest struct {
	WorkOrderID uuid.UUID         `json:"work_order_id" binding:"required"`
	BillDate    *time.Time        `json:"bill_date"`
	Notes       string            `json:"notes"`
	Items       []BillItemRequest `json:"items" binding:"required,min=1"`
}

// ValidateStockRequest is the request to dry-run delivery validation
type ValidateStockRequest struct {
	WorkOrderID uuid.UUID         `json:"work_order_id" binding:"required"`
	Items       []BillItemRequest `json:"items" binding:"required,min=1"`
}

// RecordPaymentRequest is the request to record a payment against a bill
type RecordPaymentRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	PaymentMode string          `json:"payment_mode" binding:"required"`
	PaymentDate *time.Time      `json:"payment_date"`
	Reference   string          `json:"reference"`
	Notes       string          `json:"notes"`
}

// BillListFilter carries list filtering and pagination options
type BillListFilter struct {
	Page        int        `form:"page"`
	PageSize    int        `form:"page_size"`
	OrderBy     string     `form:"order_by"`
	OrderDir    string     `form:"order_dir"`
	Search      string     `form:"search"`
	Status      string     `form:"status"`
	WorkOrderID *uuid.UUID `form:"work_order_id"`
	StartDate   *time.Time `form:"start_date"`
	EndDate     *time.Time `form:"end_date"`
}

// Issue types reported by delivery validation
const (
	IssueItemNotFound      = "ITEM_NOT_FOUND"
	IssueExceedsPending    = "EXCEEDS_PENDING"
	IssueInsufficientStock = "INSUFFICIENT_STOCK"
)

// StockIssue describes one reason a requested delivery line cannot be billed
type StockIssue struct {
	Type            string          `json:"type"`
	WorkOrderItemID uuid.UUID       `json:"work_order_item_id"`
	ItemName        string          `json:"item_name,omitempty"`
	Requested       decimal.Decimal `json:"requested"`
	Pending         decimal.Decimal `json:"pending"`
	Available       decimal.Decimal `json:"available"`
}

// StockValidationResponse is the outcome of delivery validation
type StockValidationResponse struct {
	StockAvailable bool         `json:"stock_available"`
	Issues         []StockIssue `json:"issues"`
}

// StockValidationError is returned when a bill cannot be generated because
// one or more delivery lines failed validation. The handler surfaces the
// per-item issues to the client.
type StockValidationError struct {
	Result *StockValidationResponse
}

// Error implements the error interface
func (e *StockValidationError) Error() string {
	return "delivery validation failed"
}

// BillItemResponse is the snapshot of one billed delivery line
type BillItemResponse struct {
	ID                          uuid.UUID       `json:"id"`
	WorkOrderItemID             uuid.UUID       `json:"work_order_item_id"`
	ProductID                   *uuid.UUID      `json:"product_id,omitempty"`
	ItemCode                    string          `json:"item_code"`
	ItemName                    string          `json:"item_name"`
	Description                 string          `json:"description,omitempty"`
	HSNCode                     string          `json:"hsn_code,omitempty"`
	Unit                        string          `json:"unit"`
	Rate                        decimal.Decimal `json:"rate"`
	OrderedQuantity             decimal.Decimal `json:"ordered_quantity"`
	PreviouslyDeliveredQuantity decimal.Decimal `json:"previously_delivered_quantity"`
	DeliveredQuantity           decimal.Decimal `json:"delivered_quantity"`
	PendingQuantity             decimal.Decimal `json:"pending_quantity"`
	Amount                      decimal.Decimal `json:"amount"`
}

// PaymentResponse is one entry of a bill's payment ledger
type PaymentResponse struct {
	ID             uuid.UUID       `json:"id"`
	PaymentNumber  int             `json:"payment_number"`
	Amount         decimal.Decimal `json:"amount"`
	PaymentMode    string          `json:"payment_mode"`
	PaymentDate    time.Time       `json:"payment_date"`
	Reference      string          `json:"reference,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	TotalPaidAfter decimal.Decimal `json:"total_paid_after"`
	BalanceAfter   decimal.Decimal `json:"balance_after"`
	CreatedAt      time.Time       `json:"created_at"`
}

// BillResponse is the full bill representation
type BillResponse struct {
	ID              uuid.UUID          `json:"id"`
	BillNumber      string             `json:"bill_number"`
	WorkOrderID     uuid.UUID          `json:"work_order_id"`
	WONumber        string             `json:"wo_number"`
	ClientName      string             `json:"client_name"`
	BillDate        time.Time          `json:"bill_date"`
	Items           []BillItemResponse `json:"items"`
	Payments        []PaymentResponse  `json:"payments"`
	CGSTPercentage  decimal.Decimal    `json:"cgst_percentage"`
	SGSTPercentage  decimal.Decimal    `json:"sgst_percentage"`
	IGSTPercentage  decimal.Decimal    `json:"igst_percentage"`
	Subtotal        decimal.Decimal    `json:"subtotal"`
	CGSTAmount      decimal.Decimal    `json:"cgst_amount"`
	SGSTAmount      decimal.Decimal    `json:"sgst_amount"`
	IGSTAmount      decimal.Decimal    `json:"igst_amount"`
	TotalAmount     decimal.Decimal    `json:"total_amount"`
	AdvanceDeducted decimal.Decimal    `json:"advance_deducted"`
	NetPayable      decimal.Decimal    `json:"net_payable"`
	AmountPaid      decimal.Decimal    `json:"amount_paid"`
	Balance         decimal.Decimal    `json:"balance"`
	Status          string             `json:"status"`
	Notes           string             `json:"notes,omitempty"`
	CancelledAt     *time.Time         `json:"cancelled_at,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// BillListItemResponse is the compact bill representation for list endpoints
type BillListItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	BillNumber  string          `json:"bill_number"`
	WorkOrderID uuid.UUID       `json:"work_order_id"`
	WONumber    string          `json:"wo_number"`
	ClientName  string          `json:"client_name"`
	BillDate    time.Time       `json:"bill_date"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	NetPayable  decimal.Decimal `json:"net_payable"`
	AmountPaid  decimal.Decimal `json:"amount_paid"`
	Balance     decimal.Decimal `json:"balance"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
}

// PaymentHistoryResponse is the ledger view of a bill
type PaymentHistoryResponse struct {
	BillID     uuid.UUID         `json:"bill_id"`
	BillNumber string            `json:"bill_number"`
	NetPayable decimal.Decimal   `json:"net_payable"`
	AmountPaid decimal.Decimal   `json:"amount_paid"`
	Balance    decimal.Decimal   `json:"balance"`
	Status     string            `json:"status"`
	Payments   []PaymentResponse `json:"payments"`
}

// ToBillItemResponse converts a bill item to its response representation
func ToBillItemResponse(item *billing.BillItem) BillItemResponse {
	return BillItemResponse{
		ID:                          item.ID,
		WorkOrderItemID:             item.WorkOrderItemID,
		ProductID:                   item.ProductID,
		ItemCode:                    item.ItemCode,
		ItemName:                    item.ItemName,
		Description:                 item.Description,
		HSNCode:                     item.HSNCode,
		Unit:                        item.Unit,
		Rate:                        item.Rate,
		OrderedQuantity:             item.OrderedQuantity,
		PreviouslyDeliveredQuantity: item.PreviouslyDeliveredQuantity,
		DeliveredQuantity:           item.DeliveredQuantity,
		PendingQuantity:             item.PendingQuantity,
		Amount:                      item.Amount,
	}
}

// ToPaymentResponse converts a payment to its response representation
func ToPaymentResponse(payment *billing.BillPayment) PaymentResponse {
	return PaymentResponse{
		ID:             payment.ID,
		PaymentNumber:  payment.PaymentNumber,
		Amount:         payment.Amount,
		PaymentMode:    payment.PaymentMode.String(),
		PaymentDate:    payment.PaymentDate,
		Reference:      payment.Reference,
		Notes:          payment.Notes,
		TotalPaidAfter: payment.TotalPaidAfter,
		BalanceAfter:   payment.BalanceAfter,
		CreatedAt:      payment.CreatedAt,
	}
}

// ToBillResponse converts a bill to its full response representation
func ToBillResponse(bill *billing.Bill) BillResponse {
	items := make([]BillItemResponse, len(bill.Items))
	for i := range bill.Items {
		items[i] = ToBillItemResponse(&bill.Items[i])
	}
	payments := make([]PaymentResponse, len(bill.Payments))
	for i := range bill.Payments {
		payments[i] = ToPaymentResponse(&bill.Payments[i])
	}
	return BillResponse{
		ID:              bill.ID,
		BillNumber:      bill.BillNumber,
		WorkOrderID:     bill.WorkOrderID,
		WONumber:        bill.WONumber,
		ClientName:      bill.ClientName,
		BillDate:        bill.BillDate,
		Items:           items,
		Payments:        payments,
		CGSTPercentage:  bill.CGSTPercentage,
		SGSTPercentage:  bill.SGSTPercentage,
		IGSTPercentage:  bill.IGSTPercentage,
		Subtotal:        bill.Subtotal,
		CGSTAmount:      bill.CGSTAmount,
		SGSTAmount:      bill.SGSTAmount,
		IGSTAmount:      bill.IGSTAmount,
		TotalAmount:     bill.TotalAmount,
		AdvanceDeducted: bill.AdvanceDeducted,
		NetPayable:      bill.NetPayable,
		AmountPaid:      bill.AmountPaid,
		Balance:         bill.Balance,
		Status:          bill.Status.String(),
		Notes:           bill.Notes,
		CancelledAt:     bill.CancelledAt,
		CreatedAt:       bill.CreatedAt,
		UpdatedAt:       bill.UpdatedAt,
	}
}

// ToBillListItemResponse converts a bill to its compact list representation
func ToBillListItemResponse(bill *billing.Bill) BillListItemResponse {
	return BillListItemResponse{
		ID:          bill.ID,
		BillNumber:  bill.BillNumber,
		WorkOrderID: bill.WorkOrderID,
		WONumber:    bill.WONumber,
		ClientName:  bill.ClientName,
		BillDate:    bill.BillDate,
		TotalAmount: bill.TotalAmount,
		NetPayable:  bill.NetPayable,
		AmountPaid:  bill.AmountPaid,
		Balance:     bill.Balance,
		Status:      bill.Status.String(),
		CreatedAt:   bill.CreatedAt,
	}
}

// ToBillListItemResponses converts a slice of bills to list representations
func ToBillListItemResponses(bills []billing.Bill) []BillListItemResponse {
	responses := make([]BillListItemResponse, len(bills))
	for i := range bills {
		responses[i] = ToBillListItemResponse(&bills[i])
	}
	return responses
}

// ToPaymentHistoryResponse converts a bill to its ledger view
func ToPaymentHistoryResponse(bill *billing.Bill) PaymentHistoryResponse {
	payments := make([]PaymentResponse, len(bill.Payments))
	for i := range bill.Payments {
		payments[i] = ToPaymentResponse(&bill.Payments[i])
	}
	return PaymentHistoryResponse{
		BillID:     bill.ID,
		BillNumber: bill.BillNumber,
		NetPayable: bill.NetPayable,
		AmountPaid: bill.AmountPaid,
		Balance:    bill.Balance,
		Status:     bill.Status.String(),
		Payments:   payments,
	}
}
