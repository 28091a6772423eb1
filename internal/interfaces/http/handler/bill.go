package handler

import (
	billingapp "github.com/energypac/erp-backend/internal/application/billing"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// IdempotencyKeyHeader carries the client-supplied key that makes payment
// recording safe to retry.
const IdempotencyKeyHeader = "X-Idempotency-Key"

// BillHandler handles bill and payment API endpoints
type BillHandler struct {
	BaseHandler
	billService *billingapp.BillService
}

// NewBillHandler creates a new BillHandler
func NewBillHandler(billService *billingapp.BillService) *BillHandler {
	return &BillHandler{
		billService: billService,
	}
}

// ValidateStock godoc
// @Summary      Dry-run delivery validation for a bill
// @Tags         bills
// @Accept       json
// @Produce      json
// @Param        request body billing.ValidateStockRequest true "Delivery lines to validate"
// @Success      200 {object} dto.Response{data=billing.StockValidationResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /bills/validate-stock [post]
func (h *BillHandler) ValidateStock(c *gin.Context) {
	var req billingapp.ValidateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.billService.ValidateStock(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Create godoc
// @Summary      Generate a bill against a work order
// @Tags         bills
// @Accept       json
// @Produce      json
// @Param        request body billing.CreateBillRequest true "Bill generation request"
// @Success      201 {object} dto.Response{data=billing.BillResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /bills [post]
func (h *BillHandler) Create(c *gin.Context) {
	var req billingapp.CreateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	bill, err := h.billService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, bill)
}

// GetByID godoc
// @Summary      Get bill by ID
// @Tags         bills
// @Produce      json
// @Param        id path string true "Bill ID" format(uuid)
// @Success      200 {object} dto.Response{data=billing.BillResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /bills/{id} [get]
func (h *BillHandler) GetByID(c *gin.Context) {
	billID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid bill ID format")
		return
	}

	bill, err := h.billService.GetByID(c.Request.Context(), billID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, bill)
}

// List godoc
// @Summary      List bills
// @Tags         bills
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        search query string false "Search by bill number, WO number or client"
// @Param        status query string false "Filter by status"
// @Param        work_order_id query string false "Filter by work order" format(uuid)
// @Success      200 {object} dto.Response{data=[]billing.BillListItemResponse}
// @Router       /bills [get]
func (h *BillHandler) List(c *gin.Context) {
	var filter billingapp.BillListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	bills, total, err := h.billService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, bills, total, filter.Page, filter.PageSize)
}

// ListByWorkOrder godoc
// @Summary      List bills for a work order
// @Tags         bills
// @Produce      json
// @Param        id path string true "Work order ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]billing.BillListItemResponse}
// @Router       /work-orders/{id}/bills [get]
func (h *BillHandler) ListByWorkOrder(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid work order ID format")
		return
	}

	bills, err := h.billService.ListByWorkOrder(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, bills)
}

// ListPendingPayment godoc
// @Summary      List bills awaiting payment
// @Tags         bills
// @Produce      json
// @Success      200 {object} dto.Response{data=[]billing.BillListItemResponse}
// @Router       /bills/pending-payment [get]
func (h *BillHandler) ListPendingPayment(c *gin.Context) {
	bills, err := h.billService.ListPendingPayment(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, bills)
}

// MarkPaid godoc
// @Summary      Record a payment against a bill
// @Tags         bills
// @Accept       json
// @Produce      json
// @Param        id path string true "Bill ID" format(uuid)
// @Param        X-Idempotency-Key header string false "Idempotency key for safe retries"
// @Param        request body billing.RecordPaymentRequest true "Payment request"
// @Success      200 {object} dto.Response{data=billing.BillResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /bills/{id}/mark-paid [post]
func (h *BillHandler) MarkPaid(c *gin.Context) {
	billID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid bill ID format")
		return
	}

	var req billingapp.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	idempotencyKey := c.GetHeader(IdempotencyKeyHeader)

	bill, err := h.billService.MarkPaid(c.Request.Context(), billID, idempotencyKey, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, bill)
}

// PaymentHistory godoc
// @Summary      Get the payment ledger of a bill
// @Tags         bills
// @Produce      json
// @Param        id path string true "Bill ID" format(uuid)
// @Success      200 {object} dto.Response{data=billing.PaymentHistoryResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /bills/{id}/payments [get]
func (h *BillHandler) PaymentHistory(c *gin.Context) {
	billID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid bill ID format")
		return
	}

	history, err := h.billService.PaymentHistory(c.Request.Context(), billID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, history)
}

// Cancel godoc
// @Summary      Cancel a bill and restore stock and delivery progress
// @Tags         bills
// @Produce      json
// @Param        id path string true "Bill ID" format(uuid)
// @Success      200 {object} dto.Response{data=billing.BillResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /bills/{id}/cancel [post]
func (h *BillHandler) Cancel(c *gin.Context) {
	billID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid bill ID format")
		return
	}

	bill, err := h.billService.Cancel(c.Request.Context(), billID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, bill)
}

// Delete godoc
// @Summary      Delete a bill (always refused, bills are audit records)
// @Tags         bills
// @Produce      json
// @Param        id path string true "Bill ID" format(uuid)
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /bills/{id} [delete]
func (h *BillHandler) Delete(c *gin.Context) {
	h.Forbidden(c, "Bills cannot be deleted. Cancel the bill instead.")
}
