package billing

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/energypac/erp-backend/internal/domain/billing"
	"github.com/energypac/erp-backend/internal/domain/catalog"
	"github.com/energypac/erp-backend/internal/domain/shared"
	"github.com/energypac/erp-backend/internal/domain/workorder"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BillService handles bill generation, payment and cancellation
type BillService struct {
	txScope          TransactionScope
	eventPublisher   shared.EventPublisher
	idempotencyStore shared.IdempotencyStore
	idempotencyCfg   shared.IdempotencyConfig
}

// NewBillService creates a new BillService
func NewBillService(txScope TransactionScope) *BillService {
	return &BillService{
		txScope:        txScope,
		idempotencyCfg: shared.DefaultIdempotencyConfig(),
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *BillService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetIdempotencyStore enables Idempotency-Key deduplication on payment recording
func (s *BillService) SetIdempotencyStore(store shared.IdempotencyStore, cfg shared.IdempotencyConfig) {
	s.idempotencyStore = store
	s.idempotencyCfg = cfg
}

// ValidateStock dry-runs delivery validation for a prospective bill without
// taking locks or mutating anything
func (s *BillService) ValidateStock(ctx context.Context, req ValidateStockRequest) (*StockValidationResponse, error) {
	var result *StockValidationResponse
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.WorkOrderRepo().FindByID(ctx, req.WorkOrderID)
		if err != nil {
			return err
		}

		products, err := s.loadProducts(ctx, repos, order, req.Items, false)
		if err != nil {
			return err
		}

		issues := validateDelivery(order, products, req.Items)
		result = &StockValidationResponse{
			StockAvailable: len(issues) == 0,
			Issues:         issues,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Create generates a bill against a work order. In one transaction it
// validates every requested line, deducts stock for product-backed items,
// applies the deliveries to the work order, deducts the available advance and
// persists the bill. Any validation issue aborts the whole request.
func (s *BillService) Create(ctx context.Context, req CreateBillRequest) (*BillResponse, error) {
	billDate := time.Now()
	if req.BillDate != nil {
		billDate = *req.BillDate
	}

	var response *BillResponse
	var events []shared.DomainEvent
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.WorkOrderRepo().FindByIDForUpdate(ctx, req.WorkOrderID)
		if err != nil {
			return err
		}
		if !order.Status.CanBill() {
			return shared.NewDomainError("INVALID_STATE",
				fmt.Sprintf("Cannot bill a %s work order", order.Status))
		}

		products, err := s.loadProducts(ctx, repos, order, req.Items, true)
		if err != nil {
			return err
		}

		if issues := validateDelivery(order, products, req.Items); len(issues) > 0 {
			return &StockValidationError{Result: &StockValidationResponse{
				StockAvailable: false,
				Issues:         issues,
			}}
		}

		year := billDate.Year()
		seq, err := repos.SequenceRepo().Next(ctx, shared.DocumentTypeBill, year)
		if err != nil {
			return err
		}
		billNumber := shared.FormatDocumentNumber(shared.DocumentTypeBill, year, seq)

		bill, err := billing.NewBill(billNumber, order, billDate, req.Notes)
		if err != nil {
			return err
		}

		for _, line := range req.Items {
			item := order.GetItem(line.WorkOrderItemID)
			if item == nil {
				return shared.NewDomainError("ITEM_NOT_FOUND", "Work order item not found")
			}

			// snapshot first, then apply: the bill item records the
			// delivered total as it was before this delivery
			if _, err := bill.AddDeliveryItem(item, line.Quantity); err != nil {
				return err
			}
			// manual lines are billed but carry no delivery tracking
			if item.ProductID != nil {
				if err := order.ApplyDelivery(item.ID, line.Quantity); err != nil {
					return err
				}
				product := products[*item.ProductID]
				if err := product.DeductStock(line.Quantity); err != nil {
					return err
				}
			}
		}

		if err := bill.Finalize(order.AdvanceRemaining()); err != nil {
			return err
		}
		if err := order.AddDeliveredValue(bill.TotalAmount); err != nil {
			return err
		}
		if err := order.DeductAdvance(bill.AdvanceDeducted); err != nil {
			return err
		}

		for _, product := range products {
			if err := repos.ProductRepo().SaveWithLock(ctx, product); err != nil {
				return err
			}
		}
		if err := repos.WorkOrderRepo().SaveWithLock(ctx, order); err != nil {
			return err
		}
		if err := repos.BillRepo().Create(ctx, bill); err != nil {
			return err
		}

		events = collectEvents(bill, order)
		for _, product := range products {
			events = append(events, collectEvents(product)...)
		}

		resp := ToBillResponse(bill)
		response = &resp
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events)
	return response, nil
}

// GetByID retrieves a bill by ID
func (s *BillService) GetByID(ctx context.Context, billID uuid.UUID) (*BillResponse, error) {
	var response *BillResponse
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		bill, err := repos.BillRepo().FindByID(ctx, billID)
		if err != nil {
			return err
		}
		resp := ToBillResponse(bill)
		response = &resp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// List retrieves bills with filtering and pagination
func (s *BillService) List(ctx context.Context, filter BillListFilter) ([]BillListItemResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.WorkOrderID != nil {
		domainFilter.Filters["work_order_id"] = *filter.WorkOrderID
	}
	if filter.StartDate != nil {
		domainFilter.Filters["start_date"] = *filter.StartDate
	}
	if filter.EndDate != nil {
		domainFilter.Filters["end_date"] = *filter.EndDate
	}

	var responses []BillListItemResponse
	var total int64
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		bills, count, err := repos.BillRepo().FindAll(ctx, domainFilter)
		if err != nil {
			return err
		}
		responses = ToBillListItemResponses(bills)
		total = count
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return responses, total, nil
}

// ListByWorkOrder retrieves all bills raised against a work order
func (s *BillService) ListByWorkOrder(ctx context.Context, workOrderID uuid.UUID) ([]BillListItemResponse, error) {
	var responses []BillListItemResponse
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		bills, err := repos.BillRepo().FindByWorkOrder(ctx, workOrderID)
		if err != nil {
			return err
		}
		responses = ToBillListItemResponses(bills)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return responses, nil
}

// ListPendingPayment retrieves all bills with an outstanding balance
func (s *BillService) ListPendingPayment(ctx context.Context) ([]BillListItemResponse, error) {
	var responses []BillListItemResponse
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		bills, err := repos.BillRepo().FindPendingPayment(ctx)
		if err != nil {
			return err
		}
		responses = ToBillListItemResponses(bills)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return responses, nil
}

// MarkPaid records a payment against a bill. The bill row is locked so
// concurrent submissions serialize; an optional Idempotency-Key suppresses
// duplicate submissions of the same payment.
func (s *BillService) MarkPaid(ctx context.Context, billID uuid.UUID, idempotencyKey string, req RecordPaymentRequest) (*BillResponse, error) {
	dedupKey := ""
	if idempotencyKey != "" && s.idempotencyStore != nil && s.idempotencyCfg.Enabled {
		dedupKey = fmt.Sprintf("payment:%s:%s", billID, idempotencyKey)
		processed, err := s.idempotencyStore.IsProcessed(ctx, dedupKey)
		if err != nil {
			return nil, err
		}
		if processed {
			return nil, shared.NewDomainError("DUPLICATE_REQUEST", "Payment with this idempotency key was already recorded")
		}
	}

	paymentDate := time.Now()
	if req.PaymentDate != nil {
		paymentDate = *req.PaymentDate
	}
	mode := billing.PaymentMode(strings.ToUpper(req.PaymentMode))

	var response *BillResponse
	var events []shared.DomainEvent
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		bill, err := repos.BillRepo().FindByIDForUpdate(ctx, billID)
		if err != nil {
			return err
		}

		if _, err := bill.RecordPayment(req.Amount, mode, paymentDate, req.Reference, req.Notes); err != nil {
			return err
		}

		if err := repos.BillRepo().Save(ctx, bill); err != nil {
			return err
		}

		events = collectEvents(bill)
		resp := ToBillResponse(bill)
		response = &resp
		return nil
	})
	if err != nil {
		return nil, err
	}

	if dedupKey != "" {
		if _, err := s.idempotencyStore.MarkProcessed(ctx, dedupKey, s.idempotencyCfg.TTL); err != nil {
			return nil, err
		}
	}

	s.publish(ctx, events)
	return response, nil
}

// PaymentHistory retrieves the full payment ledger of a bill
func (s *BillService) PaymentHistory(ctx context.Context, billID uuid.UUID) (*PaymentHistoryResponse, error) {
	var response *PaymentHistoryResponse
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		bill, err := repos.BillRepo().FindByID(ctx, billID)
		if err != nil {
			return err
		}
		resp := ToPaymentHistoryResponse(bill)
		response = &resp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// Cancel cancels a bill and reverses everything its generation did: delivered
// quantities return to the work order, stock returns to product-backed items
// and the deducted advance returns to the work order pool. Recorded payments
// are kept on the ledger.
func (s *BillService) Cancel(ctx context.Context, billID uuid.UUID) (*BillResponse, error) {
	var response *BillResponse
	var events []shared.DomainEvent
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		bill, err := repos.BillRepo().FindByIDForUpdate(ctx, billID)
		if err != nil {
			return err
		}
		if err := bill.Cancel(); err != nil {
			return err
		}

		order, err := repos.WorkOrderRepo().FindByIDForUpdate(ctx, bill.WorkOrderID)
		if err != nil {
			return err
		}

		products := make(map[uuid.UUID]*catalog.Product)
		for i := range bill.Items {
			item := &bill.Items[i]
			// manual lines carried no delivery tracking, nothing to reverse
			if item.ProductID == nil {
				continue
			}
			if err := order.ReverseDelivery(item.WorkOrderItemID, item.DeliveredQuantity); err != nil {
				return err
			}
			product, ok := products[*item.ProductID]
			if !ok {
				product, err = repos.ProductRepo().FindByIDForUpdate(ctx, *item.ProductID)
				if err != nil {
					return err
				}
				products[*item.ProductID] = product
			}
			if err := product.RestoreStock(item.DeliveredQuantity); err != nil {
				return err
			}
		}

		if err := order.SubtractDeliveredValue(bill.TotalAmount); err != nil {
			return err
		}
		if err := order.RestoreAdvance(bill.AdvanceDeducted); err != nil {
			return err
		}

		for _, product := range products {
			if err := repos.ProductRepo().SaveWithLock(ctx, product); err != nil {
				return err
			}
		}
		if err := repos.WorkOrderRepo().SaveWithLock(ctx, order); err != nil {
			return err
		}
		if err := repos.BillRepo().Save(ctx, bill); err != nil {
			return err
		}

		events = collectEvents(bill, order)
		for _, product := range products {
			events = append(events, collectEvents(product)...)
		}

		resp := ToBillResponse(bill)
		response = &resp
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events)
	return response, nil
}

// loadProducts loads the catalog products referenced by the requested lines,
// in ascending ID order so concurrent transactions lock rows in the same
// order. Lines referencing unknown work order items are skipped here; the
// validation pass reports them.
func (s *BillService) loadProducts(ctx context.Context, repos TransactionalRepositories, order *workorder.WorkOrder, lines []BillItemRequest, forUpdate bool) (map[uuid.UUID]*catalog.Product, error) {
	seen := make(map[uuid.UUID]bool)
	ids := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		item := order.GetItem(line.WorkOrderItemID)
		if item == nil || item.ProductID == nil || seen[*item.ProductID] {
			continue
		}
		seen[*item.ProductID] = true
		ids = append(ids, *item.ProductID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	products := make(map[uuid.UUID]*catalog.Product, len(ids))
	for _, id := range ids {
		var product *catalog.Product
		var err error
		if forUpdate {
			product, err = repos.ProductRepo().FindByIDForUpdate(ctx, id)
		} else {
			product, err = repos.ProductRepo().FindByID(ctx, id)
		}
		if err != nil {
			return nil, err
		}
		products[id] = product
	}
	return products, nil
}

// validateDelivery checks every requested line against the work order's
// pending quantities and, for product-backed items, the current stock. All
// issues are collected so the client sees the full picture in one response.
// Duplicate lines for the same item are validated against their combined
// quantity.
func validateDelivery(order *workorder.WorkOrder, products map[uuid.UUID]*catalog.Product, lines []BillItemRequest) []StockIssue {
	issues := make([]StockIssue, 0)

	requested := make(map[uuid.UUID]decimal.Decimal)
	ordered := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		if _, ok := requested[line.WorkOrderItemID]; !ok {
			ordered = append(ordered, line.WorkOrderItemID)
		}
		requested[line.WorkOrderItemID] = requested[line.WorkOrderItemID].Add(line.Quantity)
	}

	stockNeeded := make(map[uuid.UUID]decimal.Decimal)
	for _, itemID := range ordered {
		quantity := requested[itemID]
		item := order.GetItem(itemID)
		if item == nil {
			issues = append(issues, StockIssue{
				Type:            IssueItemNotFound,
				WorkOrderItemID: itemID,
				Requested:       quantity,
			})
			continue
		}

		if quantity.LessThanOrEqual(decimal.Zero) || quantity.GreaterThan(item.PendingQuantity()) {
			issues = append(issues, StockIssue{
				Type:            IssueExceedsPending,
				WorkOrderItemID: itemID,
				ItemName:        item.ItemName,
				Requested:       quantity,
				Pending:         item.PendingQuantity(),
			})
			continue
		}

		if item.ProductID != nil {
			stockNeeded[*item.ProductID] = stockNeeded[*item.ProductID].Add(quantity)
		}
	}

	for _, itemID := range ordered {
		item := order.GetItem(itemID)
		if item == nil || item.ProductID == nil {
			continue
		}
		product, ok := products[*item.ProductID]
		if !ok {
			continue
		}
		needed := stockNeeded[*item.ProductID]
		if needed.IsPositive() && product.CurrentStock.LessThan(needed) {
			issues = append(issues, StockIssue{
				Type:            IssueInsufficientStock,
				WorkOrderItemID: itemID,
				ItemName:        item.ItemName,
				Requested:       requested[itemID],
				Available:       product.CurrentStock,
			})
			// report once per product
			stockNeeded[*item.ProductID] = decimal.Zero
		}
	}

	return issues
}

// collectEvents drains pending domain events from the given aggregates
func collectEvents(aggregates ...shared.AggregateRoot) []shared.DomainEvent {
	events := make([]shared.DomainEvent, 0)
	for _, aggregate := range aggregates {
		events = append(events, aggregate.GetDomainEvents()...)
		aggregate.ClearDomainEvents()
	}
	return events
}

// publish sends events to the bus after the transaction commits. Delivery is
// best-effort; handlers log their own failures.
func (s *BillService) publish(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
}
