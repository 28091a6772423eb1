package procurement

import (
	"context"
	"sort"
	"time"

	"github.com/energypac/erp-backend/internal/domain/catalog"
	"github.com/energypac/erp-backend/internal/domain/procurement"
	"github.com/energypac/erp-backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseOrderService handles purchase order business operations
type PurchaseOrderService struct {
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
}

// NewPurchaseOrderService creates a new PurchaseOrderService
func NewPurchaseOrderService(txScope TransactionScope) *PurchaseOrderService {
	return &PurchaseOrderService{txScope: txScope}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *PurchaseOrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new purchase order. Every line references a catalog
// product; code, name and unit default from the catalog when left empty.
func (s *PurchaseOrderService) Create(ctx context.Context, req CreatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	poDate := time.Now()
	if req.PODate != nil {
		poDate = *req.PODate
	}

	var response *PurchaseOrderResponse
	var events []shared.DomainEvent
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		inputs := make([]procurement.NewItemInput, 0, len(req.Items))
		for _, line := range req.Items {
			product, err := repos.ProductRepo().FindByID(ctx, line.ProductID)
			if err != nil {
				return err
			}
			input := procurement.NewItemInput{
				ProductID: line.ProductID,
				ItemCode:  line.ItemCode,
				ItemName:  line.ItemName,
				Unit:      line.Unit,
				Quantity:  line.Quantity,
				Rate:      line.Rate,
			}
			if input.ItemCode == "" {
				input.ItemCode = product.ProductCode
			}
			if input.ItemName == "" {
				input.ItemName = product.Name
			}
			if input.Unit == "" {
				input.Unit = product.Unit
			}
			inputs = append(inputs, input)
		}

		year := poDate.Year()
		seq, err := repos.SequenceRepo().Next(ctx, shared.DocumentTypePurchaseOrder, year)
		if err != nil {
			return err
		}
		poNumber := shared.FormatDocumentNumber(shared.DocumentTypePurchaseOrder, year, seq)

		order, err := procurement.NewPurchaseOrder(poNumber, req.VendorName, poDate, inputs)
		if err != nil {
			return err
		}
		if req.Notes != "" {
			order.SetNotes(req.Notes)
		}

		if err := repos.PurchaseOrderRepo().Save(ctx, order); err != nil {
			return err
		}

		events = order.GetDomainEvents()
		order.ClearDomainEvents()

		resp := ToPurchaseOrderResponse(order)
		response = &resp
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events)
	return response, nil
}

// GetByID retrieves a purchase order by ID
func (s *PurchaseOrderService) GetByID(ctx context.Context, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	var response *PurchaseOrderResponse
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.PurchaseOrderRepo().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		resp := ToPurchaseOrderResponse(order)
		response = &resp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// List retrieves purchase orders with filtering and pagination
func (s *PurchaseOrderService) List(ctx context.Context, filter PurchaseOrderListFilter) ([]PurchaseOrderListItemResponse, int64, error) {
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
	if filter.Vendor != "" {
		domainFilter.Filters["vendor_name"] = filter.Vendor
	}

	var responses []PurchaseOrderListItemResponse
	var total int64
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		orders, count, err := repos.PurchaseOrderRepo().FindAll(ctx, domainFilter)
		if err != nil {
			return err
		}
		responses = ToPurchaseOrderListItemResponses(orders)
		total = count
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return responses, total, nil
}

// MarkItemPurchased marks a single line received and adds its quantity to the
// product's stock, atomically
func (s *PurchaseOrderService) MarkItemPurchased(ctx context.Context, orderID, itemID uuid.UUID) (*PurchaseOrderResponse, error) {
	var response *PurchaseOrderResponse
	var events []shared.DomainEvent
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.PurchaseOrderRepo().FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}

		item, err := order.MarkItemPurchased(itemID)
		if err != nil {
			return err
		}

		product, err := repos.ProductRepo().FindByIDForUpdate(ctx, item.ProductID)
		if err != nil {
			return err
		}
		if err := product.AddStock(item.Quantity); err != nil {
			return err
		}

		if err := repos.ProductRepo().SaveWithLock(ctx, product); err != nil {
			return err
		}
		if err := repos.PurchaseOrderRepo().SaveWithLock(ctx, order); err != nil {
			return err
		}

		events = order.GetDomainEvents()
		order.ClearDomainEvents()

		resp := ToPurchaseOrderResponse(order)
		response = &resp
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events)
	return response, nil
}

// MarkAllPurchased marks every outstanding line received and posts their
// quantities to the stock ledger, atomically
func (s *PurchaseOrderService) MarkAllPurchased(ctx context.Context, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	var response *PurchaseOrderResponse
	var events []shared.DomainEvent
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.PurchaseOrderRepo().FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}

		received, err := order.MarkAllPurchased()
		if err != nil {
			return err
		}

		if err := s.applyStock(ctx, repos, received, (*catalog.Product).AddStock); err != nil {
			return err
		}

		if err := repos.PurchaseOrderRepo().SaveWithLock(ctx, order); err != nil {
			return err
		}

		events = order.GetDomainEvents()
		order.ClearDomainEvents()

		resp := ToPurchaseOrderResponse(order)
		response = &resp
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events)
	return response, nil
}

// Cancel cancels a purchase order and removes the stock of its received
// items. The removal may drive stock negative when the goods were already
// delivered onward; the reversal stays exact either way.
func (s *PurchaseOrderService) Cancel(ctx context.Context, orderID uuid.UUID, req CancelPurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	var response *PurchaseOrderResponse
	var events []shared.DomainEvent
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.PurchaseOrderRepo().FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}

		reversed, err := order.Cancel(req.Reason, req.CancelledBy)
		if err != nil {
			return err
		}

		if err := s.applyStock(ctx, repos, reversed, (*catalog.Product).RemoveStock); err != nil {
			return err
		}

		if err := repos.PurchaseOrderRepo().SaveWithLock(ctx, order); err != nil {
			return err
		}

		events = order.GetDomainEvents()
		order.ClearDomainEvents()

		resp := ToPurchaseOrderResponse(order)
		response = &resp
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events)
	return response, nil
}

// applyStock posts the given items' quantities to their products using apply,
// locking product rows in ascending ID order
func (s *PurchaseOrderService) applyStock(ctx context.Context, repos TransactionalRepositories, items []procurement.PurchaseOrderItem, apply func(*catalog.Product, decimal.Decimal) error) error {
	byProduct := make(map[uuid.UUID]decimal.Decimal)
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		if _, ok := byProduct[item.ProductID]; !ok {
			ids = append(ids, item.ProductID)
		}
		byProduct[item.ProductID] = byProduct[item.ProductID].Add(item.Quantity)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	for _, id := range ids {
		product, err := repos.ProductRepo().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := apply(product, byProduct[id]); err != nil {
			return err
		}
		if err := repos.ProductRepo().SaveWithLock(ctx, product); err != nil {
			return err
		}
	}
	return nil
}

func (s *PurchaseOrderService) publish(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
}
