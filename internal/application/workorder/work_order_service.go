package workorder

import (
	"context"
	"time"

	"github.com/energypac/erp-backend/internal/domain/shared"
	"github.com/energypac/erp-backend/internal/domain/workorder"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WorkOrderService handles work order business operations
type WorkOrderService struct {
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
}

// NewWorkOrderService creates a new WorkOrderService
func NewWorkOrderService(txScope TransactionScope) *WorkOrderService {
	return &WorkOrderService{txScope: txScope}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *WorkOrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new work order. Product-backed lines take their missing
// descriptive fields and rate from the catalog and snapshot the product's
// current stock; the work order number comes from the yearly sequence.
func (s *WorkOrderService) Create(ctx context.Context, req CreateWorkOrderRequest) (*WorkOrderResponse, error) {
	woDate := time.Now()
	if req.WODate != nil {
		woDate = *req.WODate
	}

	var response *WorkOrderResponse
	var events []shared.DomainEvent
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		inputs := make([]workorder.NewItemInput, 0, len(req.Items))
		for _, line := range req.Items {
			input := workorder.NewItemInput{
				ProductID:   line.ProductID,
				ItemCode:    line.ItemCode,
				ItemName:    line.ItemName,
				Description: line.Description,
				HSNCode:     line.HSNCode,
				Unit:        line.Unit,
				Rate:        line.Rate,
				Quantity:    line.Quantity,
			}
			if line.ProductID != nil {
				product, err := repos.ProductRepo().FindByID(ctx, *line.ProductID)
				if err != nil {
					return err
				}
				if input.ItemCode == "" {
					input.ItemCode = product.ProductCode
				}
				if input.ItemName == "" {
					input.ItemName = product.Name
				}
				if input.HSNCode == "" {
					input.HSNCode = product.HSNCode
				}
				if input.Unit == "" {
					input.Unit = product.Unit
				}
				if input.Rate.IsZero() {
					input.Rate = product.Rate
				}
				input.StockQuantity = product.CurrentStock
			}
			inputs = append(inputs, input)
		}

		year := woDate.Year()
		seq, err := repos.SequenceRepo().Next(ctx, shared.DocumentTypeWorkOrder, year)
		if err != nil {
			return err
		}
		woNumber := shared.FormatDocumentNumber(shared.DocumentTypeWorkOrder, year, seq)

		order, err := workorder.NewWorkOrder(woNumber, req.ClientName, woDate,
			req.CGSTPercentage, req.SGSTPercentage, req.IGSTPercentage, inputs)
		if err != nil {
			return err
		}
		order.SetClientContact(req.ContactPerson, req.Phone, req.Email, req.Address)
		if req.Notes != "" {
			order.SetNotes(req.Notes)
		}

		if err := repos.WorkOrderRepo().Save(ctx, order); err != nil {
			return err
		}

		events = order.GetDomainEvents()
		order.ClearDomainEvents()

		resp := ToWorkOrderResponse(order)
		response = &resp
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events)
	return response, nil
}

// GetByID retrieves a work order by ID
func (s *WorkOrderService) GetByID(ctx context.Context, orderID uuid.UUID) (*WorkOrderResponse, error) {
	var response *WorkOrderResponse
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.WorkOrderRepo().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		resp := ToWorkOrderResponse(order)
		response = &resp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// List retrieves work orders with filtering and pagination
func (s *WorkOrderService) List(ctx context.Context, filter WorkOrderListFilter) ([]WorkOrderListItemResponse, int64, error) {
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
	if filter.Client != "" {
		domainFilter.Filters["client_name"] = filter.Client
	}

	var responses []WorkOrderListItemResponse
	var total int64
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		orders, count, err := repos.WorkOrderRepo().FindAll(ctx, domainFilter)
		if err != nil {
			return err
		}
		responses = ToWorkOrderListItemResponses(orders)
		total = count
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return responses, total, nil
}

// DeliveryStatus retrieves the per-item delivery progress and advance summary
func (s *WorkOrderService) DeliveryStatus(ctx context.Context, orderID uuid.UUID) (*DeliveryStatusResponse, error) {
	var response *DeliveryStatusResponse
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.WorkOrderRepo().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		resp := ToDeliveryStatusResponse(order)
		response = &resp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// RecordAdvance records an advance receipt against the work order's pool
func (s *WorkOrderService) RecordAdvance(ctx context.Context, orderID uuid.UUID, amount decimal.Decimal) (*WorkOrderResponse, error) {
	var response *WorkOrderResponse
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.WorkOrderRepo().FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if err := order.RecordAdvance(amount); err != nil {
			return err
		}
		if err := repos.WorkOrderRepo().SaveWithLock(ctx, order); err != nil {
			return err
		}
		resp := ToWorkOrderResponse(order)
		response = &resp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// Cancel cancels a work order. Deliveries already billed stay billed; the
// order simply stops accepting new bills.
func (s *WorkOrderService) Cancel(ctx context.Context, orderID uuid.UUID) (*WorkOrderResponse, error) {
	var response *WorkOrderResponse
	var events []shared.DomainEvent
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.WorkOrderRepo().FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if err := order.Cancel(); err != nil {
			return err
		}
		if err := repos.WorkOrderRepo().SaveWithLock(ctx, order); err != nil {
			return err
		}

		events = order.GetDomainEvents()
		order.ClearDomainEvents()

		resp := ToWorkOrderResponse(order)
		response = &resp
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events)
	return response, nil
}

func (s *WorkOrderService) publish(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
}
