package catalog

import (
	"context"

	"github.com/energypac/erp-backend/internal/domain/catalog"
	"github.com/energypac/erp-backend/internal/domain/shared"
	"go.uber.org/zap"
)

// LowStockHandler warns when a delivery drives a product below its minimum
// stock level
type LowStockHandler struct {
	logger *zap.Logger
}

// NewLowStockHandler creates a new LowStockHandler
func NewLowStockHandler(logger *zap.Logger) *LowStockHandler {
	return &LowStockHandler{logger: logger}
}

// EventTypes returns the event types this handler subscribes to
func (h *LowStockHandler) EventTypes() []string {
	return []string{catalog.EventTypeStockDeducted}
}

// Handle processes a stock deducted event
func (h *LowStockHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	deducted, ok := event.(*catalog.StockDeductedEvent)
	if !ok {
		return nil
	}

	if !deducted.MinStock.IsPositive() || deducted.RemainingStock.GreaterThanOrEqual(deducted.MinStock) {
		return nil
	}

	h.logger.Warn("product stock below minimum level",
		zap.String("product_id", deducted.ProductID.String()),
		zap.String("product_code", deducted.ProductCode),
		zap.String("product_name", deducted.ProductName),
		zap.String("remaining_stock", deducted.RemainingStock.String()),
		zap.String("min_stock", deducted.MinStock.String()),
	)

	return nil
}
