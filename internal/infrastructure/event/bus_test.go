package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/energypac/erp-backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type stubEvent struct {
	shared.BaseDomainEvent
}

func newStubEvent(eventType string) *stubEvent {
	return &stubEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "Bill", uuid.New()),
	}
}

type stubHandler struct {
	mu         sync.Mutex
	eventTypes []string
	handled    []shared.DomainEvent
	err        error
	panicMsg   string
}

func newStubHandler(eventTypes ...string) *stubHandler {
	return &stubHandler{eventTypes: eventTypes}
}

func (h *stubHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.panicMsg != "" {
		panic(h.panicMsg)
	}
	h.handled = append(h.handled, event)
	return h.err
}

func (h *stubHandler) EventTypes() []string {
	return h.eventTypes
}

func (h *stubHandler) handledCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handled)
}

func TestEventBusPublish(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	handler := newStubHandler("BillGenerated")
	bus.Subscribe(handler, "BillGenerated")

	evt := newStubEvent("BillGenerated")
	require.NoError(t, bus.Publish(context.Background(), evt))

	require.Equal(t, 1, handler.handledCount())
	assert.Equal(t, evt, handler.handled[0])
}

func TestEventBusPublishMultipleEvents(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	handler := newStubHandler("PaymentRecorded")
	bus.Subscribe(handler, "PaymentRecorded")

	err := bus.Publish(context.Background(),
		newStubEvent("PaymentRecorded"),
		newStubEvent("PaymentRecorded"),
	)

	require.NoError(t, err)
	assert.Equal(t, 2, handler.handledCount())
}

func TestEventBusFansOutToAllHandlers(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	stockHandler := newStubHandler("StockDeducted")
	audit := newStubHandler()
	bus.Subscribe(stockHandler, "StockDeducted")
	bus.Subscribe(audit)

	require.NoError(t, bus.Publish(context.Background(), newStubEvent("StockDeducted")))

	assert.Equal(t, 1, stockHandler.handledCount())
	assert.Equal(t, 1, audit.handledCount())
}

func TestEventBusSubscribeUsesHandlerDeclaredTypes(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	handler := newStubHandler("WorkOrderCancelled")
	bus.Subscribe(handler)

	require.NoError(t, bus.Publish(context.Background(), newStubEvent("WorkOrderCancelled")))
	require.NoError(t, bus.Publish(context.Background(), newStubEvent("BillGenerated")))

	assert.Equal(t, 1, handler.handledCount())
}

func TestEventBusHandlerErrorDoesNotStopDelivery(t *testing.T) {
	core, recorded := observer.New(zapcore.ErrorLevel)
	bus := NewInMemoryEventBus(zap.New(core))

	failing := newStubHandler("BillGenerated")
	failing.err = errors.New("smtp unreachable")
	healthy := newStubHandler("BillGenerated")
	bus.Subscribe(failing, "BillGenerated")
	bus.Subscribe(healthy, "BillGenerated")

	require.NoError(t, bus.Publish(context.Background(), newStubEvent("BillGenerated")))

	assert.Equal(t, 1, healthy.handledCount())
	assert.Len(t, recorded.FilterMessage("event handler failed").All(), 1)
}

func TestEventBusHandlerPanicIsContained(t *testing.T) {
	core, recorded := observer.New(zapcore.ErrorLevel)
	bus := NewInMemoryEventBus(zap.New(core))

	panicking := newStubHandler("BillGenerated")
	panicking.panicMsg = "nil item list"
	healthy := newStubHandler("BillGenerated")
	bus.Subscribe(panicking, "BillGenerated")
	bus.Subscribe(healthy, "BillGenerated")

	assert.NotPanics(t, func() {
		require.NoError(t, bus.Publish(context.Background(), newStubEvent("BillGenerated")))
	})

	assert.Equal(t, 1, healthy.handledCount())
	assert.Len(t, recorded.FilterMessage("event handler failed").All(), 1)
}

func TestEventBusNoMatchingHandlers(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	handler := newStubHandler("PurchaseOrderCreated")
	bus.Subscribe(handler, "PurchaseOrderCreated")

	require.NoError(t, bus.Publish(context.Background(), newStubEvent("BillGenerated")))
	assert.Equal(t, 0, handler.handledCount())
}

func TestEventBusUnsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	handler := newStubHandler("BillCancelled")
	bus.Subscribe(handler, "BillCancelled")

	require.NoError(t, bus.Publish(context.Background(), newStubEvent("BillCancelled")))
	assert.Equal(t, 1, handler.handledCount())

	bus.Unsubscribe(handler)

	require.NoError(t, bus.Publish(context.Background(), newStubEvent("BillCancelled")))
	assert.Equal(t, 1, handler.handledCount())
}

func TestEventBusStartStop(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	require.NoError(t, bus.Start(context.Background()))

	handler := newStubHandler("BillGenerated")
	bus.Subscribe(handler, "BillGenerated")
	require.NoError(t, bus.Publish(context.Background(), newStubEvent("BillGenerated")))
	assert.Equal(t, 1, handler.handledCount())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, bus.Stop(ctx))
}
