package procurement

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPurchaseOrder(t *testing.T) *PurchaseOrder {
	t.Helper()
	order, err := NewPurchaseOrder("PO/2026/0001", "Bengal Steels", time.Now(), []NewItemInput{
		{
			ProductID: uuid.New(),
			ItemCode:  "CU-WIRE",
			ItemName:  "Copper Winding Wire",
			Unit:      "KG",
			Quantity:  decimal.NewFromInt(50),
			Rate:      decimal.NewFromInt(800),
		},
		{
			ProductID: uuid.New(),
			ItemCode:  "CRGO-SHT",
			ItemName:  "CRGO Lamination Sheet",
			Unit:      "KG",
			Quantity:  decimal.NewFromInt(200),
			Rate:      decimal.NewFromInt(250),
		},
	})
	require.NoError(t, err)
	return order
}

func TestNewPurchaseOrder(t *testing.T) {
	t.Run("computes line amounts and order total", func(t *testing.T) {
		order := newTestPurchaseOrder(t)

		assert.Equal(t, StatusPending, order.Status)
		assert.True(t, order.Items[0].Amount.Equal(decimal.NewFromInt(40000)))
		assert.True(t, order.Items[1].Amount.Equal(decimal.NewFromInt(50000)))
		assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(90000)))
	})

	t.Run("requires at least one item", func(t *testing.T) {
		_, err := NewPurchaseOrder("PO/2026/0002", "Bengal Steels", time.Now(), nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "At least one item is required")
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		_, err := NewPurchaseOrder("PO/2026/0003", "Bengal Steels", time.Now(), []NewItemInput{
			{ProductID: uuid.New(), ItemName: "Copper Winding Wire", Quantity: decimal.Zero, Rate: decimal.NewFromInt(800)},
		})
		assert.Error(t, err)
	})
}

func TestMarkItemPurchased(t *testing.T) {
	t.Run("moves the order to partially received then completed", func(t *testing.T) {
		order := newTestPurchaseOrder(t)

		item, err := order.MarkItemPurchased(order.Items[0].ID)
		require.NoError(t, err)
		assert.True(t, item.IsReceived)
		assert.NotNil(t, item.ReceivedAt)
		assert.Equal(t, StatusPartiallyReceived, order.Status)

		_, err = order.MarkItemPurchased(order.Items[1].ID)
		require.NoError(t, err)
		assert.Equal(t, StatusCompleted, order.Status)
	})

	t.Run("rejects a second receipt of the same item", func(t *testing.T) {
		order := newTestPurchaseOrder(t)
		_, err := order.MarkItemPurchased(order.Items[0].ID)
		require.NoError(t, err)

		_, err = order.MarkItemPurchased(order.Items[0].ID)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already marked as purchased")
	})

	t.Run("rejects unknown item", func(t *testing.T) {
		order := newTestPurchaseOrder(t)
		_, err := order.MarkItemPurchased(uuid.New())
		assert.Error(t, err)
	})

	t.Run("rejects receipt on a cancelled order", func(t *testing.T) {
		order := newTestPurchaseOrder(t)
		_, err := order.Cancel("vendor out of business", "admin")
		require.NoError(t, err)

		_, err = order.MarkItemPurchased(order.Items[0].ID)
		assert.Error(t, err)
	})
}

func TestMarkAllPurchased(t *testing.T) {
	t.Run("receives only the outstanding items", func(t *testing.T) {
		order := newTestPurchaseOrder(t)
		_, err := order.MarkItemPurchased(order.Items[0].ID)
		require.NoError(t, err)

		received, err := order.MarkAllPurchased()
		require.NoError(t, err)
		require.Len(t, received, 1)
		assert.Equal(t, order.Items[1].ID, received[0].ID)
		assert.Equal(t, StatusCompleted, order.Status)
	})

	t.Run("errors when everything was already received", func(t *testing.T) {
		order := newTestPurchaseOrder(t)
		_, err := order.MarkAllPurchased()
		require.NoError(t, err)

		_, err = order.MarkAllPurchased()
		assert.Error(t, err)
	})
}

func TestPurchaseOrderCancel(t *testing.T) {
	t.Run("returns received items for stock reversal", func(t *testing.T) {
		order := newTestPurchaseOrder(t)
		_, err := order.MarkItemPurchased(order.Items[0].ID)
		require.NoError(t, err)

		reversed, err := order.Cancel("duplicate order", "admin")
		require.NoError(t, err)
		require.Len(t, reversed, 1)
		assert.Equal(t, order.Items[0].ID, reversed[0].ID)
		assert.Equal(t, StatusCancelled, order.Status)
		assert.Equal(t, "duplicate order", order.CancellationReason)
		assert.NotNil(t, order.CancelledAt)
	})

	t.Run("rejects cancelling a completed order", func(t *testing.T) {
		order := newTestPurchaseOrder(t)
		_, err := order.MarkAllPurchased()
		require.NoError(t, err)

		_, err = order.Cancel("too late", "admin")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Cannot cancel completed purchase order")
	})

	t.Run("rejects cancelling twice", func(t *testing.T) {
		order := newTestPurchaseOrder(t)
		_, err := order.Cancel("duplicate order", "admin")
		require.NoError(t, err)

		_, err = order.Cancel("again", "admin")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already cancelled")
	})

	t.Run("reason is optional", func(t *testing.T) {
		order := newTestPurchaseOrder(t)
		_, err := order.Cancel("", "admin")
		require.NoError(t, err)
		assert.Equal(t, StatusCancelled, order.Status)
		assert.Empty(t, order.CancellationReason)
	})
}

func TestDeriveStatus(t *testing.T) {
	order := newTestPurchaseOrder(t)

	assert.Equal(t, StatusPending, DeriveStatus(order.Items))

	order.Items[0].IsReceived = true
	assert.Equal(t, StatusPartiallyReceived, DeriveStatus(order.Items))

	order.Items[1].IsReceived = true
	assert.Equal(t, StatusCompleted, DeriveStatus(order.Items))
}
