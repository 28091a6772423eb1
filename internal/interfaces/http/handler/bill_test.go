package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	billingapp "github.com/energypac/erp-backend/internal/application/billing"
	"github.com/energypac/erp-backend/internal/domain/billing"
	"github.com/energypac/erp-backend/internal/domain/shared"
	"github.com/energypac/erp-backend/internal/domain/workorder"
	"github.com/energypac/erp-backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockBillRepository implements billing.Repository for testing
type MockBillRepository struct {
	mock.Mock
}

func (m *MockBillRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Bill, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Bill), args.Error(1)
}

func (m *MockBillRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*billing.Bill, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Bill), args.Error(1)
}

func (m *MockBillRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.Bill, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]billing.Bill), args.Get(1).(int64), args.Error(2)
}

func (m *MockBillRepository) FindByWorkOrder(ctx context.Context, workOrderID uuid.UUID) ([]billing.Bill, error) {
	args := m.Called(ctx, workOrderID)
	return args.Get(0).([]billing.Bill), args.Error(1)
}

func (m *MockBillRepository) FindPendingPayment(ctx context.Context) ([]billing.Bill, error) {
	args := m.Called(ctx)
	return args.Get(0).([]billing.Bill), args.Error(1)
}

func (m *MockBillRepository) Create(ctx context.Context, bill *billing.Bill) error {
	args := m.Called(ctx, bill)
	return args.Error(0)
}

func (m *MockBillRepository) Save(ctx context.Context, bill *billing.Bill) error {
	args := m.Called(ctx, bill)
	return args.Error(0)
}

// MockWorkOrderRepository implements workorder.Repository for testing
type MockWorkOrderRepository struct {
	mock.Mock
}

func (m *MockWorkOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*workorder.WorkOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*workorder.WorkOrder), args.Error(1)
}

func (m *MockWorkOrderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*workorder.WorkOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*workorder.WorkOrder), args.Error(1)
}

func (m *MockWorkOrderRepository) FindByNumber(ctx context.Context, woNumber string) (*workorder.WorkOrder, error) {
	args := m.Called(ctx, woNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*workorder.WorkOrder), args.Error(1)
}

func (m *MockWorkOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]workorder.WorkOrder, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]workorder.WorkOrder), args.Get(1).(int64), args.Error(2)
}

func (m *MockWorkOrderRepository) Save(ctx context.Context, order *workorder.WorkOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockWorkOrderRepository) SaveWithLock(ctx context.Context, order *workorder.WorkOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

// MockSequenceRepository implements shared.DocumentSequenceRepository for testing
type MockSequenceRepository struct {
	mock.Mock
}

func (m *MockSequenceRepository) Next(ctx context.Context, docType string, year int) (int64, error) {
	args := m.Called(ctx, docType, year)
	return args.Get(0).(int64), args.Error(1)
}

type billTestFixture struct {
	billRepo    *MockBillRepository
	woRepo      *MockWorkOrderRepository
	productRepo *MockProductRepository
	seqRepo     *MockSequenceRepository
	router      *gin.Engine
}

func newBillTestRouter(t *testing.T) *billTestFixture {
	t.Helper()
	f := &billTestFixture{
		billRepo:    new(MockBillRepository),
		woRepo:      new(MockWorkOrderRepository),
		productRepo: new(MockProductRepository),
		seqRepo:     new(MockSequenceRepository),
	}

	scope := billingapp.NewNoOpTransactionScope(f.billRepo, f.woRepo, f.productRepo, f.seqRepo)
	service := billingapp.NewBillService(scope)
	h := NewBillHandler(service)

	router := gin.New()
	router.POST("/bills/validate-stock", h.ValidateStock)
	router.POST("/bills", h.Create)
	router.GET("/bills/pending-payment", h.ListPendingPayment)
	router.GET("/bills/:id", h.GetByID)
	router.POST("/bills/:id/mark-paid", h.MarkPaid)
	router.DELETE("/bills/:id", h.Delete)
	f.router = router
	return f
}

// deliveryTestOrder builds a work order with a single manual 50 MTR cable line
func deliveryTestOrder(t *testing.T) *workorder.WorkOrder {
	t.Helper()
	order, err := workorder.NewWorkOrder("WO-2026-0001", "Acme Power", time.Now(),
		decimal.Zero, decimal.Zero, decimal.Zero,
		[]workorder.NewItemInput{
			{
				ItemCode: "CBL-11KV",
				ItemName: "11KV Cable",
				Unit:     "MTR",
				Rate:     decimal.NewFromInt(100),
				Quantity: decimal.NewFromInt(50),
			},
		})
	require.NoError(t, err)
	return order
}

func TestBillHandlerValidateStock(t *testing.T) {
	t.Run("passes when requested quantity fits pending", func(t *testing.T) {
		f := newBillTestRouter(t)
		order := deliveryTestOrder(t)
		f.woRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)

		body, _ := json.Marshal(map[string]interface{}{
			"work_order_id": order.ID,
			"items": []map[string]interface{}{
				{"work_order_item_id": order.Items[0].ID, "quantity": "20"},
			},
		})
		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/bills/validate-stock", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		f.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		data := resp.Data.(map[string]interface{})
		assert.Equal(t, true, data["stock_available"])
	})

	t.Run("reports lines exceeding the pending quantity", func(t *testing.T) {
		f := newBillTestRouter(t)
		order := deliveryTestOrder(t)
		f.woRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)

		body, _ := json.Marshal(map[string]interface{}{
			"work_order_id": order.ID,
			"items": []map[string]interface{}{
				{"work_order_item_id": order.Items[0].ID, "quantity": "80"},
			},
		})
		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/bills/validate-stock", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		f.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		data := resp.Data.(map[string]interface{})
		assert.Equal(t, false, data["stock_available"])

		issues := data["issues"].([]interface{})
		require.Len(t, issues, 1)
		issue := issues[0].(map[string]interface{})
		assert.Equal(t, billingapp.IssueExceedsPending, issue["type"])
		assert.Equal(t, "11KV Cable", issue["item_name"])
	})

	t.Run("rejects request without items", func(t *testing.T) {
		f := newBillTestRouter(t)

		body := []byte(`{"work_order_id": "` + uuid.NewString() + `", "items": []}`)
		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/bills/validate-stock", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		f.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestBillHandlerCreate(t *testing.T) {
	t.Run("rejects delivery exceeding pending with issue details", func(t *testing.T) {
		f := newBillTestRouter(t)
		order := deliveryTestOrder(t)
		f.woRepo.On("FindByIDForUpdate", mock.Anything, order.ID).Return(order, nil)

		body, _ := json.Marshal(map[string]interface{}{
			"work_order_id": order.ID,
			"items": []map[string]interface{}{
				{"work_order_item_id": order.Items[0].ID, "quantity": "80"},
			},
		})
		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/bills", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		f.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		assert.Equal(t, dto.ErrCodeStockValidation, resp.Error.Code)
		require.NotNil(t, resp.Error.Issues)
		f.billRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("generates a bill for a valid delivery", func(t *testing.T) {
		f := newBillTestRouter(t)
		order := deliveryTestOrder(t)
		f.woRepo.On("FindByIDForUpdate", mock.Anything, order.ID).Return(order, nil)
		f.woRepo.On("SaveWithLock", mock.Anything, mock.AnythingOfType("*workorder.WorkOrder")).Return(nil)
		f.seqRepo.On("Next", mock.Anything, shared.DocumentTypeBill, time.Now().Year()).
			Return(int64(7), nil)
		f.billRepo.On("Create", mock.Anything, mock.AnythingOfType("*billing.Bill")).Return(nil)

		body, _ := json.Marshal(map[string]interface{}{
			"work_order_id": order.ID,
			"items": []map[string]interface{}{
				{"work_order_item_id": order.Items[0].ID, "quantity": "20"},
			},
		})
		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/bills", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		f.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		data := resp.Data.(map[string]interface{})
		assert.Contains(t, data["bill_number"], "0007")
		f.billRepo.AssertExpectations(t)
		f.woRepo.AssertExpectations(t)
	})
}

func TestBillHandlerGetByID(t *testing.T) {
	t.Run("returns 404 for unknown bill", func(t *testing.T) {
		f := newBillTestRouter(t)
		f.billRepo.On("FindByID", mock.Anything, mock.Anything).Return(nil, shared.ErrNotFound)

		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/bills/"+uuid.NewString(), nil)
		f.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("rejects malformed ID", func(t *testing.T) {
		f := newBillTestRouter(t)

		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/bills/not-a-uuid", nil)
		f.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		f.billRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})
}

func TestBillHandlerMarkPaid(t *testing.T) {
	t.Run("rejects malformed bill ID", func(t *testing.T) {
		f := newBillTestRouter(t)

		body := []byte(`{"amount": "100", "payment_mode": "NEFT"}`)
		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/bills/not-a-uuid/mark-paid", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		f.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects payment without mode", func(t *testing.T) {
		f := newBillTestRouter(t)

		body := []byte(`{"amount": "100"}`)
		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/bills/"+uuid.NewString()+"/mark-paid", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		f.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		f.billRepo.AssertNotCalled(t, "FindByIDForUpdate", mock.Anything, mock.Anything)
	})
}

func TestBillHandlerDelete(t *testing.T) {
	f := newBillTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("DELETE", "/bills/"+uuid.NewString(), nil)
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, dto.ErrCodeForbidden, resp.Error.Code)
	f.billRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}
