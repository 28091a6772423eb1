package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/energypac/erp-backend/internal/domain/catalog"
	"github.com/energypac/erp-backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByCode(ctx context.Context, code string) (*catalog.Product, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]catalog.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) FindBelowMinStock(ctx context.Context) ([]catalog.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) SaveWithLock(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func TestProductService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates product with rate and min stock", func(t *testing.T) {
		repo := new(MockProductRepository)
		service := NewProductService(repo)

		repo.On("FindByCode", ctx, "TRF-100").Return(nil, shared.ErrNotFound)
		repo.On("Save", ctx, mock.AnythingOfType("*catalog.Product")).Return(nil)

		resp, err := service.Create(ctx, CreateProductRequest{
			ProductCode: "trf-100",
			Name:        "Distribution Transformer 100kVA",
			HSNCode:     "8504",
			Unit:        "Nos",
			Rate:        decimal.NewFromInt(250000),
			MinStock:    decimal.NewFromInt(2),
		})

		require.NoError(t, err)
		assert.Equal(t, "TRF-100", resp.ProductCode)
		assert.Equal(t, "8504", resp.HSNCode)
		assert.True(t, resp.Rate.Equal(decimal.NewFromInt(250000)))
		assert.True(t, resp.MinStock.Equal(decimal.NewFromInt(2)))
		assert.True(t, resp.CurrentStock.IsZero())
		assert.Equal(t, "active", resp.Status)
		repo.AssertExpectations(t)
	})

	t.Run("rejects duplicate product code", func(t *testing.T) {
		repo := new(MockProductRepository)
		service := NewProductService(repo)

		existing, err := catalog.NewProduct("TRF-100", "Transformer", "Nos")
		require.NoError(t, err)
		repo.On("FindByCode", ctx, "TRF-100").Return(existing, nil)

		_, err = service.Create(ctx, CreateProductRequest{
			ProductCode: "TRF-100",
			Name:        "Another Transformer",
			Unit:        "Nos",
		})

		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects invalid product code", func(t *testing.T) {
		repo := new(MockProductRepository)
		service := NewProductService(repo)

		repo.On("FindByCode", ctx, "TRF 100").Return(nil, shared.ErrNotFound)

		_, err := service.Create(ctx, CreateProductRequest{
			ProductCode: "TRF 100",
			Name:        "Transformer",
			Unit:        "Nos",
		})

		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "INVALID_CODE", domainErr.Code)
	})
}

func TestProductService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("updates only provided fields", func(t *testing.T) {
		repo := new(MockProductRepository)
		service := NewProductService(repo)

		product, err := catalog.NewProduct("TRF-100", "Transformer", "Nos")
		require.NoError(t, err)
		require.NoError(t, product.SetRate(decimal.NewFromInt(250000)))

		repo.On("FindByID", ctx, product.ID).Return(product, nil)
		repo.On("SaveWithLock", ctx, product).Return(nil)

		newName := "Distribution Transformer 100kVA"
		newMinStock := decimal.NewFromInt(3)
		resp, err := service.Update(ctx, product.ID, UpdateProductRequest{
			Name:     &newName,
			MinStock: &newMinStock,
		})

		require.NoError(t, err)
		assert.Equal(t, newName, resp.Name)
		assert.True(t, resp.MinStock.Equal(newMinStock))
		assert.True(t, resp.Rate.Equal(decimal.NewFromInt(250000)))
		repo.AssertExpectations(t)
	})

	t.Run("deactivates via status", func(t *testing.T) {
		repo := new(MockProductRepository)
		service := NewProductService(repo)

		product, err := catalog.NewProduct("TRF-100", "Transformer", "Nos")
		require.NoError(t, err)

		repo.On("FindByID", ctx, product.ID).Return(product, nil)
		repo.On("SaveWithLock", ctx, product).Return(nil)

		status := "inactive"
		resp, err := service.Update(ctx, product.ID, UpdateProductRequest{Status: &status})

		require.NoError(t, err)
		assert.Equal(t, "inactive", resp.Status)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		repo := new(MockProductRepository)
		service := NewProductService(repo)

		product, err := catalog.NewProduct("TRF-100", "Transformer", "Nos")
		require.NoError(t, err)

		repo.On("FindByID", ctx, product.ID).Return(product, nil)

		status := "archived"
		_, err = service.Update(ctx, product.ID, UpdateProductRequest{Status: &status})

		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "INVALID_STATUS", domainErr.Code)
		repo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})
}

func TestProductService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("applies default pagination and ordering", func(t *testing.T) {
		repo := new(MockProductRepository)
		service := NewProductService(repo)

		product, err := catalog.NewProduct("TRF-100", "Transformer", "Nos")
		require.NoError(t, err)

		repo.On("FindAll", ctx, mock.MatchedBy(func(f shared.Filter) bool {
			return f.Page == 1 && f.PageSize == 20 && f.OrderBy == "product_code" && f.OrderDir == "asc"
		})).Return([]catalog.Product{*product}, int64(1), nil)

		responses, total, err := service.List(ctx, ProductListFilter{})

		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, responses, 1)
		assert.Equal(t, "TRF-100", responses[0].ProductCode)
	})

	t.Run("passes status filter through", func(t *testing.T) {
		repo := new(MockProductRepository)
		service := NewProductService(repo)

		repo.On("FindAll", ctx, mock.MatchedBy(func(f shared.Filter) bool {
			return f.Filters["status"] == "inactive"
		})).Return([]catalog.Product{}, int64(0), nil)

		_, _, err := service.List(ctx, ProductListFilter{Status: "inactive"})
		require.NoError(t, err)
	})
}

func TestProductService_ListLowStock(t *testing.T) {
	ctx := context.Background()

	repo := new(MockProductRepository)
	service := NewProductService(repo)

	product, err := catalog.NewProduct("CBL-11KV", "11kV Cable", "Mtr")
	require.NoError(t, err)
	require.NoError(t, product.SetMinStock(decimal.NewFromInt(100)))
	require.NoError(t, product.AddStock(decimal.NewFromInt(40)))

	repo.On("FindBelowMinStock", ctx).Return([]catalog.Product{*product}, nil)

	responses, err := service.ListLowStock(ctx)

	require.NoError(t, err)
	require.Len(t, responses, 1)
	assert.True(t, responses[0].BelowMin)
	assert.True(t, responses[0].CurrentStock.Equal(decimal.NewFromInt(40)))
}
