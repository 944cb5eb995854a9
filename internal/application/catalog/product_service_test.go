package catalog

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/retailops/backend/internal/domain/catalog"
	"github.com/retailops/backend/internal/domain/shared"
)

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

var _ catalog.ProductRepository = (*MockProductRepository)(nil)

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByName(ctx context.Context, name string) (*catalog.Product, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindLowStock(ctx context.Context, threshold int) ([]catalog.Product, error) {
	args := m.Called(ctx, threshold)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

// MockImageStorage is a mock implementation of ImageStorage
type MockImageStorage struct {
	mock.Mock
}

var _ ImageStorage = (*MockImageStorage)(nil)

func (m *MockImageStorage) Put(ctx context.Context, key string, contentType string, body io.Reader) (string, error) {
	args := m.Called(ctx, key, contentType, body)
	return args.String(0), args.Error(1)
}

func newProductService(repo *MockProductRepository, storage *MockImageStorage) *ProductService {
	return NewProductService(repo, storage, zap.NewNop())
}

func TestProductService_Create(t *testing.T) {
	repo := new(MockProductRepository)
	service := newProductService(repo, new(MockImageStorage))
	ctx := context.Background()

	repo.On("ExistsByName", ctx, "Widget").Return(false, nil)
	repo.On("Save", ctx, mock.AnythingOfType("*catalog.Product")).Return(nil)

	resp, err := service.Create(ctx, CreateProductRequest{
		Name:     "Widget",
		Price:    decimal.RequireFromString("19.99"),
		Quantity: 10,
	})

	assert.NoError(t, err)
	assert.Equal(t, "Widget", resp.Name)
	assert.True(t, resp.Price.Equal(decimal.RequireFromString("19.99")))
	assert.Equal(t, 10, resp.Quantity)
	repo.AssertExpectations(t)
}

func TestProductService_Create_DuplicateName(t *testing.T) {
	repo := new(MockProductRepository)
	service := newProductService(repo, new(MockImageStorage))
	ctx := context.Background()

	repo.On("ExistsByName", ctx, "Widget").Return(true, nil)

	_, err := service.Create(ctx, CreateProductRequest{Name: "Widget"})

	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestProductService_AdjustQuantity(t *testing.T) {
	repo := new(MockProductRepository)
	service := newProductService(repo, new(MockImageStorage))
	ctx := context.Background()

	product, err := catalog.NewProduct("Widget", decimal.RequireFromString("19.99"), 10)
	assert.NoError(t, err)

	repo.On("FindByID", ctx, product.ID).Return(product, nil)
	repo.On("Save", ctx, mock.AnythingOfType("*catalog.Product")).Return(nil)

	resp, err := service.AdjustQuantity(ctx, product.ID, -3)
	assert.NoError(t, err)
	assert.Equal(t, 7, resp.Quantity)
}

func TestProductService_AdjustQuantity_InsufficientStock(t *testing.T) {
	repo := new(MockProductRepository)
	service := newProductService(repo, new(MockImageStorage))
	ctx := context.Background()

	product, err := catalog.NewProduct("Widget", decimal.RequireFromString("19.99"), 2)
	assert.NoError(t, err)

	repo.On("FindByID", ctx, product.ID).Return(product, nil)

	_, err = service.AdjustQuantity(ctx, product.ID, -5)
	assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestProductService_ListLowStock_DefaultThreshold(t *testing.T) {
	repo := new(MockProductRepository)
	service := newProductService(repo, new(MockImageStorage))
	ctx := context.Background()

	product, err := catalog.NewProduct("Widget", decimal.RequireFromString("19.99"), 2)
	assert.NoError(t, err)

	repo.On("FindLowStock", ctx, catalog.DefaultLowStockThreshold).Return([]catalog.Product{*product}, nil)

	resp, err := service.ListLowStock(ctx, 0)
	assert.NoError(t, err)
	assert.Len(t, resp, 1)
	assert.Equal(t, "Widget", resp[0].Name)
}

func TestProductService_UploadImage(t *testing.T) {
	repo := new(MockProductRepository)
	storage := new(MockImageStorage)
	service := newProductService(repo, storage)
	ctx := context.Background()

	product, err := catalog.NewProduct("Widget", decimal.RequireFromString("19.99"), 10)
	assert.NoError(t, err)

	expectedKey := "products/" + product.ID.String() + ".png"
	repo.On("FindByID", ctx, product.ID).Return(product, nil)
	storage.On("Put", ctx, expectedKey, "image/png", mock.Anything).
		Return("https://cdn.example.com/"+expectedKey, nil)
	repo.On("Save", ctx, mock.AnythingOfType("*catalog.Product")).Return(nil)

	resp, err := service.UploadImage(ctx, product.ID, "image/png", strings.NewReader("fake-png"))
	assert.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/"+expectedKey, resp.ImageURL)
	storage.AssertExpectations(t)
}

func TestProductService_UploadImage_UnsupportedType(t *testing.T) {
	repo := new(MockProductRepository)
	storage := new(MockImageStorage)
	service := newProductService(repo, storage)
	ctx := context.Background()

	_, err := service.UploadImage(ctx, uuid.New(), "application/pdf", strings.NewReader("nope"))

	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "UNSUPPORTED_MEDIA_TYPE", domainErr.Code)
	repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}
