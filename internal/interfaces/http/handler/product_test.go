package handler

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	catalogapp "github.com/retailops/backend/internal/application/catalog"
	"github.com/retailops/backend/internal/domain/catalog"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/retailops/backend/internal/interfaces/http/dto"
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

// fakeImageStorage records the last stored object and returns a stable URL
type fakeImageStorage struct {
	lastKey         string
	lastContentType string
}

func (f *fakeImageStorage) Put(_ context.Context, key, contentType string, body io.Reader) (string, error) {
	f.lastKey = key
	f.lastContentType = contentType
	_, _ = io.Copy(io.Discard, body)
	return "https://storage.example.com/" + key, nil
}

var _ catalogapp.ImageStorage = (*fakeImageStorage)(nil)

func newProductRouter(repo *MockProductRepository, storage catalogapp.ImageStorage) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	service := catalogapp.NewProductService(repo, storage, zap.NewNop())
	NewProductHandler(service).RegisterRoutes(engine.Group("/api/v1"))
	return engine
}

func testProduct(t *testing.T, name string, price string, quantity int) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(name, decimal.RequireFromString(price), quantity)
	require.NoError(t, err)
	return product
}

func TestProductHandler_AdjustQuantity(t *testing.T) {
	repo := new(MockProductRepository)
	router := newProductRouter(repo, &fakeImageStorage{})

	product := testProduct(t, "Keyboard", "49.90", 10)
	repo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	repo.On("Save", mock.Anything, product).Return(nil)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/products/"+product.ID.String()+"/quantity",
		bytes.NewBufferString(`{"delta":-4}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(6), data["quantity"])
	repo.AssertExpectations(t)
}

func TestProductHandler_AdjustQuantity_InsufficientStock(t *testing.T) {
	repo := new(MockProductRepository)
	router := newProductRouter(repo, &fakeImageStorage{})

	product := testProduct(t, "Keyboard", "49.90", 3)
	repo.On("FindByID", mock.Anything, product.ID).Return(product, nil)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/products/"+product.ID.String()+"/quantity",
		bytes.NewBufferString(`{"delta":-5}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeInsufficientStock, resp.Error.Code)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestProductHandler_ListLowStock(t *testing.T) {
	repo := new(MockProductRepository)
	router := newProductRouter(repo, &fakeImageStorage{})

	scarce := testProduct(t, "Scarce", "9.90", 1)
	repo.On("FindLowStock", mock.Anything, 3).Return([]catalog.Product{*scarce}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/low-stock?threshold=3", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	items := resp.Data.([]interface{})
	require.Len(t, items, 1)
	repo.AssertExpectations(t)
}

func TestProductHandler_ListLowStock_InvalidThreshold(t *testing.T) {
	repo := new(MockProductRepository)
	router := newProductRouter(repo, &fakeImageStorage{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/low-stock?threshold=abc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	repo.AssertNotCalled(t, "FindLowStock", mock.Anything, mock.Anything)
}

func multipartImage(t *testing.T, fieldContentType string, payload []byte) (*bytes.Buffer, string) {
	t.Helper()
	buf := new(bytes.Buffer)
	writer := multipart.NewWriter(buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="image"; filename="photo"`)
	header.Set("Content-Type", fieldContentType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(payload)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	return buf, writer.FormDataContentType()
}

func TestProductHandler_UploadImage(t *testing.T) {
	repo := new(MockProductRepository)
	storage := &fakeImageStorage{}
	router := newProductRouter(repo, storage)

	product := testProduct(t, "Keyboard", "49.90", 10)
	repo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	repo.On("Save", mock.Anything, product).Return(nil)

	body, contentType := multipartImage(t, "image/png", []byte("not-a-real-png"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products/"+product.ID.String()+"/image", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", storage.lastContentType)
	assert.Equal(t, "products/"+product.ID.String()+".png", storage.lastKey)
	resp := decodeResponse(t, rec)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "https://storage.example.com/"+storage.lastKey, data["image_url"])
}

func TestProductHandler_UploadImage_UnsupportedType(t *testing.T) {
	repo := new(MockProductRepository)
	router := newProductRouter(repo, &fakeImageStorage{})

	productID := uuid.New()
	body, contentType := multipartImage(t, "text/plain", []byte("hello"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products/"+productID.String()+"/image", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeUnsupportedMediaType, resp.Error.Code)
	repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestProductHandler_Delete(t *testing.T) {
	repo := new(MockProductRepository)
	router := newProductRouter(repo, &fakeImageStorage{})

	product := testProduct(t, "Keyboard", "49.90", 10)
	repo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	repo.On("Delete", mock.Anything, product.ID).Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/products/"+product.ID.String(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	repo.AssertExpectations(t)
}
