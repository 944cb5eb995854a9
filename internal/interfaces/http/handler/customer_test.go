package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	partnerapp "github.com/retailops/backend/internal/application/partner"
	"github.com/retailops/backend/internal/domain/partner"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/retailops/backend/internal/interfaces/http/dto"
)

// MockCustomerRepository is a mock implementation of partner.CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

var _ partner.CustomerRepository = (*MockCustomerRepository)(nil)

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByPhone(ctx context.Context, phone string) (*partner.Customer, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Customer, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCustomerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCustomerRepository) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	args := m.Called(ctx, phone)
	return args.Bool(0), args.Error(1)
}

func newCustomerRouter(repo *MockCustomerRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	service := partnerapp.NewCustomerService(repo, zap.NewNop())
	NewCustomerHandler(service).RegisterRoutes(engine.Group("/api/v1"))
	return engine
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestCustomerHandler_Create(t *testing.T) {
	repo := new(MockCustomerRepository)
	router := newCustomerRouter(repo)

	repo.On("ExistsByPhone", mock.Anything, "13800138000").Return(false, nil)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*partner.Customer")).Return(nil)

	body := `{"name":"Grace Hopper","phone":"13800138000","email":"grace@example.com"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/customers", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeResponse(t, rec)
	assert.True(t, resp.Success)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "Grace Hopper", data["name"])
	repo.AssertExpectations(t)
}

func TestCustomerHandler_Create_MissingName(t *testing.T) {
	repo := new(MockCustomerRepository)
	router := newCustomerRouter(repo)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/customers", bytes.NewBufferString(`{"phone":"13800138000"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCustomerHandler_GetByID_NotFound(t *testing.T) {
	repo := new(MockCustomerRepository)
	router := newCustomerRouter(repo)

	customerID := uuid.New()
	repo.On("FindByID", mock.Anything, customerID).Return(nil, shared.ErrNotFound)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/customers/"+customerID.String(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeNotFound, resp.Error.Code)
}

func TestCustomerHandler_GetByID_InvalidID(t *testing.T) {
	repo := new(MockCustomerRepository)
	router := newCustomerRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/customers/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestCustomerHandler_List(t *testing.T) {
	repo := new(MockCustomerRepository)
	router := newCustomerRouter(repo)

	alice, err := partner.NewCustomer("Alice", "13800138001")
	require.NoError(t, err)
	bob, err := partner.NewCustomer("Bob", "13800138002")
	require.NoError(t, err)

	repo.On("FindAll", mock.Anything, mock.Anything).Return([]partner.Customer{*alice, *bob}, nil)
	repo.On("Count", mock.Anything, mock.Anything).Return(int64(41), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/customers?page=1&page_size=20", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(41), resp.Meta.Total)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}

func TestCustomerHandler_List_InvalidStatus(t *testing.T) {
	repo := new(MockCustomerRepository)
	router := newCustomerRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/customers?status=archived", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	repo.AssertNotCalled(t, "FindAll", mock.Anything, mock.Anything)
}

func TestCustomerHandler_Delete(t *testing.T) {
	repo := new(MockCustomerRepository)
	router := newCustomerRouter(repo)

	customer, err := partner.NewCustomer("Grace Hopper", "13800138000")
	require.NoError(t, err)

	repo.On("FindByID", mock.Anything, customer.ID).Return(customer, nil)
	repo.On("Delete", mock.Anything, customer.ID).Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/customers/"+customer.ID.String(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	repo.AssertExpectations(t)
}
