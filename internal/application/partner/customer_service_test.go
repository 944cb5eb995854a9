package partner

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/retailops/backend/internal/domain/partner"
	"github.com/retailops/backend/internal/domain/shared"
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

func newCustomerService(repo *MockCustomerRepository) *CustomerService {
	return NewCustomerService(repo, zap.NewNop())
}

func TestCustomerService_Create(t *testing.T) {
	repo := new(MockCustomerRepository)
	service := newCustomerService(repo)
	ctx := context.Background()

	repo.On("ExistsByPhone", ctx, "13800138000").Return(false, nil)
	repo.On("Save", ctx, mock.AnythingOfType("*partner.Customer")).Return(nil)

	resp, err := service.Create(ctx, CreateCustomerRequest{
		Name:  "Grace Hopper",
		Phone: "13800138000",
		Email: "grace@example.com",
	})

	assert.NoError(t, err)
	assert.Equal(t, "Grace Hopper", resp.Name)
	assert.Equal(t, "13800138000", resp.Phone)
	assert.Equal(t, "grace@example.com", resp.Email)
	assert.Equal(t, "active", resp.Status)
	repo.AssertExpectations(t)
}

func TestCustomerService_Create_DuplicatePhone(t *testing.T) {
	repo := new(MockCustomerRepository)
	service := newCustomerService(repo)
	ctx := context.Background()

	repo.On("ExistsByPhone", ctx, "13800138000").Return(true, nil)

	_, err := service.Create(ctx, CreateCustomerRequest{
		Name:  "Grace Hopper",
		Phone: "13800138000",
	})

	assert.Error(t, err)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCustomerService_Create_InvalidPhone(t *testing.T) {
	repo := new(MockCustomerRepository)
	service := newCustomerService(repo)
	ctx := context.Background()

	repo.On("ExistsByPhone", ctx, "nope").Return(false, nil)

	_, err := service.Create(ctx, CreateCustomerRequest{
		Name:  "Grace Hopper",
		Phone: "nope",
	})

	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_PHONE", domainErr.Code)
}

func TestCustomerService_Get_NotFound(t *testing.T) {
	repo := new(MockCustomerRepository)
	service := newCustomerService(repo)
	ctx := context.Background()
	id := uuid.New()

	repo.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

	_, err := service.Get(ctx, id)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestCustomerService_List_Defaults(t *testing.T) {
	repo := new(MockCustomerRepository)
	service := newCustomerService(repo)
	ctx := context.Background()

	customer, err := partner.NewCustomer("Grace Hopper", "13800138000")
	assert.NoError(t, err)

	repo.On("FindAll", ctx, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Page == 1 && f.PageSize == 20
	})).Return([]partner.Customer{*customer}, nil)
	repo.On("Count", ctx, mock.Anything).Return(int64(1), nil)

	result, err := service.List(ctx, CustomerListFilter{})
	assert.NoError(t, err)
	assert.Len(t, result.Items, 1)
	assert.Equal(t, int64(1), result.Total)
	assert.Equal(t, 1, result.TotalPages)
}

func TestCustomerService_Update_PhoneConflict(t *testing.T) {
	repo := new(MockCustomerRepository)
	service := newCustomerService(repo)
	ctx := context.Background()

	customer, err := partner.NewCustomer("Grace Hopper", "13800138000")
	assert.NoError(t, err)

	newPhone := "13900139000"
	repo.On("FindByID", ctx, customer.ID).Return(customer, nil)
	repo.On("ExistsByPhone", ctx, newPhone).Return(true, nil)

	_, err = service.Update(ctx, customer.ID, UpdateCustomerRequest{Phone: &newPhone})

	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
}

func TestCustomerService_Update_KeepsUnsetFields(t *testing.T) {
	repo := new(MockCustomerRepository)
	service := newCustomerService(repo)
	ctx := context.Background()

	customer, err := partner.NewCustomer("Grace Hopper", "13800138000")
	assert.NoError(t, err)

	newName := "Grace B. Hopper"
	repo.On("FindByID", ctx, customer.ID).Return(customer, nil)
	repo.On("Save", ctx, mock.AnythingOfType("*partner.Customer")).Return(nil)

	resp, err := service.Update(ctx, customer.ID, UpdateCustomerRequest{Name: &newName})
	assert.NoError(t, err)
	assert.Equal(t, "Grace B. Hopper", resp.Name)
	assert.Equal(t, "13800138000", resp.Phone)
	repo.AssertNotCalled(t, "ExistsByPhone", mock.Anything, mock.Anything)
}

func TestCustomerService_Delete(t *testing.T) {
	repo := new(MockCustomerRepository)
	service := newCustomerService(repo)
	ctx := context.Background()

	customer, err := partner.NewCustomer("Grace Hopper", "13800138000")
	assert.NoError(t, err)

	repo.On("FindByID", ctx, customer.ID).Return(customer, nil)
	repo.On("Delete", ctx, customer.ID).Return(nil)

	assert.NoError(t, service.Delete(ctx, customer.ID))
	repo.AssertExpectations(t)
}
