package partner

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/retailops/backend/internal/domain/partner"
	"github.com/retailops/backend/internal/domain/shared"
)

// CustomerService handles customer use cases
type CustomerService struct {
	repo   partner.CustomerRepository
	logger *zap.Logger
}

// NewCustomerService creates a new customer service
func NewCustomerService(repo partner.CustomerRepository, logger *zap.Logger) *CustomerService {
	return &CustomerService{
		repo:   repo,
		logger: logger,
	}
}

// Create registers a new customer. Phone numbers are unique across the store.
func (s *CustomerService) Create(ctx context.Context, req CreateCustomerRequest) (*CustomerResponse, error) {
	exists, err := s.repo.ExistsByPhone(ctx, req.Phone)
	if err != nil {
		return nil, fmt.Errorf("failed to check phone uniqueness: %w", err)
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A customer with this phone number already exists")
	}

	customer, err := partner.NewCustomer(req.Name, req.Phone)
	if err != nil {
		return nil, err
	}
	if req.Email != "" {
		if err := customer.SetEmail(req.Email); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Save(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to save customer: %w", err)
	}

	s.logger.Info("customer created",
		zap.String("customer_id", customer.ID.String()),
		zap.String("phone", customer.Phone),
	)

	response := ToCustomerResponse(customer)
	return &response, nil
}

// Get returns a customer by ID
func (s *CustomerService) Get(ctx context.Context, id uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

// List returns customers matching the filter, paginated
func (s *CustomerService) List(ctx context.Context, filter CustomerListFilter) (*shared.Paginated[CustomerResponse], error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 && filter.PageSize <= 100 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	domainFilter.Search = filter.Search
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	customers, err := s.repo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}

	total, err := s.repo.Count(ctx, domainFilter)
	if err != nil {
		return nil, fmt.Errorf("failed to count customers: %w", err)
	}

	result := shared.NewPaginated(ToCustomerResponses(customers), total, domainFilter.Page, domainFilter.PageSize)
	return &result, nil
}

// Update modifies an existing customer
func (s *CustomerService) Update(ctx context.Context, id uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name := customer.Name
	if req.Name != nil {
		name = *req.Name
	}
	phone := customer.Phone
	if req.Phone != nil {
		phone = *req.Phone
	}

	if phone != customer.Phone {
		exists, err := s.repo.ExistsByPhone(ctx, phone)
		if err != nil {
			return nil, fmt.Errorf("failed to check phone uniqueness: %w", err)
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "A customer with this phone number already exists")
		}
	}

	if err := customer.Update(name, phone); err != nil {
		return nil, err
	}
	if req.Email != nil {
		if err := customer.SetEmail(*req.Email); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Save(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to save customer: %w", err)
	}

	s.logger.Info("customer updated", zap.String("customer_id", customer.ID.String()))

	response := ToCustomerResponse(customer)
	return &response, nil
}

// Delete removes a customer. Orders that reference the customer lose their
// attribution and are skipped by sales reports.
func (s *CustomerService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}

	s.logger.Info("customer deleted", zap.String("customer_id", id.String()))
	return nil
}
