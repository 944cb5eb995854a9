package trade

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/retailops/backend/internal/domain/catalog"
	"github.com/retailops/backend/internal/domain/partner"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/retailops/backend/internal/domain/trade"
)

// OrderService handles order use cases. Orders are immutable once placed;
// there is no update operation.
type OrderService struct {
	orders    trade.OrderRepository
	customers partner.CustomerRepository
	products  catalog.ProductRepository
	logger    *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(
	orders trade.OrderRepository,
	customers partner.CustomerRepository,
	products catalog.ProductRepository,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orders:    orders,
		customers: customers,
		products:  products,
		logger:    logger,
	}
}

// Create places an order for a customer. Each line freezes the product's
// current price and deducts its quantity from stock.
func (s *OrderService) Create(ctx context.Context, req CreateOrderRequest) (*OrderResponse, error) {
	if _, err := s.customers.FindByID(ctx, req.CustomerID); err != nil {
		return nil, err
	}

	items := make([]trade.OrderItem, 0, len(req.Items))
	adjusted := make([]*catalog.Product, 0, len(req.Items))
	for _, line := range req.Items {
		product, err := s.products.FindByID(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		if err := product.AdjustQuantity(-line.Quantity); err != nil {
			return nil, err
		}

		item, err := trade.NewOrderItem(product.ID, line.Quantity, product.Price)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
		adjusted = append(adjusted, product)
	}

	order, err := trade.NewOrder(req.CustomerID, items)
	if err != nil {
		return nil, err
	}

	if err := s.orders.Save(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to save order: %w", err)
	}

	for _, product := range adjusted {
		if err := s.products.Save(ctx, product); err != nil {
			return nil, fmt.Errorf("failed to update stock for product %s: %w", product.ID, err)
		}
	}

	s.logger.Info("order placed",
		zap.String("order_id", order.ID.String()),
		zap.String("customer_id", order.CustomerID.String()),
		zap.String("total_price", order.TotalPrice.String()),
		zap.Int("lines", len(order.Items)),
	)

	response := ToOrderResponse(order)
	return &response, nil
}

// Get returns an order with its lines by ID
func (s *OrderService) Get(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// List returns orders matching the filter, paginated
func (s *OrderService) List(ctx context.Context, filter OrderListFilter) (*shared.Paginated[OrderResponse], error) {
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

	orders, err := s.orders.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	total, err := s.orders.Count(ctx, domainFilter)
	if err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	result := shared.NewPaginated(ToOrderResponses(orders), total, domainFilter.Page, domainFilter.PageSize)
	return &result, nil
}
