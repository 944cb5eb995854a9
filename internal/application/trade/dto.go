package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailops/backend/internal/domain/trade"
)

// CreateOrderItemRequest is one requested line of a new order
type CreateOrderItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

// CreateOrderRequest is the input for placing an order
type CreateOrderRequest struct {
	CustomerID uuid.UUID                `json:"customer_id" binding:"required"`
	Items      []CreateOrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// OrderListFilter holds list query options
type OrderListFilter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
}

// OrderItemResponse is the outward representation of an order line
type OrderItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	Quantity    int             `json:"quantity"`
	PriceAtTime decimal.Decimal `json:"price_at_time"`
	Amount      decimal.Decimal `json:"amount"`
}

// OrderResponse is the outward representation of an order
type OrderResponse struct {
	ID         uuid.UUID           `json:"id"`
	CustomerID uuid.UUID           `json:"customer_id"`
	TotalPrice decimal.Decimal     `json:"total_price"`
	Items      []OrderItemResponse `json:"items"`
	CreatedAt  time.Time           `json:"created_at"`
}

// ToOrderResponse maps an order aggregate to its response DTO
func ToOrderResponse(o *trade.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i := range o.Items {
		items[i] = OrderItemResponse{
			ID:          o.Items[i].ID,
			ProductID:   o.Items[i].ProductID,
			Quantity:    o.Items[i].Quantity,
			PriceAtTime: o.Items[i].PriceAtTime,
			Amount:      o.Items[i].Amount,
		}
	}
	return OrderResponse{
		ID:         o.ID,
		CustomerID: o.CustomerID,
		TotalPrice: o.TotalPrice,
		Items:      items,
		CreatedAt:  o.CreatedAt,
	}
}

// ToOrderResponses maps a slice of orders to response DTOs
func ToOrderResponses(orders []trade.Order) []OrderResponse {
	responses := make([]OrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToOrderResponse(&orders[i])
	}
	return responses
}
