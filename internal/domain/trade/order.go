package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailops/backend/internal/domain/shared"
)

// OrderItem is a line within an order. PriceAtTime is frozen at the moment
// of sale and is never re-read from the product's current price.
type OrderItem struct {
	shared.BaseEntity
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity    int             `gorm:"not null"`
	PriceAtTime decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// NewOrderItem creates an order line with the amount derived from
// quantity and the frozen unit price
func NewOrderItem(productID uuid.UUID, quantity int, priceAtTime decimal.Decimal) (*OrderItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Order item requires a product")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Order item quantity must be positive")
	}
	if priceAtTime.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Order item price cannot be negative")
	}

	qty := decimal.NewFromInt(int64(quantity))
	return &OrderItem{
		BaseEntity:  shared.NewBaseEntity(),
		ProductID:   productID,
		Quantity:    quantity,
		PriceAtTime: priceAtTime,
		Amount:      priceAtTime.Mul(qty),
	}, nil
}

// Order is the aggregate root for a completed sale. Orders are immutable
// once created; reporting folds them into time buckets.
type Order struct {
	shared.BaseAggregateRoot
	CustomerID uuid.UUID       `gorm:"type:uuid;not null;index"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Items      []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates an order for a customer from its line items. The order
// total is the sum of the line amounts. An order may legally have zero
// lines (for example a manual adjustment sale); it then carries only its
// total price.
func NewOrder(customerID uuid.UUID, items []OrderItem) (*Order, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Order requires a customer")
	}

	order := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerID:        customerID,
		TotalPrice:        decimal.Zero,
		Items:             make([]OrderItem, 0, len(items)),
	}

	for i := range items {
		items[i].OrderID = order.ID
		order.Items = append(order.Items, items[i])
	}
	order.recalculateTotal()

	order.AddDomainEvent(NewOrderPlacedEvent(order))

	return order, nil
}

// NewOrderWithTotal creates a zero-line order carrying an explicit total
func NewOrderWithTotal(customerID uuid.UUID, totalPrice decimal.Decimal) (*Order, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Order requires a customer")
	}
	if totalPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Order total cannot be negative")
	}

	order := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerID:        customerID,
		TotalPrice:        totalPrice,
		Items:             make([]OrderItem, 0),
	}

	order.AddDomainEvent(NewOrderPlacedEvent(order))

	return order, nil
}

// PlacedAt returns the sale timestamp used for report bucketing
func (o *Order) PlacedAt() time.Time {
	return o.CreatedAt
}

func (o *Order) recalculateTotal() {
	total := decimal.Zero
	for i := range o.Items {
		total = total.Add(o.Items[i].Amount)
	}
	o.TotalPrice = total
}
