package catalog

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/retailops/backend/internal/domain/shared"
)

// DefaultLowStockThreshold is the stock quantity at or below which a
// product is considered low on stock
const DefaultLowStockThreshold = 5

// ProductStatus represents the status of a product
type ProductStatus string

const (
	ProductStatusActive       ProductStatus = "active"
	ProductStatusDiscontinued ProductStatus = "discontinued"
)

// Product represents a sellable item. It is the aggregate root for
// catalog operations; reports only read its name, price and image.
type Product struct {
	shared.BaseAggregateRoot
	Name     string          `gorm:"type:varchar(200);not null;uniqueIndex"`
	Price    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	ImageURL string          `gorm:"type:text"`
	Quantity int             `gorm:"not null;default:0"`
	Status   ProductStatus   `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product
func NewProduct(name string, price decimal.Decimal, quantity int) (*Product, error) {
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Product price cannot be negative")
	}
	if quantity < 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Product quantity cannot be negative")
	}

	product := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		Price:             price,
		Quantity:          quantity,
		Status:            ProductStatusActive,
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// Update updates the product's name
func (p *Product) Update(name string) error {
	if err := validateProductName(name); err != nil {
		return err
	}

	p.Name = strings.TrimSpace(name)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductUpdatedEvent(p))

	return nil
}

// SetPrice updates the selling price. Past order lines are not affected:
// they keep the price frozen at the time of sale.
func (p *Product) SetPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Product price cannot be negative")
	}

	oldPrice := p.Price
	p.Price = price
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductPriceChangedEvent(p, oldPrice))

	return nil
}

// SetImageURL sets the stored image location for the product
func (p *Product) SetImageURL(url string) {
	p.ImageURL = url
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// SetQuantity replaces the stock quantity
func (p *Product) SetQuantity(quantity int) error {
	if quantity < 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Product quantity cannot be negative")
	}

	p.Quantity = quantity
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductStockAdjustedEvent(p))

	return nil
}

// AdjustQuantity applies a relative stock change (negative for sales)
func (p *Product) AdjustQuantity(delta int) error {
	if p.Quantity+delta < 0 {
		return shared.ErrInsufficientStock
	}

	p.Quantity += delta
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductStockAdjustedEvent(p))

	return nil
}

// Discontinue marks a product as no longer sold
func (p *Product) Discontinue() error {
	if p.Status == ProductStatusDiscontinued {
		return shared.NewDomainError("INVALID_STATE", "Product is already discontinued")
	}

	p.Status = ProductStatusDiscontinued
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// IsLowStock returns true if the quantity is at or below the threshold
func (p *Product) IsLowStock(threshold int) bool {
	return p.Quantity <= threshold
}

func validateProductName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}
