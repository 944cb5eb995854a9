package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/retailops/backend/internal/domain/report"
)

// GormSalesReader reads order projections for the reporting engine. Orders
// whose customer no longer exists are dropped by the inner join; lines whose
// product no longer exists are dropped the same way.
type GormSalesReader struct {
	db *gorm.DB
}

// NewGormSalesReader creates a new GormSalesReader
func NewGormSalesReader(db *gorm.DB) *GormSalesReader {
	return &GormSalesReader{db: db}
}

var _ report.SalesReader = (*GormSalesReader)(nil)

type orderRow struct {
	ID            uuid.UUID
	TotalPrice    decimal.Decimal
	CreatedAt     time.Time
	CustomerName  string
	CustomerPhone string
}

type lineRow struct {
	OrderID     uuid.UUID
	ProductName string
	Quantity    int
	PriceAtTime decimal.Decimal
	Amount      decimal.Decimal
}

// FetchOrders returns the orders placed in [from, to] ascending by placement
// time, each with its attributed customer and nested lines
func (r *GormSalesReader) FetchOrders(ctx context.Context, from, to time.Time) ([]report.OrderRecord, error) {
	var orderRows []orderRow
	if err := r.db.WithContext(ctx).
		Table("orders").
		Select("orders.id, orders.total_price, orders.created_at, customers.name AS customer_name, customers.phone AS customer_phone").
		Joins("INNER JOIN customers ON customers.id = orders.customer_id").
		Where("orders.created_at >= ? AND orders.created_at <= ?", from, to).
		Order("orders.created_at ASC").
		Scan(&orderRows).Error; err != nil {
		return nil, err
	}

	if len(orderRows) == 0 {
		return []report.OrderRecord{}, nil
	}

	orderIDs := make([]uuid.UUID, len(orderRows))
	for i, row := range orderRows {
		orderIDs[i] = row.ID
	}

	var lineRows []lineRow
	if err := r.db.WithContext(ctx).
		Table("order_items").
		Select("order_items.order_id, products.name AS product_name, order_items.quantity, order_items.price_at_time, order_items.amount").
		Joins("INNER JOIN products ON products.id = order_items.product_id").
		Where("order_items.order_id IN ?", orderIDs).
		Order("order_items.created_at ASC").
		Scan(&lineRows).Error; err != nil {
		return nil, err
	}

	linesByOrder := make(map[uuid.UUID][]report.OrderLine, len(orderRows))
	for _, row := range lineRows {
		linesByOrder[row.OrderID] = append(linesByOrder[row.OrderID], report.OrderLine{
			ProductName: row.ProductName,
			Quantity:    row.Quantity,
			PriceAtTime: row.PriceAtTime,
			Amount:      row.Amount,
		})
	}

	records := make([]report.OrderRecord, len(orderRows))
	for i, row := range orderRows {
		records[i] = report.OrderRecord{
			OrderID:       row.ID,
			TotalPrice:    row.TotalPrice,
			PlacedAt:      row.CreatedAt,
			CustomerName:  row.CustomerName,
			CustomerPhone: row.CustomerPhone,
			Lines:         linesByOrder[row.ID],
		}
	}
	return records, nil
}
