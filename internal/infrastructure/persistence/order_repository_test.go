package persistence

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailops/backend/internal/domain/partner"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/retailops/backend/internal/domain/trade"
)

func TestGormOrderRepository_SaveAndFindWithItems(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	customerRepo := NewGormCustomerRepository(db)
	productRepo := NewGormProductRepository(db)
	orderRepo := NewGormOrderRepository(db)

	customer, err := partner.NewCustomer("Grace Hopper", "13800138000")
	require.NoError(t, err)
	require.NoError(t, customerRepo.Save(ctx, customer))

	widget := seedProduct(t, productRepo, "Widget", "10.00", 100)

	line, err := trade.NewOrderItem(widget.ID, 3, widget.Price)
	require.NoError(t, err)

	order, err := trade.NewOrder(customer.ID, []trade.OrderItem{*line})
	require.NoError(t, err)
	require.NoError(t, orderRepo.Save(ctx, order))

	found, err := orderRepo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, found.TotalPrice.Equal(decimal.RequireFromString("30.00")))
	require.Len(t, found.Items, 1)
	assert.Equal(t, widget.ID, found.Items[0].ProductID)
	assert.Equal(t, 3, found.Items[0].Quantity)
}

func TestGormOrderRepository_FilterByCustomer(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	customerRepo := NewGormCustomerRepository(db)
	orderRepo := NewGormOrderRepository(db)

	first, err := partner.NewCustomer("First", "13800138001")
	require.NoError(t, err)
	require.NoError(t, customerRepo.Save(ctx, first))

	second, err := partner.NewCustomer("Second", "13800138002")
	require.NoError(t, err)
	require.NoError(t, customerRepo.Save(ctx, second))

	for _, c := range []*partner.Customer{first, first, second} {
		order, err := trade.NewOrderWithTotal(c.ID, decimal.RequireFromString("10.00"))
		require.NoError(t, err)
		require.NoError(t, orderRepo.Save(ctx, order))
	}

	filter := shared.DefaultFilter()
	filter.Filters["customer_id"] = first.ID
	orders, err := orderRepo.FindAll(ctx, filter)
	require.NoError(t, err)
	assert.Len(t, orders, 2)

	count, err := orderRepo.Count(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
