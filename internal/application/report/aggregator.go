package report

import (
	"github.com/shopspring/decimal"

	"github.com/retailops/backend/internal/domain/report"
)

// Aggregator folds fetched orders into per-bucket totals and the
// cross-bucket per-product rollup. It is pure in-memory computation over
// a fetched snapshot; no locking and no store access.
type Aggregator struct {
	bucketing Bucketing
}

// NewAggregator creates an aggregator using the given bucketing strategy
func NewAggregator(bucketing Bucketing) *Aggregator {
	return &Aggregator{bucketing: bucketing}
}

// Aggregate groups the orders by bucket key and accumulates totals.
// Buckets preserve the adapter's order of appearance both for the bucket
// sequence (sorted later by the assembler) and for orders inside each
// bucket. Per bucket, total sales and order count are keyed by distinct
// order, so an order with many lines is still counted once. Product
// rollups accumulate quantity and quantity*priceAtTime per product name
// across every bucket.
//
// Orders with no resolvable customer are skipped without aborting; orders
// with zero lines contribute to bucket totals but never to product
// rollups. Empty input yields zero buckets and an empty rollup map,
// never an error.
func (a *Aggregator) Aggregate(orders []report.OrderRecord) ([]report.Bucket, map[string]report.ProductRollup) {
	buckets := make([]report.Bucket, 0)
	index := make(map[string]int)
	rollups := make(map[string]report.ProductRollup)

	for _, order := range orders {
		if !order.HasCustomer() {
			continue
		}

		key := a.bucketing.BucketKey(order.PlacedAt)
		i, ok := index[key]
		if !ok {
			i = len(buckets)
			index[key] = i
			buckets = append(buckets, report.Bucket{
				Key:         key,
				TotalSales:  decimal.Zero,
				TotalOrders: 0,
				Orders:      make([]report.OrderRecord, 0, 1),
			})
		}

		buckets[i].TotalSales = buckets[i].TotalSales.Add(order.TotalPrice)
		buckets[i].TotalOrders++
		buckets[i].Orders = append(buckets[i].Orders, order)

		for _, line := range order.Lines {
			rollup := rollups[line.ProductName]
			rollup.TotalQuantitySold += line.Quantity
			qty := decimal.NewFromInt(int64(line.Quantity))
			rollup.TotalSalesAmount = rollup.TotalSalesAmount.Add(line.PriceAtTime.Mul(qty))
			rollups[line.ProductName] = rollup
		}
	}

	return buckets, rollups
}
