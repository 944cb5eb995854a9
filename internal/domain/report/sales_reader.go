package report

import (
	"context"
	"time"
)

// SalesReader is the data access contract the reporting engine depends on.
// Implementations return orders placed within [from, to] with nested
// customer attribution and line/product detail, ordered by placement time
// ascending. Orders whose customer cannot be resolved are omitted.
type SalesReader interface {
	FetchOrders(ctx context.Context, from, to time.Time) ([]OrderRecord, error)
}
