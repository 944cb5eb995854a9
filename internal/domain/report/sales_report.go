package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailops/backend/internal/domain/shared"
)

// Kind selects the time-bucketing variant of a sales report
type Kind string

const (
	KindDaily   Kind = "daily"
	KindWeekly  Kind = "weekly"
	KindMonthly Kind = "monthly"
	KindCustom  Kind = "custom"
)

// ParseKind parses a report kind from its wire form
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindDaily, KindWeekly, KindMonthly, KindCustom:
		return Kind(s), nil
	default:
		return "", shared.NewDomainError("INVALID_REPORT_KIND", "Unknown report kind: "+s)
	}
}

// IsValid reports whether the kind is one of the supported variants
func (k Kind) IsValid() bool {
	switch k {
	case KindDaily, KindWeekly, KindMonthly, KindCustom:
		return true
	}
	return false
}

// DateRange is the inclusive time window a report covers
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// IsEmpty reports whether the range contains no instants (inverted bounds)
func (r DateRange) IsEmpty() bool {
	return r.To.Before(r.From)
}

// OrderLine is the per-line projection read from the store. PriceAtTime is
// the unit price frozen at the moment of sale.
type OrderLine struct {
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	PriceAtTime decimal.Decimal `json:"priceAtTime"`
	Amount      decimal.Decimal `json:"amount"`
}

// OrderRecord is the order projection the reporting engine consumes: one
// order with its attributed customer and nested lines, as returned by the
// data access adapter for a date window.
type OrderRecord struct {
	OrderID       uuid.UUID       `json:"orderId"`
	TotalPrice    decimal.Decimal `json:"totalPrice"`
	PlacedAt      time.Time       `json:"placedAt"`
	CustomerName  string          `json:"customerName"`
	CustomerPhone string          `json:"customerPhone"`
	Lines         []OrderLine     `json:"lineItems"`
}

// HasCustomer reports whether the order's customer could be resolved.
// Orders without a resolvable customer are excluded from reports.
func (o OrderRecord) HasCustomer() bool {
	return o.CustomerName != ""
}

// Bucket is one time-window grouping with its own totals. Orders keep the
// insertion order in which the adapter returned them.
type Bucket struct {
	Key         string          `json:"bucketKey"`
	TotalSales  decimal.Decimal `json:"totalSales"`
	TotalOrders int             `json:"totalOrders"`
	Orders      []OrderRecord   `json:"orders"`
}

// ProductRollup accumulates quantity and revenue for one product across
// the entire queried range, independent of bucketing
type ProductRollup struct {
	TotalQuantitySold int             `json:"totalQuantitySold"`
	TotalSalesAmount  decimal.Decimal `json:"totalSalesAmount"`
}

// SalesReport is the complete output value for one reporting request.
// It is assembled fresh per request, never persisted, and consumed by the
// export sinks without further queries.
type SalesReport struct {
	Kind          Kind                     `json:"reportKind"`
	Range         DateRange                `json:"range"`
	TotalSales    decimal.Decimal          `json:"totalSales"`
	TotalOrders   int                      `json:"totalOrders"`
	Buckets       []Bucket                 `json:"buckets"`
	ProductTotals map[string]ProductRollup `json:"productTotals"`
}
