package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/retailops/backend/internal/domain/report"
)

// Assembler packages aggregation output into the final report value
type Assembler struct{}

// NewAssembler creates a report assembler
func NewAssembler() *Assembler {
	return &Assembler{}
}

// Assemble combines the resolved range, the aggregated buckets and the
// product rollups into a SalesReport. Buckets are sorted by descending
// key (most recent first); bucket keys are unique by construction. Grand
// totals are computed from the buckets themselves, never by re-querying,
// so the headline numbers always match the bucket list.
func (a *Assembler) Assemble(kind report.Kind, dateRange report.DateRange, buckets []report.Bucket, rollups map[string]report.ProductRollup) *report.SalesReport {
	sorted := make([]report.Bucket, len(buckets))
	copy(sorted, buckets)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Key > sorted[j].Key
	})

	totalSales := decimal.Zero
	totalOrders := 0
	for _, b := range sorted {
		totalSales = totalSales.Add(b.TotalSales)
		totalOrders += b.TotalOrders
	}

	if rollups == nil {
		rollups = make(map[string]report.ProductRollup)
	}

	return &report.SalesReport{
		Kind:          kind,
		Range:         dateRange,
		TotalSales:    totalSales,
		TotalOrders:   totalOrders,
		Buckets:       sorted,
		ProductTotals: rollups,
	}
}
