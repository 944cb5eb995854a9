package report

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"sort"

	"github.com/retailops/backend/internal/domain/report"
)

// DocumentRenderer turns an HTML document into a paginated PDF
type DocumentRenderer interface {
	RenderPDF(ctx context.Context, html, title string) ([]byte, error)
}

// DocumentSink renders the report into a paginated PDF: headline totals,
// a per-bucket breakdown with attributed customers, and the per-product
// totals table. Every figure comes from the assembled report.
type DocumentSink struct {
	renderer DocumentRenderer
}

// NewDocumentSink creates a document export sink
func NewDocumentSink(renderer DocumentRenderer) *DocumentSink {
	return &DocumentSink{renderer: renderer}
}

// productRow is a product rollup paired with its name for rendering
type productRow struct {
	Name   string
	Rollup report.ProductRollup
}

type documentView struct {
	Title     string
	Report    *report.SalesReport
	RangeFrom string
	RangeTo   string
	Products  []productRow
}

// Export implements ExportSink
func (s *DocumentSink) Export(ctx context.Context, rep *report.SalesReport) (*Export, error) {
	products := make([]productRow, 0, len(rep.ProductTotals))
	for name, rollup := range rep.ProductTotals {
		products = append(products, productRow{Name: name, Rollup: rollup})
	}
	sort.Slice(products, func(i, j int) bool {
		return products[i].Name < products[j].Name
	})

	title := kindMessages[rep.Kind]
	var buf bytes.Buffer
	err := documentTemplate.Execute(&buf, documentView{
		Title:     title,
		Report:    rep,
		RangeFrom: rep.Range.From.Format("2006-01-02 15:04:05"),
		RangeTo:   rep.Range.To.Format("2006-01-02 15:04:05"),
		Products:  products,
	})
	if err != nil {
		return nil, fmt.Errorf("render %s report template: %w", rep.Kind, err)
	}

	pdf, err := s.renderer.RenderPDF(ctx, buf.String(), title)
	if err != nil {
		return nil, fmt.Errorf("render %s report document: %w", rep.Kind, err)
	}

	filename := fmt.Sprintf("sales-report-%s-%s.pdf", rep.Kind, rep.Range.To.Format("2006-01-02"))
	return &Export{
		ContentType: "application/pdf",
		Filename:    filename,
		Body:        pdf,
	}, nil
}

var documentTemplate = template.Must(template.New("sales-report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>{{.Title}}</title>
<style>
body { font-family: Helvetica, Arial, sans-serif; font-size: 12px; color: #1a1a1a; margin: 24px; }
h1 { font-size: 20px; margin-bottom: 4px; }
h2 { font-size: 14px; margin: 18px 0 6px; }
.meta { color: #666; margin-bottom: 16px; }
.totals { display: flex; gap: 32px; margin-bottom: 8px; }
.totals div { border: 1px solid #ddd; padding: 8px 16px; border-radius: 4px; }
.totals .value { font-size: 16px; font-weight: bold; }
table { width: 100%; border-collapse: collapse; margin-bottom: 12px; }
th, td { border: 1px solid #ddd; padding: 5px 8px; text-align: left; }
th { background: #f4f4f4; }
td.num, th.num { text-align: right; }
.bucket-head td { background: #fafafa; font-weight: bold; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<div class="meta">{{.RangeFrom}} &mdash; {{.RangeTo}}</div>

<div class="totals">
  <div>Total sales<br><span class="value">{{.Report.TotalSales}}</span></div>
  <div>Total orders<br><span class="value">{{.Report.TotalOrders}}</span></div>
</div>

<h2>Breakdown</h2>
<table>
<tr><th>Period</th><th>Order</th><th>Customer</th><th>Phone</th><th class="num">Amount</th></tr>
{{range .Report.Buckets}}
<tr class="bucket-head"><td>{{.Key}}</td><td colspan="2">{{.TotalOrders}} order(s)</td><td></td><td class="num">{{.TotalSales}}</td></tr>
{{range .Orders}}
<tr><td></td><td>{{.OrderID}}</td><td>{{.CustomerName}}</td><td>{{.CustomerPhone}}</td><td class="num">{{.TotalPrice}}</td></tr>
{{end}}
{{end}}
</table>

<h2>Product totals</h2>
<table>
<tr><th>Product</th><th class="num">Quantity sold</th><th class="num">Revenue</th></tr>
{{range .Products}}
<tr><td>{{.Name}}</td><td class="num">{{.Rollup.TotalQuantitySold}}</td><td class="num">{{.Rollup.TotalSalesAmount}}</td></tr>
{{end}}
</table>
</body>
</html>`))
