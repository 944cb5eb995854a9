package report

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/retailops/backend/internal/domain/report"
	"github.com/retailops/backend/internal/domain/shared"
)

// Format selects the export representation of a report
type Format string

const (
	FormatJSON     Format = "json"
	FormatDocument Format = "document"
)

// ParseFormat parses an export format, defaulting to JSON when empty
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "":
		return FormatJSON, nil
	case FormatJSON, FormatDocument:
		return Format(s), nil
	default:
		return "", shared.NewDomainError("VALIDATION_ERROR", "Unknown export format: "+s)
	}
}

// Export is a rendered report ready to stream to the caller. An empty
// Filename means the body is served inline.
type Export struct {
	ContentType string
	Filename    string
	Body        []byte
}

// ExportSink renders an assembled report into one output format. Sinks
// never recompute aggregation: every derived value is taken from the
// report itself.
type ExportSink interface {
	Export(ctx context.Context, rep *report.SalesReport) (*Export, error)
}

// kindMessages are the human-readable wrapper messages per report kind
var kindMessages = map[report.Kind]string{
	report.KindDaily:   "Daily sales report",
	report.KindWeekly:  "Weekly sales report",
	report.KindMonthly: "Monthly sales report",
	report.KindCustom:  "Sales report for custom range",
}

// jsonEnvelope is the wire shape of a JSON report export
type jsonEnvelope struct {
	Message string              `json:"message"`
	Data    *report.SalesReport `json:"data"`
}

// JSONSink serializes the report verbatim under a wrapper message
type JSONSink struct{}

// NewJSONSink creates a JSON export sink
func NewJSONSink() *JSONSink {
	return &JSONSink{}
}

// Export implements ExportSink
func (s *JSONSink) Export(_ context.Context, rep *report.SalesReport) (*Export, error) {
	body, err := json.Marshal(jsonEnvelope{
		Message: kindMessages[rep.Kind],
		Data:    rep,
	})
	if err != nil {
		return nil, fmt.Errorf("encode %s report: %w", rep.Kind, err)
	}

	return &Export{
		ContentType: "application/json",
		Body:        body,
	}, nil
}
