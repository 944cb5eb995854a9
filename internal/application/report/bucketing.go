package report

import (
	"time"

	"github.com/retailops/backend/internal/domain/report"
	"github.com/retailops/backend/internal/domain/shared"
)

// Key layouts per report kind. Keys are chosen so lexicographic order
// matches chronological order.
const (
	dailyKeyLayout   = "2006-01-02 15:04:05"
	dateKeyLayout    = "2006-01-02"
	monthlyKeyLayout = "2006-01"
)

// Bucketing is the single parameterized strategy mapping order timestamps
// to bucket keys for a report kind, and resolving the queried date range.
// The same truncation rule is used for the range boundary and for
// per-order grouping, so orders near a window edge land in a consistent
// bucket.
type Bucketing struct {
	Kind report.Kind
}

// NewBucketing creates a bucketing strategy for the report kind
func NewBucketing(kind report.Kind) (Bucketing, error) {
	if !kind.IsValid() {
		return Bucketing{}, shared.NewDomainError("INVALID_REPORT_KIND", "Unknown report kind: "+string(kind))
	}
	return Bucketing{Kind: kind}, nil
}

// Resolve returns the implicit date range for the non-custom kinds,
// anchored at the given instant:
//
//	daily   — start of the current calendar day through now
//	weekly  — the last 7 days through now
//	monthly — the last 6 months through now
//
// For the custom kind use ResolveCustom.
func (b Bucketing) Resolve(now time.Time) report.DateRange {
	switch b.Kind {
	case report.KindWeekly:
		return report.DateRange{From: now.AddDate(0, 0, -7), To: now}
	case report.KindMonthly:
		return report.DateRange{From: now.AddDate(0, -6, 0), To: now}
	default:
		return report.DateRange{From: startOfDay(now), To: now}
	}
}

// ResolveCustom returns the explicit range for the custom kind: the start
// of fromDate through the last instant of toDate. An inverted pair yields
// an empty range; the engine then produces an empty report rather than an
// error.
func (b Bucketing) ResolveCustom(fromDate, toDate time.Time) report.DateRange {
	return report.DateRange{From: startOfDay(fromDate), To: endOfDay(toDate)}
}

// BucketKey maps an order timestamp to its bucket key for this kind
func (b Bucketing) BucketKey(t time.Time) string {
	switch b.Kind {
	case report.KindDaily:
		return t.Truncate(time.Second).Format(dailyKeyLayout)
	case report.KindWeekly:
		return weekStart(t).Format(dateKeyLayout)
	case report.KindMonthly:
		return monthStart(t).Format(monthlyKeyLayout)
	default:
		return t.Format(dateKeyLayout)
	}
}

// startOfDay truncates t to midnight in its location
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// endOfDay returns the last represented millisecond of t's calendar day
func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999_000_000, t.Location())
}

// weekStart truncates t to the Monday of its ISO week
func weekStart(t time.Time) time.Time {
	d := startOfDay(t)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

// monthStart truncates t to the first day of its month
func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
