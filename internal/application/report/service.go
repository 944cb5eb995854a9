package report

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/retailops/backend/internal/domain/report"
	"github.com/retailops/backend/internal/domain/shared"
)

// ReportCache caches assembled reports keyed by kind and range. A miss is
// (nil, nil). Implementations are expected to expire entries on their own;
// invalidation is TTL-only.
type ReportCache interface {
	Get(ctx context.Context, key string) (*report.SalesReport, error)
	Set(ctx context.Context, key string, rep *report.SalesReport, ttl time.Duration) error
}

// Request describes one reporting request. From/To are consumed only by
// the custom kind and must then both be present.
type Request struct {
	Kind report.Kind
	From *time.Time
	To   *time.Time
}

// Service orchestrates a report request: resolve the date range, fetch
// the order snapshot through the data access adapter, aggregate, and
// assemble. Each request is stateless and operates on its own snapshot,
// so concurrent requests need no synchronization.
type Service struct {
	reader    report.SalesReader
	cache     ReportCache
	cacheTTL  time.Duration
	assembler *Assembler
	logger    *zap.Logger
	now       func() time.Time
}

// Option configures a report Service
type Option func(*Service)

// WithCache attaches a report cache with the given TTL
func WithCache(cache ReportCache, ttl time.Duration) Option {
	return func(s *Service) {
		s.cache = cache
		s.cacheTTL = ttl
	}
}

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a report service
func NewService(reader report.SalesReader, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		reader:    reader,
		assembler: NewAssembler(),
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate produces the sales report for the request. Missing custom
// range parameters are a validation error, surfaced distinctly from
// adapter failures. Zero orders in range yields a valid empty report.
func (s *Service) Generate(ctx context.Context, req Request) (*report.SalesReport, error) {
	bucketing, err := NewBucketing(req.Kind)
	if err != nil {
		return nil, err
	}

	dateRange, err := s.resolveRange(bucketing, req)
	if err != nil {
		return nil, err
	}

	cacheKey := s.cacheKey(req.Kind, dateRange)
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, cacheKey)
		if err != nil {
			// Fail open: a broken cache must not break reporting.
			s.logger.Warn("Report cache lookup failed",
				zap.String("key", cacheKey),
				zap.Error(err))
		} else if cached != nil {
			s.logger.Debug("Report served from cache", zap.String("key", cacheKey))
			return cached, nil
		}
	}

	var orders []report.OrderRecord
	if !dateRange.IsEmpty() {
		orders, err = s.reader.FetchOrders(ctx, dateRange.From, dateRange.To)
		if err != nil {
			return nil, fmt.Errorf("fetch orders for %s report: %w", req.Kind, err)
		}
	}

	buckets, rollups := NewAggregator(bucketing).Aggregate(orders)
	result := s.assembler.Assemble(req.Kind, dateRange, buckets, rollups)

	s.logger.Info("Sales report generated",
		zap.String("kind", string(req.Kind)),
		zap.Time("from", dateRange.From),
		zap.Time("to", dateRange.To),
		zap.Int("buckets", len(result.Buckets)),
		zap.Int("orders", result.TotalOrders),
		zap.String("total_sales", result.TotalSales.String()),
	)

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, result, s.cacheTTL); err != nil {
			s.logger.Warn("Report cache store failed",
				zap.String("key", cacheKey),
				zap.Error(err))
		}
	}

	return result, nil
}

func (s *Service) resolveRange(bucketing Bucketing, req Request) (report.DateRange, error) {
	if req.Kind != report.KindCustom {
		return bucketing.Resolve(s.now()), nil
	}
	if req.From == nil || req.To == nil {
		return report.DateRange{}, shared.NewDomainError("VALIDATION_ERROR", "fromDate and toDate are required for custom reports")
	}
	return bucketing.ResolveCustom(*req.From, *req.To), nil
}

// cacheKey derives the cache key for a resolved range. Custom ranges are
// keyed on their exact boundaries. The implicit kinds end at the current
// instant, so their key buckets the end of the range by the cache TTL;
// requests inside the same TTL window share a key instead of each minting
// a fresh one.
func (s *Service) cacheKey(kind report.Kind, r report.DateRange) string {
	if kind == report.KindCustom {
		return fmt.Sprintf("reports:sales:%s:%d:%d", kind, r.From.UnixMilli(), r.To.UnixMilli())
	}
	window := s.cacheTTL
	if window <= 0 {
		window = time.Minute
	}
	return fmt.Sprintf("reports:sales:%s:%d", kind, r.To.Truncate(window).UnixMilli())
}
