package scheduler

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	appreport "github.com/retailops/backend/internal/application/report"
	"github.com/retailops/backend/internal/domain/catalog"
	"github.com/retailops/backend/internal/domain/report"
)

// Ensure TaskExecutor implements JobExecutor
var _ JobExecutor = (*TaskExecutor)(nil)

// TaskExecutor dispatches scheduled jobs to the application services.
type TaskExecutor struct {
	products  catalog.ProductRepository
	reports   *appreport.Service
	threshold int
	logger    *zap.Logger
}

// NewTaskExecutor creates an executor. The threshold applies to low-stock
// checks; zero or negative falls back to the catalog default.
func NewTaskExecutor(
	products catalog.ProductRepository,
	reports *appreport.Service,
	threshold int,
	logger *zap.Logger,
) *TaskExecutor {
	if threshold <= 0 {
		threshold = catalog.DefaultLowStockThreshold
	}
	return &TaskExecutor{
		products:  products,
		reports:   reports,
		threshold: threshold,
		logger:    logger,
	}
}

// Execute runs the job matching its kind.
func (e *TaskExecutor) Execute(ctx context.Context, job *Job) error {
	switch job.Kind {
	case JobKindLowStockCheck:
		return e.checkLowStock(ctx)
	case JobKindReportWarmup:
		return e.warmReportCache(ctx)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownJobKind, job.Kind)
	}
}

// checkLowStock logs a warning per product at or below the threshold, so
// operators watching the logs see replenishment candidates.
func (e *TaskExecutor) checkLowStock(ctx context.Context) error {
	products, err := e.products.FindLowStock(ctx, e.threshold)
	if err != nil {
		return fmt.Errorf("low stock check: %w", err)
	}

	if len(products) == 0 {
		e.logger.Debug("Low stock check passed", zap.Int("threshold", e.threshold))
		return nil
	}

	for _, p := range products {
		e.logger.Warn("Product low on stock",
			zap.String("product_id", p.ID.String()),
			zap.String("name", p.Name),
			zap.Int("quantity", p.Quantity),
			zap.Int("threshold", e.threshold),
		)
	}
	return nil
}

// warmReportCache computes the daily sales report so the next request
// is served from cache.
func (e *TaskExecutor) warmReportCache(ctx context.Context) error {
	if _, err := e.reports.Generate(ctx, appreport.Request{Kind: report.KindDaily}); err != nil {
		return fmt.Errorf("report warmup: %w", err)
	}
	return nil
}
