package quality

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Aggregates is the slice of the staging store the checks need.
type Aggregates interface {
	CountDuplicateIncidents(ctx context.Context) (int, error)
	CountResolutionOutliers(ctx context.Context, maxHours float64) (int, error)
}

type Result struct {
	DuplicateIncidents int
	ResolutionOutliers int
}

// Run executes both aggregate checks against the staging table.
// Findings are logged as warnings and never returned as errors;
// downstream tasks proceed regardless. Only a failed query propagates.
func Run(ctx context.Context, store Aggregates, maxHours float64, logger *zap.Logger) (*Result, error) {
	duplicates, err := store.CountDuplicateIncidents(ctx)
	if err != nil {
		logger.Error("data quality checks failed", zap.Error(err))
		return nil, fmt.Errorf("duplicate check: %w", err)
	}
	if duplicates > 0 {
		logger.Warn("found incidents with duplicate numbers", zap.Int("count", duplicates))
	}

	outliers, err := store.CountResolutionOutliers(ctx, maxHours)
	if err != nil {
		logger.Error("data quality checks failed", zap.Error(err))
		return nil, fmt.Errorf("outlier check: %w", err)
	}
	if outliers > 0 {
		logger.Warn("found tickets with unusual resolution times",
			zap.Int("count", outliers),
			zap.Float64("max_hours", maxHours),
		)
	}

	logger.Info("data quality checks completed",
		zap.Int("duplicates", duplicates),
		zap.Int("outliers", outliers),
	)

	return &Result{DuplicateIncidents: duplicates, ResolutionOutliers: outliers}, nil
}
