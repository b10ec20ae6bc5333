package pipeline

import (
	"context"

	"go.uber.org/zap"

	"itsmpipe/config"
	"itsmpipe/dbt"
	"itsmpipe/extract"
	"itsmpipe/quality"
	"itsmpipe/staging"
	"itsmpipe/storage"
)

const (
	TaskExtract       = "extract_itsm_data"
	TaskCreateStaging = "create_staging_table"
	TaskLoad          = "load_to_staging"
	TaskQualityChecks = "run_data_quality_checks"
	TaskDbtRun        = "run_dbt_transformations"
	TaskDbtTest       = "run_dbt_tests"
)

// NewDefinition wires the full staging job: extract, schema init, load,
// quality checks, then the dbt run/test pair.
func NewDefinition(cfg *config.Config, logger *zap.Logger) Definition {
	runner := dbt.NewRunner(cfg.Dbt, logger)

	return Definition{
		JobName:  JobName,
		Schedule: Schedule,
		Tags:     Tags,
		Tasks: []Task{
			{
				Name: TaskExtract,
				Run: func(ctx context.Context) error {
					return Extract(cfg, logger)
				},
			},
			{
				Name:     TaskCreateStaging,
				Upstream: []string{TaskExtract},
				Run: func(ctx context.Context) error {
					return InitSchema(ctx, cfg, logger)
				},
			},
			{
				Name:     TaskLoad,
				Upstream: []string{TaskCreateStaging},
				Run: func(ctx context.Context) error {
					return Load(ctx, cfg, logger)
				},
			},
			{
				Name:     TaskQualityChecks,
				Upstream: []string{TaskLoad},
				Run: func(ctx context.Context) error {
					return Check(ctx, cfg, logger)
				},
			},
			{
				Name:     TaskDbtRun,
				Upstream: []string{TaskQualityChecks},
				Run:      runner.Run,
			},
			{
				Name:     TaskDbtTest,
				Upstream: []string{TaskDbtRun},
				Run:      runner.Test,
			},
		},
	}
}

// Extract runs the extractor task body.
func Extract(cfg *config.Config, logger *zap.Logger) error {
	_, err := extract.Run(cfg.Source, cfg.Staging.Path, logger)
	return err
}

// InitSchema ensures the staging table exists. Safe to re-run; existing
// data is untouched.
func InitSchema(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	store, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.EnsureSchema(ctx); err != nil {
		logger.Error("create staging table failed", zap.Error(err))
		return err
	}

	logger.Info("staging table ready", zap.String("table", storage.TableName))
	return nil
}

// Load replaces the staging table's contents with the intermediate file.
func Load(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	tickets, err := staging.ReadFile(cfg.Staging.Path)
	if err != nil {
		logger.Error("data loading failed", zap.String("staging", cfg.Staging.Path), zap.Error(err))
		return err
	}

	store, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	loaded, err := store.ReplaceTickets(ctx, tickets)
	if err != nil {
		logger.Error("data loading failed", zap.Error(err))
		return err
	}

	logger.Info("loaded records to staging table",
		zap.Int("count", loaded),
		zap.String("table", storage.TableName),
	)
	return nil
}

// Check runs the quality checks task body.
func Check(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	store, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	_, err = quality.Run(ctx, store, cfg.Quality.MaxResolutionHours, logger)
	return err
}

func openStore(cfg *config.Config, logger *zap.Logger) (*storage.Store, error) {
	conn, err := cfg.ActiveConnection()
	if err != nil {
		logger.Error("resolve database connection failed", zap.Error(err))
		return nil, err
	}

	store, err := storage.Open(conn)
	if err != nil {
		logger.Error("connect staging database failed",
			zap.String("connection", cfg.Database.Connection),
			zap.Error(err),
		)
		return nil, err
	}
	return store, nil
}
