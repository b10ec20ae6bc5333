package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"itsmpipe/config"
	"itsmpipe/quality"
	"itsmpipe/storage"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run duplicate and outlier quality checks against the staging table",
	Long: `Run two read-only aggregate checks against the staging table:

- duplicate detection: incident numbers appearing on more than one row
- outlier detection: resolution durations that are negative or exceed
  quality.max_resolution_hours (720 by default)

Findings are logged as warnings and never fail the command; only a
connection or query error does.`,
	Example: `
  itsmpipe check
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadRuntime()
		if err != nil {
			return err
		}
		defer logger.Sync()

		store, err := openCheckStore(cfg, logger)
		if err != nil {
			return err
		}
		defer store.Close()

		result, err := quality.Run(cmd.Context(), store, cfg.Quality.MaxResolutionHours, logger)
		if err != nil {
			return err
		}

		fmt.Printf(
			"Quality checks completed. Duplicate incidents: %d, Resolution outliers: %d\n",
			result.DuplicateIncidents,
			result.ResolutionOutliers,
		)
		return nil
	},
}

func openCheckStore(cfg *config.Config, logger *zap.Logger) (*storage.Store, error) {
	conn, err := cfg.ActiveConnection()
	if err != nil {
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

func init() {
	rootCmd.AddCommand(checkCmd)
}
