package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"itsmpipe/extract"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Read the source workbook and write the derived table to the staging file",
	Long: `Read the configured sheet of the source Excel workbook, derive the
resolution duration in hours for every ticket, and write the full table to
the intermediate staging CSV. The staging file is overwritten on every run.`,
	Example: `
  itsmpipe extract
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadRuntime()
		if err != nil {
			return err
		}
		defer logger.Sync()

		result, err := extract.Run(cfg.Source, cfg.Staging.Path, logger)
		if err != nil {
			return err
		}

		fmt.Printf("Extract completed. Rows: %d, Staging file: %s\n", result.RowsWritten, cfg.Staging.Path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)
}
