package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"itsmpipe/pipeline"
	"itsmpipe/storage"
)

var initSchemaCmd = &cobra.Command{
	Use:   "init-schema",
	Short: "Ensure the staging table exists with the expected columns",
	Long: `Create the itsm_raw_tickets staging table if it does not already exist.
Running this against an existing table is a no-op: no data is touched.`,
	Example: `
  itsmpipe init-schema
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadRuntime()
		if err != nil {
			return err
		}
		defer logger.Sync()

		if err := pipeline.InitSchema(cmd.Context(), cfg, logger); err != nil {
			return err
		}

		fmt.Printf("Staging table %s is ready.\n", storage.TableName)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initSchemaCmd)
}
