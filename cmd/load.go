package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"itsmpipe/pipeline"
	"itsmpipe/storage"
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Replace the staging table's contents with the intermediate file",
	Long: `Read the intermediate staging CSV and replace the staging table's entire
contents with it in one transaction. There is no append or upsert: the table
always holds exactly the latest extract, so re-running load is idempotent.`,
	Example: `
  itsmpipe load
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadRuntime()
		if err != nil {
			return err
		}
		defer logger.Sync()

		if err := pipeline.Load(cmd.Context(), cfg, logger); err != nil {
			return err
		}

		fmt.Printf("Load completed into %s.\n", storage.TableName)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loadCmd)
}
