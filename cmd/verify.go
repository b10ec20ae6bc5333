package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"itsmpipe/dbt"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Run the dbt test suite against the transformed models",
	Long: `Invoke "dbt test" in the configured project directory. Runs after
"transform" in the scheduled chain to verify the derived models.`,
	Example: `
  itsmpipe verify
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadRuntime()
		if err != nil {
			return err
		}
		defer logger.Sync()

		runner := dbt.NewRunner(cfg.Dbt, logger)
		if err := runner.Test(cmd.Context()); err != nil {
			return err
		}

		fmt.Println("dbt tests completed.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}
