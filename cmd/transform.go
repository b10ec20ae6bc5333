package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"itsmpipe/dbt"
)

var transformCmd = &cobra.Command{
	Use:   "transform",
	Short: "Run the dbt transformation models against the staged table",
	Long: `Invoke "dbt run" in the configured project directory with the local
profiles configuration. The toolchain is opaque: a non-zero exit status is
the task failure.`,
	Example: `
  itsmpipe transform
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadRuntime()
		if err != nil {
			return err
		}
		defer logger.Sync()

		runner := dbt.NewRunner(cfg.Dbt, logger)
		if err := runner.Run(cmd.Context()); err != nil {
			return err
		}

		fmt.Println("dbt transformations completed.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(transformCmd)
}
