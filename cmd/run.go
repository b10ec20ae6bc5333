package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"itsmpipe/pipeline"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full staging pipeline: extract, init-schema, load, check, transform, verify",
	Long: `Run every pipeline task in dependency order.

Tasks are strictly serialized. Each task gets one retry after the configured
delay (pipeline.retry_delay, 5 minutes by default); a task that fails both
attempts aborts the chain and triggers a failure notification. This is the
entry point the daily schedule invokes.`,
	Example: `
  # Daily scheduled invocation
  itsmpipe run

  # Use an alternate configuration
  itsmpipe run --configFile ./staging.yaml
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadRuntime()
		if err != nil {
			return err
		}
		defer logger.Sync()

		runner := &pipeline.Runner{
			Retries:    cfg.Pipeline.Retries,
			RetryDelay: cfg.Pipeline.RetryDelay,
			Notifier: &pipeline.LogNotifier{
				Logger: logger,
				Emails: cfg.Pipeline.Notify.Emails,
			},
			Logger: logger,
		}

		def := pipeline.NewDefinition(cfg, logger)
		if err := runner.Run(cmd.Context(), def); err != nil {
			return err
		}

		fmt.Printf("Pipeline %s completed. Tasks run: %d\n", def.JobName, len(def.Tasks))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
