package cmd

import "github.com/spf13/cobra"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage itsmpipe configuration file values.",
	Long: `Create and display the itsmpipe configuration file.

The configuration stores the pipeline's fixed surfaces:
- source.path / source.sheet          (the Excel export to extract)
- staging.path                        (the intermediate CSV)
- database.connection + connections   (named staging-table connections)
- quality.max_resolution_hours        (outlier bound)
- dbt.dir / dbt.profiles_dir          (transformation toolchain)
- pipeline.retries / retry_delay / notify.emails`,
	Example: `
  # Create default config in $HOME/.itsmpipe.yaml
  itsmpipe config create

  # Show active config and source file
  itsmpipe config show
`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
