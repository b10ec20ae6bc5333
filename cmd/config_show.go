package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"itsmpipe/config"
)

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show active configuration values.",
	Long: `Display the currently loaded configuration and the resolved config file path.

This command validates the configuration before printing values.`,
	Example: `
  # Show active configuration
  itsmpipe config show
`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			fmt.Println("Invalid config:", err)
			return
		}

		if configPath := viper.ConfigFileUsed(); configPath != "" {
			fmt.Println("Config file loaded from:", configPath)
		}
		fmt.Println("Configuration:")
		fmt.Printf("source.path: %s\n", cfg.Source.Path)
		fmt.Printf("source.sheet: %s\n", cfg.Source.Sheet)
		fmt.Printf("staging.path: %s\n", cfg.Staging.Path)
		fmt.Printf("database.connection: %s\n", cfg.Database.Connection)

		names := make([]string, 0, len(cfg.Database.Connections))
		for name := range cfg.Database.Connections {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			conn := cfg.Database.Connections[name]
			fmt.Printf("database.connections.%s.driver: %s\n", name, conn.Driver)
			fmt.Printf("database.connections.%s.dsn: %s\n", name, conn.DSN)
		}

		fmt.Printf("quality.max_resolution_hours: %g\n", cfg.Quality.MaxResolutionHours)
		fmt.Printf("dbt.dir: %s\n", cfg.Dbt.Dir)
		fmt.Printf("dbt.profiles_dir: %s\n", cfg.Dbt.ProfilesDir)
		fmt.Printf("dbt.binary: %s\n", cfg.Dbt.Binary)
		fmt.Printf("pipeline.retries: %d\n", cfg.Pipeline.Retries)
		fmt.Printf("pipeline.retry_delay: %s\n", cfg.Pipeline.RetryDelay)
		fmt.Printf("pipeline.notify.emails: %s\n", strings.Join(cfg.Pipeline.Notify.Emails, ", "))
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
}
