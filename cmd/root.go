/*
Copyright © 2025 itsmpipe maintainers

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"itsmpipe/config"
	"itsmpipe/internal/logutil"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "itsmpipe",
	Short: "Stage ITSM ticket exports into a relational table and trigger dbt transformations.",
	Long: `itsmpipe is the daily ITSM ticket staging pipeline.

It extracts ServiceNow incident exports from an Excel workbook, derives
resolution durations, stages the full table as CSV, replace-loads it into
the itsm_raw_tickets table, runs duplicate and outlier quality checks, and
finally invokes the dbt toolchain (run, then test).

Each stage is also exposed as its own subcommand so a scheduler can invoke
and retry stages independently.`,
	Example: `
  # Create configuration file
  itsmpipe config create

  # Run the whole chain once (what the daily schedule invokes)
  itsmpipe run

  # Run individual stages
  itsmpipe extract
  itsmpipe init-schema
  itsmpipe load
  itsmpipe check
  itsmpipe transform
  itsmpipe verify
`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	config.SetDefaults()

	rootCmd.PersistentFlags().StringVar(&cfgFile, "configFile", "", "Config file override (default discovery: $HOME/.itsmpipe.yaml, then ./.itsmpipe.yaml)")
}

// loadRuntime resolves the validated configuration and its logger for a
// task command.
func loadRuntime() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadAndValidate()
	if err != nil {
		return nil, nil, err
	}

	logger, err := logutil.NewLogger(cfg.Logging)
	if err != nil {
		return nil, nil, fmt.Errorf("initialize logger: %w", err)
	}

	return cfg, logger, nil
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".itsmpipe" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".itsmpipe")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintln(os.Stderr, "No config file found, using defaults. Create one with: itsmpipe config create")
	}
}
