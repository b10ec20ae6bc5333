package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"itsmpipe/config"
)

var configCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a configuration file from the example template.",
	Long: `Create a new configuration file from the example template.

If a configuration file is already in use, no new file is written.`,
	Example: `
  # Create default config at $HOME/.itsmpipe.yaml
  itsmpipe config create
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return saveDefaultConfig()
	},
}

func saveDefaultConfig() error {
	configPath, err := resolveConfigPath(cfgFile, viper.ConfigFileUsed())
	if err != nil {
		return err
	}

	created, err := ensureConfigFileWithTemplate(configPath)
	if err != nil {
		return err
	}

	if created {
		fmt.Printf("New config file created at: %s\n", configPath)
		return nil
	}

	fmt.Printf("Config file already exists at: %s\n", configPath)
	return nil
}

// resolveConfigPath picks the config file target: explicit flag first,
// then the file viper already loaded, then $HOME/.itsmpipe.yaml.
func resolveConfigPath(flagPath, loadedPath string) (string, error) {
	if strings.TrimSpace(flagPath) != "" {
		return flagPath, nil
	}
	if strings.TrimSpace(loadedPath) != "" {
		return loadedPath, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".itsmpipe.yaml"), nil
}

// ensureConfigFileWithTemplate writes the example template unless the
// file already exists. Returns true when a new file was written.
func ensureConfigFileWithTemplate(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("stat config file %s: %w", path, err)
	}

	if err := os.WriteFile(path, []byte(config.ExampleYAML()), 0o644); err != nil {
		return false, fmt.Errorf("write config file %s: %w", path, err)
	}
	return true, nil
}

func init() {
	configCmd.AddCommand(configCreateCmd)
}
