package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func TestSaveDefaultConfigCreatesExampleTemplate(t *testing.T) {
	t.Cleanup(func() {
		cfgFile = ""
		viper.Reset()
	})

	tmpConfig := filepath.Join(t.TempDir(), "create-template.yaml")
	cfgFile = tmpConfig
	viper.Reset()

	if err := saveDefaultConfig(); err != nil {
		t.Fatalf("unexpected error creating config: %v", err)
	}

	content, err := os.ReadFile(tmpConfig)
	if err != nil {
		t.Fatalf("expected config file to exist: %v", err)
	}

	text := string(content)
	if !strings.Contains(text, "# itsmpipe configuration") {
		t.Fatalf("expected example header in config file, got:\n%s", text)
	}
	if !strings.Contains(text, "sheet: \"Raw Data\"") {
		t.Fatalf("expected source sheet example in config file, got:\n%s", text)
	}
	if !strings.Contains(text, "retry_delay: 5m") {
		t.Fatalf("expected retry delay example in config file, got:\n%s", text)
	}
}

func TestSaveDefaultConfigDoesNotOverwriteExistingFile(t *testing.T) {
	t.Cleanup(func() {
		cfgFile = ""
		viper.Reset()
	})

	tmpConfig := filepath.Join(t.TempDir(), "existing.yaml")
	original := "source:\n  path: \"./custom.xlsx\"\n"
	if err := os.WriteFile(tmpConfig, []byte(original), 0o644); err != nil {
		t.Fatalf("failed writing initial config: %v", err)
	}

	cfgFile = tmpConfig
	viper.Reset()

	if err := saveDefaultConfig(); err != nil {
		t.Fatalf("unexpected error creating config: %v", err)
	}

	content, err := os.ReadFile(tmpConfig)
	if err != nil {
		t.Fatalf("expected config file to exist: %v", err)
	}
	if string(content) != original {
		t.Fatalf("existing config was overwritten:\n%s", string(content))
	}
}

func TestResolveConfigPath_FlagWins(t *testing.T) {
	t.Parallel()

	path, err := resolveConfigPath("./flagged.yaml", "./loaded.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != "./flagged.yaml" {
		t.Fatalf("expected flag path, got %q", path)
	}
}

func TestResolveConfigPath_LoadedFallback(t *testing.T) {
	t.Parallel()

	path, err := resolveConfigPath("", "./loaded.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != "./loaded.yaml" {
		t.Fatalf("expected loaded path, got %q", path)
	}
}
