package dbt

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	"itsmpipe/config"
)

// Runner invokes the dbt toolchain against the staged table. The tool
// itself is opaque: success is exit status zero, nothing else.
type Runner struct {
	dir         string
	profilesDir string
	binary      string
	logger      *zap.Logger
}

func NewRunner(cfg config.DbtConfig, logger *zap.Logger) *Runner {
	binary := strings.TrimSpace(cfg.Binary)
	if binary == "" {
		binary = "dbt"
	}
	profilesDir := strings.TrimSpace(cfg.ProfilesDir)
	if profilesDir == "" {
		profilesDir = "."
	}

	return &Runner{
		dir:         cfg.Dir,
		profilesDir: profilesDir,
		binary:      binary,
		logger:      logger,
	}
}

// Run executes the transformation models.
func (r *Runner) Run(ctx context.Context) error {
	return r.invoke(ctx, "run")
}

// Test executes the toolchain's verification suite.
func (r *Runner) Test(ctx context.Context) error {
	return r.invoke(ctx, "test")
}

func (r *Runner) invoke(ctx context.Context, subcommand string) error {
	cmd := r.command(ctx, subcommand)

	r.logger.Info("invoking dbt",
		zap.String("subcommand", subcommand),
		zap.String("dir", cmd.Dir),
	)

	if err := cmd.Run(); err != nil {
		r.logger.Error("dbt invocation failed",
			zap.String("subcommand", subcommand),
			zap.Error(err),
		)
		return fmt.Errorf("dbt %s in %s: %w", subcommand, cmd.Dir, err)
	}
	return nil
}

func (r *Runner) command(ctx context.Context, subcommand string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, r.binary, subcommand, "--profiles-dir", r.profilesDir)
	cmd.Dir = r.dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd
}
