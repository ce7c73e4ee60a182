// Package commands implements the shellvet subcommands.
package commands

import (
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/shellvet/shellvet/internal/cli/config"
	"github.com/shellvet/shellvet/internal/cli/output"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext assembles the config, logger, and renderer for a command.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())

	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// getConfig returns the current configuration.
// It uses config.GetCurrentConfig() if available, otherwise falls back to environment variables.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	// Fallback: read from environment with defaults
	cfg := &config.Config{
		Verbose:      os.Getenv("SHELLVET_VERBOSE") == "true",
		OutputFormat: getEnvOrDefault("SHELLVET_OUTPUT", config.DefaultOutput),
		Severity:     getEnvOrDefault("SHELLVET_SEVERITY", config.DefaultSeverity),
	}
	if d, err := time.ParseDuration(os.Getenv("SHELLVET_FILE_TIMEOUT")); err == nil {
		cfg.FileTimeout = d
	}
	return cfg
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
