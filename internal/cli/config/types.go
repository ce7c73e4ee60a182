// Package config provides configuration management for the shellvet CLI.
//
// Configuration is layered: built-in defaults, then a shellvet.yaml file
// found by searching upward from the working directory, then SHELLVET_
// environment variables, then command-line flags.
package config

import (
	"strings"
	"time"

	"github.com/shellvet/shellvet/pkg/lint"
)

// Default configuration values.
const (
	DefaultSeverity = "warning"
	DefaultOutput   = "auto" // Auto-detect: TTY=text, non-TTY=markdown
)

// Config holds all CLI configuration options.
type Config struct {
	Verbose       bool          `koanf:"verbose"`
	OutputFormat  string        `koanf:"output"`
	Severity      string        `koanf:"severity"`
	Workers       int           `koanf:"workers"`
	FileTimeout   time.Duration `koanf:"file_timeout"`
	ShellVersions []string      `koanf:"shell_versions"`
	Rules         *RulesConfig  `koanf:"rules"`
}

// RulesConfig holds per-rule configuration from the config file.
type RulesConfig struct {
	Disabled []string                  `koanf:"disabled"`
	Severity map[string]string         `koanf:"severity"`
	Options  map[string]map[string]any `koanf:"options"`
}

// ToLintConfig converts the CLI configuration into an engine config.
func (c *Config) ToLintConfig() *lint.Config {
	lintCfg := lint.NewConfig()
	lintCfg.TargetShellVersions = c.ShellVersions
	lintCfg.Workers = c.Workers
	if c.FileTimeout > 0 {
		lintCfg.FileTimeout = c.FileTimeout
	}

	if c.Rules != nil {
		for _, id := range c.Rules.Disabled {
			lintCfg.Disable(strings.TrimSpace(id))
		}
		for id, sev := range c.Rules.Severity {
			if s, ok := lint.ParseSeverity(sev); ok {
				lintCfg.SetSeverity(id, s)
			}
		}
		for id, opts := range c.Rules.Options {
			for key, val := range opts {
				lintCfg.SetRuleOption(id, key, val)
			}
		}
	}

	return lintCfg
}

// SeverityThreshold returns the configured minimum severity,
// falling back to warning for unknown values.
func (c *Config) SeverityThreshold() lint.Severity {
	if s, ok := lint.ParseSeverity(c.Severity); ok {
		return s
	}
	return lint.SeverityWarning
}
