package config

import (
	"fmt"

	"github.com/shellvet/shellvet/pkg/lint"
)

// validOutputs are the accepted values for the output setting.
var validOutputs = map[string]bool{
	"":         true,
	"auto":     true,
	"text":     true,
	"markdown": true,
	"json":     true,
	"yaml":     true,
}

// Validate checks the CLI configuration, including the embedded
// rule configuration against the registered rules.
func (c *Config) Validate() error {
	if !validOutputs[c.OutputFormat] {
		return fmt.Errorf("invalid output format %q (want auto, text, markdown, json, or yaml)", c.OutputFormat)
	}
	if c.Severity != "" {
		if _, ok := lint.ParseSeverity(c.Severity); !ok {
			return fmt.Errorf("invalid severity %q (want error, warning, info, or hint)", c.Severity)
		}
	}
	if c.FileTimeout < 0 {
		return fmt.Errorf("file_timeout must not be negative")
	}
	return c.ToLintConfig().Validate()
}
