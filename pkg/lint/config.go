package lint

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// ErrInvalidConfig marks configuration errors detected before any source is
// analyzed. Callers match it with errors.Is.
var ErrInvalidConfig = errors.New("invalid lint configuration")

// DefaultFileTimeout bounds analysis of a single script.
const DefaultFileTimeout = 5 * time.Second

// Config controls which rules run, their severity and the engine limits.
type Config struct {
	// DisabledRules contains rule IDs to skip
	DisabledRules map[string]bool

	// SeverityOverrides changes the default severity of rules
	SeverityOverrides map[string]Severity

	// RuleOptions holds per-rule options keyed by rule ID
	RuleOptions map[string]map[string]any

	// TargetShellVersions lists shell versions the scripts must run on,
	// e.g. "4.2". Empty means unknown.
	TargetShellVersions []string

	// Workers caps concurrent script analysis. Zero means one per CPU.
	Workers int

	// FileTimeout bounds analysis of a single script. Zero means the default.
	FileTimeout time.Duration
}

// NewConfig creates a default configuration with all rules enabled.
func NewConfig() *Config {
	return &Config{
		DisabledRules:     make(map[string]bool),
		SeverityOverrides: make(map[string]Severity),
		RuleOptions:       make(map[string]map[string]any),
	}
}

// IsDisabled returns true if the rule should be skipped.
func (c *Config) IsDisabled(ruleID string) bool {
	if c == nil {
		return false
	}
	return c.DisabledRules[ruleID]
}

// GetSeverity returns the severity for a rule, applying any override.
func (c *Config) GetSeverity(ruleID string, defaultSeverity Severity) Severity {
	if c != nil {
		if sev, ok := c.SeverityOverrides[ruleID]; ok {
			return sev
		}
	}
	return defaultSeverity
}

// GetRuleOptions returns the options configured for a rule, or nil.
func (c *Config) GetRuleOptions(ruleID string) map[string]any {
	if c == nil {
		return nil
	}
	return c.RuleOptions[ruleID]
}

// Disable disables a rule by ID.
func (c *Config) Disable(ruleID string) *Config {
	c.DisabledRules[ruleID] = true
	return c
}

// SetSeverity overrides the severity for a rule.
func (c *Config) SetSeverity(ruleID string, severity Severity) *Config {
	c.SeverityOverrides[ruleID] = severity
	return c
}

// SetRuleOption sets one option for a rule.
func (c *Config) SetRuleOption(ruleID, key string, value any) *Config {
	if c.RuleOptions[ruleID] == nil {
		c.RuleOptions[ruleID] = make(map[string]any)
	}
	c.RuleOptions[ruleID][key] = value
	return c
}

// GetFileTimeout returns the per-script analysis budget.
func (c *Config) GetFileTimeout() time.Duration {
	if c == nil || c.FileTimeout <= 0 {
		return DefaultFileTimeout
	}
	return c.FileTimeout
}

var versionPattern = regexp.MustCompile(`^\d+(\.\d+)*$`)

// Validate checks the configuration against the registered rules. It fails
// fast so a misconfigured run rejects before any source is analyzed.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	for id := range c.DisabledRules {
		if err := validateRuleID(id); err != nil {
			return err
		}
	}
	for id := range c.SeverityOverrides {
		if err := validateRuleID(id); err != nil {
			return err
		}
	}
	for id := range c.RuleOptions {
		if err := validateRuleID(id); err != nil {
			return err
		}
	}
	for _, v := range c.TargetShellVersions {
		if !versionPattern.MatchString(v) {
			return fmt.Errorf("%w: malformed shell version %q", ErrInvalidConfig, v)
		}
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative", ErrInvalidConfig)
	}
	return nil
}

func validateRuleID(id string) error {
	if _, ok := GetByID(id); !ok {
		return fmt.Errorf("%w: unknown rule %q", ErrInvalidConfig, id)
	}
	return nil
}
