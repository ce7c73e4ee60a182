package lint

import (
	"github.com/shellvet/shellvet/pkg/parser"
	"github.com/shellvet/shellvet/pkg/token"
)

// Diagnostic IDs reserved for the engine itself rather than a rule.
const (
	// EngineUnparsed reports a source region the parser had to skip.
	EngineUnparsed = "ENG01"
	// EngineRuleFailure reports a rule that panicked on a script.
	EngineRuleFailure = "ENG02"
	// EngineTimeout reports a script whose analysis exceeded the file budget.
	EngineTimeout = "ENG03"
)

// Context carries per-run information into rule checks.
// Rules are stateless; everything they need arrives here or on the script.
type Context struct {
	// Options holds rule-specific options from configuration, keyed by the
	// rule's ConfigKeys.
	Options map[string]any

	// TargetVersions lists the shell versions the analyzed scripts must run
	// on, e.g. "4.2". Empty means unknown, which rules treat conservatively.
	TargetVersions []string
}

// CheckFunc analyzes a parsed script and returns diagnostics.
type CheckFunc func(script *parser.Script, ctx *Context) []Diagnostic

// RuleDef is a data-driven rule definition.
// Rules are stateless - all context comes via the Check function parameters.
type RuleDef struct {
	ID          string    // Unique identifier, e.g., "AR01"
	Name        string    // Human-readable name, e.g., "arrays.initializer-collision"
	Group       string    // Category, e.g., "arrays", "quoting", "scope"
	Description string    // Human-readable description
	Severity    Severity  // Default severity
	Check       CheckFunc // The check function
	ConfigKeys  []string  // Configuration keys this rule accepts

	// Documentation fields for richer rule documentation
	Rationale   string // Why this rule exists, what problems it prevents
	BadExample  string // Script showing the anti-pattern
	GoodExample string // Script showing the correct pattern
	Fix         string // How to fix violations (when not obvious)
}

// Diagnostic represents a lint finding.
type Diagnostic struct {
	RuleID   string         `json:"rule_id"`
	Severity Severity       `json:"severity"`
	Message  string         `json:"message"`
	Pos      token.Position `json:"pos"`
	EndPos   token.Position `json:"end_pos,omitempty"`

	// SuggestedFix is a short human-readable remediation, when one exists.
	SuggestedFix string `json:"suggested_fix,omitempty"`
}

// Rule is the interface all lint rules implement.
type Rule interface {
	// ID returns the unique identifier, e.g., "AR01"
	ID() string

	// Name returns the human-readable name, e.g., "arrays.initializer-collision"
	Name() string

	// Group returns the category, e.g., "arrays", "quoting", "scope"
	Group() string

	// Description returns a human-readable description
	Description() string

	// DefaultSeverity returns the default severity for this rule
	DefaultSeverity() Severity

	// ConfigKeys returns configuration keys this rule accepts
	ConfigKeys() []string

	// Documentation methods for richer rule documentation
	Rationale() string
	BadExample() string
	GoodExample() string
	Fix() string

	// CheckScript analyzes a parsed script and returns diagnostics.
	CheckScript(script *parser.Script, ctx *Context) []Diagnostic
}

// RuleInfo provides metadata about a rule for documentation/tooling.
type RuleInfo struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Group           string   `json:"group"`
	Description     string   `json:"description"`
	DefaultSeverity Severity `json:"default_severity"`
	ConfigKeys      []string `json:"config_keys,omitempty"`

	Rationale   string `json:"rationale,omitempty"`
	BadExample  string `json:"bad_example,omitempty"`
	GoodExample string `json:"good_example,omitempty"`
	Fix         string `json:"fix,omitempty"`
}

// GetRuleInfo extracts metadata from a Rule for documentation/tooling.
func GetRuleInfo(r Rule) RuleInfo {
	return RuleInfo{
		ID:              r.ID(),
		Name:            r.Name(),
		Group:           r.Group(),
		Description:     r.Description(),
		DefaultSeverity: r.DefaultSeverity(),
		ConfigKeys:      r.ConfigKeys(),
		Rationale:       r.Rationale(),
		BadExample:      r.BadExample(),
		GoodExample:     r.GoodExample(),
		Fix:             r.Fix(),
	}
}

// wrappedRuleDef wraps a RuleDef to implement Rule.
type wrappedRuleDef struct {
	def RuleDef
}

// WrapRuleDef wraps a RuleDef to implement the Rule interface.
func WrapRuleDef(def RuleDef) Rule {
	return &wrappedRuleDef{def: def}
}

func (w *wrappedRuleDef) ID() string                { return w.def.ID }
func (w *wrappedRuleDef) Name() string              { return w.def.Name }
func (w *wrappedRuleDef) Group() string             { return w.def.Group }
func (w *wrappedRuleDef) Description() string       { return w.def.Description }
func (w *wrappedRuleDef) DefaultSeverity() Severity { return w.def.Severity }
func (w *wrappedRuleDef) ConfigKeys() []string      { return w.def.ConfigKeys }
func (w *wrappedRuleDef) Rationale() string         { return w.def.Rationale }
func (w *wrappedRuleDef) BadExample() string        { return w.def.BadExample }
func (w *wrappedRuleDef) GoodExample() string       { return w.def.GoodExample }
func (w *wrappedRuleDef) Fix() string               { return w.def.Fix }

func (w *wrappedRuleDef) CheckScript(script *parser.Script, ctx *Context) []Diagnostic {
	return w.def.Check(script, ctx)
}

// Unwrap returns the underlying RuleDef.
func (w *wrappedRuleDef) Unwrap() RuleDef {
	return w.def
}
