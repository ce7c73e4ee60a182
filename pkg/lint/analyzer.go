package lint

import (
	"context"
	"fmt"
	"sort"

	"github.com/shellvet/shellvet/pkg/parser"
)

// Analyzer runs lint rules against parsed scripts.
type Analyzer struct {
	config *Config
}

// NewAnalyzer creates a new analyzer with optional configuration.
func NewAnalyzer(config *Config) *Analyzer {
	if config == nil {
		config = NewConfig()
	}
	return &Analyzer{config: config}
}

// AnalyzeScript runs all enabled rules against one parsed script. The rules
// run in ID order and the returned diagnostics are sorted by position, so the
// same input always produces the same output.
//
// The context deadline is checked between rules. On expiry the diagnostics
// collected so far are returned together with the context error; the caller
// decides how to report the truncation.
func (a *Analyzer) AnalyzeScript(ctx context.Context, script *parser.Script) ([]Diagnostic, error) {
	if script == nil {
		return nil, nil
	}

	diagnostics := unparsedDiagnostics(script)

	rctx := &Context{TargetVersions: a.config.TargetShellVersions}

	for _, rule := range GetAllRules() {
		if a.config.IsDisabled(rule.ID()) {
			continue
		}
		if err := ctx.Err(); err != nil {
			sortDiagnostics(diagnostics)
			return diagnostics, err
		}

		rctx.Options = a.config.GetRuleOptions(rule.ID())
		diags := a.runRule(rule, script, rctx)

		for i := range diags {
			if diags[i].RuleID == rule.ID() {
				diags[i].Severity = a.config.GetSeverity(rule.ID(), diags[i].Severity)
			}
		}
		diagnostics = append(diagnostics, diags...)
	}

	sortDiagnostics(diagnostics)
	return diagnostics, nil
}

// runRule executes one rule, converting a panic into a diagnostic so a single
// broken rule cannot take down the whole run.
func (a *Analyzer) runRule(rule Rule, script *parser.Script, rctx *Context) (diags []Diagnostic) {
	defer func() {
		if r := recover(); r != nil {
			diags = []Diagnostic{{
				RuleID:   EngineRuleFailure,
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("rule %s failed on this script: %v", rule.ID(), r),
			}}
		}
	}()
	return rule.CheckScript(script, rctx)
}

// unparsedDiagnostics reports every region the parser had to skip.
func unparsedDiagnostics(script *parser.Script) []Diagnostic {
	var diags []Diagnostic
	for _, region := range script.Regions {
		diags = append(diags, Diagnostic{
			RuleID:   EngineUnparsed,
			Severity: SeverityInfo,
			Message:  "could not parse this region (" + region.Reason + "); it was not analyzed",
			Pos:      region.Span.Start,
			EndPos:   region.Span.End,
		})
	}
	return diags
}

func sortDiagnostics(diags []Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		if diags[i].Pos.Offset != diags[j].Pos.Offset {
			return diags[i].Pos.Offset < diags[j].Pos.Offset
		}
		return diags[i].RuleID < diags[j].RuleID
	})
}
