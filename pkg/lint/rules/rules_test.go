package rules_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shellvet/shellvet/pkg/lint"
	_ "github.com/shellvet/shellvet/pkg/lint/rules" // register rules
	"github.com/shellvet/shellvet/pkg/parser"
)

// analyze runs the full rule set over one script.
func analyze(t *testing.T, cfg *lint.Config, src string) []lint.Diagnostic {
	t.Helper()
	script := parser.Parse("test.sh", src)
	diags, err := lint.NewAnalyzer(cfg).AnalyzeScript(context.Background(), script)
	require.NoError(t, err)
	return diags
}

// runRule runs the full rule set and keeps only one rule's diagnostics.
func runRule(t *testing.T, src, ruleID string) []lint.Diagnostic {
	t.Helper()
	var filtered []lint.Diagnostic
	for _, d := range analyze(t, nil, src) {
		if d.RuleID == ruleID {
			filtered = append(filtered, d)
		}
	}
	return filtered
}
