package lint_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shellvet/shellvet/pkg/lint"
	"github.com/shellvet/shellvet/pkg/parser"
	"github.com/shellvet/shellvet/pkg/token"
)

// registerTemp installs a rule for one test and clears the registry after.
func registerTemp(t *testing.T, defs ...lint.RuleDef) {
	t.Helper()
	lint.Clear()
	for _, def := range defs {
		lint.Register(def)
	}
	t.Cleanup(lint.Clear)
}

func flagAt(id string, sev lint.Severity, line int) lint.RuleDef {
	return lint.RuleDef{
		ID:       id,
		Name:     "test." + id,
		Group:    "test",
		Severity: sev,
		Check: func(script *parser.Script, _ *lint.Context) []lint.Diagnostic {
			return []lint.Diagnostic{{
				RuleID:   id,
				Severity: sev,
				Message:  "finding from " + id,
				Pos:      token.Position{Line: line, Column: 1, Offset: line * 100},
			}}
		},
	}
}

func TestAnalyzerReportsUnparsedRegions(t *testing.T) {
	registerTemp(t)

	script := parser.Parse("test.sh", "echo ok\necho 'oops")
	diags, err := lint.NewAnalyzer(nil).AnalyzeScript(context.Background(), script)
	require.NoError(t, err)

	require.Len(t, diags, 1)
	assert.Equal(t, lint.EngineUnparsed, diags[0].RuleID)
	assert.Equal(t, lint.SeverityInfo, diags[0].Severity)
	assert.Equal(t, 2, diags[0].Pos.Line)
}

func TestAnalyzerRecoversRulePanic(t *testing.T) {
	panicking := lint.RuleDef{
		ID:    "ZP01",
		Name:  "test.panic",
		Group: "test",
		Check: func(*parser.Script, *lint.Context) []lint.Diagnostic {
			panic("boom")
		},
	}
	registerTemp(t, panicking, flagAt("ZZ01", lint.SeverityWarning, 1))

	script := parser.Parse("test.sh", "echo hi")
	diags, err := lint.NewAnalyzer(nil).AnalyzeScript(context.Background(), script)
	require.NoError(t, err)

	require.Len(t, diags, 2)
	var ids []string
	for _, d := range diags {
		ids = append(ids, d.RuleID)
	}
	assert.Contains(t, ids, lint.EngineRuleFailure)
	assert.Contains(t, ids, "ZZ01")
	for _, d := range diags {
		if d.RuleID == lint.EngineRuleFailure {
			assert.Contains(t, d.Message, "ZP01")
		}
	}
}

func TestAnalyzerAppliesConfig(t *testing.T) {
	registerTemp(t,
		flagAt("ZA01", lint.SeverityWarning, 1),
		flagAt("ZB01", lint.SeverityWarning, 2),
	)

	script := parser.Parse("test.sh", "echo hi")

	t.Run("disabled rule is skipped", func(t *testing.T) {
		cfg := lint.NewConfig().Disable("ZA01")
		diags, err := lint.NewAnalyzer(cfg).AnalyzeScript(context.Background(), script)
		require.NoError(t, err)
		require.Len(t, diags, 1)
		assert.Equal(t, "ZB01", diags[0].RuleID)
	})

	t.Run("severity override applies", func(t *testing.T) {
		cfg := lint.NewConfig().SetSeverity("ZA01", lint.SeverityError)
		diags, err := lint.NewAnalyzer(cfg).AnalyzeScript(context.Background(), script)
		require.NoError(t, err)
		require.Len(t, diags, 2)
		assert.Equal(t, lint.SeverityError, diags[0].Severity)
		assert.Equal(t, lint.SeverityWarning, diags[1].Severity)
	})
}

func TestAnalyzerSortsByPosition(t *testing.T) {
	// Register in an order that disagrees with the reported positions.
	registerTemp(t,
		flagAt("ZA01", lint.SeverityWarning, 5),
		flagAt("ZB01", lint.SeverityWarning, 2),
	)

	script := parser.Parse("test.sh", "echo hi")
	diags, err := lint.NewAnalyzer(nil).AnalyzeScript(context.Background(), script)
	require.NoError(t, err)

	require.Len(t, diags, 2)
	assert.Equal(t, "ZB01", diags[0].RuleID)
	assert.Equal(t, "ZA01", diags[1].RuleID)
}

func TestRegistryRoundTrip(t *testing.T) {
	registerTemp(t, flagAt("ZA01", lint.SeverityHint, 1))

	def, ok := lint.GetByID("ZA01")
	require.True(t, ok)
	assert.Equal(t, "test.ZA01", def.Name)

	assert.Equal(t, 1, lint.Count())
	assert.Len(t, lint.GetByGroup("test"), 1)
	assert.Empty(t, lint.GetByGroup("other"))

	rules := lint.GetAllRules()
	require.Len(t, rules, 1)
	info := lint.GetRuleInfo(rules[0])
	assert.Equal(t, "ZA01", info.ID)
	assert.Equal(t, lint.SeverityHint, info.DefaultSeverity)
}
