package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shellvet/shellvet/pkg/lint"
)

const globalAssocScript = `setup() {
  declare -gA cache
  cache[key]=value
}`

func TestSC01_GlobalAssocDeclare(t *testing.T) {
	tests := []struct {
		name      string
		src       string
		targets   []string
		wantDiags int
	}{
		{
			name:      "no target versions configured, emit conservatively",
			src:       globalAssocScript,
			wantDiags: 1,
		},
		{
			name:      "affected version targeted",
			src:       globalAssocScript,
			targets:   []string{"4.2"},
			wantDiags: 1,
		},
		{
			name:      "affected point release targeted",
			src:       globalAssocScript,
			targets:   []string{"4.2.37"},
			wantDiags: 1,
		},
		{
			name:      "only unaffected versions targeted",
			src:       globalAssocScript,
			targets:   []string{"5.0", "5.1"},
			wantDiags: 0,
		},
		{
			name:      "top-level declare is fine",
			src:       `declare -gA cache`,
			wantDiags: 0,
		},
		{
			name: "function-local assoc without global promotion",
			src: `setup() {
  declare -A cache
}`,
			wantDiags: 0,
		},
		{
			name: "separate flag words",
			src: `setup() {
  declare -g -A cache
}`,
			wantDiags: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := lint.NewConfig()
			cfg.TargetShellVersions = tt.targets

			var diags []lint.Diagnostic
			for _, d := range analyze(t, cfg, tt.src) {
				if d.RuleID == "SC01" {
					diags = append(diags, d)
				}
			}
			assert.Len(t, diags, tt.wantDiags)
		})
	}
}

func TestSC01_AffectedVersionsOption(t *testing.T) {
	cfg := lint.NewConfig()
	cfg.TargetShellVersions = []string{"4.4"}
	cfg.SetRuleOption("SC01", "affected-versions", []string{"4.2", "4.4"})

	var diags []lint.Diagnostic
	for _, d := range analyze(t, cfg, globalAssocScript) {
		if d.RuleID == "SC01" {
			diags = append(diags, d)
		}
	}
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "4.4")
}
