package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shellvet/shellvet/pkg/lint"
)

func TestSU01_UnsetExpansionGap(t *testing.T) {
	tests := []struct {
		name      string
		src       string
		wantDiags int
	}{
		{
			name: "whole-array expansion of empty array under nounset",
			src: `set -u
declare -a queue
for job in "${queue[@]}"; do run "$job"; done`,
			wantDiags: 1,
		},
		{
			name: "keys expansion of empty array under nounset",
			src: `set -o nounset
declare -A seen
echo "${!seen[@]}"`,
			wantDiags: 1,
		},
		{
			name: "no strict mode, no diagnostic",
			src: `declare -a queue
for job in "${queue[@]}"; do run "$job"; done`,
			wantDiags: 0,
		},
		{
			name: "populated array is fine",
			src: `set -u
queue=(a b)
for job in "${queue[@]}"; do run "$job"; done`,
			wantDiags: 0,
		},
		{
			name: "element assignment populates the array",
			src: `set -u
declare -a queue
queue[0]=x
for job in "${queue[@]}"; do run "$job"; done`,
			wantDiags: 0,
		},
		{
			name: "unset array under combined flags",
			src: `set -euo pipefail
declare -a queue
echo "${queue[@]}"`,
			wantDiags: 1,
		},
		{
			name: "set +u turns strict mode back off",
			src: `set -u
set +u
declare -a queue
echo "${queue[@]}"`,
			wantDiags: 0,
		},
		{
			name: "default modifier is an accepted guard",
			src: `set -u
declare -a queue
echo "${queue[@]:-}"`,
			wantDiags: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := runRule(t, tt.src, "SU01")
			var warnings []lint.Diagnostic
			for _, d := range diags {
				if d.Severity == lint.SeverityWarning {
					warnings = append(warnings, d)
				}
			}
			assert.Len(t, warnings, tt.wantDiags)
		})
	}
}

func TestSU01_FixNamesBothGuardIdioms(t *testing.T) {
	diags := runRule(t, "set -u\ndeclare -a queue\necho \"${queue[@]}\"", "SU01")
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].SuggestedFix, "${#queue[@]}")
	assert.Contains(t, diags[0].SuggestedFix, `${queue[@]+"${queue[@]}"}`)
}

func TestSU01_KeysErrorModifierInfo(t *testing.T) {
	diags := runRule(t, `echo "${!map[@]?}"`, "SU01")
	require.Len(t, diags, 1)
	assert.Equal(t, lint.SeverityInfo, diags[0].Severity)
	assert.Contains(t, diags[0].Message, "version-dependent")
}
