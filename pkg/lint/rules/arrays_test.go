package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAR01_InitializerCollision(t *testing.T) {
	tests := []struct {
		name      string
		src       string
		wantDiags int
	}{
		{
			name:      "dense mixed initializers do not collide",
			src:       `a=(A [1]=B C [3]=D)`,
			wantDiags: 0,
		},
		{
			name:      "positional entry lands on occupied index",
			src:       `a=(A [2]=B [1]=C D)`,
			wantDiags: 1,
		},
		{
			name:      "purely positional list",
			src:       `a=(one two three)`,
			wantDiags: 0,
		},
		{
			name:      "duplicate designated index",
			src:       `a=([1]=x [1]=y)`,
			wantDiags: 1,
		},
		{
			name:      "declare with initializer list",
			src:       `declare -a a=([0]=x y [1]=z)`,
			wantDiags: 1,
		},
		{
			name:      "non-static index stops the simulation",
			src:       `a=([$k]=x y)`,
			wantDiags: 0,
		},
		{
			name:      "append assignment is not simulated",
			src:       `a+=([0]=x y)`,
			wantDiags: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := runRule(t, tt.src, "AR01")
			assert.Len(t, diags, tt.wantDiags)
		})
	}
}

func TestAR01_NamesBothEntries(t *testing.T) {
	diags := runRule(t, `a=(A [2]=B [1]=C D)`, "AR01")
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "index 2")
	assert.Contains(t, diags[0].Message, `"B"`)
	assert.Contains(t, diags[0].Message, `"D"`)
}

func TestAR02_LengthTraversal(t *testing.T) {
	tests := []struct {
		name      string
		src       string
		wantDiags int
	}{
		{
			name:      "seq over array length",
			src:       `for i in $(seq 1 ${#files[@]}); do echo "${files[$i]}"; done`,
			wantDiags: 1,
		},
		{
			name:      "keys expansion loop is safe",
			src:       `for i in "${!files[@]}"; do echo "${files[$i]}"; done`,
			wantDiags: 0,
		},
		{
			name:      "seq with unrelated bound",
			src:       `for i in $(seq 1 10); do echo "$i"; done`,
			wantDiags: 0,
		},
		{
			name:      "values loop is safe",
			src:       `for f in "${files[@]}"; do echo "$f"; done`,
			wantDiags: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := runRule(t, tt.src, "AR02")
			assert.Len(t, diags, tt.wantDiags)
		})
	}
}

func TestAR02_SuggestsKeysLoop(t *testing.T) {
	diags := runRule(t, `for i in $(seq 1 ${#A[@]}); do :; done`, "AR02")
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].SuggestedFix, `"${!A[@]}"`)
}

// The sparse-array scenario end to end: only the traversal rule fires, at
// the loop header.
func TestSparseTraversalScenario(t *testing.T) {
	src := `unset A
declare -a A
A[1]=x
for i in $(seq 1 ${#A[@]}); do
  echo "${A[$i]}"
done`

	diags := analyze(t, nil, src)
	require.Len(t, diags, 1)
	assert.Equal(t, "AR02", diags[0].RuleID)
	assert.Equal(t, 4, diags[0].Pos.Line)
	assert.Equal(t, 1, diags[0].Pos.Column)
}

func TestAnalysisIsDeterministic(t *testing.T) {
	src := `v=abc
declare -i v
a=(A [2]=B [1]=C D)
set -u
declare -a queue
for job in "${queue[@]}"; do run "$job"; done
[[ $v -eq 0 ]] && ls -a | tail -n +3`

	first := analyze(t, nil, src)
	second := analyze(t, nil, src)
	assert.Equal(t, first, second)
	assert.NotEmpty(t, first)
}
