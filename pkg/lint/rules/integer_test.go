package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIN01_LateAttribute(t *testing.T) {
	tests := []struct {
		name      string
		src       string
		wantDiags int
	}{
		{
			name: "attribute after non-numeric assignment",
			src: `v=abc
declare -i v`,
			wantDiags: 1,
		},
		{
			name: "attribute after numeric assignment",
			src: `v=5
declare -i v`,
			wantDiags: 0,
		},
		{
			name:      "attribute before assignment",
			src:       `declare -i v=0`,
			wantDiags: 0,
		},
		{
			name: "late attribute then integer comparison",
			src: `v=abc
declare -i v
[[ $v -eq 0 ]]`,
			wantDiags: 2,
		},
		{
			name: "validation suppresses the comparison diagnostic",
			src: `v=abc
declare -i v
[[ $v =~ ^[0-9]+$ ]]
[[ $v -eq 0 ]]`,
			wantDiags: 1,
		},
		{
			name: "late attribute then arithmetic comparison",
			src: `v=abc
declare -i v
(( v > 3 ))`,
			wantDiags: 2,
		},
		{
			name: "string comparison is fine",
			src: `v=abc
declare -i v
[[ $v == abc ]]`,
			wantDiags: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := runRule(t, tt.src, "IN01")
			assert.Len(t, diags, tt.wantDiags)
		})
	}
}

func TestIN02_UninitializedUse(t *testing.T) {
	tests := []struct {
		name      string
		src       string
		wantDiags int
	}{
		{
			name: "integer array slot read before assignment",
			src: `declare -ai totals
totals[1]=10
(( sum = totals[0] + totals[1] ))`,
			wantDiags: 1,
		},
		{
			name: "fully initialized array",
			src: `declare -ai totals=([0]=1 [1]=2)
(( sum = totals[0] + totals[1] ))`,
			wantDiags: 0,
		},
		{
			name: "integer scalar read before assignment",
			src: `declare -i n
(( x = n + 1 ))`,
			wantDiags: 1,
		},
		{
			name: "initialized integer scalar",
			src: `declare -i n=0
(( x = n + 1 ))`,
			wantDiags: 0,
		},
		{
			name: "unset element then read",
			src: `declare -ai a=([0]=1 [1]=2)
unset 'a[1]'
(( x = a[1] ))`,
			wantDiags: 1,
		},
		{
			name: "dynamic index assignment blinds the rule",
			src: `declare -ai a
a[$k]=1
(( x = a[5] ))`,
			wantDiags: 0,
		},
		{
			name: "integer test operator counts as integer context",
			src: `declare -i n
[[ $n -gt 0 ]]`,
			wantDiags: 1,
		},
		{
			name: "no integer attribute, no tracking",
			src: `declare -a a
(( x = a[0] ))`,
			wantDiags: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := runRule(t, tt.src, "IN02")
			assert.Len(t, diags, tt.wantDiags)
		})
	}
}

func TestIN02_MessageNamesSlot(t *testing.T) {
	diags := runRule(t, "declare -ai totals\ntotals[1]=10\n(( s = totals[0] ))", "IN02")
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "element 0")
	assert.Contains(t, diags[0].Message, `"totals"`)
}
