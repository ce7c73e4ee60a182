package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLS01_OffsetSkip(t *testing.T) {
	tests := []struct {
		name      string
		src       string
		wantDiags int
	}{
		{
			name:      "ls -a into tail offset",
			src:       `ls -a /tmp | tail -n +3`,
			wantDiags: 1,
		},
		{
			name:      "combined short flags",
			src:       `ls -la | tail +3`,
			wantDiags: 1,
		},
		{
			name:      "ls -A excludes dot entries itself",
			src:       `ls -A /tmp | tail -n +3`,
			wantDiags: 0,
		},
		{
			name:      "ls -a without offset filter",
			src:       `ls -a /tmp | head -2`,
			wantDiags: 0,
		},
		{
			name:      "tail with a line count, not an offset",
			src:       `ls -a /tmp | tail -n 3`,
			wantDiags: 0,
		},
		{
			name:      "longer pipeline still matches the adjacent pair",
			src:       `ls -a "$dir" | tail -n +3 | grep log`,
			wantDiags: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := runRule(t, tt.src, "LS01")
			assert.Len(t, diags, tt.wantDiags)
		})
	}
}

func TestLS01_PointsAtListing(t *testing.T) {
	diags := runRule(t, "ls -a /tmp | tail -n +3", "LS01")
	require.Len(t, diags, 1)
	assert.Equal(t, 1, diags[0].Pos.Column)
	assert.Contains(t, diags[0].SuggestedFix, "ls -A")
}
