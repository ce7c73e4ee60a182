package lint_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/shellvet/shellvet/pkg/lint"
)

func TestConfigAccessors(t *testing.T) {
	cfg := lint.NewConfig().
		Disable("ZA01").
		SetSeverity("ZB01", lint.SeverityHint).
		SetRuleOption("ZB01", "limit", 3)

	assert.True(t, cfg.IsDisabled("ZA01"))
	assert.False(t, cfg.IsDisabled("ZB01"))
	assert.Equal(t, lint.SeverityHint, cfg.GetSeverity("ZB01", lint.SeverityError))
	assert.Equal(t, lint.SeverityError, cfg.GetSeverity("ZC01", lint.SeverityError))
	assert.Equal(t, 3, lint.GetIntOption(cfg.GetRuleOptions("ZB01"), "limit", 0))
}

func TestConfigNilSafe(t *testing.T) {
	var cfg *lint.Config
	assert.False(t, cfg.IsDisabled("ZA01"))
	assert.Equal(t, lint.SeverityInfo, cfg.GetSeverity("ZA01", lint.SeverityInfo))
	assert.Nil(t, cfg.GetRuleOptions("ZA01"))
	assert.Equal(t, lint.DefaultFileTimeout, cfg.GetFileTimeout())
	assert.NoError(t, cfg.Validate())
}

func TestConfigFileTimeout(t *testing.T) {
	cfg := lint.NewConfig()
	assert.Equal(t, lint.DefaultFileTimeout, cfg.GetFileTimeout())
	cfg.FileTimeout = 250 * time.Millisecond
	assert.Equal(t, 250*time.Millisecond, cfg.GetFileTimeout())
}

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		in    string
		want  lint.Severity
		valid bool
	}{
		{"error", lint.SeverityError, true},
		{"WARNING", lint.SeverityWarning, true},
		{"info", lint.SeverityInfo, true},
		{"hint", lint.SeverityHint, true},
		{"fatal", lint.SeverityWarning, false},
	}
	for _, tt := range tests {
		got, ok := lint.ParseSeverity(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.valid, ok, tt.in)
	}
}

func TestSeverityAtLeast(t *testing.T) {
	assert.True(t, lint.SeverityError.AtLeast(lint.SeverityWarning))
	assert.True(t, lint.SeverityWarning.AtLeast(lint.SeverityWarning))
	assert.False(t, lint.SeverityHint.AtLeast(lint.SeverityWarning))
}
