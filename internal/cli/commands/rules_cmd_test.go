package commands

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shellvet/shellvet/internal/cli/config"
)

func runRulesCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	config.ResetConfig()

	cmd := NewRulesCommand()
	out := new(bytes.Buffer)
	errOut := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRulesListJSON(t *testing.T) {
	out, err := runRulesCommand(t, "--format", "json")
	require.NoError(t, err)

	var result RulesOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, len(result.Rules), result.Count)
	assert.GreaterOrEqual(t, result.Count, 8)

	var ids []string
	for _, info := range result.Rules {
		ids = append(ids, info.ID)
	}
	for _, want := range []string{"AR01", "AR02", "QU01", "IN01", "IN02", "SU01", "LS01", "SC01"} {
		assert.Contains(t, ids, want)
	}
}

func TestRulesListGroupFilter(t *testing.T) {
	out, err := runRulesCommand(t, "--group", "arrays", "--format", "json")
	require.NoError(t, err)

	var result RulesOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.NotEmpty(t, result.Rules)
	for _, info := range result.Rules {
		assert.Equal(t, "arrays", info.Group)
	}
}

func TestRulesListTable(t *testing.T) {
	out, err := runRulesCommand(t, "--format", "markdown")
	require.NoError(t, err)
	assert.Contains(t, out, "AR01")
	assert.Contains(t, out, "arrays.initializer-collision")
}

func TestRulesShowDetail(t *testing.T) {
	out, err := runRulesCommand(t, "AR01", "--format", "markdown")
	require.NoError(t, err)
	assert.Contains(t, out, "AR01")
	assert.Contains(t, out, "## Bad Example")
	assert.Contains(t, out, "## Good Example")
}

func TestRulesShowUnknown(t *testing.T) {
	_, err := runRulesCommand(t, "XX99")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
