package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shellvet/shellvet/internal/cli/config"
	"github.com/shellvet/shellvet/internal/cli/output"
	"github.com/shellvet/shellvet/internal/cli/testutil"
	"github.com/shellvet/shellvet/pkg/lint"
)

func writeScript(dir, name, content string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, name), []byte(content), 0755)
}

func runCheckCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	config.ResetConfig()

	cmd := NewCheckCommand()
	out := new(bytes.Buffer)
	errOut := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCheckFindsIssuesInDirectory(t *testing.T) {
	dir := testutil.SetupTestScripts(t)

	out, err := runCheckCommand(t, dir, "--format", "json")
	require.Error(t, err, "findings should produce a non-zero exit")
	assert.EqualError(t, err, "issues found")

	var result output.CheckOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))

	assert.Equal(t, 2, result.Summary.FilesChecked, "notes.txt must be skipped")
	require.Len(t, result.Files, 1)
	assert.Equal(t, filepath.Join(dir, "flagged.sh"), result.Files[0].Path)

	var ids []string
	for _, d := range result.Files[0].Diagnostics {
		ids = append(ids, d.RuleID)
	}
	assert.Contains(t, ids, "AR01")
	assert.Contains(t, ids, "QU01")
}

func TestCheckJSONErrorOutputIsSingleDocument(t *testing.T) {
	dir := testutil.SetupTestScripts(t)

	out, err := runCheckCommand(t, dir, "--format", "json")
	require.Error(t, err)

	var result output.CheckOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result),
		"a findings error must not leak usage text into the output stream")
	assert.NotContains(t, out, "Usage:")
}

func TestCheckCleanScriptPasses(t *testing.T) {
	dir := testutil.SetupTestScripts(t)

	out, err := runCheckCommand(t, filepath.Join(dir, "clean.sh"))
	require.NoError(t, err)
	assert.Contains(t, out, "No issues found")
}

func TestCheckDisableFlag(t *testing.T) {
	dir := testutil.SetupTestScripts(t)

	_, err := runCheckCommand(t, filepath.Join(dir, "flagged.sh"), "--disable", "AR01,QU01")
	require.NoError(t, err)
}

func TestCheckRuleOnlyFlag(t *testing.T) {
	dir := testutil.SetupTestScripts(t)

	out, err := runCheckCommand(t, filepath.Join(dir, "flagged.sh"), "--rule", "AR01", "--format", "json")
	require.Error(t, err)

	var result output.CheckOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result.Files, 1)
	for _, d := range result.Files[0].Diagnostics {
		assert.Equal(t, "AR01", d.RuleID)
	}
}

func TestCheckSeverityThreshold(t *testing.T) {
	dir := testutil.SetupTestScripts(t)

	// QU01 is an error; AR01 is a warning. At the error threshold only
	// QU01 survives.
	out, err := runCheckCommand(t, filepath.Join(dir, "flagged.sh"), "--severity", "error", "--format", "json")
	require.Error(t, err)

	var result output.CheckOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result.Files, 1)
	for _, d := range result.Files[0].Diagnostics {
		assert.Equal(t, lint.SeverityError.String(), d.Severity)
	}
}

func TestCheckRejectsUnknownRule(t *testing.T) {
	dir := testutil.SetupTestScripts(t)

	_, err := runCheckCommand(t, dir, "--disable", "NOPE")
	require.Error(t, err)
	assert.ErrorIs(t, err, lint.ErrInvalidConfig)
}

func TestCheckNoScriptsFound(t *testing.T) {
	_, err := runCheckCommand(t, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no shell scripts found")
}

func TestCollectScriptsSkipsHiddenDirs(t *testing.T) {
	dir := testutil.SetupTestScripts(t)
	hidden := filepath.Join(dir, ".git")
	require.NoError(t, writeScript(hidden, "hook.sh", "echo hi\n"))

	files, err := collectScripts([]string{dir})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "clean.sh"),
		filepath.Join(dir, "flagged.sh"),
	}, files)
}

func TestRenderCheckResultsMarkdownIsPlain(t *testing.T) {
	tr := testutil.NewTestRendererMarkdown()
	results := []lint.Result{{
		SourceID: "deploy.sh",
		Diagnostics: []lint.Diagnostic{{
			RuleID:   "AR01",
			Severity: lint.SeverityWarning,
			Message:  "index 2 of array \"a\" is assigned 2 times",
		}},
	}}

	hasIssues := renderCheckResults(tr.Renderer, results, 1)
	assert.True(t, hasIssues)
	testutil.AssertNoANSI(t, tr.Output())
	testutil.AssertContains(t, tr.Output(), "deploy.sh")
	testutil.AssertContains(t, tr.Output(), "AR01")
	testutil.AssertContains(t, tr.Output(), "Summary: 1 issues")
}
