package output_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/shellvet/shellvet/internal/cli/output"
)

func TestMode(t *testing.T) {
	assert.Equal(t, output.ModeText, output.Mode("text"))
	assert.Equal(t, output.ModeJSON, output.Mode("json"))
	assert.Equal(t, output.ModeYAML, output.Mode("yaml"))
	assert.Equal(t, output.ModeAuto, output.Mode(""))
	assert.Equal(t, output.ModeAuto, output.Mode("bogus"))
}

func TestEffectiveModeAuto(t *testing.T) {
	var out, errOut bytes.Buffer

	tty := output.NewRendererWithTTY(&out, &errOut, true, output.ModeAuto)
	assert.Equal(t, output.ModeText, tty.EffectiveMode())

	piped := output.NewRendererWithTTY(&out, &errOut, false, output.ModeAuto)
	assert.Equal(t, output.ModeMarkdown, piped.EffectiveMode())
}

func TestMarkdownOutputHasNoStyling(t *testing.T) {
	var out, errOut bytes.Buffer
	r := output.NewRendererWithTTY(&out, &errOut, false, output.ModeMarkdown)

	r.Println(r.Styles().Error.Render("plain"))
	assert.Equal(t, "plain\n", out.String())
}

func TestStructured(t *testing.T) {
	payload := map[string]int{"issues": 3}

	t.Run("json", func(t *testing.T) {
		var out, errOut bytes.Buffer
		r := output.NewRendererWithTTY(&out, &errOut, false, output.ModeJSON)
		done, err := r.Structured(payload)
		require.NoError(t, err)
		assert.True(t, done)

		var decoded map[string]int
		require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
		assert.Equal(t, payload, decoded)
	})

	t.Run("yaml", func(t *testing.T) {
		var out, errOut bytes.Buffer
		r := output.NewRendererWithTTY(&out, &errOut, false, output.ModeYAML)
		done, err := r.Structured(payload)
		require.NoError(t, err)
		assert.True(t, done)

		var decoded map[string]int
		require.NoError(t, yaml.Unmarshal(out.Bytes(), &decoded))
		assert.Equal(t, payload, decoded)
	})

	t.Run("text falls through", func(t *testing.T) {
		var out, errOut bytes.Buffer
		r := output.NewRendererWithTTY(&out, &errOut, true, output.ModeText)
		done, err := r.Structured(payload)
		require.NoError(t, err)
		assert.False(t, done)
		assert.Empty(t, out.String())
	})
}
