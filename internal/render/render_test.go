package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spivx/devcontext-sub000/internal/response"
)

func TestRender_FillsPlaceholders(t *testing.T) {
	var r response.Responses
	r.SetString(response.StackSelection, "react")
	r.SetString(response.Tooling, "vite")
	r.SetString(response.TestingUT, "vitest")

	f, err := Render("copilot-instructions", r, "")
	require.NoError(t, err)
	assert.Equal(t, ".github/copilot-instructions.md", f.Name)
	assert.Contains(t, f.Content, "- Tooling: vite")
	assert.Contains(t, f.Content, "- Unit tests: vitest")
	assert.Contains(t, f.Content, "- Styling: Not specified")
	assert.NotContains(t, f.Content, "{{")
}

func TestRender_FallsBackToOutputFileResponse(t *testing.T) {
	var r response.Responses
	r.SetString(response.OutputFile, "agents-md")

	f, err := Render("", r, "")
	require.NoError(t, err)
	assert.Equal(t, "AGENTS.md", f.Name)
}

func TestRender_CursorRulesCarryApplyTo(t *testing.T) {
	var r response.Responses
	r.SetString(response.StackSelection, "python")

	f, err := Render("cursor-rules", r, "**/*.py")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(f.Content, "---\n"))
	assert.Contains(t, f.Content, "globs: **/*.py")

	f, err = Render("cursor-rules", r, " ")
	require.NoError(t, err)
	assert.Contains(t, f.Content, "globs: **/*")
}

func TestRender_UnknownOutput(t *testing.T) {
	_, err := Render("readme", response.Responses{}, "")
	assert.ErrorIs(t, err, ErrUnknownOutput)

	_, err = Render("", response.Responses{}, "")
	assert.ErrorIs(t, err, ErrUnknownOutput)
}

func TestOutputsHaveTemplates(t *testing.T) {
	for _, o := range Outputs() {
		_, err := templates.ReadFile(o.template)
		assert.NoError(t, err, o.ID)
	}
}
