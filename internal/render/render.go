// Package render turns wizard responses into an assistant configuration
// file.
package render

import (
	"embed"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/spivx/devcontext-sub000/internal/response"
)

//go:embed templates/*
var templates embed.FS

// NotSpecified replaces placeholders of unanswered fields.
const NotSpecified = "Not specified"

// DefaultApplyTo is used for cursor rules when conventions give no glob.
const DefaultApplyTo = "**/*"

var ErrUnknownOutput = errors.New("render: unknown output file")

// Output describes one generated file kind.
type Output struct {
	ID       string
	FileName string
	template string
}

var outputs = []Output{
	{ID: "copilot-instructions", FileName: ".github/copilot-instructions.md", template: "templates/copilot-instructions.md"},
	{ID: "agents-md", FileName: "AGENTS.md", template: "templates/agents-md.md"},
	{ID: "cursor-rules", FileName: ".cursor/rules/project.mdc", template: "templates/cursor-rules.mdc"},
}

// Outputs lists the supported output files.
func Outputs() []Output {
	return append([]Output{}, outputs...)
}

// Lookup finds an output by id.
func Lookup(id string) (Output, bool) {
	id = strings.ToLower(strings.TrimSpace(id))
	for _, o := range outputs {
		if o.ID == id {
			return o, true
		}
	}
	return Output{}, false
}

type File struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

var placeholder = regexp.MustCompile(`\{\{\s*([A-Za-z]+)\s*\}\}`)

// Render fills the template for outputID. An empty outputID falls back to
// the outputFile response. applyTo feeds the {{applyTo}} placeholder.
func Render(outputID string, r response.Responses, applyTo string) (File, error) {
	if strings.TrimSpace(outputID) == "" {
		outputID, _ = r.Get(response.OutputFile)
	}
	out, ok := Lookup(outputID)
	if !ok {
		return File{}, fmt.Errorf("%w: %q", ErrUnknownOutput, outputID)
	}
	raw, err := templates.ReadFile(out.template)
	if err != nil {
		return File{}, fmt.Errorf("read template %s: %w", out.template, err)
	}
	if strings.TrimSpace(applyTo) == "" {
		applyTo = DefaultApplyTo
	}

	content := placeholder.ReplaceAllStringFunc(string(raw), func(m string) string {
		key := placeholder.FindStringSubmatch(m)[1]
		if key == "applyTo" {
			return applyTo
		}
		f, ok := response.ParseField(key)
		if !ok {
			return m
		}
		if r.IsEmpty(f) {
			return NotSpecified
		}
		v, _ := r.Get(f)
		return strings.TrimSpace(v)
	})
	return File{Name: out.FileName, Content: content}, nil
}
