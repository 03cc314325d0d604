package wizard

import (
	"strings"

	"github.com/spivx/devcontext-sub000/internal/convention"
	"github.com/spivx/devcontext-sub000/internal/question"
)

// NewDefault builds a synthesizer over the bundled conventions and
// questions. Convention files in conventionsDir, when set, take precedence
// over the bundled ones.
func NewDefault(conventionsDir string) *Synthesizer {
	var src convention.Source = convention.Embedded()
	if dir := strings.TrimSpace(conventionsDir); dir != "" {
		src = convention.Layered{convention.Dir(dir), convention.Embedded()}
	}
	return NewSynthesizer(
		convention.NewStore(src, nil),
		question.NewLoader(question.Embedded(), nil),
	)
}
