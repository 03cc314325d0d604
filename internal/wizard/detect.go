package wizard

import (
	"strings"

	"github.com/spivx/devcontext-sub000/internal/convention"
	"github.com/spivx/devcontext-sub000/internal/response"
	"github.com/spivx/devcontext-sub000/internal/scan"
	"github.com/spivx/devcontext-sub000/internal/stack"
)

// DetectStack classifies a scan into one canonical stack id.
func DetectStack(s scan.Summary) string {
	return stack.Detect(s.Frameworks, s.Languages)
}

// detectedFields are the fields filled from scan signals.
var detectedFields = []response.Field{
	response.Tooling,
	response.Language,
	response.TestingUT,
	response.TestingE2E,
	response.FileNaming,
	response.ComponentNaming,
	response.CommitStyle,
	response.PRRules,
}

type detector struct {
	scan        scan.Summary
	conventions convention.Loaded
	allowed     func(response.Field) []string
}

// detect returns the scan-derived value for f, or "" when there is none.
func (d detector) detect(f response.Field) string {
	switch f {
	case response.Tooling:
		if len(d.scan.Tooling) > 0 {
			return strings.Join(d.scan.Tooling, " + ")
		}
		if v := d.conventions.Defaults[response.Tooling]; v != nil {
			return strings.TrimSpace(*v)
		}
	case response.Language:
		return detectLanguage(d.scan)
	case response.TestingUT, response.TestingE2E:
		return pickAllowed(d.allowed(f), d.scan.Testing)
	case response.FileNaming:
		return strings.TrimSpace(d.scan.FileNamingStyle)
	case response.ComponentNaming:
		v := strings.TrimSpace(d.scan.ComponentNamingStyle)
		if v == "camelcase" {
			v = scan.CamelCase
		}
		return v
	case response.CommitStyle:
		switch d.scan.CommitMessageStyle {
		case "gitmoji", "conventional":
			return d.scan.CommitMessageStyle
		}
	case response.PRRules:
		if len(d.scan.CI) > 0 {
			return "reviewRequired"
		}
	}
	return ""
}

var languagePriority = []string{"typescript", "javascript", "python"}

func detectLanguage(s scan.Summary) string {
	for _, want := range languagePriority {
		for _, l := range s.Languages {
			if strings.EqualFold(strings.TrimSpace(l), want) {
				return want
			}
		}
	}
	return strings.TrimSpace(s.Language)
}

// pickAllowed returns the first allowed value, in its registered casing,
// whose normalized form appears among detected.
func pickAllowed(allowed, detected []string) string {
	if len(allowed) == 0 || len(detected) == 0 {
		return ""
	}
	seen := make(map[string]struct{}, len(detected))
	for _, d := range detected {
		seen[strings.ToLower(strings.TrimSpace(d))] = struct{}{}
	}
	for _, a := range allowed {
		if _, ok := seen[strings.ToLower(strings.TrimSpace(a))]; ok {
			return a
		}
	}
	return ""
}

func signalsOf(s scan.Summary) convention.Signals {
	return convention.Signals{
		Tooling:    s.Tooling,
		Testing:    s.Testing,
		Frameworks: s.Frameworks,
		Languages:  s.Languages,
		Routing:    s.Routing,
		Structure:  s.Structure.Map(),
	}
}
