// Package wizard turns a repository scan into a complete set of wizard
// responses.
package wizard

import (
	"fmt"

	"github.com/spivx/devcontext-sub000/internal/convention"
	"github.com/spivx/devcontext-sub000/internal/question"
	"github.com/spivx/devcontext-sub000/internal/response"
	"github.com/spivx/devcontext-sub000/internal/scan"
)

// ConventionLoader is satisfied by *convention.Store.
type ConventionLoader interface {
	Load(stackID string) (convention.Loaded, bool, error)
}

// QuestionLoader is satisfied by *question.Loader.
type QuestionLoader interface {
	Load(stack string) (question.Metadata, error)
}

// DefaultedField describes a field filled from its question's default
// answer rather than detected.
type DefaultedField struct {
	QuestionID string `json:"questionId"`
	Label      string `json:"label"`
	Value      string `json:"value"`
}

type Result struct {
	Stack                string                            `json:"stack"`
	Responses            response.Responses                `json:"responses"`
	HasCustomConventions bool                              `json:"hasCustomConventions"`
	DefaultedQuestions   map[string]bool                   `json:"defaultedQuestions"`
	DefaultedFieldMeta   map[response.Field]DefaultedField `json:"defaultedFieldMeta"`
	// ApplyTo is the conventions' file glob, used by cursor rules.
	ApplyTo string `json:"applyTo,omitempty"`
}

type Synthesizer struct {
	conventions ConventionLoader
	questions   QuestionLoader
}

func NewSynthesizer(conventions ConventionLoader, questions QuestionLoader) *Synthesizer {
	return &Synthesizer{conventions: conventions, questions: questions}
}

// Synthesize fills every response field. Precedence, strongest first:
// convention rules, scan detections, convention defaults, question
// defaults. Errors only come from loading the default conventions or the
// stack's question data.
func (s *Synthesizer) Synthesize(sum scan.Summary) (Result, error) {
	stackID := DetectStack(sum)

	conv, hasStack, err := s.conventions.Load(stackID)
	if err != nil {
		return Result{}, fmt.Errorf("synthesize %s: %w", stackID, err)
	}
	md, err := s.questions.Load(stackID)
	if err != nil {
		return Result{}, fmt.Errorf("synthesize %s: %w", stackID, err)
	}

	var out response.Responses
	out.Merge(conv.Defaults)

	det := detector{scan: sum, conventions: conv, allowed: md.AllowedValues}
	for _, f := range detectedFields {
		if v := det.detect(f); v != "" {
			out.SetString(f, v)
		}
	}

	convention.Apply(conv.Rules, signalsOf(sum), func(r convention.Rule) {
		out.Merge(r.Set)
	})

	out.SetString(response.StackSelection, stackID)

	res := Result{
		Stack:                stackID,
		HasCustomConventions: hasStack,
		DefaultedQuestions:   map[string]bool{},
		DefaultedFieldMeta:   map[response.Field]DefaultedField{},
		ApplyTo:              conv.ApplyTo,
	}
	for _, f := range response.Fields {
		if !out.IsEmpty(f) {
			continue
		}
		d, ok := md.DefaultFor(f)
		if !ok {
			continue
		}
		out.SetString(f, d.Value)
		res.DefaultedQuestions[d.QuestionID] = true
		res.DefaultedFieldMeta[f] = DefaultedField{QuestionID: d.QuestionID, Label: d.Label, Value: d.Value}
	}

	for _, f := range detectedFields {
		if !out.IsEmpty(f) {
			continue
		}
		if v := det.detect(f); v != "" {
			out.SetString(f, v)
		}
	}

	res.Responses = out
	return res, nil
}

// Vocabulary returns the registered answers for field in stack, or nil when
// the stack's questions cannot be loaded. It fits scan.Vocabulary.
func (s *Synthesizer) Vocabulary(stack string, field response.Field) []string {
	md, err := s.questions.Load(stack)
	if err != nil {
		return nil
	}
	return md.AllowedValues(field)
}
