package question

import (
	"github.com/spivx/devcontext-sub000/internal/response"
)

// Answer is one selectable option of a question.
type Answer struct {
	Value     string `json:"value"`
	Label     string `json:"label"`
	IsDefault bool   `json:"isDefault,omitempty"`
	Disabled  bool   `json:"disabled,omitempty"`
}

// Question is one wizard question as defined in a stack dataset.
type Question struct {
	ID            string   `json:"id"`
	Question      string   `json:"question"`
	AllowMultiple bool     `json:"allowMultiple,omitempty"`
	ResponseKey   string   `json:"responseKey,omitempty"`
	Answers       []Answer `json:"answers"`
}

func (q Question) QuestionID() string          { return q.ID }
func (q Question) ResponseKeyOverride() string { return q.ResponseKey }

// Default is the answer a question marks as its default.
type Default struct {
	QuestionID string         `json:"questionId"`
	Field      response.Field `json:"responseKey"`
	Value      string         `json:"value"`
	Label      string         `json:"label"`
}

// Metadata is the per-stack view of a question dataset the synthesizer
// needs: allowed values per field and default answers.
type Metadata struct {
	Stack    string                      `json:"stack"`
	Allowed  map[response.Field][]string `json:"allowed"`
	Defaults []Default                   `json:"defaults"`
}

// AllowedValues returns the registered values for f in dataset order.
func (m Metadata) AllowedValues(f response.Field) []string {
	return m.Allowed[f]
}

// DefaultFor returns the first default recorded for f.
func (m Metadata) DefaultFor(f response.Field) (Default, bool) {
	for _, d := range m.Defaults {
		if d.Field == f {
			return d, true
		}
	}
	return Default{}, false
}
