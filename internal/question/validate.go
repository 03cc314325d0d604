package question

import (
	"fmt"
	"strings"

	"github.com/spivx/devcontext-sub000/internal/response"
)

// Issue is one data-quality problem found in a dataset.
type Issue struct {
	Stack      string `json:"stack"`
	QuestionID string `json:"questionId"`
	Message    string `json:"message"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s/%s: %s", i.Stack, i.QuestionID, i.Message)
}

// Validate checks a stack's question list: every question must map to a
// known field, define answers with unique values, and mark exactly one
// enabled answer as default.
func Validate(stack string, qs []Question) []Issue {
	var issues []Issue
	report := func(id, format string, args ...any) {
		issues = append(issues, Issue{Stack: stack, QuestionID: id, Message: fmt.Sprintf(format, args...)})
	}

	ids := make(map[string]struct{}, len(qs))
	for _, q := range qs {
		if strings.TrimSpace(q.ID) == "" {
			report("?", "question without id")
			continue
		}
		if _, dup := ids[q.ID]; dup {
			report(q.ID, "duplicate question id")
		}
		ids[q.ID] = struct{}{}

		if _, ok := response.ResponseKeyOf(q); !ok {
			report(q.ID, "unknown response key %q", firstNonEmpty(q.ResponseKey, q.ID))
		}
		if len(q.Answers) == 0 {
			report(q.ID, "no answers")
			continue
		}

		values := make(map[string]struct{}, len(q.Answers))
		defaults := 0
		for _, a := range q.Answers {
			key := strings.ToLower(strings.TrimSpace(a.Value))
			if key == "" {
				report(q.ID, "answer %q has an empty value", a.Label)
				continue
			}
			if _, dup := values[key]; dup {
				report(q.ID, "duplicate answer value %q", a.Value)
			}
			values[key] = struct{}{}
			if a.IsDefault && !a.Disabled {
				defaults++
			}
		}
		switch {
		case defaults == 0:
			report(q.ID, "no default answer")
		case defaults > 1:
			report(q.ID, "%d default answers, want 1", defaults)
		}
	}
	return issues
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
