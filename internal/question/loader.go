package question

import (
	"fmt"
	"strings"

	"github.com/spivx/devcontext-sub000/internal/cache"
	"github.com/spivx/devcontext-sub000/internal/response"
)

// Loader derives Metadata from a question source and memoizes it per stack.
type Loader struct {
	src   Source
	cache *cache.Memo[Metadata]
}

// NewLoader builds a loader over src. A nil memo gets a private cache.
func NewLoader(src Source, memo *cache.Memo[Metadata]) *Loader {
	if memo == nil {
		memo = cache.NewMemo[Metadata]()
	}
	return &Loader{src: src, cache: memo}
}

func (l *Loader) Load(stack string) (Metadata, error) {
	id := cache.Key(stack)
	return l.cache.GetOrCompute(id, func() (Metadata, error) {
		if l.src == nil {
			return Build(id, nil), nil
		}
		qs, err := l.src.Questions(id)
		if err != nil {
			return Metadata{}, fmt.Errorf("load questions for %q: %w", id, err)
		}
		return Build(id, qs), nil
	})
}

// Build derives metadata from an ordered question list. Questions answering
// the stack selector or an unknown field are skipped. Allowed values keep
// enabled answers only, deduplicated case-insensitively with the first
// spelling kept. Every enabled default-flagged answer is recorded; Validate
// reports datasets with zero or several defaults per question.
func Build(stack string, qs []Question) Metadata {
	md := Metadata{
		Stack:    stack,
		Allowed:  make(map[response.Field][]string),
		Defaults: []Default{},
	}
	for _, q := range qs {
		field, ok := response.ResponseKeyOf(q)
		if !ok || field == response.StackSelection {
			continue
		}
		seen := make(map[string]struct{})
		for _, v := range md.Allowed[field] {
			seen[strings.ToLower(v)] = struct{}{}
		}
		for _, a := range q.Answers {
			if a.Disabled {
				continue
			}
			value := strings.TrimSpace(a.Value)
			if value == "" {
				continue
			}
			key := strings.ToLower(value)
			if _, dup := seen[key]; !dup {
				seen[key] = struct{}{}
				md.Allowed[field] = append(md.Allowed[field], value)
			}
			if a.IsDefault {
				md.Defaults = append(md.Defaults, Default{
					QuestionID: q.ID,
					Field:      field,
					Value:      value,
					Label:      a.Label,
				})
			}
		}
	}
	return md
}
