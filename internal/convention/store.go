package convention

import (
	"errors"
	"fmt"
	"log"

	"github.com/spivx/devcontext-sub000/internal/cache"
	"github.com/spivx/devcontext-sub000/internal/response"
)

// Entry is one cached load result.
type Entry struct {
	Loaded   Loaded
	HasStack bool
}

// Store loads and merges conventions, memoizing per normalized stack id.
type Store struct {
	src   Source
	cache *cache.Memo[Entry]
}

// NewStore builds a store over src. A nil memo gets a private cache.
func NewStore(src Source, memo *cache.Memo[Entry]) *Store {
	if memo == nil {
		memo = cache.NewMemo[Entry]()
	}
	return &Store{src: src, cache: memo}
}

// Load returns the merged conventions for stackID and whether a
// stack-specific file contributed. Only a failure to read the default file
// is returned as an error.
func (s *Store) Load(stackID string) (Loaded, bool, error) {
	id := cache.Key(stackID)
	if id == "" {
		id = DefaultID
	}
	e, err := s.cache.GetOrCompute(id, func() (Entry, error) {
		return s.load(id)
	})
	if err != nil {
		return Loaded{}, false, err
	}
	return e.Loaded, e.HasStack, nil
}

func (s *Store) load(id string) (Entry, error) {
	base, err := s.lookup(DefaultID)
	switch {
	case errors.Is(err, ErrNotFound):
		base = &Conventions{ID: DefaultID}
	case err != nil:
		return Entry{}, fmt.Errorf("load default conventions: %w", err)
	}

	var stack *Conventions
	if id != DefaultID {
		stack, err = s.lookup(id)
		switch {
		case errors.Is(err, ErrNotFound):
			stack = nil
		case err != nil:
			log.Printf("convention: ignoring conventions for %q: %v", id, err)
			stack = nil
		}
	}

	return Entry{Loaded: merge(id, base, stack), HasStack: stack != nil}, nil
}

func (s *Store) lookup(id string) (*Conventions, error) {
	if s.src == nil {
		return nil, ErrNotFound
	}
	return s.src.Lookup(id)
}

func merge(id string, base, stack *Conventions) Loaded {
	out := Loaded{
		ID:                id,
		Label:             base.Label,
		ApplyTo:           base.ApplyTo,
		StructureRelevant: append([]string{}, base.StructureRelevant...),
		Defaults:          response.Values{},
		Rules:             append([]Rule{}, base.Rules...),
	}
	for k, v := range base.Defaults {
		out.Defaults[k] = v
	}
	if stack == nil {
		return out
	}
	if stack.Label != "" {
		out.Label = stack.Label
	}
	if stack.ApplyTo != "" {
		out.ApplyTo = stack.ApplyTo
	}
	if len(stack.StructureRelevant) > 0 {
		out.StructureRelevant = append([]string{}, stack.StructureRelevant...)
	}
	for k, v := range stack.Defaults {
		out.Defaults[k] = v
	}
	out.Rules = append(out.Rules, stack.Rules...)
	return out
}
