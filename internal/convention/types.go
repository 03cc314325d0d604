package convention

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/spivx/devcontext-sub000/internal/response"
)

// DefaultID names the base convention every stack is merged over.
const DefaultID = "default"

var (
	ErrNotFound  = errors.New("conventions not found")
	ErrMalformed = errors.New("malformed conventions")
)

// Conventions is one convention file as authored.
type Conventions struct {
	ID                string
	Label             string
	ApplyTo           string
	StructureRelevant []string
	Defaults          response.Values
	Rules             []Rule
}

// Loaded is the default convention merged with a stack convention. Treat it
// as read-only: loaded values are shared through the store cache.
type Loaded struct {
	ID                string          `json:"id"`
	Label             string          `json:"label,omitempty"`
	ApplyTo           string          `json:"applyTo,omitempty"`
	StructureRelevant []string        `json:"structureRelevant"`
	Defaults          response.Values `json:"defaults"`
	Rules             []Rule          `json:"rules"`
}

// Rule sets fields when every present predicate of When holds.
type Rule struct {
	When Condition       `json:"when"`
	Set  response.Values `json:"set"`
}

// Condition predicates. A nil or empty list is vacuously true.
type Condition struct {
	ToolingIncludes   []string `json:"toolingIncludes,omitempty" yaml:"toolingIncludes"`
	TestingIncludes   []string `json:"testingIncludes,omitempty" yaml:"testingIncludes"`
	FrameworksInclude []string `json:"frameworksInclude,omitempty" yaml:"frameworksInclude"`
	LanguagesInclude  []string `json:"languagesInclude,omitempty" yaml:"languagesInclude"`
	RoutingIs         []string `json:"routingIs,omitempty" yaml:"routingIs"`
	StructureHas      []string `json:"structureHas,omitempty" yaml:"structureHas"`
	StructureMissing  []string `json:"structureMissing,omitempty" yaml:"structureMissing"`
}

type rawConventions struct {
	ID                string             `json:"id" yaml:"id"`
	Label             string             `json:"label" yaml:"label"`
	ApplyTo           string             `json:"applyTo" yaml:"applyTo"`
	StructureRelevant []string           `json:"structureRelevant" yaml:"structureRelevant"`
	Defaults          map[string]*string `json:"defaults" yaml:"defaults"`
	Rules             []rawRule          `json:"rules" yaml:"rules"`
}

type rawRule struct {
	When Condition          `json:"when" yaml:"when"`
	Set  map[string]*string `json:"set" yaml:"set"`
}

// Format selects the decoder for a convention file.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// Parse decodes and validates one convention file. Unknown response keys in
// defaults or rule overrides make the file malformed.
func Parse(data []byte, format Format) (*Conventions, error) {
	var raw rawConventions
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &raw)
	default:
		err = json.Unmarshal(data, &raw)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	defaults, err := toValues(raw.Defaults)
	if err != nil {
		return nil, fmt.Errorf("%w: defaults: %v", ErrMalformed, err)
	}
	rules := make([]Rule, 0, len(raw.Rules))
	for i, r := range raw.Rules {
		set, err := toValues(r.Set)
		if err != nil {
			return nil, fmt.Errorf("%w: rules[%d]: %v", ErrMalformed, i, err)
		}
		rules = append(rules, Rule{When: r.When, Set: set})
	}

	return &Conventions{
		ID:                strings.TrimSpace(raw.ID),
		Label:             strings.TrimSpace(raw.Label),
		ApplyTo:           strings.TrimSpace(raw.ApplyTo),
		StructureRelevant: raw.StructureRelevant,
		Defaults:          defaults,
		Rules:             rules,
	}, nil
}

func toValues(raw map[string]*string) (response.Values, error) {
	out := make(response.Values, len(raw))
	var unknown []string
	for k, v := range raw {
		f, ok := response.ParseField(k)
		if !ok {
			unknown = append(unknown, k)
			continue
		}
		out[f] = v
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("unknown response keys %s", strings.Join(unknown, ", "))
	}
	return out, nil
}
