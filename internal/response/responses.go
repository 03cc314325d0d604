package response

import "strings"

// Responses is the flat answer record consumed by template rendering.
// A nil field is explicitly unanswered and encodes as JSON null.
type Responses struct {
	StackSelection  *string `json:"stackSelection"`
	Tooling         *string `json:"tooling"`
	Language        *string `json:"language"`
	FileStructure   *string `json:"fileStructure"`
	Styling         *string `json:"styling"`
	TestingUT       *string `json:"testingUT"`
	TestingE2E      *string `json:"testingE2E"`
	ProjectPriority *string `json:"projectPriority"`
	CodeStyle       *string `json:"codeStyle"`
	VariableNaming  *string `json:"variableNaming"`
	FileNaming      *string `json:"fileNaming"`
	ComponentNaming *string `json:"componentNaming"`
	Exports         *string `json:"exports"`
	Comments        *string `json:"comments"`
	Collaboration   *string `json:"collaboration"`
	StateManagement *string `json:"stateManagement"`
	DataFetching    *string `json:"dataFetching"`
	Auth            *string `json:"auth"`
	Validation      *string `json:"validation"`
	Logging         *string `json:"logging"`
	CommitStyle     *string `json:"commitStyle"`
	PRRules         *string `json:"prRules"`
	OutputFile      *string `json:"outputFile"`
}

func (r *Responses) slot(f Field) **string {
	switch f {
	case StackSelection:
		return &r.StackSelection
	case Tooling:
		return &r.Tooling
	case Language:
		return &r.Language
	case FileStructure:
		return &r.FileStructure
	case Styling:
		return &r.Styling
	case TestingUT:
		return &r.TestingUT
	case TestingE2E:
		return &r.TestingE2E
	case ProjectPriority:
		return &r.ProjectPriority
	case CodeStyle:
		return &r.CodeStyle
	case VariableNaming:
		return &r.VariableNaming
	case FileNaming:
		return &r.FileNaming
	case ComponentNaming:
		return &r.ComponentNaming
	case Exports:
		return &r.Exports
	case Comments:
		return &r.Comments
	case Collaboration:
		return &r.Collaboration
	case StateManagement:
		return &r.StateManagement
	case DataFetching:
		return &r.DataFetching
	case Auth:
		return &r.Auth
	case Validation:
		return &r.Validation
	case Logging:
		return &r.Logging
	case CommitStyle:
		return &r.CommitStyle
	case PRRules:
		return &r.PRRules
	case OutputFile:
		return &r.OutputFile
	}
	return nil
}

// Get returns the value of f. ok is false for nil and unknown fields.
func (r *Responses) Get(f Field) (string, bool) {
	p := r.slot(f)
	if p == nil || *p == nil {
		return "", false
	}
	return **p, true
}

// Set stores value in f; a nil value clears the field. Unknown fields are
// ignored.
func (r *Responses) Set(f Field, value *string) {
	p := r.slot(f)
	if p == nil {
		return
	}
	if value == nil {
		*p = nil
		return
	}
	v := *value
	*p = &v
}

// SetString is Set for a literal value.
func (r *Responses) SetString(f Field, value string) {
	r.Set(f, &value)
}

// IsEmpty reports whether f is nil or blank.
func (r *Responses) IsEmpty(f Field) bool {
	v, ok := r.Get(f)
	return !ok || strings.TrimSpace(v) == ""
}

// Merge shallow-merges values over r, overwriting present keys including
// explicit nils.
func (r *Responses) Merge(values Values) {
	for _, f := range Fields {
		v, ok := values[f]
		if !ok {
			continue
		}
		r.Set(f, v)
	}
}

// Values is a partial field map as found in convention defaults and rule
// overrides. A present key with a nil value means "set to null".
type Values map[Field]*string

// String returns a pointer to s.
func String(s string) *string { return &s }
