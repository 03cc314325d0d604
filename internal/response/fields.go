package response

import "strings"

// Field names one answerable slot of the wizard. The string value is the
// key used by question datasets, convention files and the JSON encoding.
type Field string

const (
	StackSelection  Field = "stackSelection"
	Tooling         Field = "tooling"
	Language        Field = "language"
	FileStructure   Field = "fileStructure"
	Styling         Field = "styling"
	TestingUT       Field = "testingUT"
	TestingE2E      Field = "testingE2E"
	ProjectPriority Field = "projectPriority"
	CodeStyle       Field = "codeStyle"
	VariableNaming  Field = "variableNaming"
	FileNaming      Field = "fileNaming"
	ComponentNaming Field = "componentNaming"
	Exports         Field = "exports"
	Comments        Field = "comments"
	Collaboration   Field = "collaboration"
	StateManagement Field = "stateManagement"
	DataFetching    Field = "dataFetching"
	Auth            Field = "auth"
	Validation      Field = "validation"
	Logging         Field = "logging"
	CommitStyle     Field = "commitStyle"
	PRRules         Field = "prRules"
	OutputFile      Field = "outputFile"
)

// Fields lists every field in declaration order.
var Fields = []Field{
	StackSelection,
	Tooling,
	Language,
	FileStructure,
	Styling,
	TestingUT,
	TestingE2E,
	ProjectPriority,
	CodeStyle,
	VariableNaming,
	FileNaming,
	ComponentNaming,
	Exports,
	Comments,
	Collaboration,
	StateManagement,
	DataFetching,
	Auth,
	Validation,
	Logging,
	CommitStyle,
	PRRules,
	OutputFile,
}

var fieldSet = func() map[Field]struct{} {
	m := make(map[Field]struct{}, len(Fields))
	for _, f := range Fields {
		m[f] = struct{}{}
	}
	return m
}()

// ParseField validates a raw key. Keys are matched exactly after trimming.
func ParseField(raw string) (Field, bool) {
	f := Field(strings.TrimSpace(raw))
	if _, ok := fieldSet[f]; !ok {
		return "", false
	}
	return f, true
}

// Question is the subset of a question definition needed to resolve which
// field it answers.
type Question interface {
	QuestionID() string
	ResponseKeyOverride() string
}

// ResponseKeyOf resolves the field a question writes to: its explicit
// responseKey when present, otherwise its id. ok is false when the key is
// not a known field.
func ResponseKeyOf(q Question) (Field, bool) {
	key := strings.TrimSpace(q.ResponseKeyOverride())
	if key == "" {
		key = q.QuestionID()
	}
	return ParseField(key)
}
