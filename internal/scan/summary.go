package scan

// Summary is the immutable result of one repository scan.
type Summary struct {
	Repo          string    `json:"repo"`
	DefaultBranch string    `json:"defaultBranch"`
	Language      string    `json:"language,omitempty"`
	Languages     []string  `json:"languages"`
	Frameworks    []string  `json:"frameworks"`
	Tooling       []string  `json:"tooling"`
	Testing       []string  `json:"testing"`
	Structure     Structure `json:"structure"`
	Topics        []string  `json:"topics"`
	Warnings      []string  `json:"warnings"`

	PackageManager       string   `json:"packageManager,omitempty"`
	NodeVersion          string   `json:"nodeVersion,omitempty"`
	IsMonorepo           bool     `json:"isMonorepo"`
	Workspaces           []string `json:"workspaces,omitempty"`
	Routing              string   `json:"routing,omitempty"`
	Styling              string   `json:"styling,omitempty"`
	StateManagement      string   `json:"stateManagement,omitempty"`
	DataFetching         string   `json:"dataFetching,omitempty"`
	Auth                 string   `json:"auth,omitempty"`
	Validation           string   `json:"validation,omitempty"`
	Logging              string   `json:"logging,omitempty"`
	CI                   []string `json:"ci,omitempty"`
	CodeQuality          []string `json:"codeQuality,omitempty"`
	EditorConfig         []string `json:"editorConfig,omitempty"`
	FileNamingStyle      string   `json:"fileNamingStyle,omitempty"`
	ComponentNamingStyle string   `json:"componentNamingStyle,omitempty"`
	CodeStylePreference  string   `json:"codeStylePreference,omitempty"`
	CommitMessageStyle   string   `json:"commitMessageStyle,omitempty"`
}

// Structure records which conventional top-level folders exist.
type Structure struct {
	Src        bool `json:"src"`
	Components bool `json:"components"`
	Tests      bool `json:"tests"`
	Apps       bool `json:"apps"`
	Packages   bool `json:"packages"`
}

// Map returns the structure keyed by folder name.
func (s Structure) Map() map[string]bool {
	return map[string]bool{
		"src":        s.Src,
		"components": s.Components,
		"tests":      s.Tests,
		"apps":       s.Apps,
		"packages":   s.Packages,
	}
}
