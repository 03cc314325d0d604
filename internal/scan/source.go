package scan

import "context"

// RepoMetadata describes the repository being scanned.
type RepoMetadata struct {
	Slug          string
	DefaultBranch string
	Language      string
	Topics        []string
}

// Tree is the repository file list at one ref.
type Tree struct {
	Paths     []string
	Truncated bool
}

// Source is where a scan reads repository data from. Metadata and Tree are
// required; every other read is best-effort.
type Source interface {
	Metadata(ctx context.Context) Fetch[RepoMetadata]
	// Languages returns bytes of code per language.
	Languages(ctx context.Context) Fetch[map[string]int64]
	Tree(ctx context.Context, ref string) Fetch[Tree]
	ReadFile(ctx context.Context, path string) Fetch[[]byte]
}
