package scan

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spivx/devcontext-sub000/internal/response"
)

type fakeSource struct {
	meta      Fetch[RepoMetadata]
	tree      Fetch[Tree]
	languages Fetch[map[string]int64]
	files     map[string]Fetch[[]byte]

	mu    sync.Mutex
	reads []string
}

func (f *fakeSource) Metadata(context.Context) Fetch[RepoMetadata]         { return f.meta }
func (f *fakeSource) Languages(context.Context) Fetch[map[string]int64]    { return f.languages }
func (f *fakeSource) Tree(_ context.Context, _ string) Fetch[Tree]         { return f.tree }
func (f *fakeSource) ReadFile(_ context.Context, name string) Fetch[[]byte] {
	f.mu.Lock()
	f.reads = append(f.reads, name)
	f.mu.Unlock()
	if res, ok := f.files[name]; ok {
		return res
	}
	return Absent[[]byte](UnknownRemaining)
}

func reactSource() *fakeSource {
	return &fakeSource{
		meta: OK(RepoMetadata{Slug: "acme/web", DefaultBranch: "main", Language: "TypeScript", Topics: []string{"react"}}, 4000),
		tree: OK(Tree{Paths: []string{"package.json", ".nvmrc", "src/App.tsx", "vite.config.ts"}}, 3999),
		languages: OK(map[string]int64{"TypeScript": 9000, "CSS": 300, "HTML": 300}, 3998),
		files: map[string]Fetch[[]byte]{
			"package.json": OK([]byte(`{"dependencies":{"react":"18"},"devDependencies":{"jest":"29"}}`), 3997),
			".nvmrc":       OK([]byte("20\n"), 3996),
		},
	}
}

func TestScan_Success(t *testing.T) {
	src := reactSource()
	s, err := NewScanner(nil).Scan(context.Background(), src)
	require.NoError(t, err)

	assert.Equal(t, "acme/web", s.Repo)
	assert.Equal(t, "main", s.DefaultBranch)
	assert.Equal(t, "TypeScript", s.Language)
	assert.Equal(t, []string{"TypeScript", "CSS", "HTML"}, s.Languages)
	assert.Equal(t, []string{"React"}, s.Frameworks)
	assert.Equal(t, []string{"Vite"}, s.Tooling)
	assert.Equal(t, []string{"Jest"}, s.Testing)
	assert.Equal(t, "20", s.NodeVersion)
	assert.Equal(t, []string{"react"}, s.Topics)
	assert.Empty(t, s.Warnings)
	assert.ElementsMatch(t, []string{"package.json", ".nvmrc"}, src.reads, "only files present in the tree are read")
}

func TestScan_MissingRepository(t *testing.T) {
	src := reactSource()
	src.meta = Absent[RepoMetadata](10)
	_, err := NewScanner(nil).Scan(context.Background(), src)
	assert.ErrorIs(t, err, ErrNotFound)

	boom := errors.New("boom")
	src.meta = Failed[RepoMetadata](boom, 10)
	_, err = NewScanner(nil).Scan(context.Background(), src)
	assert.ErrorIs(t, err, boom)
}

func TestScan_TreeFailureIsFatal(t *testing.T) {
	src := reactSource()
	src.tree = Failed[Tree](errors.New("timeout"), UnknownRemaining)
	_, err := NewScanner(nil).Scan(context.Background(), src)
	assert.Error(t, err)
}

func TestScan_OptionalFailuresBecomeWarnings(t *testing.T) {
	src := reactSource()
	src.files["package.json"] = OK([]byte(`{"dependencies":`), 100)
	src.files[".nvmrc"] = Failed[[]byte](errors.New("connection reset"), 100)
	src.languages = Failed[map[string]int64](errors.New("502"), 100)

	s, err := NewScanner(nil).Scan(context.Background(), src)
	require.NoError(t, err)
	assert.Empty(t, s.Frameworks, "unparseable manifest yields no dependency signals")
	assert.Equal(t, []string{"TypeScript"}, s.Languages, "primary language fills in")
	require.Len(t, s.Warnings, 3)
	assert.Contains(t, s.Warnings[0], ".nvmrc")
	assert.Contains(t, s.Warnings[1], "languages")
	assert.Contains(t, s.Warnings[2], "package.json")
}

func TestScan_LowRateLimitWarning(t *testing.T) {
	src := reactSource()
	src.files[".nvmrc"] = OK([]byte("20"), 3)

	s, err := NewScanner(nil).Scan(context.Background(), src)
	require.NoError(t, err)
	require.Len(t, s.Warnings, 1)
	assert.Contains(t, s.Warnings[0], "3 requests remaining")
}

func TestScan_TruncatedTree(t *testing.T) {
	src := reactSource()
	src.tree = OK(Tree{Paths: []string{"src/App.tsx"}, Truncated: true}, UnknownRemaining)

	s, err := NewScanner(nil).Scan(context.Background(), src)
	require.NoError(t, err)
	assert.Contains(t, s.Warnings, "repository tree was truncated; detection may be incomplete")
	assert.Contains(t, src.reads, "pyproject.toml", "a truncated tree is read blindly")
	assert.Equal(t, []string{"React"}, s.Frameworks)
}

func TestScan_PythonVocabulary(t *testing.T) {
	src := &fakeSource{
		meta:      OK(RepoMetadata{Slug: "acme/api", DefaultBranch: "main", Language: "Python"}, UnknownRemaining),
		tree:      OK(Tree{Paths: []string{"pyproject.toml", "features/login.feature", "tests/conftest.py"}}, UnknownRemaining),
		languages: OK(map[string]int64{"Python": 100}, UnknownRemaining),
		files:     map[string]Fetch[[]byte]{"pyproject.toml": OK([]byte("[project]\n"), UnknownRemaining)},
	}
	var asked []response.Field
	vocab := func(stack string, field response.Field) []string {
		asked = append(asked, field)
		assert.Equal(t, "python", stack)
		return []string{"pytest", "unittest"}
	}

	s, err := NewScanner(vocab).Scan(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, []string{"pytest"}, s.Testing)
	assert.Equal(t, []response.Field{response.TestingUT}, asked)
}

func TestScan_PytestFromDevRequirements(t *testing.T) {
	src := &fakeSource{
		meta:      OK(RepoMetadata{Slug: "acme/svc", DefaultBranch: "main", Language: "Python"}, UnknownRemaining),
		tree:      OK(Tree{Paths: []string{"requirements-dev.txt", "setup.cfg", "tests/test_app.py"}}, UnknownRemaining),
		languages: OK(map[string]int64{"Python": 100}, UnknownRemaining),
		files: map[string]Fetch[[]byte]{
			"requirements-dev.txt": OK([]byte("pytest==8.0\n"), UnknownRemaining),
			"setup.cfg":            OK([]byte("[tool:pytest]\ntestpaths = tests\n"), UnknownRemaining),
		},
	}
	vocab := func(string, response.Field) []string {
		return []string{"pytest", "unittest", "nose2", "behave"}
	}

	s, err := NewScanner(vocab).Scan(context.Background(), src)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"requirements-dev.txt", "setup.cfg"}, src.reads)
	assert.Equal(t, []string{"pytest"}, s.Testing)
}
