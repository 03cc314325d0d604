package question

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spivx/devcontext-sub000/internal/cache"
	"github.com/spivx/devcontext-sub000/internal/response"
)

func TestBuild_AllowedValuesAndDefaults(t *testing.T) {
	qs := []Question{
		{ID: "stackSelection", Answers: []Answer{{Value: "react", IsDefault: true}}},
		{ID: "unitTests", ResponseKey: "testingUT", Answers: []Answer{
			{Value: "Jest", Label: "Jest", IsDefault: true},
			{Value: "vitest", Label: "Vitest"},
			{Value: "jest", Label: "jest again"},
			{Value: "karma", Label: "Karma", Disabled: true},
		}},
		{ID: "mystery", Answers: []Answer{{Value: "x", IsDefault: true}}},
		{ID: "tooling", Answers: []Answer{
			{Value: "webpack", Label: "Webpack", IsDefault: true, Disabled: true},
			{Value: "vite", Label: "Vite"},
		}},
	}

	md := Build("react", qs)

	assert.Equal(t, []string{"Jest", "vitest"}, md.AllowedValues(response.TestingUT))
	assert.Equal(t, []string{"vite"}, md.AllowedValues(response.Tooling))
	assert.Empty(t, md.AllowedValues(response.StackSelection))

	def, ok := md.DefaultFor(response.TestingUT)
	require.True(t, ok)
	assert.Equal(t, Default{QuestionID: "unitTests", Field: response.TestingUT, Value: "Jest", Label: "Jest"}, def)

	_, ok = md.DefaultFor(response.Tooling)
	assert.False(t, ok, "disabled default must not be recorded")
	_, ok = md.DefaultFor(response.StackSelection)
	assert.False(t, ok)
	assert.Len(t, md.Defaults, 1)
}

func TestBuild_RecordsEveryDefaultFlaggedAnswer(t *testing.T) {
	md := Build("react", []Question{{ID: "tooling", Answers: []Answer{
		{Value: "vite", IsDefault: true},
		{Value: "webpack", IsDefault: true},
	}}})
	require.Len(t, md.Defaults, 2)
	first, _ := md.DefaultFor(response.Tooling)
	assert.Equal(t, "vite", first.Value)
}

type countingSource struct {
	calls int
	err   error
}

func (c *countingSource) Questions(stack string) ([]Question, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return []Question{{ID: "tooling", Answers: []Answer{{Value: stack + "-tool", IsDefault: true}}}}, nil
}

func TestLoader_CachesPerStack(t *testing.T) {
	src := &countingSource{}
	memo := cache.NewMemo[Metadata]()
	loader := NewLoader(src, memo)

	a, err := loader.Load("React")
	require.NoError(t, err)
	b, err := loader.Load(" react ")
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, 1, src.calls)

	memo.Reset()
	_, err = loader.Load("react")
	require.NoError(t, err)
	assert.Equal(t, 2, src.calls)
}

func TestLoader_PropagatesDatasetFailure(t *testing.T) {
	src := &countingSource{err: errors.New("boom")}
	_, err := NewLoader(src, nil).Load("react")
	require.Error(t, err)

	src.err = nil
	_, err = NewLoader(src, nil).Load("react")
	require.NoError(t, err, "failures are not cached")
}

func TestFSSource_StackOverridesGeneral(t *testing.T) {
	fsys := fstest.MapFS{
		"q/general.json": {Data: []byte(`[{"id":"fileNaming","answers":[{"value":"kebab-case","isDefault":true}]},{"id":"commitStyle","answers":[{"value":"conventional","isDefault":true}]}]`)},
		"q/python.json":  {Data: []byte(`[{"id":"fileNaming","answers":[{"value":"snake_case","isDefault":true}]}]`)},
		"q/broken.json":  {Data: []byte(`[{`)},
	}
	src := NewFSSource(fsys, "q")

	qs, err := src.Questions("python")
	require.NoError(t, err)
	require.Len(t, qs, 2)
	assert.Equal(t, "snake_case", qs[0].Answers[0].Value)
	assert.Equal(t, "commitStyle", qs[1].ID)

	qs, err = src.Questions("../../etc")
	require.NoError(t, err)
	assert.Len(t, qs, 2, "unknown stacks fall back to general questions")

	_, err = src.Questions("broken")
	assert.Error(t, err)
}

func TestEmbedded_EveryStackLoadsAndValidates(t *testing.T) {
	src := Embedded()
	stacks, err := src.Stacks()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"angular", "astro", "nextjs", "nuxt", "python", "react", "remix", "svelte", "vue"}, stacks)

	loader := NewLoader(src, nil)
	for _, stack := range stacks {
		qs, err := src.Questions(stack)
		require.NoError(t, err, stack)
		assert.Empty(t, Validate(stack, qs), stack)

		md, err := loader.Load(stack)
		require.NoError(t, err, stack)
		assert.NotEmpty(t, md.AllowedValues(response.TestingUT), stack)
	}
}

func TestEmbedded_GarbageStacksNeverFail(t *testing.T) {
	loader := NewLoader(Embedded(), nil)
	for _, stack := range []string{"", "???", "general", "REACT", "a/b"} {
		md, err := loader.Load(stack)
		require.NoError(t, err, stack)
		assert.NotNil(t, md.Allowed, stack)
	}
}
