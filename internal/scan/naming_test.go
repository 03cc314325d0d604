package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyName(t *testing.T) {
	cases := map[string]string{
		"user-profile": KebabCase,
		"user_profile": SnakeCase,
		"UserProfile":  PascalCase,
		"Button":       PascalCase,
		"userProfile":  CamelCase,
		"index":        "",
		"README":       "",
		"vite.config":  "",
	}
	for name, want := range cases {
		assert.Equal(t, want, classifyName(name), name)
	}
}

func TestBaseName_StripsVariantMarker(t *testing.T) {
	name, ext := baseName("src/components/Button.test.tsx")
	assert.Equal(t, "Button", name)
	assert.Equal(t, ".tsx", ext)

	name, _ = baseName("src/user-card.stories.jsx")
	assert.Equal(t, "user-card", name)

	name, _ = baseName("vite.config.ts")
	assert.Equal(t, "vite.config", name)
}

func TestInferNaming(t *testing.T) {
	paths := []string{
		"src/lib/api-client.ts",
		"src/lib/date-utils.ts",
		"src/hooks/use-auth.ts",
		"src/components/UserCard.tsx",
		"src/components/NavBar.tsx",
		"src/components/NavBar.test.tsx",
		".github/workflows/ci-build.yml",
		".eslintrc.json",
		"README.md",
	}
	file, component := InferNaming(paths)
	assert.Equal(t, KebabCase, file)
	assert.Equal(t, PascalCase, component)
}

func TestInferNaming_TieBreakIsStable(t *testing.T) {
	// Two kebab, two camel: kebab iterates first and keeps the tie.
	paths := []string{
		"lib/api-client.js",
		"lib/date-utils.js",
		"lib/apiClient.js",
		"lib/dateUtils.js",
	}
	for i := 0; i < 50; i++ {
		file, _ := InferNaming(paths)
		assert.Equal(t, KebabCase, file)
	}

	// Snake vs Pascal tie: snake precedes Pascal.
	paths = []string{"a/user_card.py", "a/UserCard.py"}
	file, _ := InferNaming(paths)
	assert.Equal(t, SnakeCase, file)
}

func TestInferNaming_ComponentFallback(t *testing.T) {
	file, component := InferNaming([]string{"pkg/load_config.py", "pkg/save_state.py"})
	assert.Equal(t, SnakeCase, file)
	assert.Equal(t, CamelCase, component)

	file, component = InferNaming([]string{"index.js", "README.md"})
	assert.Empty(t, file)
	assert.Empty(t, component)
}
