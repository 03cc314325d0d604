package scan

import (
	"regexp"
	"sort"
	"strings"
)

// Input is the raw data a Summary's signals are extracted from.
type Input struct {
	// Paths are forward-slash repository paths, case preserved.
	Paths []string
	// Manifest is the parsed root package.json, nil when absent.
	Manifest *Manifest
	// Files holds best-effort text reads keyed by path.
	Files map[string]string
	// Languages is ordered by bytes of code, largest first.
	Languages []string
	// PythonTesting is the registered unit-testing vocabulary of the python
	// stack. Python test runners outside it are never reported.
	PythonTesting []string
}

var (
	nextAppRoute   = regexp.MustCompile(`(?i)^(src/)?app/(.+/)?(page|layout)\.(tsx|jsx|ts|js)$`)
	nextPagesRoute = regexp.MustCompile(`(?i)^(src/)?pages/.+\.(tsx|jsx|ts|js)$`)
	nuxtPages      = regexp.MustCompile(`(?i)^pages/.+\.vue$`)
	remixRoutes    = regexp.MustCompile(`(?i)^app/routes/`)
	svelteRoutes   = regexp.MustCompile(`(?i)^src/routes/`)
	cssModules     = regexp.MustCompile(`(?i)\.module\.(css|scss|sass)$`)
	sassFiles      = regexp.MustCompile(`(?i)\.(scss|sass)$`)
)

type set map[string]struct{}

func (s set) add(values ...string) {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			s[v] = struct{}{}
		}
	}
}

func (s set) sorted() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Extract derives the signal fields of a Summary from in. Repository
// metadata and warnings are left to the caller.
func Extract(in Input) Summary {
	tooling, testing, frameworks := set{}, set{}, set{}
	buckets := map[bucket]set{bucketTooling: tooling, bucketTesting: testing, bucketFrameworks: frameworks}

	for _, p := range pathPatterns {
		for _, path := range in.Paths {
			if p.re.MatchString(path) {
				buckets[p.bucket].add(p.value)
				break
			}
		}
	}
	for _, d := range depPatterns {
		if in.Manifest.Has(d.name) {
			buckets[d.bucket].add(d.value)
		}
	}
	if containsFold(in.Languages, "python") || hasAnyPath(in.Paths, pythonDepFiles) {
		testing.add(DetectPythonTesting(in.Paths, in.Files, in.PythonTesting)...)
	}

	s := Summary{
		Languages:  append([]string{}, in.Languages...),
		Frameworks: frameworks.sorted(),
		Tooling:    tooling.sorted(),
		Testing:    testing.sorted(),
		Structure:  detectStructure(in.Paths),
	}

	s.PackageManager = detectPackageManager(in.Paths, in.Manifest)
	s.NodeVersion = detectNodeVersion(in.Files, in.Manifest)
	if in.Manifest != nil && len(in.Manifest.Workspaces) > 0 {
		s.Workspaces = append([]string{}, in.Manifest.Workspaces...)
	}
	s.IsMonorepo = len(s.Workspaces) > 0 ||
		hasPath(in.Paths, "pnpm-workspace.yaml") ||
		hasPath(in.Paths, "lerna.json") ||
		hasPath(in.Paths, "nx.json") ||
		hasPath(in.Paths, "turbo.json") ||
		(s.Structure.Apps && s.Structure.Packages)

	s.Routing = detectRouting(in.Paths, frameworks, in.Manifest)
	s.Styling = firstChoice(in.Manifest, stylingChoices)
	if s.Styling == "" {
		s.Styling = detectStylingFromPaths(in.Paths)
	}
	s.StateManagement = firstChoice(in.Manifest, stateChoices)
	s.DataFetching = firstChoice(in.Manifest, dataFetchingChoices)
	s.Auth = firstChoice(in.Manifest, authChoices)
	s.Validation = firstChoice(in.Manifest, validationChoices)
	s.Logging = firstChoice(in.Manifest, loggingChoices)
	if deps := pythonDeps(in.Files); deps != "" {
		if s.Validation == "" && strings.Contains(deps, "pydantic") {
			s.Validation = "pydantic"
		}
		if s.Logging == "" {
			for _, lib := range []string{"sentry", "structlog", "loguru"} {
				if strings.Contains(deps, lib) {
					s.Logging = lib
					break
				}
			}
		}
	}

	s.CI = matchAll(in.Paths, ciPatterns)
	s.CodeQuality = matchAll(in.Paths, codeQualityPatterns)
	s.EditorConfig = matchAll(in.Paths, editorConfigPatterns)
	s.CodeStylePreference = detectCodeStyle(in.Manifest, in.Files, s.CodeQuality)
	s.CommitMessageStyle = detectCommitStyle(in.Paths, in.Manifest)
	s.FileNamingStyle, s.ComponentNamingStyle = InferNaming(in.Paths)
	return s
}

func detectStructure(paths []string) Structure {
	var st Structure
	for _, p := range paths {
		lower := strings.ToLower(p)
		top, rest, nested := strings.Cut(lower, "/")
		if !nested {
			continue
		}
		switch top {
		case "src":
			st.Src = true
			if strings.HasPrefix(rest, "components/") {
				st.Components = true
			}
		case "components":
			st.Components = true
		case "tests", "test", "__tests__":
			st.Tests = true
		case "apps":
			st.Apps = true
		case "packages":
			st.Packages = true
		}
	}
	return st
}

func detectPackageManager(paths []string, m *Manifest) string {
	if name := m.packageManagerName(); name != "" {
		return name
	}
	for _, lf := range lockfiles {
		if hasPath(paths, lf.path) {
			return lf.value
		}
	}
	switch {
	case hasPath(paths, "poetry.lock"):
		return "poetry"
	case hasPath(paths, "uv.lock"):
		return "uv"
	case hasPath(paths, "Pipfile"):
		return "pipenv"
	case hasPath(paths, "requirements.txt"):
		return "pip"
	}
	return ""
}

func detectNodeVersion(files map[string]string, m *Manifest) string {
	for _, name := range []string{".nvmrc", ".node-version"} {
		if v := strings.TrimSpace(files[name]); v != "" {
			line, _, _ := strings.Cut(v, "\n")
			return strings.TrimSpace(line)
		}
	}
	if m != nil {
		return strings.TrimSpace(m.Engines.Node)
	}
	return ""
}

func detectRouting(paths []string, frameworks set, m *Manifest) string {
	has := func(name string) bool { _, ok := frameworks[name]; return ok }
	anyPath := func(re *regexp.Regexp) bool {
		for _, p := range paths {
			if re.MatchString(p) {
				return true
			}
		}
		return false
	}
	switch {
	case has("Next.js") && anyPath(nextAppRoute):
		return "nextjs-app"
	case has("Next.js") && anyPath(nextPagesRoute):
		return "nextjs-pages"
	case has("Nuxt") && anyPath(nuxtPages):
		return "nuxt-pages"
	case has("Remix") && anyPath(remixRoutes):
		return "remix-routes"
	case has("SvelteKit") && anyPath(svelteRoutes):
		return "sveltekit-routes"
	case m.Has("react-router-dom") || m.Has("react-router"):
		return "react-router"
	case m.Has("@angular/router"):
		return "angular-router"
	case m.Has("vue-router"):
		return "vue-router"
	}
	return ""
}

func detectStylingFromPaths(paths []string) string {
	modules, sass := false, false
	for _, p := range paths {
		if cssModules.MatchString(p) {
			modules = true
		} else if sassFiles.MatchString(p) {
			sass = true
		}
	}
	switch {
	case modules:
		return "css-modules"
	case sass:
		return "sass"
	}
	return ""
}

func pythonDeps(files map[string]string) string {
	var b strings.Builder
	for _, name := range pythonDepFiles {
		b.WriteString(strings.ToLower(files[name]))
		b.WriteByte('\n')
	}
	return b.String()
}

// detectCodeStyle prefers explicit shareable configs, then sniffs the root
// ESLint config text, then falls back to prettier when configured.
func detectCodeStyle(m *Manifest, files map[string]string, quality []string) string {
	switch {
	case m.HasAny("eslint-config-airbnb", "eslint-config-airbnb-base", "eslint-config-airbnb-typescript"):
		return "airbnb"
	case m.HasAny("eslint-config-standard", "standard", "eslint-config-standard-with-typescript"):
		return "standard"
	case m.Has("eslint-config-google"):
		return "google"
	}
	for _, name := range eslintConfigs {
		text := strings.ToLower(files[name])
		switch {
		case strings.Contains(text, "airbnb"):
			return "airbnb"
		case strings.Contains(text, "standard"):
			return "standard"
		}
	}
	if m.Has("prettier") || containsFold(quality, "prettier") {
		return "prettier"
	}
	return ""
}

func detectCommitStyle(paths []string, m *Manifest) string {
	found := matchAll(paths, commitPatterns)
	switch {
	case containsFold(found, "gitmoji") || m.HasAny("gitmoji-cli", "gitmoji-changelog", "commitlint-config-gitmoji"):
		return "gitmoji"
	case containsFold(found, "conventional") || m.HasAny("@commitlint/config-conventional", "@commitlint/cli", "commitizen", "cz-conventional-changelog"):
		return "conventional"
	}
	return ""
}

func containsFold(list []string, want string) bool {
	for _, v := range list {
		if strings.EqualFold(strings.TrimSpace(v), want) {
			return true
		}
	}
	return false
}
