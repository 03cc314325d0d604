package scan

import (
	"regexp"
	"strings"
)

type bucket int

const (
	bucketTooling bucket = iota
	bucketTesting
	bucketFrameworks
)

type pathPattern struct {
	re     *regexp.Regexp
	value  string
	bucket bucket
}

func pp(expr, value string, b bucket) pathPattern {
	return pathPattern{re: regexp.MustCompile(`(?i)` + expr), value: value, bucket: b}
}

// pathPatterns is evaluated against every path; each hit adds its value.
var pathPatterns = []pathPattern{
	pp(`(^|/)vite\.config\.(js|ts|mjs|cjs|mts)$`, "Vite", bucketTooling),
	pp(`(^|/)webpack\.config\.`, "Webpack", bucketTooling),
	pp(`(^|/)rollup\.config\.`, "Rollup", bucketTooling),
	pp(`(^|/)rspack\.config\.`, "Rspack", bucketTooling),
	pp(`(^|/)\.parcelrc$`, "Parcel", bucketTooling),
	pp(`(^|/)(babel\.config\.|\.babelrc)`, "Babel", bucketTooling),
	pp(`^turbo\.json$`, "Turborepo", bucketTooling),
	pp(`^nx\.json$`, "Nx", bucketTooling),
	pp(`^lerna\.json$`, "Lerna", bucketTooling),
	pp(`^angular\.json$`, "Angular CLI", bucketTooling),
	pp(`(^|/)vue\.config\.(js|ts)$`, "Vue CLI", bucketTooling),
	pp(`(^|/)tsconfig\.json$`, "TypeScript", bucketTooling),
	pp(`(^|/)dockerfile$`, "Docker", bucketTooling),
	pp(`(^|/)\.storybook/`, "Storybook", bucketTooling),
	pp(`^poetry\.lock$`, "Poetry", bucketTooling),
	pp(`^uv\.lock$`, "uv", bucketTooling),
	pp(`^pipfile(\.lock)?$`, "Pipenv", bucketTooling),
	pp(`^requirements(-[a-z]+)?\.txt$`, "pip", bucketTooling),

	pp(`(^|/)jest\.config\.`, "Jest", bucketTesting),
	pp(`(^|/)vitest\.config\.`, "Vitest", bucketTesting),
	pp(`(^|/)playwright\.config\.`, "Playwright", bucketTesting),
	pp(`(^|/)cypress(\.config\.|\.json$|/)`, "Cypress", bucketTesting),
	pp(`(^|/)karma\.conf\.`, "Karma", bucketTesting),
	pp(`(^|/)\.mocharc`, "Mocha", bucketTesting),

	pp(`(^|/)next\.config\.`, "Next.js", bucketFrameworks),
	pp(`(^|/)nuxt\.config\.`, "Nuxt", bucketFrameworks),
	pp(`(^|/)remix\.config\.`, "Remix", bucketFrameworks),
	pp(`(^|/)astro\.config\.`, "Astro", bucketFrameworks),
	pp(`^angular\.json$`, "Angular", bucketFrameworks),
	pp(`(^|/)svelte\.config\.`, "Svelte", bucketFrameworks),
	pp(`(^|/)manage\.py$`, "Django", bucketFrameworks),
}

type depPattern struct {
	name   string
	value  string
	bucket bucket
}

// depPatterns matches exact package names across all dependency buckets.
var depPatterns = []depPattern{
	{"next", "Next.js", bucketFrameworks},
	{"nuxt", "Nuxt", bucketFrameworks},
	{"@remix-run/react", "Remix", bucketFrameworks},
	{"astro", "Astro", bucketFrameworks},
	{"@angular/core", "Angular", bucketFrameworks},
	{"vue", "Vue", bucketFrameworks},
	{"svelte", "Svelte", bucketFrameworks},
	{"@sveltejs/kit", "SvelteKit", bucketFrameworks},
	{"react", "React", bucketFrameworks},
	{"express", "Express", bucketFrameworks},

	{"vite", "Vite", bucketTooling},
	{"webpack", "Webpack", bucketTooling},
	{"parcel", "Parcel", bucketTooling},
	{"@rspack/core", "Rspack", bucketTooling},
	{"react-scripts", "Create React App", bucketTooling},
	{"typescript", "TypeScript", bucketTooling},
	{"turbo", "Turborepo", bucketTooling},
	{"nx", "Nx", bucketTooling},
	{"@nx/workspace", "Nx", bucketTooling},
	{"@nrwl/workspace", "Nx", bucketTooling},
	{"@angular/cli", "Angular CLI", bucketTooling},
	{"@vue/cli-service", "Vue CLI", bucketTooling},
	{"eslint", "ESLint", bucketTooling},
	{"prettier", "Prettier", bucketTooling},

	{"jest", "Jest", bucketTesting},
	{"vitest", "Vitest", bucketTesting},
	{"@playwright/test", "Playwright", bucketTesting},
	{"cypress", "Cypress", bucketTesting},
	{"mocha", "Mocha", bucketTesting},
	{"karma", "Karma", bucketTesting},
	{"jasmine-core", "Jasmine", bucketTesting},
	{"@testing-library/react", "Testing Library", bucketTesting},
}

// choice maps the first present dependency to an enrichment value.
type choice struct {
	deps  []string
	value string
}

var (
	stylingChoices = []choice{
		{[]string{"tailwindcss"}, "tailwind"},
		{[]string{"styled-components"}, "styled-components"},
		{[]string{"@emotion/react", "@emotion/styled"}, "emotion"},
		{[]string{"sass"}, "sass"},
	}
	stateChoices = []choice{
		{[]string{"@reduxjs/toolkit"}, "redux-toolkit"},
		{[]string{"zustand"}, "zustand"},
		{[]string{"jotai"}, "jotai"},
		{[]string{"pinia"}, "pinia"},
		{[]string{"@ngrx/store"}, "ngrx"},
	}
	dataFetchingChoices = []choice{
		{[]string{"@tanstack/react-query", "react-query"}, "react-query"},
		{[]string{"swr"}, "swr"},
		{[]string{"@apollo/client"}, "apollo"},
		{[]string{"@trpc/client", "@trpc/server"}, "trpc"},
	}
	authChoices = []choice{
		{[]string{"next-auth", "@auth/core"}, "authjs"},
		{[]string{"@clerk/nextjs", "@clerk/clerk-react"}, "clerk"},
		{[]string{"@auth0/auth0-react", "@auth0/nextjs-auth0"}, "auth0"},
		{[]string{"firebase"}, "firebase"},
		{[]string{"@supabase/supabase-js"}, "supabase"},
	}
	validationChoices = []choice{
		{[]string{"zod"}, "zod"},
		{[]string{"yup"}, "yup"},
		{[]string{"valibot"}, "valibot"},
		{[]string{"joi"}, "joi"},
	}
	loggingChoices = []choice{
		{[]string{"@sentry/react", "@sentry/nextjs", "@sentry/node"}, "sentry"},
		{[]string{"pino"}, "pino"},
		{[]string{"winston"}, "winston"},
	}
)

func firstChoice(m *Manifest, choices []choice) string {
	for _, c := range choices {
		if m.HasAny(c.deps...) {
			return c.value
		}
	}
	return ""
}

// lockfiles maps root lockfiles to package managers, checked in order.
var lockfiles = []struct {
	path  string
	value string
}{
	{"pnpm-lock.yaml", "pnpm"},
	{"yarn.lock", "yarn"},
	{"bun.lockb", "bun"},
	{"package-lock.json", "npm"},
}

var ciPatterns = []pathPattern{
	pp(`^\.github/workflows/[^/]+\.ya?ml$`, "GitHub Actions", bucketTooling),
	pp(`^\.gitlab-ci\.yml$`, "GitLab CI", bucketTooling),
	pp(`^\.circleci/config\.yml$`, "CircleCI", bucketTooling),
	pp(`^azure-pipelines\.yml$`, "Azure Pipelines", bucketTooling),
	pp(`^jenkinsfile$`, "Jenkins", bucketTooling),
	pp(`^\.travis\.yml$`, "Travis CI", bucketTooling),
}

var codeQualityPatterns = []pathPattern{
	pp(`(^|/)(\.eslintrc(\.[a-z]+)?|eslint\.config\.(js|mjs|cjs|ts))$`, "eslint", bucketTooling),
	pp(`(^|/)(\.prettierrc(\.[a-z]+)?|prettier\.config\.(js|mjs|cjs))$`, "prettier", bucketTooling),
	pp(`(^|/)biome\.jsonc?$`, "biome", bucketTooling),
	pp(`(^|/)\.stylelintrc`, "stylelint", bucketTooling),
	pp(`(^|/)(\.flake8|ruff\.toml|\.ruff\.toml)$`, "ruff", bucketTooling),
	pp(`^\.pre-commit-config\.yaml$`, "pre-commit", bucketTooling),
	pp(`^\.husky/`, "husky", bucketTooling),
}

var editorConfigPatterns = []pathPattern{
	pp(`^\.editorconfig$`, "editorconfig", bucketTooling),
	pp(`^\.vscode/`, "vscode", bucketTooling),
	pp(`^\.idea/`, "jetbrains", bucketTooling),
}

var commitPatterns = []pathPattern{
	pp(`^\.gitmojirc\.json$`, "gitmoji", bucketTooling),
	pp(`(^|/)(commitlint\.config\.|\.commitlintrc)`, "conventional", bucketTooling),
}

// eslintConfigs lists root lint configs read for code-style sniffing.
var eslintConfigs = []string{
	".eslintrc.json",
	".eslintrc",
	".eslintrc.js",
	".eslintrc.cjs",
	"eslint.config.js",
	"eslint.config.mjs",
}

func matchAll(paths []string, patterns []pathPattern) []string {
	var out []string
	for _, p := range patterns {
		for _, path := range paths {
			if p.re.MatchString(path) {
				out = append(out, p.value)
				break
			}
		}
	}
	return out
}

func hasAnyPath(paths, want []string) bool {
	for _, w := range want {
		if hasPath(paths, w) {
			return true
		}
	}
	return false
}

func hasPath(paths []string, want string) bool {
	for _, p := range paths {
		if strings.EqualFold(p, want) {
			return true
		}
	}
	return false
}
