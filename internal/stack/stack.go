// Package stack maps detected frameworks and languages to the canonical
// stack id that selects conventions and questions.
package stack

import (
	"regexp"
	"strings"
)

const (
	NextJS  = "nextjs"
	Nuxt    = "nuxt"
	Remix   = "remix"
	Astro   = "astro"
	Angular = "angular"
	Vue     = "vue"
	Svelte  = "svelte"
	React   = "react"
	Python  = "python"

	// Fallback is returned when nothing else matches.
	Fallback = React
)

type matcher struct {
	id string
	re *regexp.Regexp
}

// Meta-frameworks come before the framework they build on: a Next.js repo
// also depends on React.
var frameworkOrder = []matcher{
	{NextJS, regexp.MustCompile(`^next(\.?js)?$`)},
	{Nuxt, regexp.MustCompile(`^nuxt(\.?js)?$`)},
	{Remix, regexp.MustCompile(`^remix`)},
	{Astro, regexp.MustCompile(`^astro$`)},
	{Angular, regexp.MustCompile(`^angular(js)?$`)},
	{Vue, regexp.MustCompile(`^vue(\.?js)?$`)},
	{Svelte, regexp.MustCompile(`^svelte(kit)?$`)},
	{React, regexp.MustCompile(`^react(\.?js)?$`)},
}

// Detect picks exactly one stack. Frameworks are checked in priority order,
// then the python language, then Fallback.
func Detect(frameworks, languages []string) string {
	fw := lowered(frameworks)
	for _, m := range frameworkOrder {
		for _, f := range fw {
			if m.re.MatchString(f) {
				return m.id
			}
		}
	}
	for _, l := range lowered(languages) {
		if l == Python {
			return Python
		}
	}
	return Fallback
}

func lowered(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
