package scan

import (
	"path"
	"regexp"
	"strings"
)

// Naming styles as emitted in a Summary.
const (
	KebabCase  = "kebab-case"
	SnakeCase  = "snake_case"
	PascalCase = "PascalCase"
	CamelCase  = "camelCase"
)

// namingStyles is tried in order; the patterns are mutually exclusive. The
// order is also the tie-break when two styles have the same count.
var namingStyles = []struct {
	style string
	re    *regexp.Regexp
}{
	{KebabCase, regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)+$`)},
	{SnakeCase, regexp.MustCompile(`^[a-z0-9]+(_[a-z0-9]+)+$`)},
	{PascalCase, regexp.MustCompile(`^[A-Z][a-z0-9]+([A-Z][a-z0-9]*)*$`)},
	{CamelCase, regexp.MustCompile(`^[a-z][a-z0-9]*([A-Z][a-z0-9]*)+$`)},
}

var sourceExts = map[string]bool{
	".js": true, ".jsx": true, ".ts": true, ".tsx": true, ".mjs": true, ".cjs": true,
	".vue": true, ".svelte": true, ".astro": true, ".py": true,
	".css": true, ".scss": true, ".sass": true, ".less": true,
}

var variantMarkers = map[string]bool{"test": true, "spec": true, "stories": true}

// componentFallback maps a file naming style to a component naming style.
var componentFallback = map[string]string{
	KebabCase:  CamelCase,
	SnakeCase:  CamelCase,
	PascalCase: PascalCase,
	CamelCase:  CamelCase,
}

// classifyName returns the naming style of base, or "" when none applies.
func classifyName(base string) string {
	for _, s := range namingStyles {
		if s.re.MatchString(base) {
			return s.style
		}
	}
	return ""
}

// baseName strips the extension and a trailing variant marker:
// "Button.test.tsx" -> "Button".
func baseName(p string) (name, ext string) {
	file := path.Base(p)
	ext = strings.ToLower(path.Ext(file))
	name = strings.TrimSuffix(file, path.Ext(file))
	if i := strings.LastIndex(name, "."); i > 0 && variantMarkers[strings.ToLower(name[i+1:])] {
		name = name[:i]
	}
	return name, ext
}

func isHidden(p string) bool {
	for _, seg := range strings.Split(p, "/") {
		if strings.HasPrefix(seg, ".") {
			return true
		}
	}
	return false
}

func inComponentsDir(p string) bool {
	dir := strings.ToLower(path.Dir(p))
	for _, seg := range strings.Split(dir, "/") {
		if seg == "components" || seg == "component" || seg == "ui" {
			return true
		}
	}
	return false
}

type tally map[string]int

// dominant returns the style with the strictly highest count; ties keep
// the earlier style in namingStyles order.
func (t tally) dominant() string {
	best, bestCount := "", 0
	for _, s := range namingStyles {
		if c := t[s.style]; c > bestCount {
			best, bestCount = s.style, c
		}
	}
	return best
}

// InferNaming returns the dominant file and component naming styles of
// paths. Either may be empty.
func InferNaming(paths []string) (fileStyle, componentStyle string) {
	files, components := tally{}, tally{}
	for _, p := range paths {
		if isHidden(p) {
			continue
		}
		name, ext := baseName(p)
		style := classifyName(name)
		if style == "" {
			continue
		}
		if sourceExts[ext] {
			files[style]++
		}
		if ext == ".tsx" || ext == ".jsx" || (sourceExts[ext] && inComponentsDir(p)) {
			components[style]++
		}
	}
	fileStyle = files.dominant()
	componentStyle = components.dominant()
	if componentStyle == "" && fileStyle != "" {
		componentStyle = componentFallback[fileStyle]
	}
	return fileStyle, componentStyle
}
