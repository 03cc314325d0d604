package scan

import (
	"regexp"
	"strings"
)

// pythonDepFiles declare python dependencies. pythonTestFiles adds runner
// configs whose text names the runner; the scanner reads both lists.
var (
	pythonDepFiles  = []string{"pyproject.toml", "requirements.txt", "requirements-dev.txt", "setup.cfg"}
	pythonTestFiles = append(append([]string{}, pythonDepFiles...), "tox.ini")
)

var (
	pytestPaths = regexp.MustCompile(`(?i)(^|/)(pytest\.ini|conftest\.py)$`)
	pyTestFile  = regexp.MustCompile(`(?i)(^|/)test_[^/]+\.py$`)
	behavePaths = regexp.MustCompile(`(?i)(^|/)features/([^/]+/)*[^/]+\.feature$|(^|/)features/steps/`)
	nose2Paths  = regexp.MustCompile(`(?i)(^|/)(unittest\.cfg|nose2\.cfg)$`)
)

// DetectPythonTesting reports python unit-testing tools found in paths and
// the supplied file contents (dependency files and tox.ini). Only
// values present in allowed are returned, in allowed's casing.
func DetectPythonTesting(paths []string, files map[string]string, allowed []string) []string {
	if len(allowed) == 0 {
		return nil
	}
	var text strings.Builder
	for _, name := range pythonTestFiles {
		text.WriteString(strings.ToLower(files[name]))
		text.WriteByte('\n')
	}
	deps := text.String()

	found := map[string]bool{}
	testFiles := false
	for _, p := range paths {
		switch {
		case pytestPaths.MatchString(p):
			found["pytest"] = true
		case behavePaths.MatchString(p):
			found["behave"] = true
		case nose2Paths.MatchString(p):
			found["nose2"] = true
		case pyTestFile.MatchString(p):
			testFiles = true
		}
	}
	if strings.Contains(deps, "pytest") {
		found["pytest"] = true
	}
	if strings.Contains(deps, "behave") {
		found["behave"] = true
	}
	if strings.Contains(deps, "nose2") {
		found["nose2"] = true
	}

	// test_*.py files with no runner configured run under unittest.
	if testFiles && !found["pytest"] {
		found["unittest"] = true
	}

	var out []string
	for _, v := range allowed {
		if found[strings.ToLower(strings.TrimSpace(v))] {
			out = append(out, v)
		}
	}
	return out
}
