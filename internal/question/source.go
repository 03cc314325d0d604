package question

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"strings"
)

//go:embed data/*.json
var embedded embed.FS

// GeneralID names the dataset shared by every stack.
const GeneralID = "general"

// Source returns the ordered question list for a stack.
type Source interface {
	Questions(stack string) ([]Question, error)
}

var validID = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// FSSource serves `<stack>.json` followed by `general.json`. A general
// question whose id the stack file already defines is skipped.
type FSSource struct {
	fsys fs.FS
	dir  string
}

// Embedded serves the datasets bundled with the binary.
func Embedded() *FSSource {
	return &FSSource{fsys: embedded, dir: "data"}
}

// NewFSSource serves datasets from dir inside fsys.
func NewFSSource(fsys fs.FS, dir string) *FSSource {
	return &FSSource{fsys: fsys, dir: dir}
}

func (s *FSSource) Questions(stack string) ([]Question, error) {
	general, _, err := s.read(GeneralID)
	if err != nil {
		return nil, err
	}

	var own []Question
	if id := strings.ToLower(strings.TrimSpace(stack)); validID.MatchString(id) && id != GeneralID {
		own, _, err = s.read(id)
		if err != nil {
			return nil, err
		}
	}

	seen := make(map[string]struct{}, len(own))
	out := make([]Question, 0, len(own)+len(general))
	for _, q := range own {
		seen[q.ID] = struct{}{}
		out = append(out, q)
	}
	for _, q := range general {
		if _, ok := seen[q.ID]; ok {
			continue
		}
		out = append(out, q)
	}
	return out, nil
}

// Stacks lists the stack datasets available, excluding the general one.
func (s *FSSource) Stacks() ([]string, error) {
	entries, err := fs.ReadDir(s.fsys, s.dir)
	if err != nil {
		return nil, fmt.Errorf("list question datasets: %w", err)
	}
	var out []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || path.Ext(name) != ".json" {
			continue
		}
		id := strings.TrimSuffix(name, ".json")
		if id == GeneralID {
			continue
		}
		out = append(out, id)
	}
	return out, nil
}

func (s *FSSource) read(id string) ([]Question, bool, error) {
	data, err := fs.ReadFile(s.fsys, path.Join(s.dir, id+".json"))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read questions %s: %w", id, err)
	}
	var qs []Question
	if err := json.Unmarshal(data, &qs); err != nil {
		return nil, false, fmt.Errorf("parse questions %s: %w", id, err)
	}
	return qs, true, nil
}
