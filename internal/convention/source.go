package convention

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"regexp"
	"strings"
)

//go:embed data/*.json
var embedded embed.FS

// Source returns one convention file by id. Implementations return
// ErrNotFound when no file exists and an error wrapping ErrMalformed when
// the file cannot be decoded.
type Source interface {
	Lookup(id string) (*Conventions, error)
}

var validID = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

func fileID(id string) (string, bool) {
	id = strings.ToLower(strings.TrimSpace(id))
	if !validID.MatchString(id) {
		return "", false
	}
	return id, true
}

// FSSource reads `<id>.json`, `<id>.yaml` or `<id>.yml` from a file system.
type FSSource struct {
	fsys fs.FS
	dir  string
}

// Embedded serves the convention files bundled with the binary.
func Embedded() *FSSource {
	return &FSSource{fsys: embedded, dir: "data"}
}

// Dir serves convention files from a directory on disk.
func Dir(root string) *FSSource {
	return &FSSource{fsys: os.DirFS(root), dir: "."}
}

func (s *FSSource) Lookup(id string) (*Conventions, error) {
	name, ok := fileID(id)
	if !ok {
		return nil, ErrNotFound
	}
	candidates := []struct {
		ext    string
		format Format
	}{
		{".json", FormatJSON},
		{".yaml", FormatYAML},
		{".yml", FormatYAML},
	}
	for _, c := range candidates {
		data, err := fs.ReadFile(s.fsys, path.Join(s.dir, name+c.ext))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("read conventions %s: %w", name, err)
		}
		conv, err := Parse(data, c.format)
		if err != nil {
			return nil, fmt.Errorf("conventions %s%s: %w", name, c.ext, err)
		}
		return conv, nil
	}
	return nil, ErrNotFound
}

// Layered consults each source in order and returns the first file found.
// A malformed file in an earlier layer is reported rather than skipped.
type Layered []Source

func (l Layered) Lookup(id string) (*Conventions, error) {
	for _, src := range l {
		if src == nil {
			continue
		}
		conv, err := src.Lookup(id)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		return conv, err
	}
	return nil, ErrNotFound
}
