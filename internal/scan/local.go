package scan

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	ignore "github.com/sabhiram/go-gitignore"
)

var skipDirs = map[string]bool{
	".git": true, ".hg": true, ".svn": true,
	"node_modules": true, "vendor": true, "dist": true, "build": true,
	".next": true, ".nuxt": true, ".cache": true, "__pycache__": true, ".venv": true,
}

var extLanguages = map[string]string{
	".ts": "TypeScript", ".tsx": "TypeScript", ".mts": "TypeScript",
	".js": "JavaScript", ".jsx": "JavaScript", ".mjs": "JavaScript", ".cjs": "JavaScript",
	".py": "Python",
	".vue": "Vue", ".svelte": "Svelte", ".astro": "Astro",
	".css": "CSS", ".scss": "SCSS", ".html": "HTML",
	".go": "Go", ".rs": "Rust", ".java": "Java", ".rb": "Ruby",
}

// LocalSource reads a checked-out repository from disk. Paths ignored by
// the root .gitignore are left out of the tree.
type LocalSource struct {
	root string

	once  sync.Once
	paths []string
	bytes map[string]int64
	err   error
}

func NewLocalSource(root string) *LocalSource {
	return &LocalSource{root: filepath.Clean(root)}
}

func (s *LocalSource) walk() {
	s.once.Do(func() {
		rules := loadIgnore(s.root)
		s.bytes = map[string]int64{}
		s.err = filepath.WalkDir(s.root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			rel, err := filepath.Rel(s.root, p)
			if err != nil || rel == "." {
				return nil
			}
			rel = filepath.ToSlash(rel)
			if d.IsDir() {
				if skipDirs[d.Name()] || (rules != nil && rules.MatchesPath(rel+"/")) {
					return filepath.SkipDir
				}
				return nil
			}
			if rules != nil && rules.MatchesPath(rel) {
				return nil
			}
			s.paths = append(s.paths, rel)
			if isBinary(rel) {
				return nil
			}
			if lang, ok := extLanguages[strings.ToLower(path.Ext(rel))]; ok {
				if info, err := d.Info(); err == nil {
					s.bytes[lang] += info.Size()
				}
			}
			return nil
		})
	})
}

func loadIgnore(root string) *ignore.GitIgnore {
	b, err := os.ReadFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	return ignore.CompileIgnoreLines(strings.Split(string(b), "\n")...)
}

func (s *LocalSource) Metadata(ctx context.Context) Fetch[RepoMetadata] {
	info, err := os.Stat(s.root)
	if errors.Is(err, fs.ErrNotExist) {
		return Absent[RepoMetadata](UnknownRemaining)
	}
	if err != nil {
		return Failed[RepoMetadata](err, UnknownRemaining)
	}
	if !info.IsDir() {
		return Failed[RepoMetadata](fmt.Errorf("%s is not a directory", s.root), UnknownRemaining)
	}
	s.walk()
	if s.err != nil {
		return Failed[RepoMetadata](s.err, UnknownRemaining)
	}
	md := RepoMetadata{Slug: filepath.Base(s.root), DefaultBranch: headBranch(s.root)}
	if ranked := rankLanguages(s.bytes, ""); len(ranked) > 0 {
		md.Language = ranked[0]
	}
	return OK(md, UnknownRemaining)
}

// headBranch reads the checked-out branch from .git/HEAD.
func headBranch(root string) string {
	b, err := os.ReadFile(filepath.Join(root, ".git", "HEAD"))
	if err != nil {
		return "HEAD"
	}
	ref := strings.TrimSpace(string(b))
	if name, ok := strings.CutPrefix(ref, "ref: refs/heads/"); ok {
		return name
	}
	return "HEAD"
}

func (s *LocalSource) Languages(ctx context.Context) Fetch[map[string]int64] {
	s.walk()
	if s.err != nil {
		return Failed[map[string]int64](s.err, UnknownRemaining)
	}
	out := make(map[string]int64, len(s.bytes))
	for k, v := range s.bytes {
		out[k] = v
	}
	return OK(out, UnknownRemaining)
}

// Tree returns the working tree; ref is ignored.
func (s *LocalSource) Tree(ctx context.Context, ref string) Fetch[Tree] {
	s.walk()
	if s.err != nil {
		return Failed[Tree](s.err, UnknownRemaining)
	}
	return OK(Tree{Paths: append([]string{}, s.paths...)}, UnknownRemaining)
}

func (s *LocalSource) ReadFile(ctx context.Context, name string) Fetch[[]byte] {
	clean := path.Clean("/" + filepath.ToSlash(name))[1:]
	if clean == "" || clean != strings.TrimPrefix(filepath.ToSlash(name), "./") {
		return Failed[[]byte](fmt.Errorf("invalid path %q", name), UnknownRemaining)
	}
	b, err := os.ReadFile(filepath.Join(s.root, filepath.FromSlash(clean)))
	if errors.Is(err, fs.ErrNotExist) {
		return Absent[[]byte](UnknownRemaining)
	}
	if err != nil {
		return Failed[[]byte](err, UnknownRemaining)
	}
	return OK(b, UnknownRemaining)
}

func isBinary(p string) bool {
	switch strings.ToLower(path.Ext(p)) {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp", ".ico", ".bmp", ".tiff", ".svg":
		return true
	case ".mp4", ".m4v", ".mov", ".mkv", ".webm", ".avi":
		return true
	case ".mp3", ".wav", ".ogg", ".flac", ".m4a":
		return true
	case ".pdf", ".zip", ".jar", ".gz", ".tgz", ".bz2", ".7z", ".exe", ".dll", ".dylib", ".so", ".woff", ".woff2":
		return true
	}
	return false
}
