package scan

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/spivx/devcontext-sub000/internal/response"
)

// ErrNotFound is returned when the repository itself does not exist.
var ErrNotFound = errors.New("scan: repository not found")

// LowRateLimit is the remaining-request count below which a scan carries a
// rate-limit warning.
const LowRateLimit = 5

const maxConcurrentReads = 4

// Vocabulary returns the registered answer values of field for a stack.
type Vocabulary func(stack string, field response.Field) []string

// Scanner reads a Source and produces a Summary.
type Scanner struct {
	vocab Vocabulary
}

func NewScanner(vocab Vocabulary) *Scanner {
	return &Scanner{vocab: vocab}
}

// rateTracker keeps the minimum remaining budget reported by any read.
type rateTracker struct {
	mu  sync.Mutex
	min int
}

func (r *rateTracker) observe(remaining int) {
	if remaining < 0 {
		return
	}
	r.mu.Lock()
	if r.min < 0 || remaining < r.min {
		r.min = remaining
	}
	r.mu.Unlock()
}

type warnings struct {
	mu   sync.Mutex
	list []string
}

func (w *warnings) add(format string, args ...any) {
	w.mu.Lock()
	w.list = append(w.list, fmt.Sprintf(format, args...))
	w.mu.Unlock()
}

// Scan reads repository metadata and tree, which are required, then issues
// the best-effort reads concurrently and extracts signals. Failed optional
// reads become warnings.
func (s *Scanner) Scan(ctx context.Context, src Source) (Summary, error) {
	rate := &rateTracker{min: UnknownRemaining}
	warn := &warnings{}

	meta := src.Metadata(ctx)
	rate.observe(meta.RateRemaining)
	md, ok := meta.Get()
	if !ok {
		if meta.Status == StatusAbsent {
			return Summary{}, ErrNotFound
		}
		return Summary{}, fmt.Errorf("scan: metadata: %w", meta.Err)
	}

	tree := src.Tree(ctx, md.DefaultBranch)
	rate.observe(tree.RateRemaining)
	t, ok := tree.Get()
	if !ok {
		if tree.Status == StatusAbsent {
			return Summary{}, fmt.Errorf("scan: tree for %q: %w", md.DefaultBranch, ErrNotFound)
		}
		return Summary{}, fmt.Errorf("scan: tree for %q: %w", md.DefaultBranch, tree.Err)
	}
	if t.Truncated {
		warn.add("repository tree was truncated; detection may be incomplete")
	}

	var (
		mu        sync.Mutex
		files     = map[string]string{}
		languages map[string]int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentReads)

	g.Go(func() error {
		res := src.Languages(gctx)
		rate.observe(res.RateRemaining)
		if v, ok := res.Get(); ok {
			mu.Lock()
			languages = v
			mu.Unlock()
		} else if res.Status == StatusError {
			warn.add("could not read languages: %v", res.Err)
		}
		return nil
	})
	for _, name := range optionalReads(t) {
		name := name
		g.Go(func() error {
			res := src.ReadFile(gctx, name)
			rate.observe(res.RateRemaining)
			switch res.Status {
			case StatusOK:
				mu.Lock()
				files[name] = string(res.Value)
				mu.Unlock()
			case StatusError:
				warn.add("could not read %s: %v", name, res.Err)
			}
			return nil
		})
	}
	// Reads never fail the group; Wait only joins.
	_ = g.Wait()

	var manifest *Manifest
	if raw, ok := files["package.json"]; ok {
		m, err := ParseManifest([]byte(raw))
		if err != nil {
			log.Printf("scan: %s: %v", md.Slug, err)
			warn.add("package.json could not be parsed: %v", err)
		} else {
			manifest = m
		}
	}

	in := Input{
		Paths:     t.Paths,
		Manifest:  manifest,
		Files:     files,
		Languages: rankLanguages(languages, md.Language),
	}
	if s.vocab != nil {
		in.PythonTesting = s.vocab("python", response.TestingUT)
	}

	summary := Extract(in)
	summary.Repo = md.Slug
	summary.DefaultBranch = md.DefaultBranch
	summary.Language = md.Language
	summary.Topics = append([]string{}, md.Topics...)

	if rate.min >= 0 && rate.min < LowRateLimit {
		warn.add("GitHub rate limit is low: %d requests remaining", rate.min)
	}
	sort.Strings(warn.list)
	summary.Warnings = warn.list
	if summary.Warnings == nil {
		summary.Warnings = []string{}
	}
	return summary, nil
}

// optionalReads lists the files worth fetching. Files missing from a
// complete tree are skipped; a truncated tree is read blindly.
func optionalReads(t Tree) []string {
	candidates := []string{"package.json", ".nvmrc", ".node-version"}
	candidates = append(candidates, pythonTestFiles...)
	candidates = append(candidates, eslintConfigs...)
	if t.Truncated {
		return candidates
	}
	var out []string
	for _, c := range candidates {
		if hasPath(t.Paths, c) {
			out = append(out, c)
		}
	}
	return out
}

// rankLanguages orders languages by bytes, largest first, ties by name.
func rankLanguages(bytes map[string]int64, primary string) []string {
	if len(bytes) == 0 {
		if primary = strings.TrimSpace(primary); primary != "" {
			return []string{primary}
		}
		return []string{}
	}
	out := make([]string, 0, len(bytes))
	for lang := range bytes {
		out = append(out, lang)
	}
	sort.Slice(out, func(i, j int) bool {
		if bytes[out[i]] != bytes[out[j]] {
			return bytes[out[i]] > bytes[out[j]]
		}
		return out[i] < out[j]
	})
	return out
}
