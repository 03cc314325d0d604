// Package scan runs repository scans for the gateway: fetch, synthesize,
// persist and optionally render a configuration file.
package scan

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/spivx/devcontext-sub000/internal/gateway/repository/artifact"
	"github.com/spivx/devcontext-sub000/internal/gateway/repository/scanstore"
	"github.com/spivx/devcontext-sub000/internal/github"
	"github.com/spivx/devcontext-sub000/internal/render"
	scanpkg "github.com/spivx/devcontext-sub000/internal/scan"
	"github.com/spivx/devcontext-sub000/internal/wizard"
)

const cacheSize = 256

// Stage names a step reported through Progress.
type Stage string

const (
	StageResolving    Stage = "resolving"
	StageScanning     Stage = "scanning"
	StageSynthesizing Stage = "synthesizing"
	StageRendering    Stage = "rendering"
	StageStored       Stage = "stored"
)

// Progress receives stage updates. It may be nil.
type Progress func(stage Stage, detail string)

type Request struct {
	Repo string
	// Output, when set, renders that file kind after synthesis.
	Output string
	// Refresh skips the scan cache.
	Refresh bool
}

type Deps struct {
	Sources  func(github.Repo) scanpkg.Source
	Scanner  *scanpkg.Scanner
	Synth    *wizard.Synthesizer
	Store    *scanstore.Store
	Artifact artifact.Store
	// CacheTTL of zero disables the scan cache.
	CacheTTL time.Duration
}

type cached struct {
	summary scanpkg.Summary
	result  wizard.Result
}

type Service struct {
	sources  func(github.Repo) scanpkg.Source
	scanner  *scanpkg.Scanner
	synth    *wizard.Synthesizer
	store    *scanstore.Store
	artifact artifact.Store
	cache    *expirable.LRU[string, cached]
}

func New(d Deps) *Service {
	s := &Service{
		sources:  d.Sources,
		scanner:  d.Scanner,
		synth:    d.Synth,
		store:    d.Store,
		artifact: d.Artifact,
	}
	if d.CacheTTL > 0 {
		s.cache = expirable.NewLRU[string, cached](cacheSize, nil, d.CacheTTL)
	}
	return s
}

func (p Progress) report(stage Stage, format string, args ...any) {
	if p != nil {
		p(stage, fmt.Sprintf(format, args...))
	}
}

// Scan scans req.Repo, stores a new record and returns it.
func (s *Service) Scan(ctx context.Context, req Request, progress Progress) (scanstore.Record, error) {
	progress.report(StageResolving, "%s", req.Repo)
	repo, err := github.ParseRepo(req.Repo)
	if err != nil {
		return scanstore.Record{}, err
	}
	key := strings.ToLower(repo.String())

	var entry cached
	hit := false
	if s.cache != nil && !req.Refresh {
		entry, hit = s.cache.Get(key)
	}
	if !hit {
		progress.report(StageScanning, "%s", repo)
		summary, err := s.scanner.Scan(ctx, s.sources(repo))
		if err != nil {
			return scanstore.Record{}, fmt.Errorf("scan %s: %w", repo, err)
		}
		progress.report(StageSynthesizing, "%s", repo)
		result, err := s.synth.Synthesize(summary)
		if err != nil {
			return scanstore.Record{}, fmt.Errorf("synthesize %s: %w", repo, err)
		}
		entry = cached{summary: summary, result: result}
		if s.cache != nil {
			s.cache.Add(key, entry)
		}
	} else {
		log.Printf("scan: cache hit for %s", repo)
	}

	rec := scanstore.Record{
		ID:      scanstore.NewID(),
		Repo:    entry.summary.Repo,
		Stack:   entry.result.Stack,
		Summary: entry.summary,
		Result:  entry.result,
	}
	// Local sources report a bare directory name.
	if !strings.Contains(rec.Repo, "/") {
		rec.Repo = repo.String()
	}
	if strings.TrimSpace(req.Output) != "" {
		progress.report(StageRendering, "%s", req.Output)
		gen, err := s.generate(ctx, rec, req.Output)
		if err != nil {
			return scanstore.Record{}, err
		}
		rec.Generated = gen
	}

	rec, err = s.store.Put(ctx, rec)
	if err != nil {
		return scanstore.Record{}, err
	}
	progress.report(StageStored, "%s", rec.ID)
	log.Printf("scan: %s -> stack=%s id=%s warnings=%d", rec.Repo, rec.Stack, rec.ID, len(rec.Summary.Warnings))
	return rec, nil
}

func (s *Service) Get(ctx context.Context, id string) (scanstore.Record, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) History(ctx context.Context, repo string, limit int) ([]scanstore.Record, error) {
	if strings.TrimSpace(repo) != "" {
		r, err := github.ParseRepo(repo)
		if err != nil {
			return nil, err
		}
		repo = r.String()
	}
	return s.store.ListByRepo(ctx, repo, limit)
}

// Generate renders output for a stored scan and records the file. An empty
// output uses the scan's outputFile answer.
func (s *Service) Generate(ctx context.Context, id, output string) (scanstore.Record, error) {
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return scanstore.Record{}, err
	}
	gen, err := s.generate(ctx, rec, output)
	if err != nil {
		return scanstore.Record{}, err
	}
	rec.Generated = gen
	return s.store.Put(ctx, rec)
}

func (s *Service) generate(ctx context.Context, rec scanstore.Record, output string) (*scanstore.Generated, error) {
	file, err := render.Render(output, rec.Result.Responses, rec.Result.ApplyTo)
	if err != nil {
		return nil, err
	}
	gen := &scanstore.Generated{File: file}
	if s.artifact == nil {
		return gen, nil
	}
	if err := s.artifact.Put(ctx, rec.ID, file.Name, []byte(file.Content)); err != nil {
		// The rendered content is still returned inline.
		log.Printf("scan: upload %s for %s: %v", file.Name, rec.ID, err)
		return gen, nil
	}
	gen.ArtifactKey = rec.ID + "/" + file.Name
	url, err := s.artifact.GetURL(ctx, rec.ID, file.Name)
	if err != nil {
		log.Printf("scan: presign %s for %s: %v", file.Name, rec.ID, err)
	}
	gen.ArtifactURL = url
	return gen, nil
}

// IsInvalidInput reports errors caused by the caller's request.
func IsInvalidInput(err error) bool {
	return errors.Is(err, github.ErrInvalidRepo) || errors.Is(err, render.ErrUnknownOutput)
}

// IsNotFound reports missing repositories and scan records.
func IsNotFound(err error) bool {
	return errors.Is(err, scanpkg.ErrNotFound) || errors.Is(err, scanstore.ErrNotFound)
}
