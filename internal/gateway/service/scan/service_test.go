package scan

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/spivx/devcontext-sub000/internal/convention"
	"github.com/spivx/devcontext-sub000/internal/gateway/repository/artifact"
	"github.com/spivx/devcontext-sub000/internal/gateway/repository/scanstore"
	"github.com/spivx/devcontext-sub000/internal/github"
	"github.com/spivx/devcontext-sub000/internal/question"
	scanpkg "github.com/spivx/devcontext-sub000/internal/scan"
	"github.com/spivx/devcontext-sub000/internal/wizard"
)

type fixture struct {
	svc      *Service
	artifact *artifact.MemoryStore
	calls    int
}

func newFixture(t *testing.T, ttl time.Duration) *fixture {
	t.Helper()
	repoDir := t.TempDir()
	files := map[string]string{
		"package.json":     `{"dependencies":{"react":"18"},"devDependencies":{"vitest":"1","@playwright/test":"1"}}`,
		"vite.config.ts":   "export default {}",
		"src/App.tsx":      "export function App() {}",
		".github/workflows/ci.yml": "on: push",
	}
	for name, content := range files {
		p := filepath.Join(repoDir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	synth := wizard.NewSynthesizer(
		convention.NewStore(convention.Embedded(), nil),
		question.NewLoader(question.Embedded(), nil),
	)
	f := &fixture{artifact: artifact.NewMemoryStore()}
	f.svc = New(Deps{
		Sources: func(github.Repo) scanpkg.Source {
			f.calls++
			return scanpkg.NewLocalSource(repoDir)
		},
		Scanner:  scanpkg.NewScanner(synth.Vocabulary),
		Synth:    synth,
		Store:    scanstore.New(filepath.Join(t.TempDir(), "scans.json")),
		Artifact: f.artifact,
		CacheTTL: ttl,
	})
	return f
}

func TestScan_StoresAndRenders(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()

	var stages []Stage
	rec, err := f.svc.Scan(ctx, Request{Repo: "https://github.com/acme/web", Output: "agents-md"}, func(s Stage, _ string) {
		stages = append(stages, s)
	})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	wantStages := []Stage{StageResolving, StageScanning, StageSynthesizing, StageRendering, StageStored}
	if !reflect.DeepEqual(stages, wantStages) {
		t.Fatalf("stages = %v, want %v", stages, wantStages)
	}
	if rec.Stack != "react" {
		t.Fatalf("stack = %q", rec.Stack)
	}
	if v, _ := rec.Result.Responses.Get("tooling"); v != "vite" {
		t.Fatalf("tooling = %q", v)
	}
	if v, _ := rec.Result.Responses.Get("prRules"); v != "reviewRequired" {
		t.Fatalf("prRules = %q", v)
	}

	if rec.Generated == nil {
		t.Fatal("expected generated file")
	}
	if rec.Generated.File.Name != "AGENTS.md" {
		t.Fatalf("file name = %q", rec.Generated.File.Name)
	}
	if !strings.Contains(rec.Generated.File.Content, "vitest") {
		t.Fatalf("content missing vitest:\n%s", rec.Generated.File.Content)
	}
	stored, err := f.artifact.Get(ctx, rec.ID, "AGENTS.md")
	if err != nil {
		t.Fatalf("artifact get: %v", err)
	}
	if string(stored) != rec.Generated.File.Content {
		t.Fatal("stored artifact differs from returned content")
	}

	got, err := f.svc.Get(ctx, rec.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != rec.ID {
		t.Fatalf("get id = %q, want %q", got.ID, rec.ID)
	}
}

func TestScan_CacheReusesSynthesis(t *testing.T) {
	f := newFixture(t, time.Minute)
	ctx := context.Background()

	first, err := f.svc.Scan(ctx, Request{Repo: "acme/web"}, nil)
	if err != nil {
		t.Fatalf("first scan: %v", err)
	}
	second, err := f.svc.Scan(ctx, Request{Repo: "ACME/web"}, nil)
	if err != nil {
		t.Fatalf("second scan: %v", err)
	}
	if f.calls != 1 {
		t.Fatalf("source calls = %d, want 1", f.calls)
	}
	if first.ID == second.ID {
		t.Fatal("every scan should get its own record")
	}

	if _, err := f.svc.Scan(ctx, Request{Repo: "acme/web", Refresh: true}, nil); err != nil {
		t.Fatalf("refresh scan: %v", err)
	}
	if f.calls != 2 {
		t.Fatalf("source calls after refresh = %d, want 2", f.calls)
	}

	history, err := f.svc.History(ctx, "", 0)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("history len = %d, want 3", len(history))
	}
}

func TestGenerate(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()
	rec, err := f.svc.Scan(ctx, Request{Repo: "acme/web"}, nil)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if rec.Generated != nil {
		t.Fatal("scan without output should not render")
	}

	rec, err = f.svc.Generate(ctx, rec.ID, "cursor-rules")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if rec.Generated == nil || !strings.Contains(rec.Generated.File.Content, "globs: **/*.{ts,tsx,js,jsx}") {
		t.Fatalf("cursor rules missing globs: %+v", rec.Generated)
	}

	if _, err := f.svc.Generate(ctx, rec.ID, "readme"); !IsInvalidInput(err) {
		t.Fatalf("unknown output err = %v", err)
	}
	if _, err := f.svc.Generate(ctx, "missing", ""); !IsNotFound(err) {
		t.Fatalf("missing scan err = %v", err)
	}
}

func TestScan_Errors(t *testing.T) {
	f := newFixture(t, 0)
	if _, err := f.svc.Scan(context.Background(), Request{Repo: "not a repo"}, nil); !IsInvalidInput(err) {
		t.Fatalf("bad repo err = %v", err)
	}

	f.svc.sources = func(github.Repo) scanpkg.Source {
		return scanpkg.NewLocalSource(filepath.Join(t.TempDir(), "gone"))
	}
	if _, err := f.svc.Scan(context.Background(), Request{Repo: "acme/gone"}, nil); !IsNotFound(err) {
		t.Fatalf("missing repo err = %v", err)
	}
}
