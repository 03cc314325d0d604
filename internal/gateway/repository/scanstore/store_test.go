package scanstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/spivx/devcontext-sub000/internal/wizard"
)

func TestFileStore_PutGetList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scans.json")
	s := New(path)
	ctx := context.Background()

	old, err := s.Put(ctx, Record{Repo: " acme/web ", CreatedAt: time.Now().Add(-time.Hour), Result: wizard.Result{Stack: "react"}})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if old.ID == "" || old.Repo != "acme/web" || old.Stack != "react" {
		t.Fatalf("unexpected record: %+v", old)
	}

	recent, err := s.Put(ctx, Record{Repo: "acme/web", Stack: "nextjs"})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := s.Put(ctx, Record{Repo: "acme/api", Stack: "python"}); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := s.Get(ctx, old.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Stack != "react" {
		t.Fatalf("stack = %q", got.Stack)
	}

	list, err := s.ListByRepo(ctx, "ACME/web", 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("list len = %d, want 2", len(list))
	}
	if list[0].ID != recent.ID {
		t.Fatalf("newest first: got %s, want %s", list[0].ID, recent.ID)
	}

	list, err = s.ListByRepo(ctx, "", 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("limited list len = %d", len(list))
	}

	reopened := New(path)
	got, err = reopened.Get(ctx, recent.ID)
	if err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
	if got.Stack != "nextjs" {
		t.Fatalf("stack after reopen = %q", got.Stack)
	}
}

func TestFileStore_NotFound(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "scans.json"))
	for _, id := range []string{"missing", "  "} {
		if _, err := s.Get(context.Background(), id); !errors.Is(err, ErrNotFound) {
			t.Fatalf("Get(%q) err = %v, want ErrNotFound", id, err)
		}
	}

	var nilStore *Store
	if _, err := nilStore.Get(context.Background(), "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("nil store err = %v", err)
	}
}

func TestOpen_FallsBackToFile(t *testing.T) {
	s := Open("", filepath.Join(t.TempDir(), "scans.json"))
	if s.Backend() != "file" {
		t.Fatalf("backend = %q", s.Backend())
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
