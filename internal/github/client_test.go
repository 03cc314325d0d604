package github

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spivx/devcontext-sub000/internal/scan"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/web", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		w.Header().Set("X-RateLimit-Remaining", "42")
		_, _ = w.Write([]byte(`{"full_name":"acme/web","default_branch":"trunk","language":"TypeScript","topics":["react"]}`))
	})
	mux.HandleFunc("/repos/acme/web/languages", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RateLimit-Remaining", "41")
		_, _ = w.Write([]byte(`{"TypeScript": 1200, "CSS": 30}`))
	})
	mux.HandleFunc("/repos/acme/web/git/trees/trunk", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("recursive"))
		w.Header().Set("X-RateLimit-Remaining", "40")
		_, _ = w.Write([]byte(`{"tree":[{"path":"src","type":"tree"},{"path":"src/App.tsx","type":"blob"},{"path":"package.json","type":"blob"}],"truncated":true}`))
	})
	mux.HandleFunc("/repos/acme/web/contents/package.json", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/vnd.github.raw", r.Header.Get("Accept"))
		w.Header().Set("X-RateLimit-Remaining", "3")
		_, _ = w.Write([]byte(`{"dependencies":{"react":"18"}}`))
	})
	mux.HandleFunc("/repos/acme/limited", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RateLimit-Remaining", "0")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"API rate limit exceeded"}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestRepoSource(t *testing.T) {
	srv := newTestServer(t)
	src := NewClient(WithBaseURL(srv.URL), WithToken("secret")).Source(Repo{Owner: "acme", Name: "web"})
	ctx := context.Background()

	md := src.Metadata(ctx)
	require.Equal(t, scan.StatusOK, md.Status)
	assert.Equal(t, "trunk", md.Value.DefaultBranch)
	assert.Equal(t, []string{"react"}, md.Value.Topics)
	assert.Equal(t, 42, md.RateRemaining)

	langs, ok := src.Languages(ctx).Get()
	require.True(t, ok)
	assert.Equal(t, int64(1200), langs["TypeScript"])

	tree, ok := src.Tree(ctx, "trunk").Get()
	require.True(t, ok)
	assert.True(t, tree.Truncated)
	assert.Equal(t, []string{"src/App.tsx", "package.json"}, tree.Paths)

	file := src.ReadFile(ctx, "package.json")
	require.Equal(t, scan.StatusOK, file.Status)
	assert.Contains(t, string(file.Value), "react")
	assert.Equal(t, 3, file.RateRemaining)

	missing := src.ReadFile(ctx, ".nvmrc")
	assert.Equal(t, scan.StatusAbsent, missing.Status)
}

func TestRepoSource_MissingRepo(t *testing.T) {
	srv := newTestServer(t)
	src := NewClient(WithBaseURL(srv.URL)).Source(Repo{Owner: "acme", Name: "gone"})
	assert.Equal(t, scan.StatusAbsent, src.Metadata(context.Background()).Status)
}

func TestRepoSource_RateLimited(t *testing.T) {
	srv := newTestServer(t)
	src := NewClient(WithBaseURL(srv.URL)).Source(Repo{Owner: "acme", Name: "limited"})

	md := src.Metadata(context.Background())
	require.Equal(t, scan.StatusError, md.Status)
	assert.Equal(t, 0, md.RateRemaining)
	var se *StatusError
	require.True(t, errors.As(md.Err, &se))
	assert.Equal(t, http.StatusForbidden, se.Code)
	assert.EqualError(t, md.Err, "github: rate limit exceeded")
}

func TestScanThroughGitHub(t *testing.T) {
	srv := newTestServer(t)
	src := NewClient(WithBaseURL(srv.URL), WithToken("secret")).Source(Repo{Owner: "acme", Name: "web"})

	s, err := scan.NewScanner(nil).Scan(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, "acme/web", s.Repo)
	assert.Equal(t, []string{"React"}, s.Frameworks)
	assert.Equal(t, []string{"TypeScript", "CSS"}, s.Languages)
	assert.Contains(t, s.Warnings, "GitHub rate limit is low: 3 requests remaining")
	assert.Contains(t, s.Warnings, "repository tree was truncated; detection may be incomplete")
}
