// Package github reads repository data from the GitHub REST API for
// scanning.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spivx/devcontext-sub000/internal/scan"
)

const (
	DefaultBaseURL = "https://api.github.com"
	apiVersion     = "2022-11-28"
	maxBodyBytes   = 16 << 20
)

// Client is a minimal GitHub REST client.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u = strings.TrimRight(strings.TrimSpace(u), "/"); u != "" {
			c.baseURL = u
		}
	}
}

func WithToken(token string) Option {
	return func(c *Client) { c.token = strings.TrimSpace(token) }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Source returns a scan.Source reading repo.
func (c *Client) Source(repo Repo) *RepoSource {
	return &RepoSource{client: c, repo: repo}
}

// StatusError is a non-2xx response other than 404.
type StatusError struct {
	Code      int
	Message   string
	Remaining int
}

func (e *StatusError) Error() string {
	if e.Code == http.StatusForbidden && e.Remaining == 0 {
		return "github: rate limit exceeded"
	}
	if e.Message != "" {
		return fmt.Sprintf("github: %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("github: unexpected status %d", e.Code)
}

// remaining parses X-RateLimit-Remaining; scan.UnknownRemaining when absent.
func remaining(h http.Header) int {
	raw := strings.TrimSpace(h.Get("X-RateLimit-Remaining"))
	if raw == "" {
		return scan.UnknownRemaining
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return scan.UnknownRemaining
	}
	return n
}

// get performs a GET and returns the body. found is false on 404.
func (c *Client) get(ctx context.Context, path, accept string) (body []byte, found bool, rem int, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, false, scan.UnknownRemaining, err
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("X-GitHub-Api-Version", apiVersion)
	req.Header.Set("User-Agent", "devcontext")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, false, scan.UnknownRemaining, fmt.Errorf("github: GET %s: %w", path, err)
	}
	defer resp.Body.Close()
	rem = remaining(resp.Header)

	if resp.StatusCode == http.StatusNotFound {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, false, rem, nil
	}
	body, err = io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, false, rem, fmt.Errorf("github: read %s: %w", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var msg struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(body, &msg)
		return nil, false, rem, &StatusError{Code: resp.StatusCode, Message: msg.Message, Remaining: rem}
	}
	return body, true, rem, nil
}

func getJSON[T any](ctx context.Context, c *Client, path string) scan.Fetch[T] {
	body, found, rem, err := c.get(ctx, path, "application/vnd.github+json")
	if err != nil {
		return scan.Failed[T](err, rem)
	}
	if !found {
		return scan.Absent[T](rem)
	}
	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		return scan.Failed[T](fmt.Errorf("github: decode %s: %w", path, err), rem)
	}
	return scan.OK(v, rem)
}

// RepoSource implements scan.Source for one repository.
type RepoSource struct {
	client *Client
	repo   Repo
}

func (s *RepoSource) repoPath() string {
	return "/repos/" + url.PathEscape(s.repo.Owner) + "/" + url.PathEscape(s.repo.Name)
}

type repoResponse struct {
	FullName      string   `json:"full_name"`
	DefaultBranch string   `json:"default_branch"`
	Language      string   `json:"language"`
	Topics        []string `json:"topics"`
}

func (s *RepoSource) Metadata(ctx context.Context) scan.Fetch[scan.RepoMetadata] {
	res := getJSON[repoResponse](ctx, s.client, s.repoPath())
	r, ok := res.Get()
	if !ok {
		return scan.Fetch[scan.RepoMetadata]{Status: res.Status, Err: res.Err, RateRemaining: res.RateRemaining}
	}
	slug := r.FullName
	if slug == "" {
		slug = s.repo.String()
	}
	branch := r.DefaultBranch
	if branch == "" {
		branch = "main"
	}
	return scan.OK(scan.RepoMetadata{
		Slug:          slug,
		DefaultBranch: branch,
		Language:      r.Language,
		Topics:        append([]string{}, r.Topics...),
	}, res.RateRemaining)
}

func (s *RepoSource) Languages(ctx context.Context) scan.Fetch[map[string]int64] {
	return getJSON[map[string]int64](ctx, s.client, s.repoPath()+"/languages")
}

type treeResponse struct {
	Tree []struct {
		Path string `json:"path"`
		Type string `json:"type"`
	} `json:"tree"`
	Truncated bool `json:"truncated"`
}

func (s *RepoSource) Tree(ctx context.Context, ref string) scan.Fetch[scan.Tree] {
	res := getJSON[treeResponse](ctx, s.client, s.repoPath()+"/git/trees/"+url.PathEscape(ref)+"?recursive=1")
	tr, ok := res.Get()
	if !ok {
		return scan.Fetch[scan.Tree]{Status: res.Status, Err: res.Err, RateRemaining: res.RateRemaining}
	}
	out := scan.Tree{Truncated: tr.Truncated}
	for _, e := range tr.Tree {
		if e.Type == "blob" {
			out.Paths = append(out.Paths, e.Path)
		}
	}
	return scan.OK(out, res.RateRemaining)
}

// ReadFile fetches raw file content at the default branch.
func (s *RepoSource) ReadFile(ctx context.Context, name string) scan.Fetch[[]byte] {
	segs := strings.Split(strings.Trim(name, "/"), "/")
	for i, seg := range segs {
		segs[i] = url.PathEscape(seg)
	}
	body, found, rem, err := s.client.get(ctx, s.repoPath()+"/contents/"+strings.Join(segs, "/"), "application/vnd.github.raw")
	if err != nil {
		return scan.Failed[[]byte](err, rem)
	}
	if !found {
		return scan.Absent[[]byte](rem)
	}
	return scan.OK(body, rem)
}
