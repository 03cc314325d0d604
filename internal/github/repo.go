package github

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var ErrInvalidRepo = errors.New("github: invalid repository")

// Repo identifies a GitHub repository.
type Repo struct {
	Owner string
	Name  string
}

func (r Repo) String() string { return r.Owner + "/" + r.Name }

// ParseRepo accepts "owner/repo", https and ssh GitHub URLs.
func ParseRepo(raw string) (Repo, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Repo{}, fmt.Errorf("%w: empty", ErrInvalidRepo)
	}

	if rest, ok := strings.CutPrefix(raw, "git@github.com:"); ok {
		return splitOwnerRepo(raw, strings.TrimSuffix(rest, ".git"))
	}
	if !strings.Contains(raw, "://") {
		if strings.HasPrefix(strings.ToLower(raw), "github.com/") {
			raw = "https://" + raw
		} else {
			return splitOwnerRepo(raw, strings.TrimSuffix(raw, ".git"))
		}
	}

	u, err := url.Parse(raw)
	if err != nil {
		return Repo{}, fmt.Errorf("%w: %v", ErrInvalidRepo, err)
	}
	host := strings.ToLower(strings.TrimSpace(u.Host))
	if host != "github.com" && host != "www.github.com" {
		return Repo{}, fmt.Errorf("%w: only github.com is supported, got %q", ErrInvalidRepo, u.Host)
	}
	return splitOwnerRepo(raw, strings.TrimSuffix(strings.Trim(u.Path, "/"), ".git"))
}

// splitOwnerRepo takes the first two path segments; anything after them
// (tree/main/...) is ignored.
func splitOwnerRepo(raw, repoPath string) (Repo, error) {
	parts := strings.Split(strings.Trim(repoPath, "/"), "/")
	if len(parts) < 2 {
		return Repo{}, fmt.Errorf("%w: %q", ErrInvalidRepo, raw)
	}
	owner := strings.TrimSpace(parts[0])
	name := strings.TrimSpace(parts[1])
	if owner == "" || name == "" || strings.ContainsAny(owner+name, " :?#") {
		return Repo{}, fmt.Errorf("%w: %q", ErrInvalidRepo, raw)
	}
	return Repo{Owner: owner, Name: name}, nil
}
