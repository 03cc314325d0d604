package scan

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Manifest is the subset of package.json the extractor reads.
type Manifest struct {
	Name                 string            `json:"name"`
	PackageManager       string            `json:"packageManager"`
	Dependencies         map[string]string `json:"dependencies"`
	DevDependencies      map[string]string `json:"devDependencies"`
	PeerDependencies     map[string]string `json:"peerDependencies"`
	OptionalDependencies map[string]string `json:"optionalDependencies"`
	Engines              Engines           `json:"engines"`
	Workspaces           Workspaces        `json:"workspaces"`
}

type Engines struct {
	Node string `json:"node"`
}

// Workspaces accepts both the array form and the `{ "packages": [...] }`
// form of package.json workspaces.
type Workspaces []string

func (w *Workspaces) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*w = nil
		return nil
	}
	if data[0] == '[' {
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*w = list
		return nil
	}
	var obj struct {
		Packages []string `json:"packages"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*w = obj.Packages
	return nil
}

// ParseManifest decodes package.json content.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse package.json: %w", err)
	}
	return &m, nil
}

// Has reports whether name appears in any dependency bucket. A nil
// manifest has no dependencies.
func (m *Manifest) Has(name string) bool {
	if m == nil {
		return false
	}
	for _, bucket := range []map[string]string{m.Dependencies, m.DevDependencies, m.PeerDependencies, m.OptionalDependencies} {
		if _, ok := bucket[name]; ok {
			return true
		}
	}
	return false
}

// HasAny reports whether any of names is a dependency.
func (m *Manifest) HasAny(names ...string) bool {
	for _, n := range names {
		if m.Has(n) {
			return true
		}
	}
	return false
}

// packageManagerName extracts "pnpm" from "pnpm@9.1.0".
func (m *Manifest) packageManagerName() string {
	if m == nil {
		return ""
	}
	name, _, _ := strings.Cut(strings.TrimSpace(m.PackageManager), "@")
	return strings.ToLower(name)
}
