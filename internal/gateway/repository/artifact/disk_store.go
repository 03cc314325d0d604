package artifact

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DiskStore persists files under root/<scanID>/<name>.
type DiskStore struct {
	root string
}

func NewDiskStore(root string) *DiskStore {
	return &DiskStore{root: strings.TrimSpace(root)}
}

func (s *DiskStore) Put(_ context.Context, scanID, name string, content []byte) error {
	full, err := s.pathFor(scanID, name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	return os.WriteFile(full, content, 0o644)
}

func (s *DiskStore) Get(_ context.Context, scanID, name string) ([]byte, error) {
	full, err := s.pathFor(scanID, name)
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(full)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	return raw, err
}

func (s *DiskStore) GetURL(context.Context, string, string) (string, error) {
	return "", nil
}

func (s *DiskStore) List(_ context.Context, scanID string) ([]string, error) {
	root, err := s.scanRoot(scanID)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, 4)
	walkErr := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		names = append(names, filepath.ToSlash(rel))
		return nil
	})
	if walkErr != nil {
		if errors.Is(walkErr, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, walkErr
	}
	sort.Strings(names)
	return names, nil
}

func (s *DiskStore) scanRoot(scanID string) (string, error) {
	if s == nil || s.root == "" {
		return "", fmt.Errorf("root is required")
	}
	scanID = strings.TrimSpace(scanID)
	if scanID == "" {
		return "", fmt.Errorf("scan_id is required")
	}
	if strings.Contains(scanID, "..") || strings.ContainsAny(scanID, `/\`) {
		return "", fmt.Errorf("invalid scan_id: %s", scanID)
	}
	return filepath.Join(s.root, scanID), nil
}

func (s *DiskStore) pathFor(scanID, name string) (string, error) {
	scanID, name, err := normalizeKey(scanID, name)
	if err != nil {
		return "", err
	}
	root, err := s.scanRoot(scanID)
	if err != nil {
		return "", err
	}
	if strings.Contains(name, "..") || filepath.IsAbs(name) {
		return "", fmt.Errorf("invalid name: %s", name)
	}
	return filepath.Join(root, filepath.FromSlash(name)), nil
}
