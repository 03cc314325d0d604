// Package artifact stores generated configuration files per scan.
package artifact

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"path"
	"strings"
)

// Store persists files generated for a scan.
type Store interface {
	Put(ctx context.Context, scanID, name string, content []byte) error
	Get(ctx context.Context, scanID, name string) ([]byte, error)
	// GetURL returns a download URL, or "" when the backend has none.
	GetURL(ctx context.Context, scanID, name string) (string, error)
	List(ctx context.Context, scanID string) ([]string, error)
}

var ErrNotFound = errors.New("artifact not found")

func normalizeKey(scanID, name string) (string, string, error) {
	scanID = strings.TrimSpace(scanID)
	name = strings.TrimLeft(strings.TrimSpace(name), "/")
	if scanID == "" {
		return "", "", fmt.Errorf("scan_id is required")
	}
	if name == "" {
		return "", "", fmt.Errorf("name is required")
	}
	return scanID, name, nil
}

func objectKey(scanID, name string) string {
	return "scans/" + scanID + "/" + name
}

func contentType(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".md", ".mdc":
		return "text/markdown; charset=utf-8"
	}
	if t := mime.TypeByExtension(path.Ext(name)); t != "" {
		return t
	}
	return "application/octet-stream"
}
