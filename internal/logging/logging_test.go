package logging

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSetupWritesToFileAndStderr(t *testing.T) {
	var stderr bytes.Buffer
	l := log.New(&bytes.Buffer{}, "", 0)
	path := filepath.Join(t.TempDir(), "logs", "devcontext.log")

	closer := setup(l, &stderr, path)
	l.Printf("scan: acme/web done")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(b), "scan: acme/web done") {
		t.Fatalf("log file missing line: %q", b)
	}
	if !strings.Contains(stderr.String(), "scan: acme/web done") {
		t.Fatalf("stderr missing line: %q", stderr.String())
	}
}

func TestSetupWithoutFile(t *testing.T) {
	var stderr bytes.Buffer
	l := log.New(&bytes.Buffer{}, "", 0)
	if err := setup(l, &stderr, " ").Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	l.Printf("hello")
	if !strings.Contains(stderr.String(), "hello") {
		t.Fatalf("stderr = %q", stderr.String())
	}
}
