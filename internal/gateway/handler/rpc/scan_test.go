package rpc

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"connectrpc.com/connect"
	"github.com/gorilla/websocket"

	"github.com/spivx/devcontext-sub000/internal/convention"
	"github.com/spivx/devcontext-sub000/internal/gateway/repository/artifact"
	"github.com/spivx/devcontext-sub000/internal/gateway/repository/scanstore"
	"github.com/spivx/devcontext-sub000/internal/gateway/service/scan"
	"github.com/spivx/devcontext-sub000/internal/github"
	"github.com/spivx/devcontext-sub000/internal/question"
	scanpkg "github.com/spivx/devcontext-sub000/internal/scan"
	"github.com/spivx/devcontext-sub000/internal/wizard"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	root := t.TempDir()
	repoDir := filepath.Join(root, "web")
	if err := os.MkdirAll(filepath.Join(repoDir, "src"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(repoDir, "package.json"), []byte(`{"dependencies":{"vue":"3"}}`), 0o644); err != nil {
		t.Fatalf("write package.json: %v", err)
	}
	if err := os.WriteFile(filepath.Join(repoDir, "src", "main.ts"), []byte("createApp()"), 0o644); err != nil {
		t.Fatalf("write main.ts: %v", err)
	}

	synth := wizard.NewSynthesizer(
		convention.NewStore(convention.Embedded(), nil),
		question.NewLoader(question.Embedded(), nil),
	)
	svc := scan.New(scan.Deps{
		Sources: func(r github.Repo) scanpkg.Source {
			return scanpkg.NewLocalSource(filepath.Join(root, r.Name))
		},
		Scanner:  scanpkg.NewScanner(synth.Vocabulary),
		Synth:    synth,
		Store:    scanstore.New(filepath.Join(t.TempDir(), "scans.json")),
		Artifact: artifact.NewMemoryStore(),
	})
	h := NewScanHandler(svc)

	mux := http.NewServeMux()
	mux.Handle(NewScanServiceHandler(h))
	mux.HandleFunc("/ws/scan", h.HandleScanWS)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func client[Req, Res any](srv *httptest.Server, procedure string) *connect.Client[Req, Res] {
	return connect.NewClient[Req, Res](srv.Client(), srv.URL+procedure, connect.WithCodec(jsonCodec{}))
}

func TestScanRepositoryAndGenerate(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	scanned, err := client[ScanRepositoryRequest, ScanRepositoryResponse](srv, ScanRepositoryProcedure).
		CallUnary(ctx, connect.NewRequest(&ScanRepositoryRequest{Repo: "acme/web"}))
	if err != nil {
		t.Fatalf("ScanRepository: %v", err)
	}
	got := scanned.Msg.Scan
	if got.Stack != "vue" {
		t.Fatalf("stack = %q", got.Stack)
	}
	if got.ID == "" {
		t.Fatal("expected scan id")
	}
	if got.File != nil {
		t.Fatalf("unexpected file: %+v", got.File)
	}
	if got.Summary.Warnings == nil {
		t.Fatal("warnings should encode as an empty list")
	}

	fetched, err := client[GetScanRequest, GetScanResponse](srv, GetScanProcedure).
		CallUnary(ctx, connect.NewRequest(&GetScanRequest{ScanID: got.ID}))
	if err != nil {
		t.Fatalf("GetScan: %v", err)
	}
	if fetched.Msg.Scan.ID != got.ID {
		t.Fatalf("GetScan id = %q, want %q", fetched.Msg.Scan.ID, got.ID)
	}

	generated, err := client[GenerateFileRequest, GenerateFileResponse](srv, GenerateFileProcedure).
		CallUnary(ctx, connect.NewRequest(&GenerateFileRequest{ScanID: got.ID, Output: "agents-md"}))
	if err != nil {
		t.Fatalf("GenerateFile: %v", err)
	}
	if f := generated.Msg.Scan.File; f == nil || f.Name != "AGENTS.md" {
		t.Fatalf("generated file = %+v", f)
	}

	list, err := client[ListScansRequest, ListScansResponse](srv, ListScansProcedure).
		CallUnary(ctx, connect.NewRequest(&ListScansRequest{Repo: "acme/web"}))
	if err != nil {
		t.Fatalf("ListScans: %v", err)
	}
	if len(list.Msg.Scans) != 1 {
		t.Fatalf("scans = %d, want 1", len(list.Msg.Scans))
	}

	outputs, err := client[ListOutputsRequest, ListOutputsResponse](srv, ListOutputsProcedure).
		CallUnary(ctx, connect.NewRequest(&ListOutputsRequest{}))
	if err != nil {
		t.Fatalf("ListOutputs: %v", err)
	}
	if len(outputs.Msg.Outputs) != 3 {
		t.Fatalf("outputs = %d, want 3", len(outputs.Msg.Outputs))
	}
}

func TestScanRepositoryErrors(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()
	c := client[ScanRepositoryRequest, ScanRepositoryResponse](srv, ScanRepositoryProcedure)

	cases := []struct {
		repo string
		code connect.Code
	}{
		{"", connect.CodeInvalidArgument},
		{"definitely not a repo", connect.CodeInvalidArgument},
		{"acme/missing", connect.CodeNotFound},
	}
	for _, tc := range cases {
		_, err := c.CallUnary(ctx, connect.NewRequest(&ScanRepositoryRequest{Repo: tc.repo}))
		if err == nil {
			t.Fatalf("%q: expected error", tc.repo)
		}
		if got := connect.CodeOf(err); got != tc.code {
			t.Fatalf("%q: code = %v, want %v", tc.repo, got, tc.code)
		}
	}

	_, err := client[GetScanRequest, GetScanResponse](srv, GetScanProcedure).
		CallUnary(ctx, connect.NewRequest(&GetScanRequest{ScanID: "nope"}))
	if got := connect.CodeOf(err); got != connect.CodeNotFound {
		t.Fatalf("GetScan code = %v", got)
	}
}

func dialScan(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/scan?" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readUntilDone collects progress stages and returns the terminal message.
func readUntilDone(t *testing.T, conn *websocket.Conn) ([]string, scanWSOutbound) {
	t.Helper()
	var stages []string
	for {
		var msg scanWSOutbound
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read: %v", err)
		}
		if msg.Type != "progress" {
			return stages, msg
		}
		stages = append(stages, msg.Stage)
	}
}

func TestHandleScanWS(t *testing.T) {
	srv := newTestServer(t)
	conn := dialScan(t, srv, "repo=acme/web&output=cursor-rules")

	stages, final := readUntilDone(t, conn)
	want := []string{"resolving", "scanning", "synthesizing", "rendering", "stored"}
	if !reflect.DeepEqual(stages, want) {
		t.Fatalf("stages = %v, want %v", stages, want)
	}
	if final.Type != "result" || final.Scan == nil || final.Scan.File == nil {
		t.Fatalf("final message = %+v", final)
	}
	if final.Scan.File.Name != ".cursor/rules/project.mdc" {
		t.Fatalf("file name = %q", final.Scan.File.Name)
	}
}

func TestHandleScanWS_Error(t *testing.T) {
	srv := newTestServer(t)
	conn := dialScan(t, srv, "repo=acme/missing")

	_, msg := readUntilDone(t, conn)
	if msg.Type != "error" || msg.Code != "not_found" {
		t.Fatalf("message = %+v, want not_found error", msg)
	}
}

func TestHandleScanWS_RequiresRepo(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/ws/scan")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}
