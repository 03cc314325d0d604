package rpc

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/spivx/devcontext-sub000/internal/gateway/service/scan"
	"github.com/spivx/devcontext-sub000/internal/github"
	"github.com/spivx/devcontext-sub000/internal/render"
)

const ScanServiceName = "devcontext.v1.ScanService"

const (
	ScanRepositoryProcedure = "/" + ScanServiceName + "/ScanRepository"
	GetScanProcedure        = "/" + ScanServiceName + "/GetScan"
	ListScansProcedure      = "/" + ScanServiceName + "/ListScans"
	GenerateFileProcedure   = "/" + ScanServiceName + "/GenerateFile"
	ListOutputsProcedure    = "/" + ScanServiceName + "/ListOutputs"
)

type ScanHandler struct {
	svc *scan.Service
}

func NewScanHandler(svc *scan.Service) *ScanHandler {
	return &ScanHandler{svc: svc}
}

// NewScanServiceHandler mounts every ScanService procedure and returns the
// path prefix to register the handler under.
func NewScanServiceHandler(h *ScanHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)
	mux := http.NewServeMux()
	mux.Handle(ScanRepositoryProcedure, connect.NewUnaryHandler(ScanRepositoryProcedure, h.ScanRepository, opts...))
	mux.Handle(GetScanProcedure, connect.NewUnaryHandler(GetScanProcedure, h.GetScan, opts...))
	mux.Handle(ListScansProcedure, connect.NewUnaryHandler(ListScansProcedure, h.ListScans, opts...))
	mux.Handle(GenerateFileProcedure, connect.NewUnaryHandler(GenerateFileProcedure, h.GenerateFile, opts...))
	mux.Handle(ListOutputsProcedure, connect.NewUnaryHandler(ListOutputsProcedure, h.ListOutputs, opts...))
	return "/" + ScanServiceName + "/", mux
}

func (h *ScanHandler) ScanRepository(ctx context.Context, req *connect.Request[ScanRepositoryRequest]) (*connect.Response[ScanRepositoryResponse], error) {
	repo := strings.TrimSpace(req.Msg.Repo)
	if repo == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("repo is required"))
	}
	rec, err := h.svc.Scan(ctx, scan.Request{
		Repo:    repo,
		Output:  strings.TrimSpace(req.Msg.Output),
		Refresh: req.Msg.Refresh,
	}, nil)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&ScanRepositoryResponse{Scan: toScan(rec)}), nil
}

func (h *ScanHandler) GetScan(ctx context.Context, req *connect.Request[GetScanRequest]) (*connect.Response[GetScanResponse], error) {
	id := strings.TrimSpace(req.Msg.ScanID)
	if id == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("scanId is required"))
	}
	rec, err := h.svc.Get(ctx, id)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&GetScanResponse{Scan: toScan(rec)}), nil
}

func (h *ScanHandler) ListScans(ctx context.Context, req *connect.Request[ListScansRequest]) (*connect.Response[ListScansResponse], error) {
	if req.Msg.Limit < 0 {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("limit must not be negative"))
	}
	recs, err := h.svc.History(ctx, req.Msg.Repo, req.Msg.Limit)
	if err != nil {
		return nil, toConnectError(err)
	}
	out := &ListScansResponse{Scans: make([]Scan, 0, len(recs))}
	for _, r := range recs {
		out.Scans = append(out.Scans, toScan(r))
	}
	return connect.NewResponse(out), nil
}

func (h *ScanHandler) GenerateFile(ctx context.Context, req *connect.Request[GenerateFileRequest]) (*connect.Response[GenerateFileResponse], error) {
	id := strings.TrimSpace(req.Msg.ScanID)
	if id == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("scanId is required"))
	}
	rec, err := h.svc.Generate(ctx, id, req.Msg.Output)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&GenerateFileResponse{Scan: toScan(rec)}), nil
}

func (h *ScanHandler) ListOutputs(context.Context, *connect.Request[ListOutputsRequest]) (*connect.Response[ListOutputsResponse], error) {
	return connect.NewResponse(&ListOutputsResponse{Outputs: toOutputs(render.Outputs())}), nil
}

func toConnectError(err error) error {
	var statusErr *github.StatusError
	switch {
	case scan.IsInvalidInput(err):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case scan.IsNotFound(err):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	case errors.As(err, &statusErr) && statusErr.Remaining == 0:
		return connect.NewError(connect.CodeResourceExhausted, err)
	case errors.As(err, &statusErr):
		return connect.NewError(connect.CodeUnavailable, err)
	}
	log.Printf("rpc: scan service: %v", err)
	return connect.NewError(connect.CodeInternal, err)
}
