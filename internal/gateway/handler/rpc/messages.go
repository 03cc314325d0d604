package rpc

import (
	"time"

	"github.com/spivx/devcontext-sub000/internal/gateway/repository/scanstore"
	"github.com/spivx/devcontext-sub000/internal/render"
	"github.com/spivx/devcontext-sub000/internal/response"
	"github.com/spivx/devcontext-sub000/internal/scan"
	"github.com/spivx/devcontext-sub000/internal/wizard"
)

type ScanRepositoryRequest struct {
	Repo    string `json:"repo"`
	Output  string `json:"output,omitempty"`
	Refresh bool   `json:"refresh,omitempty"`
}

type ScanRepositoryResponse struct {
	Scan Scan `json:"scan"`
}

type GetScanRequest struct {
	ScanID string `json:"scanId"`
}

type GetScanResponse struct {
	Scan Scan `json:"scan"`
}

type ListScansRequest struct {
	Repo  string `json:"repo,omitempty"`
	Limit int    `json:"limit,omitempty"`
}

type ListScansResponse struct {
	Scans []Scan `json:"scans"`
}

type GenerateFileRequest struct {
	ScanID string `json:"scanId"`
	Output string `json:"output,omitempty"`
}

type GenerateFileResponse struct {
	Scan Scan `json:"scan"`
}

type ListOutputsRequest struct{}

type ListOutputsResponse struct {
	Outputs []Output `json:"outputs"`
}

type Output struct {
	ID       string `json:"id"`
	FileName string `json:"fileName"`
}

// Scan is the wire view of a stored scan.
type Scan struct {
	ID                   string                                   `json:"scanId"`
	Repo                 string                                   `json:"repo"`
	Stack                string                                   `json:"stack"`
	CreatedAt            time.Time                                `json:"createdAt"`
	Summary              scan.Summary                             `json:"summary"`
	Responses            response.Responses                       `json:"responses"`
	HasCustomConventions bool                                     `json:"hasCustomConventions"`
	DefaultedQuestions   map[string]bool                          `json:"defaultedQuestions"`
	DefaultedFieldMeta   map[response.Field]wizard.DefaultedField `json:"defaultedFieldMeta"`
	File                 *GeneratedFile                           `json:"file,omitempty"`
}

type GeneratedFile struct {
	Name    string `json:"name"`
	Content string `json:"content"`
	URL     string `json:"url,omitempty"`
}

func toScan(r scanstore.Record) Scan {
	s := Scan{
		ID:                   r.ID,
		Repo:                 r.Repo,
		Stack:                r.Stack,
		CreatedAt:            r.CreatedAt,
		Summary:              r.Summary,
		Responses:            r.Result.Responses,
		HasCustomConventions: r.Result.HasCustomConventions,
		DefaultedQuestions:   r.Result.DefaultedQuestions,
		DefaultedFieldMeta:   r.Result.DefaultedFieldMeta,
	}
	if s.DefaultedQuestions == nil {
		s.DefaultedQuestions = map[string]bool{}
	}
	if s.DefaultedFieldMeta == nil {
		s.DefaultedFieldMeta = map[response.Field]wizard.DefaultedField{}
	}
	if g := r.Generated; g != nil {
		s.File = &GeneratedFile{Name: g.File.Name, Content: g.File.Content, URL: g.ArtifactURL}
	}
	return s
}

func toOutputs(in []render.Output) []Output {
	out := make([]Output, 0, len(in))
	for _, o := range in {
		out = append(out, Output{ID: o.ID, FileName: o.FileName})
	}
	return out
}
