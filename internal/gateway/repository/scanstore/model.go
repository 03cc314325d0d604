package scanstore

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spivx/devcontext-sub000/internal/render"
	"github.com/spivx/devcontext-sub000/internal/scan"
	"github.com/spivx/devcontext-sub000/internal/wizard"
)

var ErrNotFound = errors.New("scanstore: record not found")

// Record is one persisted scan with its synthesized responses.
type Record struct {
	ID        string        `json:"id"`
	Repo      string        `json:"repo"`
	Stack     string        `json:"stack"`
	CreatedAt time.Time     `json:"created_at"`
	Summary   scan.Summary  `json:"summary"`
	Result    wizard.Result `json:"result"`
	// Generated is set when a file was rendered for this scan.
	Generated *Generated `json:"generated,omitempty"`
}

type Generated struct {
	File render.File `json:"file"`
	// ArtifactKey locates the uploaded copy, empty when not uploaded.
	ArtifactKey string `json:"artifact_key,omitempty"`
	ArtifactURL string `json:"artifact_url,omitempty"`
}

// NewID returns a fresh record id.
func NewID() string {
	return uuid.NewString()
}

func normalizeRecord(r Record) Record {
	r.ID = strings.TrimSpace(r.ID)
	r.Repo = strings.TrimSpace(r.Repo)
	r.Stack = strings.TrimSpace(r.Stack)
	if r.Stack == "" {
		r.Stack = r.Result.Stack
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	return r
}
