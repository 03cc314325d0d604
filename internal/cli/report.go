package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spivx/devcontext-sub000/internal/render"
	"github.com/spivx/devcontext-sub000/internal/response"
	"github.com/spivx/devcontext-sub000/internal/scan"
	"github.com/spivx/devcontext-sub000/internal/wizard"
)

// scanReport is what `scan --json` prints and `generate --from` reads.
type scanReport struct {
	Summary scan.Summary  `json:"summary"`
	Result  wizard.Result `json:"result"`
}

func readReport(path string, stdin io.Reader) (scanReport, error) {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return scanReport{}, err
		}
		defer f.Close()
		r = f
	}
	var rep scanReport
	if err := json.NewDecoder(r).Decode(&rep); err != nil {
		return scanReport{}, fmt.Errorf("decode scan report: %w", err)
	}
	if strings.TrimSpace(rep.Result.Stack) == "" {
		return scanReport{}, fmt.Errorf("scan report has no stack")
	}
	return rep, nil
}

func printReport(w io.Writer, rep scanReport) {
	res := rep.Result
	title := "Stack: " + res.Stack
	if res.HasCustomConventions {
		title += " (stack conventions)"
	}
	fmt.Fprintln(w, styleTitle.Render(title))
	if rep.Summary.Repo != "" {
		fmt.Fprintln(w, styleMuted.Render(rep.Summary.Repo+"@"+rep.Summary.DefaultBranch))
	}
	fmt.Fprintln(w)

	for _, f := range response.Fields {
		v, ok := res.Responses.Get(f)
		if !ok || f == response.StackSelection {
			continue
		}
		line := styleKey.Render(string(f)) + v
		if _, defaulted := res.DefaultedFieldMeta[f]; defaulted {
			line += " " + styleMuted.Render("(default)")
		}
		fmt.Fprintln(w, "  "+line)
	}

	if len(rep.Summary.Warnings) > 0 {
		fmt.Fprintln(w)
		for _, warn := range rep.Summary.Warnings {
			fmt.Fprintln(w, styleWarning.Render("! "+warn))
		}
	}
}

// emitFile prints the rendered file, or writes it under dir when write is
// set and returns the written path.
func emitFile(w io.Writer, file render.File, write bool, dir string) (string, error) {
	if !write {
		_, err := io.WriteString(w, file.Content)
		return "", err
	}
	path := filepath.Join(dir, filepath.FromSlash(file.Name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(file.Content), 0o644); err != nil {
		return "", err
	}
	fmt.Fprintln(w, styleSuccess.Render("✓ wrote "+path))
	return path, nil
}
