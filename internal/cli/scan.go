package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spivx/devcontext-sub000/internal/github"
	"github.com/spivx/devcontext-sub000/internal/render"
	"github.com/spivx/devcontext-sub000/internal/scan"
	"github.com/spivx/devcontext-sub000/internal/wizard"
)

type scanOptions struct {
	local       string
	output      string
	write       bool
	dir         string
	jsonOut     bool
	token       string
	apiURL      string
	conventions string
}

func newScanCmd() *cobra.Command {
	opts := &scanOptions{}
	cmd := &cobra.Command{
		Use:   "scan [owner/repo | github url]",
		Short: "Scan a repository and synthesize wizard answers",
		Long: `Scan a GitHub repository, or a local checkout with --local, detect its
stack and conventions, and print the synthesized answers.

Examples:
  devcontext scan acme/web
  devcontext scan https://github.com/acme/web --output cursor-rules
  devcontext scan --local . --output agents-md --write
  devcontext scan --local . --json > scan.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, args, opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.local, "local", "", "Scan a local directory instead of GitHub")
	f.StringVarP(&opts.output, "output", "o", "", "Render a file: copilot-instructions, agents-md or cursor-rules")
	f.BoolVarP(&opts.write, "write", "w", false, "Write the rendered file instead of printing it")
	f.StringVar(&opts.dir, "dir", ".", "Directory to write rendered files to")
	f.BoolVar(&opts.jsonOut, "json", false, "Print the summary and answers as JSON")
	f.StringVar(&opts.token, "token", firstEnv("GITHUB_TOKEN", "GH_TOKEN"), "GitHub token")
	f.StringVar(&opts.apiURL, "api-url", os.Getenv("GITHUB_API_URL"), "GitHub API base URL")
	f.StringVar(&opts.conventions, "conventions", os.Getenv("CONVENTIONS_DIR"), "Directory of convention overrides")
	return cmd
}

func runScan(cmd *cobra.Command, args []string, opts *scanOptions) error {
	var src scan.Source
	switch {
	case opts.local != "" && len(args) > 0:
		return errors.New("give either a repository or --local, not both")
	case opts.local != "":
		src = scan.NewLocalSource(opts.local)
	case len(args) == 1:
		repo, err := github.ParseRepo(args[0])
		if err != nil {
			return err
		}
		src = github.NewClient(github.WithToken(opts.token), github.WithBaseURL(opts.apiURL)).Source(repo)
	default:
		return errors.New("a repository or --local directory is required")
	}
	if opts.output != "" {
		if _, ok := render.Lookup(opts.output); !ok {
			return fmt.Errorf("%w: %q", render.ErrUnknownOutput, opts.output)
		}
	}

	synth := wizard.NewDefault(opts.conventions)
	summary, err := scan.NewScanner(synth.Vocabulary).Scan(cmd.Context(), src)
	if err != nil {
		return err
	}
	result, err := synth.Synthesize(summary)
	if err != nil {
		return err
	}
	rep := scanReport{Summary: summary, Result: result}

	out := cmd.OutOrStdout()
	if opts.jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}
	if opts.output == "" {
		printReport(out, rep)
		return nil
	}
	file, err := render.Render(opts.output, result.Responses, result.ApplyTo)
	if err != nil {
		return err
	}
	if opts.write {
		printReport(out, rep)
		fmt.Fprintln(out)
	}
	_, err = emitFile(out, file, opts.write, opts.dir)
	return err
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}
