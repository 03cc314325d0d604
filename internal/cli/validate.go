package cli

import (
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spivx/devcontext-sub000/internal/convention"
	"github.com/spivx/devcontext-sub000/internal/question"
)

func newValidateCmd() *cobra.Command {
	var questionsDir, conventionsDir string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check question datasets and convention files",
		Long: `Check every question dataset: each question maps to a known answer
field, answer values are unique, and exactly one enabled answer is the
default. With --conventions, every convention file in the directory must
parse and only name known answer fields.

Examples:
  devcontext validate
  devcontext validate --questions ./data/questions --conventions ./conventions`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			src := question.Embedded()
			if questionsDir != "" {
				src = question.NewFSSource(os.DirFS(questionsDir), ".")
			}
			problems, err := validateQuestions(src)
			if err != nil {
				return err
			}
			if conventionsDir != "" {
				more, err := validateConventions(conventionsDir)
				if err != nil {
					return err
				}
				problems = append(problems, more...)
			}

			out := cmd.OutOrStdout()
			if len(problems) == 0 {
				fmt.Fprintln(out, styleSuccess.Render("✓ all datasets are valid"))
				return nil
			}
			for _, p := range problems {
				fmt.Fprintln(out, styleError.Render("✗ ")+p)
			}
			return fmt.Errorf("found %d problems", len(problems))
		},
	}
	cmd.Flags().StringVar(&questionsDir, "questions", "", "Directory of question datasets (default: bundled)")
	cmd.Flags().StringVar(&conventionsDir, "conventions", "", "Directory of convention files to check")
	return cmd
}

func validateQuestions(src *question.FSSource) ([]string, error) {
	stacks, err := src.Stacks()
	if err != nil {
		return nil, err
	}
	// The general dataset is validated on its own as well as merged.
	stacks = append([]string{question.GeneralID}, stacks...)
	var out []string
	for _, stack := range stacks {
		qs, err := src.Questions(stack)
		if err != nil {
			out = append(out, fmt.Sprintf("%s: %v", stack, err))
			continue
		}
		for _, issue := range question.Validate(stack, qs) {
			out = append(out, issue.String())
		}
	}
	return out, nil
}

func validateConventions(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read conventions dir: %w", err)
	}
	ids := map[string]bool{}
	for _, e := range entries {
		switch ext := path.Ext(e.Name()); {
		case e.IsDir():
		case ext == ".json" || ext == ".yaml" || ext == ".yml":
			ids[strings.TrimSuffix(e.Name(), ext)] = true
		}
	}
	sorted := make([]string, 0, len(ids))
	for id := range ids {
		sorted = append(sorted, id)
	}
	sort.Strings(sorted)

	src := convention.Dir(dir)
	var out []string
	for _, id := range sorted {
		if _, err := src.Lookup(id); err != nil {
			out = append(out, fmt.Sprintf("conventions/%s: %v", id, err))
		}
	}
	return out, nil
}
