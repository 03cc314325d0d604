package cli

import (
	"github.com/spf13/cobra"

	"github.com/spivx/devcontext-sub000/internal/render"
)

func newGenerateCmd() *cobra.Command {
	var (
		from   string
		output string
		write  bool
		dir    string
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Render a file from a saved scan",
		Long: `Render an assistant configuration file from the JSON written by
"devcontext scan --json". Use --from - to read it from stdin.

Examples:
  devcontext generate --from scan.json --output copilot-instructions
  devcontext scan --local . --json | devcontext generate --from - -o agents-md -w`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rep, err := readReport(from, cmd.InOrStdin())
			if err != nil {
				return err
			}
			file, err := render.Render(output, rep.Result.Responses, rep.Result.ApplyTo)
			if err != nil {
				return err
			}
			_, err = emitFile(cmd.OutOrStdout(), file, write, dir)
			return err
		},
	}
	f := cmd.Flags()
	f.StringVar(&from, "from", "", "Scan JSON file, or - for stdin")
	f.StringVarP(&output, "output", "o", "", "File to render; defaults to the scan's outputFile answer")
	f.BoolVarP(&write, "write", "w", false, "Write the file instead of printing it")
	f.StringVar(&dir, "dir", ".", "Directory to write to")
	_ = cmd.MarkFlagRequired("from")
	return cmd
}
