// Package cli implements the devcontext command line.
package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd builds the devcontext command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "devcontext",
		Short: "devcontext - AI assistant configuration from a repository scan",
		Long: `devcontext scans a repository, infers its stack and conventions,
and renders an assistant configuration file from the answers.

Commands:
  scan        Scan a GitHub repository or local checkout
  generate    Render a file from a saved scan
  validate    Check question datasets and convention files
  serve       Run the HTTP gateway

Quick Start:
  1. devcontext scan vercel/next.js
  2. devcontext scan --local . --output agents-md --write`,
		SilenceUsage: true,
	}
	root.AddCommand(
		newScanCmd(),
		newGenerateCmd(),
		newValidateCmd(),
		newServeCmd(),
	)
	return root
}
