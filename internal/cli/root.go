// Package cli provides the Cobra command structure for emmm.
package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/yaklabco/emmm/internal/logging"
)

// ErrIssuesFound signals a clean run that found error diagnostics; it maps
// to a non-zero exit code without an error log.
var ErrIssuesFound = errors.New("issues found")

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// globalOptions are the persistent flags shared by all subcommands.
type globalOptions struct {
	debug      bool
	configPath string
	color      string
}

// NewRootCommand creates the root emmm command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "emmm",
		Short: "A lightweight markup language processor",
		Long: `emmm parses EMMM markup documents into a structured tree and renders
them to HTML.

EMMM is a lightweight markup language built around bracketed modifiers
([.block], [/inline], [-system]) and user-definable shorthands. Documents
can define their own modifiers, shorthands, and variables as they parse.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if opts.debug {
				logging.SetLevel("debug")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to .emmm.yaml")
	rootCmd.PersistentFlags().StringVar(&opts.color, "color", "auto",
		"colorize output: auto, always, never")

	// Add subcommands.
	rootCmd.AddCommand(newCheckCommand(opts))
	rootCmd.AddCommand(newRenderCommand(opts))
	rootCmd.AddCommand(newConvertCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	return rootCmd
}
