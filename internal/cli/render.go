package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/emmm/internal/logging"
	"github.com/yaklabco/emmm/internal/ui/pretty"
	"github.com/yaklabco/emmm/pkg/render/html"
)

func newRenderCommand(opts *globalOptions) *cobra.Command {
	var (
		output         string
		detectLanguage bool
	)

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Render an EMMM document to HTML",
		Long: `Parse an EMMM document and render the expanded tree to HTML.
Diagnostics go to stderr; the HTML goes to stdout or --output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			result, err := parseFile(args[0], opts)
			if err != nil {
				return err
			}

			styles := pretty.NewStyles(pretty.IsColorEnabled(opts.color, os.Stderr))
			for _, m := range result.doc.Messages {
				fmt.Fprint(os.Stderr, styles.FormatMessage(m, result.src, false))
			}

			htmlOpts := html.Options{DetectLanguage: detectLanguage}
			rc := html.NewConfiguration(result.doc.Context.Config, htmlOpts)
			st := html.NewState(rc, htmlOpts)
			out := html.RenderDocument(result.doc.ToStripped(), st)

			if output == "" {
				fmt.Print(out)
				return nil
			}
			if err := os.WriteFile(output, []byte(out), 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			logging.Default().Info("rendered",
				logging.FieldInput, args[0],
				logging.FieldOutput, output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write HTML to this file")
	cmd.Flags().BoolVar(&detectLanguage, "detect-language", true,
		"detect the language of code blocks without an explicit one")

	return cmd
}
