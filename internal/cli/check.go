package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/emmm/internal/ui/pretty"
)

func newCheckCommand(opts *globalOptions) *cobra.Command {
	var showContext bool

	cmd := &cobra.Command{
		Use:   "check <file>...",
		Short: "Parse EMMM documents and report diagnostics",
		Long: `Parse one or more EMMM documents and print every diagnostic with its
source location. Exits non-zero when any document has errors.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			styles := pretty.NewStyles(pretty.IsColorEnabled(opts.color, os.Stdout))

			totalErrors := 0
			for _, path := range args {
				result, err := parseFile(path, opts)
				if err != nil {
					return err
				}
				errs, warns, _ := countBySeverity(result.doc.Messages)
				totalErrors += errs

				if len(result.doc.Messages) > 0 {
					fmt.Println(styles.FormatFileHeader(path, len(result.doc.Messages)))
					for _, m := range result.doc.Messages {
						fmt.Print(styles.FormatMessage(m, result.src, showContext))
					}
				}
				if errs == 0 && warns == 0 {
					fmt.Println(styles.Dim.Render(path + ": ok"))
				}
			}
			if totalErrors > 0 {
				return ErrIssuesFound
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showContext, "show-context", true,
		"print the offending source line under each diagnostic")

	return cmd
}
