package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/emmm/pkg/mdconvert"
)

func newConvertCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "convert <file.md>",
		Short: "Convert a Markdown document to EMMM markup",
		Long: `Convert a CommonMark document into EMMM source using the standard
modifier library. Thematic breaks are dropped, lists become
marker-prefixed paragraphs, and images become links.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			out := mdconvert.Convert(data)
			if output == "" {
				fmt.Print(out)
				return nil
			}
			if err := os.WriteFile(output, []byte(out), 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write EMMM source to this file")

	return cmd
}
