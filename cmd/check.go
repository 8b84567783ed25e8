package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/qgen/internal/document"
	"github.com/abhisek/qgen/internal/ui/components"
)

var checkCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Check whether a file can be uploaded",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		f, err := document.Open(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "File:  %s (%s, %s)\n", f.Name, f.MIMEType, components.HumanSize(f.Size))

		if err := document.Validate(f); err != nil {
			fmt.Fprintln(out, "✗", err)
			return fmt.Errorf("%s rejected: %w", f.Name, err)
		}
		fmt.Fprintln(out, "✓ accepted for upload")

		info, err := document.Inspect(f)
		if err != nil {
			return err
		}
		switch {
		case info.Valid:
			fmt.Fprintf(out, "✓ valid PDF, %d pages\n", info.Pages)
		default:
			fmt.Fprintf(out, "! PDF structure problem: %s\n", info.Problem)
		}
		return nil
	},
}
