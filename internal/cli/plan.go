package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tldrx/cmdref/internal/emit"
)

type planOptions struct {
	input  string
	format string
}

func newPlanCmd(a *app) *cobra.Command {
	opts := &planOptions{}

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the chunk layout without writing anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := emit.ParseFormat(firstNonEmpty(opts.format, a.cfg.Output.Format))
			if err != nil {
				return err
			}

			result, err := emit.LoadSource(firstNonEmpty(opts.input, a.cfg.Input))
			if err != nil {
				return err
			}

			emitter := &emit.Emitter{Format: format}
			artifacts, err := emitter.Plan(result)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			summaryTable(result, artifacts).Render(w)
			fmt.Fprintf(w, "\nGenerated chunks: %d\nTotal commands: %d\n", len(artifacts), result.Total())
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "catalog file or chunk directory (default from config)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "artifact format: js or json (default from config)")

	return cmd
}
