package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tldrx/cmdref/internal/catalog"
	"github.com/tldrx/cmdref/internal/emit"
	"github.com/tldrx/cmdref/internal/ui"
)

func newValidateCmd(a *app) *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check every record against the command schema",
		Long: `Check every record of a catalog file against the command record schema
and report all rejected records. A chunk directory is read through its index
and stops at the first invalid chunk.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := firstNonEmpty(input, a.cfg.Input)
			w := cmd.OutOrStdout()

			info, err := os.Stat(path)
			if err != nil {
				return fmt.Errorf("failed to open catalog: %w", err)
			}
			if info.IsDir() {
				result, err := emit.LoadSource(path)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s %d commands in %d chunks are valid\n", ui.Success("✓"), result.Total(), len(result.Chunks))
				return nil
			}

			total, failures, err := catalog.ValidateFile(path)
			if err != nil {
				return err
			}
			if len(failures) == 0 {
				fmt.Fprintf(w, "%s %d commands are valid\n", ui.Success("✓"), total)
				return nil
			}

			t := ui.NewTable("Record", "Name", "Problem")
			for _, failure := range failures {
				t.AddRow(fmt.Sprintf("%d", failure.Index), failure.Name, problem(failure))
			}
			t.Render(w)
			return fmt.Errorf("%d of %d records are invalid", len(failures), total)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "catalog file or chunk directory (default from config)")

	return cmd
}

// problem summarizes a record failure on one line
func problem(failure *catalog.RecordError) string {
	if len(failure.Issues) == 0 {
		if failure.Err != nil {
			return failure.Err.Error()
		}
		return "invalid record"
	}
	issue := failure.Issues[0]
	msg := issue.Path + ": " + issue.Message
	if extra := len(failure.Issues) - 1; extra > 0 {
		msg += fmt.Sprintf(" (+%d more)", extra)
	}
	return msg
}
