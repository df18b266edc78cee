package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/tldrx/cmdref/internal/emit"
	"github.com/tldrx/cmdref/internal/partition"
	"github.com/tldrx/cmdref/internal/sink"
	"github.com/tldrx/cmdref/internal/ui"
)

type splitOptions struct {
	input      string
	output     string
	format     string
	collection string
}

func newSplitCmd(a *app) *cobra.Command {
	opts := &splitOptions{}

	cmd := &cobra.Command{
		Use:   "split",
		Short: "Split the catalog into chunk files and an index",
		Long: `Split the command catalog into one artifact per category.

Categories above 100 records are subdivided: development by topic keywords
(development-web, development-database, ...), every other category into
numbered runs of 100 (networking-1, networking-2, ...). An index artifact
combining all chunks is written last.

The input may be a .js data module, .json, .yaml or a directory previously
written by this command.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSplit(cmd, a, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "catalog file or chunk directory (default from config)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output directory or s3://bucket/prefix (default from config)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "artifact format: js or json (default from config)")
	cmd.Flags().StringVar(&opts.collection, "collection", "", "export name of the combined collection (default from config)")

	return cmd
}

func runSplit(cmd *cobra.Command, a *app, opts *splitOptions) error {
	ctx := cmd.Context()

	format, err := emit.ParseFormat(firstNonEmpty(opts.format, a.cfg.Output.Format))
	if err != nil {
		return err
	}

	input := firstNonEmpty(opts.input, a.cfg.Input)
	a.logger.Info("Reading catalog", "input", input)
	result, err := emit.LoadSource(input)
	if err != nil {
		return err
	}
	a.logger.Infof("Found %d commands", result.Total())

	target := firstNonEmpty(opts.output, a.cfg.Output.Target)
	out, err := sink.Open(ctx, target, sink.S3Options{
		Region:          a.cfg.S3.Region,
		Endpoint:        a.cfg.S3.Endpoint,
		PathStyle:       a.cfg.S3.PathStyle,
		AccessKeyID:     a.cfg.S3.AccessKeyID,
		SecretAccessKey: a.cfg.S3.SecretAccessKey,
	})
	if err != nil {
		return err
	}

	emitter := &emit.Emitter{
		Sink:       out,
		Format:     format,
		Collection: firstNonEmpty(opts.collection, a.cfg.Output.Collection),
		Logger:     a.logger,
	}
	report, err := emitter.Emit(ctx, result)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w)
	summaryTable(result, report.Chunks).Render(w)
	fmt.Fprintf(w, "\n%s Split %d commands into %d chunk files\n",
		ui.Success("✓"), report.Total, len(report.Chunks))
	fmt.Fprintf(w, "%s %s\n", ui.SubtitleStyle.Render("Index:"), report.Index.Location)
	return nil
}

// summaryTable lists every artifact with its label and record count
func summaryTable(result partition.Result, artifacts []emit.Artifact) *ui.Table {
	t := ui.NewTable("Chunk", "Label", "Commands", "File")
	for i, artifact := range artifacts {
		t.AddRow(
			ui.CmdStyle.Render(artifact.Chunk),
			partition.Label(result.Chunks[i].Name),
			strconv.Itoa(artifact.Commands),
			artifact.Location,
		)
	}
	return t
}
