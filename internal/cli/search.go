package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tldrx/cmdref/internal/catalog"
	"github.com/tldrx/cmdref/internal/emit"
	"github.com/tldrx/cmdref/internal/partition"
	"github.com/tldrx/cmdref/internal/search"
	"github.com/tldrx/cmdref/internal/ui"
)

type searchOptions struct {
	input    string
	index    string
	category string
	platform string
	limit    int
}

func newSearchCmd(a *app) *cobra.Command {
	opts := &searchOptions{}

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the command catalog",
		Long: `Search the command catalog by name and description.

The on-disk search index built by the indexer is used when present.
Otherwise the catalog is loaded and ranked in memory: exact names first,
then name prefixes, then fuzzy name and description matches.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			term := strings.Join(args, " ")

			hits, err := a.searchIndex(opts, term)
			if errors.Is(err, errIndexUnavailable) {
				a.logger.Debug("Search index unavailable, ranking in memory", "err", err)
				hits, err = a.searchCatalog(opts, term)
			}
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if len(hits) == 0 {
				fmt.Fprintln(w, ui.Warning("No commands found for ")+strconv.Quote(term))
				return nil
			}

			t := ui.NewTable("Command", "Chunk", "Score", "Description")
			for _, hit := range hits {
				t.AddRow(ui.CmdStyle.Render(hit.Name), hit.Chunk, strconv.FormatFloat(hit.Score, 'f', 2, 64), hit.Description)
			}
			t.Render(w)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "catalog used when no index exists (default from config)")
	cmd.Flags().StringVar(&opts.index, "index", "", "search index directory (default from config)")
	cmd.Flags().StringVar(&opts.category, "category", "", "only commands of this category or chunk")
	cmd.Flags().StringVar(&opts.platform, "platform", "", "only commands available on this platform")
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", search.DefaultLimit, "maximum number of results")

	return cmd
}

var errIndexUnavailable = errors.New("search index unavailable")

func (a *app) searchIndex(opts *searchOptions, term string) ([]search.Hit, error) {
	path := firstNonEmpty(opts.index, a.cfg.Index.Path)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s does not exist", errIndexUnavailable, path)
		}
		return nil, err
	}

	index, err := search.Open(path)
	if err != nil {
		a.logger.Warn("Ignoring search index", "path", path, "err", err)
		return nil, fmt.Errorf("%w: %v", errIndexUnavailable, err)
	}
	defer index.Close()

	hits, _, err := search.Run(index, search.Query{
		Text:     term,
		Category: opts.category,
		Platform: opts.platform,
		Limit:    opts.limit,
	})
	return hits, err
}

// searchCatalog ranks the loaded catalog in memory
func (a *app) searchCatalog(opts *searchOptions, term string) ([]search.Hit, error) {
	result, err := emit.LoadSource(firstNonEmpty(opts.input, a.cfg.Input))
	if err != nil {
		return nil, err
	}

	var cmds []catalog.Command
	chunkOf := make(map[string]string)
	for _, chunk := range result.Chunks {
		for _, cmd := range chunk.Commands {
			ok, err := matchesFilters(chunk, cmd, opts)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			if _, seen := chunkOf[cmd.Name]; !seen {
				chunkOf[cmd.Name] = chunk.Name
			}
			cmds = append(cmds, cmd)
		}
	}

	limit := opts.limit
	if limit <= 0 || limit > search.MaxLimit {
		limit = search.DefaultLimit
	}

	ranked := search.Rank(cmds, term, limit)
	hits := make([]search.Hit, len(ranked))
	for i, r := range ranked {
		hits[i] = search.Hit{
			ID:          r.Command.Name,
			Name:        r.Command.Name,
			Description: r.Command.Description,
			Category:    r.Command.Key(),
			Chunk:       chunkOf[r.Command.Name],
			Score:       float64(r.Score),
		}
	}
	return hits, nil
}

func matchesFilters(chunk partition.Chunk, cmd catalog.Command, opts *searchOptions) (bool, error) {
	if opts.category != "" && opts.category != chunk.Name && opts.category != cmd.Key() {
		return false, nil
	}
	if opts.platform == "" {
		return true, nil
	}

	entry, err := cmd.Decode()
	if err != nil {
		return false, err
	}
	entry = catalog.Normalize([]catalog.Entry{entry})[0]
	return slices.Contains(entry.Platform, opts.platform), nil
}
