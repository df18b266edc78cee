package tools

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/tldrx/cmdref/internal/catalog"
	"github.com/tldrx/cmdref/internal/emit"
	"github.com/tldrx/cmdref/internal/indexing"
	"github.com/tldrx/cmdref/internal/partition"
	"github.com/tldrx/cmdref/internal/search"
)

const (
	// Search modes reported by search_commands
	modeIndex = "index"
	modeFuzzy = "fuzzy"

	maxSuggestions = 5
)

// SearchCommandsInput defines input for search_commands tool
type SearchCommandsInput struct {
	Query      string `json:"query" jsonschema:"Free text matched against command names, descriptions and examples"`
	Category   string `json:"category,omitempty" jsonschema:"Only commands of this category or chunk, e.g. networking or development-web"`
	Platform   string `json:"platform,omitempty" jsonschema:"Only commands available on this platform, e.g. linux, macos or windows"`
	MaxResults int    `json:"max_results,omitempty" jsonschema:"Maximum number of results (default 10, max 50)"`
}

// SearchCommandsOutput defines output for search_commands tool
type SearchCommandsOutput struct {
	Results   []search.Hit `json:"results"`
	Query     string       `json:"query"`
	TotalHits int          `json:"total_hits"`
	Mode      string       `json:"mode"` // "index" or "fuzzy"
}

// SearchCommands searches the catalog. Full-text matches come from the
// search index; when it finds nothing the catalog is ranked fuzzily so
// misspelled names still resolve.
func SearchCommands(ctx context.Context, req *mcp.CallToolRequest, input SearchCommandsInput) (*mcp.CallToolResult, SearchCommandsOutput, error) {
	cat, err := loadedCatalog()
	if err != nil {
		return nil, SearchCommandsOutput{}, fmt.Errorf("failed to load catalog: %w", err)
	}

	q := search.Query{
		Text:     input.Query,
		Category: input.Category,
		Platform: input.Platform,
		Limit:    input.MaxResults,
	}
	hits, total, err := cat.search.Search(q)
	if err != nil {
		return nil, SearchCommandsOutput{}, err
	}

	output := SearchCommandsOutput{
		Results:   hits,
		Query:     input.Query,
		TotalHits: int(total),
		Mode:      modeIndex,
	}
	if len(hits) == 0 && strings.TrimSpace(input.Query) != "" {
		output.Results = cat.fuzzy(input)
		output.TotalHits = len(output.Results)
		output.Mode = modeFuzzy
	}
	return nil, output, nil
}

// fuzzy ranks the commands passing the input filters
func (c *Catalog) fuzzy(input SearchCommandsInput) []search.Hit {
	var platforms []string
	if input.Platform != "" {
		platforms = []string{input.Platform}
	}

	var cmds []catalog.Command
	for i, entry := range catalog.Normalize(c.entries) {
		if input.Category != "" && input.Category != c.chunkOf[i] && input.Category != c.commands[i].Key() {
			continue
		}
		if !catalog.Matches(entry, platforms, nil) {
			continue
		}
		cmds = append(cmds, c.commands[i])
	}

	limit := input.MaxResults
	if limit <= 0 || limit > search.MaxLimit {
		limit = search.DefaultLimit
	}

	ranked := search.Rank(cmds, input.Query, limit)
	hits := make([]search.Hit, len(ranked))
	for i, r := range ranked {
		entry, chunk, _ := c.Lookup(r.Command.Name)
		hits[i] = search.Hit{
			ID:          r.Command.Name,
			Name:        r.Command.Name,
			Description: r.Command.Description,
			Category:    r.Command.Key(),
			Chunk:       chunk,
			Breadcrumb:  indexing.Breadcrumb(partition.Label(chunk), r.Command.Name),
			Platform:    entry.Platform,
			Score:       float64(r.Score),
		}
	}
	return hits
}

// GetCommandInput defines input for get_command tool
type GetCommandInput struct {
	Name string `json:"name" jsonschema:"Command name, e.g. tar"`
}

// GetCommandOutput defines output for get_command tool
type GetCommandOutput struct {
	Command    catalog.Entry `json:"command"`
	Chunk      string        `json:"chunk"`
	ChunkLabel string        `json:"chunk_label"`
	ChunkFile  string        `json:"chunk_file"`
}

// GetCommand returns the full record of one command
func GetCommand(ctx context.Context, req *mcp.CallToolRequest, input GetCommandInput) (*mcp.CallToolResult, GetCommandOutput, error) {
	cat, err := loadedCatalog()
	if err != nil {
		return nil, GetCommandOutput{}, fmt.Errorf("failed to load catalog: %w", err)
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, GetCommandOutput{}, errors.New("name is required")
	}

	entry, chunk, ok := cat.Lookup(name)
	if !ok {
		msg := fmt.Sprintf("command %q not found", name)
		if suggestions := cat.suggest(name); len(suggestions) > 0 {
			msg += fmt.Sprintf(" (did you mean: %s?)", strings.Join(suggestions, ", "))
		}
		return nil, GetCommandOutput{}, errors.New(msg)
	}

	return nil, GetCommandOutput{
		Command:    entry,
		Chunk:      chunk,
		ChunkLabel: partition.Label(chunk),
		ChunkFile:  partition.ChunkFileName(chunk) + emit.FormatJS.Ext(),
	}, nil
}

// suggest returns the best fuzzy matches for a misspelled name
func (c *Catalog) suggest(name string) []string {
	ranked := search.Rank(c.commands, name, maxSuggestions)
	names := make([]string, len(ranked))
	for i, r := range ranked {
		names[i] = r.Command.Name
	}
	return names
}

// ListChunksInput defines input for list_chunks tool
type ListChunksInput struct {
	Format string `json:"format,omitempty" jsonschema:"Artifact format used for file names: js (default) or json"`
}

// ListChunks returns the chunk layout of the catalog in emission order
func ListChunks(ctx context.Context, req *mcp.CallToolRequest, input ListChunksInput) (*mcp.CallToolResult, emit.Manifest, error) {
	cat, err := loadedCatalog()
	if err != nil {
		return nil, emit.Manifest{}, fmt.Errorf("failed to load catalog: %w", err)
	}

	format := emit.FormatJS
	if input.Format != "" {
		if format, err = emit.ParseFormat(input.Format); err != nil {
			return nil, emit.Manifest{}, err
		}
	}
	return nil, emit.BuildManifest(cat.result, format, emit.DefaultCollection), nil
}

// CommandSummary is the lightweight listing of one command
type CommandSummary struct {
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Chunk       string   `json:"chunk"`
	Description string   `json:"description,omitempty"`
	Platform    []string `json:"platform"`
}

// ListCommandsInput defines input for list_commands tool
type ListCommandsInput struct {
	Platforms  []string `json:"platforms,omitempty" jsonschema:"Keep commands available on any of these platforms"`
	Categories []string `json:"categories,omitempty" jsonschema:"Keep commands whose category or chunk is one of these"`
}

// ListCommandsOutput defines output for list_commands tool
type ListCommandsOutput struct {
	Commands []CommandSummary `json:"commands"`
	Count    int              `json:"count"`
}

// ListCommands lists catalog commands filtered by platform and category
func ListCommands(ctx context.Context, req *mcp.CallToolRequest, input ListCommandsInput) (*mcp.CallToolResult, ListCommandsOutput, error) {
	cat, err := loadedCatalog()
	if err != nil {
		return nil, ListCommandsOutput{}, fmt.Errorf("failed to load catalog: %w", err)
	}

	summaries := make([]CommandSummary, 0, len(cat.entries))
	for i, entry := range catalog.Normalize(cat.entries) {
		if !catalog.Matches(entry, input.Platforms, nil) {
			continue
		}
		if len(input.Categories) > 0 &&
			!slices.Contains(input.Categories, entry.Category) &&
			!slices.Contains(input.Categories, cat.chunkOf[i]) {
			continue
		}
		summaries = append(summaries, CommandSummary{
			Name:        entry.Name,
			Category:    entry.Category,
			Chunk:       cat.chunkOf[i],
			Description: entry.Description,
			Platform:    entry.Platform,
		})
	}

	return nil, ListCommandsOutput{Commands: summaries, Count: len(summaries)}, nil
}

// ValidateCommandsInput defines input for validate_commands tool
type ValidateCommandsInput struct {
	Records string `json:"records" jsonschema:"JSON array of command records, or a path to a .json, .yaml or .js command list"`
}

// RecordIssue describes one rejected record
type RecordIssue struct {
	Index   int             `json:"index"`
	Name    string          `json:"name,omitempty"`
	Issues  []catalog.Issue `json:"issues,omitempty"`
	Message string          `json:"message"`
}

// ValidateCommandsOutput defines output for validate_commands tool
type ValidateCommandsOutput struct {
	Valid   bool            `json:"valid"`
	Total   int             `json:"total"`
	Invalid int             `json:"invalid"`
	Errors  []RecordIssue   `json:"errors,omitempty"`
	Chunks  []emit.Artifact `json:"chunks,omitempty"` // Planned layout of a valid list
	Message string          `json:"message"`
}

// ValidateCommands checks records against the command schema and, when all
// are valid, reports the chunks a split would produce.
func ValidateCommands(ctx context.Context, req *mcp.CallToolRequest, input ValidateCommandsInput) (*mcp.CallToolResult, ValidateCommandsOutput, error) {
	data, format, err := readRecordsContent(input.Records)
	if err != nil {
		return nil, ValidateCommandsOutput{}, fmt.Errorf("failed to read records: %w", err)
	}

	total, failures, err := catalog.Validate(data, format)
	if err != nil {
		return nil, ValidateCommandsOutput{}, err
	}

	output := ValidateCommandsOutput{Total: total, Invalid: len(failures)}
	for _, failure := range failures {
		output.Errors = append(output.Errors, RecordIssue{
			Index:   failure.Index,
			Name:    failure.Name,
			Issues:  failure.Issues,
			Message: failure.Error(),
		})
	}
	if len(failures) > 0 {
		output.Message = fmt.Sprintf("%d of %d records are invalid", len(failures), total)
		return nil, output, nil
	}

	cmds, err := catalog.Parse(data, format)
	if err != nil {
		return nil, ValidateCommandsOutput{}, err
	}
	artifacts, err := (&emit.Emitter{}).Plan(partition.Partition(cmds))
	if err != nil {
		output.Message = err.Error()
		return nil, output, nil
	}

	output.Valid = true
	output.Chunks = artifacts
	output.Message = fmt.Sprintf("%d records are valid and split into %d chunks", total, len(artifacts))
	return nil, output, nil
}

// readRecordsContent returns inline JSON as is, or reads a command list file
func readRecordsContent(records string) ([]byte, catalog.Format, error) {
	trimmed := strings.TrimSpace(records)
	if trimmed == "" {
		return nil, "", errors.New("records must not be empty")
	}
	if strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "{") {
		return []byte(trimmed), catalog.FormatJSON, nil
	}

	format, err := catalog.DetectFormat(trimmed)
	if err != nil {
		return nil, "", err
	}
	data, err := os.ReadFile(trimmed)
	if err != nil {
		return nil, "", err
	}
	return data, format, nil
}

// ReloadCatalogInput defines input for reload_catalog tool
type ReloadCatalogInput struct{}

// ReloadCatalogOutput defines output for reload_catalog tool
type ReloadCatalogOutput struct {
	Source   string `json:"source"`
	Chunks   int    `json:"chunks"`
	Commands int    `json:"commands"`
	Message  string `json:"message"`
}

// ReloadCatalog reloads the catalog from its source and swaps it in. The
// previous catalog is closed once its in-flight searches finish.
func ReloadCatalog(ctx context.Context, req *mcp.CallToolRequest, input ReloadCatalogInput) (*mcp.CallToolResult, ReloadCatalogOutput, error) {
	cat, err := LoadCatalog()
	if err != nil {
		return nil, ReloadCatalogOutput{}, fmt.Errorf("reload failed: %w", err)
	}

	if old := catalogMgr.set(cat); old != nil {
		go func() {
			if err := old.Close(); err != nil {
				log.Warn("Error closing previous catalog", "err", err)
			}
		}()
	}

	return nil, ReloadCatalogOutput{
		Source:   cat.Source,
		Chunks:   len(cat.result.Chunks),
		Commands: cat.Total(),
		Message:  fmt.Sprintf("Catalog reloaded, %d commands in %d chunks", cat.Total(), len(cat.result.Chunks)),
	}, nil
}

// RegisterCatalogTools registers the command catalog tools
func RegisterCatalogTools(server *mcp.Server) error {
	if err := InitializeCatalog(); err != nil {
		log.Warn("Catalog initialization failed, retrying on first use", "err", err)
	}

	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "search_commands",
			Description: "Search shell commands by name, description and examples. Falls back to fuzzy name matching when full-text search finds nothing.",
		},
		SearchCommands,
	)

	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "get_command",
			Description: "Get the full reference record of a shell command: examples, warnings, related commands and the chunk it lives in.",
		},
		GetCommand,
	)

	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "list_chunks",
			Description: "List the chunk files the catalog is split into, in emission order, with labels and command counts.",
		},
		ListChunks,
	)

	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "list_commands",
			Description: "List commands, optionally filtered by platform and by category or chunk name.",
		},
		ListCommands,
	)

	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "validate_commands",
			Description: "Validate command records against the catalog schema and preview the chunks a split would produce.",
		},
		ValidateCommands,
	)

	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "reload_catalog",
			Description: "Reload the command catalog from TLDRX_CATALOG (or the bundled sample) without restarting the server.",
		},
		ReloadCatalog,
	)

	return nil
}
