package emit

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"regexp"
	"strings"
	"text/template"

	"github.com/tldrx/cmdref/internal/catalog"
	"github.com/tldrx/cmdref/internal/partition"
)

// Manifest is the index.json document written in json format
type Manifest struct {
	Collection      string          `json:"collection"`
	GeneratedChunks int             `json:"generated_chunks"`
	TotalCommands   int             `json:"total_commands"`
	Chunks          []ManifestChunk `json:"chunks"`
}

// ManifestChunk describes one chunk artifact in the manifest
type ManifestChunk struct {
	Name     string `json:"name"`
	File     string `json:"file"`
	Category string `json:"category"`
	Label    string `json:"label"`
	Commands int    `json:"commands"`
}

var indexTemplate = template.Must(template.New("index").Parse(`/**
 * TL;DRx Commands Database - Index
 *
 * This file combines all command chunks back into a single export
 * maintaining the same interface as the original {{.Collection}}.js file.
 *
 * Generated chunks: {{len .Chunks}}
 * Total commands: {{.Total}}
 */

// Import all chunk files
{{- range .Chunks}}
import {{.Var}} from './{{.File}}';
{{- end}}

// Combine all commands into a single array
const commandsDatabase = [
{{- range $i, $c := .Chunks}}{{if $i}},{{end}}
    ...{{$c.Var}}
{{- end}}
];

export const {{.Collection}} = commandsDatabase;
export default commandsDatabase;
`))

type indexView struct {
	Collection string
	Total      int
	Chunks     []indexEntry
}

type indexEntry struct {
	Var  string
	File string
}

// Concat is the aggregation behind the index: every record of every chunk
// in emission order.
func Concat(result partition.Result) []catalog.Command {
	return result.Concat()
}

// BuildManifest describes the artifacts of a partition result
func BuildManifest(result partition.Result, format Format, collection string) Manifest {
	m := Manifest{
		Collection:      collection,
		GeneratedChunks: len(result.Chunks),
		TotalCommands:   result.Total(),
		Chunks:          make([]ManifestChunk, 0, len(result.Chunks)),
	}
	for _, chunk := range result.Chunks {
		m.Chunks = append(m.Chunks, ManifestChunk{
			Name:     chunk.Name,
			File:     partition.ChunkFileName(chunk.Name) + format.Ext(),
			Category: chunk.Category,
			Label:    partition.Label(chunk.Name),
			Commands: len(chunk.Commands),
		})
	}
	return m
}

// RenderIndex renders the index artifact that re-exports every chunk
func RenderIndex(result partition.Result, format Format, collection string) ([]byte, error) {
	if collection == "" {
		collection = DefaultCollection
	}
	manifest := BuildManifest(result, format, collection)

	switch format {
	case FormatJSON:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "    ")
		if err := enc.Encode(manifest); err != nil {
			return nil, fmt.Errorf("failed to encode index: %w", err)
		}
		return buf.Bytes(), nil

	case FormatJS:
		view := indexView{Collection: collection, Total: manifest.TotalCommands}
		for _, chunk := range manifest.Chunks {
			view.Chunks = append(view.Chunks, indexEntry{Var: partition.VarName(chunk.Name), File: chunk.File})
		}
		var buf bytes.Buffer
		if err := indexTemplate.Execute(&buf, view); err != nil {
			return nil, fmt.Errorf("failed to render index: %w", err)
		}
		return buf.Bytes(), nil

	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

var importRegex = regexp.MustCompile(`(?m)^import\s+\w+\s+from\s+'\./([^']+)';`)

// ReadIndex loads a generated chunk directory back into a partition result.
// index.json is preferred; otherwise the imports of index.js are followed in
// order. Every chunk record is validated like any other input.
func ReadIndex(fsys fs.FS) (partition.Result, error) {
	if data, err := fs.ReadFile(fsys, FormatJSON.IndexFile()); err == nil {
		return readManifest(fsys, data)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return partition.Result{}, fmt.Errorf("failed to read index: %w", err)
	}

	data, err := fs.ReadFile(fsys, FormatJS.IndexFile())
	if err != nil {
		return partition.Result{}, fmt.Errorf("failed to read index: %w", err)
	}
	return readModuleIndex(fsys, data)
}

func readManifest(fsys fs.FS, data []byte) (partition.Result, error) {
	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return partition.Result{}, fmt.Errorf("failed to parse index manifest: %w", err)
	}

	var result partition.Result
	for _, entry := range manifest.Chunks {
		cmds, err := readChunk(fsys, entry.File, catalog.FormatJSON)
		if err != nil {
			return partition.Result{}, err
		}
		result.Chunks = append(result.Chunks, partition.Chunk{Name: entry.Name, Category: entry.Category, Commands: cmds})
	}

	if got := result.Total(); manifest.TotalCommands != got {
		return partition.Result{}, fmt.Errorf("index lists %d commands but chunks hold %d", manifest.TotalCommands, got)
	}
	return result, nil
}

func readModuleIndex(fsys fs.FS, data []byte) (partition.Result, error) {
	var result partition.Result
	for _, match := range importRegex.FindAllSubmatch(data, -1) {
		file := string(match[1])
		cmds, err := readChunk(fsys, file, catalog.FormatJSModule)
		if err != nil {
			return partition.Result{}, err
		}

		chunk := partition.Chunk{Name: strings.TrimSuffix(file, path.Ext(file)), Commands: cmds}
		if len(cmds) > 0 {
			chunk.Category = cmds[0].Key()
		}
		result.Chunks = append(result.Chunks, chunk)
	}
	return result, nil
}

func readChunk(fsys fs.FS, file string, format catalog.Format) ([]catalog.Command, error) {
	if !fs.ValidPath(file) || strings.Contains(file, "/") {
		return nil, fmt.Errorf("%w: %s", ErrInvalidChunkName, file)
	}
	data, err := fs.ReadFile(fsys, file)
	if err != nil {
		return nil, fmt.Errorf("failed to read chunk %s: %w", file, err)
	}
	cmds, err := catalog.Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("failed to parse chunk %s: %w", file, err)
	}
	return cmds, nil
}

// LoadSource loads a catalog from a command list file or a generated chunk
// directory and returns it partitioned.
func LoadSource(source string) (partition.Result, error) {
	info, err := os.Stat(source)
	if err != nil {
		return partition.Result{}, fmt.Errorf("failed to open catalog: %w", err)
	}
	if info.IsDir() {
		return ReadIndex(os.DirFS(source))
	}

	cmds, err := catalog.Load(source)
	if err != nil {
		return partition.Result{}, err
	}
	return partition.Partition(cmds), nil
}
