package emit

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/tldrx/cmdref/internal/partition"
	"github.com/tldrx/cmdref/internal/sink"
)

var (
	// ErrNameCollision is returned when two artifacts would share a destination
	ErrNameCollision = errors.New("artifact name collision")
	// ErrInvalidChunkName is returned for names that cannot be a plain file
	// name, or a JavaScript identifier when emitting modules
	ErrInvalidChunkName = errors.New("invalid chunk name")
)

var identifierRegex = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// Artifact is one planned or written output file
type Artifact struct {
	Chunk    string `json:"chunk,omitempty"`
	File     string `json:"file"`
	Location string `json:"location"`
	Commands int    `json:"commands"`
}

// Report summarizes a completed emission
type Report struct {
	Chunks []Artifact `json:"chunks"`
	Index  Artifact   `json:"index"`
	Total  int        `json:"total"`
}

// Emitter writes a partition result to a sink
type Emitter struct {
	Sink       sink.Sink
	Format     Format
	Collection string
	Logger     *log.Logger
}

func (e *Emitter) format() Format {
	if e.Format == "" {
		return FormatJS
	}
	return e.Format
}

func (e *Emitter) logger() *log.Logger {
	if e.Logger == nil {
		return log.Default()
	}
	return e.Logger
}

// Plan computes the artifact list and checks that every destination is a
// distinct, plain file name. Nothing is written.
func (e *Emitter) Plan(result partition.Result) ([]Artifact, error) {
	format := e.format()
	index := format.IndexFile()
	seen := map[string]string{index: "index"}

	artifacts := make([]Artifact, 0, len(result.Chunks))
	for _, chunk := range result.Chunks {
		base := partition.ChunkFileName(chunk.Name)
		if base == "" || base == "." || base == ".." || strings.ContainsAny(base, `/\`) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidChunkName, chunk.Name)
		}
		if format == FormatJS && !identifierRegex.MatchString(partition.VarName(chunk.Name)) {
			return nil, fmt.Errorf("%w: %q does not yield a JavaScript identifier (%s)", ErrInvalidChunkName, chunk.Name, partition.VarName(chunk.Name))
		}

		file := base + format.Ext()
		if owner, ok := seen[file]; ok {
			return nil, fmt.Errorf("%w: chunks %q and %q both map to %s", ErrNameCollision, owner, chunk.Name, file)
		}
		seen[file] = chunk.Name

		artifacts = append(artifacts, Artifact{
			Chunk:    chunk.Name,
			File:     file,
			Location: e.location(file),
			Commands: len(chunk.Commands),
		})
	}
	return artifacts, nil
}

func (e *Emitter) location(file string) string {
	if e.Sink == nil {
		return file
	}
	return e.Sink.Location(file)
}

// Emit renders every chunk and the index, then writes them in order.
// The first failure aborts the run; artifacts already written stay in place.
func (e *Emitter) Emit(ctx context.Context, result partition.Result) (Report, error) {
	if e.Sink == nil {
		return Report{}, fmt.Errorf("no output sink configured")
	}
	format := e.format()

	artifacts, err := e.Plan(result)
	if err != nil {
		return Report{}, err
	}

	rendered := make([][]byte, len(result.Chunks))
	for i, chunk := range result.Chunks {
		rendered[i], err = RenderChunk(chunk, format)
		if err != nil {
			return Report{}, err
		}
	}
	index, err := RenderIndex(result, format, e.Collection)
	if err != nil {
		return Report{}, err
	}

	if err := e.Sink.Prepare(ctx); err != nil {
		return Report{}, fmt.Errorf("failed to prepare output: %w", err)
	}

	logger := e.logger()
	for i, artifact := range artifacts {
		if err := e.Sink.Write(ctx, artifact.File, rendered[i]); err != nil {
			return Report{}, fmt.Errorf("failed to write chunk %s: %w", artifact.Chunk, err)
		}
		logger.Infof("✓ Created %s with %d commands", artifact.Location, artifact.Commands)
	}

	indexFile := format.IndexFile()
	if err := e.Sink.Write(ctx, indexFile, index); err != nil {
		return Report{}, fmt.Errorf("failed to write index: %w", err)
	}
	logger.Infof("✓ Created %s combining %d chunk files", e.location(indexFile), len(artifacts))

	return Report{
		Chunks: artifacts,
		Index: Artifact{
			File:     indexFile,
			Location: e.location(indexFile),
			Commands: result.Total(),
		},
		Total: result.Total(),
	}, nil
}
