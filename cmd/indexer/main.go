package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/tldrx/cmdref/internal/emit"
	"github.com/tldrx/cmdref/internal/indexing"
	"github.com/tldrx/cmdref/internal/logging"
	"github.com/tldrx/cmdref/internal/search"
)

func main() {
	if len(os.Args) != 3 {
		fmt.Fprintf(os.Stderr, "Usage: %s <catalog> <index-dir>\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nThe catalog is a command list (.js, .json, .yaml) or a chunk directory.\n")
		fmt.Fprintf(os.Stderr, "\nExample:\n")
		fmt.Fprintf(os.Stderr, "  %s src/data/chunks data/search/index\n", os.Args[0])
		os.Exit(1)
	}

	source := os.Args[1]
	indexDir := os.Args[2]

	logger, err := logging.Setup(logging.Options{Level: os.Getenv("TLDRX_LOG_LEVEL")})
	if err != nil {
		log.Fatalf("Invalid log level: %v", err)
	}

	logger.Infof("tldrx command indexer v%d", indexing.IndexSchemaVersion)
	logger.Infof("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

	// Step 1: Load and partition the catalog
	logger.Infof("Loading catalog: %s", source)
	result, err := emit.LoadSource(source)
	if err != nil {
		logger.Fatalf("Failed to load catalog: %v", err)
	}
	logger.Infof("✓ Loaded %d commands in %d chunks", result.Total(), len(result.Chunks))

	// Step 2: Build the index in place of any previous one
	logger.Infof("Creating search index: %s", indexDir)
	count, err := search.BuildIndex(indexDir, result, logger)
	if err != nil {
		logger.Fatalf("Failed to build index: %v", err)
	}
	logger.Infof("✓ Indexed %d commands successfully", count)
	logger.Infof("✓ Index schema version: v%d", search.ReadVersion(indexDir))

	logger.Infof("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	logger.Infof("✓ Indexing complete!")
	logger.Infof("")
	logger.Infof("Index details:")
	logger.Infof("  Location:       %s", indexDir)
	logger.Infof("  Total commands: %d", count)
	logger.Infof("  Chunks:         %d", len(result.Chunks))
	for _, chunk := range result.Chunks {
		logger.Infof("    %-28s %d", chunk.Name, len(chunk.Commands))
	}
	logger.Infof("  Schema:         v%d (command documents with chunk metadata)", indexing.IndexSchemaVersion)
}
