package search

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/charmbracelet/log"
	"github.com/tldrx/cmdref/internal/indexing"
	"github.com/tldrx/cmdref/internal/partition"
)

// VersionFile sits next to the index directory and records its schema version
const VersionFile = ".index_version"

// NewMapping returns the field mapping for command documents. Filter fields
// use the keyword analyzer so "development-web" matches as a whole value.
func NewMapping() mapping.IndexMapping {
	exact := bleve.NewTextFieldMapping()
	exact.Analyzer = keyword.Name

	text := bleve.NewTextFieldMapping()
	text.Analyzer = standard.Name

	doc := bleve.NewDocumentMapping()
	for _, field := range []string{"category", "chunk", "platform", "safety"} {
		doc.AddFieldMappingsAt(field, exact)
	}
	for _, field := range []string{"name", "stands_for", "description", "examples", "keywords", "breadcrumb"} {
		doc.AddFieldMappingsAt(field, text)
	}
	idField := bleve.NewTextFieldMapping()
	idField.Index = false
	doc.AddFieldMappingsAt("id", idField)

	im := bleve.NewIndexMapping()
	im.DefaultMapping = doc
	im.DefaultAnalyzer = standard.Name
	return im
}

// indexDocuments submits documents in batches of indexing.BatchSize
func indexDocuments(index bleve.Index, docs []indexing.Document, logger *log.Logger) error {
	batch := index.NewBatch()
	for i, doc := range docs {
		if err := batch.Index(doc.ID, doc); err != nil {
			return fmt.Errorf("failed to add command %s to batch: %w", doc.ID, err)
		}

		if (i+1)%indexing.BatchSize == 0 {
			if err := index.Batch(batch); err != nil {
				return fmt.Errorf("failed to index batch: %w", err)
			}
			batch = index.NewBatch()
			logger.Debugf("Indexed %d/%d commands...", i+1, len(docs))
		}
	}

	if batch.Size() > 0 {
		if err := index.Batch(batch); err != nil {
			return fmt.Errorf("failed to index final batch: %w", err)
		}
	}
	return nil
}

// NewMemIndex builds an in-memory index for a partition result
func NewMemIndex(result partition.Result) (Index, error) {
	docs, err := indexing.BuildDocuments(result)
	if err != nil {
		return nil, err
	}

	index, err := bleve.NewMemOnly(NewMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create index: %w", err)
	}
	if err := indexDocuments(index, docs, log.Default()); err != nil {
		index.Close()
		return nil, err
	}
	return NewBleveIndexWrapper(index), nil
}

// BuildIndex writes the index for a partition result to path. The index is
// built in a temporary directory, closed, and then renamed over any
// previous index; the schema version is written next to it last.
func BuildIndex(path string, result partition.Result, logger *log.Logger) (int, error) {
	if logger == nil {
		logger = log.Default()
	}

	docs, err := indexing.BuildDocuments(result)
	if err != nil {
		return 0, err
	}

	tempPath := path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("failed to create index directory: %w", err)
	}

	// Serialize builders of the same index across processes
	lock, err := AcquireLock(path, logger)
	if err != nil {
		return 0, fmt.Errorf("failed to acquire lock for index build: %w", err)
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logger.Warn("Failed to release index lock", "err", err)
		}
	}()
	os.RemoveAll(tempPath)

	logger.Infof("Creating search index with %d commands in temp location...", len(docs))
	index, err := bleve.New(tempPath, NewMapping())
	if err != nil {
		return 0, fmt.Errorf("failed to create temp index: %w", err)
	}

	if err := indexDocuments(index, docs, logger); err != nil {
		index.Close()
		os.RemoveAll(tempPath)
		return 0, err
	}

	if err := index.Close(); err != nil {
		os.RemoveAll(tempPath)
		return 0, fmt.Errorf("failed to close temp index: %w", err)
	}

	if err := os.RemoveAll(path); err != nil {
		os.RemoveAll(tempPath)
		return 0, fmt.Errorf("failed to remove old index: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.RemoveAll(tempPath)
		return 0, fmt.Errorf("failed to rename temp index: %w", err)
	}

	if err := WriteVersion(path); err != nil {
		logger.Warn("Failed to write index version", "err", err)
	}
	return len(docs), nil
}

// Open opens an index built by BuildIndex. An index with a different schema
// version is rejected so callers can rebuild it.
func Open(path string) (Index, error) {
	if version := ReadVersion(path); version != indexing.IndexSchemaVersion {
		return nil, fmt.Errorf("index schema version mismatch (have: v%d, want: v%d)", version, indexing.IndexSchemaVersion)
	}

	index, err := bleve.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open index: %w", err)
	}
	return NewBleveIndexWrapper(index), nil
}

func versionPath(indexPath string) string {
	return filepath.Join(filepath.Dir(indexPath), VersionFile)
}

// WriteVersion records the current schema version for the index at indexPath
func WriteVersion(indexPath string) error {
	content := strconv.Itoa(indexing.IndexSchemaVersion)
	return os.WriteFile(versionPath(indexPath), []byte(content), 0o644)
}

// ReadVersion returns the schema version recorded for the index, 0 if none
func ReadVersion(indexPath string) int {
	data, err := os.ReadFile(versionPath(indexPath))
	if err != nil {
		return 0
	}
	version, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0
	}
	return version
}
