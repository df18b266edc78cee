package tools

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/tldrx/cmdref/internal/catalog"
	"github.com/tldrx/cmdref/internal/emit"
	"github.com/tldrx/cmdref/internal/partition"
	"github.com/tldrx/cmdref/internal/search"
)

// CatalogEnv names the environment variable pointing at a command list file
// or a generated chunk directory. The embedded sample catalog is served when
// it is unset.
const CatalogEnv = "TLDRX_CATALOG"

// Catalog is the partitioned command catalog served by the tools
type Catalog struct {
	Source string

	result   partition.Result
	commands []catalog.Command
	entries  []catalog.Entry
	chunkOf []string       // chunk name per entry
	byName  map[string]int // first entry index per lowercase name
	search  *search.Holder
}

// NewCatalog indexes a partition result for lookup and full-text search
func NewCatalog(source string, result partition.Result) (*Catalog, error) {
	c := &Catalog{
		Source: source,
		result: result,
		byName: make(map[string]int, result.Total()),
	}

	for _, chunk := range result.Chunks {
		entries, err := catalog.DecodeAll(chunk.Commands)
		if err != nil {
			return nil, fmt.Errorf("failed to decode chunk %s: %w", chunk.Name, err)
		}
		for _, entry := range entries {
			key := strings.ToLower(entry.Name)
			if _, exists := c.byName[key]; !exists {
				c.byName[key] = len(c.entries)
			}
			c.entries = append(c.entries, entry)
			c.chunkOf = append(c.chunkOf, chunk.Name)
		}
		c.commands = append(c.commands, chunk.Commands...)
	}

	index, err := search.NewMemIndex(result)
	if err != nil {
		return nil, fmt.Errorf("failed to build search index: %w", err)
	}
	c.search = search.NewHolder(index)
	return c, nil
}

// Total returns the number of commands in the catalog
func (c *Catalog) Total() int {
	return len(c.entries)
}

// Result returns the partition the catalog was built from
func (c *Catalog) Result() partition.Result {
	return c.result
}

// Lookup finds a command by name, exact match first, then case-insensitive
func (c *Catalog) Lookup(name string) (catalog.Entry, string, bool) {
	for i, entry := range c.entries {
		if entry.Name == name {
			return entry, c.chunkOf[i], true
		}
	}
	if i, ok := c.byName[strings.ToLower(name)]; ok {
		return c.entries[i], c.chunkOf[i], true
	}
	return catalog.Entry{}, "", false
}

// Close releases the search index
func (c *Catalog) Close() error {
	return c.search.Close()
}

// LoadCatalog loads the catalog named by TLDRX_CATALOG, or the embedded one
func LoadCatalog() (*Catalog, error) {
	if source := os.Getenv(CatalogEnv); source != "" {
		result, err := emit.LoadSource(source)
		if err != nil {
			return nil, fmt.Errorf("failed to load catalog from %s: %w", source, err)
		}
		return NewCatalog(source, result)
	}

	data, err := defaultDataProvider.ReadFile(embeddedCatalogFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded catalog: %w", err)
	}
	cmds, err := catalog.Parse(data, catalog.FormatJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded catalog: %w", err)
	}
	return NewCatalog("embedded:"+embeddedCatalogFile, partition.Partition(cmds))
}

// catalogManager holds the catalog shared by all tool handlers
type catalogManager struct {
	mu      sync.Mutex
	current *Catalog
}

var catalogMgr = &catalogManager{}

// get returns the loaded catalog, loading it on first use
func (m *catalogManager) get() (*Catalog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current != nil {
		return m.current, nil
	}
	cat, err := LoadCatalog()
	if err != nil {
		return nil, err
	}
	log.Info("✓ Catalog loaded", "commands", cat.Total(), "chunks", len(cat.result.Chunks), "source", cat.Source)
	m.current = cat
	return cat, nil
}

// set installs a catalog and returns the previous one
func (m *catalogManager) set(cat *Catalog) *Catalog {
	m.mu.Lock()
	defer m.mu.Unlock()
	old := m.current
	m.current = cat
	return old
}

// reset drops the loaded catalog so the next call reloads it
func (m *catalogManager) reset() {
	if old := m.set(nil); old != nil {
		if err := old.Close(); err != nil {
			log.Warn("Error closing catalog", "err", err)
		}
	}
}

func loadedCatalog() (*Catalog, error) {
	return catalogMgr.get()
}

// InitializeCatalog loads the catalog eagerly
func InitializeCatalog() error {
	_, err := catalogMgr.get()
	return err
}

// CloseCatalog releases the loaded catalog
func CloseCatalog() error {
	old := catalogMgr.set(nil)
	if old == nil {
		return nil
	}
	return old.Close()
}
