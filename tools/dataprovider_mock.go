package tools

import (
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"
)

// MockDataProvider implements DataProvider for testing with files held in
// memory.
type MockDataProvider struct {
	files map[string][]byte
}

// NewMockDataProvider creates a new mock data provider for testing.
func NewMockDataProvider() *MockDataProvider {
	return &MockDataProvider{
		files: make(map[string][]byte),
	}
}

// AddFile adds a file to the mock provider.
func (m *MockDataProvider) AddFile(name string, content []byte) {
	m.files[name] = content
}

// ReadFile reads a file from the mock storage.
func (m *MockDataProvider) ReadFile(name string) ([]byte, error) {
	content, exists := m.files[name]
	if !exists {
		return nil, fs.ErrNotExist
	}
	return content, nil
}

// ReadDir lists the files and subdirectories directly under name, sorted.
func (m *MockDataProvider) ReadDir(name string) ([]fs.DirEntry, error) {
	prefix := strings.TrimSuffix(name, "/") + "/"
	if name == "." {
		prefix = ""
	}

	children := make(map[string]bool) // child name -> is directory
	for filePath := range m.files {
		rest, ok := strings.CutPrefix(filePath, prefix)
		if !ok || rest == "" {
			continue
		}
		child, _, nested := strings.Cut(rest, "/")
		children[child] = children[child] || nested
	}
	if len(children) == 0 {
		return nil, fs.ErrNotExist
	}

	entries := make([]fs.DirEntry, 0, len(children))
	for child, isDir := range children {
		entries = append(entries, &mockDirEntry{name: path.Base(child), isDir: isDir})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return entries, nil
}

// mockDirEntry implements fs.DirEntry for testing.
type mockDirEntry struct {
	name  string
	isDir bool
}

func (e *mockDirEntry) Name() string { return e.name }

func (e *mockDirEntry) IsDir() bool { return e.isDir }

func (e *mockDirEntry) Type() fs.FileMode {
	if e.isDir {
		return fs.ModeDir
	}
	return 0
}

func (e *mockDirEntry) Info() (fs.FileInfo, error) {
	return &mockFileInfo{name: e.name, isDir: e.isDir}, nil
}

// mockFileInfo implements fs.FileInfo for testing.
type mockFileInfo struct {
	name  string
	isDir bool
}

func (i *mockFileInfo) Name() string       { return i.name }
func (i *mockFileInfo) Size() int64        { return 0 }
func (i *mockFileInfo) ModTime() time.Time { return time.Time{} }
func (i *mockFileInfo) IsDir() bool        { return i.isDir }
func (i *mockFileInfo) Sys() any           { return nil }

func (i *mockFileInfo) Mode() fs.FileMode {
	if i.isDir {
		return fs.ModeDir
	}
	return 0
}

// SetDefaultDataProvider replaces the provider used to read the bundled
// catalog and drops any catalog already loaded from the previous provider.
func SetDefaultDataProvider(provider DataProvider) {
	defaultDataProvider = provider
	catalogMgr.reset()
}

// ResetDefaultDataProvider restores the embedded data provider.
func ResetDefaultDataProvider() {
	SetDefaultDataProvider(NewEmbeddedDataProvider())
}
