package tools

import (
	"io/fs"
	"testing"
)

func TestMockDataProvider_ReadFile(t *testing.T) {
	mock := NewMockDataProvider()
	mock.AddFile("data/test.txt", []byte("test content"))

	content, err := mock.ReadFile("data/test.txt")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if string(content) != "test content" {
		t.Errorf("Expected 'test content', got: %s", string(content))
	}

	_, err = mock.ReadFile("data/missing.txt")
	if err != fs.ErrNotExist {
		t.Errorf("Expected fs.ErrNotExist, got: %v", err)
	}
}

func TestMockDataProvider_ReadDir(t *testing.T) {
	mock := NewMockDataProvider()
	mock.AddFile("data/chunks/security.js", []byte("a"))
	mock.AddFile("data/chunks/index.js", []byte("b"))
	mock.AddFile("data/chunks/old/networking.js", []byte("c"))
	mock.AddFile("data/commands.json", []byte("[]"))

	entries, err := mock.ReadDir("data/chunks")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	want := []struct {
		name  string
		isDir bool
	}{
		{"index.js", false},
		{"old", true},
		{"security.js", false},
	}
	if len(entries) != len(want) {
		t.Fatalf("Expected %d entries, got %d", len(want), len(entries))
	}
	for i, w := range want {
		if entries[i].Name() != w.name || entries[i].IsDir() != w.isDir {
			t.Errorf("Entry %d: expected %s (dir=%v), got %s (dir=%v)", i, w.name, w.isDir, entries[i].Name(), entries[i].IsDir())
		}
	}

	_, err = mock.ReadDir("data/missing")
	if err != fs.ErrNotExist {
		t.Errorf("Expected fs.ErrNotExist, got: %v", err)
	}
}

func TestMockDataProvider_SetAndReset(t *testing.T) {
	t.Setenv(CatalogEnv, "")
	mock := NewMockDataProvider()
	mock.AddFile(embeddedCatalogFile, []byte(`[{"name": "only"}]`))

	originalProvider := defaultDataProvider
	defer func() {
		SetDefaultDataProvider(originalProvider)
	}()

	SetDefaultDataProvider(mock)

	cat, err := loadedCatalog()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if cat.Total() != 1 {
		t.Errorf("Expected the mock catalog with 1 command, got %d", cat.Total())
	}

	ResetDefaultDataProvider()

	if defaultDataProvider == mock {
		t.Error("Expected defaultDataProvider to be reset")
	}
}

func TestEmbeddedDataProvider_HasCatalog(t *testing.T) {
	content, err := NewEmbeddedDataProvider().ReadFile(embeddedCatalogFile)
	if err != nil {
		t.Fatalf("Expected embedded catalog, got: %v", err)
	}
	if len(content) == 0 {
		t.Error("Expected embedded catalog to have content")
	}
}

func TestMockDirEntry(t *testing.T) {
	entry := &mockDirEntry{name: "chunks", isDir: true}

	if !entry.IsDir() || entry.Type() != fs.ModeDir {
		t.Error("Expected directory entry")
	}

	info, err := entry.Info()
	if err != nil {
		t.Fatalf("Expected no error from Info(), got: %v", err)
	}
	if info.Name() != "chunks" || !info.IsDir() || !info.ModTime().IsZero() {
		t.Errorf("Unexpected file info: %+v", info)
	}
}
