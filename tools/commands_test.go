package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tldrx/cmdref/internal/emit"
)

const testRecords = `[
    {"name": "tar", "category": "file-operations", "description": "Archive utility", "platform": ["linux", "macos"], "examples": ["tar -czf out.tgz dir"]},
    {"name": "grep", "category": "text-processing", "description": "Search text using patterns", "platform": ["linux", "macos", "windows"]},
    {"name": "apt", "category": "package-management", "description": "Debian package manager", "platform": ["linux"]},
    {"name": "orphan", "description": "No category here"}
]`

// useCatalog serves records as the bundled catalog for the duration of a test
func useCatalog(t *testing.T, records string) {
	t.Helper()
	t.Setenv(CatalogEnv, "")

	mock := NewMockDataProvider()
	mock.AddFile(embeddedCatalogFile, []byte(records))

	original := defaultDataProvider
	SetDefaultDataProvider(mock)
	t.Cleanup(func() {
		SetDefaultDataProvider(original)
	})
}

func hitNames(output SearchCommandsOutput) []string {
	names := make([]string, len(output.Results))
	for i, hit := range output.Results {
		names[i] = hit.Name
	}
	return names
}

func TestSearchCommands_FullText(t *testing.T) {
	useCatalog(t, testRecords)

	_, output, err := SearchCommands(context.Background(), nil, SearchCommandsInput{Query: "archive"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if output.Mode != modeIndex {
		t.Errorf("Expected index mode, got %s", output.Mode)
	}
	if len(output.Results) == 0 || output.Results[0].Name != "tar" {
		t.Fatalf("Expected tar first, got %v", hitNames(output))
	}
	if output.Results[0].Chunk != "file-operations" {
		t.Errorf("Expected chunk file-operations, got %s", output.Results[0].Chunk)
	}
}

func TestSearchCommands_Filters(t *testing.T) {
	useCatalog(t, testRecords)

	tests := []struct {
		name  string
		input SearchCommandsInput
		want  []string
	}{
		{name: "platform", input: SearchCommandsInput{Platform: "windows"}, want: []string{"grep"}},
		{name: "chunk", input: SearchCommandsInput{Category: "uncategorized"}, want: []string{"orphan"}},
		{name: "category and text", input: SearchCommandsInput{Query: "package", Category: "package-management"}, want: []string{"apt"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, output, err := SearchCommands(context.Background(), nil, tt.input)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			got := hitNames(output)
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestSearchCommands_FuzzyFallback(t *testing.T) {
	useCatalog(t, testRecords)

	_, output, err := SearchCommands(context.Background(), nil, SearchCommandsInput{Query: "gep"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if output.Mode != modeFuzzy {
		t.Errorf("Expected fuzzy mode, got %s", output.Mode)
	}
	if got := hitNames(output); len(got) != 1 || got[0] != "grep" {
		t.Fatalf("Expected [grep], got %v", got)
	}
	hit := output.Results[0]
	if hit.Chunk != "text-processing" || hit.Breadcrumb != "Text processing > grep" {
		t.Errorf("Unexpected hit metadata: %+v", hit)
	}
}

func TestSearchCommands_FuzzyFallbackRespectsFilters(t *testing.T) {
	useCatalog(t, testRecords)

	_, output, err := SearchCommands(context.Background(), nil, SearchCommandsInput{Query: "gep", Category: "file-operations"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(output.Results) != 0 {
		t.Errorf("Expected no results, got %v", hitNames(output))
	}
}

func TestGetCommand(t *testing.T) {
	useCatalog(t, testRecords)

	_, output, err := GetCommand(context.Background(), nil, GetCommandInput{Name: "TAR"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if output.Command.Name != "tar" {
		t.Errorf("Expected tar, got %s", output.Command.Name)
	}
	if len(output.Command.Examples) != 1 {
		t.Errorf("Expected the full record with examples, got %+v", output.Command)
	}
	if output.Chunk != "file-operations" || output.ChunkLabel != "File operations" || output.ChunkFile != "file-operations.js" {
		t.Errorf("Unexpected chunk info: %+v", output)
	}
}

func TestGetCommand_NotFoundSuggests(t *testing.T) {
	useCatalog(t, testRecords)

	_, _, err := GetCommand(context.Background(), nil, GetCommandInput{Name: "grp"})
	if err == nil {
		t.Fatal("Expected error for unknown command")
	}
	if !strings.Contains(err.Error(), "did you mean: grep") {
		t.Errorf("Expected suggestion, got %q", err.Error())
	}
}

func TestGetCommand_EmptyName(t *testing.T) {
	useCatalog(t, testRecords)

	if _, _, err := GetCommand(context.Background(), nil, GetCommandInput{Name: "  "}); err == nil {
		t.Error("Expected error for empty name")
	}
}

func TestListChunks(t *testing.T) {
	useCatalog(t, testRecords)

	_, manifest, err := ListChunks(context.Background(), nil, ListChunksInput{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	want := []string{"file-operations", "text-processing", "package-management", "uncategorized"}
	if manifest.GeneratedChunks != len(want) || manifest.TotalCommands != 4 {
		t.Errorf("Unexpected totals: %d chunks, %d commands", manifest.GeneratedChunks, manifest.TotalCommands)
	}
	for i, chunk := range manifest.Chunks {
		if chunk.Name != want[i] {
			t.Errorf("Chunk %d: expected %s, got %s", i, want[i], chunk.Name)
		}
		if chunk.File != want[i]+".js" {
			t.Errorf("Chunk %d: expected file %s.js, got %s", i, want[i], chunk.File)
		}
	}

	_, manifest, err = ListChunks(context.Background(), nil, ListChunksInput{Format: "json"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if manifest.Chunks[0].File != "file-operations.json" {
		t.Errorf("Expected json file names, got %s", manifest.Chunks[0].File)
	}

	if _, _, err := ListChunks(context.Background(), nil, ListChunksInput{Format: "xml"}); err == nil {
		t.Error("Expected error for unknown format")
	}
}

func TestListChunks_SplitsLargeCategories(t *testing.T) {
	var records []map[string]any
	for i := 0; i < 101; i++ {
		records = append(records, map[string]any{"name": fmt.Sprintf("net%d", i), "category": "networking"})
	}
	data, err := json.Marshal(records)
	if err != nil {
		t.Fatal(err)
	}
	useCatalog(t, string(data))

	_, manifest, err := ListChunks(context.Background(), nil, ListChunksInput{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(manifest.Chunks) != 2 || manifest.Chunks[0].Commands != 100 || manifest.Chunks[1].Name != "networking-2" {
		t.Errorf("Unexpected layout: %+v", manifest.Chunks)
	}
}

func TestListCommands(t *testing.T) {
	useCatalog(t, testRecords)

	tests := []struct {
		name  string
		input ListCommandsInput
		want  []string
	}{
		{name: "all", input: ListCommandsInput{}, want: []string{"tar", "grep", "apt", "orphan"}},
		{name: "platform", input: ListCommandsInput{Platforms: []string{"windows"}}, want: []string{"grep"}},
		{name: "default platform is linux", input: ListCommandsInput{Platforms: []string{"linux"}}, want: []string{"tar", "grep", "apt", "orphan"}},
		{name: "chunk name", input: ListCommandsInput{Categories: []string{"uncategorized"}}, want: []string{"orphan"}},
		{name: "display category", input: ListCommandsInput{Categories: []string{"general", "text-processing"}}, want: []string{"grep", "orphan"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, output, err := ListCommands(context.Background(), nil, tt.input)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if output.Count != len(tt.want) {
				t.Fatalf("Expected %d commands, got %d", len(tt.want), output.Count)
			}
			for i, name := range tt.want {
				if output.Commands[i].Name != name {
					t.Errorf("Command %d: expected %s, got %s", i, name, output.Commands[i].Name)
				}
			}
		})
	}
}

func TestValidateCommands_Inline(t *testing.T) {
	_, output, err := ValidateCommands(context.Background(), nil, ValidateCommandsInput{
		Records: `[{"name": "ok"}, {"name": "bad", "category": ["linux"]}, {"name": "worse", "description": 1}]`,
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if output.Valid {
		t.Error("Expected invalid result")
	}
	if output.Total != 3 || output.Invalid != 2 {
		t.Errorf("Expected 2 of 3 invalid, got %d of %d", output.Invalid, output.Total)
	}
	if output.Errors[0].Index != 1 || output.Errors[0].Name != "bad" || len(output.Errors[0].Issues) == 0 {
		t.Errorf("Unexpected first error: %+v", output.Errors[0])
	}
	if len(output.Chunks) != 0 {
		t.Error("Expected no chunk preview for invalid records")
	}
}

func TestValidateCommands_ValidPreviewsChunks(t *testing.T) {
	_, output, err := ValidateCommands(context.Background(), nil, ValidateCommandsInput{Records: testRecords})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !output.Valid || output.Total != 4 {
		t.Fatalf("Expected 4 valid records, got %+v", output)
	}
	if len(output.Chunks) != 4 || output.Chunks[3].File != "uncategorized.js" {
		t.Errorf("Unexpected chunk preview: %+v", output.Chunks)
	}
}

func TestValidateCommands_CollidingChunkNames(t *testing.T) {
	_, output, err := ValidateCommands(context.Background(), nil, ValidateCommandsInput{
		Records: `[{"name": "a", "category": "Text Tools"}, {"name": "b", "category": "text-tools"}]`,
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if output.Valid {
		t.Error("Expected colliding chunk files to be reported")
	}
	if !strings.Contains(output.Message, emit.ErrNameCollision.Error()) {
		t.Errorf("Expected collision message, got %q", output.Message)
	}
}

func TestValidateCommands_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "commands.yaml")
	if err := os.WriteFile(path, []byte("- name: ls\n  category: file-operations\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, output, err := ValidateCommands(context.Background(), nil, ValidateCommandsInput{Records: path})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !output.Valid || output.Total != 1 {
		t.Errorf("Expected one valid record, got %+v", output)
	}
}

func TestValidateCommands_BadInput(t *testing.T) {
	tests := []struct {
		name    string
		records string
	}{
		{"empty", ""},
		{"not an array", `{"name": "ls"}`},
		{"unsupported file", "commands.txt"},
		{"missing file", filepath.Join(t.TempDir(), "missing.json")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := ValidateCommands(context.Background(), nil, ValidateCommandsInput{Records: tt.records}); err == nil {
				t.Error("Expected error")
			}
		})
	}
}

func TestReloadCatalog(t *testing.T) {
	useCatalog(t, testRecords)

	if _, _, err := ListChunks(context.Background(), nil, ListChunksInput{}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// Swap the source underneath the loaded catalog
	mock := NewMockDataProvider()
	mock.AddFile(embeddedCatalogFile, []byte(`[{"name": "only", "category": "shell"}]`))
	defaultDataProvider = mock

	_, output, err := ReloadCatalog(context.Background(), nil, ReloadCatalogInput{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if output.Commands != 1 || output.Chunks != 1 {
		t.Errorf("Expected reloaded catalog with 1 command, got %+v", output)
	}

	_, manifest, err := ListChunks(context.Background(), nil, ListChunksInput{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if manifest.Chunks[0].Name != "shell" {
		t.Errorf("Expected tools to serve the reloaded catalog, got %+v", manifest.Chunks)
	}
}

func TestLoadCatalog_FromEnvironment(t *testing.T) {
	useCatalog(t, testRecords)

	dir := t.TempDir()
	path := filepath.Join(dir, "commands.json")
	if err := os.WriteFile(path, []byte(`[{"name": "ssh", "category": "networking"}]`), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(CatalogEnv, path)

	cat, err := LoadCatalog()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	defer cat.Close()

	if cat.Source != path || cat.Total() != 1 {
		t.Errorf("Expected catalog from %s, got %s with %d commands", path, cat.Source, cat.Total())
	}
}

func TestLoadCatalog_FromChunkDirectory(t *testing.T) {
	useCatalog(t, testRecords)

	dir := t.TempDir()
	files := map[string]string{
		"shell.js": "const shellCommands = [{\"name\": \"cd\", \"category\": \"shell\"}];\n",
		"index.js": "import shellCommands from './shell.js';\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	t.Setenv(CatalogEnv, dir)

	cat, err := LoadCatalog()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	defer cat.Close()

	if _, chunk, ok := cat.Lookup("cd"); !ok || chunk != "shell" {
		t.Errorf("Expected cd in shell chunk, got ok=%v chunk=%s", ok, chunk)
	}
}

func TestLoadCatalog_EmbeddedSample(t *testing.T) {
	t.Setenv(CatalogEnv, "")

	cat, err := LoadCatalog()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	defer cat.Close()

	if cat.Total() == 0 {
		t.Error("Expected the embedded sample catalog to have commands")
	}
}
