package catalog_test

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/tldrx/cmdref/internal/catalog"
)

func TestParse_JSONKeepsRawRecord(t *testing.T) {
	input := `[
    {"name": "ls", "description": "List directory contents", "category": "file-operations", "platform": ["linux", "mac"]},
    {"name": "true", "category": null},
    {"name": "noop"}
]`

	cmds, err := catalog.Parse([]byte(input), catalog.FormatJSON)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(cmds) != 3 {
		t.Fatalf("Expected 3 commands, got %d", len(cmds))
	}

	if cmds[0].Name != "ls" || cmds[0].Category != "file-operations" || cmds[0].Description != "List directory contents" {
		t.Errorf("Unexpected first command: %+v", cmds[0])
	}

	want := `{"name": "ls", "description": "List directory contents", "category": "file-operations", "platform": ["linux", "mac"]}`
	if string(cmds[0].Raw) != want {
		t.Errorf("Raw record not preserved:\n got: %s\nwant: %s", cmds[0].Raw, want)
	}

	for _, cmd := range cmds[1:] {
		if cmd.Key() != catalog.FallbackCategory {
			t.Errorf("Expected %q to fall back to %q, got %q", cmd.Name, catalog.FallbackCategory, cmd.Key())
		}
	}
}

func TestParse_EmptyCategoryFallsBack(t *testing.T) {
	cmds, err := catalog.Parse([]byte(`[{"name": "x", "category": ""}]`), catalog.FormatJSON)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cmds[0].Key() != "uncategorized" {
		t.Errorf("Expected uncategorized, got %q", cmds[0].Key())
	}
}

func TestParse_YAMLPreservesKeyOrder(t *testing.T) {
	input := `
- name: ls
  description: List directory contents
  category: file-operations
  platform: [linux, mac]
  distroNotes:
    linux: coreutils
- name: grep
  category: text-processing
`

	cmds, err := catalog.Parse([]byte(input), catalog.FormatYAML)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(cmds) != 2 {
		t.Fatalf("Expected 2 commands, got %d", len(cmds))
	}

	want := `{"name":"ls","description":"List directory contents","category":"file-operations","platform":["linux","mac"],"distroNotes":{"linux":"coreutils"}}`
	if string(cmds[0].Raw) != want {
		t.Errorf("YAML record not converted in order:\n got: %s\nwant: %s", cmds[0].Raw, want)
	}
}

func TestParse_EmptyYAML(t *testing.T) {
	cmds, err := catalog.Parse([]byte(""), catalog.FormatYAML)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(cmds) != 0 {
		t.Errorf("Expected no commands, got %d", len(cmds))
	}
}

func TestParse_JSModule(t *testing.T) {
	input := `/**
 * Security category commands
 * @type {Array<Object>}
 */
const securityCommands = [
    {
        "name": "aide",
        "category": "security"
    }
];

export { securityCommands };
export default securityCommands;
`

	cmds, err := catalog.Parse([]byte(input), catalog.FormatJSModule)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(cmds) != 1 || cmds[0].Name != "aide" {
		t.Fatalf("Expected the aide record, got %+v", cmds)
	}
}

func TestParse_JSModuleWithoutArray(t *testing.T) {
	_, err := catalog.Parse([]byte("export default {};"), catalog.FormatJSModule)
	if err == nil {
		t.Fatal("Expected error for module without array")
	}
}

func TestParse_InvalidRecordIsReported(t *testing.T) {
	input := `[{"name": "ok"}, {"name": "broken", "category": 42}]`

	_, err := catalog.Parse([]byte(input), catalog.FormatJSON)
	if err == nil {
		t.Fatal("Expected validation error")
	}
	if !errors.Is(err, catalog.ErrInvalidRecord) {
		t.Errorf("Expected ErrInvalidRecord, got %v", err)
	}

	var recErr *catalog.RecordError
	if !errors.As(err, &recErr) {
		t.Fatalf("Expected *RecordError, got %T", err)
	}
	if recErr.Index != 1 || recErr.Name != "broken" {
		t.Errorf("Expected record 1 named broken, got index=%d name=%q", recErr.Index, recErr.Name)
	}
	if !strings.Contains(err.Error(), "category") {
		t.Errorf("Expected error to mention category, got %q", err.Error())
	}
}

func TestParse_NotAnArray(t *testing.T) {
	_, err := catalog.Parse([]byte(`{"name": "ls"}`), catalog.FormatJSON)
	if err == nil {
		t.Fatal("Expected error for non-array input")
	}
}

func TestParse_NonObjectRecord(t *testing.T) {
	_, err := catalog.Parse([]byte(`["ls"]`), catalog.FormatJSON)
	if !errors.Is(err, catalog.ErrInvalidRecord) {
		t.Errorf("Expected ErrInvalidRecord, got %v", err)
	}
}

func TestLoad_DetectsFormatFromExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "commands.yml")
	if err := os.WriteFile(path, []byte("- name: ls\n"), 0644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	cmds, err := catalog.Load(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(cmds) != 1 {
		t.Errorf("Expected 1 command, got %d", len(cmds))
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		path string
	}{
		{name: "missing file", path: filepath.Join(dir, "missing.json")},
		{name: "unsupported extension", path: filepath.Join(dir, "commands.txt")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := catalog.Load(tt.path); err == nil {
				t.Errorf("Expected error for %s", tt.path)
			}
		})
	}
}

func TestCommand_Decode(t *testing.T) {
	input := `[{
        "name": "git",
        "standsFor": "Global Information Tracker",
        "description": "Version control",
        "category": "development",
        "platform": ["linux", "mac", "windows"],
        "relatedCommands": [{"name": "gh", "relationship": "complementary", "reason": "GitHub CLI"}],
        "commandCombinations": [{"label": "Sync", "commands": "git pull && git push", "explanation": "Round trip"}],
        "distroNotes": null
    }]`

	cmds, err := catalog.Parse([]byte(input), catalog.FormatJSON)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	entry, err := cmds[0].Decode()
	if err != nil {
		t.Fatalf("Unexpected decode error: %v", err)
	}

	want := catalog.Entry{
		Name:            "git",
		StandsFor:       "Global Information Tracker",
		Description:     "Version control",
		Category:        "development",
		Platform:        []string{"linux", "mac", "windows"},
		RelatedCommands: []catalog.RelatedCommand{{Name: "gh", Relationship: "complementary", Reason: "GitHub CLI"}},
		CommandCombinations: []catalog.Combination{
			{Label: "Sync", Commands: "git pull && git push", Explanation: "Round trip"},
		},
	}
	if diff := cmp.Diff(want, entry); diff != "" {
		t.Errorf("Decoded entry mismatch (-want +got):\n%s", diff)
	}
}

func TestCommand_MarshalJSONWithoutRaw(t *testing.T) {
	cmd := catalog.Command{Name: "ls", Category: "file-operations"}
	data, err := cmd.MarshalJSON()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if string(data) != `{"name":"ls","category":"file-operations"}` {
		t.Errorf("Unexpected JSON: %s", data)
	}
}

func TestValidate_ReportsEveryInvalidRecord(t *testing.T) {
	input := `[{"name": "ok"}, {"name": "a", "category": 1}, {"name": "b", "description": ["linux"]}, {"name": "c"}]`

	total, failures, err := catalog.Validate([]byte(input), catalog.FormatJSON)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if total != 4 {
		t.Errorf("Expected 4 records, got %d", total)
	}
	if len(failures) != 2 {
		t.Fatalf("Expected 2 failures, got %d: %v", len(failures), failures)
	}
	if failures[0].Index != 1 || failures[1].Index != 2 {
		t.Errorf("Expected failures at 1 and 2, got %d and %d", failures[0].Index, failures[1].Index)
	}
}

func TestValidate_UnreadableList(t *testing.T) {
	if _, _, err := catalog.Validate([]byte(`{}`), catalog.FormatJSON); err == nil {
		t.Error("Expected error for non-array input")
	}
}

func TestParse_PayloadShapesPassThrough(t *testing.T) {
	record := `{"name": "binwalk", "category": "shell", "description": "Firmware analysis", "prerequisites": {"prior_commands": "file, strings", "foundational_concepts": "Binary formats"}, "examples": [1, {"cmd": "binwalk fw.bin"}], "distroNotes": {"arch": ["pacman -S binwalk"]}}`
	input := "[" + record + "]"

	total, failures, err := catalog.Validate([]byte(input), catalog.FormatJSON)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if total != 1 || len(failures) != 0 {
		t.Fatalf("Expected 1 valid record, got %d with failures %v", total, failures)
	}

	cmds, err := catalog.Parse([]byte(input), catalog.FormatJSON)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	data, err := cmds[0].MarshalJSON()
	if err != nil {
		t.Fatalf("Unexpected marshal error: %v", err)
	}
	if string(data) != record {
		t.Errorf("Record not re-emitted verbatim:\n got: %s\nwant: %s", data, record)
	}

	entry, err := cmds[0].Decode()
	if err != nil {
		t.Fatalf("Unexpected decode error: %v", err)
	}
	want := catalog.Entry{
		Name:          "binwalk",
		Category:      "shell",
		Description:   "Firmware analysis",
		Prerequisites: catalog.Prerequisites{"Binary formats", "file, strings"},
	}
	if diff := cmp.Diff(want, entry); diff != "" {
		t.Errorf("Decoded entry mismatch (-want +got):\n%s", diff)
	}
}

func TestPrerequisites_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected catalog.Prerequisites
		wantErr  bool
	}{
		{name: "list", input: `["ls", "cd"]`, expected: catalog.Prerequisites{"ls", "cd"}},
		{name: "object in key order", input: `{"risk_awareness": "c", "foundational_concepts": "a", "prior_commands": "b"}`, expected: catalog.Prerequisites{"a", "b", "c"}},
		{name: "null", input: `null`},
		{name: "number", input: `3`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got catalog.Prerequisites
			err := json.Unmarshal([]byte(tt.input), &got)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error for %s", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Errorf("Prerequisites mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
