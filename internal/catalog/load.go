package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Format identifies how a command list is serialized on disk
type Format string

const (
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatJSModule Format = "js"
)

// DetectFormat maps a file extension to its input format
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".js", ".mjs":
		return FormatJSModule, nil
	default:
		return "", fmt.Errorf("unsupported catalog format for %s (want .json, .yaml, .yml or .js)", path)
	}
}

// Load reads and validates the command list stored at path
func Load(path string) ([]Command, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	cmds, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", path, err)
	}
	return cmds, nil
}

// Parse decodes a serialized command list. Every record is validated against
// the record schema; the first invalid record aborts the parse.
func Parse(data []byte, format Format) ([]Command, error) {
	raws, err := splitRecords(data, format)
	if err != nil {
		return nil, err
	}

	cmds := make([]Command, 0, len(raws))
	for i, raw := range raws {
		cmd, err := parseRecord(i, raw)
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, cmd)
	}
	return cmds, nil
}

// Validate checks every record of a serialized command list and reports all
// rejected records instead of stopping at the first one. The error is only
// set when the list itself cannot be read.
func Validate(data []byte, format Format) (int, []*RecordError, error) {
	raws, err := splitRecords(data, format)
	if err != nil {
		return 0, nil, err
	}

	var failures []*RecordError
	for i, raw := range raws {
		if _, err := parseRecord(i, raw); err != nil {
			var recordErr *RecordError
			if !errors.As(err, &recordErr) {
				return 0, nil, err
			}
			failures = append(failures, recordErr)
		}
	}
	return len(raws), failures, nil
}

// ValidateFile reads path and validates every record in it
func ValidateFile(path string) (int, []*RecordError, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return 0, nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return Validate(data, format)
}

// splitRecords returns the raw JSON records of a serialized command list
func splitRecords(data []byte, format Format) ([]json.RawMessage, error) {
	var array []byte
	var err error

	switch format {
	case FormatJSON:
		array = data
	case FormatYAML:
		array, err = yamlToJSON(data)
	case FormatJSModule:
		array, err = extractModuleArray(data)
	default:
		return nil, fmt.Errorf("unknown catalog format %q", format)
	}
	if err != nil {
		return nil, err
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(array, &raws); err != nil {
		return nil, fmt.Errorf("command list is not a JSON array: %w", err)
	}
	return raws, nil
}

func parseRecord(index int, raw json.RawMessage) (Command, error) {
	issues, err := ValidateRecord(raw)
	if err != nil {
		return Command{}, err
	}
	if len(issues) > 0 {
		return Command{}, &RecordError{Index: index, Name: peekName(raw), Issues: issues}
	}

	var cmd Command
	if err := json.Unmarshal(raw, &cmd); err != nil {
		return Command{}, &RecordError{Index: index, Name: peekName(raw), Err: err}
	}
	return cmd, nil
}

// peekName extracts the name of a record that failed validation, if any
func peekName(raw json.RawMessage) string {
	var probe struct {
		Name any `json:"name"`
	}
	if json.Unmarshal(raw, &probe) != nil {
		return ""
	}
	name, _ := probe.Name.(string)
	return name
}

// extractModuleArray pulls the array literal out of an ES data module such as
// `const commandsDatabase = [ ... ];`. The literal must be strict JSON.
func extractModuleArray(data []byte) ([]byte, error) {
	start := bytes.Index(data, []byte("= ["))
	if start == -1 {
		return nil, fmt.Errorf("could not find command array declaration")
	}
	start += len("= ")

	end := bytes.LastIndex(data, []byte("];"))
	if end == -1 || end < start {
		return nil, fmt.Errorf("could not find end of command array")
	}

	return data[start : end+1], nil
}
