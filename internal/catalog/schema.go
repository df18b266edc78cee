package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const schemaURL = "https://tldrx.dev/schema/command.json"

//go:embed schema.json
var schemaSource []byte

// ErrInvalidRecord is matched by every record-level load or validation failure
var ErrInvalidRecord = errors.New("invalid command record")

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// Issue is a single schema violation inside a record
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// RecordError describes why a record at a given position was rejected
type RecordError struct {
	Index  int
	Name   string
	Issues []Issue
	Err    error
}

func (e *RecordError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "record %d", e.Index)
	if e.Name != "" {
		fmt.Fprintf(&b, " (%q)", e.Name)
	}
	switch {
	case len(e.Issues) > 0:
		parts := make([]string, 0, len(e.Issues))
		for _, issue := range e.Issues {
			parts = append(parts, issue.Path+": "+issue.Message)
		}
		b.WriteString(": " + strings.Join(parts, "; "))
	case e.Err != nil:
		b.WriteString(": " + e.Err.Error())
	}
	return b.String()
}

// Is reports ErrInvalidRecord so callers can test with errors.Is
func (e *RecordError) Is(target error) bool {
	return target == ErrInvalidRecord
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// recordSchema compiles the embedded record schema once
func recordSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaSource))
		if err != nil {
			schemaErr = fmt.Errorf("failed to parse record schema: %w", err)
			return
		}

		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaURL, doc); err != nil {
			schemaErr = fmt.Errorf("failed to add record schema: %w", err)
			return
		}

		compiledSchema, schemaErr = compiler.Compile(schemaURL)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("failed to compile record schema: %w", schemaErr)
		}
	})
	return compiledSchema, schemaErr
}

// ValidateRecord checks one raw JSON record against the record schema.
// It returns the list of violations, empty when the record is valid.
func ValidateRecord(raw []byte) ([]Issue, error) {
	schema, err := recordSchema()
	if err != nil {
		return nil, err
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return []Issue{{Path: "$", Message: fmt.Sprintf("invalid JSON: %v", err)}}, nil
	}

	if err := schema.Validate(doc); err != nil {
		var validationErr *jsonschema.ValidationError
		if errors.As(err, &validationErr) {
			return flattenValidationErrors(validationErr), nil
		}
		return []Issue{{Path: "$", Message: err.Error()}}, nil
	}
	return nil, nil
}

var printer = message.NewPrinter(language.English)

// flattenValidationErrors walks the cause tree and keeps the leaves
func flattenValidationErrors(validationErr *jsonschema.ValidationError) []Issue {
	if len(validationErr.Causes) == 0 {
		path := "$"
		if len(validationErr.InstanceLocation) > 0 {
			path = "$." + strings.Join(validationErr.InstanceLocation, ".")
		}
		return []Issue{{
			Path:    path,
			Message: validationErr.ErrorKind.LocalizedString(printer),
		}}
	}

	var issues []Issue
	for _, cause := range validationErr.Causes {
		issues = append(issues, flattenValidationErrors(cause)...)
	}
	return issues
}
