package sink

import (
	"context"
	"errors"
	"path"
	"strings"
)

// ErrDestinationMissing reports a target that does not exist and is not created on demand
var ErrDestinationMissing = errors.New("destination does not exist")

// Sink receives generated artifacts. Write is called once per artifact in
// emission order; Prepare is called once before the first Write.
type Sink interface {
	Prepare(ctx context.Context) error
	Write(ctx context.Context, name string, data []byte) error
	Location(name string) string
}

// ContentType returns the media type stored alongside an artifact
func ContentType(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".js", ".mjs":
		return "text/javascript; charset=utf-8"
	case ".json":
		return "application/json"
	default:
		return "application/octet-stream"
	}
}
