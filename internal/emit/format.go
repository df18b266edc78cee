package emit

import "fmt"

// Format selects the artifact encoding
type Format string

const (
	// FormatJS writes ES modules compatible with the web application
	FormatJS Format = "js"
	// FormatJSON writes plain arrays plus an index.json manifest
	FormatJSON Format = "json"
)

// DefaultCollection is the export name of the combined index
const DefaultCollection = "commands"

// ParseFormat validates a format name
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatJS, FormatJSON:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown output format %q (want js or json)", s)
	}
}

// Ext returns the file extension including the dot
func (f Format) Ext() string {
	return "." + string(f)
}

// IndexFile returns the name of the index artifact
func (f Format) IndexFile() string {
	return "index" + f.Ext()
}
