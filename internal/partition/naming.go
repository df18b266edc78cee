package partition

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// ChunkFileName returns the artifact base name for a chunk (no extension)
// Example: "Data Processing" -> "data-processing"
func ChunkFileName(name string) string {
	return strings.ToLower(whitespaceRegex.ReplaceAllString(name, "-"))
}

// VarName returns the module identifier exported by a chunk artifact
// Example: "development-web" -> "development_webCommands"
func VarName(name string) string {
	return strings.ReplaceAll(ChunkFileName(name), "-", "_") + "Commands"
}

// Label returns the human-readable title of a chunk
// Example: "development-web" -> "Development web"
func Label(name string) string {
	label := name
	if r, size := utf8.DecodeRuneInString(name); size > 0 && isWordRune(r) {
		label = string(unicode.ToUpper(r)) + name[size:]
	}
	return strings.ReplaceAll(label, "-", " ")
}

// Topic returns the phrase used in "commands related to ..." headers.
// Only the first hyphen is replaced: "text-processing-2" -> "text processing-2"
func Topic(name string) string {
	return strings.Replace(name, "-", " ", 1)
}

func isWordRune(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
