package indexing

import (
	"strings"
)

var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true,
	"but": true, "in": true, "on": true, "at": true, "to": true,
	"for": true, "of": true, "as": true, "by": true, "is": true,
	"it": true, "be": true, "with": true, "from": true, "that": true,
}

// ExtractKeywords extracts key terms from a command's title and text.
// Terms keep their first-seen order so documents are reproducible.
func ExtractKeywords(title, content string) []string {
	words := strings.Fields(strings.ToLower(title))
	words = append(words, strings.Fields(strings.ToLower(content))...)

	seen := make(map[string]bool)
	keywords := make([]string, 0, MaxKeywords)
	for _, word := range words {
		word = strings.TrimFunc(word, func(r rune) bool {
			return !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'))
		})
		if len(word) <= 2 || stopWords[word] || seen[word] {
			continue
		}
		seen[word] = true
		keywords = append(keywords, word)
		if len(keywords) == MaxKeywords {
			break
		}
	}
	return keywords
}

// Breadcrumb builds the "Label > name" trail shown with search hits
func Breadcrumb(label, name string) string {
	switch {
	case label == "":
		return name
	case name == "":
		return label
	default:
		return label + " > " + name
	}
}
