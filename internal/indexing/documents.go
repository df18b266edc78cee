package indexing

import (
	"fmt"

	"github.com/tldrx/cmdref/internal/partition"
)

// BuildDocuments projects every record of a partition result into a search
// document, in emission order. Document IDs are command names; a repeated
// name gets a "~<n>" suffix so no record is dropped from the index.
func BuildDocuments(result partition.Result) ([]Document, error) {
	docs := make([]Document, 0, result.Total())
	seen := make(map[string]int)

	for _, chunk := range result.Chunks {
		label := partition.Label(chunk.Name)
		for _, cmd := range chunk.Commands {
			entry, err := cmd.Decode()
			if err != nil {
				return nil, fmt.Errorf("failed to index chunk %s: %w", chunk.Name, err)
			}

			id := cmd.Name
			seen[id]++
			if n := seen[id]; n > 1 {
				id = fmt.Sprintf("%s~%d", cmd.Name, n)
			}

			docs = append(docs, Document{
				ID:          id,
				Name:        entry.Name,
				StandsFor:   entry.StandsFor,
				Description: entry.Description,
				Category:    cmd.Key(),
				Chunk:       chunk.Name,
				Platform:    entry.Platform,
				Safety:      entry.Safety,
				Examples:    entry.Examples,
				Breadcrumb:  Breadcrumb(label, entry.Name),
				Keywords:    ExtractKeywords(entry.Name, entry.StandsFor+" "+entry.Description),
			})
		}
	}
	return docs, nil
}
