package partition

import "github.com/tldrx/cmdref/internal/catalog"

// Group is the ordered list of records sharing one category key
type Group struct {
	Category string
	Commands []catalog.Command
}

// Chunk is the unit of output: a named, bounded subset of the catalog
type Chunk struct {
	Name     string            `json:"name"`     // Output identifier, e.g. "networking-2"
	Category string            `json:"category"` // Category the records were grouped under
	Commands []catalog.Command `json:"commands"`
}

// Result is the ordered outcome of Partition
type Result struct {
	Chunks []Chunk
}

// Names returns the chunk names in emission order
func (r Result) Names() []string {
	names := make([]string, len(r.Chunks))
	for i, chunk := range r.Chunks {
		names[i] = chunk.Name
	}
	return names
}

// Lookup returns the chunk with the given name
func (r Result) Lookup(name string) (Chunk, bool) {
	for _, chunk := range r.Chunks {
		if chunk.Name == name {
			return chunk, true
		}
	}
	return Chunk{}, false
}

// Total returns the number of records across all chunks
func (r Result) Total() int {
	total := 0
	for _, chunk := range r.Chunks {
		total += len(chunk.Commands)
	}
	return total
}

// Concat returns every record, chunk by chunk, in emission order
func (r Result) Concat() []catalog.Command {
	out := make([]catalog.Command, 0, r.Total())
	for _, chunk := range r.Chunks {
		out = append(out, chunk.Commands...)
	}
	return out
}
