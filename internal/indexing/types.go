package indexing

// Document is the searchable projection of one command record
type Document struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	StandsFor   string   `json:"stands_for,omitempty"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category"`             // Grouping key, "uncategorized" when absent
	Chunk       string   `json:"chunk"`                // Chunk the record was emitted in
	Platform    []string `json:"platform,omitempty"`
	Safety      string   `json:"safety,omitempty"`
	Examples    []string `json:"examples,omitempty"`
	Breadcrumb  string   `json:"breadcrumb,omitempty"` // "Chunk label > name"
	Keywords    []string `json:"keywords,omitempty"`   // Key terms extracted from name and description
}
