package indexing

const (
	// MaxKeywords caps the keywords extracted per command
	MaxKeywords = 10

	// BatchSize is the number of documents submitted per index batch
	BatchSize = 100

	// IndexSchemaVersion increments when the document layout or field mapping changes
	// v1: one document per command with chunk and keyword metadata
	IndexSchemaVersion = 1
)
