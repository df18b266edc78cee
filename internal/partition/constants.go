package partition

// Partitioning constants
const (
	// Threshold is the largest category that is emitted as a single chunk
	Threshold = 100

	// DevelopmentCategory is split by keyword buckets instead of numerically
	DevelopmentCategory = "development"

	// DevelopmentCatchAll receives development commands matching no bucket
	DevelopmentCatchAll = "development-tools"
)
