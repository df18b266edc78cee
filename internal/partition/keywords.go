package partition

import (
	"strings"

	"github.com/tldrx/cmdref/internal/catalog"
)

// Bucket is a keyword-derived subcategory of the development category
type Bucket struct {
	Name  string
	Terms []string
}

// DevelopmentBuckets lists the keyword buckets in priority order. The first
// bucket with a term contained in a record's name or description wins, so
// "mongo" lands in development-database before "go" can claim it.
var DevelopmentBuckets = []Bucket{
	{Name: "development-web", Terms: []string{"web", "http", "api", "rest", "server", "nginx", "apache"}},
	{Name: "development-database", Terms: []string{"sql", "database", "db", "mongo", "postgres", "mysql", "redis"}},
	{Name: "development-containers", Terms: []string{"docker", "container", "kubernetes", "k8s", "helm"}},
	{Name: "development-git", Terms: []string{"git", "github", "gitlab", "commit", "branch"}},
	{Name: "development-build", Terms: []string{"build", "compile", "maven", "gradle", "make", "cmake", "ant"}},
	{Name: "development-languages", Terms: []string{"python", "node", "npm", "php", "java", "ruby", "go"}},
}

// Classify returns the development bucket for a record
func Classify(cmd catalog.Command) string {
	name := strings.ToLower(cmd.Name)
	description := strings.ToLower(cmd.Description)

	for _, bucket := range DevelopmentBuckets {
		for _, term := range bucket.Terms {
			if strings.Contains(name, term) || strings.Contains(description, term) {
				return bucket.Name
			}
		}
	}
	return DevelopmentCatchAll
}

// developmentEmitOrder is the order keyword buckets are emitted in. It differs
// from the classification priority and matches the layout consumers expect.
var developmentEmitOrder = []string{
	"development-web",
	"development-database",
	"development-containers",
	"development-languages",
	DevelopmentCatchAll,
	"development-git",
	"development-build",
}
