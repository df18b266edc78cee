package search

import (
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

const (
	// DefaultLimit is used when a query does not ask for a result count
	DefaultLimit = 10
	// MaxLimit caps the number of hits a single query may return
	MaxLimit = 50
)

// Query selects commands by free text and optional exact filters
type Query struct {
	Text     string
	Category string // Matches either the record category or the chunk name
	Platform string
	Limit    int
}

// Hit is one ranked search result
type Hit struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category"`
	Chunk       string   `json:"chunk"`
	Breadcrumb  string   `json:"breadcrumb,omitempty"`
	Platform    []string `json:"platform,omitempty"`
	Score       float64  `json:"score"`
}

func (q Query) limit() int {
	if q.Limit <= 0 || q.Limit > MaxLimit {
		return DefaultLimit
	}
	return q.Limit
}

// request translates a Query into a bleve search request. Name matches are
// boosted over matches in the descriptive fields.
func (q Query) request() *bleve.SearchRequest {
	var clauses []query.Query

	text := strings.TrimSpace(q.Text)
	if text == "" {
		clauses = append(clauses, bleve.NewMatchAllQuery())
	} else {
		name := bleve.NewMatchQuery(text)
		name.SetField("name")
		name.SetBoost(5)

		prefix := bleve.NewPrefixQuery(strings.ToLower(text))
		prefix.SetField("name")
		prefix.SetBoost(3)

		textClauses := []query.Query{name, prefix}
		for _, field := range []string{"stands_for", "description", "keywords", "examples"} {
			match := bleve.NewMatchQuery(text)
			match.SetField(field)
			textClauses = append(textClauses, match)
		}
		clauses = append(clauses, bleve.NewDisjunctionQuery(textClauses...))
	}

	if q.Category != "" {
		category := bleve.NewTermQuery(q.Category)
		category.SetField("category")
		chunk := bleve.NewTermQuery(q.Category)
		chunk.SetField("chunk")
		clauses = append(clauses, bleve.NewDisjunctionQuery(category, chunk))
	}
	if q.Platform != "" {
		platform := bleve.NewTermQuery(q.Platform)
		platform.SetField("platform")
		clauses = append(clauses, platform)
	}

	var root query.Query = clauses[0]
	if len(clauses) > 1 {
		root = bleve.NewConjunctionQuery(clauses...)
	}

	req := bleve.NewSearchRequest(root)
	req.Size = q.limit()
	req.Fields = []string{"*"}
	req.SortBy([]string{"-_score", "_id"})
	return req
}

// Run executes the query against an index
func Run(index Index, q Query) ([]Hit, uint64, error) {
	res, err := index.Search(q.request())
	if err != nil {
		return nil, 0, fmt.Errorf("search failed: %w", err)
	}

	hits := make([]Hit, 0, len(res.Hits))
	for _, match := range res.Hits {
		hit := Hit{ID: match.ID, Score: match.Score}
		if name, ok := match.Fields["name"].(string); ok {
			hit.Name = name
		}
		if description, ok := match.Fields["description"].(string); ok {
			hit.Description = description
		}
		if category, ok := match.Fields["category"].(string); ok {
			hit.Category = category
		}
		if chunk, ok := match.Fields["chunk"].(string); ok {
			hit.Chunk = chunk
		}
		if breadcrumb, ok := match.Fields["breadcrumb"].(string); ok {
			hit.Breadcrumb = breadcrumb
		}
		hit.Platform = stringsField(match.Fields["platform"])
		hits = append(hits, hit)
	}
	return hits, res.Total, nil
}

// stringsField reads a stored field that holds one value or a list
func stringsField(v interface{}) []string {
	switch value := v.(type) {
	case string:
		return []string{value}
	case []interface{}:
		out := make([]string, 0, len(value))
		for _, item := range value {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
