package partition

import (
	"fmt"

	"github.com/tldrx/cmdref/internal/catalog"
)

// GroupByCategory groups records by their category key. Groups appear in the
// order their key is first seen and keep the input order of their records.
func GroupByCategory(cmds []catalog.Command) []Group {
	var groups []Group
	index := make(map[string]int)

	for _, cmd := range cmds {
		key := cmd.Key()
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group{Category: key})
		}
		groups[i].Commands = append(groups[i].Commands, cmd)
	}

	return groups
}

// Partition splits the catalog into named chunks of at most Threshold records,
// except for development keyword buckets which are never split further.
func Partition(cmds []catalog.Command) Result {
	var result Result
	for _, group := range GroupByCategory(cmds) {
		result.Chunks = append(result.Chunks, Subdivide(group)...)
	}
	return result
}

// Subdivide returns the chunks for one category group
func Subdivide(group Group) []Chunk {
	// Small enough, emit as-is
	if len(group.Commands) <= Threshold {
		return []Chunk{{Name: group.Category, Category: group.Category, Commands: group.Commands}}
	}

	if group.Category == DevelopmentCategory {
		return splitByKeyword(group)
	}
	return splitNumeric(group)
}

// splitByKeyword distributes development records into keyword buckets
func splitByKeyword(group Group) []Chunk {
	buckets := make(map[string][]catalog.Command, len(developmentEmitOrder))
	for _, cmd := range group.Commands {
		name := Classify(cmd)
		buckets[name] = append(buckets[name], cmd)
	}

	chunks := make([]Chunk, 0, len(buckets))
	for _, name := range developmentEmitOrder {
		if len(buckets[name]) == 0 {
			continue
		}
		chunks = append(chunks, Chunk{Name: name, Category: group.Category, Commands: buckets[name]})
	}
	return chunks
}

// splitNumeric slices the group into consecutive runs of Threshold records
func splitNumeric(group Group) []Chunk {
	var chunks []Chunk
	for start := 0; start < len(group.Commands); start += Threshold {
		end := min(start+Threshold, len(group.Commands))
		chunks = append(chunks, Chunk{
			Name:     fmt.Sprintf("%s-%d", group.Category, start/Threshold+1),
			Category: group.Category,
			Commands: group.Commands[start:end:end],
		})
	}
	return chunks
}
