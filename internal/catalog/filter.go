package catalog

import "slices"

// Defaults applied by Normalize for display surfaces
const (
	DefaultPlatform        = "linux"
	DefaultDisplayCategory = "general"
)

// Normalize returns copies of the entries with platform and category always set
func Normalize(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	for i, e := range entries {
		if len(e.Platform) == 0 {
			e.Platform = []string{DefaultPlatform}
		}
		if e.Category == "" {
			e.Category = DefaultDisplayCategory
		}
		out[i] = e
	}
	return out
}

// Filter keeps entries available on any of the selected platforms and
// belonging to one of the selected categories. An empty selection matches all.
func Filter(entries []Entry, platforms, categories []string) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if Matches(e, platforms, categories) {
			out = append(out, e)
		}
	}
	return out
}

// Matches reports whether one entry passes the Filter selection
func Matches(e Entry, platforms, categories []string) bool {
	if len(platforms) > 0 && !slices.ContainsFunc(platforms, func(p string) bool {
		return slices.Contains(e.Platform, p)
	}) {
		return false
	}
	return len(categories) == 0 || slices.Contains(categories, e.Category)
}
