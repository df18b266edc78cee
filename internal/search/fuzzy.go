package search

import (
	"sort"
	"strings"

	"github.com/tldrx/cmdref/internal/catalog"
)

// Score tiers used by ScoreCommand
const (
	ExactNameScore  = 100000
	NamePrefixScore = 50000
	shortNameBoost  = 2000
	nameBoost       = 1000
)

// FuzzyScore matches term against target case-insensitively. A substring
// match scores 100 minus the length difference; otherwise every term
// character must appear in order, scored by runs of consecutive matches
// scaled by the length ratio. Zero means no match.
func FuzzyScore(term, target string) int {
	search := []rune(strings.ToLower(term))
	text := []rune(strings.ToLower(target))

	if strings.Contains(string(text), string(search)) {
		return 100 - (len(text) - len(search))
	}

	matched, score, consecutive := 0, 0, 0
	for i := 0; i < len(text) && matched < len(search); i++ {
		if text[i] == search[matched] {
			matched++
			consecutive++
			score += consecutive * 2
		} else {
			consecutive = 0
		}
	}

	if matched == len(search) {
		ratio := float64(len(search)) / float64(len(text))
		return int(float64(score) * ratio * 10)
	}
	return 0
}

// ScoreCommand ranks a record for a query. Exact names beat name prefixes,
// which beat fuzzy name matches, which beat description matches. Queries of
// one or two characters only accept name substrings or strong description
// matches.
func ScoreCommand(term string, cmd catalog.Command) int {
	lowerTerm := strings.ToLower(term)
	lowerName := strings.ToLower(cmd.Name)
	termLen := len([]rune(term))

	if lowerName == lowerTerm {
		return ExactNameScore
	}
	if strings.HasPrefix(lowerName, lowerTerm) {
		return NamePrefixScore + (100 - termLen)
	}

	nameScore := FuzzyScore(term, cmd.Name)
	descriptionScore := FuzzyScore(term, cmd.Description)

	if termLen <= 2 {
		if strings.Contains(lowerName, lowerTerm) {
			return nameScore + shortNameBoost
		}
		if descriptionScore > 50 {
			return descriptionScore
		}
		return 0
	}

	if nameScore > 0 {
		return nameScore + nameBoost
	}
	if descriptionScore > 30 {
		return descriptionScore
	}
	return 0
}

// Ranked is a record with its query score
type Ranked struct {
	Command catalog.Command
	Score   int
}

// Rank scores every record and returns the matches best first. Equal scores
// keep input order. A limit of zero or less returns every match.
func Rank(cmds []catalog.Command, term string, limit int) []Ranked {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil
	}

	var ranked []Ranked
	for _, cmd := range cmds {
		if score := ScoreCommand(term, cmd); score > 0 {
			ranked = append(ranked, Ranked{Command: cmd, Score: score})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
