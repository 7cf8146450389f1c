// Package suggest ranks journal names against partial user input.
package suggest

import (
	"errors"
	"fmt"
	"iter"
	"math"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/gotopub/gotopub/internal/journal"
)

// DefaultLimit is the number of suggestions returned per query.
const DefaultLimit = 5

// Sources a query can be compared against.
const (
	SourceName = "name"
	SourceAbbr = "abbr"
)

// ErrInvalidSource is returned for an unknown comparison source.
var ErrInvalidSource = errors.New("invalid suggestion source")

// Suggestion is one entry of the autocomplete list.
type Suggestion struct {
	Label string  `json:"label"`
	Value string  `json:"value"`
	Score float64 `json:"score"`
}

// Score returns the normalized edit distance between a candidate and the input:
// distance(lower(candidate), lower(input)) / len(candidate). Lower is closer.
func Score(candidate, input string) float64 {
	n := utf8.RuneCountInString(candidate)
	if n == 0 {
		if input == "" {
			return 0
		}
		return math.Inf(1)
	}
	d := levenshtein.ComputeDistance(strings.ToLower(candidate), strings.ToLower(input))
	return float64(d) / float64(n)
}

// Rank yields the DefaultLimit candidates closest to input, closest first.
// Ties keep the candidates' order. Every iteration recomputes the ranking.
func Rank(input string, candidates []string) iter.Seq[Suggestion] {
	return RankN(input, candidates, DefaultLimit)
}

// RankN is Rank with an explicit limit.
func RankN(input string, candidates []string, limit int) iter.Seq[Suggestion] {
	return rank(input, candidates, candidates, limit)
}

// rank scores keys[i] against input and yields labels[i].
func rank(input string, labels, keys []string, limit int) iter.Seq[Suggestion] {
	return func(yield func(Suggestion) bool) {
		scored := make([]Suggestion, len(labels))
		for i := range labels {
			s := Suggestion{Label: labels[i], Value: labels[i]}
			if input != "" {
				s.Score = Score(keys[i], input)
			}
			scored[i] = s
		}

		if input != "" {
			slices.SortStableFunc(scored, func(a, b Suggestion) int {
				switch {
				case a.Score < b.Score:
					return -1
				case a.Score > b.Score:
					return 1
				}
				return 0
			})
		}

		for i, s := range scored {
			if i >= limit {
				return
			}
			if !yield(s) {
				return
			}
		}
	}
}

// Matcher suggests journals of a directory.
type Matcher struct {
	names []string
	abbrs []string
	limit int
}

// NewMatcher creates a matcher over the journals of d.
func NewMatcher(d *journal.Directory) *Matcher {
	entries := d.Entries()
	m := &Matcher{
		names: make([]string, len(entries)),
		abbrs: make([]string, len(entries)),
		limit: DefaultLimit,
	}
	for i, e := range entries {
		m.names[i] = e.Name
		m.abbrs[i] = e.Canonical()
	}
	return m
}

// Suggest returns the closest journal names to q.
// With SourceAbbr, q is compared with the canonical abbreviations
// (display name when there is none); the value is always the display name.
func (m *Matcher) Suggest(q, source string) ([]Suggestion, error) {
	var keys []string
	switch source {
	case "", SourceName:
		keys = m.names
	case SourceAbbr:
		keys = m.abbrs
	default:
		return nil, fmt.Errorf("%w: %q (valid: %s, %s)", ErrInvalidSource, source, SourceName, SourceAbbr)
	}

	return slices.Collect(rank(q, m.names, keys, m.limit)), nil
}
