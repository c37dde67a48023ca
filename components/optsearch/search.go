package optsearch

import (
	"github.com/goliatone/go-comboform/pkg/fuzzy"
)

// Option is one search result.
type Option struct {
	Value     string `json:"value"`
	Label     string `json:"label"`
	Score     int    `json:"score"`
	Positions []int  `json:"positions,omitempty"`
}

// Search ranks items against query exactly as typed, so results agree with
// the combobox binding. An empty query follows EmptySearchMode.
func Search(items []string, query string, limit int, opts Options) []fuzzy.Match {
	limit = clampLimit(limit, opts)
	if limit == 0 {
		return nil
	}

	if query == "" && opts.EmptySearchMode == EmptySearchNone {
		return nil
	}

	matcher := fuzzy.New(fuzzy.WithMinScore(opts.MinScore), fuzzy.WithLimit(limit))
	matches := matcher.Search(query, items)
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

func SearchOptions(items []string, query string, limit int, opts Options) []Option {
	results := Search(items, query, limit, opts)
	if len(results) == 0 {
		return nil
	}

	out := make([]Option, 0, len(results))
	for _, match := range results {
		out = append(out, Option{
			Value:     match.Item,
			Label:     match.Item,
			Score:     match.Score,
			Positions: match.Positions,
		})
	}
	return out
}
