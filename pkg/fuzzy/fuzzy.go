// Package fuzzy ranks option labels against a typed query using the fzf v2
// matching algorithm.
package fuzzy

import (
	"sort"
	"strings"
	"sync"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"
)

var initOnce sync.Once

// Match is one item that passed the filter. RefIndex is the position of Item
// in the searched slice.
type Match struct {
	Item      string `json:"item"`
	RefIndex  int    `json:"refIndex"`
	Score     int    `json:"score"`
	Positions []int  `json:"positions,omitempty"`
}

// Options configures a Matcher.
type Options struct {
	// MinScore is the relevance threshold; items must score above it.
	MinScore int
	// Limit caps the number of results. Zero means unlimited.
	Limit int
}

// OptionFn mutates Options.
type OptionFn func(*Options)

// WithMinScore raises the relevance threshold.
func WithMinScore(score int) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.MinScore = score
	}
}

// WithLimit caps the number of results returned for non-empty queries.
func WithLimit(limit int) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Limit = limit
	}
}

// Matcher runs searches and reuses its scratch memory between calls. A
// Matcher is not safe for concurrent use.
type Matcher struct {
	opts Options
	slab *util.Slab
}

// New constructs a Matcher.
func New(fns ...OptionFn) *Matcher {
	initOnce.Do(func() { algo.Init("default") })

	opts := Options{}
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if opts.MinScore < 0 {
		opts.MinScore = 0
	}
	if opts.Limit < 0 {
		opts.Limit = 0
	}
	return &Matcher{
		opts: opts,
		slab: util.MakeSlab(100*1024, 2048),
	}
}

// Search filters items with a fresh Matcher.
func Search(query string, items []string) []Match {
	return New().Search(query, items)
}

// Search returns the items matching query, best match first. An empty query
// returns every item in its original order with a zero score.
func (m *Matcher) Search(query string, items []string) []Match {
	if query == "" {
		out := make([]Match, len(items))
		for i, item := range items {
			out[i] = Match{Item: item, RefIndex: i}
		}
		return out
	}

	pattern := []rune(strings.ToLower(query))
	matches := make([]Match, 0, len(items))
	for i, item := range items {
		score, positions := m.score(item, pattern)
		if score <= m.opts.MinScore {
			continue
		}
		matches = append(matches, Match{
			Item:      item,
			RefIndex:  i,
			Score:     score,
			Positions: positions,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if m.opts.Limit > 0 && len(matches) > m.opts.Limit {
		matches = matches[:m.opts.Limit]
	}
	return matches
}

// Score reports how well query matches text. Zero means no match.
func (m *Matcher) Score(query, text string) int {
	if query == "" {
		return 0
	}
	score, _ := m.score(text, []rune(strings.ToLower(query)))
	return score
}

func (m *Matcher) score(text string, pattern []rune) (int, []int) {
	chars := util.ToChars([]byte(text))
	result, positions := algo.FuzzyMatchV2(false, false, true, &chars, pattern, true, m.slab)
	if result.Start < 0 || result.Score <= 0 {
		return 0, nil
	}
	var out []int
	if positions != nil {
		out = append(out, (*positions)...)
		sort.Ints(out)
	}
	return result.Score, out
}

// Items projects matches back to their labels.
func Items(matches []Match) []string {
	out := make([]string, 0, len(matches))
	for _, match := range matches {
		out = append(out, match.Item)
	}
	return out
}
