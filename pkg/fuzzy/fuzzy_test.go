package fuzzy

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

var seed = []string{"Option 1", "Option 2", "Option 3", "Option 4", "Option 5"}

func TestSearch_EmptyQueryIsIdentity(t *testing.T) {
	matches := Search("", seed)

	if diff := cmp.Diff(seed, Items(matches)); diff != "" {
		t.Fatalf("identity mismatch (-want +got):\n%s", diff)
	}
	for i, match := range matches {
		if match.RefIndex != i || match.Score != 0 {
			t.Fatalf("unexpected identity match at %d: %+v", i, match)
		}
	}
}

func TestSearch_EmptyQueryEmptyList(t *testing.T) {
	if got := Search("", nil); len(got) != 0 {
		t.Fatalf("expected no matches, got %#v", got)
	}
}

func TestSearch_NarrowsToMatchingItems(t *testing.T) {
	matches := Search("2", seed)
	if diff := cmp.Diff([]string{"Option 2"}, Items(matches)); diff != "" {
		t.Fatalf("filter mismatch (-want +got):\n%s", diff)
	}
	if matches[0].RefIndex != 1 {
		t.Fatalf("expected ref index 1, got %d", matches[0].RefIndex)
	}
}

func TestSearch_CaseInsensitive(t *testing.T) {
	matches := Search("OPTION", seed)
	if len(matches) != len(seed) {
		t.Fatalf("expected all %d items, got %d", len(seed), len(matches))
	}
}

func TestSearch_EqualScoresKeepStoreOrder(t *testing.T) {
	matches := Search("opt", seed)
	if diff := cmp.Diff(seed, Items(matches)); diff != "" {
		t.Fatalf("tie order mismatch (-want +got):\n%s", diff)
	}
}

func TestSearch_NoMatch(t *testing.T) {
	matches := Search("xyz", seed)
	if len(matches) != 0 {
		t.Fatalf("expected no matches, got %#v", matches)
	}
}

func TestSearch_OnlyReturnsInputItems(t *testing.T) {
	items := []string{"alpha", "beta", "gamma", "New option"}
	for _, query := range []string{"a", "new", "ga", "zz", "op"} {
		for _, match := range Search(query, items) {
			if items[match.RefIndex] != match.Item {
				t.Fatalf("query %q produced fabricated match %+v", query, match)
			}
			if match.Score <= 0 {
				t.Fatalf("query %q returned zero relevance item %+v", query, match)
			}
		}
	}
}

func TestSearch_RanksBoundaryMatchFirst(t *testing.T) {
	matches := Search("pro", []string{"Apricot", "Sprocket", "Pro"})
	if len(matches) == 0 {
		t.Fatalf("expected matches")
	}
	if matches[0].Item != "Pro" {
		t.Fatalf("expected Pro first, got %v", Items(matches))
	}
	for i := 1; i < len(matches); i++ {
		if matches[i-1].Score < matches[i].Score {
			t.Fatalf("expected descending scores, got %+v", matches)
		}
	}
}

func TestSearch_SubsequenceMatch(t *testing.T) {
	matches := Search("opt5", seed)
	if diff := cmp.Diff([]string{"Option 5"}, Items(matches)); diff != "" {
		t.Fatalf("subsequence mismatch (-want +got):\n%s", diff)
	}
	if len(matches[0].Positions) != 4 {
		t.Fatalf("expected 4 match positions, got %v", matches[0].Positions)
	}
}

func TestMatcher_Limit(t *testing.T) {
	m := New(WithLimit(2))
	matches := m.Search("option", seed)
	if diff := cmp.Diff([]string{"Option 1", "Option 2"}, Items(matches)); diff != "" {
		t.Fatalf("limit mismatch (-want +got):\n%s", diff)
	}
	if got := m.Search("", seed); len(got) != len(seed) {
		t.Fatalf("expected empty query to ignore limit, got %d", len(got))
	}
}

func TestMatcher_MinScore(t *testing.T) {
	m := New(WithMinScore(1 << 20))
	if got := m.Search("option", seed); len(got) != 0 {
		t.Fatalf("expected threshold to drop all matches, got %v", Items(got))
	}
}

func TestMatcher_Score(t *testing.T) {
	m := New()
	if m.Score("", "anything") != 0 {
		t.Fatalf("expected zero score for empty query")
	}
	if m.Score("opt", "Option 1") <= 0 {
		t.Fatalf("expected positive score")
	}
	if m.Score("xyz", "Option 1") != 0 {
		t.Fatalf("expected zero score for no match")
	}
}
