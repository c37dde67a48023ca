package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-comboform/pkg/render"
)

func TestMergeAndSortHiddenFields(t *testing.T) {
	base := map[string]string{
		" q ": "opt",
		"":    "ignored",
	}

	merged := render.MergeHiddenFields(base,
		render.Hidden("field", "option"),
		render.Hidden("index", 3),
		render.Hidden("  ", "skip"),
	)

	wantMerged := map[string]string{
		"q":     "opt",
		"field": "option",
		"index": "3",
	}
	if diff := cmp.Diff(wantMerged, merged); diff != "" {
		t.Fatalf("merged hidden fields mismatch (-want +got):\n%s", diff)
	}

	sorted := render.SortedHiddenFields(merged)
	wantSorted := []render.HiddenField{
		{Name: "field", Value: "option"},
		{Name: "index", Value: "3"},
		{Name: "q", Value: "opt"},
	}
	if diff := cmp.Diff(wantSorted, sorted); diff != "" {
		t.Fatalf("sorted hidden fields mismatch (-want +got):\n%s", diff)
	}
}
