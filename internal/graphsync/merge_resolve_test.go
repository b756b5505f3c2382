package graphsync

import (
	"sort"
	"testing"
)

func TestCollapseMergesSimplePair(t *testing.T) {
	resolved, err := collapseMerges([]MergePair{{Old: "C1", New: "C2"}})
	if err != nil {
		t.Fatalf("collapseMerges: %v", err)
	}
	if len(resolved) != 1 || resolved[0] != (MergePair{Old: "C1", New: "C2"}) {
		t.Fatalf("want [{C1 C2}], got %+v", resolved)
	}
}

// TestCollapseMergesChain checks that A->B, B->C collapses to A->C, B->C.
func TestCollapseMergesChain(t *testing.T) {
	resolved, err := collapseMerges([]MergePair{{Old: "A", New: "B"}, {Old: "B", New: "C"}})
	if err != nil {
		t.Fatalf("collapseMerges: %v", err)
	}
	sort.Slice(resolved, func(i, j int) bool { return resolved[i].Old < resolved[j].Old })
	want := []MergePair{{Old: "A", New: "C"}, {Old: "B", New: "C"}}
	if len(resolved) != 2 || resolved[0] != want[0] || resolved[1] != want[1] {
		t.Fatalf("want %+v, got %+v", want, resolved)
	}
}

func TestCollapseMergesLongerChain(t *testing.T) {
	resolved, err := collapseMerges([]MergePair{
		{Old: "A", New: "B"},
		{Old: "B", New: "C"},
		{Old: "C", New: "D"},
	})
	if err != nil {
		t.Fatalf("collapseMerges: %v", err)
	}
	for _, p := range resolved {
		if p.New != "D" {
			t.Fatalf("want every old CUI to resolve to D, got %+v", p)
		}
	}
}

func TestCollapseMergesCycleIsFatal(t *testing.T) {
	_, err := collapseMerges([]MergePair{{Old: "A", New: "B"}, {Old: "B", New: "A"}})
	if err == nil {
		t.Fatalf("want error for cycle A->B->A")
	}
}

func TestCollapseMergesDisjointPairsIndependent(t *testing.T) {
	resolved, err := collapseMerges([]MergePair{{Old: "A", New: "B"}, {Old: "X", New: "Y"}})
	if err != nil {
		t.Fatalf("collapseMerges: %v", err)
	}
	if len(resolved) != 2 {
		t.Fatalf("want 2 resolved pairs, got %d", len(resolved))
	}
}
