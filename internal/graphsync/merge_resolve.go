package graphsync

import (
	"fmt"
	"sort"
	"strings"
)

// MergePair is one MERGEDCUI.RRF row: old was merged into new.
type MergePair struct {
	Old string
	New string
}

// collapseMerges resolves transitive merge chains (A→B, B→C collapses to
// A→C, B→C) before any write happens. Cycles in the merge graph are a data
// error: it returns a fatal error naming the cycle rather than applying a
// partial merge. Returns one resolved pair per distinct old CUI, sorted by
// Old for deterministic execution order.
func collapseMerges(pairs []MergePair) ([]MergePair, error) {
	nextOf := make(map[string]string, len(pairs))
	for _, p := range pairs {
		nextOf[p.Old] = p.New // last row for a given old wins; data quality issue otherwise
	}

	resolved := make(map[string]string, len(nextOf))
	for old := range nextOf {
		target, err := resolveFinalTarget(old, nextOf, resolved)
		if err != nil {
			return nil, err
		}
		resolved[old] = target
	}

	out := make([]MergePair, 0, len(resolved))
	for old, newCUI := range resolved {
		out = append(out, MergePair{Old: old, New: newCUI})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Old < out[j].Old })
	return out, nil
}

func resolveFinalTarget(start string, nextOf map[string]string, cache map[string]string) (string, error) {
	if t, ok := cache[start]; ok {
		return t, nil
	}

	path := []string{start}
	visited := map[string]bool{start: true}
	cur := start
	for {
		next, isMerged := nextOf[cur]
		if !isMerged {
			break // cur is not itself merged further; it's the terminal target
		}
		if visited[next] {
			path = append(path, next)
			return "", fmt.Errorf("graphsync: cycle detected in MERGEDCUI: %s", strings.Join(path, " -> "))
		}
		if cached, ok := cache[next]; ok {
			cur = cached
			break
		}
		visited[next] = true
		path = append(path, next)
		cur = next
	}
	return cur, nil
}
