package transform

import (
	"sort"

	"github.com/biolinkgraph/umls-graph-syncer/internal/biolinkmap"
	"github.com/biolinkgraph/umls-graph-syncer/internal/rrf"
)

// Config carries the knobs the Preferred-Name Rule needs.
type Config struct {
	// SABPriority drives preferred-name selection; a SAB absent from this
	// list sorts after every listed SAB.
	SABPriority []string
}

func (c Config) priorityIndex(sab string) int {
	for i, s := range c.SABPriority {
		if s == sab {
			return i
		}
	}
	return len(c.SABPriority) // missing SABs sort after all listed ones
}

// Transform aggregates parsed rows into the Concept/Code/HasCode/Edge
// streams. mrconso and mrrel are assumed already filtered (SAB allowlist,
// suppression, self-loops) by the rrf package.
func Transform(mrconso []rrf.MRCONSORow, mrrel []rrf.MRRELRow, mrsty []rrf.MRSTYRow, cfg Config, bmap *biolinkmap.Map) Result {
	conceptOrder, candidatesByCUI := groupMRCONSOByCUI(mrconso)
	preferredNames := choosePreferredNames(conceptOrder, candidatesByCUI, cfg)
	categories := groupCategoriesByCUI(mrsty, bmap)

	concepts := make([]Concept, 0, len(conceptOrder))
	conceptSet := make(map[string]bool, len(conceptOrder))
	for _, cui := range conceptOrder {
		concepts = append(concepts, Concept{
			CUI:               cui,
			PreferredName:     preferredNames[cui],
			BiolinkCategories: categories[cui],
		})
		conceptSet[cui] = true
	}

	codes, hasCodes := buildCodes(mrconso)
	edges := buildEdges(mrrel, conceptSet, bmap)

	return Result{Concepts: concepts, Codes: codes, HasCodes: hasCodes, Edges: edges}
}

func groupMRCONSOByCUI(rows []rrf.MRCONSORow) ([]string, map[string][]rrf.MRCONSORow) {
	order := make([]string, 0)
	byCUI := make(map[string][]rrf.MRCONSORow)
	for _, r := range rows {
		if _, seen := byCUI[r.CUI]; !seen {
			order = append(order, r.CUI)
		}
		byCUI[r.CUI] = append(byCUI[r.CUI], r)
	}
	return order, byCUI
}

// choosePreferredNames applies the Preferred-Name Rule: for each CUI, sort
// its candidate rows by the lexicographic key (SAB_PRIORITY index, TS!=P,
// STT!=PF, ISPREF!=Y), stable on ties, and take the first row's STR.
func choosePreferredNames(order []string, byCUI map[string][]rrf.MRCONSORow, cfg Config) map[string]string {
	names := make(map[string]string, len(order))
	for _, cui := range order {
		rows := byCUI[cui]
		best := 0
		for i := 1; i < len(rows); i++ {
			if preferredNameLess(rows[i], rows[best], cfg) {
				best = i
			}
		}
		names[cui] = rows[best].STR
	}
	return names
}

// preferredNameLess reports whether a ranks strictly before b under the
// Preferred-Name Rule's key. Ties at every key level leave ordering
// unchanged (caller keeps the earlier-indexed row, i.e. stable input order).
func preferredNameLess(a, b rrf.MRCONSORow, cfg Config) bool {
	ai, bi := cfg.priorityIndex(a.SAB), cfg.priorityIndex(b.SAB)
	if ai != bi {
		return ai < bi
	}
	aKey, bKey := boolKey(a.TS != "P"), boolKey(b.TS != "P")
	if aKey != bKey {
		return aKey < bKey
	}
	aKey, bKey = boolKey(a.STT != "PF"), boolKey(b.STT != "PF")
	if aKey != bKey {
		return aKey < bKey
	}
	aKey, bKey = boolKey(a.ISPREF != "Y"), boolKey(b.ISPREF != "Y")
	if aKey != bKey {
		return aKey < bKey
	}
	return false
}

func boolKey(v bool) int {
	if v {
		return 1
	}
	return 0
}

func groupCategoriesByCUI(rows []rrf.MRSTYRow, bmap *biolinkmap.Map) map[string][]string {
	order := make(map[string][]string)
	seen := make(map[string]map[string]bool)
	for _, r := range rows {
		cat := categoryFor(bmap, r.TUI)
		if seen[r.CUI] == nil {
			seen[r.CUI] = make(map[string]bool)
		}
		if seen[r.CUI][cat] {
			continue
		}
		seen[r.CUI][cat] = true
		order[r.CUI] = append(order[r.CUI], cat)
	}
	return order
}

func categoryFor(bmap *biolinkmap.Map, tui string) string {
	if bmap == nil {
		return "biolink:NamedThing"
	}
	return bmap.CategoryFor(tui)
}

func buildCodes(rows []rrf.MRCONSORow) ([]Code, []HasCode) {
	order := make([]string, 0)
	byID := make(map[string]Code)
	hasCodeSeen := make(map[string]bool)
	var hasCodes []HasCode

	for _, r := range rows {
		codeID := r.SAB + ":" + r.CODE
		if _, seen := byID[codeID]; !seen {
			order = append(order, codeID)
			byID[codeID] = Code{CodeID: codeID, SAB: r.SAB, Code: r.CODE, Name: r.STR}
		}
		pairKey := r.CUI + "|" + codeID
		if !hasCodeSeen[pairKey] {
			hasCodeSeen[pairKey] = true
			hasCodes = append(hasCodes, HasCode{CUI: r.CUI, CodeID: codeID})
		}
	}

	codes := make([]Code, 0, len(order))
	for _, id := range order {
		codes = append(codes, byID[id])
	}
	return codes, hasCodes
}

func buildEdges(rows []rrf.MRRELRow, conceptSet map[string]bool, bmap *biolinkmap.Map) []InterConceptEdge {
	type key struct{ cui1, cui2, rela string }
	order := make([]key, 0)
	sabsByKey := make(map[key]map[string]bool)

	for _, r := range rows {
		if !conceptSet[r.CUI1] || !conceptSet[r.CUI2] {
			continue // references a CUI filtered out upstream of MRCONSO
		}
		rela := r.RELA
		if rela == "" {
			rela = r.REL
		}
		k := key{cui1: r.CUI1, cui2: r.CUI2, rela: rela}
		if sabsByKey[k] == nil {
			sabsByKey[k] = make(map[string]bool)
			order = append(order, k)
		}
		sabsByKey[k][r.SAB] = true
	}

	edges := make([]InterConceptEdge, 0, len(order))
	for _, k := range order {
		sabSet := sabsByKey[k]
		sabs := make([]string, 0, len(sabSet))
		for s := range sabSet {
			sabs = append(sabs, s)
		}
		sort.Strings(sabs)
		edges = append(edges, InterConceptEdge{
			SourceCUI:      k.cui1,
			TargetCUI:      k.cui2,
			SourceRela:     k.rela,
			Predicate:      predicateFor(bmap, k.rela),
			AssertedBySABs: sabs,
		})
	}
	return edges
}

func predicateFor(bmap *biolinkmap.Map, rela string) string {
	if bmap == nil {
		return "biolink:related_to"
	}
	return bmap.PredicateFor(rela)
}
