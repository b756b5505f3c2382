package transform

import (
	"testing"

	"github.com/biolinkgraph/umls-graph-syncer/internal/biolinkmap"
	"github.com/biolinkgraph/umls-graph-syncer/internal/rrf"
)

func loadBiolinkMap(t *testing.T) *biolinkmap.Map {
	t.Helper()
	m, err := biolinkmap.Load(nil)
	if err != nil {
		t.Fatalf("biolinkmap.Load: %v", err)
	}
	return m
}

// TestInitialImport checks that two CUIs with distinct SABs and semantic
// types produce two labeled concepts, each with its preferred name and a
// code derived from its source row.
func TestInitialImport(t *testing.T) {
	mrconso := []rrf.MRCONSORow{
		{CUI: "C001", SAB: "RXNORM", CODE: "1", STR: "Drug A", TS: "P", STT: "PF", ISPREF: "Y"},
		{CUI: "C002", SAB: "MSH", CODE: "2", STR: "Disease B", TS: "P", STT: "PF", ISPREF: "Y"},
	}
	mrsty := []rrf.MRSTYRow{
		{CUI: "C001", TUI: "T121"},
		{CUI: "C002", TUI: "T047"},
	}
	bmap := loadBiolinkMap(t)

	result := Transform(mrconso, nil, mrsty, Config{}, bmap)

	if len(result.Concepts) != 2 {
		t.Fatalf("want 2 concepts, got %d", len(result.Concepts))
	}
	if len(result.Codes) != 2 {
		t.Fatalf("want 2 codes, got %d", len(result.Codes))
	}
	if len(result.HasCodes) != 2 {
		t.Fatalf("want 2 HAS_CODE edges, got %d", len(result.HasCodes))
	}

	byCUI := map[string]Concept{}
	for _, c := range result.Concepts {
		byCUI[c.CUI] = c
	}
	if byCUI["C001"].BiolinkCategories[0] != "biolink:ChemicalEntity" {
		t.Fatalf("want C001 category biolink:ChemicalEntity, got %v", byCUI["C001"].BiolinkCategories)
	}
	if byCUI["C002"].BiolinkCategories[0] != "biolink:Disease" {
		t.Fatalf("want C002 category biolink:Disease, got %v", byCUI["C002"].BiolinkCategories)
	}
}

func TestPreferredNameRulePrefersSABPriority(t *testing.T) {
	mrconso := []rrf.MRCONSORow{
		{CUI: "C001", SAB: "MSH", CODE: "2", STR: "Low Priority Name", TS: "P", STT: "PF", ISPREF: "Y"},
		{CUI: "C001", SAB: "RXNORM", CODE: "1", STR: "High Priority Name", TS: "P", STT: "PF", ISPREF: "Y"},
	}
	bmap := loadBiolinkMap(t)
	cfg := Config{SABPriority: []string{"RXNORM", "MSH"}}

	result := Transform(mrconso, nil, nil, cfg, bmap)
	if len(result.Concepts) != 1 {
		t.Fatalf("want 1 concept, got %d", len(result.Concepts))
	}
	if result.Concepts[0].PreferredName != "High Priority Name" {
		t.Fatalf("want High Priority Name, got %s", result.Concepts[0].PreferredName)
	}
}

func TestPreferredNameRuleIsOrderIndependentAcrossChunking(t *testing.T) {
	// Same rows in two different orders, simulating two different
	// partitions of worker output, must yield the same preferred name.
	rowA := rrf.MRCONSORow{CUI: "C001", SAB: "MSH", CODE: "2", STR: "Name MSH", TS: "S", STT: "PF", ISPREF: "Y"}
	rowB := rrf.MRCONSORow{CUI: "C001", SAB: "RXNORM", CODE: "1", STR: "Name RXNORM", TS: "P", STT: "PF", ISPREF: "Y"}
	cfg := Config{SABPriority: []string{"RXNORM", "MSH"}}
	bmap := loadBiolinkMap(t)

	r1 := Transform([]rrf.MRCONSORow{rowA, rowB}, nil, nil, cfg, bmap)
	r2 := Transform([]rrf.MRCONSORow{rowB, rowA}, nil, nil, cfg, bmap)

	if r1.Concepts[0].PreferredName != r2.Concepts[0].PreferredName {
		t.Fatalf("preferred name differs by input order: %s vs %s", r1.Concepts[0].PreferredName, r2.Concepts[0].PreferredName)
	}
	if r1.Concepts[0].PreferredName != "Name RXNORM" {
		t.Fatalf("want Name RXNORM, got %s", r1.Concepts[0].PreferredName)
	}
}

func TestEmptyMRRELYieldsZeroEdges(t *testing.T) {
	mrconso := []rrf.MRCONSORow{
		{CUI: "C001", SAB: "RXNORM", CODE: "1", STR: "A", TS: "P", STT: "PF", ISPREF: "Y"},
	}
	bmap := loadBiolinkMap(t)
	result := Transform(mrconso, nil, nil, Config{}, bmap)
	if len(result.Edges) != 0 {
		t.Fatalf("want zero edges, got %d", len(result.Edges))
	}
}

func TestEdgeDroppedWhenReferencingFilteredOutCUI(t *testing.T) {
	mrconso := []rrf.MRCONSORow{
		{CUI: "C001", SAB: "RXNORM", CODE: "1", STR: "A", TS: "P", STT: "PF", ISPREF: "Y"},
	}
	mrrel := []rrf.MRRELRow{
		{CUI1: "C001", CUI2: "C999", REL: "RO", SAB: "RXNORM"}, // C999 never appeared in MRCONSO
	}
	bmap := loadBiolinkMap(t)
	result := Transform(mrconso, mrrel, nil, Config{}, bmap)
	if len(result.Edges) != 0 {
		t.Fatalf("want edge referencing unknown CUI dropped, got %d edges", len(result.Edges))
	}
}

func TestEdgeEmptyRelaFallsBackToREL(t *testing.T) {
	mrconso := []rrf.MRCONSORow{
		{CUI: "C001", SAB: "RXNORM", CODE: "1", STR: "A"},
		{CUI: "C002", SAB: "RXNORM", CODE: "2", STR: "B"},
	}
	mrrel := []rrf.MRRELRow{
		{CUI1: "C001", CUI2: "C002", REL: "RO", RELA: "", SAB: "RXNORM"},
	}
	bmap := loadBiolinkMap(t)
	result := Transform(mrconso, mrrel, nil, Config{}, bmap)
	if len(result.Edges) != 1 {
		t.Fatalf("want 1 edge, got %d", len(result.Edges))
	}
	if result.Edges[0].SourceRela != "RO" {
		t.Fatalf("want source_rela=RO (REL fallback), got %s", result.Edges[0].SourceRela)
	}
}

func TestEdgeProvenanceUnionAcrossSABs(t *testing.T) {
	mrconso := []rrf.MRCONSORow{
		{CUI: "C001", SAB: "SAB_A", CODE: "1", STR: "A"},
		{CUI: "C002", SAB: "SAB_A", CODE: "2", STR: "B"},
	}
	mrrel := []rrf.MRRELRow{
		{CUI1: "C001", CUI2: "C002", RELA: "treats", SAB: "SAB_A"},
		{CUI1: "C001", CUI2: "C002", RELA: "treats", SAB: "SAB_B"},
	}
	bmap := loadBiolinkMap(t)
	result := Transform(mrconso, mrrel, nil, Config{}, bmap)
	if len(result.Edges) != 1 {
		t.Fatalf("want rows sharing key aggregated into 1 edge, got %d", len(result.Edges))
	}
	sabs := result.Edges[0].AssertedBySABs
	if len(sabs) != 2 || sabs[0] != "SAB_A" || sabs[1] != "SAB_B" {
		t.Fatalf("want asserted_by_sabs=[SAB_A,SAB_B], got %v", sabs)
	}
	if result.Edges[0].Predicate != "biolink:treats" {
		t.Fatalf("want biolink:treats, got %s", result.Edges[0].Predicate)
	}
}
