// Package transform aggregates parsed MRCONSO/MRREL/MRSTY rows into three
// output streams: concepts, codes (with HAS_CODE edges), and inter-concept
// edges with provenance-unioned asserted_by_sabs.
package transform

// Concept is one row of the Concept output stream.
type Concept struct {
	CUI               string
	PreferredName     string
	BiolinkCategories []string // deduplicated, stable order
}

// Code is one row of the Code output stream.
type Code struct {
	CodeID string // "{SAB}:{code}"
	SAB    string
	Code   string
	Name   string
}

// HasCode links a Code to the Concept it was observed under.
type HasCode struct {
	CUI    string
	CodeID string
}

// InterConceptEdge is one row of the inter-concept edge stream, aggregated
// over every MRREL row sharing the same (CUI1, CUI2, source_rela) key.
type InterConceptEdge struct {
	SourceCUI      string
	TargetCUI      string
	SourceRela     string
	Predicate      string
	AssertedBySABs []string // sorted, deduplicated
}

// Result is the full output of a Transform pass.
type Result struct {
	Concepts []Concept
	Codes    []Code
	HasCodes []HasCode
	Edges    []InterConceptEdge
}
