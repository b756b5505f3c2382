// Package rrf parses UMLS Rich Release Format files: pipe-delimited,
// unquoted, UTF-8, one logical record per line with a trailing pipe.
// MRCONSO and MRREL are large enough to warrant byte-range parallel
// parsing (see split.go/parser.go); MRSTY and the DELETEDCUI/MERGEDCUI
// change files go through the same byte-range parser.
package rrf

// MRCONSORow is one row of MRCONSO.RRF: the atom/term table, one row per
// (CUI, source, term-string) combination.
type MRCONSORow struct {
	CUI      string
	LAT      string
	TS       string
	LUI      string
	STT      string
	SUI      string
	ISPREF   string
	AUI      string
	SAUI     string
	SCUI     string
	SDUI     string
	SAB      string
	TTY      string
	CODE     string
	STR      string
	SRL      string
	SUPPRESS string
	CVF      string
}

// MRRELRow is one row of MRREL.RRF: a directed relationship between two
// concepts (or atoms), asserted by one source vocabulary.
type MRRELRow struct {
	CUI1     string
	AUI1     string
	STYPE1   string
	REL      string
	CUI2     string
	AUI2     string
	STYPE2   string
	RELA     string
	RUI      string
	SRUI     string
	SAB      string
	SL       string
	RG       string
	DIR      string
	SUPPRESS string
	CVF      string
}

// MRSTYRow is one row of MRSTY.RRF: a (CUI, semantic type) assignment.
type MRSTYRow struct {
	CUI  string
	TUI  string
	STN  string
	STY  string
	ATUI string
	CVF  string
}

// DeletedCUIRow is one row of DELETEDCUI.RRF: a CUI retired in this release.
type DeletedCUIRow struct {
	CUI  string
	NAME string
}

// MergedCUIRow is one row of MERGEDCUI.RRF: CUI1 was merged into CUI2 as of
// release VER.
type MergedCUIRow struct {
	CUI1 string
	VER  string
	CUI2 string
}

// Stats tallies rows parsed/skipped across a file, returned alongside the
// decoded rows so the caller can build the sync report (§7: "rows parsed,
// rows skipped").
type Stats struct {
	Parsed       int
	Skipped      int
	MalformedRow int
}

func (s *Stats) merge(o Stats) {
	s.Parsed += o.Parsed
	s.Skipped += o.Skipped
	s.MalformedRow += o.MalformedRow
}
