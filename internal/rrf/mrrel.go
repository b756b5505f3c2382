package rrf

import "context"

// MRRELFilter configures MRREL.RRF row filtering.
type MRRELFilter struct {
	// SABFilter restricts rows to these source vocabularies. Empty means "all".
	SABFilter []string
}

// ParseMRREL parses MRREL.RRF, dropping rows outside the SAB allowlist and
// self-loops (CUI1 == CUI2, "not represented in the graph"). Rows
// referencing a CUI absent from the MRCONSO-derived concept set are left
// for the Transformer to drop, since the parser has no concept set to
// check against. MRREL has 16 pipe-delimited fields.
func ParseMRREL(ctx context.Context, path string, cfg Config, filter MRRELFilter) ([]MRRELRow, Stats, error) {
	sabAllow := allowSet(filter.SABFilter)

	decode := func(fields []string) (MRRELRow, error) {
		row := MRRELRow{
			CUI1:     fields[0],
			AUI1:     fields[1],
			STYPE1:   fields[2],
			REL:      fields[3],
			CUI2:     fields[4],
			AUI2:     fields[5],
			STYPE2:   fields[6],
			RELA:     fields[7],
			RUI:      fields[8],
			SRUI:     fields[9],
			SAB:      fields[10],
			SL:       fields[11],
			RG:       safeField(fields, 12),
			DIR:      safeField(fields, 13),
			SUPPRESS: safeField(fields, 14),
			CVF:      safeField(fields, 15),
		}
		return row, nil
	}

	rows, stats, err := parseFile(ctx, path, cfg, 12, decode)
	if err != nil {
		return nil, stats, err
	}

	kept := rows[:0]
	for _, r := range rows {
		if len(sabAllow) > 0 && !sabAllow[r.SAB] {
			stats.Skipped++
			continue
		}
		if r.CUI1 == r.CUI2 {
			stats.Skipped++
			continue
		}
		kept = append(kept, r)
	}
	return kept, stats, nil
}
