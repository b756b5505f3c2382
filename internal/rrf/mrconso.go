package rrf

import "context"

// MRCONSOFilter configures MRCONSO.RRF row filtering.
type MRCONSOFilter struct {
	// SABFilter restricts rows to these source vocabularies. Empty means
	// "all" (SAB_FILTER's documented default).
	SABFilter []string
	// Suppression is the set of SUPPRESS values to drop. Defaults to {O, Y}
	// when nil; pass an explicit slice (possibly including "E") to change
	// that, per SUPPRESSION_HANDLING.
	Suppression []string
}

func (f MRCONSOFilter) suppressionSet() map[string]bool {
	vals := f.Suppression
	if vals == nil {
		vals = []string{"O", "Y"}
	}
	set := make(map[string]bool, len(vals))
	for _, v := range vals {
		set[v] = true
	}
	return set
}

// ParseMRCONSO parses MRCONSO.RRF, dropping rows whose SAB is outside the
// allowlist (if non-empty) and rows whose SUPPRESS is in the configured
// suppression set. MRCONSO has 18 pipe-delimited fields.
func ParseMRCONSO(ctx context.Context, path string, cfg Config, filter MRCONSOFilter) ([]MRCONSORow, Stats, error) {
	sabAllow := allowSet(filter.SABFilter)
	suppress := filter.suppressionSet()

	decode := func(fields []string) (MRCONSORow, error) {
		row := MRCONSORow{
			CUI:      fields[0],
			LAT:      fields[1],
			TS:       fields[2],
			LUI:      fields[3],
			STT:      fields[4],
			SUI:      fields[5],
			ISPREF:   fields[6],
			AUI:      fields[7],
			SAUI:     fields[8],
			SCUI:     fields[9],
			SDUI:     fields[10],
			SAB:      fields[11],
			TTY:      fields[12],
			CODE:     fields[13],
			STR:      fields[14],
			SRL:      fields[15],
			SUPPRESS: fields[16],
			CVF:      safeField(fields, 17),
		}
		return row, nil
	}

	rows, stats, err := parseFile(ctx, path, cfg, 17, decode)
	if err != nil {
		return nil, stats, err
	}

	kept := rows[:0]
	for _, r := range rows {
		if len(sabAllow) > 0 && !sabAllow[r.SAB] {
			stats.Skipped++
			continue
		}
		if suppress[r.SUPPRESS] {
			stats.Skipped++
			continue
		}
		kept = append(kept, r)
	}
	return kept, stats, nil
}

func allowSet(vals []string) map[string]bool {
	if len(vals) == 0 {
		return nil
	}
	set := make(map[string]bool, len(vals))
	for _, v := range vals {
		set[v] = true
	}
	return set
}

func safeField(fields []string, i int) string {
	if i < len(fields) {
		return fields[i]
	}
	return ""
}
