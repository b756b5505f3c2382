package rrf

import "context"

// ParseMRSTY parses MRSTY.RRF (CUI -> semantic type assignments). MRSTY has
// 6 pipe-delimited fields. It is small relative to MRCONSO/MRREL and is
// parsed with the same range-pool machinery, split into as many ranges as
// cfg's worker count.
func ParseMRSTY(ctx context.Context, path string, cfg Config) ([]MRSTYRow, Stats, error) {
	decode := func(fields []string) (MRSTYRow, error) {
		return MRSTYRow{
			CUI:  fields[0],
			TUI:  fields[1],
			STN:  fields[2],
			STY:  fields[3],
			ATUI: safeField(fields, 4),
			CVF:  safeField(fields, 5),
		}, nil
	}
	return parseFile(ctx, path, cfg, 4, decode)
}
