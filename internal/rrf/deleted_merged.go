package rrf

import "context"

// ParseDeletedCUI parses DELETEDCUI.RRF, the Phase D input.
func ParseDeletedCUI(ctx context.Context, path string, cfg Config) ([]DeletedCUIRow, Stats, error) {
	decode := func(fields []string) (DeletedCUIRow, error) {
		return DeletedCUIRow{
			CUI:  fields[0],
			NAME: safeField(fields, 1),
		}, nil
	}
	return parseFile(ctx, path, cfg, 1, decode)
}

// ParseMergedCUI parses MERGEDCUI.RRF, the Phase M input: CUI1 was merged
// into CUI2 as of release VER.
func ParseMergedCUI(ctx context.Context, path string, cfg Config) ([]MergedCUIRow, Stats, error) {
	decode := func(fields []string) (MergedCUIRow, error) {
		return MergedCUIRow{
			CUI1: fields[0],
			VER:  safeField(fields, 1),
			CUI2: fields[len(fields)-1],
		}, nil
	}
	return parseFile(ctx, path, cfg, 2, decode)
}
