package rrf

import (
	"context"
	"testing"
)

func mrrelLine(cui1, rel, cui2, rela, sab string) string {
	// CUI1|AUI1|STYPE1|REL|CUI2|AUI2|STYPE2|RELA|RUI|SRUI|SAB|SL|RG|DIR|SUPPRESS|CVF|
	return cui1 + "|A1|CUI|" + rel + "|" + cui2 + "|A2|CUI|" + rela + "|R1||" + sab + "|" + sab + "|||N|"
}

func TestParseMRRELDropsSelfLoops(t *testing.T) {
	content := mrrelLine("C001", "RO", "C001", "related_to", "SAB_A") + "\n" +
		mrrelLine("C001", "RO", "C002", "treats", "SAB_A") + "\n"
	path := writeTempFile(t, content)

	rows, stats, err := ParseMRREL(context.Background(), path, Config{Workers: 2}, MRRELFilter{})
	if err != nil {
		t.Fatalf("ParseMRREL: %v", err)
	}
	if len(rows) != 1 || rows[0].CUI2 != "C002" {
		t.Fatalf("want only the non-self-loop row kept, got %+v", rows)
	}
	if stats.Skipped != 1 {
		t.Fatalf("want 1 skipped, got %d", stats.Skipped)
	}
}

func TestParseMRRELFiltersBySAB(t *testing.T) {
	content := mrrelLine("C001", "RO", "C002", "treats", "SAB_A") + "\n" +
		mrrelLine("C003", "RO", "C004", "treats", "SAB_B") + "\n"
	path := writeTempFile(t, content)

	rows, _, err := ParseMRREL(context.Background(), path, Config{Workers: 2}, MRRELFilter{SABFilter: []string{"SAB_A"}})
	if err != nil {
		t.Fatalf("ParseMRREL: %v", err)
	}
	if len(rows) != 1 || rows[0].SAB != "SAB_A" {
		t.Fatalf("want only SAB_A row kept, got %+v", rows)
	}
}

func TestParseMRRELEmptyFileYieldsNoRows(t *testing.T) {
	path := writeTempFile(t, "")
	rows, stats, err := ParseMRREL(context.Background(), path, Config{Workers: 4}, MRRELFilter{})
	if err != nil {
		t.Fatalf("ParseMRREL: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("want zero rows, got %d", len(rows))
	}
	if stats.Parsed != 0 {
		t.Fatalf("want zero parsed, got %d", stats.Parsed)
	}
}
