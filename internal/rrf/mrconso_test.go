package rrf

import (
	"context"
	"testing"
)

func mrconsoLine(cui, sab, str, ts, suppress string) string {
	// CUI|LAT|TS|LUI|STT|SUI|ISPREF|AUI|SAUI|SCUI|SDUI|SAB|TTY|CODE|STR|SRL|SUPPRESS|CVF|
	return cui + "|ENG|" + ts + "|L1|PF|S1|Y|A1||||" + sab + "|PT|CODE1|" + str + "|0|" + suppress + "|"
}

func TestParseMRCONSOFiltersBySAB(t *testing.T) {
	content := mrconsoLine("C001", "RXNORM", "Drug A", "P", "N") + "\n" +
		mrconsoLine("C002", "MSH", "Disease B", "P", "N") + "\n"
	path := writeTempFile(t, content)

	rows, stats, err := ParseMRCONSO(context.Background(), path, Config{Workers: 2}, MRCONSOFilter{SABFilter: []string{"RXNORM"}})
	if err != nil {
		t.Fatalf("ParseMRCONSO: %v", err)
	}
	if len(rows) != 1 || rows[0].CUI != "C001" {
		t.Fatalf("want only C001 kept, got %+v", rows)
	}
	if stats.Skipped != 1 {
		t.Fatalf("want 1 skipped, got %d", stats.Skipped)
	}
}

func TestParseMRCONSODropsDefaultSuppressed(t *testing.T) {
	content := mrconsoLine("C001", "RXNORM", "Drug A", "P", "O") + "\n" +
		mrconsoLine("C002", "RXNORM", "Drug B", "P", "N") + "\n"
	path := writeTempFile(t, content)

	rows, _, err := ParseMRCONSO(context.Background(), path, Config{Workers: 2}, MRCONSOFilter{})
	if err != nil {
		t.Fatalf("ParseMRCONSO: %v", err)
	}
	if len(rows) != 1 || rows[0].CUI != "C002" {
		t.Fatalf("want only C002 kept, got %+v", rows)
	}
}

func TestParseMRCONSOKeepsSuppressEWhenNotConfigured(t *testing.T) {
	content := mrconsoLine("C001", "RXNORM", "Drug A", "P", "E") + "\n"
	path := writeTempFile(t, content)

	rows, _, err := ParseMRCONSO(context.Background(), path, Config{Workers: 1}, MRCONSOFilter{Suppression: []string{"O", "Y"}})
	if err != nil {
		t.Fatalf("ParseMRCONSO: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("want SUPPRESS=E row kept under {O,Y} config, got %+v", rows)
	}
}

func TestParseMRCONSOMalformedRowThreshold(t *testing.T) {
	content := "only|two|fields\n"
	path := writeTempFile(t, content)

	_, _, err := ParseMRCONSO(context.Background(), path, Config{Workers: 1, MaxMalformedRows: 0}, MRCONSOFilter{})
	if err != nil {
		t.Fatalf("threshold of 0 disables abort, got error: %v", err)
	}

	_, stats, err := ParseMRCONSO(context.Background(), path, Config{Workers: 1}, MRCONSOFilter{})
	if err != nil {
		t.Fatalf("ParseMRCONSO: %v", err)
	}
	if stats.MalformedRow != 1 {
		t.Fatalf("want 1 malformed row, got %d", stats.MalformedRow)
	}
}
