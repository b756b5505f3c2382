// Package bulkio implements the BulkWriter: CSVs shaped for the graph
// database's offline bulk importer, plus the printable (never executed)
// shell invocation that loads them. CSV writing uses the standard library's
// encoding/csv — no library in the example corpus offers anything beyond
// what it already covers for this flat, quote-on-demand format.
package bulkio

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/biolinkgraph/umls-graph-syncer/internal/transform"
)

const (
	ConceptsFile  = "concepts.csv"
	CodesFile     = "codes.csv"
	HasCodeFile   = "has_code_edges.csv"
	InterEdgeFile = "inter_concept_edges.csv"
)

// Write emits the four CSVs into dir and returns the bulk-import shell
// invocation as a string for the caller to print. It never runs the
// command: "the user is expected to stop the database and run it manually."
func Write(dir string, result transform.Result) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("bulkio: mkdir %s: %w", dir, err)
	}

	if err := writeConcepts(dir, result.Concepts); err != nil {
		return "", err
	}
	if err := writeCodes(dir, result.Codes); err != nil {
		return "", err
	}
	if err := writeHasCodes(dir, result.HasCodes); err != nil {
		return "", err
	}
	if err := writeEdges(dir, result.Edges); err != nil {
		return "", err
	}

	return importInvocation(dir), nil
}

func writeConcepts(dir string, concepts []transform.Concept) error {
	return writeCSV(filepath.Join(dir, ConceptsFile), []string{"cui:ID(Concept)", "preferred_name", "biolink_categories:LABEL"},
		len(concepts), func(i int) []string {
			c := concepts[i]
			return []string{c.CUI, c.PreferredName, strings.Join(append([]string{"Concept"}, c.BiolinkCategories...), ";")}
		})
}

func writeCodes(dir string, codes []transform.Code) error {
	return writeCSV(filepath.Join(dir, CodesFile), []string{"code_id:ID(Code)", "sab", "code", "name", ":LABEL"},
		len(codes), func(i int) []string {
			c := codes[i]
			return []string{c.CodeID, c.SAB, c.Code, c.Name, "Code"}
		})
}

func writeHasCodes(dir string, hasCodes []transform.HasCode) error {
	return writeCSV(filepath.Join(dir, HasCodeFile), []string{":START_ID(Concept)", ":END_ID(Code)", ":TYPE"},
		len(hasCodes), func(i int) []string {
			h := hasCodes[i]
			return []string{h.CUI, h.CodeID, "HAS_CODE"}
		})
}

func writeEdges(dir string, edges []transform.InterConceptEdge) error {
	return writeCSV(filepath.Join(dir, InterEdgeFile), []string{":START_ID(Concept)", ":END_ID(Concept)", ":TYPE", "source_rela", "asserted_by_sabs", "last_seen_version"},
		len(edges), func(i int) []string {
			e := edges[i]
			return []string{e.SourceCUI, e.TargetCUI, e.Predicate, e.SourceRela, strings.Join(e.AssertedBySABs, ";"), ""}
		})
}

func writeCSV(path string, header []string, n int, row func(int) []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("bulkio: create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("bulkio: write header %s: %w", path, err)
	}
	for i := 0; i < n; i++ {
		if err := w.Write(row(i)); err != nil {
			return fmt.Errorf("bulkio: write row %s: %w", path, err)
		}
	}
	w.Flush()
	return w.Error()
}

// importInvocation builds the printable (not executed) bulk-import shell
// line, grounded in the graph database's convention of distinct node files
// per label plus relationship files.
func importInvocation(dir string) string {
	return fmt.Sprintf(
		"neo4j-admin database import full --overwrite-destination "+
			"--nodes=Concept=%s --nodes=Code=%s "+
			"--relationships=HAS_CODE=%s --relationships=%s "+
			"umls",
		filepath.Join(dir, ConceptsFile),
		filepath.Join(dir, CodesFile),
		filepath.Join(dir, HasCodeFile),
		filepath.Join(dir, InterEdgeFile),
	)
}
