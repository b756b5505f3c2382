package bulkio

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/biolinkgraph/umls-graph-syncer/internal/transform"
)

func TestWriteProducesFourCSVsAndInvocation(t *testing.T) {
	dir := t.TempDir()
	result := transform.Result{
		Concepts: []transform.Concept{{CUI: "C001", PreferredName: "Drug A", BiolinkCategories: []string{"biolink:ChemicalEntity"}}},
		Codes:    []transform.Code{{CodeID: "RXNORM:1", SAB: "RXNORM", Code: "1", Name: "Drug A"}},
		HasCodes: []transform.HasCode{{CUI: "C001", CodeID: "RXNORM:1"}},
		Edges:    []transform.InterConceptEdge{{SourceCUI: "C001", TargetCUI: "C002", SourceRela: "treats", Predicate: "biolink:treats", AssertedBySABs: []string{"RXNORM"}}},
	}

	invocation, err := Write(dir, result)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if invocation == "" {
		t.Fatalf("want non-empty invocation string")
	}
	if !strings.Contains(invocation, "neo4j-admin") {
		t.Fatalf("want invocation to reference neo4j-admin, got %s", invocation)
	}

	for _, name := range []string{ConceptsFile, CodesFile, HasCodeFile, InterEdgeFile} {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("ReadFile %s: %v", name, err)
		}
		if len(data) == 0 {
			t.Fatalf("want non-empty file %s", name)
		}
	}
}

func TestWriteEmptyResultStillProducesHeaders(t *testing.T) {
	dir := t.TempDir()
	if _, err := Write(dir, transform.Result{}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, ConceptsFile))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "cui:ID(Concept)") {
		t.Fatalf("want header row present, got %q", string(data))
	}
}
