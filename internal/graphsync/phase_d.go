package graphsync

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/biolinkgraph/umls-graph-syncer/internal/platform/neo4jdb"
)

// PhaseResult is the outcome of one DeltaStrategy phase, folded into the
// sync report.
type PhaseResult struct {
	Committed int
	Failed    int
	Errors    []string
}

// runPhaseD detach-deletes every Concept named in deletedCUIs. Codes
// orphaned by the deletion are left for Phase S to sweep.
func runPhaseD(ctx context.Context, client *neo4jdb.Client, deletedCUIs []string, batchSize int) PhaseResult {
	if len(deletedCUIs) == 0 {
		return PhaseResult{}
	}
	rows := make([]map[string]any, len(deletedCUIs))
	for i, cui := range deletedCUIs {
		rows[i] = map[string]any{"cui": cui}
	}

	mutation := func(tx neo4j.ManagedTransaction, batch []map[string]any) (any, error) {
		res, err := tx.Run(ctx, `
UNWIND $rows AS r
MATCH (c:Concept {cui: r.cui})
DETACH DELETE c
`, map[string]any{"rows": batch})
		if err != nil {
			return nil, err
		}
		return res.Consume(ctx)
	}

	committed, failed, failures := client.ExecuteBatched(ctx, rows, batchSize, mutation)
	return toPhaseResult(committed, failed, failures)
}

func toPhaseResult(committed, failed int, failures []neo4jdb.BatchResult) PhaseResult {
	errs := make([]string, 0, len(failures))
	for _, f := range failures {
		if f.Err != nil {
			errs = append(errs, f.Err.Error())
		}
	}
	return PhaseResult{Committed: committed, Failed: failed, Errors: errs}
}
