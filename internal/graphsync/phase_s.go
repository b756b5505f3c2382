package graphsync

import (
	"context"
	"fmt"

	"github.com/biolinkgraph/umls-graph-syncer/internal/platform/neo4jdb"
)

// runPhaseS deletes every inter-concept edge and every Code whose
// last_seen_version differs from version, run only after Phase U has
// completed successfully. Concepts are never swept. Uses
// apoc.periodic.iterate, a server-side batched-iteration primitive, rather
// than a client-driven loop, since the match set here isn't a fixed payload
// the client already holds in memory.
func runPhaseS(ctx context.Context, client *neo4jdb.Client, version string, batchSize int) (edgesSwept, codesSwept PhaseResult, err error) {
	edgesSwept, err = sweepWithPeriodicIterate(ctx, client,
		`MATCH ()-[r]->() WHERE type(r) <> "HAS_CODE" AND r.last_seen_version <> $version RETURN id(r) AS id`,
		`MATCH ()-[r]->() WHERE id(r) = id DELETE r`,
		version, batchSize)
	if err != nil {
		return edgesSwept, PhaseResult{}, fmt.Errorf("graphsync: phase S edge sweep: %w", err)
	}

	codesSwept, err = sweepWithPeriodicIterate(ctx, client,
		`MATCH (c:Code) WHERE c.last_seen_version <> $version RETURN c.code_id AS id`,
		`MATCH (c:Code {code_id: id}) DETACH DELETE c`,
		version, batchSize)
	if err != nil {
		return edgesSwept, codesSwept, fmt.Errorf("graphsync: phase S code sweep: %w", err)
	}
	return edgesSwept, codesSwept, nil
}

func sweepWithPeriodicIterate(ctx context.Context, client *neo4jdb.Client, matchCypher, actionCypher, version string, batchSize int) (PhaseResult, error) {
	cypher := `
CALL apoc.periodic.iterate(
  $matchCypher,
  $actionCypher,
  {batchSize: $batchSize, parallel: false, params: {version: $version}}
)
YIELD batches, committedOperations, failedOperations, errorMessages
RETURN committedOperations AS committed, failedOperations AS failed, errorMessages AS errors
`
	records, err := client.ExecuteSingle(ctx, cypher, map[string]any{
		"matchCypher":  matchCypher,
		"actionCypher": actionCypher,
		"batchSize":    int64(batchSize),
		"version":      version,
	})
	if err != nil {
		return PhaseResult{}, err
	}
	if len(records) == 0 {
		return PhaseResult{}, nil
	}
	rec := records[0]
	committed, _ := rec.Get("committed")
	failed, _ := rec.Get("failed")
	errMsgs, _ := rec.Get("errors")

	result := PhaseResult{
		Committed: toInt(committed),
		Failed:    toInt(failed),
	}
	if msgs, ok := errMsgs.(map[string]any); ok {
		for k := range msgs {
			result.Errors = append(result.Errors, k)
		}
	}
	return result, nil
}

func toInt(v any) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case int:
		return n
	default:
		return 0
	}
}
