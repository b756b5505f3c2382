package graphsync

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/biolinkgraph/umls-graph-syncer/internal/platform/neo4jdb"
)

// runPhaseM executes each resolved (old, new) merge in its own managed
// transaction: HAS_CODE edges are re-pointed, outgoing and incoming
// inter-concept edges are re-pointed with asserted_by_sabs union and
// last_seen_version max, and old is detach-deleted. Chains are collapsed
// and cycles rejected by collapseMerges before any graph write happens.
func runPhaseM(ctx context.Context, client *neo4jdb.Client, rawPairs []MergePair) (PhaseResult, error) {
	if len(rawPairs) == 0 {
		return PhaseResult{}, nil
	}
	resolved, err := collapseMerges(rawPairs)
	if err != nil {
		return PhaseResult{}, err
	}

	var result PhaseResult
	for _, pair := range resolved {
		_, err := client.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
			return nil, applyMerge(ctx, tx, pair)
		})
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("merge %s->%s: %v", pair.Old, pair.New, err))
			continue
		}
		result.Committed++
	}
	return result, nil
}

func applyMerge(ctx context.Context, tx neo4j.ManagedTransaction, pair MergePair) error {
	params := map[string]any{"old": pair.Old, "new": pair.New}

	// 1. HAS_CODE: re-point every (old)-[:HAS_CODE]->(code) to (new).
	if err := run(ctx, tx, `
MATCH (old:Concept {cui: $old})-[:HAS_CODE]->(code:Code)
MATCH (new:Concept {cui: $new})
MERGE (new)-[:HAS_CODE]->(code)
`, params); err != nil {
		return err
	}

	// 2. Outgoing inter-concept edges: (old)-[r]->(t) re-pointed to (new)-[r']->(t).
	if err := run(ctx, tx, `
MATCH (old:Concept {cui: $old})-[r]->(t:Concept)
WHERE type(r) <> 'HAS_CODE'
MATCH (new:Concept {cui: $new})
CALL apoc.merge.relationship(new, type(r), {source_rela: r.source_rela}, {}, t, {}) YIELD rel
SET rel.asserted_by_sabs = CASE WHEN rel.asserted_by_sabs IS NULL
       THEN r.asserted_by_sabs
       ELSE apoc.coll.sort(apoc.coll.toSet(rel.asserted_by_sabs + r.asserted_by_sabs)) END,
    rel.last_seen_version = CASE WHEN rel.last_seen_version IS NULL OR rel.last_seen_version < r.last_seen_version
       THEN r.last_seen_version ELSE rel.last_seen_version END
`, params); err != nil {
		return err
	}

	// 3. Incoming inter-concept edges: (s)-[r]->(old) re-pointed to (s)-[r']->(new).
	if err := run(ctx, tx, `
MATCH (s:Concept)-[r]->(old:Concept {cui: $old})
WHERE type(r) <> 'HAS_CODE'
MATCH (new:Concept {cui: $new})
CALL apoc.merge.relationship(s, type(r), {source_rela: r.source_rela}, {}, new, {}) YIELD rel
SET rel.asserted_by_sabs = CASE WHEN rel.asserted_by_sabs IS NULL
       THEN r.asserted_by_sabs
       ELSE apoc.coll.sort(apoc.coll.toSet(rel.asserted_by_sabs + r.asserted_by_sabs)) END,
    rel.last_seen_version = CASE WHEN rel.last_seen_version IS NULL OR rel.last_seen_version < r.last_seen_version
       THEN r.last_seen_version ELSE rel.last_seen_version END
`, params); err != nil {
		return err
	}

	// 4. Detach-delete old. A MERGEDCUI row whose old or new CUI doesn't
	// exist (already deleted in an earlier release, or never ingested) is a
	// no-op, not a failure — MATCH simply matches zero rows, and old is kept
	// when there is no new concept to carry its data.
	return run(ctx, tx, `
MATCH (old:Concept {cui: $old})
MATCH (:Concept {cui: $new})
DETACH DELETE old
`, params)
}

func run(ctx context.Context, tx neo4j.ManagedTransaction, cypher string, params map[string]any) error {
	res, err := tx.Run(ctx, cypher, params)
	if err != nil {
		return err
	}
	_, err = res.Consume(ctx)
	return err
}
