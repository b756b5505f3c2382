package graphsync

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/biolinkgraph/umls-graph-syncer/internal/platform/neo4jdb"
	"github.com/biolinkgraph/umls-graph-syncer/internal/transform"
)

// UpsertResult folds the four upsert sub-phases of Phase U into one report
// shape: concepts, codes, has-code edges, and inter-concept edges upserted.
type UpsertResult struct {
	Concepts PhaseResult
	Codes    PhaseResult
	HasCodes PhaseResult
	Edges    PhaseResult
}

// runPhaseU upserts the full snapshot for version. Order within the phase
// is concepts/codes first (so HAS_CODE and inter-concept edge upserts can
// MATCH both endpoints), then edges; batch order within each sub-phase is
// unspecified by design since upserts are order-independent under union
// semantics.
func runPhaseU(ctx context.Context, client *neo4jdb.Client, result transform.Result, version string, batchSize int) UpsertResult {
	return UpsertResult{
		Concepts: upsertConcepts(ctx, client, result.Concepts, version, batchSize),
		Codes:    upsertCodes(ctx, client, result.Codes, version, batchSize),
		HasCodes: upsertHasCodes(ctx, client, result.HasCodes, batchSize),
		Edges:    upsertEdges(ctx, client, result.Edges, version, batchSize),
	}
}

func upsertConcepts(ctx context.Context, client *neo4jdb.Client, concepts []transform.Concept, version string, batchSize int) PhaseResult {
	rows := make([]map[string]any, len(concepts))
	for i, c := range concepts {
		rows[i] = map[string]any{
			"cui":                c.CUI,
			"preferred_name":     c.PreferredName,
			"biolink_categories": append([]string{"Concept"}, c.BiolinkCategories...),
		}
	}
	mutation := func(tx neo4j.ManagedTransaction, batch []map[string]any) (any, error) {
		res, err := tx.Run(ctx, `
UNWIND $rows AS r
MERGE (c:Concept {cui: r.cui})
SET c.preferred_name = r.preferred_name, c.last_seen_version = $version
WITH c, r
CALL apoc.create.setLabels(c, r.biolink_categories) YIELD node
RETURN count(*)
`, map[string]any{"rows": batch, "version": version})
		if err != nil {
			return nil, err
		}
		return res.Consume(ctx)
	}
	committed, failed, failures := client.ExecuteBatched(ctx, rows, batchSize, mutation)
	return toPhaseResult(committed, failed, failures)
}

func upsertCodes(ctx context.Context, client *neo4jdb.Client, codes []transform.Code, version string, batchSize int) PhaseResult {
	rows := make([]map[string]any, len(codes))
	for i, c := range codes {
		rows[i] = map[string]any{"code_id": c.CodeID, "sab": c.SAB, "code": c.Code, "name": c.Name}
	}
	mutation := func(tx neo4j.ManagedTransaction, batch []map[string]any) (any, error) {
		res, err := tx.Run(ctx, `
UNWIND $rows AS r
MERGE (c:Code {code_id: r.code_id})
SET c.sab = r.sab, c.code = r.code, c.name = r.name, c.last_seen_version = $version
`, map[string]any{"rows": batch, "version": version})
		if err != nil {
			return nil, err
		}
		return res.Consume(ctx)
	}
	committed, failed, failures := client.ExecuteBatched(ctx, rows, batchSize, mutation)
	return toPhaseResult(committed, failed, failures)
}

func upsertHasCodes(ctx context.Context, client *neo4jdb.Client, hasCodes []transform.HasCode, batchSize int) PhaseResult {
	rows := make([]map[string]any, len(hasCodes))
	for i, h := range hasCodes {
		rows[i] = map[string]any{"cui": h.CUI, "code_id": h.CodeID}
	}
	mutation := func(tx neo4j.ManagedTransaction, batch []map[string]any) (any, error) {
		res, err := tx.Run(ctx, `
UNWIND $rows AS r
MATCH (concept:Concept {cui: r.cui})
MATCH (code:Code {code_id: r.code_id})
MERGE (concept)-[:HAS_CODE]->(code)
`, map[string]any{"rows": batch})
		if err != nil {
			return nil, err
		}
		return res.Consume(ctx)
	}
	committed, failed, failures := client.ExecuteBatched(ctx, rows, batchSize, mutation)
	return toPhaseResult(committed, failed, failures)
}

func upsertEdges(ctx context.Context, client *neo4jdb.Client, edges []transform.InterConceptEdge, version string, batchSize int) PhaseResult {
	rows := make([]map[string]any, len(edges))
	for i, e := range edges {
		rows[i] = map[string]any{
			"source_cui":       e.SourceCUI,
			"target_cui":       e.TargetCUI,
			"source_rela":      e.SourceRela,
			"predicate":        e.Predicate,
			"asserted_by_sabs": e.AssertedBySABs,
		}
	}
	mutation := func(tx neo4j.ManagedTransaction, batch []map[string]any) (any, error) {
		res, err := tx.Run(ctx, `
UNWIND $rows AS r
MATCH (s:Concept {cui: r.source_cui})
MATCH (t:Concept {cui: r.target_cui})
CALL apoc.merge.relationship(s, r.predicate, {source_rela: r.source_rela}, {}, t, {}) YIELD rel
SET rel.asserted_by_sabs = CASE WHEN rel.asserted_by_sabs IS NULL
       THEN r.asserted_by_sabs
       ELSE apoc.coll.sort(apoc.coll.toSet(rel.asserted_by_sabs + r.asserted_by_sabs)) END,
    rel.last_seen_version = $version
`, map[string]any{"rows": batch, "version": version})
		if err != nil {
			return nil, err
		}
		return res.Consume(ctx)
	}
	committed, failed, failures := client.ExecuteBatched(ctx, rows, batchSize, mutation)
	return toPhaseResult(committed, failed, failures)
}
