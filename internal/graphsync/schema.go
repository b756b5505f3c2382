package graphsync

import (
	"context"

	"github.com/biolinkgraph/umls-graph-syncer/internal/platform/logger"
	"github.com/biolinkgraph/umls-graph-syncer/internal/platform/neo4jdb"
)

// ensureConstraints creates the uniqueness constraints required before
// Phase U of any sync: Concept.cui and Code.code_id must each be unique,
// plus supporting indexes on last_seen_version. Best-effort: a restricted
// user that can't create constraints only warns, since an existing
// constraint (or an equivalent one set up out-of-band) satisfies the
// invariant either way.
func ensureConstraints(ctx context.Context, client *neo4jdb.Client, log *logger.Logger) {
	stmts := []string{
		`CREATE CONSTRAINT concept_cui_unique IF NOT EXISTS FOR (c:Concept) REQUIRE c.cui IS UNIQUE`,
		`CREATE CONSTRAINT code_id_unique IF NOT EXISTS FOR (c:Code) REQUIRE c.code_id IS UNIQUE`,
		`CREATE INDEX concept_last_seen_version IF NOT EXISTS FOR (c:Concept) ON (c.last_seen_version)`,
		`CREATE INDEX code_last_seen_version IF NOT EXISTS FOR (c:Code) ON (c.last_seen_version)`,
	}
	for _, stmt := range stmts {
		if _, err := client.ExecuteSingle(ctx, stmt, nil); err != nil {
			if log != nil {
				log.Warn("graphsync: schema setup failed (continuing)", "statement", stmt, "error", err)
			}
		}
	}
}
