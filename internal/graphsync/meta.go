package graphsync

import (
	"context"
	"fmt"

	"github.com/biolinkgraph/umls-graph-syncer/internal/platform/neo4jdb"
)

// readMetaVersion returns the current UmlsMeta.version, or "" if the
// singleton doesn't exist yet (first-ever sync against this database).
func readMetaVersion(ctx context.Context, client *neo4jdb.Client) (string, error) {
	records, err := client.ExecuteSingle(ctx, `
MATCH (m:UmlsMeta)
RETURN m.version AS version
LIMIT 1
`, nil)
	if err != nil {
		return "", fmt.Errorf("graphsync: read UmlsMeta.version: %w", err)
	}
	if len(records) == 0 {
		return "", nil
	}
	v, _ := records[0].Get("version")
	s, _ := v.(string)
	return s, nil
}

// runPhaseF is the atomic commit point: sets UmlsMeta.version = version in
// a single transaction. Observers querying UmlsMeta.version see the sync as
// complete iff this step has run.
func runPhaseF(ctx context.Context, client *neo4jdb.Client, version string) error {
	_, err := client.ExecuteSingle(ctx, `
MERGE (m:UmlsMeta {singleton: true})
SET m.version = $version
`, map[string]any{"version": version})
	if err != nil {
		return fmt.Errorf("graphsync: phase F finalize: %w", err)
	}
	return nil
}
