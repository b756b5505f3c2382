package umlssync

import (
	"github.com/biolinkgraph/umls-graph-syncer/internal/graphsync"
	"github.com/biolinkgraph/umls-graph-syncer/internal/transform"
)

const (
	WorkflowName = "umls_graph_sync"

	ActivityCheckVersion = "umls_graph_sync_check_version"
	ActivityPhaseD       = "umls_graph_sync_phase_d"
	ActivityPhaseM       = "umls_graph_sync_phase_m"
	ActivityPhaseU       = "umls_graph_sync_phase_u"
	ActivityPhaseS       = "umls_graph_sync_phase_s"
	ActivityPhaseF       = "umls_graph_sync_phase_f"
)

// SyncInput is the workflow's sole argument: the fully-parsed-and-transformed
// snapshot plus the explicit delete/merge sets, exactly what Strategy.Run
// takes when driven in-process without Temporal.
type SyncInput struct {
	Version     string
	Snapshot    transform.Result
	DeletedCUIs []string
	MergePairs  []graphsync.MergePair
	Reapply     bool
}

// SyncResult mirrors graphsync.Summary; Temporal's JSON data converter
// round-trips it without needing a dedicated codec.
type SyncResult = graphsync.Summary
