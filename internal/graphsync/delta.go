// Package graphsync implements DeltaStrategy, the Snapshot-Diff
// incremental sync engine: explicit deletions, explicit merges (with chain
// collapse and cycle detection), snapshot upsert, stale sweep, and version
// finalize, run in strict phase order against a running graph database.
package graphsync

import (
	"context"
	"fmt"
	"time"

	"github.com/biolinkgraph/umls-graph-syncer/internal/platform/logger"
	"github.com/biolinkgraph/umls-graph-syncer/internal/platform/neo4jdb"
	"github.com/biolinkgraph/umls-graph-syncer/internal/platform/tracing"
	"github.com/biolinkgraph/umls-graph-syncer/internal/transform"
)

// Strategy runs the five-phase Snapshot-Diff sync: delete, merge, upsert,
// sweep, finalize.
type Strategy struct {
	Client    *neo4jdb.Client
	Log       *logger.Logger
	BatchSize int
}

// PhaseTiming pairs a PhaseResult with how long the phase took, for the
// sync report's per-phase duration field.
type PhaseTiming struct {
	Phase   string
	Result  PhaseResult
	Started time.Time
	Ended   time.Time
}

// Summary is the full outcome of one Run, the data a CLI command turns
// into the printed/persisted sync report.
type Summary struct {
	Version          string
	PreviousVersion  string
	Phases           []PhaseTiming
	ExplicitDeletes  int
	ExplicitMerges   int
	ConceptsUpserted int
	CodesUpserted    int
	EdgesUpserted    int
	EdgesSwept       int
	CodesSwept       int
}

// ErrVersionNotNewer signals the precondition-check failure: V == V_old
// without reapply, or V < V_old under natural ordering.
type ErrVersionNotNewer struct {
	Requested string
	Current   string
}

func (e *ErrVersionNotNewer) Error() string {
	return fmt.Sprintf("graphsync: requested version %q is not newer than current %q", e.Requested, e.Current)
}

// CheckVersion applies the version precondition: a target version equal to
// the current UmlsMeta.version is rejected unless reapply is set, and a
// version older than current is always rejected. Returns the current
// version (possibly "" on a first-ever sync).
func (s *Strategy) CheckVersion(ctx context.Context, version string, reapply bool) (string, error) {
	ensureConstraints(ctx, s.Client, s.Log)

	vOld, err := readMetaVersion(ctx, s.Client)
	if err != nil {
		return "", err
	}
	if vOld != "" {
		if version == vOld && !reapply {
			return vOld, &ErrVersionNotNewer{Requested: version, Current: vOld}
		}
		if version < vOld {
			return vOld, &ErrVersionNotNewer{Requested: version, Current: vOld}
		}
	}
	return vOld, nil
}

// PhaseD runs the explicit-deletion phase standalone, for callers (the
// Temporal activity wrapper) that need each phase as an independently
// retriable step rather than one monolithic call.
func (s *Strategy) PhaseD(ctx context.Context, deletedCUIs []string) PhaseResult {
	_, endSpan := tracing.Tracer("graphsync")(ctx, "phase_d")
	defer endSpan()
	return runPhaseD(ctx, s.Client, deletedCUIs, s.BatchSize)
}

// PhaseM runs the explicit-merge phase standalone.
func (s *Strategy) PhaseM(ctx context.Context, mergePairs []MergePair) (PhaseResult, error) {
	_, endSpan := tracing.Tracer("graphsync")(ctx, "phase_m")
	defer endSpan()
	return runPhaseM(ctx, s.Client, mergePairs)
}

// PhaseU runs the snapshot-upsert phase standalone.
func (s *Strategy) PhaseU(ctx context.Context, snapshot transform.Result, version string) UpsertResult {
	_, endSpan := tracing.Tracer("graphsync")(ctx, "phase_u")
	defer endSpan()
	return runPhaseU(ctx, s.Client, snapshot, version, s.BatchSize)
}

// PhaseS runs the stale-sweep phase standalone.
func (s *Strategy) PhaseS(ctx context.Context, version string) (edgesSwept, codesSwept PhaseResult, err error) {
	_, endSpan := tracing.Tracer("graphsync")(ctx, "phase_s")
	defer endSpan()
	return runPhaseS(ctx, s.Client, version, s.BatchSize)
}

// PhaseF runs the version-finalize phase standalone.
func (s *Strategy) PhaseF(ctx context.Context, version string) error {
	_, endSpan := tracing.Tracer("graphsync")(ctx, "phase_f")
	defer endSpan()
	return runPhaseF(ctx, s.Client, version)
}

// Run executes Phases D, M, U, S, F in strict order for target version. The
// snapshot (concepts/codes/edges already transformed), deletedCUIs (from
// DELETEDCUI.RRF) and mergePairs (from MERGEDCUI.RRF) are supplied by the
// caller, who has already run the parser and Transformer. This is the
// in-process path used when no Temporal deployment is configured; the
// Temporal path drives the same five PhaseX methods above as activities.
func (s *Strategy) Run(ctx context.Context, version string, snapshot transform.Result, deletedCUIs []string, mergePairs []MergePair, reapply bool) (*Summary, error) {
	vOld, err := s.CheckVersion(ctx, version, reapply)
	if err != nil {
		return nil, err
	}

	summary := &Summary{Version: version, PreviousVersion: vOld}

	record := func(phase string, started time.Time, result PhaseResult) {
		summary.Phases = append(summary.Phases, PhaseTiming{Phase: phase, Result: result, Started: started, Ended: time.Now()})
	}

	started := time.Now()
	dResult := s.PhaseD(ctx, deletedCUIs)
	record("D", started, dResult)
	summary.ExplicitDeletes = dResult.Committed

	started = time.Now()
	mResult, err := s.PhaseM(ctx, mergePairs)
	if err != nil {
		return summary, err
	}
	record("M", started, mResult)
	summary.ExplicitMerges = mResult.Committed

	started = time.Now()
	uResult := s.PhaseU(ctx, snapshot, version)
	record("U:concepts", started, uResult.Concepts)
	record("U:codes", started, uResult.Codes)
	record("U:has_code", started, uResult.HasCodes)
	record("U:edges", started, uResult.Edges)
	summary.ConceptsUpserted = uResult.Concepts.Committed
	summary.CodesUpserted = uResult.Codes.Committed
	summary.EdgesUpserted = uResult.Edges.Committed

	started = time.Now()
	edgesSwept, codesSwept, err := s.PhaseS(ctx, version)
	if err != nil {
		return summary, err
	}
	record("S:edges", started, edgesSwept)
	record("S:codes", started, codesSwept)
	summary.EdgesSwept = edgesSwept.Committed
	summary.CodesSwept = codesSwept.Committed

	started = time.Now()
	fErr := s.PhaseF(ctx, version)
	record("F", started, PhaseResult{})
	if fErr != nil {
		return summary, fErr
	}

	return summary, nil
}
