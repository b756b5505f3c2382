package umlssync

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/biolinkgraph/umls-graph-syncer/internal/graphsync"
)

// Workflow runs Phases D, M, U, S, F as five separately retried activities,
// in strict order, against the target in SyncInput. A failed activity
// retries per its RetryPolicy; a workflow worker crash replays from the
// last completed activity rather than losing the whole run.
func Workflow(ctx workflow.Context, input SyncInput) (*SyncResult, error) {
	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 2 * time.Hour,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    time.Minute,
			MaximumAttempts:    5,
		},
	})

	var checkOut CheckVersionOutput
	if err := workflow.ExecuteActivity(ctx, ActivityCheckVersion, CheckVersionInput{
		Version: input.Version,
		Reapply: input.Reapply,
	}).Get(ctx, &checkOut); err != nil {
		return nil, err
	}

	summary := &graphsync.Summary{Version: input.Version, PreviousVersion: checkOut.PreviousVersion}
	record := func(phase string, result graphsync.PhaseResult) {
		summary.Phases = append(summary.Phases, graphsync.PhaseTiming{Phase: phase, Result: result})
	}

	var dResult graphsync.PhaseResult
	if err := workflow.ExecuteActivity(ctx, ActivityPhaseD, input.DeletedCUIs).Get(ctx, &dResult); err != nil {
		return summary, err
	}
	record("D", dResult)
	summary.ExplicitDeletes = dResult.Committed

	var mResult graphsync.PhaseResult
	if err := workflow.ExecuteActivity(ctx, ActivityPhaseM, input.MergePairs).Get(ctx, &mResult); err != nil {
		return summary, err
	}
	record("M", mResult)
	summary.ExplicitMerges = mResult.Committed

	var uResult graphsync.UpsertResult
	if err := workflow.ExecuteActivity(ctx, ActivityPhaseU, PhaseUInput{
		Snapshot: input.Snapshot,
		Version:  input.Version,
	}).Get(ctx, &uResult); err != nil {
		return summary, err
	}
	record("U:concepts", uResult.Concepts)
	record("U:codes", uResult.Codes)
	record("U:has_code", uResult.HasCodes)
	record("U:edges", uResult.Edges)
	summary.ConceptsUpserted = uResult.Concepts.Committed
	summary.CodesUpserted = uResult.Codes.Committed
	summary.EdgesUpserted = uResult.Edges.Committed

	var sResult PhaseSOutput
	if err := workflow.ExecuteActivity(ctx, ActivityPhaseS, input.Version).Get(ctx, &sResult); err != nil {
		return summary, err
	}
	record("S:edges", sResult.EdgesSwept)
	record("S:codes", sResult.CodesSwept)
	summary.EdgesSwept = sResult.EdgesSwept.Committed
	summary.CodesSwept = sResult.CodesSwept.Committed

	if err := workflow.ExecuteActivity(ctx, ActivityPhaseF, input.Version).Get(ctx, nil); err != nil {
		return summary, err
	}

	return summary, nil
}
