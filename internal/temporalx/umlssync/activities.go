package umlssync

import (
	"context"
	"fmt"

	"github.com/biolinkgraph/umls-graph-syncer/internal/graphsync"
	"github.com/biolinkgraph/umls-graph-syncer/internal/platform/logger"
	"github.com/biolinkgraph/umls-graph-syncer/internal/transform"
)

// Activities wraps a graphsync.Strategy so each DeltaStrategy phase can run
// as an independently retried Temporal activity. A process crash between
// phases is recovered by Temporal replaying the workflow from its history
// instead of an operator re-invoking the sync command.
type Activities struct {
	Log      *logger.Logger
	Strategy *graphsync.Strategy
}

// CheckVersionInput/Output adapt Strategy.CheckVersion's two-value return
// plus error into the (struct, error) shape Temporal activities expect.
type CheckVersionInput struct {
	Version string
	Reapply bool
}

type CheckVersionOutput struct {
	PreviousVersion string
}

func (a *Activities) CheckVersion(ctx context.Context, in CheckVersionInput) (CheckVersionOutput, error) {
	if a == nil || a.Strategy == nil {
		return CheckVersionOutput{}, fmt.Errorf("umlssync: activities not configured")
	}
	prev, err := a.Strategy.CheckVersion(ctx, in.Version, in.Reapply)
	return CheckVersionOutput{PreviousVersion: prev}, err
}

func (a *Activities) PhaseD(ctx context.Context, deletedCUIs []string) (graphsync.PhaseResult, error) {
	if a == nil || a.Strategy == nil {
		return graphsync.PhaseResult{}, fmt.Errorf("umlssync: activities not configured")
	}
	return a.Strategy.PhaseD(ctx, deletedCUIs), nil
}

func (a *Activities) PhaseM(ctx context.Context, pairs []graphsync.MergePair) (graphsync.PhaseResult, error) {
	if a == nil || a.Strategy == nil {
		return graphsync.PhaseResult{}, fmt.Errorf("umlssync: activities not configured")
	}
	return a.Strategy.PhaseM(ctx, pairs)
}

type PhaseUInput struct {
	Snapshot transform.Result
	Version  string
}

func (a *Activities) PhaseU(ctx context.Context, in PhaseUInput) (graphsync.UpsertResult, error) {
	if a == nil || a.Strategy == nil {
		return graphsync.UpsertResult{}, fmt.Errorf("umlssync: activities not configured")
	}
	return a.Strategy.PhaseU(ctx, in.Snapshot, in.Version), nil
}

// PhaseSOutput folds Strategy.PhaseS's two PhaseResults into a struct, the
// same accommodation CheckVersionOutput makes.
type PhaseSOutput struct {
	EdgesSwept PhaseResultValue
	CodesSwept PhaseResultValue
}

type PhaseResultValue = graphsync.PhaseResult

func (a *Activities) PhaseS(ctx context.Context, version string) (PhaseSOutput, error) {
	if a == nil || a.Strategy == nil {
		return PhaseSOutput{}, fmt.Errorf("umlssync: activities not configured")
	}
	edges, codes, err := a.Strategy.PhaseS(ctx, version)
	return PhaseSOutput{EdgesSwept: edges, CodesSwept: codes}, err
}

func (a *Activities) PhaseF(ctx context.Context, version string) error {
	if a == nil || a.Strategy == nil {
		return fmt.Errorf("umlssync: activities not configured")
	}
	return a.Strategy.PhaseF(ctx, version)
}
