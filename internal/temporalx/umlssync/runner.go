package umlssync

import (
	"context"
	"fmt"

	"go.temporal.io/sdk/activity"
	temporalsdkclient "go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/biolinkgraph/umls-graph-syncer/internal/graphsync"
	"github.com/biolinkgraph/umls-graph-syncer/internal/platform/logger"
	"github.com/biolinkgraph/umls-graph-syncer/internal/temporalx"
)

// Runner hosts a Temporal worker polling the configured task queue for
// umlssync workflow and activity tasks. Only constructed when TEMPORAL_ADDRESS
// is set; otherwise the CLI drives graphsync.Strategy.Run in-process.
type Runner struct {
	log      *logger.Logger
	tc       temporalsdkclient.Client
	strategy *graphsync.Strategy
}

func NewRunner(log *logger.Logger, tc temporalsdkclient.Client, strategy *graphsync.Strategy) (*Runner, error) {
	if tc == nil {
		return nil, fmt.Errorf("umlssync: temporal client is not configured")
	}
	if strategy == nil {
		return nil, fmt.Errorf("umlssync: strategy is required")
	}
	return &Runner{log: log, tc: tc, strategy: strategy}, nil
}

// Start registers the workflow, its version-check activity and its five
// phase activities, and starts the worker polling in the background. It
// returns once the worker has started; the worker stops when ctx is
// canceled.
func (r *Runner) Start(ctx context.Context) error {
	if r == nil || r.tc == nil {
		return fmt.Errorf("umlssync: worker not initialized")
	}

	cfg := temporalx.LoadConfig()
	if r.log != nil {
		r.log.Info("starting Temporal worker", "address", cfg.Address, "namespace", cfg.Namespace, "task_queue", cfg.TaskQueue)
	}

	w := worker.New(r.tc, cfg.TaskQueue, worker.Options{})

	acts := &Activities{Log: r.log, Strategy: r.strategy}
	w.RegisterWorkflowWithOptions(Workflow, workflow.RegisterOptions{Name: WorkflowName})
	w.RegisterActivityWithOptions(acts.CheckVersion, activity.RegisterOptions{Name: ActivityCheckVersion})
	w.RegisterActivityWithOptions(acts.PhaseD, activity.RegisterOptions{Name: ActivityPhaseD})
	w.RegisterActivityWithOptions(acts.PhaseM, activity.RegisterOptions{Name: ActivityPhaseM})
	w.RegisterActivityWithOptions(acts.PhaseU, activity.RegisterOptions{Name: ActivityPhaseU})
	w.RegisterActivityWithOptions(acts.PhaseS, activity.RegisterOptions{Name: ActivityPhaseS})
	w.RegisterActivityWithOptions(acts.PhaseF, activity.RegisterOptions{Name: ActivityPhaseF})

	if err := w.Start(); err != nil {
		return fmt.Errorf("umlssync: worker start: %w", err)
	}
	go func() {
		<-ctx.Done()
		w.Stop()
	}()
	return nil
}

// RunSync starts the umlssync workflow and waits for it to complete,
// returning the same Summary shape the in-process Strategy.Run produces.
func RunSync(ctx context.Context, tc temporalsdkclient.Client, input SyncInput) (*SyncResult, error) {
	cfg := temporalx.LoadConfig()
	run, err := tc.ExecuteWorkflow(ctx, temporalsdkclient.StartWorkflowOptions{
		ID:        fmt.Sprintf("umls-graph-sync-%s", input.Version),
		TaskQueue: cfg.TaskQueue,
	}, Workflow, input)
	if err != nil {
		return nil, fmt.Errorf("umlssync: start workflow: %w", err)
	}

	var result SyncResult
	if err := run.Get(ctx, &result); err != nil {
		return nil, fmt.Errorf("umlssync: workflow %s: %w", run.GetID(), err)
	}
	return &result, nil
}
