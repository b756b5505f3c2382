package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/biolinkgraph/umls-graph-syncer/internal/graphsync"
	"github.com/biolinkgraph/umls-graph-syncer/internal/report"
	"github.com/biolinkgraph/umls-graph-syncer/internal/temporalx"
	"github.com/biolinkgraph/umls-graph-syncer/internal/temporalx/umlssync"
	"github.com/biolinkgraph/umls-graph-syncer/internal/transform"
)

func newIncrementalSyncCmd() *cobra.Command {
	var (
		version   string
		sabFilter []string
		batchSize int
		inputDir  string
		manifest  string
		reapply   bool
	)

	cmd := &cobra.Command{
		Use:   "incremental-sync",
		Short: "Apply a quarterly RRF release to the graph via the five-phase delta sync",
		RunE: func(cmd *cobra.Command, args []string) error {
			common := commonFlagsFrom(cmd)
			a, err := newApp(common)
			if err != nil {
				return err
			}
			defer a.close()

			if inputDir == "" {
				return fmt.Errorf("incremental-sync: --input-dir is required")
			}

			ctx := context.Background()

			if a.locker != nil {
				lock, err := a.locker.Acquire(ctx, "umls-meta-version")
				if err != nil {
					return fmt.Errorf("incremental-sync: %w", err)
				}
				defer lock.Release(ctx)
			}

			rep := report.NewReport("incremental-sync", version, "")

			if err := fetchManifest(ctx, a.log, manifest, inputDir, a.cfg.UMLSAPIKey); err != nil {
				rep.Finish(false, err)
				saveReport(ctx, a, rep)
				return err
			}

			filter := sabFilter
			if len(filter) == 0 {
				filter = a.cfg.SABFilter
			}
			if batchSize <= 0 {
				batchSize = a.cfg.APOCBatchSize
			}

			snapshot, deletedCUIs, mergePairs, err := buildSnapshot(ctx, inputDir, filter, a.cfg.SABPriority, a.cfg.SuppressionSet(), a.bmap, a.cfg.MaxParallelProcesses)
			if err != nil {
				rep.Finish(false, err)
				saveReport(ctx, a, rep)
				return err
			}
			rep.RowsParsed = len(snapshot.Concepts) + len(snapshot.Codes) + len(snapshot.HasCodes) + len(snapshot.Edges)

			strategy := &graphsync.Strategy{Client: a.client, Log: a.log, BatchSize: batchSize}

			summary, err := runDelta(ctx, a, strategy, version, snapshot, deletedCUIs, mergePairs, reapply)

			var vErr *graphsync.ErrVersionNotNewer
			if errors.As(err, &vErr) {
				rep.Finish(false, err)
				saveReport(ctx, a, rep)
				return err
			}
			if err != nil {
				rep.Finish(false, err)
				saveReport(ctx, a, rep)
				return err
			}

			rep.PrevVersion = summary.PreviousVersion
			rep.ExplicitDeletes = summary.ExplicitDeletes
			rep.ExplicitMerges = summary.ExplicitMerges
			rep.ConceptsUpserted = summary.ConceptsUpserted
			rep.CodesUpserted = summary.CodesUpserted
			rep.EdgesUpserted = summary.EdgesUpserted
			rep.EdgesSwept = summary.EdgesSwept
			rep.CodesSwept = summary.CodesSwept
			for _, p := range summary.Phases {
				errs := make([]string, 0, len(p.Result.Errors))
				errs = append(errs, p.Result.Errors...)
				rep.RecordPhase(p.Phase, p.Started, p.Ended, p.Result.Committed, p.Result.Failed, errs)
			}
			rep.Finish(true, nil)
			saveReport(ctx, a, rep)

			a.log.Info("incremental sync complete",
				"version", version,
				"concepts_upserted", summary.ConceptsUpserted,
				"codes_upserted", summary.CodesUpserted,
				"edges_upserted", summary.EdgesUpserted,
				"edges_swept", summary.EdgesSwept,
				"codes_swept", summary.CodesSwept,
				"explicit_deletes", summary.ExplicitDeletes,
				"explicit_merges", summary.ExplicitMerges,
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&version, "version", "", "UMLS release version being synced (e.g. 2025AB)")
	cmd.Flags().StringSliceVar(&sabFilter, "sab-filter", nil, "comma-separated source vocabulary allowlist (overrides SAB_FILTER)")
	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "apoc.periodic.iterate / client-batched write size (overrides APOC_BATCH_SIZE)")
	cmd.Flags().StringVar(&inputDir, "input-dir", "", "directory containing the already-staged RRF files for this release")
	cmd.Flags().StringVar(&manifest, "download-manifest", "", "optional YAML manifest of release artifacts to fetch before parsing")
	cmd.Flags().BoolVar(&reapply, "reapply", false, "allow re-running against the currently applied version")
	cmd.MarkFlagRequired("version")
	cmd.MarkFlagRequired("input-dir")

	return cmd
}

// runDelta drives the five-phase sync either in-process, or via a Temporal
// workflow when TEMPORAL_ADDRESS is configured — giving a mid-run process
// crash Temporal's replay-based recovery instead of requiring an operator
// to notice and re-invoke the command.
func runDelta(ctx context.Context, a *app, strategy *graphsync.Strategy, version string, snapshot transform.Result, deletedCUIs []string, mergePairs []graphsync.MergePair, reapply bool) (*graphsync.Summary, error) {
	cfg := temporalx.LoadConfig()
	if cfg.Address == "" {
		return strategy.Run(ctx, version, snapshot, deletedCUIs, mergePairs, reapply)
	}

	tc, err := temporalx.NewClient(a.log)
	if err != nil {
		return nil, fmt.Errorf("temporal client: %w", err)
	}
	if tc == nil {
		return strategy.Run(ctx, version, snapshot, deletedCUIs, mergePairs, reapply)
	}
	defer tc.Close()

	runner, err := umlssync.NewRunner(a.log, tc, strategy)
	if err != nil {
		return nil, fmt.Errorf("temporal runner: %w", err)
	}
	workerCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	if err := runner.Start(workerCtx); err != nil {
		return nil, fmt.Errorf("temporal worker: %w", err)
	}

	return umlssync.RunSync(ctx, tc, umlssync.SyncInput{
		Version:     version,
		Snapshot:    snapshot,
		DeletedCUIs: deletedCUIs,
		MergePairs:  mergePairs,
		Reapply:     reapply,
	})
}
