package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/biolinkgraph/umls-graph-syncer/internal/biolinkmap"
	"github.com/biolinkgraph/umls-graph-syncer/internal/graphsync"
	"github.com/biolinkgraph/umls-graph-syncer/internal/rrf"
	"github.com/biolinkgraph/umls-graph-syncer/internal/transform"
)

// buildSnapshot runs RrfParser + Transformer over the RRF files in
// inputDir, applying the SAB filter and priority order from cfg. It also
// parses DELETEDCUI.RRF and MERGEDCUI.RRF, the Phase D/M inputs, since both
// commands need all five files read once per invocation.
func buildSnapshot(ctx context.Context, inputDir string, sabFilter []string, sabPriority []string, suppression []string, bmap *biolinkmap.Map, maxParallel int) (transform.Result, []string, []graphsync.MergePair, error) {
	parseCfg := rrf.Config{Workers: maxParallel}

	mrconso, _, err := rrf.ParseMRCONSO(ctx, filepath.Join(inputDir, "MRCONSO.RRF"), parseCfg, rrf.MRCONSOFilter{
		SABFilter:   sabFilter,
		Suppression: suppression,
	})
	if err != nil {
		return transform.Result{}, nil, nil, fmt.Errorf("parse MRCONSO.RRF: %w", err)
	}

	mrrel, _, err := rrf.ParseMRREL(ctx, filepath.Join(inputDir, "MRREL.RRF"), parseCfg, rrf.MRRELFilter{
		SABFilter: sabFilter,
	})
	if err != nil {
		return transform.Result{}, nil, nil, fmt.Errorf("parse MRREL.RRF: %w", err)
	}

	mrsty, _, err := rrf.ParseMRSTY(ctx, filepath.Join(inputDir, "MRSTY.RRF"), parseCfg)
	if err != nil {
		return transform.Result{}, nil, nil, fmt.Errorf("parse MRSTY.RRF: %w", err)
	}

	deleted, _, err := rrf.ParseDeletedCUI(ctx, filepath.Join(inputDir, "DELETEDCUI.RRF"), parseCfg)
	if err != nil {
		return transform.Result{}, nil, nil, fmt.Errorf("parse DELETEDCUI.RRF: %w", err)
	}
	deletedCUIs := make([]string, len(deleted))
	for i, d := range deleted {
		deletedCUIs[i] = d.CUI
	}

	merged, _, err := rrf.ParseMergedCUI(ctx, filepath.Join(inputDir, "MERGEDCUI.RRF"), parseCfg)
	if err != nil {
		return transform.Result{}, nil, nil, fmt.Errorf("parse MERGEDCUI.RRF: %w", err)
	}
	mergePairs := make([]graphsync.MergePair, len(merged))
	for i, m := range merged {
		mergePairs[i] = graphsync.MergePair{Old: m.CUI1, New: m.CUI2}
	}

	result := transform.Transform(mrconso, mrrel, mrsty, transform.Config{SABPriority: sabPriority}, bmap)
	return result, deletedCUIs, mergePairs, nil
}
