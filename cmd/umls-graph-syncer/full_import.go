package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/biolinkgraph/umls-graph-syncer/internal/bulkio"
	"github.com/biolinkgraph/umls-graph-syncer/internal/report"
)

func newFullImportCmd() *cobra.Command {
	var (
		version   string
		sabFilter []string
		outputDir string
		manifest  string
	)

	cmd := &cobra.Command{
		Use:   "full-import",
		Short: "Bootstrap a graph from a full RRF distribution, emitting bulk-importer CSVs",
		RunE: func(cmd *cobra.Command, args []string) error {
			common := commonFlagsFrom(cmd)
			a, err := newApp(common)
			if err != nil {
				return err
			}
			defer a.close()

			if outputDir == "" {
				return fmt.Errorf("full-import: --output-dir is required")
			}

			rep := report.NewReport("full-import", version, "")
			ctx := context.Background()

			if err := fetchManifest(ctx, a.log, manifest, outputDir, a.cfg.UMLSAPIKey); err != nil {
				rep.Finish(false, err)
				saveReport(ctx, a, rep)
				return err
			}

			filter := sabFilter
			if len(filter) == 0 {
				filter = a.cfg.SABFilter
			}

			result, _, _, err := buildSnapshot(ctx, outputDir, filter, a.cfg.SABPriority, a.cfg.SuppressionSet(), a.bmap, a.cfg.MaxParallelProcesses)
			if err != nil {
				rep.Finish(false, err)
				saveReport(ctx, a, rep)
				return err
			}
			rep.RowsParsed = len(result.Concepts) + len(result.Codes) + len(result.HasCodes) + len(result.Edges)

			invocation, err := bulkio.Write(outputDir, result)
			if err != nil {
				rep.Finish(false, err)
				saveReport(ctx, a, rep)
				return err
			}

			rep.Finish(true, nil)
			saveReport(ctx, a, rep)

			fmt.Println(invocation)
			return nil
		},
	}

	cmd.Flags().StringVar(&version, "version", "", "UMLS release version being imported (e.g. 2025AA)")
	cmd.Flags().StringSliceVar(&sabFilter, "sab-filter", nil, "comma-separated source vocabulary allowlist (overrides SAB_FILTER)")
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "directory containing the RRF files, and where bulk-importer CSVs are written")
	cmd.Flags().StringVar(&manifest, "download-manifest", "", "optional YAML manifest of release artifacts to fetch before parsing")
	cmd.MarkFlagRequired("version")
	cmd.MarkFlagRequired("output-dir")

	return cmd
}

func saveReport(ctx context.Context, a *app, rep *report.Report) {
	if a.reports == nil {
		return
	}
	if err := a.reports.Save(ctx, rep); err != nil {
		a.log.Warn("failed to persist sync report", "error", err)
	}
}

func commonFlagsFrom(cmd *cobra.Command) commonFlags {
	root := cmd.Root().PersistentFlags()
	envFile, _ := root.GetString("env-file")
	logMode, _ := root.GetString("log-mode")
	return commonFlags{envFile: envFile, logMode: logMode}
}
