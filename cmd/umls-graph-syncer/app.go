package main

import (
	"context"
	"fmt"
	"os"

	"github.com/cenkalti/backoff/v5"
	"gopkg.in/yaml.v3"

	"github.com/biolinkgraph/umls-graph-syncer/internal/biolinkmap"
	"github.com/biolinkgraph/umls-graph-syncer/internal/config"
	"github.com/biolinkgraph/umls-graph-syncer/internal/download"
	"github.com/biolinkgraph/umls-graph-syncer/internal/platform/logger"
	"github.com/biolinkgraph/umls-graph-syncer/internal/platform/neo4jdb"
	"github.com/biolinkgraph/umls-graph-syncer/internal/platform/tracing"
	"github.com/biolinkgraph/umls-graph-syncer/internal/report"
	"github.com/biolinkgraph/umls-graph-syncer/internal/synclock"
)

// app bundles the shared platform wiring every subcommand needs: logger,
// config, graph client, Biolink mapping tables, the optional report store,
// and the optional distributed lock. Built once per invocation, torn down
// via close before the process exits.
type app struct {
	log      *logger.Logger
	cfg      config.Config
	client   *neo4jdb.Client
	bmap     *biolinkmap.Map
	reports  *report.Store
	locker   *synclock.Locker
	shutdown func(context.Context) error
}

func newApp(cmdFlags commonFlags) (*app, error) {
	log, err := logger.New(cmdFlags.logMode)
	if err != nil {
		return nil, fmt.Errorf("logger init: %w", err)
	}

	cfg, err := config.Load(cmdFlags.envFile)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	shutdown := tracing.Init(context.Background(), log, tracing.Config{
		ServiceName: "umls-graph-syncer",
	})

	client, err := neo4jdb.NewFromEnv(log)
	if err != nil {
		return nil, fmt.Errorf("neo4j: %w", err)
	}

	bmap, err := biolinkmap.Load(log)
	if err != nil {
		client.Close(context.Background())
		return nil, fmt.Errorf("biolinkmap: %w", err)
	}

	reports, err := report.NewFromEnv(log)
	if err != nil {
		client.Close(context.Background())
		return nil, fmt.Errorf("report store: %w", err)
	}

	locker, err := synclock.NewFromEnv(log)
	if err != nil && os.Getenv("REDIS_ADDR") != "" {
		client.Close(context.Background())
		return nil, fmt.Errorf("synclock: %w", err)
	}

	return &app{
		log:      log,
		cfg:      cfg,
		client:   client,
		bmap:     bmap,
		reports:  reports,
		locker:   locker,
		shutdown: shutdown,
	}, nil
}

func (a *app) close() {
	ctx := context.Background()
	if a.locker != nil {
		a.locker.Close()
	}
	if a.reports != nil {
		a.reports.Close()
	}
	if a.client != nil {
		a.client.Close(ctx)
	}
	if a.shutdown != nil {
		a.shutdown(ctx)
	}
	a.log.Sync()
}

// commonFlags holds the persistent flags every subcommand reads.
type commonFlags struct {
	envFile string
	logMode string
}

// manifestEntry is one row of a download manifest: an artifact to fetch
// and verify before the parser runs. The manifest itself is optional —
// most deployments pre-stage RRF files and skip this step entirely.
type manifestEntry struct {
	URL      string `yaml:"url"`
	Filename string `yaml:"filename"`
	SHA256   string `yaml:"sha256"`
}

func fetchManifest(ctx context.Context, log *logger.Logger, manifestPath, destDir, apiKey string) error {
	if manifestPath == "" {
		return nil
	}
	raw, err := os.ReadFile(manifestPath)
	if err != nil {
		return fmt.Errorf("read manifest: %w", err)
	}
	var entries []manifestEntry
	if err := yaml.Unmarshal(raw, &entries); err != nil {
		return fmt.Errorf("parse manifest: %w", err)
	}

	client := download.NewClient(apiKey)
	for _, e := range entries {
		dest := destDir + string(os.PathSeparator) + e.Filename
		log.Info("downloading release artifact", "url", e.URL, "dest", dest)
		if _, err := backoff.Retry(ctx, func() (int64, error) {
			return client.Fetch(ctx, e.URL, dest)
		}, backoff.WithBackOff(backoff.NewExponentialBackOff()), backoff.WithMaxTries(3)); err != nil {
			return fmt.Errorf("fetch %s: %w", e.Filename, err)
		}
		if e.SHA256 != "" {
			if err := download.VerifyChecksum(dest, e.SHA256); err != nil {
				return fmt.Errorf("verify %s: %w", e.Filename, err)
			}
		}
	}
	return nil
}
