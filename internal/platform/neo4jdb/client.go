// Package neo4jdb is a thin graph database client: session/transaction
// lifecycle over the Neo4j Bolt driver, a single-shot execute, a
// client-driven batched-iteration primitive, and connectivity
// verification. It intentionally knows nothing about UMLS semantics.
package neo4jdb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/db"

	"github.com/biolinkgraph/umls-graph-syncer/internal/platform/envutil"
	"github.com/biolinkgraph/umls-graph-syncer/internal/platform/logger"
)

// Client is the graph database client: session/transaction lifecycle over
// a Neo4j Bolt driver.
type Client struct {
	Driver   neo4j.DriverWithContext
	Database string
	log      *logger.Logger
}

// NewFromEnv dials the graph database using NEO4J_URI/NEO4J_USER/NEO4J_PASSWORD/
// NEO4J_DATABASE, verifying connectivity before returning. The graph
// database is mandatory here: an empty NEO4J_URI is a configuration error,
// not an optional, silently-skipped dependency.
func NewFromEnv(log *logger.Logger) (*Client, error) {
	if log == nil {
		return nil, fmt.Errorf("neo4jdb: logger required")
	}

	uri := envutil.String("NEO4J_URI", "")
	if uri == "" {
		return nil, fmt.Errorf("neo4jdb: NEO4J_URI is required")
	}

	user := envutil.String("NEO4J_USER", "neo4j")
	password := envutil.String("NEO4J_PASSWORD", "")
	database := envutil.String("NEO4J_DATABASE", "neo4j")

	timeout := envutil.Duration("NEO4J_TIMEOUT", 10*time.Second)
	maxPool := envutil.Int("NEO4J_MAX_POOL_SIZE", 50)

	auth := neo4j.BasicAuth(user, password, "")
	driver, err := neo4j.NewDriverWithContext(uri, auth, func(cfg *neo4j.Config) {
		cfg.MaxConnectionPoolSize = maxPool
		cfg.SocketConnectTimeout = timeout
	})
	if err != nil {
		return nil, fmt.Errorf("neo4jdb: init driver: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("neo4jdb: verify connectivity: %w", err)
	}

	return &Client{
		Driver:   driver,
		Database: database,
		log:      log.With("client", "GraphClient"),
	}, nil
}

// Ping verifies connectivity and that the server accepts write transactions,
// the capability execute_batched relies on.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.Driver == nil {
		return fmt.Errorf("neo4jdb: client not initialized")
	}
	if err := c.Driver.VerifyConnectivity(ctx); err != nil {
		return fmt.Errorf("neo4jdb: ping: %w", err)
	}
	session := c.Driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: c.Database, AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)
	_, err := session.Run(ctx, "RETURN 1", nil)
	if err != nil {
		return fmt.Errorf("neo4jdb: ping query: %w", err)
	}
	return nil
}

func (c *Client) Close(ctx context.Context) error {
	if c == nil || c.Driver == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err := c.Driver.Close(ctx)
	c.Driver = nil
	return err
}

// IsTransientError classifies a Bolt/Neo4j error as retryable: deadlocks,
// leader re-elections, and throttled writes are transient; constraint
// violations, syntax errors, and other client errors are not.
func IsTransientError(err error) bool {
	if err == nil {
		return false
	}
	var neo4jErr *db.Neo4jError
	if errors.As(err, &neo4jErr) {
		code := neo4jErr.Code
		return strings.Contains(code, "TransientError") ||
			strings.Contains(code, "Neo.ClientError.Transaction.LockClientStopped") ||
			strings.Contains(code, "Neo.ClientError.Cluster.NotALeader")
	}
	// Connection-level failures (reset, timeout, EOF mid-stream) surface as
	// plain errors from the driver rather than db.Neo4jError; retry those too.
	return true
}
