package neo4jdb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Mutation writes one batch of rows within an already-open managed write
// transaction. Implementations live in graphsync; this package only knows
// how to drive the transaction and retry around it.
type Mutation func(tx neo4j.ManagedTransaction, rows []map[string]any) (any, error)

// ExecuteSingle runs cypher once inside a managed write transaction, retrying
// transient failures (leader re-election, deadlock victim, dropped socket)
// with exponential backoff. Non-transient errors (constraint violation,
// syntax error) are returned immediately. Records are collected before the
// transaction closes, since a neo4j.ResultWithContext stream is invalid
// once its transaction function returns.
func (c *Client) ExecuteSingle(ctx context.Context, cypher string, params map[string]any) ([]*neo4j.Record, error) {
	session := c.Driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: c.Database})
	defer session.Close(ctx)

	op := func() ([]*neo4j.Record, error) {
		records, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
			res, err := tx.Run(ctx, cypher, params)
			if err != nil {
				return nil, err
			}
			return res.Collect(ctx)
		})
		if err != nil && !IsTransientError(err) {
			return nil, backoff.Permanent(err)
		}
		if err != nil {
			return nil, err
		}
		return records.([]*neo4j.Record), nil
	}

	records, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(newExponential()),
		backoff.WithMaxTries(5),
	)
	if err != nil {
		return nil, fmt.Errorf("neo4jdb: execute_single: %w", err)
	}
	return records, nil
}

// ExecuteWrite runs an arbitrary multi-statement managed write transaction,
// for callers (Phase M's merge resolution) whose logic doesn't fit the
// single-cypher or batched-rows shapes above. Retries transient failures
// the same way ExecuteSingle does.
func (c *Client) ExecuteWrite(ctx context.Context, fn func(tx neo4j.ManagedTransaction) (any, error)) (any, error) {
	session := c.Driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: c.Database})
	defer session.Close(ctx)

	op := func() (any, error) {
		result, err := session.ExecuteWrite(ctx, fn)
		if err != nil && !IsTransientError(err) {
			return nil, backoff.Permanent(err)
		}
		return result, err
	}

	result, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(newExponential()),
		backoff.WithMaxTries(5),
	)
	if err != nil {
		return nil, fmt.Errorf("neo4jdb: execute_write: %w", err)
	}
	return result, nil
}

// BatchResult reports the outcome of one batch within ExecuteBatched.
type BatchResult struct {
	Index     int
	Committed int
	Err       error
}

// ExecuteBatched partitions rows into chunks of batchSize and runs mutation
// against each chunk in its own managed write transaction, continuing past
// per-batch failures rather than aborting the whole pass (mirrors the
// apoc.periodic.iterate server-side loop used for stale-sweep queries). It
// returns the total committed row count, the total failed row count, and one
// BatchResult per failed batch for the caller to log/report.
func (c *Client) ExecuteBatched(ctx context.Context, rows []map[string]any, batchSize int, mutation Mutation) (committed, failed int, failures []BatchResult) {
	if batchSize <= 0 {
		batchSize = 1000
	}
	session := c.Driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: c.Database})
	defer session.Close(ctx)

	for start := 0; start < len(rows); start += batchSize {
		end := start + batchSize
		if end > len(rows) {
			end = len(rows)
		}
		batch := rows[start:end]
		idx := start / batchSize

		op := func() (int, error) {
			_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
				return mutation(tx, batch)
			})
			if err != nil && !IsTransientError(err) {
				return 0, backoff.Permanent(err)
			}
			if err != nil {
				return 0, err
			}
			return len(batch), nil
		}

		n, err := backoff.Retry(ctx, op,
			backoff.WithBackOff(newExponential()),
			backoff.WithMaxTries(5),
		)
		if err != nil {
			failed += len(batch)
			failures = append(failures, BatchResult{Index: idx, Err: unwrapPermanent(err)})
			continue
		}
		committed += n
	}
	return committed, failed, failures
}

func newExponential() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxInterval = 10 * time.Second
	b.Multiplier = 2
	return b
}

func unwrapPermanent(err error) error {
	var perm *backoff.PermanentError
	if errors.As(err, &perm) {
		return perm.Unwrap()
	}
	return err
}
