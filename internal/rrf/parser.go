package rrf

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Config drives both partitioning and row filtering.
type Config struct {
	// Workers is the parser pool size; <=0 defaults to runtime.NumCPU().
	Workers int
	// MaxMalformedRows aborts the parse once the cumulative malformed-row
	// count across all workers exceeds this threshold. <=0 disables the
	// threshold (never aborts on malformed rows alone).
	MaxMalformedRows int
}

func (c Config) workerCount() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.NumCPU()
}

// decodeFunc turns one pipe-delimited line (trailing pipe already
// tolerated) into a row of type T, or an error if the line has too few
// fields to be a valid record.
type decodeFunc[T any] func(fields []string) (T, error)

// workerResult carries one range worker's decoded rows back to the
// dispatcher, tagged with its range index so results can be reassembled
// in file order (parallel parsing must not reorder the stream the
// Transformer later aggregates deterministically from).
type workerResult[T any] struct {
	index int
	rows  []T
	stats Stats
}

// parseFile partitions path into byte-aligned ranges, decodes each range's
// lines concurrently with decode, and returns the full row slice in
// original file order plus aggregate stats. minFields is the number of
// pipe-delimited fields decode requires; fewer than that marks a row
// malformed (counted, skipped).
func parseFile[T any](ctx context.Context, path string, cfg Config, minFields int, decode decodeFunc[T]) ([]T, Stats, error) {
	ranges, err := planRanges(path, cfg.workerCount())
	if err != nil {
		return nil, Stats{}, err
	}

	results := make([]workerResult[T], len(ranges))
	g, gctx := errgroup.WithContext(ctx)

	for i, rg := range ranges {
		i, rg := i, rg
		g.Go(func() error {
			rows, stats, err := parseRange(gctx, path, rg, minFields, decode)
			if err != nil {
				return err
			}
			results[i] = workerResult[T]{index: i, rows: rows, stats: stats}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, Stats{}, err
	}

	sort.Slice(results, func(a, b int) bool { return results[a].index < results[b].index })

	var total Stats
	var all []T
	for _, r := range results {
		total.merge(r.stats)
		all = append(all, r.rows...)
	}
	if cfg.MaxMalformedRows > 0 && total.MalformedRow > cfg.MaxMalformedRows {
		return nil, total, fmt.Errorf("rrf: %s: %d malformed rows exceeds threshold %d", path, total.MalformedRow, cfg.MaxMalformedRows)
	}
	return all, total, nil
}

func parseRange[T any](ctx context.Context, path string, rg byteRange, minFields int, decode decodeFunc[T]) ([]T, Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("rrf: open %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.Seek(rg.start, io.SeekStart); err != nil {
		return nil, Stats{}, fmt.Errorf("rrf: seek %s: %w", path, err)
	}

	limited := io.LimitReader(f, rg.end-rg.start)
	scanner := bufio.NewScanner(limited)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024) // UMLS STR fields can be long

	var rows []T
	var stats Stats
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return nil, stats, ctx.Err()
		default:
		}

		line := scanner.Text()
		if line == "" {
			continue
		}
		fields := strings.Split(line, "|")
		// Trailing pipe per row produces one trailing empty field; drop it.
		if len(fields) > 0 && fields[len(fields)-1] == "" {
			fields = fields[:len(fields)-1]
		}
		if len(fields) < minFields {
			stats.MalformedRow++
			stats.Skipped++
			continue
		}
		row, err := decode(fields)
		if err != nil {
			stats.MalformedRow++
			stats.Skipped++
			continue
		}
		rows = append(rows, row)
		stats.Parsed++
	}
	if err := scanner.Err(); err != nil {
		return nil, stats, fmt.Errorf("rrf: scan %s: %w", path, err)
	}
	return rows, stats, nil
}
