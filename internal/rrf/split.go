package rrf

import (
	"bufio"
	"fmt"
	"os"
)

// byteRange is a half-open [start, end) slice of a file, always aligned so
// start lands exactly on a record boundary (start==0 or the byte right
// after a '\n') and end is likewise a record boundary or EOF. No worker
// ever reads a partial record.
type byteRange struct {
	start int64
	end   int64
}

// planRanges splits a file of the given size into n candidate ranges and
// rounds each boundary forward to the next newline so no row is split
// across workers. The first range always starts at 0; later ranges discard
// the partial line fragment at their naive boundary (which belongs to the
// previous range).
func planRanges(path string, n int) ([]byteRange, error) {
	if n < 1 {
		n = 1
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("rrf: open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("rrf: stat %s: %w", path, err)
	}
	size := info.Size()
	if size == 0 {
		return []byteRange{{start: 0, end: 0}}, nil
	}
	if int64(n) > size {
		n = int(size)
		if n < 1 {
			n = 1
		}
	}

	chunk := size / int64(n)
	boundaries := make([]int64, 0, n+1)
	boundaries = append(boundaries, 0)
	for i := 1; i < n; i++ {
		naive := int64(i) * chunk
		aligned, err := seekToNextLineBoundary(f, naive, size)
		if err != nil {
			return nil, err
		}
		boundaries = append(boundaries, aligned)
	}
	boundaries = append(boundaries, size)

	ranges := make([]byteRange, 0, n)
	for i := 0; i < len(boundaries)-1; i++ {
		start, end := boundaries[i], boundaries[i+1]
		if start >= end {
			continue // collapsed by alignment on tiny/skewed files; drop the empty range
		}
		ranges = append(ranges, byteRange{start: start, end: end})
	}
	if len(ranges) == 0 {
		ranges = append(ranges, byteRange{start: 0, end: size})
	}
	return ranges, nil
}

// seekToNextLineBoundary returns the offset of the first byte after the
// next '\n' at or after pos, or size if none is found (the tail range then
// collapses into its predecessor by planRanges' start>=end check).
func seekToNextLineBoundary(f *os.File, pos, size int64) (int64, error) {
	if pos >= size {
		return size, nil
	}
	if _, err := f.Seek(pos, 0); err != nil {
		return 0, fmt.Errorf("rrf: seek: %w", err)
	}
	r := bufio.NewReader(f)
	offset := pos
	for {
		b, err := r.ReadByte()
		if err != nil {
			return size, nil
		}
		offset++
		if b == '\n' {
			return offset, nil
		}
	}
}
