// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package interval

import (
	"bufio"
	"context"
	"io"
	"sort"
	"strconv"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
	gunsafe "github.com/grailbio/base/unsafe"
	"github.com/klauspost/compress/gzip"
)

// Interval is a 0-based half-open range [Start, End).  Start <= End.
type Interval struct {
	Start, End int
}

// Contains checks whether pos lies in [Start, End).
func (iv Interval) Contains(pos int) bool {
	return iv.Start <= pos && pos < iv.End
}

// Index maps a sequence name to a sorted list of disjoint, non-touching
// intervals.  It is immutable once built, so any number of goroutines may
// query it concurrently.
type Index struct {
	// nameMap is always initialized.  Every value is sorted by Start and
	// satisfies v[i].End < v[i+1].Start.
	nameMap map[string][]Interval
	// nSkipped is the number of region lines dropped because their coordinates
	// could not be parsed.
	nSkipped int
}

// Empty is an index without intervals.
var Empty = &Index{nameMap: map[string][]Interval{}}

// Lookup returns the merged intervals for the named sequence, or nil if the
// name never appeared in the region file.  The caller must not modify the
// returned slice.
func (x *Index) Lookup(name string) []Interval {
	if x == nil {
		return nil
	}
	return x.nameMap[name]
}

// Names returns the sequence names present in the index, sorted.
func (x *Index) Names() []string {
	names := make([]string, 0, len(x.nameMap))
	for name := range x.nameMap {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NumSkipped returns the number of region lines that were skipped during
// loading because of malformed coordinates.
func (x *Index) NumSkipped() int {
	return x.nSkipped
}

// Query reports whether pos overlaps any interval in ivs, starting the search
// at ivs[cursor].  It returns the cursor to pass to the next call.
//
// Successive calls for one record must use nondecreasing positions: intervals
// that end before pos are skipped permanently.  The cursor is a plain index
// into ivs; start every record with cursor 0.
func Query(pos int, ivs []Interval, cursor int) (overlap bool, next int) {
	for cursor < len(ivs) && ivs[cursor].End < pos {
		cursor++
	}
	if cursor == len(ivs) {
		return false, cursor
	}
	// ivs[cursor].End >= pos here.
	return ivs[cursor].Contains(pos), cursor
}

// MergeIntervals sorts ivs by start position and folds overlapping or
// touching intervals (prev.End >= next.Start) together.  ivs is reordered in
// place; the merged result is returned in a new slice.
func MergeIntervals(ivs []Interval) []Interval {
	if len(ivs) == 0 {
		return nil
	}
	sort.Slice(ivs, func(i, j int) bool { return ivs[i].Start < ivs[j].Start })
	merged := make([]Interval, 0, len(ivs))
	cur := ivs[0]
	for _, iv := range ivs[1:] {
		if cur.End < iv.Start {
			merged = append(merged, cur)
			cur = iv
			continue
		}
		if iv.End > cur.End {
			cur.End = iv.End
		}
	}
	return append(merged, cur)
}

// getColumns identifies up to the first len(cols) tab-separated columns of
// curLine, returning the number of columns saved.  Trailing '\r' is dropped.
func getColumns(cols [][]byte, curLine []byte) int {
	lineLen := len(curLine)
	if lineLen != 0 && curLine[lineLen-1] == '\r' {
		lineLen--
	}
	if lineLen == 0 {
		return 0
	}
	pos := 0
	for colIdx := range cols {
		posEnd := pos
		for ; posEnd != lineLen; posEnd++ {
			if curLine[posEnd] == '\t' {
				break
			}
		}
		cols[colIdx] = curLine[pos:posEnd]
		if posEnd == lineLen {
			return colIdx + 1
		}
		pos = posEnd + 1
	}
	return len(cols)
}

// parseCoord parses a nonnegative decimal coordinate.
func parseCoord(col []byte) (int, bool) {
	v, err := strconv.Atoi(gunsafe.BytesToString(col))
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

// NewIndex loads a region file from reader.  Lines are tab-separated
// "name\tstart\tend[\t...]" with 0-based half-open coordinates, in any order.
// Lines with fewer than three columns are ignored.  Lines whose coordinates
// cannot be parsed, or with end < start, are logged and skipped.
func NewIndex(reader io.Reader) (*Index, error) {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(nil, 16<<20)

	var (
		cols [3][]byte
		// nameIdx maps a name to its position in names and lists.  Appends go
		// through lists, so a key is only ever stored once, as a copy.
		nameIdx = make(map[string]int)
		names   []string
		lists   [][]Interval
	)
	idx := &Index{}
	lineIdx := 0
	for scanner.Scan() {
		lineIdx++
		curLine := scanner.Bytes()
		if getColumns(cols[:], curLine) < 3 {
			continue
		}
		start, ok1 := parseCoord(cols[1])
		end, ok2 := parseCoord(cols[2])
		if !ok1 || !ok2 || end < start {
			log.Error.Printf("interval: skipping line %d with invalid coordinates: %q", lineIdx, curLine)
			idx.nSkipped++
			continue
		}
		// The zero-copy view points into the scanner buffer and is used for
		// lookup only.
		if i, ok := nameIdx[gunsafe.BytesToString(cols[0])]; ok {
			lists[i] = append(lists[i], Interval{start, end})
			continue
		}
		name := string(cols[0])
		nameIdx[name] = len(names)
		names = append(names, name)
		lists = append(lists, []Interval{{start, end}})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.E(err, "interval: reading region file")
	}
	idx.nameMap = mergeAll(names, lists)
	return idx, nil
}

// mergeAll merges every name's interval list independently, in parallel.
// lists[i] holds the raw intervals of names[i].
func mergeAll(names []string, lists [][]Interval) map[string][]Interval {
	results := make([][]Interval, len(names))
	// Each job touches only results[i] and its own input slice, so no
	// synchronization is needed.  The callback never fails.
	_ = traverse.Each(len(names), func(i int) error {
		results[i] = MergeIntervals(lists[i])
		return nil
	})
	merged := make(map[string][]Interval, len(names))
	totBases := 0
	for i, name := range names {
		merged[name] = results[i]
		for _, iv := range results[i] {
			totBases += iv.End - iv.Start
		}
		log.Debug.Printf("interval: %s: %d raw -> %d merged intervals", name, len(lists[i]), len(results[i]))
	}
	log.Printf("Region file loaded, %d sequence(s), %d base(s) covered.", len(merged), totBases)
	return merged
}

// NewIndexFromPath is a wrapper for NewIndex that takes a path instead of an
// io.Reader.  Gzip-compressed files are decompressed transparently.
func NewIndexFromPath(ctx context.Context, path string) (idx *Index, err error) {
	var infile file.File
	if infile, err = file.Open(ctx, path); err != nil {
		return nil, errors.E(err, "interval: open", path)
	}
	defer func() {
		if cerr := infile.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()
	reader := io.Reader(infile.Reader(ctx))
	switch fileio.DetermineType(path) {
	case fileio.Gzip:
		var gz *gzip.Reader
		if gz, err = gzip.NewReader(reader); err != nil {
			return nil, errors.E(err, "interval: gzip", path)
		}
		defer gz.Close()
		reader = gz
	}
	return NewIndex(reader)
}
