// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package stats

import (
	"context"
	"io"
	"sort"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/traverse"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/seqtk/encoding/fastx"
)

// Size summarizes the length distribution of a set of sequences.
type Size struct {
	NumSeqs  int
	NumBases int64
	Avg      float64
	Min      int
	Median   float64
	Max      int
	N50      int
}

// NewSize computes the summary of lengths.  lengths is sorted in place.
func NewSize(lengths []int) Size {
	var s Size
	s.NumSeqs = len(lengths)
	if s.NumSeqs == 0 {
		return s
	}
	sortInts(lengths)
	for _, l := range lengths {
		s.NumBases += int64(l)
	}
	s.Avg = float64(s.NumBases) / float64(s.NumSeqs)
	s.Min = lengths[0]
	s.Max = lengths[s.NumSeqs-1]
	mid := s.NumSeqs / 2
	if s.NumSeqs%2 == 1 {
		s.Median = float64(lengths[mid])
	} else {
		s.Median = float64(lengths[mid-1]+lengths[mid]) / 2
	}
	// N50 is the length of the sequence at which the cumulative sum, taken
	// from the longest sequence down, first reaches half the total.
	half := s.NumBases / 2
	var acc int64
	for i := s.NumSeqs - 1; i >= 0; i-- {
		acc += int64(lengths[i])
		if acc >= half {
			s.N50 = lengths[i]
			break
		}
	}
	return s
}

// Write writes s as one TSV line:
// #seqs #bases avg_size min_size med_size max_size N50.
func (s Size) Write(w *tsv.Writer) error {
	w.WriteInt64(int64(s.NumSeqs))
	w.WriteInt64(s.NumBases)
	w.WriteFloat64(s.Avg, 'f', 2)
	w.WriteInt64(int64(s.Min))
	w.WriteFloat64(s.Median, 'f', -1)
	w.WriteInt64(int64(s.Max))
	w.WriteInt64(int64(s.N50))
	return w.EndLine()
}

// RunSize reads every record of in and writes its Size line to out.
func RunSize(ctx context.Context, in *fastx.Scanner, out io.Writer) (Size, error) {
	var (
		lengths []int
		rec     fastx.Record
	)
	for in.Scan(&rec) {
		lengths = append(lengths, len(rec.Seq))
	}
	if err := in.Err(); err != nil {
		return Size{}, err
	}
	if err := ctx.Err(); err != nil {
		return Size{}, err
	}
	s := NewSize(lengths)
	w := tsv.NewWriter(out)
	if err := s.Write(w); err != nil {
		return s, errors.E(err, "stats: write size")
	}
	return s, w.Flush()
}

// parallelSortMin is the smallest input that sortInts splits across
// goroutines.
const parallelSortMin = 1 << 16

// sortInts sorts v ascending.  Large inputs are cut into shards that are
// sorted concurrently and then merged.
func sortInts(v []int) {
	if len(v) < parallelSortMin {
		sort.Ints(v)
		return
	}
	const nShard = 8
	bounds := make([]int, nShard+1)
	for i := range bounds {
		bounds[i] = len(v) * i / nShard
	}
	_ = traverse.Each(nShard, func(i int) error {
		sort.Ints(v[bounds[i]:bounds[i+1]])
		return nil
	})
	// Merge shard pairs until one run remains.
	buf := make([]int, len(v))
	for width := 1; width < nShard; width *= 2 {
		for lo := 0; lo+width < nShard; lo += 2 * width {
			hi := lo + 2*width
			if hi > nShard {
				hi = nShard
			}
			mergeInts(buf[bounds[lo]:bounds[hi]], v[bounds[lo]:bounds[lo+width]], v[bounds[lo+width]:bounds[hi]])
			copy(v[bounds[lo]:bounds[hi]], buf[bounds[lo]:bounds[hi]])
		}
	}
}

func mergeInts(dst, a, b []int) {
	i, j, k := 0, 0, 0
	for i < len(a) && j < len(b) {
		if b[j] < a[i] {
			dst[k] = b[j]
			j++
		} else {
			dst[k] = a[i]
			i++
		}
		k++
	}
	k += copy(dst[k:], a[i:])
	copy(dst[k:], b[j:])
}
