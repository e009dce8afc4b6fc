// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package trim implements quality trimming of FASTQ reads.  For every read it
// keeps the contiguous window maximizing the sum of (quality - threshold),
// similar to Mott's algorithm as used by phred and seqtk.
package trim

import (
	"context"
	"fmt"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/seqtk/encoding/fastx"
)

// Params configures trimming.
type Params struct {
	// Threshold is the quality score (not the raw byte) that a base must
	// reach to start the window.
	Threshold int
	// AsciiBase is the offset of the quality encoding.
	AsciiBase int
	// MinLength is the minimum length of a trimmed read.  Reads shorter than
	// this are written untrimmed.
	MinLength int
}

// DefaultParams are the seqtk trimfq defaults.
var DefaultParams = Params{Threshold: 13, AsciiBase: 33, MinLength: 30}

// Validate checks that p is usable.
func (p Params) Validate() error {
	if p.Threshold < 0 || p.AsciiBase < 0 || p.Threshold+p.AsciiBase > 255 {
		return errors.E(errors.Invalid, fmt.Sprintf("trim: quality threshold %d with ascii base %d is out of range", p.Threshold, p.AsciiBase))
	}
	if p.MinLength < 0 {
		return errors.E(errors.Invalid, fmt.Sprintf("trim: negative minimum length %d", p.MinLength))
	}
	return nil
}

// ThresholdPlusOffset returns the raw quality byte corresponding to
// p.Threshold.
func (p Params) ThresholdPlusOffset() byte {
	return byte(p.Threshold + p.AsciiBase)
}

// Trim finds the window [start, end] (inclusive) of qual to keep.  ok is
// false when no base reaches thr, in which case the read should be dropped.
//
// Among windows starting at the first base >= thr, the one whose end
// maximizes the running sum of qual[i]-thr is chosen; ties go to the later
// end.  A window shorter than minLength is grown on the 3' side and then on
// the 5' side.  A read shorter than minLength is returned whole.
func Trim(qual []byte, thr byte, minLength int) (start, end int, ok bool) {
	n := len(qual)
	for start = 0; start < n && qual[start] < thr; start++ {
	}
	if start == n {
		return 0, 0, false
	}
	t := int(thr)
	end = start
	score := int(qual[start]) - t
	best := score
	for i := start + 1; i < n; i++ {
		score += int(qual[i]) - t
		if score >= best {
			best = score
			end = i
		}
	}
	switch {
	case n < minLength:
		return 0, n - 1, true
	case end-start+1 < minLength:
		if n-start >= minLength {
			end = start + minLength - 1
		} else {
			end = n - 1
			start = n - minLength
		}
	}
	return start, end, true
}

// Stats summarizes a Run.
type Stats struct {
	Read, Written, Discarded int
}

// Run trims every read of in and writes it to out.  Discarded reads produce
// no output.  in must be FASTQ, and out must not be shared with other
// writers.  Run does not flush out.
func Run(ctx context.Context, p Params, in *fastx.Scanner, out *fastx.Writer) (Stats, error) {
	var stats Stats
	if err := p.Validate(); err != nil {
		return stats, err
	}
	if in.Format() != fastx.FASTQ {
		return stats, errors.E(errors.Invalid, "trim: input must be FASTQ")
	}
	thr := p.ThresholdPlusOffset()
	var rec fastx.Record
	for in.Scan(&rec) {
		stats.Read++
		start, end, ok := Trim(rec.Qual, thr, p.MinLength)
		if !ok {
			stats.Discarded++
			continue
		}
		rec.Seq = rec.Seq[start : end+1]
		rec.Qual = rec.Qual[start : end+1]
		if err := out.Write(&rec); err != nil {
			return stats, err
		}
		stats.Written++
	}
	if err := in.Err(); err != nil {
		return stats, err
	}
	if err := ctx.Err(); err != nil {
		return stats, err
	}
	log.Debug.Printf("trim: read %d reads, wrote %d, discarded %d", stats.Read, stats.Written, stats.Discarded)
	return stats, nil
}
