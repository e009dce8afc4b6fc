// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package transform

import (
	"context"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/seqtk/biosimd"
	"github.com/grailbio/seqtk/encoding/fastx"
)

// Stats summarizes a Run.
type Stats struct {
	// Read is the number of input records.
	Read int
	// Passed is the number of records accepted by the filter.
	Passed int
	// Written is the number of output records.  It exceeds Passed when
	// BothComplement is set.
	Written int
}

// ctxCheckInterval is how often, in records, Run polls for cancellation.
const ctxCheckInterval = 1 << 14

// Run reads every record from in, filters and masks it, and writes the
// result to out.  opts must have been validated, and out must have been
// created with opts.Output.WriterOpts(in.Format()).  Run does not flush out.
func Run(ctx context.Context, opts Opts, in *fastx.Scanner, out *fastx.Writer) (Stats, error) {
	var (
		stats  Stats
		masker = NewMasker(opts.Mask)
		format = out.Format()
		rec    fastx.Record
	)
	for in.Scan(&rec) {
		stats.Read++
		if stats.Read%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return stats, err
			}
		}
		if !opts.Filter.Pass(stats.Read, &rec) {
			continue
		}
		stats.Passed++
		masked := masker.Transform(&rec)
		masked.Qual = opts.Output.renderQual(format, masked.Qual, len(masked.Seq))
		n, err := emit(out, masked, &opts.Output)
		stats.Written += n
		if err != nil {
			return stats, err
		}
	}
	if err := in.Err(); err != nil {
		return stats, err
	}
	log.Debug.Printf("transform: read %d records, %d passed, %d written", stats.Read, stats.Passed, stats.Written)
	return stats, nil
}

// emitForward writes rec as is and hands it back so the caller may mutate
// its buffers for a second emission.
func emitForward(out *fastx.Writer, rec fastx.Record) (fastx.Record, error) {
	return rec, out.Write(&rec)
}

// reverseComplementInPlace complements rec.Seq and reverses rec.Seq and
// rec.Qual.  Any other view of those buffers is invalidated.
func reverseComplementInPlace(rec *fastx.Record) {
	biosimd.ReverseCompRecordInplace(rec.Seq, rec.Qual)
}

// emit writes rec according to p and returns the number of records written.
// It takes ownership of rec's buffers.
func emit(out *fastx.Writer, rec fastx.Record, p *OutputPolicy) (int, error) {
	if p.ReverseComplement {
		reverseComplementInPlace(&rec)
		if err := out.Write(&rec); err != nil {
			return 0, err
		}
		return 1, nil
	}
	rec, err := emitForward(out, rec)
	if err != nil {
		return 0, err
	}
	if !p.BothComplement {
		return 1, nil
	}
	reverseComplementInPlace(&rec)
	if err := out.Write(&rec); err != nil {
		return 1, errors.E(err, "writing reverse complement of", string(rec.Name))
	}
	return 2, nil
}
