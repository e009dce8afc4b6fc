// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package stats

import (
	"context"
	"io"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/tsv"
	gunsafe "github.com/grailbio/base/unsafe"
	"github.com/grailbio/seqtk/biosimd"
	"github.com/grailbio/seqtk/encoding/fastx"
	"github.com/grailbio/seqtk/interval"
)

// CompOpts configures composition counting.
type CompOpts struct {
	// ExcludeMasked skips lowercase bases.
	ExcludeMasked bool
	// Regions, if set, restricts counting to the regions listed for each
	// record's ID.  Records without regions are not reported.
	Regions *interval.Index
}

// Comp is the nucleotide composition of one record.
type Comp struct {
	// Counts is indexed by biosimd.ClassifyDegeneracy.
	Counts [biosimd.NumDegeneracyClasses]int64
	// CG and GC count the dinucleotides on the forward strand.
	CG, GC int64
}

// AddRange counts seq[start:end].  Dinucleotides spanning two ranges are not
// counted.
func (c *Comp) AddRange(seq []byte, start, end int, excludeMasked bool) {
	if end > len(seq) {
		end = len(seq)
	}
	var prev byte
	for i := start; i < end; i++ {
		b := seq[i]
		if excludeMasked && biosimd.IsLower(b) {
			prev = 0
			continue
		}
		c.Counts[biosimd.ClassifyDegeneracy(b)]++
		cls := biosimd.ClassifyBase(b)
		switch {
		case prev == 'C' && cls == biosimd.BaseG:
			c.CG++
		case prev == 'G' && cls == biosimd.BaseC:
			c.GC++
		}
		switch cls {
		case biosimd.BaseC:
			prev = 'C'
		case biosimd.BaseG:
			prev = 'G'
		default:
			prev = 0
		}
	}
}

var compColumns = [...]biosimd.BaseClass{
	biosimd.BaseA, biosimd.BaseC, biosimd.BaseG, biosimd.BaseT,
	biosimd.DegenerateTwo, biosimd.DegenerateThree, biosimd.DegenerateFour,
}

// write emits name len #A #C #G #T #2 #3 #4 #CG #GC.
func (c *Comp) write(w *tsv.Writer, name []byte, length int) error {
	w.WriteString(gunsafe.BytesToString(name))
	w.WriteInt64(int64(length))
	for _, cls := range compColumns {
		w.WriteInt64(c.Counts[cls])
	}
	w.WriteInt64(c.CG)
	w.WriteInt64(c.GC)
	return w.EndLine()
}

// NewComp computes the composition of rec.  ok is false when opts.Regions is
// set and lists no regions for rec.
func NewComp(rec *fastx.Record, opts CompOpts) (c Comp, ok bool) {
	if opts.Regions == nil {
		c.AddRange(rec.Seq, 0, len(rec.Seq), opts.ExcludeMasked)
		return c, true
	}
	ivs := opts.Regions.Lookup(gunsafe.BytesToString(rec.ID()))
	if ivs == nil {
		return c, false
	}
	for _, iv := range ivs {
		c.AddRange(rec.Seq, iv.Start, iv.End, opts.ExcludeMasked)
	}
	return c, true
}

// RunComp writes one composition line per record of in to out.
func RunComp(ctx context.Context, opts CompOpts, in *fastx.Scanner, out io.Writer) error {
	w := tsv.NewWriter(out)
	var rec fastx.Record
	for in.Scan(&rec) {
		c, ok := NewComp(&rec, opts)
		if !ok {
			continue
		}
		if err := c.write(w, rec.ID(), len(rec.Seq)); err != nil {
			return errors.E(err, "stats: write composition")
		}
	}
	if err := in.Err(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return w.Flush()
}
