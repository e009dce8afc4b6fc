// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package stats

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/seqtk/biosimd"
	"github.com/grailbio/seqtk/encoding/fastx"
)

// QualCheckOpts configures QualCheck.
type QualCheckOpts struct {
	// AsciiBase is the quality encoding offset.
	AsciiBase int
	// Threshold, if positive, reports the fraction of bases below and at or
	// above this quality instead of one column per observed quality.
	Threshold int
}

// DefaultQualCheckOpts reports every observed quality.
var DefaultQualCheckOpts = QualCheckOpts{AsciiBase: 33}

// Validate checks that o is usable.
func (o QualCheckOpts) Validate() error {
	if o.AsciiBase < 0 || o.Threshold < 0 || o.AsciiBase+o.Threshold > 255 {
		return errors.E(errors.Invalid, fmt.Sprintf("stats: quality threshold %d with ascii base %d is out of range", o.Threshold, o.AsciiBase))
	}
	return nil
}

// nucleotide columns: A C G T N.
const numNucCols = 5

type posCounts struct {
	nBases int64
	nuc    [numNucCols]int64
	qual   [256]int64
}

func (p *posCounts) add(b, q byte) {
	p.nBases++
	switch cls := biosimd.ClassifyDegeneracy(b); cls {
	case biosimd.BaseA, biosimd.BaseC, biosimd.BaseG, biosimd.BaseT:
		p.nuc[cls]++
	case biosimd.DegenerateFour:
		p.nuc[4]++
	}
	p.qual[q]++
}

func (p *posCounts) merge(o *posCounts) {
	p.nBases += o.nBases
	for i := range p.nuc {
		p.nuc[i] += o.nuc[i]
	}
	for i := range p.qual {
		p.qual[i] += o.qual[i]
	}
}

// QualCheck accumulates per-position base and quality tallies over FASTQ
// reads.
type QualCheck struct {
	opts QualCheckOpts
	pos  []posCounts
}

// NewQualCheck creates an empty QualCheck.
func NewQualCheck(opts QualCheckOpts) *QualCheck {
	return &QualCheck{opts: opts}
}

// Add tallies one read.
func (c *QualCheck) Add(rec *fastx.Record) {
	for len(c.pos) < len(rec.Seq) {
		c.pos = append(c.pos, posCounts{})
	}
	for i, b := range rec.Seq {
		c.pos[i].add(b, rec.Qual[i])
	}
}

func percent(n, total int64) float64 {
	if total == 0 {
		return 0
	}
	return 100 * float64(n) / float64(total)
}

// Write emits the table: a header, the "ALL" row, then one row per position
// (1-based).
func (c *QualCheck) Write(out io.Writer) error {
	var all posCounts
	for i := range c.pos {
		all.merge(&c.pos[i])
	}
	var observed []int
	for q, n := range all.qual {
		if n > 0 {
			observed = append(observed, q)
		}
	}
	w := tsv.NewWriter(out)
	w.WriteString("POS")
	for _, col := range []string{"#bases", "%A", "%C", "%G", "%T", "%N", "avgQ", "errQ"} {
		w.WriteString(col)
	}
	if c.opts.Threshold > 0 {
		w.WriteString("%low")
		w.WriteString("%high")
	} else {
		for _, q := range observed {
			w.WriteString("%Q" + strconv.Itoa(q-c.opts.AsciiBase))
		}
	}
	if err := w.EndLine(); err != nil {
		return err
	}
	if err := c.writeRow(w, "ALL", &all, observed); err != nil {
		return err
	}
	for i := range c.pos {
		if err := c.writeRow(w, strconv.Itoa(i+1), &c.pos[i], observed); err != nil {
			return err
		}
	}
	return w.Flush()
}

func (c *QualCheck) writeRow(w *tsv.Writer, label string, p *posCounts, observed []int) error {
	w.WriteString(label)
	w.WriteInt64(p.nBases)
	for _, n := range p.nuc {
		w.WriteFloat64(percent(n, p.nBases), 'f', 1)
	}
	var sumQ, sumP float64
	for _, q := range observed {
		n := float64(p.qual[q])
		score := float64(q - c.opts.AsciiBase)
		sumQ += score * n
		sumP += QualToErrProb(score) * n
	}
	var avgQ, errQ float64
	if p.nBases > 0 {
		avgQ = sumQ / float64(p.nBases)
		errQ = ErrProbToQual(sumP / float64(p.nBases))
		if errQ < 0 {
			errQ = -errQ
		}
	}
	w.WriteFloat64(avgQ, 'f', 1)
	w.WriteFloat64(errQ, 'f', 1)
	if c.opts.Threshold > 0 {
		thr := c.opts.Threshold + c.opts.AsciiBase
		var low int64
		for q := 0; q < thr; q++ {
			low += p.qual[q]
		}
		w.WriteFloat64(percent(low, p.nBases), 'f', 1)
		w.WriteFloat64(percent(p.nBases-low, p.nBases), 'f', 1)
	} else {
		for _, q := range observed {
			w.WriteFloat64(percent(p.qual[q], p.nBases), 'f', 1)
		}
	}
	return w.EndLine()
}

// RunQualCheck tallies every read of in and writes the table to out.  in
// must be FASTQ.
func RunQualCheck(ctx context.Context, opts QualCheckOpts, in *fastx.Scanner, out io.Writer) (*QualCheck, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if in.Format() != fastx.FASTQ {
		return nil, errors.E(errors.Invalid, "stats: fqchk input must be FASTQ")
	}
	c := NewQualCheck(opts)
	var rec fastx.Record
	for in.Scan(&rec) {
		c.Add(&rec)
	}
	if err := in.Err(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := c.Write(out); err != nil {
		return c, errors.E(err, "stats: write fqchk table")
	}
	return c, nil
}
