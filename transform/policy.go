// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package transform

import (
	"fmt"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/seqtk/biosimd"
	"github.com/grailbio/seqtk/encoding/fastx"
	"github.com/grailbio/seqtk/interval"
)

// FilterPolicy decides which records are kept.
type FilterPolicy struct {
	// MinLength drops records whose sequence is not strictly longer.
	MinLength int
	// DropAmbiguous drops records containing any base other than A, C, G or
	// T (in either case).
	DropAmbiguous bool
	// KeepOdd keeps only the 1st, 3rd, 5th... records.
	KeepOdd bool
	// KeepEven keeps only the 2nd, 4th, 6th... records.
	KeepEven bool
}

// Validate checks that the policy is self-consistent.
func (p FilterPolicy) Validate() error {
	if p.KeepOdd && p.KeepEven {
		return errors.E(errors.Invalid, "output-odd and output-even are mutually exclusive")
	}
	if p.MinLength < 0 {
		return errors.E(errors.Invalid, fmt.Sprintf("negative minimum sequence length %d", p.MinLength))
	}
	return nil
}

// Pass tells whether rec, the index1'th record of the input (counting from
// 1), survives the filter.
func (p *FilterPolicy) Pass(index1 int, rec *fastx.Record) bool {
	if len(rec.Seq) <= p.MinLength {
		return false
	}
	if p.DropAmbiguous && biosimd.IsNonACGTPresentNoCase(rec.Seq) {
		return false
	}
	if p.KeepOdd && index1%2 == 0 {
		return false
	}
	if p.KeepEven && index1%2 == 1 {
		return false
	}
	return true
}

// MaskPolicy describes which bases are masked and how.
type MaskPolicy struct {
	// MaskChar replaces masked bases when HasMaskChar is set.  Otherwise
	// masked bases are lowercased.
	MaskChar    byte
	HasMaskChar bool
	// UppercaseFirst uppercases the whole sequence before masking.
	UppercaseFirst bool
	// LowercaseToChar masks bases that are lowercase in the input.  It
	// requires HasMaskChar.
	LowercaseToChar bool
	// Bases whose raw quality byte lies outside [QLow, QHigh] are masked.
	QLow, QHigh byte
	// Regions, if set, masks bases inside the regions listed for the
	// record's ID.
	Regions *interval.Index
	// ComplementRegion masks bases outside the regions instead.  It requires
	// Regions.
	ComplementRegion bool
}

// DefaultMaskPolicy masks nothing.
var DefaultMaskPolicy = MaskPolicy{QLow: 0, QHigh: 255}

// Validate checks that the policy is self-consistent.
func (p MaskPolicy) Validate() error {
	if p.ComplementRegion && p.Regions == nil {
		return errors.E(errors.Invalid, "mask-complement-region requires a region file (--mask-regions)")
	}
	if p.LowercaseToChar && !p.HasMaskChar {
		return errors.E(errors.Invalid, "lowercases-to-char requires --mask-char")
	}
	return nil
}

// OutputPolicy describes how transformed records are emitted.
type OutputPolicy struct {
	// ReverseComplement emits only the reverse complement of each record.
	ReverseComplement bool
	// BothComplement emits each record followed by its reverse complement.
	BothComplement bool
	// LineLength, if positive, wraps sequence and quality lines.
	LineLength int
	// RescaleQual33 re-encodes qualities with offset 33; QualityShift holds
	// the difference to the input offset, which may be zero.
	RescaleQual33 bool
	// QualityShift is added to each quality byte.
	QualityShift int
	// FakeQuality replaces every quality byte when HasFakeQuality is set.
	// FASTA input is then written as FASTQ.
	FakeQuality    byte
	HasFakeQuality bool
	// FastaOnly writes FASTA regardless of the input format.
	FastaOnly bool
	// TrimHeader drops the header comment after the first whitespace.
	TrimHeader bool
}

// Validate checks that the policy is self-consistent.
func (p OutputPolicy) Validate() error {
	if p.ReverseComplement && p.BothComplement {
		return errors.E(errors.Invalid, "reverse-complement and both-complement are mutually exclusive")
	}
	rescale := p.RescaleQual33 || p.QualityShift != 0
	if p.FastaOnly && rescale {
		return errors.E(errors.Invalid, "output-fasta cannot be combined with output-qual-33")
	}
	if p.FastaOnly && p.HasFakeQuality {
		return errors.E(errors.Invalid, "output-fasta cannot be combined with fake-fastq-quality")
	}
	if rescale && p.HasFakeQuality {
		return errors.E(errors.Invalid, "output-qual-33 cannot be combined with fake-fastq-quality")
	}
	if p.LineLength < 0 {
		return errors.E(errors.Invalid, fmt.Sprintf("negative line length %d", p.LineLength))
	}
	return nil
}

// Format returns the output format for input in the given format.
func (p OutputPolicy) Format(in fastx.Format) fastx.Format {
	switch {
	case p.FastaOnly:
		return fastx.FASTA
	case in == fastx.FASTQ || p.HasFakeQuality:
		return fastx.FASTQ
	}
	return fastx.FASTA
}

// WriterOpts returns the writer configuration for input in the given format.
func (p OutputPolicy) WriterOpts(in fastx.Format) fastx.WriterOpts {
	return fastx.WriterOpts{
		Format:     p.Format(in),
		LineLength: p.LineLength,
		TrimHeader: p.TrimHeader,
	}
}

// renderQual produces the output quality bytes for a record whose sequence
// has n bases.  qual is owned by the caller and is modified in place when
// shifting.  It returns nil when the output has no qualities.
func (p *OutputPolicy) renderQual(out fastx.Format, qual []byte, n int) []byte {
	if out != fastx.FASTQ {
		return nil
	}
	if p.HasFakeQuality {
		fake := make([]byte, n)
		for i := range fake {
			fake[i] = p.FakeQuality
		}
		return fake
	}
	if p.QualityShift != 0 {
		for i, q := range qual {
			v := int(q) + p.QualityShift
			if v < 0 {
				v = 0
			} else if v > 255 {
				v = 255
			}
			qual[i] = byte(v)
		}
	}
	return qual
}

// Opts bundles the policies used by Run.
type Opts struct {
	Filter FilterPolicy
	Mask   MaskPolicy
	Output OutputPolicy
}

// DefaultOpts passes, masks and rewrites nothing.
var DefaultOpts = Opts{Mask: DefaultMaskPolicy}

// Validate checks every policy.  It must be called before Run.
func (o Opts) Validate() error {
	var once errors.Once
	once.Set(o.Filter.Validate())
	once.Set(o.Mask.Validate())
	once.Set(o.Output.Validate())
	return once.Err()
}
