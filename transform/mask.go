// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package transform

import (
	gunsafe "github.com/grailbio/base/unsafe"
	"github.com/grailbio/seqtk/biosimd"
	"github.com/grailbio/seqtk/encoding/fastx"
	"github.com/grailbio/seqtk/interval"
)

// Masker applies a MaskPolicy to records.  It holds no per-record state, so
// a single Masker may be shared.
type Masker struct {
	policy MaskPolicy
}

// NewMasker creates a Masker.  p must have been validated.
func NewMasker(p MaskPolicy) *Masker {
	return &Masker{policy: p}
}

// Transform returns a copy of rec with masking applied.  The returned
// record's Seq and Qual never alias rec's, and Qual is nil iff rec.Qual is.
//
// Masking decisions for base i are made in this order, and the first
// matching rule wins:
//
//   1. LowercaseToChar and the input base (before UppercaseFirst) is lowercase.
//   2. The base has a quality outside [QLow, QHigh].
//   3. The base is inside a region (or outside, with ComplementRegion).
func (m *Masker) Transform(rec *fastx.Record) fastx.Record {
	p := &m.policy
	out := fastx.Record{
		Name: rec.Name,
		Seq:  append([]byte(nil), rec.Seq...),
	}
	if rec.Qual != nil {
		out.Qual = append([]byte(nil), rec.Qual...)
	}
	if p.UppercaseFirst {
		biosimd.ToUpper8Inplace(out.Seq)
	}
	var ivs []interval.Interval
	if p.Regions != nil {
		ivs = p.Regions.Lookup(gunsafe.BytesToString(rec.ID()))
	}
	hasQual := out.Qual != nil
	cursor := 0
	for i := range out.Seq {
		var mask bool
		switch {
		case p.LowercaseToChar && biosimd.IsLower(rec.Seq[i]):
			mask = true
		case hasQual && (out.Qual[i] < p.QLow || out.Qual[i] > p.QHigh):
			mask = true
		case p.Regions != nil:
			var overlap bool
			overlap, cursor = interval.Query(i, ivs, cursor)
			mask = overlap != p.ComplementRegion
		}
		if !mask {
			continue
		}
		if p.HasMaskChar {
			out.Seq[i] = p.MaskChar
		} else {
			out.Seq[i] = biosimd.ToLower8(out.Seq[i])
		}
	}
	return out
}
