// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package transform

import (
	"bytes"
	"math/rand"
	"strconv"
	"strings"
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/seqtk/biosimd"
	"github.com/grailbio/seqtk/encoding/fastx"
	"github.com/grailbio/seqtk/interval"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

func mustIndex(t *testing.T, bed string) *interval.Index {
	idx, err := interval.NewIndex(strings.NewReader(bed))
	assert.NoError(t, err)
	return idx
}

func runString(t *testing.T, opts Opts, input string) (string, Stats) {
	assert.NoError(t, opts.Validate())
	in, err := fastx.NewScanner(strings.NewReader(input))
	assert.NoError(t, err)
	var b bytes.Buffer
	out := fastx.NewWriter(&b, opts.Output.WriterOpts(in.Format()))
	stats, err := Run(vcontext.Background(), opts, in, out)
	assert.NoError(t, err)
	assert.NoError(t, out.Flush())
	return b.String(), stats
}

func TestFilterPass(t *testing.T) {
	rec := func(seq string) *fastx.Record {
		return &fastx.Record{Name: []byte("r"), Seq: []byte(seq)}
	}
	tests := []struct {
		policy FilterPolicy
		index1 int
		seq    string
		want   bool
	}{
		{FilterPolicy{}, 1, "A", true},
		{FilterPolicy{}, 1, "", false},
		{FilterPolicy{MinLength: 4}, 1, "ACGT", false},
		{FilterPolicy{MinLength: 4}, 1, "ACGTA", true},
		{FilterPolicy{DropAmbiguous: true}, 1, "acgtACGT", true},
		{FilterPolicy{DropAmbiguous: true}, 1, "ACGNT", false},
		{FilterPolicy{DropAmbiguous: true}, 1, "ACGRT", false},
		{FilterPolicy{KeepOdd: true}, 1, "A", true},
		{FilterPolicy{KeepOdd: true}, 2, "A", false},
		{FilterPolicy{KeepEven: true}, 3, "A", false},
		{FilterPolicy{KeepEven: true}, 4, "A", true},
	}
	for _, tt := range tests {
		expect.EQ(t, tt.policy.Pass(tt.index1, rec(tt.seq)), tt.want, "%+v %d %q", tt.policy, tt.index1, tt.seq)
	}
}

func TestValidate(t *testing.T) {
	idx := mustIndex(t, "r\t0\t1\n")
	bad := []Opts{
		{Filter: FilterPolicy{KeepOdd: true, KeepEven: true}},
		{Filter: FilterPolicy{MinLength: -1}},
		{Mask: MaskPolicy{QHigh: 255, ComplementRegion: true}},
		{Mask: MaskPolicy{QHigh: 255, LowercaseToChar: true}},
		{Output: OutputPolicy{ReverseComplement: true, BothComplement: true}},
		{Output: OutputPolicy{FastaOnly: true, QualityShift: -31}},
		{Output: OutputPolicy{FastaOnly: true, HasFakeQuality: true, FakeQuality: 'I'}},
		{Output: OutputPolicy{QualityShift: -31, HasFakeQuality: true, FakeQuality: 'I'}},
		{Output: OutputPolicy{FastaOnly: true, RescaleQual33: true}},
		{Output: OutputPolicy{RescaleQual33: true, HasFakeQuality: true, FakeQuality: 'I'}},
		{Output: OutputPolicy{LineLength: -1}},
	}
	for _, o := range bad {
		err := o.Validate()
		expect.True(t, err != nil, "%+v", o)
		expect.True(t, errors.Is(errors.Invalid, err), "%+v: %v", o, err)
	}
	good := []Opts{
		DefaultOpts,
		{Mask: MaskPolicy{QHigh: 255, Regions: idx, ComplementRegion: true}},
		{Mask: MaskPolicy{QHigh: 255, LowercaseToChar: true, HasMaskChar: true, MaskChar: 'N'}},
		{Output: OutputPolicy{BothComplement: true, LineLength: 60, QualityShift: -31}},
		{Output: OutputPolicy{RescaleQual33: true}},
		// Uppercasing does not hide lowercase input from LowercaseToChar.
		{Mask: MaskPolicy{QHigh: 255, UppercaseFirst: true, LowercaseToChar: true, HasMaskChar: true, MaskChar: 'N'}},
	}
	for _, o := range good {
		expect.NoError(t, o.Validate())
	}
}

func randomRecord(r *rand.Rand, withQual bool) fastx.Record {
	const alphabet = "ACGTNacgtnRYKMrykm"
	n := r.Intn(200)
	rec := fastx.Record{Name: []byte("r"), Seq: make([]byte, n)}
	for i := range rec.Seq {
		rec.Seq[i] = alphabet[r.Intn(len(alphabet))]
	}
	if withQual {
		rec.Qual = make([]byte, n)
		for i := range rec.Qual {
			rec.Qual[i] = byte(33 + r.Intn(42))
		}
	}
	return rec
}

func TestMaskIdempotent(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	m := NewMasker(DefaultMaskPolicy)
	for i := 0; i < 500; i++ {
		rec := randomRecord(r, i%2 == 0)
		got := m.Transform(&rec)
		expect.EQ(t, string(got.Seq), string(rec.Seq))
		expect.EQ(t, string(got.Qual), string(rec.Qual))
		expect.EQ(t, got.Qual == nil, rec.Qual == nil)
	}
}

func TestMaskDoesNotAlias(t *testing.T) {
	rec := fastx.Record{Name: []byte("r"), Seq: []byte("ACGT"), Qual: []byte("IIII")}
	got := NewMasker(MaskPolicy{QHigh: 255, HasMaskChar: true, MaskChar: 'N', QLow: 'J'}).Transform(&rec)
	expect.EQ(t, string(got.Seq), "NNNN")
	expect.EQ(t, string(rec.Seq), "ACGT")
	got.Qual[0] = '!'
	expect.EQ(t, string(rec.Qual), "IIII")
}

func TestMask(t *testing.T) {
	idx := mustIndex(t, "r1\t2\t4\nr1\t6\t7\n")
	tests := []struct {
		name   string
		policy MaskPolicy
		rec    fastx.Record
		want   string
	}{
		{
			"uppercase",
			MaskPolicy{QHigh: 255, UppercaseFirst: true},
			fastx.Record{Name: []byte("x"), Seq: []byte("acgTn")},
			"ACGTN",
		},
		{
			"lowercase to char checks the input case",
			MaskPolicy{QHigh: 255, UppercaseFirst: true, LowercaseToChar: true, HasMaskChar: true, MaskChar: 'X'},
			fastx.Record{Name: []byte("x"), Seq: []byte("aCGTacgt")},
			"XCGTXXXX",
		},
		{
			"quality below q-low",
			MaskPolicy{QLow: '*', QHigh: 255},
			fastx.Record{Name: []byte("x"), Seq: []byte("ACGTACGT"), Qual: []byte("II#IIII#")},
			"ACgTACGt",
		},
		{
			"quality above q-high",
			MaskPolicy{QLow: 0, QHigh: 'A', HasMaskChar: true, MaskChar: 'N'},
			fastx.Record{Name: []byte("x"), Seq: []byte("ACGT"), Qual: []byte("I#I#")},
			"NCNT",
		},
		{
			"quality ignored for FASTA",
			MaskPolicy{QLow: 'I', QHigh: 'I'},
			fastx.Record{Name: []byte("x"), Seq: []byte("ACGT")},
			"ACGT",
		},
		{
			"regions keyed by ID",
			MaskPolicy{QHigh: 255, Regions: idx},
			fastx.Record{Name: []byte("r1 some comment"), Seq: []byte("ACGTACGT")},
			"ACgtACgT",
		},
		{
			"complement regions",
			MaskPolicy{QHigh: 255, Regions: idx, ComplementRegion: true, HasMaskChar: true, MaskChar: 'N'},
			fastx.Record{Name: []byte("r1"), Seq: []byte("ACGTACGT")},
			"NNGTNNGN",
		},
		{
			"name absent from regions",
			MaskPolicy{QHigh: 255, Regions: idx},
			fastx.Record{Name: []byte("r2"), Seq: []byte("ACGT")},
			"ACGT",
		},
		{
			"name absent from complement regions",
			MaskPolicy{QHigh: 255, Regions: idx, ComplementRegion: true},
			fastx.Record{Name: []byte("r2"), Seq: []byte("ACGT")},
			"acgt",
		},
		{
			"quality and region together",
			MaskPolicy{QLow: '*', QHigh: 255, Regions: idx, HasMaskChar: true, MaskChar: 'N'},
			fastx.Record{Name: []byte("r1"), Seq: []byte("ACGTACGT"), Qual: []byte("#IIIIIII")},
			"NCNNACNT",
		},
	}
	for _, tt := range tests {
		got := NewMasker(tt.policy).Transform(&tt.rec)
		expect.EQ(t, string(got.Seq), tt.want, tt.name)
	}
}

func TestMaskRegionsMatchBruteForce(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	var bed strings.Builder
	var ivs []interval.Interval
	for i := 0; i < 20; i++ {
		start := r.Intn(180)
		end := start + r.Intn(15)
		ivs = append(ivs, interval.Interval{Start: start, End: end})
		bed.WriteString("r\t")
		bed.WriteString(strconv.Itoa(start))
		bed.WriteString("\t")
		bed.WriteString(strconv.Itoa(end))
		bed.WriteString("\n")
	}
	idx := mustIndex(t, bed.String())
	for _, complement := range []bool{false, true} {
		m := NewMasker(MaskPolicy{QHigh: 255, Regions: idx, ComplementRegion: complement, HasMaskChar: true, MaskChar: 'N'})
		rec := fastx.Record{Name: []byte("r"), Seq: bytes.Repeat([]byte("A"), 200)}
		got := m.Transform(&rec)
		for pos := range got.Seq {
			inside := false
			for _, iv := range ivs {
				inside = inside || iv.Contains(pos)
			}
			expect.EQ(t, got.Seq[pos] == 'N', inside != complement, "pos %d complement %v", pos, complement)
		}
	}
}

func TestReverseComplementInvolution(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	for i := 0; i < 200; i++ {
		rec := randomRecord(r, true)
		orig := fastx.Record{Seq: append([]byte(nil), rec.Seq...), Qual: append([]byte(nil), rec.Qual...)}
		reverseComplementInPlace(&rec)
		reverseComplementInPlace(&rec)
		expect.EQ(t, string(rec.Seq), string(orig.Seq))
		expect.EQ(t, string(rec.Qual), string(orig.Qual))
	}
}

const fq = "@r1 c\nACGTN\n+\nABCDE\n@r2\naaCC\n+\nIIII\n@r3\nGG\n+\nhh\n"

func TestRunMaskLargeRegionFile(t *testing.T) {
	// r1's intervals are spread across a region file much larger than a
	// single read buffer.
	var bed strings.Builder
	bed.WriteString("r1\t0\t1\n")
	for i := 0; i < 20000; i++ {
		bed.WriteString("filler" + strconv.Itoa(i) + "\t0\t100\n")
	}
	bed.WriteString("r1\t3\t4\n")
	opts := DefaultOpts
	opts.Mask.Regions = mustIndex(t, bed.String())
	got, _ := runString(t, opts, fq)
	expect.EQ(t, got, "@r1 c\naCGtN\n+\nABCDE\n@r2\naaCC\n+\nIIII\n@r3\nGG\n+\nhh\n")
}

func TestRunDefault(t *testing.T) {
	got, stats := runString(t, DefaultOpts, fq)
	expect.EQ(t, got, fq)
	expect.EQ(t, stats, Stats{Read: 3, Passed: 3, Written: 3})
}

func TestRunReverseComplement(t *testing.T) {
	opts := DefaultOpts
	opts.Output.ReverseComplement = true
	got, stats := runString(t, opts, fq)
	expect.EQ(t, got, "@r1 c\nNACGT\n+\nEDCBA\n@r2\nGGtt\n+\nIIII\n@r3\nCC\n+\nhh\n")
	expect.EQ(t, stats.Written, 3)
}

func TestRunBothComplement(t *testing.T) {
	opts := DefaultOpts
	opts.Output.BothComplement = true
	opts.Filter.KeepOdd = true
	opts.Mask.QLow = 'B'
	got, stats := runString(t, opts, fq)
	// The second copy is the reverse complement of the masked first copy.
	expect.EQ(t, got, "@r1 c\naCGTN\n+\nABCDE\n@r1 c\nNACGt\n+\nEDCBA\n@r3\nGG\n+\nhh\n@r3\nCC\n+\nhh\n")
	expect.EQ(t, stats, Stats{Read: 3, Passed: 2, Written: 4})
}

func TestRunQuality(t *testing.T) {
	opts := DefaultOpts
	opts.Output.QualityShift = -31
	opts.Filter.KeepEven = true
	got, _ := runString(t, opts, "@a\nAC\n+\nhh\n@b\nAC\n+\nhI\n")
	expect.EQ(t, got, "@b\nAC\n+\nI*\n")

	opts = DefaultOpts
	opts.Output.FastaOnly = true
	opts.Output.TrimHeader = true
	got, _ = runString(t, opts, fq)
	expect.EQ(t, got, ">r1\nACGTN\n>r2\naaCC\n>r3\nGG\n")

	opts = DefaultOpts
	opts.Output.HasFakeQuality = true
	opts.Output.FakeQuality = '5'
	got, _ = runString(t, opts, fq)
	expect.EQ(t, got, "@r1 c\nACGTN\n+\n55555\n@r2\naaCC\n+\n5555\n@r3\nGG\n+\n55\n")
}

func TestRunFasta(t *testing.T) {
	const fa = ">s1\nACGTACGTAC\n>s2\nNNAC\n"
	opts := DefaultOpts
	opts.Filter.DropAmbiguous = true
	opts.Output.LineLength = 4
	got, stats := runString(t, opts, fa)
	expect.EQ(t, got, ">s1\nACGT\nACGT\nAC\n")
	expect.EQ(t, stats, Stats{Read: 2, Passed: 1, Written: 1})

	// Fake quality turns FASTA into FASTQ.
	opts = DefaultOpts
	opts.Output.HasFakeQuality = true
	opts.Output.FakeQuality = 'I'
	got, _ = runString(t, opts, fa)
	expect.EQ(t, got, "@s1\nACGTACGTAC\n+\nIIIIIIIIII\n@s2\nNNAC\n+\nIIII\n")
}

func TestRunMalformed(t *testing.T) {
	in, err := fastx.NewScanner(strings.NewReader("@a\nAC\n+\nII\n@b\nAC\n"))
	assert.NoError(t, err)
	var b bytes.Buffer
	out := fastx.NewWriter(&b, DefaultOpts.Output.WriterOpts(in.Format()))
	stats, err := Run(vcontext.Background(), DefaultOpts, in, out)
	expect.True(t, err != nil)
	expect.EQ(t, stats.Written, 1)
}

func TestComplementTableUsed(t *testing.T) {
	rec := fastx.Record{Seq: []byte("ACGTRYKMBVDHNacgt")}
	reverseComplementInPlace(&rec)
	expect.EQ(t, string(rec.Seq), "acgtNDHBVKMRYACGT")
	expect.EQ(t, biosimd.ComplementIUPAC8('N'), byte('N'))
}
