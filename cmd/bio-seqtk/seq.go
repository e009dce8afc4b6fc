// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/seqtk/encoding/fastx"
	"github.com/grailbio/seqtk/interval"
	"github.com/grailbio/seqtk/transform"
	"v.io/x/lib/cmdline"
)

// Collection of options set via cmdline flags
type seqFlags struct {
	minLength         int
	dropAmbiguous     bool
	outputOdd         bool
	outputEven        bool
	qLow, qHigh       int
	maskChar          string
	maskRegions       string
	maskComplement    bool
	uppercase         bool
	lowercaseToChar   bool
	reverseComplement bool
	bothComplement    bool
	lineLength        int
	outputFasta       bool
	fakeQuality       string
	outputQual33      bool
	trimHeader        bool
	asciiBase         int
}

// singleByte parses a flag that must hold exactly one character.
func singleByte(name, v string) (byte, error) {
	if len(v) != 1 {
		return 0, errors.E(errors.Invalid, fmt.Sprintf("--%s must be a single character, got %q", name, v))
	}
	return v[0], nil
}

// rawQual converts a quality score to a raw quality byte, saturating at the
// ends of the byte range.
func rawQual(q, asciiBase int) byte {
	v := q + asciiBase
	if v < 0 {
		return 0
	} else if v > 255 {
		return 255
	}
	return byte(v)
}

// opts builds the transform policies.  The region file is not loaded here;
// regions is substituted for it.
func (f *seqFlags) opts(regions *interval.Index) (transform.Opts, error) {
	o := transform.Opts{
		Filter: transform.FilterPolicy{
			MinLength:     f.minLength,
			DropAmbiguous: f.dropAmbiguous,
			KeepOdd:       f.outputOdd,
			KeepEven:      f.outputEven,
		},
		Mask: transform.MaskPolicy{
			UppercaseFirst:   f.uppercase,
			LowercaseToChar:  f.lowercaseToChar,
			QLow:             rawQual(f.qLow, f.asciiBase),
			QHigh:            rawQual(f.qHigh, f.asciiBase),
			Regions:          regions,
			ComplementRegion: f.maskComplement,
		},
		Output: transform.OutputPolicy{
			ReverseComplement: f.reverseComplement,
			BothComplement:    f.bothComplement,
			LineLength:        f.lineLength,
			FastaOnly:         f.outputFasta,
			TrimHeader:        f.trimHeader,
		},
	}
	if f.asciiBase < 0 || f.asciiBase > 255 {
		return o, errors.E(errors.Invalid, fmt.Sprintf("invalid ascii base %d", f.asciiBase))
	}
	if f.maskChar != "" {
		c, err := singleByte("mask-char", f.maskChar)
		if err != nil {
			return o, err
		}
		o.Mask.MaskChar, o.Mask.HasMaskChar = c, true
	}
	if f.fakeQuality != "" {
		c, err := singleByte("fake-fastq-quality", f.fakeQuality)
		if err != nil {
			return o, err
		}
		o.Output.FakeQuality, o.Output.HasFakeQuality = c, true
	}
	if f.outputQual33 {
		o.Output.RescaleQual33 = true
		o.Output.QualityShift = 33 - f.asciiBase
	}
	return o, o.Validate()
}

func newCmdSeq() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "seq",
		Short:    "Filter, mask and reverse-complement FASTA/FASTQ records",
		ArgsName: "[path]",
		Long: `
Records are read one at a time; each is filtered (length, ambiguous bases,
parity), masked, optionally reverse-complemented, and written in FASTA or
FASTQ format.

A base is masked by the first matching rule below:

  1. --lowercases-to-char and the input base is lowercase;
  2. its quality lies outside [--q-low, --q-high];
  3. it lies inside a --mask-regions interval for the record's name (outside,
     with --mask-complement-region).

Masking replaces the base with --mask-char, or lowercases it if no mask
character is given. The region file is tab-separated "name start end ...",
0-based and half-open.
`,
	}
	var f seqFlags
	fs := &cmd.Flags
	for _, name := range []string{"L", "mini-seq-length"} {
		fs.IntVar(&f.minLength, name, 0, "Drop sequences with length <= this value")
	}
	for _, name := range []string{"N", "drop-ambigous-seq"} {
		fs.BoolVar(&f.dropAmbiguous, name, false, "Drop sequences containing bases other than A, C, G and T")
	}
	for _, name := range []string{"1", "output-odd"} {
		fs.BoolVar(&f.outputOdd, name, false, "Output only the 1st, 3rd, 5th... records")
	}
	for _, name := range []string{"2", "output-even"} {
		fs.BoolVar(&f.outputEven, name, false, "Output only the 2nd, 4th, 6th... records")
	}
	fs.IntVar(&f.qLow, "q-low", 0, "Mask bases with quality lower than this value")
	fs.IntVar(&f.qHigh, "q-high", 255, "Mask bases with quality higher than this value")
	fs.StringVar(&f.maskChar, "mask-char", "", "Replace masked bases with this character instead of lowercasing them")
	for _, name := range []string{"M", "mask-regions"} {
		fs.StringVar(&f.maskRegions, name, "", "Mask bases in the regions listed in this tab-separated file")
	}
	fs.BoolVar(&f.maskComplement, "mask-complement-region", false, "Mask bases outside the --mask-regions intervals instead")
	for _, name := range []string{"U", "uppercases"} {
		fs.BoolVar(&f.uppercase, name, false, "Convert every base to uppercase before masking")
	}
	for _, name := range []string{"x", "lowercases-to-char"} {
		fs.BoolVar(&f.lowercaseToChar, name, false, "Mask lowercase input bases; requires --mask-char")
	}
	for _, name := range []string{"r", "reverse-complement"} {
		fs.BoolVar(&f.reverseComplement, name, false, "Output the reverse complement of each record")
	}
	for _, name := range []string{"R", "both-complement"} {
		fs.BoolVar(&f.bothComplement, name, false, "Output each record followed by its reverse complement")
	}
	for _, name := range []string{"l", "line-len"} {
		fs.IntVar(&f.lineLength, name, 0, "Wrap sequence and quality lines at this length; 0 disables wrapping")
	}
	fs.BoolVar(&f.outputFasta, "output-fasta", false, "Force FASTA output")
	for _, name := range []string{"F", "fake-fastq-quality"} {
		fs.StringVar(&f.fakeQuality, name, "", "Replace every quality with this character; FASTA input is written as FASTQ")
	}
	fs.BoolVar(&f.outputQual33, "output-qual-33", false, "Re-encode qualities with offset 33")
	for _, name := range []string{"C", "trim-header"} {
		fs.BoolVar(&f.trimHeader, name, false, "Drop the header comment after the first whitespace")
	}
	for _, name := range []string{"Q", "ascii-bases"} {
		fs.IntVar(&f.asciiBase, name, 33, "Quality offset of the input")
	}
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		ctx := vcontext.Background()
		var regions *interval.Index
		if f.maskRegions != "" {
			// Flag conflicts are reported before the region file is read.
			if _, err := f.opts(interval.Empty); err != nil {
				return err
			}
			var err error
			if regions, err = interval.NewIndexFromPath(ctx, f.maskRegions); err != nil {
				return err
			}
		}
		opts, err := f.opts(regions)
		if err != nil {
			return err
		}
		return withInput(ctx, "seq", argv, func(in *fastx.Input) error {
			out := fastx.NewWriter(env.Stdout, opts.Output.WriterOpts(in.Format()))
			stats, err := transform.Run(ctx, opts, in.Scanner, out)
			if err != nil {
				return err
			}
			log.Debug.Printf("seq: %s: %d records read, %d passed, %d written", in.Path(), stats.Read, stats.Passed, stats.Written)
			return out.Flush()
		})
	})
	return cmd
}
