// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/seqtk/encoding/fastx"
	"github.com/grailbio/seqtk/trim"
	"v.io/x/lib/cmdline"
)

func newCmdTrimfq() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "trimfq",
		Short:    "Trim low-quality bases from FASTQ reads",
		ArgsName: "[path]",
		Long: `
Each read is cut to the window that starts at the first base with quality
>= -q and maximizes the sum of (quality - q). Reads without such a base are
dropped. Windows shorter than --min-length are extended, first towards the 3'
end; reads shorter than --min-length are written untrimmed.
`,
	}
	p := trim.DefaultParams
	cmd.Flags.IntVar(&p.Threshold, "q", p.Threshold, "Quality threshold")
	for _, name := range []string{"m", "min-length"} {
		cmd.Flags.IntVar(&p.MinLength, name, p.MinLength, "Minimum length of a trimmed read")
	}
	for _, name := range []string{"a", "ascii-base"} {
		cmd.Flags.IntVar(&p.AsciiBase, name, p.AsciiBase, "Quality offset of the input")
	}
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if err := p.Validate(); err != nil {
			return err
		}
		ctx := vcontext.Background()
		return withInput(ctx, "trimfq", argv, func(in *fastx.Input) error {
			out := fastx.NewWriter(env.Stdout, fastx.WriterOpts{Format: fastx.FASTQ})
			stats, err := trim.Run(ctx, p, in.Scanner, out)
			if err != nil {
				return err
			}
			log.Debug.Printf("trimfq: %s: %d reads, %d discarded", in.Path(), stats.Read, stats.Discarded)
			return out.Flush()
		})
	})
	return cmd
}
