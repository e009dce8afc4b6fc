// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/seqtk/encoding/fastx"
	"github.com/grailbio/seqtk/sample"
	"v.io/x/lib/cmdline"
)

func newCmdSample() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "sample",
		Short:    "Randomly subsample FASTA/FASTQ records",
		ArgsName: "[path]",
	}
	o := sample.DefaultOpts
	for _, name := range []string{"s", "random-seed"} {
		cmd.Flags.Int64Var(&o.Seed, name, o.Seed, "Random seed")
	}
	for _, name := range []string{"f", "sample-fraction"} {
		cmd.Flags.Float64Var(&o.Fraction, name, o.Fraction, "Fraction of records to keep, in [0, 1]")
	}
	for _, name := range []string{"n", "by-name"} {
		cmd.Flags.BoolVar(&o.ByName, name, o.ByName, "Select records by a hash of their name, so mates are kept together regardless of file order")
	}
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if err := o.Validate(); err != nil {
			return err
		}
		ctx := vcontext.Background()
		return withInput(ctx, "sample", argv, func(in *fastx.Input) error {
			out := fastx.NewWriter(env.Stdout, fastx.WriterOpts{Format: in.Format()})
			stats, err := sample.Run(ctx, o, in.Scanner, out)
			if err != nil {
				return err
			}
			log.Debug.Printf("sample: %s: kept %d of %d records", in.Path(), stats.Written, stats.Read)
			return out.Flush()
		})
	})
	return cmd
}
