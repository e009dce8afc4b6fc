// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/seqtk/encoding/fastx"
	"github.com/grailbio/seqtk/interval"
	"github.com/grailbio/seqtk/stats"
	"v.io/x/lib/cmdline"
)

func newCmdSize() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "size",
		Short:    "Report #seqs #bases avg_size min_size med_size max_size N50",
		ArgsName: "[path]",
	}
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		ctx := vcontext.Background()
		return withInput(ctx, "size", argv, func(in *fastx.Input) error {
			_, err := stats.RunSize(ctx, in.Scanner, env.Stdout)
			return err
		})
	})
	return cmd
}

func newCmdComp() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "comp",
		Short:    "Report the nucleotide composition of each record",
		ArgsName: "[path]",
		Long: `
Output columns are: name, length, #A, #C, #G, #T, #2 (R Y S W K M), #3 (B D H
V), #4 (N), #CG and #GC.
`,
	}
	var (
		opts    stats.CompOpts
		bedPath string
	)
	for _, name := range []string{"u", "exclude-masked"} {
		cmd.Flags.BoolVar(&opts.ExcludeMasked, name, false, "Ignore lowercase (soft-masked) bases")
	}
	for _, name := range []string{"r", "in-bed"} {
		cmd.Flags.StringVar(&bedPath, name, "", "Count only bases inside the regions of this tab-separated file")
	}
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		ctx := vcontext.Background()
		if bedPath != "" {
			var err error
			if opts.Regions, err = interval.NewIndexFromPath(ctx, bedPath); err != nil {
				return err
			}
		}
		return withInput(ctx, "comp", argv, func(in *fastx.Input) error {
			return stats.RunComp(ctx, opts, in.Scanner, env.Stdout)
		})
	})
	return cmd
}

func newCmdFqchk() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "fqchk",
		Short:    "Report per-position base and quality statistics of FASTQ reads",
		ArgsName: "[path]",
	}
	opts := stats.DefaultQualCheckOpts
	for _, name := range []string{"q", "quality-threshold"} {
		cmd.Flags.IntVar(&opts.Threshold, name, opts.Threshold, "Report %low/%high against this quality; 0 reports every observed quality")
	}
	for _, name := range []string{"Q", "ascii-bases"} {
		cmd.Flags.IntVar(&opts.AsciiBase, name, opts.AsciiBase, "Quality offset of the input")
	}
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if err := opts.Validate(); err != nil {
			return err
		}
		ctx := vcontext.Background()
		return withInput(ctx, "fqchk", argv, func(in *fastx.Input) error {
			_, err := stats.RunQualCheck(ctx, opts, in.Scanner, env.Stdout)
			return err
		})
	})
	return cmd
}
