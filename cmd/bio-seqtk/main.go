// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

/*
bio-seqtk transforms and summarizes FASTA and FASTQ files.  Each subcommand
reads one file (or the standard input when the path is omitted or "-"),
optionally gzip-compressed, and writes to the standard output.

  bio-seqtk seq    [flags] [path]  filter, mask and reverse-complement records
  bio-seqtk trimfq [flags] [path]  quality-trim FASTQ reads
  bio-seqtk sample [flags] [path]  randomly subsample records
  bio-seqtk size   [path]          length statistics
  bio-seqtk comp   [flags] [path]  per-record nucleotide composition
  bio-seqtk fqchk  [flags] [path]  per-position base and quality statistics
*/
package main

import (
	"context"
	"fmt"
	"time"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/seqtk/encoding/fastx"
	"v.io/x/lib/cmdline"
)

func newCmdRoot() *cmdline.Command {
	return &cmdline.Command{
		Name:     "bio-seqtk",
		Short:    "Toolkit for processing sequences in FASTA/FASTQ format",
		LookPath: false,
		Children: []*cmdline.Command{
			newCmdSeq(),
			newCmdTrimfq(),
			newCmdSample(),
			newCmdSize(),
			newCmdComp(),
			newCmdFqchk(),
		},
	}
}

// withInput opens the single optional path in argv, runs f on it and
// reports the elapsed time.
func withInput(ctx context.Context, name string, argv []string, f func(in *fastx.Input) error) (err error) {
	start := time.Now()
	if len(argv) > 1 {
		return errors.E(errors.Invalid, fmt.Sprintf("%s takes at most one path argument, but got %v", name, argv))
	}
	path := fastx.StdinPath
	if len(argv) == 1 {
		path = argv[0]
	}
	in, err := fastx.Open(ctx, path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := in.Close(); cerr != nil && err == nil {
			err = cerr
		}
		log.Printf("%s: process time %v", name, time.Since(start))
	}()
	return f(in)
}

func main() {
	cmdline.HideGlobalFlagsExcept()
	cmdline.Main(newCmdRoot())
}
