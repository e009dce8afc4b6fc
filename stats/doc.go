// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package stats computes summary tables over FASTA and FASTQ files: the
// length distribution (Size), per-record nucleotide composition (Comp), and
// per-position base and quality tallies (QualCheck).  Tables are written as
// TSV.
package stats
