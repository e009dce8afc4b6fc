// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package fastx reads and writes FASTA and FASTQ records through a single
// record type.  The input format is detected from the first non-blank byte
// ('>' for FASTA, '@' for FASTQ), and gzip-compressed input is decompressed
// transparently.
package fastx

import (
	"bytes"
	"fmt"
)

// Format identifies a sequence file format.
type Format int

const (
	// FASTA records carry a name and a sequence.
	FASTA Format = iota
	// FASTQ records additionally carry one quality byte per base.
	FASTQ
)

// String implements fmt.Stringer.
func (f Format) String() string {
	switch f {
	case FASTA:
		return "FASTA"
	case FASTQ:
		return "FASTQ"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// Record is a FASTA or FASTQ record.  Name is the header line without its
// leading '>' or '@'.  Qual is nil for FASTA records; otherwise
// len(Qual) == len(Seq).
type Record struct {
	Name, Seq, Qual []byte
}

// HasQual tells whether the record carries base qualities.
func (r *Record) HasQual() bool {
	return r.Qual != nil
}

// ID returns the header up to the first space or tab.  It aliases r.Name.
func (r *Record) ID() []byte {
	if i := bytes.IndexAny(r.Name, " \t"); i >= 0 {
		return r.Name[:i]
	}
	return r.Name
}
