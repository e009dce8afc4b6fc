// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package fastx

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/grailbio/seqtk/encoding/fasta"
	"github.com/grailbio/seqtk/encoding/fastq"
	"github.com/klauspost/compress/gzip"
)

// StdinPath names the standard input in Open.
const StdinPath = "-"

// Scanner reads FASTA or FASTQ records.  Every successful Scan fills the
// record with freshly allocated buffers which the caller then owns.
type Scanner struct {
	format Format
	fa     *fasta.Scanner
	fq     *fastq.Scanner
	n      int
	err    error
}

// NewScanner sniffs the format of r and returns a Scanner for it.  Empty
// input is reported as FASTA with no records.
func NewScanner(r io.Reader) (*Scanner, error) {
	br := bufio.NewReaderSize(r, 1<<16)
	format, err := sniff(br)
	if err != nil {
		return nil, err
	}
	s := &Scanner{format: format}
	if format == FASTQ {
		s.fq = fastq.NewScanner(br)
	} else {
		s.fa = fasta.NewScanner(br)
	}
	return s, nil
}

func sniff(br *bufio.Reader) (Format, error) {
	for i := 1; ; i++ {
		b, err := br.Peek(i)
		if len(b) < i {
			if err == io.EOF {
				return FASTA, nil
			}
			return FASTA, errors.E(err, "fastx: reading input")
		}
		switch c := b[i-1]; c {
		case ' ', '\t', '\r', '\n':
			continue
		case '>':
			return FASTA, nil
		case '@':
			return FASTQ, nil
		default:
			return FASTA, errors.E(errors.Invalid, fmt.Sprintf("fastx: input is neither FASTA nor FASTQ (first byte %q)", c))
		}
	}
}

// Format returns the detected input format.
func (s *Scanner) Format() Format {
	return s.format
}

// Scan reads the next record into rec.  It returns false at the end of the
// input or on the first malformed record.
func (s *Scanner) Scan(rec *Record) bool {
	if s.err != nil {
		return false
	}
	var ok bool
	if s.fq != nil {
		var r fastq.Read
		if ok = s.fq.Scan(&r); ok {
			rec.Name, rec.Seq, rec.Qual = r.Name, r.Seq, r.Qual
		} else if err := s.fq.Err(); err != nil {
			s.err = s.recordErr(err)
		}
	} else {
		var r fasta.Record
		if ok = s.fa.Scan(&r); ok {
			rec.Name, rec.Seq, rec.Qual = r.Name, r.Seq, nil
		} else if err := s.fa.Err(); err != nil {
			s.err = s.recordErr(err)
		}
	}
	if ok {
		s.n++
	}
	return ok
}

func (s *Scanner) recordErr(err error) error {
	return errors.E(err, fmt.Sprintf("fastx: malformed %v record #%d", s.format, s.n+1))
}

// Err returns the error that stopped the scan, if any.
func (s *Scanner) Err() error {
	return s.err
}

// NumRead returns the number of records read so far.
func (s *Scanner) NumRead() int {
	return s.n
}

// Input is a Scanner over an opened file.  Close releases the file.
type Input struct {
	*Scanner
	path   string
	closer []func() error
}

// Open opens path, which may be StdinPath or any path understood by
// github.com/grailbio/base/file, and returns a Scanner over its records.
// Gzip input is detected by file name or by magic number.
func Open(ctx context.Context, path string) (in *Input, err error) {
	in = &Input{path: path}
	var r io.Reader
	if path == StdinPath {
		r = os.Stdin
	} else {
		var f file.File
		if f, err = file.Open(ctx, path); err != nil {
			return nil, errors.E(err, "fastx: open", path)
		}
		in.closer = append(in.closer, func() error { return f.Close(ctx) })
		r = f.Reader(ctx)
	}
	defer func() {
		if err != nil {
			_ = in.Close()
			in = nil
		}
	}()
	br := bufio.NewReaderSize(r, 1<<16)
	if fileio.DetermineType(path) == fileio.Gzip || isGzip(br) {
		var gz *gzip.Reader
		if gz, err = gzip.NewReader(br); err != nil {
			return nil, errors.E(err, "fastx: gzip", path)
		}
		in.closer = append(in.closer, gz.Close)
		r = gz
	} else {
		r = br
	}
	if in.Scanner, err = NewScanner(r); err != nil {
		return nil, errors.E(err, path)
	}
	return in, nil
}

func isGzip(br *bufio.Reader) bool {
	magic, _ := br.Peek(2)
	return len(magic) == 2 && magic[0] == 0x1f && magic[1] == 0x8b
}

// Path returns the path passed to Open.
func (in *Input) Path() string {
	return in.path
}

// Close closes the underlying decompressor and file, innermost first.
func (in *Input) Close() error {
	var once errors.Once
	for i := len(in.closer) - 1; i >= 0; i-- {
		once.Set(in.closer[i]())
	}
	in.closer = nil
	return once.Err()
}
