// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package fastx

import (
	"bufio"
	"fmt"
	"io"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/seqtk/encoding/fasta"
	"github.com/grailbio/seqtk/encoding/fastq"
)

// WriterOpts configures a Writer.
type WriterOpts struct {
	// Format is the output format.
	Format Format
	// LineLength, if positive, wraps sequence and quality lines after that
	// many bytes.
	LineLength int
	// TrimHeader drops everything after the first whitespace of the name.
	TrimHeader bool
}

// Writer writes records in a fixed format through a buffer.  Flush must be
// called once writing is done.
type Writer struct {
	opts WriterOpts
	buf  *bufio.Writer
	fa   *fasta.Writer
	fq   *fastq.Writer
	n    int
}

// NewWriter creates a Writer on w.
func NewWriter(w io.Writer, opts WriterOpts) *Writer {
	buf := bufio.NewWriterSize(w, 1<<16)
	out := &Writer{opts: opts, buf: buf}
	if opts.Format == FASTQ {
		out.fq = fastq.NewWrappingWriter(buf, opts.LineLength)
	} else {
		out.fa = fasta.NewWriter(buf, opts.LineLength)
	}
	return out
}

// Format returns the output format.
func (w *Writer) Format() Format {
	return w.opts.Format
}

// Write emits rec.  The writer does not retain rec, so the caller may modify
// its buffers once Write returns.  Writing a record without qualities to a
// FASTQ writer is an error.
func (w *Writer) Write(rec *Record) error {
	name := rec.Name
	if w.opts.TrimHeader {
		name = rec.ID()
	}
	var err error
	if w.fq != nil {
		if len(rec.Qual) != len(rec.Seq) {
			return errors.E(errors.Invalid, fmt.Sprintf("fastx: record %q has %d bases but %d qualities", name, len(rec.Seq), len(rec.Qual)))
		}
		err = w.fq.Write(&fastq.Read{Name: name, Seq: rec.Seq, Qual: rec.Qual})
	} else {
		err = w.fa.Write(&fasta.Record{Name: name, Seq: rec.Seq})
	}
	if err != nil {
		return errors.E(err, "fastx: write")
	}
	w.n++
	return nil
}

// NumWritten returns the number of records written.
func (w *Writer) NumWritten() int {
	return w.n
}

// Flush writes any buffered data to the underlying writer.
func (w *Writer) Flush() error {
	if err := w.buf.Flush(); err != nil {
		return errors.E(err, "fastx: flush")
	}
	return nil
}
