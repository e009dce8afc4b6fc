package fasta

import (
	"io"

	"github.com/pkg/errors"
)

// Writer writes FASTA records, optionally wrapping sequence lines.
type Writer struct {
	w       io.Writer
	lineLen int
	err     error
}

// NewWriter returns a Writer that wraps sequence lines after lineLen bytes.
// lineLen <= 0 writes each sequence on a single line.
func NewWriter(w io.Writer, lineLen int) *Writer {
	return &Writer{w: w, lineLen: lineLen}
}

// Write emits rec.  The writer does not retain rec.
func (w *Writer) Write(rec *Record) error {
	w.write([]byte{'>'})
	w.write(rec.Name)
	w.write([]byte{'\n'})
	seq := rec.Seq
	if w.lineLen > 0 {
		for len(seq) > w.lineLen {
			w.write(seq[:w.lineLen])
			w.write([]byte{'\n'})
			seq = seq[w.lineLen:]
		}
	}
	if len(seq) != 0 || len(rec.Seq) == 0 {
		w.write(seq)
		w.write([]byte{'\n'})
	}
	return w.err
}

// Err returns the first write error.
func (w *Writer) Err() error {
	return w.err
}

func (w *Writer) write(b []byte) {
	if w.err != nil {
		return
	}
	if _, err := w.w.Write(b); err != nil {
		w.err = errors.Wrap(err, "writing FASTA record")
	}
}
