package fastq

import "io"

var (
	newline = []byte{'\n'}
	at      = []byte{'@'}
	plus    = []byte{'+', '\n'}
)

// Writer is a FASTQ file writer.
type Writer struct {
	w   io.Writer
	err error
	// lineLen, if positive, wraps sequence and quality lines at that many
	// bytes.
	lineLen int
}

// NewWriter constructs a new FASTQ writer
// that writes reads to the underlying writer w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// NewWrappingWriter is like NewWriter, but breaks sequence and quality
// lines after every lineLen bytes.  lineLen <= 0 disables wrapping.
func NewWrappingWriter(w io.Writer, lineLen int) *Writer {
	return &Writer{w: w, lineLen: lineLen}
}

// Write writes the read r in FASTQ format.  The writer does not retain r.
// An error is returned if the write failed.
func (w *Writer) Write(r *Read) error {
	w.write(at)
	w.writeln(r.Name)
	w.writeWrapped(r.Seq)
	w.write(plus)
	w.writeWrapped(r.Qual)
	return w.err
}

// Err returns the first error encountered by Write.
func (w *Writer) Err() error {
	return w.err
}

func (w *Writer) writeWrapped(line []byte) {
	if w.lineLen <= 0 || len(line) <= w.lineLen {
		w.writeln(line)
		return
	}
	for len(line) > w.lineLen {
		w.writeln(line[:w.lineLen])
		line = line[w.lineLen:]
	}
	if len(line) != 0 {
		w.writeln(line)
	}
}

func (w *Writer) writeln(line []byte) {
	w.write(line)
	w.write(newline)
}

func (w *Writer) write(b []byte) {
	if w.err != nil {
		return
	}
	_, w.err = w.w.Write(b)
}
