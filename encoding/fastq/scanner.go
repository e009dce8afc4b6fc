package fastq

import (
	"bufio"
	"errors"
	"io"
)

var (
	// ErrShort is returned when a truncated FASTQ file is encountered.
	ErrShort = errors.New("short FASTQ file")
	// ErrInvalid is returned when an invalid FASTQ file is encountered.
	ErrInvalid = errors.New("invalid FASTQ file")
	// ErrLength is returned when a record's sequence and quality lines have
	// different lengths.
	ErrLength = errors.New("FASTQ sequence and quality lengths differ")
)

// maxLineLen bounds a single FASTQ line (long-read data can be large).
const maxLineLen = 1 << 30

// A Read is a FASTQ read, comprising a header (line 1 without the leading
// '@'), a sequence, and a quality string.  Line 3 is not retained: it is
// written back as a bare "+".
type Read struct {
	Name, Seq, Qual []byte
}

// Trim cuts the read and quality lengths to at most n.
func (r *Read) Trim(n int) {
	if n < len(r.Seq) {
		r.Seq = r.Seq[:n]
		r.Qual = r.Qual[:n]
	}
}

var errEOF = errors.New("eof")

// Scanner provides a convenient interface for reading FASTQ read
// data. The Scan method returns the next read, returning a boolean
// indicating whether the read succeeded. Scanners are not
// threadsafe.
//
// Scanner performs some validation: it requires ID lines to begin
// with "@", that line 3 begins with "+", and that the sequence and
// quality lines have equal length.  It does not validate the
// alphabet of either line.
//
// Every successful Scan fills the Read with freshly allocated slices,
// so the caller owns them and may modify them in place.
type Scanner struct {
	b   *bufio.Scanner
	err error
	n   int
}

// NewScanner constructs a new Scanner that reads raw FASTQ data from the
// provided reader.
func NewScanner(r io.Reader) *Scanner {
	b := bufio.NewScanner(r)
	b.Buffer(nil, maxLineLen)
	return &Scanner{b: b}
}

// Scan the next read into the provided read. Scan returns a boolean
// indicating whether the scan succeeded. Once Scan returns false, it
// never returns true again. Upon completion, the user should check
// the Err method to determine whether scanning stopped because of an
// error or because the end of the stream was reached.
func (f *Scanner) Scan(read *Read) bool {
	if f.err != nil {
		return false
	}
	if !f.b.Scan() {
		if f.err = f.b.Err(); f.err == nil {
			f.err = errEOF
		}
		return false
	}
	id := trimCR(f.b.Bytes())
	if len(id) == 0 || id[0] != '@' {
		f.err = ErrInvalid
		return false
	}
	name := append([]byte(nil), id[1:]...)
	if !f.scan() {
		return false
	}
	seq := append([]byte(nil), trimCR(f.b.Bytes())...)
	if !f.scan() {
		return false
	}
	unk := f.b.Bytes()
	if len(unk) == 0 || unk[0] != '+' {
		f.err = ErrInvalid
		return false
	}
	if !f.scan() {
		return false
	}
	qual := trimCR(f.b.Bytes())
	if len(qual) != len(seq) {
		f.err = ErrLength
		return false
	}
	read.Name = name
	read.Seq = seq
	read.Qual = append([]byte(nil), qual...)
	f.n++
	return true
}

func (f *Scanner) scan() bool {
	ok := f.b.Scan()
	if !ok {
		if f.err = f.b.Err(); f.err == nil {
			f.err = ErrShort
		}
	}
	return ok
}

// Err returns the scanning error, if any.
func (f *Scanner) Err() error {
	if f.err == errEOF {
		return nil
	}
	return f.err
}

// NumRead returns the number of reads scanned successfully so far.
func (f *Scanner) NumRead() int {
	return f.n
}

func trimCR(line []byte) []byte {
	if n := len(line); n != 0 && line[n-1] == '\r' {
		return line[:n-1]
	}
	return line
}
