// Package fasta contains a streaming reader and writer for FASTA files.
// FASTA files consist of a number of named sequences that may be interrupted
// by newlines.  For example:
//
// >chr7 human
// ACGTAC
// GAGGAC
// GCG
// >chr8
// ACGT
//
// Unlike some FASTA tools, the Scanner keeps the whole header line (minus
// the leading '>'), so ">chr7 human" yields the name "chr7 human".  Callers
// that want only the identifier cut at the first whitespace.
package fasta

import (
	"bufio"
	"io"

	"github.com/pkg/errors"
)

const maxLineLen = 1 << 30

// Record is one FASTA entry.
type Record struct {
	Name, Seq []byte
}

// Scanner reads FASTA records one at a time.  Scanners are not threadsafe.
// Each successful Scan fills the Record with freshly allocated slices.
type Scanner struct {
	b       *bufio.Scanner
	err     error
	pending []byte // header of the next record, already consumed
	started bool
	done    bool
	n       int
}

// NewScanner creates a Scanner that reads FASTA data from r.
func NewScanner(r io.Reader) *Scanner {
	b := bufio.NewScanner(r)
	b.Buffer(nil, maxLineLen)
	return &Scanner{b: b}
}

// Scan reads the next record into rec. It returns false at end of input or
// on error; Err distinguishes the two.
func (s *Scanner) Scan(rec *Record) bool {
	if s.err != nil || s.done {
		return false
	}
	if !s.started {
		s.started = true
		if !s.nextHeader() {
			return false
		}
	}
	if s.pending == nil {
		s.done = true
		return false
	}
	name := s.pending
	s.pending = nil
	var seq []byte
	for s.b.Scan() {
		line := trimCR(s.b.Bytes())
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' {
			s.pending = append([]byte(nil), line[1:]...)
			break
		}
		seq = append(seq, line...)
	}
	if err := s.b.Err(); err != nil {
		s.err = errors.Wrapf(err, "reading FASTA record %d", s.n+1)
		return false
	}
	if seq == nil {
		seq = []byte{}
	}
	rec.Name = name
	rec.Seq = seq
	s.n++
	return true
}

// nextHeader skips blank lines up to the first header.  Sequence data before
// any header is an error.
func (s *Scanner) nextHeader() bool {
	for s.b.Scan() {
		line := trimCR(s.b.Bytes())
		if len(line) == 0 {
			continue
		}
		if line[0] != '>' {
			s.err = errors.Errorf("malformed FASTA file: sequence data before first header: %.20q", line)
			return false
		}
		s.pending = append([]byte(nil), line[1:]...)
		return true
	}
	if err := s.b.Err(); err != nil {
		s.err = errors.Wrap(err, "couldn't read FASTA data")
		return false
	}
	s.done = true
	return false
}

// Err returns the first error encountered, if any.
func (s *Scanner) Err() error {
	return s.err
}

// NumRead returns the number of records returned so far.
func (s *Scanner) NumRead() int {
	return s.n
}

func trimCR(line []byte) []byte {
	if n := len(line); n != 0 && line[n-1] == '\r' {
		return line[:n-1]
	}
	return line
}
