// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package biosimd_test

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/grailbio/seqtk/biosimd"
	"github.com/grailbio/testutil/expect"
)

func reverseCompIUPACSlow(ascii8 []byte) []byte {
	comp := map[byte]byte{
		'A': 'T', 'T': 'A', 'C': 'G', 'G': 'C',
		'R': 'Y', 'Y': 'R', 'K': 'M', 'M': 'K',
		'B': 'V', 'V': 'B', 'D': 'H', 'H': 'D',
	}
	result := make([]byte, len(ascii8))
	for i, b := range ascii8 {
		c := b
		if v, ok := comp[b]; ok {
			c = v
		} else if v, ok := comp[b-('a'-'A')]; ok && b >= 'a' && b <= 'z' {
			c = v + ('a' - 'A')
		}
		result[len(ascii8)-1-i] = c
	}
	return result
}

func TestReverseCompIUPAC8(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"A", "T"},
		{"ACGT", "ACGT"},
		{"AACGTTTN", "NAAACGTT"},
		{"acgtRYkmBVDHswn", "nwsDHBVkmRYacgt"},
		{"AxXa-", "-tXxT"},
	}
	for _, tt := range tests {
		got := []byte(tt.in)
		biosimd.ReverseCompIUPAC8Inplace(got)
		expect.EQ(t, string(got), tt.want, "input %q", tt.in)
	}
}

func TestReverseCompIUPAC8Random(t *testing.T) {
	const maxSize = 300
	r := rand.New(rand.NewSource(0))
	for iter := 0; iter < 200; iter++ {
		src := make([]byte, r.Intn(maxSize))
		for i := range src {
			src[i] = byte(r.Intn(256))
		}
		want := reverseCompIUPACSlow(src)
		got := append([]byte(nil), src...)
		biosimd.ReverseCompIUPAC8Inplace(got)
		if !bytes.Equal(got, want) {
			t.Fatalf("Mismatched ReverseCompIUPAC8Inplace result for %q: got %q, want %q", src, got, want)
		}
		// Applying it twice must restore the input.
		biosimd.ReverseCompIUPAC8Inplace(got)
		if !bytes.Equal(got, src) {
			t.Fatalf("ReverseCompIUPAC8Inplace is not an involution on %q", src)
		}
	}
}

func TestComplementTableInvolution(t *testing.T) {
	for i := 0; i < 256; i++ {
		b := byte(i)
		expect.EQ(t, biosimd.ComplementIUPAC8(biosimd.ComplementIUPAC8(b)), b)
	}
}

func TestReverseCompRecordInplace(t *testing.T) {
	seq := []byte("ACGTNa")
	qual := []byte("ABCDEF")
	biosimd.ReverseCompRecordInplace(seq, qual)
	expect.EQ(t, string(seq), "tNACGT")
	expect.EQ(t, string(qual), "FEDCBA")

	// FASTA records have no quality.
	seq = []byte("GGC")
	biosimd.ReverseCompRecordInplace(seq, nil)
	expect.EQ(t, string(seq), "GCC")
}
