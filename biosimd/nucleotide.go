// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package biosimd

// BaseClass is the case-insensitive nucleotide class of an ASCII byte.
type BaseClass uint8

const (
	// BaseA covers 'A' and 'a'.
	BaseA BaseClass = iota
	// BaseC covers 'C' and 'c'.
	BaseC
	// BaseG covers 'G' and 'g'.
	BaseG
	// BaseT covers 'T' and 't'.
	BaseT
	// BaseOther covers every other byte, including IUPAC ambiguity codes.
	BaseOther
)

var baseClassTable = [...]BaseClass{
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 0, 4, 1, 4, 4, 4, 2, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 3, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 0, 4, 1, 4, 4, 4, 2, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 3, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
}

// ClassifyBase returns the nucleotide class of b.
func ClassifyBase(b byte) BaseClass {
	return baseClassTable[b]
}

// IsNonACGTPresentNoCase returns true iff ascii8[] contains a byte that is
// not one of 'A'/'C'/'G'/'T'/'a'/'c'/'g'/'t'.
func IsNonACGTPresentNoCase(ascii8 []byte) bool {
	for _, ascii8Byte := range ascii8 {
		if baseClassTable[ascii8Byte] == BaseOther {
			return true
		}
	}
	return false
}

// Degeneracy classes used for composition counting.
const (
	// DegenerateTwo counts R, Y, S, W, K, M (either case).
	DegenerateTwo BaseClass = 4 + iota
	// DegenerateThree counts B, D, H, V (either case).
	DegenerateThree
	// DegenerateFour counts N (either case).
	DegenerateFour
	// NotNucleotide counts everything else.
	NotNucleotide
	// NumDegeneracyClasses is the number of distinct values returned by
	// ClassifyDegeneracy.
	NumDegeneracyClasses
)

var degeneracyTable = [...]BaseClass{
	7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7,
	7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7,
	7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7,
	7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7,
	7, 0, 5, 1, 5, 7, 7, 2, 5, 7, 7, 4, 7, 4, 6, 7,
	7, 7, 4, 4, 3, 7, 5, 4, 7, 4, 7, 7, 7, 7, 7, 7,
	7, 0, 5, 1, 5, 7, 7, 2, 5, 7, 7, 4, 7, 4, 6, 7,
	7, 7, 4, 4, 3, 7, 5, 4, 7, 4, 7, 7, 7, 7, 7, 7,
	7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7,
	7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7,
	7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7,
	7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7,
	7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7,
	7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7,
	7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7,
	7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7,
}

// ClassifyDegeneracy maps b to BaseA..BaseT for plain bases, and to one of
// the Degenerate* classes or NotNucleotide otherwise.
func ClassifyDegeneracy(b byte) BaseClass {
	return degeneracyTable[b]
}

// IsLower returns true iff b is an ASCII lowercase letter.
func IsLower(b byte) bool {
	return b-'a' < 26
}

// ToLower8 lowercases a single ASCII letter; other bytes are unchanged.
func ToLower8(b byte) byte {
	if b-'A' < 26 {
		return b + ('a' - 'A')
	}
	return b
}

// ToUpper8Inplace capitalizes every ASCII lowercase letter in ascii8[].
func ToUpper8Inplace(ascii8 []byte) {
	for pos, ascii8Byte := range ascii8 {
		if ascii8Byte-'a' < 26 {
			ascii8[pos] = ascii8Byte - ('a' - 'A')
		}
	}
}
