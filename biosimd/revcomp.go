// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package biosimd

import (
	"github.com/grailbio/base/simd"
)

// iupacComp8Table maps each IUPAC nucleotide code to its complement, keeping
// case.  S, W, N and every non-nucleotide byte map to themselves, so applying
// the table twice is always the identity.
var iupacComp8Table = [...]byte{
	0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15,
	16, 17, 18, 19, 20, 21, 22, 23, 24, 25, 26, 27, 28, 29, 30, 31,
	32, '!', '"', '#', '$', '%', '&', '\'', '(', ')', '*', '+', ',', '-', '.', '/',
	'0', '1', '2', '3', '4', '5', '6', '7', '8', '9', ':', ';', '<', '=', '>', '?',
	'@', 'T', 'V', 'G', 'H', 'E', 'F', 'C', 'D', 'I', 'J', 'M', 'L', 'K', 'N', 'O',
	'P', 'Q', 'Y', 'S', 'A', 'U', 'B', 'W', 'X', 'R', 'Z', '[', '\\', ']', '^', '_',
	'`', 't', 'v', 'g', 'h', 'e', 'f', 'c', 'd', 'i', 'j', 'm', 'l', 'k', 'n', 'o',
	'p', 'q', 'y', 's', 'a', 'u', 'b', 'w', 'x', 'r', 'z', '{', '|', '}', '~', 127,
	128, 129, 130, 131, 132, 133, 134, 135, 136, 137, 138, 139, 140, 141, 142, 143,
	144, 145, 146, 147, 148, 149, 150, 151, 152, 153, 154, 155, 156, 157, 158, 159,
	160, 161, 162, 163, 164, 165, 166, 167, 168, 169, 170, 171, 172, 173, 174, 175,
	176, 177, 178, 179, 180, 181, 182, 183, 184, 185, 186, 187, 188, 189, 190, 191,
	192, 193, 194, 195, 196, 197, 198, 199, 200, 201, 202, 203, 204, 205, 206, 207,
	208, 209, 210, 211, 212, 213, 214, 215, 216, 217, 218, 219, 220, 221, 222, 223,
	224, 225, 226, 227, 228, 229, 230, 231, 232, 233, 234, 235, 236, 237, 238, 239,
	240, 241, 242, 243, 244, 245, 246, 247, 248, 249, 250, 251, 252, 253, 254, 255,
}

// ComplementIUPAC8 returns the IUPAC complement of a single ASCII base.
func ComplementIUPAC8(b byte) byte {
	return iupacComp8Table[b]
}

// ReverseCompIUPAC8Inplace reverse-complements ascii8[] in place using the
// case-preserving IUPAC complement table.  Ambiguity codes survive the
// transformation ('R' <-> 'Y', etc.) and mask bytes such as 'X' or 'n' are
// left alone.
func ReverseCompIUPAC8Inplace(ascii8 []byte) {
	nByte := len(ascii8)
	nByteDiv2 := nByte >> 1
	for idx, invIdx := 0, nByte-1; idx != nByteDiv2; idx, invIdx = idx+1, invIdx-1 {
		ascii8[idx], ascii8[invIdx] = iupacComp8Table[ascii8[invIdx]], iupacComp8Table[ascii8[idx]]
	}
	if nByte&1 == 1 {
		ascii8[nByteDiv2] = iupacComp8Table[ascii8[nByteDiv2]]
	}
}

// ReverseCompRecordInplace reverse-complements seq[] and reverses qual[], the
// two halves of a FASTQ record body.  qual may be empty (FASTA).
func ReverseCompRecordInplace(seq, qual []byte) {
	ReverseCompIUPAC8Inplace(seq)
	if len(qual) != 0 {
		simd.Reverse8Inplace(qual)
	}
}
