// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package biosimd_test

import (
	"strings"
	"testing"

	"github.com/grailbio/seqtk/biosimd"
	"github.com/stretchr/testify/assert"
)

func TestClassifyBase(t *testing.T) {
	for i := 0; i < 256; i++ {
		b := byte(i)
		want := biosimd.BaseOther
		switch strings.ToUpper(string(rune(b))) {
		case "A":
			want = biosimd.BaseA
		case "C":
			want = biosimd.BaseC
		case "G":
			want = biosimd.BaseG
		case "T":
			want = biosimd.BaseT
		}
		if b >= 128 {
			want = biosimd.BaseOther
		}
		assert.Equal(t, want, biosimd.ClassifyBase(b), "byte %d", i)
	}
}

func TestIsNonACGTPresentNoCase(t *testing.T) {
	assert.False(t, biosimd.IsNonACGTPresentNoCase(nil))
	assert.False(t, biosimd.IsNonACGTPresentNoCase([]byte("ACGTacgt")))
	assert.True(t, biosimd.IsNonACGTPresentNoCase([]byte("ACGTN")))
	assert.True(t, biosimd.IsNonACGTPresentNoCase([]byte("acgr")))
	assert.True(t, biosimd.IsNonACGTPresentNoCase([]byte("AC-GT")))
}

func TestClassifyDegeneracy(t *testing.T) {
	tests := []struct {
		bases string
		want  biosimd.BaseClass
	}{
		{"Aa", biosimd.BaseA},
		{"Tt", biosimd.BaseT},
		{"RYSWKMrysWkm", biosimd.DegenerateTwo},
		{"BDHVbdhv", biosimd.DegenerateThree},
		{"Nn", biosimd.DegenerateFour},
		{"X-.*U", biosimd.NotNucleotide},
	}
	for _, tt := range tests {
		for i := 0; i < len(tt.bases); i++ {
			assert.Equal(t, tt.want, biosimd.ClassifyDegeneracy(tt.bases[i]), "base %c", tt.bases[i])
		}
	}
}

func TestCase(t *testing.T) {
	seq := []byte("acgtNNxX-")
	biosimd.ToUpper8Inplace(seq)
	assert.Equal(t, "ACGTNNXX-", string(seq))
	assert.Equal(t, byte('a'), biosimd.ToLower8('A'))
	assert.Equal(t, byte('a'), biosimd.ToLower8('a'))
	assert.Equal(t, byte('-'), biosimd.ToLower8('-'))
	assert.True(t, biosimd.IsLower('z'))
	assert.False(t, biosimd.IsLower('Z'))
	assert.False(t, biosimd.IsLower('{'))
}
