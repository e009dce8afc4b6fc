// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package biosimd holds the 256-entry lookup tables and in-place byte-array
// operations shared by the record transformers: nucleotide classification,
// IUPAC complementing and case folding.
//
// Every table is indexed directly by the input byte, so the per-base cost is a
// single load regardless of the alphabet in use.
package biosimd
