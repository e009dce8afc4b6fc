// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package sample randomly subsamples FASTA or FASTQ records.  Each record is
// kept independently with a fixed probability, so the same seed and fraction
// select the same records from files of the same length; running it on the
// two files of a paired-end library keeps mates together.  With ByName, the
// decision is instead a hash of the record ID, which keeps mates together even
// when the two files are not in the same order.
package sample

import (
	"context"
	"fmt"
	"math/rand"

	"blainsmith.com/go/seahash"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/seqtk/encoding/fastx"
)

// Opts configures sampling.
type Opts struct {
	// Seed seeds the random number generator.
	Seed int64
	// Fraction is the probability of keeping each record, in [0, 1].
	Fraction float64
	// ByName selects records by a seeded hash of their ID rather than by
	// drawing from the random number generator.
	ByName bool
}

// DefaultOpts keeps every record.
var DefaultOpts = Opts{Seed: 4, Fraction: 1}

// Validate checks that o is usable.
func (o Opts) Validate() error {
	if o.Fraction < 0 || o.Fraction > 1 {
		return errors.E(errors.Invalid, fmt.Sprintf("sample: fraction %v must be between 0 and 1 (inclusive)", o.Fraction))
	}
	return nil
}

// Sampler makes one Bernoulli draw per record.
type Sampler struct {
	random   *rand.Rand
	fraction float64
	byName   bool
	seed     uint64
}

// NewSampler creates a Sampler.  o must have been validated.
func NewSampler(o Opts) *Sampler {
	return &Sampler{
		random:   rand.New(rand.NewSource(o.Seed)),
		fraction: o.Fraction,
		byName:   o.ByName,
		seed:     uint64(o.Seed),
	}
}

// Keep draws once and tells whether the current record is kept.
func (s *Sampler) Keep() bool {
	return s.random.Float64() <= s.fraction
}

// KeepRecord tells whether rec is kept.  Unless the sampler selects by name,
// it is the same as Keep.
func (s *Sampler) KeepRecord(rec *fastx.Record) bool {
	if !s.byName {
		return s.Keep()
	}
	return nameDraw(rec.ID(), s.seed) <= s.fraction
}

// nameDraw maps id to a pseudo-random value in [0, 1).
func nameDraw(id []byte, seed uint64) float64 {
	h := seahash.Sum64(id) ^ (seed * 0x9e3779b97f4a7c15)
	// Finalize so that nearby seeds give unrelated selections.
	h ^= h >> 33
	h *= 0xff51afd7ed558ccd
	h ^= h >> 33
	return float64(h>>11) / (1 << 53)
}

// Stats summarizes a Run.
type Stats struct {
	Read, Written int
}

// Run copies a random subset of in to out.  out should use in's format.  Run
// does not flush out.
func Run(ctx context.Context, o Opts, in *fastx.Scanner, out *fastx.Writer) (Stats, error) {
	var stats Stats
	if err := o.Validate(); err != nil {
		return stats, err
	}
	sampler := NewSampler(o)
	var rec fastx.Record
	for in.Scan(&rec) {
		stats.Read++
		if !sampler.KeepRecord(&rec) {
			continue
		}
		if err := out.Write(&rec); err != nil {
			return stats, err
		}
		stats.Written++
	}
	if err := in.Err(); err != nil {
		return stats, err
	}
	if err := ctx.Err(); err != nil {
		return stats, err
	}
	log.Debug.Printf("sample: kept %d of %d records", stats.Written, stats.Read)
	return stats, nil
}
