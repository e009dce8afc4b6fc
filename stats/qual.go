// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package stats

import "math"

// QualToErrProb converts a phred quality score to an error probability.
func QualToErrProb(q float64) float64 {
	return math.Pow(10, -q/10)
}

// ErrProbToQual converts an error probability to a phred quality score.
func ErrProbToQual(p float64) float64 {
	return -10 * math.Log10(p)
}
