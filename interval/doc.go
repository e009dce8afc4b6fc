// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

/*Package interval loads BED-like region files into a per-sequence union of
  disjoint intervals, and answers point queries against them.
  (Note the 'union'.  Overlapping and touching intervals are merged, not
  tracked separately.)

  Queries are designed for the access pattern of a per-base masking loop:
  successive positions of one record arrive in nondecreasing order, and the
  caller threads a cursor from one Query call to the next so each record costs
  O(length + #intervals) rather than O(length * #intervals).
*/
package interval
