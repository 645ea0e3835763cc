// SPDX-License-Identifier: MIT

// Package accum: the superaccumulator value type.
// This file defines Accumulator and its operations: Accumulate,
// AccumulateProduct, Normalize, Merge, Round, and the raw bin accessors
// used by the cross-process bin-wise reduce.
package accum

import "math"

const (
	// BinCount is the number of int64 bins in an Accumulator. Together the
	// bins span the full float64 exponent range, from below the smallest
	// subnormal up to above the largest finite value.
	BinCount = 39

	// digits is the number of bits of the represented sum covered by one bin.
	digits = 56

	// binOffset is the index of the bin whose weight is 2^0; bins below it
	// carry the fractional part of the sum down to 2^-1120.
	binOffset = 20

	// maxDeferred is the number of deposits a bin can absorb before carries
	// must be propagated to keep every bin clear of int64 overflow.
	maxDeferred = 64
)

// deltaScale is the weight ratio between adjacent bins (2^digits).
var deltaScale = math.Ldexp(1, digits)

// Accumulator represents an exactly decomposed partial sum of float64
// terms. The zero value is an empty sum, ready for use. Accumulator is a
// small copyable value; it never allocates after creation.
//
// Bin i holds an integer contribution of weight 2^(digits*(i-binOffset)).
// The represented value is the exact integer combination
//
//	sum_i bins[i] * 2^(digits*(i-binOffset))
//
// which is why bin-wise addition of two normalized accumulators is an
// exact, commutative, and associative merge.
type Accumulator struct {
	bins [BinCount]int64

	// dirty counts deposits since the last carry propagation; Normalize
	// runs automatically once it reaches maxDeferred.
	dirty int

	// special aggregates NaN and ±Inf inputs, which have no bin
	// decomposition. A nonzero special dominates Round.
	special float64
}

// New returns an empty Accumulator.
func New() *Accumulator { return &Accumulator{} }

// Accumulate adds the term x to the sum exactly.
// Complexity: O(1) amortized; at most three bins are touched per call.
func (a *Accumulator) Accumulate(x float64) {
	if x == 0 {
		return
	}
	if math.IsNaN(x) || math.IsInf(x, 0) {
		a.special += x
		return
	}
	if a.dirty >= maxDeferred {
		a.Normalize()
	}
	a.dirty++

	_, e := math.Frexp(x)
	expWord := floorDiv(e, digits)
	xscaled := math.Ldexp(x, -digits*expWord)
	for i := expWord + binOffset; xscaled != 0 && i >= 0; i-- {
		w := math.Floor(xscaled)
		a.bins[i] += int64(w)
		xscaled = (xscaled - w) * deltaScale
	}
}

// AccumulateProduct adds the exact product x*y to the sum. The product is
// split into an FMA two-product (hi = x*y, lo = fma(x,y,-hi) holds the
// exact rounding error) so no precision is lost before binning.
func (a *Accumulator) AccumulateProduct(x, y float64) {
	hi := x * y
	a.Accumulate(hi)
	if !math.IsNaN(hi) && !math.IsInf(hi, 0) {
		if lo := math.FMA(x, y, -hi); lo != 0 {
			a.Accumulate(lo)
		}
	}
}

// Normalize propagates inter-bin carries so that every bin below the top
// lies in [0, 2^digits); the top bin keeps the sign of the whole sum.
// Normalize never changes the represented value and is idempotent.
// Complexity: O(BinCount).
func (a *Accumulator) Normalize() {
	var carry int64
	for i := 0; i < BinCount-1; i++ {
		w := a.bins[i] + carry
		carry = w >> digits // floor division by 2^digits
		a.bins[i] = w - carry<<digits
	}
	a.bins[BinCount-1] += carry
	a.dirty = 0
}

// Merge folds other into a bin-wise. Both operands are carry-normalized
// first (other via a copy, which is left untouched), so the merge is an
// exact integer addition of the two represented values. Merging is
// commutative and associative; the final Round is independent of the
// merge order or term partitioning.
func (a *Accumulator) Merge(other *Accumulator) {
	a.Normalize()
	o := *other
	o.Normalize()
	for i := 0; i < BinCount; i++ {
		a.bins[i] += o.bins[i]
	}
	a.special += o.special
	a.dirty = 2
}

// Round converts the represented exact sum to float64. The conversion is
// deterministic: identical bins always round to the identical scalar.
// The receiver is not modified.
func (a *Accumulator) Round() float64 {
	if a.special != 0 {
		return a.special
	}
	c := *a
	c.Normalize()

	// After Normalize all bins below the top are nonnegative, so the sign
	// of the sum is the sign of the top bin. Negative sums are negated
	// into canonical nonnegative form and rounded as positive; rounding
	// the two's-complement carry chain directly would blow through the
	// float64 range.
	neg := c.bins[BinCount-1] < 0
	if neg {
		for i := range c.bins {
			c.bins[i] = -c.bins[i]
		}
		c.Normalize()
	}

	// Walk the bins from most to least significant, maintaining the
	// running sum as an unevaluated (hi, lo) pair. Each bin is split into
	// two float64-exact halves because a 56-bit word does not fit into a
	// 53-bit significand.
	var hi, lo float64
	for i := BinCount - 1; i >= 0; i-- {
		b := c.bins[i]
		if b == 0 {
			continue
		}
		if math.IsInf(hi, 0) {
			break // overflow; lower bins cannot change the outcome
		}
		scale := digits * (i - binOffset)
		half := b >> 28 << 28
		hi, lo = addExact(hi, lo, math.Ldexp(float64(half), scale))
		if rest := b - half; rest != 0 {
			hi, lo = addExact(hi, lo, math.Ldexp(float64(rest), scale))
		}
	}
	r := hi + lo
	if math.IsInf(hi, 0) {
		r = hi
	}
	if neg {
		r = -r
	}
	return r
}

// IsZero reports whether the accumulator represents an empty (zero) sum.
func (a *Accumulator) IsZero() bool {
	if a.special != 0 {
		return false
	}
	for _, b := range a.bins {
		if b != 0 {
			return false
		}
	}
	return true
}

// Bins normalizes the accumulator and returns a copy of its bins, ready
// for an external bin-wise integer reduce across process ranks.
func (a *Accumulator) Bins() []int64 {
	a.Normalize()
	out := make([]int64, BinCount)
	copy(out, a.bins[:])
	return out
}

// SetBins replaces the accumulator contents with the given bins, normally
// the result of a bin-wise reduce of at most maxDeferred-1 normalized
// contributions. Slices of any length other than BinCount are a
// programmer error and panic.
func (a *Accumulator) SetBins(bins []int64) {
	if len(bins) != BinCount {
		panic("accum: SetBins needs exactly BinCount bins")
	}
	copy(a.bins[:], bins)
	a.special = 0
	a.Normalize()
}

// AddBins adds the given bins, normally another rank's normalized
// contribution off the wire, bin-wise into the accumulator. Equivalent
// to Merge with an accumulator holding those bins. Slices of any length
// other than BinCount are a programmer error and panic.
func (a *Accumulator) AddBins(bins []int64) {
	if len(bins) != BinCount {
		panic("accum: AddBins needs exactly BinCount bins")
	}
	a.Normalize()
	for i, b := range bins {
		a.bins[i] += b
	}
	a.dirty = 2
}

// addExact adds v to the unevaluated pair (hi, lo) using a TwoSum step
// followed by a Fast2Sum renormalization.
func addExact(hi, lo, v float64) (float64, float64) {
	s := hi + v
	bb := s - hi
	err := (hi - (s - bb)) + (v - bb)
	t := lo + err
	nhi := s + t
	nlo := t - (nhi - s)
	return nhi, nlo
}

// floorDiv returns floor(a/b) for positive b.
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
