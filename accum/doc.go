// Package accum implements a fixed-width superaccumulator for
// order-independent floating-point summation.
//
// What:
//
//   - Accumulator decomposes every float64 term into exact integer
//     contributions to 39 int64 bins, each bin covering 56 bits of the
//     scaled binary expansion of the running sum.
//   - Accumulate / AccumulateProduct add terms losslessly; no floating
//     addition ever happens on the way in.
//   - Merge combines two accumulators bin-wise after carry normalization.
//     The operation is commutative and associative on the represented
//     value, so the final Round result does not depend on how the terms
//     were partitioned across inner containers, worker goroutines, or
//     process ranks.
//   - Round converts the exact represented sum back to float64
//     deterministically.
//
// Why:
//
//   - Dot products over distributed and threaded vectors must produce a
//     bit-identical scalar no matter the partitioning. Naive summation
//     loses that property (the classic [1e100, 1, -1e100] case); the
//     superaccumulator guarantees it.
//
// Complexity:
//
//   - Accumulate: O(1) amortized (at most three bins touched per term).
//   - Normalize / Merge / Round: O(BinCount).
//   - Memory: one fixed [39]int64 array; no heap allocation per term.
//
// Headroom:
//
//   - Bins auto-normalize every 64 deposits, so an Accumulator never
//     overflows on its own. When summing raw bin arrays externally
//     (the cross-process reduce path), at most 63 normalized
//     contributions may be added bin-wise before another Normalize.
//
// The zero value of Accumulator is an empty sum, ready for use.
package accum
