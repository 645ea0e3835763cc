// SPDX-License-Identifier: MIT

// Package blas: the reproducible reduction front-end.
// Every leaf pair contributes its exact product to a superaccumulator;
// partial accumulators merge bin-wise, and distributed operands finish
// with one bin-wise reduce over the process group before rounding. The
// rounded scalar is therefore identical for every partitioning of the
// terms across inner containers, workers, or ranks.

package blas

import (
	"sync"

	"github.com/katalvlaran/meshblas/accum"
)

// Dot returns the dot product of x and y, defined only for operands of
// identical shape and size; empty operands return ErrEmpty. For
// distributed operands Dot is a blocking collective: every rank of the
// group must call it in lockstep and every rank receives the
// bit-identical scalar.
// Complexity: O(size) plus one group reduce for distributed operands.
func Dot(x, y Container) (float64, error) {
	acc, coll, err := dotAcc(x, y)
	if err != nil {
		return 0, err
	}
	if coll != nil {
		if err := coll.ReduceSuperacc(acc); err != nil {
			return 0, err
		}
	}
	return acc.Round(), nil
}

// Dot1 returns dot(x, x).
func Dot1(x Container) (float64, error) { return Dot(x, x) }

// DotSuperacc returns the raw, pre-round accumulator for dot(x, y). For
// distributed operands the accumulator covers only this rank's owned
// cells and no collective call happens; callers can batch several such
// accumulators (Merge) before one ReduceSuperacc, then Round.
func DotSuperacc(x, y Container) (*accum.Accumulator, error) {
	acc, _, err := dotAcc(x, y)
	return acc, err
}

// dotAcc accumulates locally and reports the Collective to reduce over,
// if any.
func dotAcc(x, y Container) (*accum.Accumulator, Collective, error) {
	if x == nil || y == nil {
		return nil, nil, ErrNilContainer
	}
	if x.ContainerShape() != y.ContainerShape() {
		return nil, nil, ErrShapeMismatch
	}

	switch xs := x.(type) {
	case Scalar:
		a := accum.New()
		a.AccumulateProduct(float64(xs), float64(y.(Scalar)))
		return a, nil, nil

	case *VecOfVecs:
		yv := y.(*VecOfVecs)
		if xs.Outer() == 0 {
			return nil, nil, ErrEmpty
		}
		if xs.Outer() != yv.Outer() {
			return nil, nil, ErrSizeMismatch
		}
		// One accumulator per inner container, merged bin-wise; a single
		// group reduce runs afterwards even when the inners are
		// distributed.
		total := accum.New()
		var coll Collective
		for i := range xs.Inner {
			a, c, err := dotAcc(xs.Inner[i], yv.Inner[i])
			if err != nil {
				return nil, nil, err
			}
			total.Merge(a)
			if coll == nil {
				coll = c
			}
		}
		return total, coll, nil

	default:
		if c, ok := x.(Collective); ok {
			a, err := c.LocalDotSuperacc(y)
			return a, c, err
		}
		if l, ok := x.(Leaf); ok {
			a, err := dotLeaf(l, y)
			return a, nil, err
		}
		return nil, nil, ErrShapeMismatch
	}
}

// dotLeaf accumulates a flat buffer pair under the lead's policy.
func dotLeaf(x Leaf, y Container) (*accum.Accumulator, error) {
	yl, ok := y.(Leaf)
	if !ok {
		return nil, ErrShapeMismatch
	}
	n := x.Len()
	if n == 0 {
		return nil, ErrEmpty
	}
	if yl.Len() != n {
		return nil, ErrSizeMismatch
	}
	xd, yd := x.Slice(), yl.Slice()

	switch x.ExecPolicy() {
	case Parallel:
		w := workerCount(x.Workers())
		if w > n {
			w = n
		}
		if w > 1 {
			parts := make([]accum.Accumulator, w)
			var wg sync.WaitGroup
			for r := 0; r < w; r++ {
				lo, hi := r*n/w, (r+1)*n/w
				wg.Add(1)
				go func(a *accum.Accumulator, lo, hi int) {
					defer wg.Done()
					for i := lo; i < hi; i++ {
						a.AccumulateProduct(xd[i], yd[i])
					}
				}(&parts[r], lo, hi)
			}
			wg.Wait()
			total := accum.New()
			for r := range parts {
				total.Merge(&parts[r])
			}
			return total, nil
		}
		fallthrough

	case Serial, Accelerated:
		fallthrough
	default:
		a := accum.New()
		for i := 0; i < n; i++ {
			a.AccumulateProduct(xd[i], yd[i])
		}
		return a, nil
	}
}
