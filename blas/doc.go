// Package blas routes elementwise and reduction operations over
// arbitrarily shaped numerical containers.
//
// What:
//
//   - A closed set of container shapes: Scalar, *Vector (flat buffer),
//     *VecOfVecs (ordered homogeneous inner containers), and distributed
//     vectors (implemented in package stencil through the Leaf and
//     Collective interfaces declared here).
//   - Subroutine applies an n-ary pure per-element operation across mixed
//     scalar/vector operands; scalars broadcast, vectors must agree in
//     shape and size. The concrete loop strategy (serial, worker fan-out,
//     unrolled) is chosen from the execution policy of the first
//     non-scalar operand.
//   - Dot computes reproducible dot products through the accum
//     superaccumulator: the rounded result is bit-identical for every
//     partitioning of the terms across inner containers, worker
//     goroutines, or process ranks. DotSuperacc exposes the raw,
//     pre-round, pre-collective accumulator so callers can batch several
//     local reductions before one group reduce.
//   - Stock operations (Axpby, Scal, Plus, Copy, PointwiseDot,
//     PointwiseDivide, Transform) cover the usual vector-space surface.
//
// Why:
//
//   - Mesh differential operators are thin consumers; the hard part is a
//     dispatch layer that runs the same operation over a bare buffer, a
//     buffer-of-buffers, or a process-partitioned buffer without the
//     caller caring which one it holds.
//
// Concurrency:
//
//   - Parallel-policy loops fan contiguous index ranges out across worker
//     goroutines; every index writes disjoint output locations, so no
//     locking is needed. An explicit Context carries the "already inside
//     a parallel region" flag through recursive dispatch, so nested
//     parallel regions never form; no global runtime state is consulted.
//
// Errors:
//
//   - ErrNilContainer    - a nil operand was supplied.
//   - ErrEmpty           - an operand (or the operand list) is empty.
//   - ErrSizeMismatch    - vector operands disagree in length.
//   - ErrShapeMismatch   - operands mix incompatible shapes or depths.
//   - ErrScalarOutput    - the mutated operand of an operation is a Scalar.
//
// Shape and size are validated once per call at the public boundary; the
// per-element loops perform no checks.
package blas
