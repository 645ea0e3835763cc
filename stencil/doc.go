// Package stencil implements the process-distributed vector and the
// block-stencil matrix used to apply banded mesh operators across a
// Cartesian process grid.
//
// What:
//
//   - Vector: a rank-local buffer with logical shape Nz×Ny×Nx cells of
//     n×n nodes each, laid out (((s·Ny+i)·n+k)·Nx+j)·n+l. The outermost
//     x and y cell layers are ghosts mirroring the neighbor ranks;
//     ExchangeCol / ExchangeRow refresh them. Vector plugs into package
//     blas as a leaf for elementwise work and as a collective for
//     reproducible dot products (owned cells only, one bin-wise group
//     reduce, bit-identical scalar on every rank).
//   - Matrix: per stencil direction a list of (dense n×n block, cell
//     offset) pairs, optional boundary-term corrections, and an optional
//     diagonal preconditioner. Symv is a fixed protocol: halo exchange,
//     clear, interior block accumulation, boundary correction,
//     preconditioner pass. Built once by operator assembly, reused for
//     many applications with a fixed communicator.
//   - UpdateBoundaryCol / UpdateBoundaryRow: halo exchange plus, on
//     non-periodic axes, the one-sided ghost reflection on edge-owning
//     ranks (sign · node-reversed interior edge cell).
//   - WeightedDot: interior-only diagonal-weighted dot through the
//     superaccumulator with one group reduce.
//
// Concurrency:
//
//   - Every operation touching the process group (exchange, Symv, dot)
//     is a blocking, symmetric collective: all ranks must call it in
//     lockstep or the group blocks. A Matrix is not safe for concurrent
//     Symv calls (it owns a scratch vector); rank-local elementwise work
//     follows the blas policy rules.
//
// Errors:
//
//   - ErrNilCart       - no topology supplied.
//   - ErrBadShape      - local shape without at least one interior cell.
//   - ErrShapeMismatch - operand vectors of differing local shapes.
//   - ErrCommMismatch  - operand vectors on different topologies.
//   - ErrAliased       - input and output of Symv are the same vector.
//   - ErrBlockSize     - stencil or boundary block is not n×n.
//   - ErrOffsetRange   - cell offset beyond the single ghost layer.
//   - ErrWeightStride  - preconditioner weights are not n×n per cell.
//   - ErrCellRange     - boundary-term cell outside the owned range.
package stencil
