// Package procgrid supplies the process-group layer under the
// distributed containers: a Communicator abstraction, an in-process
// implementation that runs every rank as a goroutine, and a Cartesian
// topology over it.
//
// What:
//
//   - Communicator: rank/size, paired SendRecv, bin-wise int64 AllReduce,
//     and Barrier. Every collective is blocking, synchronizing, and
//     symmetric: all ranks must call it in lockstep or the group blocks
//     indefinitely — there is no timeout, cancellation, or retry at this
//     layer.
//   - Group: the in-process implementation. Group.Run launches one
//     goroutine per rank and returns the first error. Paired buffered
//     channels carry SendRecv payloads; a generation-counted rendezvous
//     implements AllReduce and Barrier. Useful both for single-binary
//     shared-memory runs and for deterministic multi-rank tests.
//   - Cart: a Cartesian process topology (dimensions, per-axis
//     periodicity, this-rank coordinates) with neighbor Shift lookups.
//     Immutable after construction; the containers built on top only
//     read it.
//
// Why:
//
//   - Halo exchange and the cross-rank superaccumulator reduce need only
//     this narrow surface. Keeping it behind an interface lets an MPI- or
//     socket-backed communicator drop in without touching the numerical
//     layers.
//
// Determinism:
//
//   - AllReduce sums int64 bins with integer addition, which is exact and
//     order-independent, so reduce results never depend on goroutine
//     scheduling.
//
// Errors:
//
//   - ErrGroupSize    - group size must be at least 1.
//   - ErrRankRange    - rank outside [0, size).
//   - ErrBufferSize   - SendRecv buffers of mismatched length.
//   - ErrBinsMismatch - AllReduce called with differing bin counts.
//   - ErrDimsMismatch - Cartesian dims do not factor the group size.
package procgrid
