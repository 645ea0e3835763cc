// SPDX-License-Identifier: MIT

// Package procgrid: the Communicator contract. The numerical layers are
// written against this interface only; Group (group.go) is the built-in
// in-process implementation.

package procgrid

// ProcNull is the null rank: sends to it vanish and receives from it
// zero-fill the buffer. Neighbor lookups at non-periodic topology edges
// return it.
const ProcNull = -1

// Communicator is a fixed group of processes with blocking collective
// operations. All collectives are symmetric: every rank of the group must
// invoke the same operation the same number of times in the same order;
// a rank that skips or reorders one blocks the group indefinitely.
//
// Implementations must be safe for one in-flight operation per rank; the
// numerical layers never issue concurrent collectives on one rank.
type Communicator interface {
	// Rank returns this process's rank, 0 <= Rank() < Size().
	Rank() int

	// Size returns the number of ranks in the group.
	Size() int

	// SendRecv sends the send buffer to dst while receiving into recv
	// from src. Either peer may be ProcNull: the send is then dropped or
	// recv is zero-filled. Both buffers must have matching lengths with
	// the paired calls on the peer ranks.
	SendRecv(dst, src int, send, recv []float64) error

	// AllReduce replaces bins on every rank with the bin-wise int64 sum
	// over all ranks. Integer addition makes the result exact and
	// independent of arrival order.
	AllReduce(bins []int64) error

	// Barrier blocks until every rank reaches it.
	Barrier() error
}
