// SPDX-License-Identifier: MIT
// Package procgrid: sentinel error set.

package procgrid

import "errors"

var (
	// ErrGroupSize indicates a group size below 1.
	ErrGroupSize = errors.New("procgrid: group size must be at least 1")

	// ErrRankRange indicates a rank outside [0, size).
	ErrRankRange = errors.New("procgrid: rank out of range")

	// ErrBufferSize indicates SendRecv buffers whose lengths disagree
	// between the sending and receiving side.
	ErrBufferSize = errors.New("procgrid: send/recv buffer size mismatch")

	// ErrBinsMismatch indicates AllReduce participants supplied differing
	// bin counts.
	ErrBinsMismatch = errors.New("procgrid: all-reduce bin count mismatch")

	// ErrDimsMismatch indicates Cartesian dimensions whose product does
	// not equal the communicator size.
	ErrDimsMismatch = errors.New("procgrid: dims do not factor the group size")
)
