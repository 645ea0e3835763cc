// SPDX-License-Identifier: MIT

// Package blas: container shapes, execution policies, and the concrete
// Scalar / Vector / VecOfVecs types. Distributed vectors live in package
// stencil and plug in through the Leaf and Collective interfaces.
package blas

import (
	"runtime"

	"github.com/katalvlaran/meshblas/accum"
)

// Shape classifies a container for dispatch. Tags are structural: derived
// from the concrete type, never stored per operation and never observable
// through results.
type Shape uint8

const (
	// ShapeScalar is a single broadcast value.
	ShapeScalar Shape = iota
	// ShapeVector is a flat, indexable, sized buffer.
	ShapeVector
	// ShapeVectorOfVectors is an ordered sequence of homogeneous inner
	// containers.
	ShapeVectorOfVectors
	// ShapeDistributed is a flat buffer partitioned across a process
	// group; elementwise operations treat it as a local leaf, reductions
	// as a collective.
	ShapeDistributed
)

// Policy selects the loop strategy for the innermost concrete buffer.
// Scalars never carry a policy; when an operation mixes a Scalar with a
// policy-bearing operand, the latter's policy governs execution.
type Policy uint8

const (
	// Serial runs one flat loop on the calling goroutine.
	Serial Policy = iota
	// Parallel fans contiguous index ranges out across worker goroutines.
	Parallel
	// Accelerated runs a stride-4 unrolled flat loop, laid out so the
	// compiler can vectorize it.
	Accelerated
)

// Container is the closed set of shapes the dispatch layer understands:
// Scalar, *Vector, *VecOfVecs, and the distributed vector of package
// stencil.
type Container interface {
	// ContainerShape reports the shape tag used for dispatch.
	ContainerShape() Shape
}

// Leaf is an innermost concrete buffer: a *Vector, or a distributed
// vector exposing its full local buffer (ghost cells included) for
// elementwise work.
type Leaf interface {
	Container
	// Len returns the number of elements.
	Len() int
	// Slice returns the backing buffer.
	Slice() []float64
	// ExecPolicy returns the loop strategy for this buffer.
	ExecPolicy() Policy
	// Workers returns the worker count for Parallel policy; 0 means
	// runtime.NumCPU().
	Workers() int
}

// Collective is a process-distributed container. Dot routes through it:
// the local accumulation covers owned cells only, and ReduceSuperacc is
// the blocking, symmetric bin-wise reduce over the process group.
type Collective interface {
	Container
	// LocalDotSuperacc accumulates this rank's owned share of the dot
	// product with y into a fresh superaccumulator. No collective call
	// happens here.
	LocalDotSuperacc(y Container) (*accum.Accumulator, error)
	// ReduceSuperacc replaces a with the bin-wise sum of every rank's
	// accumulator. All ranks of the group must call it in lockstep.
	ReduceSuperacc(a *accum.Accumulator) error
}

// Context carries execution state through recursive dispatch. Parallel is
// set when the current call already runs inside a worker of an outer
// parallel loop; the dispatcher then iterates serially instead of nesting
// parallel regions.
type Context struct {
	Parallel bool
}

// Scalar is a broadcast value: get_element(s, i) == s for every index.
type Scalar float64

// ContainerShape reports ShapeScalar.
func (Scalar) ContainerShape() Shape { return ShapeScalar }

// Vector is a flat float64 buffer with an execution policy.
type Vector struct {
	// Data is the backing buffer; callers may read and write it directly.
	Data []float64

	policy  Policy
	workers int
}

// NewVector wraps data in a Vector. The slice is adopted, not copied.
// Default policy is Serial; see WithPolicy and WithWorkers.
// Complexity: O(1).
func NewVector(data []float64, opts ...VectorOption) *Vector {
	v := &Vector{Data: data}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// ContainerShape reports ShapeVector.
func (v *Vector) ContainerShape() Shape { return ShapeVector }

// Len returns the number of elements.
func (v *Vector) Len() int { return len(v.Data) }

// Slice returns the backing buffer.
func (v *Vector) Slice() []float64 { return v.Data }

// ExecPolicy returns the vector's loop strategy.
func (v *Vector) ExecPolicy() Policy { return v.policy }

// Workers returns the configured worker count (0 = runtime.NumCPU()).
func (v *Vector) Workers() int { return v.workers }

// VecOfVecs is an ordered sequence of homogeneous inner containers,
// e.g. one buffer per species in a multi-species state. The outer loop of
// an operation iterates Inner; each body call recurses into the leaf
// dispatcher.
type VecOfVecs struct {
	// Inner holds the inner containers. All entries share one concrete
	// type, length, and policy; NewVecOfVecs enforces this.
	Inner []Container
}

// NewVecOfVecs builds a VecOfVecs from homogeneous inner containers.
// Returns ErrEmpty for no inners, ErrNilContainer for a nil inner, and
// ErrShapeMismatch or ErrSizeMismatch when inners disagree in shape or
// leaf length.
// Complexity: O(len(inner)).
func NewVecOfVecs(inner ...Container) (*VecOfVecs, error) {
	if len(inner) == 0 {
		return nil, ErrEmpty
	}
	for _, c := range inner {
		if c == nil {
			return nil, ErrNilContainer
		}
	}
	shape := inner[0].ContainerShape()
	if shape == ShapeScalar {
		return nil, ErrShapeMismatch
	}
	for _, c := range inner[1:] {
		if c.ContainerShape() != shape {
			return nil, ErrShapeMismatch
		}
	}
	if lead, ok := inner[0].(Leaf); ok {
		for _, c := range inner[1:] {
			if c.(Leaf).Len() != lead.Len() {
				return nil, ErrSizeMismatch
			}
		}
	}
	return &VecOfVecs{Inner: inner}, nil
}

// ContainerShape reports ShapeVectorOfVectors.
func (vv *VecOfVecs) ContainerShape() Shape { return ShapeVectorOfVectors }

// Outer returns the number of inner containers.
func (vv *VecOfVecs) Outer() int { return len(vv.Inner) }

// workerCount resolves a configured worker count to a concrete positive
// number.
func workerCount(w int) int {
	if w <= 0 {
		return runtime.NumCPU()
	}
	return w
}
