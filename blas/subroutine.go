// SPDX-License-Identifier: MIT

// Package blas: the elementwise subroutine dispatcher.
// Routing happens in two stages: the first non-scalar operand picks the
// shape and policy, then the concrete loop runs over leaf buffers with no
// per-element checks. Scalars broadcast; each worker receives private
// copies of them so the per-element operation can never race on a
// broadcast value.

package blas

import "sync"

// Func is a pure, stateless per-element operation. args[j] points at
// operand j's current element; the operation mutates whichever operands
// the caller documents as outputs. Func must not retain the pointers.
type Func func(args []*float64)

// Subroutine applies f across the operands elementwise: for every index i
// it invokes f on get_element(operand, i), where scalars return
// themselves (broadcast) and vectors return their i-th element. Vector
// operands must agree in shape, depth, and size.
//
// Execution order across indices is unspecified; each index touches
// disjoint output locations, so the dispatcher introduces no data races.
// Complexity: O(size · arity).
func Subroutine(f Func, operands ...Container) error {
	return SubroutineCtx(Context{}, f, operands...)
}

// SubroutineCtx is Subroutine with an explicit execution context. Callers
// already running inside a parallel region pass Context{Parallel: true}
// so the dispatcher iterates serially instead of nesting parallel
// regions; the recursive VecOfVecs path does this automatically.
func SubroutineCtx(ctx Context, f Func, operands ...Container) error {
	if len(operands) == 0 {
		return ErrEmpty
	}
	for _, c := range operands {
		if c == nil {
			return ErrNilContainer
		}
	}

	// The first operand that is not Scalar picks shape and policy.
	var lead Container
	for _, c := range operands {
		if c.ContainerShape() != ShapeScalar {
			lead = c
			break
		}
	}
	if lead == nil {
		// All scalars: a single invocation on private copies.
		args, _ := scalarArgs(operands)
		f(args)
		return nil
	}

	if vv, ok := lead.(*VecOfVecs); ok {
		return subroutineOuter(ctx, f, operands, vv)
	}
	if leaf, ok := lead.(Leaf); ok {
		return subroutineLeaf(ctx, f, operands, leaf)
	}
	return ErrShapeMismatch
}

// scalarArgs builds an argument array over private copies of all-scalar
// operands.
func scalarArgs(operands []Container) ([]*float64, []float64) {
	vals := make([]float64, len(operands))
	args := make([]*float64, len(operands))
	for j, c := range operands {
		vals[j] = float64(c.(Scalar))
		args[j] = &vals[j]
	}
	return args, vals
}

// subroutineLeaf runs f over flat buffers under the lead's policy.
func subroutineLeaf(ctx Context, f Func, operands []Container, lead Leaf) error {
	n := lead.Len()
	if n == 0 {
		return ErrEmpty
	}
	bufs := make([][]float64, len(operands))
	scalars := make([]float64, len(operands))
	isScalar := make([]bool, len(operands))
	for j, c := range operands {
		switch o := c.(type) {
		case Scalar:
			scalars[j] = float64(o)
			isScalar[j] = true
		case Leaf:
			if o.Len() != n {
				return ErrSizeMismatch
			}
			bufs[j] = o.Slice()
		default:
			return ErrShapeMismatch
		}
	}

	policy := lead.ExecPolicy()
	if ctx.Parallel || policy == Serial {
		leafRange(f, bufs, scalars, isScalar, 0, n)
		return nil
	}
	switch policy {
	case Accelerated:
		leafUnrolled(f, bufs, scalars, isScalar, 0, n)
	case Parallel:
		w := workerCount(lead.Workers())
		if w > n {
			w = n
		}
		var wg sync.WaitGroup
		for r := 0; r < w; r++ {
			lo, hi := r*n/w, (r+1)*n/w
			wg.Add(1)
			go func(lo, hi int) {
				defer wg.Done()
				leafRange(f, bufs, scalars, isScalar, lo, hi)
			}(lo, hi)
		}
		wg.Wait()
	}
	return nil
}

// leafRange invokes f on [lo, hi). The argument array and the scalar
// copies are private to the calling goroutine.
func leafRange(f Func, bufs [][]float64, scalars []float64, isScalar []bool, lo, hi int) {
	args, locals := make([]*float64, len(bufs)), make([]float64, len(bufs))
	copy(locals, scalars)
	for j := range bufs {
		if isScalar[j] {
			args[j] = &locals[j]
		}
	}
	for i := lo; i < hi; i++ {
		for j, b := range bufs {
			if !isScalar[j] {
				args[j] = &b[i]
			}
		}
		f(args)
	}
}

// leafUnrolled is leafRange stepped four indices per iteration, with the
// vector argument rebinding hoisted into straight-line code.
func leafUnrolled(f Func, bufs [][]float64, scalars []float64, isScalar []bool, lo, hi int) {
	args, locals := make([]*float64, len(bufs)), make([]float64, len(bufs))
	copy(locals, scalars)
	for j := range bufs {
		if isScalar[j] {
			args[j] = &locals[j]
		}
	}
	bind := func(i int) {
		for j, b := range bufs {
			if !isScalar[j] {
				args[j] = &b[i]
			}
		}
	}
	i := lo
	for ; i+4 <= hi; i += 4 {
		bind(i)
		f(args)
		bind(i + 1)
		f(args)
		bind(i + 2)
		f(args)
		bind(i + 3)
		f(args)
	}
	for ; i < hi; i++ {
		bind(i)
		f(args)
	}
}

// subroutineOuter iterates the inner containers of a VecOfVecs under the
// chosen policy, recursing into the leaf dispatcher for each.
func subroutineOuter(ctx Context, f Func, operands []Container, lead *VecOfVecs) error {
	m := lead.Outer()
	if m == 0 {
		return ErrEmpty
	}
	for _, c := range operands {
		switch o := c.(type) {
		case Scalar:
		case *VecOfVecs:
			if o.Outer() != m {
				return ErrSizeMismatch
			}
		default:
			return ErrShapeMismatch
		}
	}

	inner := func(i int) []Container {
		ops := make([]Container, len(operands))
		for j, c := range operands {
			if vv, ok := c.(*VecOfVecs); ok {
				ops[j] = vv.Inner[i]
			} else {
				ops[j] = c
			}
		}
		return ops
	}

	policy, workers := outerPolicy(lead)
	if ctx.Parallel || policy != Parallel {
		for i := 0; i < m; i++ {
			if err := SubroutineCtx(ctx, f, inner(i)...); err != nil {
				return err
			}
		}
		return nil
	}

	// Fan the outer loop out; inner calls see Parallel=true and stay
	// serial.
	w := workerCount(workers)
	if w > m {
		w = m
	}
	errs := make([]error, w)
	var wg sync.WaitGroup
	for r := 0; r < w; r++ {
		lo, hi := r*m/w, (r+1)*m/w
		wg.Add(1)
		go func(r, lo, hi int) {
			defer wg.Done()
			nested := Context{Parallel: true}
			for i := lo; i < hi; i++ {
				if err := SubroutineCtx(nested, f, inner(i)...); err != nil {
					errs[r] = err
					return
				}
			}
		}(r, lo, hi)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// outerPolicy descends to the first leaf below vv and returns its policy
// and worker count; the outer loop of a VecOfVecs is governed by the
// policy of its inner buffers.
func outerPolicy(vv *VecOfVecs) (Policy, int) {
	c := vv.Inner[0]
	for {
		switch o := c.(type) {
		case *VecOfVecs:
			c = o.Inner[0]
		case Leaf:
			return o.ExecPolicy(), o.Workers()
		default:
			return Serial, 0
		}
	}
}
