// SPDX-License-Identifier: MIT

// Package procgrid: Cartesian process topology. Ranks map to (x, y)
// coordinates with x varying fastest; axis 0 is x (columns), axis 1 is y
// (rows). The topology is immutable once built.

package procgrid

// Cart arranges the ranks of a Communicator on a 2D Cartesian grid with
// per-axis periodicity. It embeds the Communicator, so a Cart is itself
// usable wherever a Communicator is expected.
type Cart struct {
	Communicator

	dims     [2]int
	periodic [2]bool
	coords   [2]int
}

// NewCart builds a Cartesian topology over c. dims[0]*dims[1] must equal
// c.Size(); otherwise ErrDimsMismatch.
// Complexity: O(1).
func NewCart(c Communicator, dims [2]int, periodic [2]bool) (*Cart, error) {
	if dims[0] < 1 || dims[1] < 1 || dims[0]*dims[1] != c.Size() {
		return nil, ErrDimsMismatch
	}
	rank := c.Rank()
	return &Cart{
		Communicator: c,
		dims:         dims,
		periodic:     periodic,
		coords:       [2]int{rank % dims[0], rank / dims[0]},
	}, nil
}

// Dims returns the process-grid dimensions.
func (c *Cart) Dims() [2]int { return c.dims }

// Periodic reports whether the given axis wraps around.
func (c *Cart) Periodic(axis int) bool { return c.periodic[axis] }

// Coords returns this rank's grid coordinates.
func (c *Cart) Coords() [2]int { return c.coords }

// Shift returns the neighbor ranks one step down (low) and one step up
// (high) along the axis. At a non-periodic grid edge the missing
// neighbor is ProcNull.
func (c *Cart) Shift(axis int) (low, high int) {
	return c.neighbor(axis, -1), c.neighbor(axis, +1)
}

// OnLowEdge reports whether this rank owns the low physical edge of the
// axis. Meaningful for non-periodic axes; periodic axes have no edges.
func (c *Cart) OnLowEdge(axis int) bool { return c.coords[axis] == 0 }

// OnHighEdge reports whether this rank owns the high physical edge of
// the axis.
func (c *Cart) OnHighEdge(axis int) bool { return c.coords[axis] == c.dims[axis]-1 }

func (c *Cart) neighbor(axis, step int) int {
	p := c.coords
	p[axis] += step
	if p[axis] < 0 || p[axis] >= c.dims[axis] {
		if !c.periodic[axis] {
			return ProcNull
		}
		p[axis] = (p[axis] + c.dims[axis]) % c.dims[axis]
	}
	return p[1]*c.dims[0] + p[0]
}
