// SPDX-License-Identifier: MIT

// Package procgrid: the in-process Group implementation. Every rank is a
// goroutine; paired buffered channels carry point-to-point payloads and a
// generation-counted rendezvous implements the synchronizing collectives.

package procgrid

import (
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Group is an in-process process group of fixed size. Obtain per-rank
// Communicator handles with Comm, or let Run drive one goroutine per
// rank. A Group may be reused across any number of collective rounds.
type Group struct {
	size int
	mail [][]chan []float64
	rv   *rendezvous
}

// NewGroup creates a group with the given number of ranks.
func NewGroup(size int) (*Group, error) {
	if size < 1 {
		return nil, ErrGroupSize
	}
	mail := make([][]chan []float64, size)
	for from := range mail {
		mail[from] = make([]chan []float64, size)
		for to := range mail[from] {
			// Capacity 2 decouples the send phase of one collective round
			// from the receive phase of the previous one.
			mail[from][to] = make(chan []float64, 2)
		}
	}
	return &Group{size: size, mail: mail, rv: newRendezvous(size)}, nil
}

// Size returns the number of ranks.
func (g *Group) Size() int { return g.size }

// Comm returns the Communicator handle of one rank.
func (g *Group) Comm(rank int) (Communicator, error) {
	if rank < 0 || rank >= g.size {
		return nil, fmt.Errorf("comm(%d): %w", rank, ErrRankRange)
	}
	return &rankComm{g: g, rank: rank}, nil
}

// Run executes fn once per rank, each on its own goroutine, and returns
// the first error. fn bodies communicate through their Communicator
// argument; a body that skips a collective the others enter blocks the
// group, exactly as a real process group would.
func (g *Group) Run(fn func(Communicator) error) error {
	var eg errgroup.Group
	for r := 0; r < g.size; r++ {
		c := &rankComm{g: g, rank: r}
		eg.Go(func() error { return fn(c) })
	}
	return eg.Wait()
}

// rankComm is one rank's view of a Group.
type rankComm struct {
	g    *Group
	rank int
}

// Rank returns this handle's rank.
func (c *rankComm) Rank() int { return c.rank }

// Size returns the group size.
func (c *rankComm) Size() int { return c.g.size }

// SendRecv sends to dst while receiving from src; see Communicator.
func (c *rankComm) SendRecv(dst, src int, send, recv []float64) error {
	if dst < ProcNull || dst >= c.g.size || src < ProcNull || src >= c.g.size {
		return ErrRankRange
	}
	if dst != ProcNull {
		buf := make([]float64, len(send))
		copy(buf, send)
		c.g.mail[c.rank][dst] <- buf
	}
	if src == ProcNull {
		for i := range recv {
			recv[i] = 0
		}
		return nil
	}
	buf := <-c.g.mail[src][c.rank]
	if len(buf) != len(recv) {
		return ErrBufferSize
	}
	copy(recv, buf)
	return nil
}

// AllReduce replaces bins with the bin-wise sum over all ranks.
func (c *rankComm) AllReduce(bins []int64) error {
	return c.g.rv.arrive(bins)
}

// Barrier blocks until every rank arrives.
func (c *rankComm) Barrier() error {
	return c.g.rv.arrive(nil)
}

// rendezvous synchronizes one collective round at a time. The last rank
// to arrive completes the round: it sums the registered bins, writes the
// result and any error into every participant's slot, and bumps the
// generation to release the waiters. Results live in per-participant
// slots, so a slow waiter can never observe a later round's state.
type rendezvous struct {
	mu      sync.Mutex
	cond    *sync.Cond
	size    int
	gen     uint64
	parties []*party
}

// party is one rank's registration in the current round.
type party struct {
	bins []int64
	err  error
}

func newRendezvous(size int) *rendezvous {
	rv := &rendezvous{size: size}
	rv.cond = sync.NewCond(&rv.mu)
	return rv
}

func (rv *rendezvous) arrive(bins []int64) error {
	rv.mu.Lock()
	defer rv.mu.Unlock()

	p := &party{bins: bins}
	rv.parties = append(rv.parties, p)
	if len(rv.parties) < rv.size {
		gen := rv.gen
		for gen == rv.gen {
			rv.cond.Wait()
		}
		return p.err
	}

	// Last arrival: complete the round.
	rv.complete()
	rv.parties = nil
	rv.gen++
	rv.cond.Broadcast()
	return p.err
}

// complete sums all registered bins and distributes the result. A
// barrier round (nil bins everywhere) just releases. Mismatched bin
// counts poison the whole round; the group stays usable afterwards.
func (rv *rendezvous) complete() {
	width := -1
	for _, p := range rv.parties {
		if width == -1 {
			width = len(p.bins)
		} else if len(p.bins) != width {
			for _, q := range rv.parties {
				q.err = ErrBinsMismatch
			}
			return
		}
	}
	if width == 0 {
		return // barrier
	}
	total := make([]int64, width)
	for _, p := range rv.parties {
		for i, v := range p.bins {
			total[i] += v
		}
	}
	for _, p := range rv.parties {
		copy(p.bins, total)
	}
}
