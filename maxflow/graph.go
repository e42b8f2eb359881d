package maxflow

import (
	"fmt"
	"math"
)

// Graph is a capacitated network over nodes 0..NumNodes()-1 plus implicit
// source and sink terminals. Arcs are stored in paired residual arrays: arc
// e and its reverse e^1 are always adjacent.
//
// A Graph is not safe for concurrent use.
type Graph struct {
	opts Options

	tr     []float64 // normalized terminal residual: >0 source→u, <0 u→sink
	offset float64   // Σ min(capSource, capSink) over AddTWeights calls
	edges  int

	first []int // head of each node's arc list, -1 terminated
	next  []int
	to    []int
	rcap  []float64

	eps      float64 // Options.Epsilon scaled by the largest capacity
	solved   bool
	flow     float64
	sinkSide []bool

	level  []int
	cursor []int
	queue  []int
	parent []int
}

// New returns an empty Graph configured by opts. An empty Algorithm means
// Dinic; a zero Epsilon compares residuals exactly.
func New(opts Options) *Graph {
	opts.normalize()

	return &Graph{opts: opts}
}

// NumNodes returns the number of nodes added since the last Reset.
func (g *Graph) NumNodes() int { return len(g.tr) }

// NumEdges returns the number of AddEdge calls that created arcs since the
// last Reset.
func (g *Graph) NumEdges() int { return g.edges }

// AddNode appends a node with zero terminal weights and returns its id.
// Ids are assigned consecutively from 0.
func (g *Graph) AddNode() (int, error) {
	if g.solved {
		return 0, ErrSolved
	}
	if g.opts.MaxNodes > 0 && len(g.tr) >= g.opts.MaxNodes {
		return 0, fmt.Errorf("%w: %d", ErrNodeLimit, g.opts.MaxNodes)
	}
	id := len(g.tr)
	g.tr = append(g.tr, 0)
	g.first = append(g.first, -1)

	return id, nil
}

// AddEdge adds an arc u→v with capacity capUV and an arc v→u with capacity
// capVU. Both capacities must be finite and non-negative.
func (g *Graph) AddEdge(u, v int, capUV, capVU float64) error {
	if g.solved {
		return ErrSolved
	}
	if err := g.checkNode(u); err != nil {
		return err
	}
	if err := g.checkNode(v); err != nil {
		return err
	}
	if u == v {
		return fmt.Errorf("%w: node %d", ErrSelfLoop, u)
	}
	if !validCapacity(capUV) {
		return &CapacityError{From: u, To: v, Cap: capUV}
	}
	if !validCapacity(capVU) {
		return &CapacityError{From: v, To: u, Cap: capVU}
	}
	if capUV == 0 && capVU == 0 {
		return nil
	}
	g.addArc(u, v, capUV, capVU)
	g.edges++

	return nil
}

// AddTWeights adds capSource (paid when u ends in SINK) and capSink (paid
// when u ends in SOURCE) to node u. Repeated calls accumulate.
func (g *Graph) AddTWeights(u int, capSource, capSink float64) error {
	if g.solved {
		return ErrSolved
	}
	if err := g.checkNode(u); err != nil {
		return err
	}
	if math.IsNaN(capSource) || math.IsInf(capSource, 0) {
		return &CapacityError{From: u, To: Terminal, Cap: capSource}
	}
	if math.IsNaN(capSink) || math.IsInf(capSink, 0) {
		return &CapacityError{From: u, To: Terminal, Cap: capSink}
	}

	// Fold the existing residual back in, then keep only the difference.
	if r := g.tr[u]; r > 0 {
		capSource += r
	} else {
		capSink -= r
	}
	g.offset += math.Min(capSource, capSink)
	g.tr[u] = capSource - capSink

	return nil
}

// MaxFlow computes the maximum flow (= minimum cut cost, including the
// terminal-weight offset) and fixes the segments reported by WhatSegment.
// Calling it again before Reset returns the cached value.
//
// Steps:
//  1. Append the source and sink terminals and their arcs, and scale the
//     saturation threshold to the largest capacity (O(V + E)).
//  2. Run the configured algorithm on the residual arrays.
//  3. Mark every node that still reaches the sink (reverse BFS, O(V + E)).
func (g *Graph) MaxFlow() (float64, error) {
	if g.solved {
		return g.flow, nil
	}
	if g.opts.Algorithm != Dinic && g.opts.Algorithm != EdmondsKarp {
		return 0, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, g.opts.Algorithm)
	}

	// 1) Terminals
	n := len(g.tr)
	s, t := n, n+1
	g.first = append(g.first[:n], -1, -1)
	for u, r := range g.tr {
		switch {
		case r > 0:
			g.addArc(s, u, r, 0)
		case r < 0:
			g.addArc(u, t, -r, 0)
		}
	}

	g.eps = g.opts.Epsilon * g.maxCapacity()

	// 2) Augment
	var pushed float64
	if g.opts.Algorithm == EdmondsKarp {
		pushed = g.edmondsKarp(s, t)
	} else {
		pushed = g.dinic(s, t)
	}

	// 3) Segments
	g.markSinkSide(t)
	g.flow = g.offset + pushed
	g.solved = true

	return g.flow, nil
}

// WhatSegment returns the cut side of node u after MaxFlow. Before MaxFlow,
// or for an unknown id, it returns Source.
func (g *Graph) WhatSegment(u int) Segment {
	if !g.solved || u < 0 || u >= len(g.tr) || !g.sinkSide[u] {
		return Source
	}

	return Sink
}

// Reset removes all nodes, arcs and terminal weights. Allocated buffers are
// kept for reuse and node ids restart at 0.
func (g *Graph) Reset() {
	g.tr = g.tr[:0]
	g.offset = 0
	g.edges = 0
	g.first = g.first[:0]
	g.next = g.next[:0]
	g.to = g.to[:0]
	g.rcap = g.rcap[:0]
	g.solved = false
	g.flow = 0
	g.sinkSide = g.sinkSide[:0]
}

// addArc appends the pair u→v (capacity c) and v→u (capacity rc).
func (g *Graph) addArc(u, v int, c, rc float64) {
	e := len(g.to)
	g.to = append(g.to, v, u)
	g.rcap = append(g.rcap, c, rc)
	g.next = append(g.next, g.first[u], g.first[v])
	g.first[u] = e
	g.first[v] = e + 1
}

// markSinkSide marks every node with a residual path to t.
func (g *Graph) markSinkSide(t int) {
	size := len(g.first)
	g.sinkSide = resizeBool(g.sinkSide, size)
	g.queue = append(g.queue[:0], t)
	g.sinkSide[t] = true
	eps := g.eps
	for i := 0; i < len(g.queue); i++ {
		v := g.queue[i]
		for e := g.first[v]; e != -1; e = g.next[e] {
			w := g.to[e]
			// e^1 is the arc w→v.
			if !g.sinkSide[w] && g.rcap[e^1] > eps {
				g.sinkSide[w] = true
				g.queue = append(g.queue, w)
			}
		}
	}
}

// maxCapacity returns the largest residual capacity of any arc.
func (g *Graph) maxCapacity() float64 {
	var m float64
	for _, c := range g.rcap {
		m = math.Max(m, c)
	}

	return m
}

func (g *Graph) checkNode(u int) error {
	if u < 0 || u >= len(g.tr) {
		return fmt.Errorf("%w: %d (have %d)", ErrNodeOutOfRange, u, len(g.tr))
	}

	return nil
}

func validCapacity(c float64) bool {
	return c >= 0 && !math.IsInf(c, 1)
}

func resizeInt(buf []int, n int) []int {
	if cap(buf) < n {
		return make([]int, n)
	}

	return buf[:n]
}

func resizeBool(buf []bool, n int) []bool {
	if cap(buf) < n {
		return make([]bool, n)
	}
	buf = buf[:n]
	clear(buf)

	return buf
}
