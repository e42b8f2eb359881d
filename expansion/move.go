package expansion

import (
	"time"

	"github.com/katalvlaran/robustpn/energy"
	"github.com/katalvlaran/robustpn/maxflow"
)

// moveBuilder turns one α-expansion move into a min-cut problem on net and
// applies the cut. It owns the per-move working set and is reused across
// moves.
type moveBuilder struct {
	m    *energy.Model
	eval *energy.Evaluator
	net  FlowNetwork

	node []int // flow node of each variable, -1 when already at α

	iteration, alpha int
}

func newMoveBuilder(m *energy.Model, eval *energy.Evaluator, net FlowNetwork) *moveBuilder {
	return &moveBuilder{
		m:    m,
		eval: eval,
		net:  net,
		node: make([]int, m.NumNodes()),
	}
}

// expand builds the network for alpha against labels, runs the cut and
// switches every free variable on the Sink side to alpha. The network is
// Reset before returning. On error labels are left untouched.
//
// Steps:
//  1. Unary terms: fixed variables add cost(v,α) to the constant, free ones
//     get a node with tweights(cost(v,α), cost(v,current)).
//  2. Pairwise Potts terms (see addPair).
//  3. Clique terms through auxiliary nodes (see addClique).
//  4. Max-flow.
//  5. Write back the Sink side.
func (b *moveBuilder) expand(iteration, alpha int, labels []int) (MoveStats, error) {
	defer b.net.Reset()
	b.iteration, b.alpha = iteration, alpha
	stats := MoveStats{Iteration: iteration, Label: alpha}

	// 1) Unary
	for v, l := range labels {
		if l == alpha {
			b.node[v] = -1
			stats.Constant += b.m.Unary(v, alpha)
			continue
		}
		id, err := b.net.AddNode()
		if err != nil {
			return stats, b.fail("add_node", err)
		}
		b.node[v] = id
		stats.FreeNodes++
		if err = b.net.AddTWeights(id, b.m.Unary(v, alpha), b.m.Unary(v, l)); err != nil {
			return stats, b.fail("add_tweights", err)
		}
	}

	// 2) Pairwise
	for _, e := range b.m.Edges() {
		if err := b.addPair(e, labels); err != nil {
			return stats, err
		}
	}

	// 3) Cliques
	for c := range b.m.Cliques() {
		k, err := b.addClique(c, labels, &stats)
		if err != nil {
			return stats, err
		}
		stats.Constant += k
	}

	// 4) Cut
	start := time.Now()
	flow, err := b.net.MaxFlow()
	stats.FlowTime = time.Since(start)
	if err != nil {
		return stats, b.fail("maxflow", err)
	}
	stats.Flow = flow
	stats.MoveEnergy = stats.Constant + flow

	// 5) Write back
	for v, id := range b.node {
		if id >= 0 && b.net.WhatSegment(id) == maxflow.Sink {
			labels[v] = alpha
			stats.Changed++
		}
	}

	return stats, nil
}

// addPair encodes w·[x_u ≠ x_v] restricted to the move.
func (b *moveBuilder) addPair(e energy.Edge, labels []int) error {
	nu, nv := b.node[e.U], b.node[e.V]
	switch {
	case nu < 0 && nv < 0:
		return nil
	case nu < 0:
		return b.tweights(nv, 0, e.Weight)
	case nv < 0:
		return b.tweights(nu, 0, e.Weight)
	case labels[e.U] == labels[e.V]:
		return b.edge(nu, nv, e.Weight, e.Weight)
	default:
		// Paid unless both switch to α.
		if err := b.tweights(nu, 0, e.Weight); err != nil {
			return err
		}

		return b.edge(nu, nv, 0, e.Weight)
	}
}

// addClique encodes the robust cost of clique c and returns its constant
// part γ[α] + λb − γmax.
func (b *moveBuilder) addClique(c int, labels []int, stats *MoveStats) (float64, error) {
	cl := b.m.Clique(c)
	gMax := cl.GammaMax
	gAlpha := cl.Gamma[b.alpha]

	// A: discount for moving everyone to α.
	a, err := b.net.AddNode()
	if err != nil {
		return 0, b.fail("add_node", err)
	}
	stats.AuxNodes++
	if err = b.tweights(a, 0, gMax-gAlpha); err != nil {
		return 0, err
	}
	slope := cl.Slope(b.alpha)
	for _, x := range cl.Members {
		if b.node[x] >= 0 {
			if err = b.edge(a, b.node[x], 0, slope); err != nil {
				return 0, err
			}
		}
	}

	// B: discount for keeping the dominant label.
	lambdaB := gMax
	d := b.eval.DominantLabel(c, labels)
	if d != energy.NoLabel && d != b.alpha {
		slope = cl.Slope(d)
		kept := b.eval.Cardinality(c, d, labels)
		lambdaB = cl.Gamma[d] + float64(cl.Size()-kept)*slope

		bn, err := b.net.AddNode()
		if err != nil {
			return 0, b.fail("add_node", err)
		}
		stats.AuxNodes++
		if err = b.tweights(bn, gMax-lambdaB, 0); err != nil {
			return 0, err
		}
		for _, x := range cl.Members {
			if labels[x] == d {
				if err = b.edge(bn, b.node[x], slope, 0); err != nil {
					return 0, err
				}
			}
		}
	}

	return gAlpha + lambdaB - gMax, nil
}

func (b *moveBuilder) tweights(u int, capSource, capSink float64) error {
	if err := b.net.AddTWeights(u, capSource, capSink); err != nil {
		return b.fail("add_tweights", err)
	}

	return nil
}

func (b *moveBuilder) edge(u, v int, capUV, capVU float64) error {
	if err := b.net.AddEdge(u, v, capUV, capVU); err != nil {
		return b.fail("add_edge", err)
	}

	return nil
}

func (b *moveBuilder) fail(op string, err error) error {
	return &CollaboratorError{Iteration: b.iteration, Label: b.alpha, Op: op, Err: err}
}
