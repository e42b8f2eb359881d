package maxflow

import "math"

// edmondsKarp pushes the maximum flow from s to t along BFS shortest
// augmenting paths and returns the amount pushed.
//
// Steps:
//  1. BFS from s over arcs with residual above the threshold, recording the arc used
//     to enter each node (O(V + E)).
//  2. If t was not reached, stop.
//  3. Walk back from t to find the bottleneck, then augment along the path.
//
// Complexity: O(V·E²)
// Memory:     O(V)
func (g *Graph) edmondsKarp(s, t int) float64 {
	var total float64
	eps := g.eps
	for {
		// 1) BFS
		g.parent = resizeInt(g.parent, len(g.first))
		for i := range g.parent {
			g.parent[i] = -1
		}
		g.parent[s] = len(g.to) // any non-negative marker; s is never walked through
		g.queue = append(g.queue[:0], s)
		for i := 0; i < len(g.queue) && g.parent[t] < 0; i++ {
			u := g.queue[i]
			for e := g.first[u]; e != -1; e = g.next[e] {
				v := g.to[e]
				if g.parent[v] < 0 && g.rcap[e] > eps {
					g.parent[v] = e
					g.queue = append(g.queue, v)
				}
			}
		}

		// 2) No augmenting path left
		if g.parent[t] < 0 {
			return total
		}

		// 3) Bottleneck and augmentation
		bottleneck := math.Inf(1)
		for v := t; v != s; v = g.to[g.parent[v]^1] {
			bottleneck = math.Min(bottleneck, g.rcap[g.parent[v]])
		}
		for v := t; v != s; v = g.to[g.parent[v]^1] {
			e := g.parent[v]
			g.rcap[e] -= bottleneck
			g.rcap[e^1] += bottleneck
		}
		total += bottleneck
	}
}
