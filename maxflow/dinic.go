package maxflow

import "math"

// dinic pushes the maximum flow from s to t with Dinic's algorithm and
// returns the amount pushed through the residual arrays.
//
// Steps:
//  1. BFS from s over arcs with residual above the threshold to assign levels (O(V + E)).
//  2. If t is unreachable, stop.
//  3. Reset per-node arc cursors and push blocking flow with DFS along arcs
//     that climb exactly one level; a cursor only advances past an arc once
//     it is saturated or leads to a dead end.
//  4. With LevelRebuildInterval > 0, return to step 1 after that many pushes.
//
// Complexity:
//
//	Time:   O(V²·E) worst case.
//	Memory: O(V) for levels and cursors on top of the arc arrays.
func (g *Graph) dinic(s, t int) float64 {
	var total float64
	for g.buildLevels(s, t) {
		g.cursor = resizeInt(g.cursor, len(g.first))
		copy(g.cursor, g.first)

		pushes := 0
		for {
			pushed := g.dinicPush(s, t, math.Inf(1))
			if pushed == 0 {
				break
			}
			total += pushed
			pushes++
			if g.opts.LevelRebuildInterval > 0 && pushes%g.opts.LevelRebuildInterval == 0 {
				break
			}
		}
	}

	return total
}

// buildLevels fills g.level with BFS distances from s and reports whether t
// was reached.
func (g *Graph) buildLevels(s, t int) bool {
	g.level = resizeInt(g.level, len(g.first))
	for i := range g.level {
		g.level[i] = -1
	}
	g.level[s] = 0
	g.queue = append(g.queue[:0], s)
	eps := g.eps
	for i := 0; i < len(g.queue); i++ {
		u := g.queue[i]
		for e := g.first[u]; e != -1; e = g.next[e] {
			v := g.to[e]
			if g.rcap[e] > eps && g.level[v] < 0 {
				g.level[v] = g.level[u] + 1
				g.queue = append(g.queue, v)
			}
		}
	}

	return g.level[t] >= 0
}

// dinicPush sends up to available units from u to t along the level graph
// and returns the amount sent.
func (g *Graph) dinicPush(u, t int, available float64) float64 {
	if u == t {
		return available
	}
	eps := g.eps
	for ; g.cursor[u] != -1; g.cursor[u] = g.next[g.cursor[u]] {
		e := g.cursor[u]
		v := g.to[e]
		if g.rcap[e] <= eps || g.level[v] != g.level[u]+1 {
			continue
		}
		pushed := g.dinicPush(v, t, math.Min(available, g.rcap[e]))
		if pushed > 0 {
			g.rcap[e] -= pushed
			g.rcap[e^1] += pushed

			return pushed
		}
	}

	return 0
}
