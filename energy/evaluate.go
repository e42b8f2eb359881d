package energy

// Breakdown splits a total energy into its three families of terms.
type Breakdown struct {
	Unary       float64
	Pairwise    float64
	HigherOrder float64
	Total       float64
}

// Evaluator computes energies of labellings of one Model. It keeps a label
// tally buffer and is therefore not safe for concurrent use; create one per
// goroutine.
//
// Methods do not validate the labelling; use Model.ValidateLabels or the
// package-level Evaluate for untrusted input.
type Evaluator struct {
	m     *Model
	tally []int
}

// NewEvaluator returns an Evaluator bound to m.
func NewEvaluator(m *Model) *Evaluator {
	return &Evaluator{m: m, tally: make([]int, m.numLabels)}
}

// Evaluate validates labels and returns the total energy E(labels).
func Evaluate(m *Model, labels []int) (float64, error) {
	if err := m.ValidateLabels(labels); err != nil {
		return 0, err
	}

	return NewEvaluator(m).Energy(labels), nil
}

// Energy returns the total energy of labels.
//
// Complexity: O(numNodes + numEdges + Σ(|c| + numLabels)).
func (e *Evaluator) Energy(labels []int) float64 {
	return e.Breakdown(labels).Total
}

// Breakdown returns the unary, pairwise and higher-order parts of E(labels).
func (e *Evaluator) Breakdown(labels []int) Breakdown {
	b := Breakdown{
		Unary:       e.UnaryEnergy(labels),
		Pairwise:    e.PairwiseEnergy(labels),
		HigherOrder: e.HigherOrderEnergy(labels),
	}
	b.Total = b.Unary + b.Pairwise + b.HigherOrder

	return b
}

// UnaryEnergy returns Σ_v unary(v, labels[v]).
func (e *Evaluator) UnaryEnergy(labels []int) float64 {
	var sum float64
	for v, l := range labels {
		sum += e.m.unary.At(v, l)
	}

	return sum
}

// PairwiseEnergy returns the summed weight of edges whose endpoints disagree.
func (e *Evaluator) PairwiseEnergy(labels []int) float64 {
	var sum float64
	for _, edge := range e.m.edges {
		if labels[edge.U] != labels[edge.V] {
			sum += edge.Weight
		}
	}

	return sum
}

// HigherOrderEnergy returns the summed CliqueCost over all cliques.
func (e *Evaluator) HigherOrderEnergy(labels []int) float64 {
	var sum float64
	for c := range e.m.cliques {
		sum += e.CliqueCost(c, labels)
	}

	return sum
}

// CliqueCost returns the robust P^n-Potts cost of clique c:
//
//	min(γmax, min_l γ[l] + (|c| − n_l) · (γmax − γ[l]) / Q)
//
// The result lies in [min_l γ[l], γmax] whenever γ[l] ≤ γmax for all l.
func (e *Evaluator) CliqueCost(c int, labels []int) float64 {
	cl := e.m.cliques[c]
	e.count(cl, labels)

	size := float64(len(cl.Members))
	best := cl.GammaMax
	for l, n := range e.tally {
		cost := cl.Gamma[l] + (size-float64(n))*cl.Slope(l)
		if cost <= best {
			best = cost
		}
	}

	return best
}

// DominantLabel returns the most frequent label among the members of clique
// c, or NoLabel when its count does not exceed |c| − Q (the clique is past its
// tolerated-outlier budget).
//
// Ties go to the lowest label index, independent of member order: labels
// are scanned in ascending order and only a strictly larger count replaces
// the current best. Members labelled [2 0 2 0] therefore yield 0, not the
// first member's label 2 and not the highest tied label.
func (e *Evaluator) DominantLabel(c int, labels []int) int {
	cl := e.m.cliques[c]
	e.count(cl, labels)

	best, bestCount := NoLabel, 0
	for l, n := range e.tally {
		if n > bestCount {
			best, bestCount = l, n
		}
	}
	if best == NoLabel || float64(bestCount) <= float64(len(cl.Members))-cl.Truncation {
		return NoLabel
	}

	return best
}

// Cardinality returns how many members of clique c carry label l.
func (e *Evaluator) Cardinality(c, l int, labels []int) int {
	n := 0
	for _, v := range e.m.cliques[c].Members {
		if labels[v] == l {
			n++
		}
	}

	return n
}

// count fills e.tally with label frequencies over the members of cl.
func (e *Evaluator) count(cl Clique, labels []int) {
	clear(e.tally)
	for _, v := range cl.Members {
		e.tally[labels[v]]++
	}
}
