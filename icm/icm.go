package icm

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/rs/zerolog"

	"github.com/katalvlaran/robustpn/energy"
)

var (
	// ErrHigherOrder indicates a model with cliques.
	ErrHigherOrder = errors.New("icm: model has higher-order cliques")
	// ErrBadOptions indicates negative MaxIterations.
	ErrBadOptions = errors.New("icm: invalid options")
)

// Options configures Minimize.
//   - MaxIterations: sweep limit (default 10).
//   - Seed: seeds the random initial labelling when none is given.
//   - Logger: nil logs nothing.
type Options struct {
	MaxIterations int
	Seed          int64
	Logger        *zerolog.Logger
}

// DefaultOptions returns Options{MaxIterations: 10}.
func DefaultOptions() Options {
	return Options{MaxIterations: 10}
}

// Result is the outcome of Minimize.
type Result struct {
	Labels []int
	Energy float64
	// Sweeps counts full passes over the nodes; Changes counts label
	// adoptions over all sweeps.
	Sweeps  int
	Changes int
	// Converged reports that the last sweep changed nothing.
	Converged bool
}

// neighbor is one incident Potts edge.
type neighbor struct {
	node   int
	weight float64
}

// Minimize runs ICM on m from init, which is updated in place. A nil init
// starts from a random labelling.
func Minimize(m *energy.Model, init []int, opts Options) (Result, error) {
	if m.NumCliques() > 0 {
		return Result{}, ErrHigherOrder
	}
	if opts.MaxIterations < 0 {
		return Result{}, fmt.Errorf("%w: MaxIterations %d", ErrBadOptions, opts.MaxIterations)
	}
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}

	labels := init
	if labels == nil {
		rng := rand.New(rand.NewSource(opts.Seed))
		labels = make([]int, m.NumNodes())
		for v := range labels {
			labels[v] = rng.Intn(m.NumLabels())
		}
	} else if err := m.ValidateLabels(labels); err != nil {
		return Result{}, err
	}

	adj := make([][]neighbor, m.NumNodes())
	for _, e := range m.Edges() {
		adj[e.U] = append(adj[e.U], neighbor{e.V, e.Weight})
		adj[e.V] = append(adj[e.V], neighbor{e.U, e.Weight})
	}

	res := Result{Labels: labels}
	agree := make([]float64, m.NumLabels()) // Potts weight towards each label
	for res.Sweeps < opts.MaxIterations {
		res.Sweeps++
		changed := 0
		for v := range labels {
			clear(agree)
			for _, nb := range adj[v] {
				agree[labels[nb.node]] += nb.weight
			}
			for l := range agree {
				cur := labels[v]
				diff := m.Unary(v, l) - m.Unary(v, cur) - agree[l] + agree[cur]
				if diff < 0 {
					labels[v] = l
					changed++
				}
			}
		}
		res.Changes += changed
		log.Debug().Int("sweep", res.Sweeps).Int("changed", changed).Msg("icm sweep")
		if changed == 0 {
			res.Converged = true
			break
		}
	}

	res.Energy = energy.NewEvaluator(m).Energy(labels)
	log.Info().Int("sweeps", res.Sweeps).Bool("converged", res.Converged).Float64("energy", res.Energy).Msg("icm finished")

	return res, nil
}
