package problem_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/robustpn/energy"
	"github.com/katalvlaran/robustpn/expansion"
	"github.com/katalvlaran/robustpn/grid"
	"github.com/katalvlaran/robustpn/problem"
)

const explicitYAML = `
labels: 2
nodes: 3
unary:
  - [0, 5]
  - [0, 5]
  - [5, 0]
edges:
  - {u: 0, v: 1, w: 1.5}
cliques:
  - {members: [0, 1, 2], truncation: 1, gamma: [0, 0], gamma_max: 10}
initial: [0, 0, 1]
`

const gridYAML = `
labels: 2
unary:
  - [0, 1]
grid:
  width: 3
  height: 2
  connectivity: "4"
  weight: 2
segments:
  - regions:
      - [0, 0, 1]
      - [0, 1, 1]
    truncation_ratio: 0.5
    gamma_max: 4
`

// ProblemSuite covers decoding, building and result files.
type ProblemSuite struct {
	suite.Suite
}

// TestExplicit decodes every explicit section.
func (s *ProblemSuite) TestExplicit() {
	p, err := problem.Decode(strings.NewReader(explicitYAML))
	require.NoError(s.T(), err)
	m := p.Model
	require.Equal(s.T(), 2, m.NumLabels())
	require.Equal(s.T(), 3, m.NumNodes())
	require.Equal(s.T(), 5.0, m.Unary(2, 0))
	require.Equal(s.T(), []energy.Edge{{U: 0, V: 1, Weight: 1.5}}, m.Edges())
	require.Equal(s.T(), 1, m.NumCliques())
	require.Equal(s.T(), []int{0, 1, 2}, m.Clique(0).Members)
	require.Equal(s.T(), 10.0, m.Clique(0).GammaMax)
	require.Equal(s.T(), []int{0, 0, 1}, p.Initial)
}

// TestGridAndSegments derives nodes, lattice edges and region cliques.
func (s *ProblemSuite) TestGridAndSegments() {
	p, err := problem.Decode(strings.NewReader(gridYAML))
	require.NoError(s.T(), err)
	m := p.Model
	require.Equal(s.T(), 6, m.NumNodes())
	require.Equal(s.T(), 1.0, m.Unary(0, 1))
	require.Equal(s.T(), 0.0, m.Unary(5, 1))
	require.Equal(s.T(), 7, m.NumEdges())
	require.Nil(s.T(), p.Initial)

	require.Equal(s.T(), 2, m.NumCliques())
	require.Equal(s.T(), []int{0, 1, 3}, m.Clique(0).Members)
	require.Equal(s.T(), []int{2, 4, 5}, m.Clique(1).Members)
	require.Equal(s.T(), 1.5, m.Clique(0).Truncation)
	require.Equal(s.T(), []float64{0, 0}, m.Clique(1).Gamma)
}

// TestContrastGrid uses intensities for edge weights.
func (s *ProblemSuite) TestContrastGrid() {
	doc := `
labels: 2
grid: {width: 2, height: 1, intensity: [0, 1], lambda: 3, beta: 1}
`
	p, err := problem.Decode(strings.NewReader(doc))
	require.NoError(s.T(), err)
	require.Equal(s.T(), 1, p.Model.NumEdges())
	require.InDelta(s.T(), 3*0.36787944117144233, p.Model.Edge(0).Weight, 1e-12)
}

// TestRejects covers schema and validation failures.
func (s *ProblemSuite) TestRejects() {
	cases := []struct {
		name string
		doc  string
		err  error
	}{
		{"grid size", "labels: 2\nnodes: 5\ngrid: {width: 2, height: 2}\n", problem.ErrSchema},
		{"segments need grid", "labels: 2\nnodes: 2\nsegments: [{regions: [[0, 0]], truncation: 1, gamma_max: 1}]\n", problem.ErrSchema},
		{"segment shape", "labels: 2\ngrid: {width: 2, height: 1}\nsegments: [{regions: [[0]], truncation: 1, gamma_max: 1}]\n", problem.ErrSchema},
		{"too many rows", "labels: 2\nnodes: 1\nunary: [[0, 0], [0, 0]]\n", problem.ErrSchema},
		{"bad connectivity", "labels: 2\ngrid: {width: 2, height: 1, connectivity: \"6\"}\n", grid.ErrBadConnectivity},
		{"no nodes", "labels: 2\n", energy.ErrNoNodes},
		{"negative weight", "labels: 2\nnodes: 2\nedges: [{u: 0, v: 1, w: -1}]\n", energy.ErrNegativeWeight},
		{"bad initial", "labels: 2\nnodes: 2\ninitial: [0, 3]\n", energy.ErrLabelOutOfRange},
	}
	for _, tc := range cases {
		_, err := problem.Decode(strings.NewReader(tc.doc))
		require.ErrorIs(s.T(), err, tc.err, tc.name)
	}

	_, err := problem.Decode(strings.NewReader("labels: 2\nnodes: 1\ncolour: red\n"))
	require.Error(s.T(), err)
}

// TestLoad names the problem after its file.
func (s *ProblemSuite) TestLoad() {
	path := filepath.Join(s.T().TempDir(), "strip.yaml")
	require.NoError(s.T(), os.WriteFile(path, []byte(explicitYAML), 0o600))
	p, err := problem.Load(path)
	require.NoError(s.T(), err)
	require.Equal(s.T(), "strip", p.Name)

	_, err = problem.Load(filepath.Join(s.T().TempDir(), "missing.yaml"))
	require.ErrorIs(s.T(), err, os.ErrNotExist)
}

// TestResultFile writes an expansion result and reads it back.
func (s *ProblemSuite) TestResultFile() {
	res := expansion.Result{
		Labels:     []int{0, 1, 1},
		Energy:     4.5,
		State:      expansion.Converged,
		Iterations: 2,
		Moves:      3,
		Trace:      []expansion.Sample{{Energy: 9}, {Elapsed: 2 * time.Millisecond, Energy: 4.5}},
	}
	out := problem.FromExpansion("strip", res)
	require.Equal(s.T(), "converged", out.State)
	require.Equal(s.T(), 2.0, out.Trace[1].ElapsedMS)

	var buf bytes.Buffer
	require.NoError(s.T(), problem.WriteResult(&buf, out))
	require.Contains(s.T(), buf.String(), "labels: [0, 1, 1]")

	back, err := problem.ReadResult(&buf)
	require.NoError(s.T(), err)
	require.Equal(s.T(), out, back)

	path := filepath.Join(s.T().TempDir(), "strip.result.yaml")
	require.NoError(s.T(), problem.SaveResult(path, out))
	data, err := os.ReadFile(path)
	require.NoError(s.T(), err)
	require.Contains(s.T(), string(data), "solver: expansion")
}

func TestProblemSuite(t *testing.T) {
	suite.Run(t, new(ProblemSuite))
}
