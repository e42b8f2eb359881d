package problem

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/robustpn/energy"
	"github.com/katalvlaran/robustpn/grid"
)

// ErrSchema indicates a structurally invalid problem file.
var ErrSchema = errors.New("problem: invalid problem file")

// File mirrors the YAML problem schema.
type File struct {
	Labels   int           `yaml:"labels"`
	Nodes    int           `yaml:"nodes"`
	Unary    [][]float64   `yaml:"unary"`
	Edges    []EdgeSpec    `yaml:"edges"`
	Grid     *GridSpec     `yaml:"grid"`
	Cliques  []CliqueSpec  `yaml:"cliques"`
	Segments []SegmentSpec `yaml:"segments"`
	Initial  []int         `yaml:"initial"`
}

// EdgeSpec is one Potts pair.
type EdgeSpec struct {
	U int     `yaml:"u"`
	V int     `yaml:"v"`
	W float64 `yaml:"w"`
}

// GridSpec adds lattice edges.
type GridSpec struct {
	Width        int       `yaml:"width"`
	Height       int       `yaml:"height"`
	Connectivity string    `yaml:"connectivity"`
	Weight       float64   `yaml:"weight"`
	Intensity    []float64 `yaml:"intensity"`
	Lambda       float64   `yaml:"lambda"`
	Beta         float64   `yaml:"beta"`
}

// CliqueSpec is one robust P^n clique.
type CliqueSpec struct {
	Members    []int     `yaml:"members"`
	Truncation float64   `yaml:"truncation"`
	Gamma      []float64 `yaml:"gamma"`
	GammaMax   float64   `yaml:"gamma_max"`
}

// SegmentSpec turns a region map into cliques sharing the same costs.
type SegmentSpec struct {
	Regions         [][]int   `yaml:"regions"`
	Truncation      float64   `yaml:"truncation"`
	TruncationRatio float64   `yaml:"truncation_ratio"`
	Gamma           []float64 `yaml:"gamma"`
	GammaMax        float64   `yaml:"gamma_max"`
}

// Problem is a built model plus its optional starting labelling.
type Problem struct {
	Name    string
	Model   *energy.Model
	Initial []int
}

// Load reads and builds the problem at path. Name is the file name without
// its extension.
func Load(path string) (*Problem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("problem: open %s: %w", path, err)
	}
	defer f.Close()

	p, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("problem: %s: %w", path, err)
	}
	p.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	return p, nil
}

// Decode reads one YAML problem from r and builds it. Unknown keys are
// rejected.
func Decode(r io.Reader) (*Problem, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var f File
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("problem: decode: %w", err)
	}

	return f.Build()
}

// Build validates the file and assembles the model.
//
// Steps:
//  1. Resolve the node count (explicit or from the grid).
//  2. Unary rows.
//  3. Explicit edges, then grid edges.
//  4. Explicit cliques, then one clique per segment region.
func (f *File) Build() (*Problem, error) {
	// 1) Sizes
	var g *grid.Grid
	if f.Grid != nil {
		conn, err := grid.ParseConnectivity(f.Grid.Connectivity)
		if err != nil {
			return nil, err
		}
		if g, err = grid.New(f.Grid.Width, f.Grid.Height, grid.Options{Conn: conn}); err != nil {
			return nil, err
		}
		if f.Nodes == 0 {
			f.Nodes = g.Size()
		}
		if f.Nodes != g.Size() {
			return nil, fmt.Errorf("%w: grid has %d cells but nodes is %d", ErrSchema, g.Size(), f.Nodes)
		}
	}
	if len(f.Segments) > 0 && g == nil {
		return nil, fmt.Errorf("%w: segments need a grid", ErrSchema)
	}
	if len(f.Unary) > f.Nodes {
		return nil, fmt.Errorf("%w: %d unary rows for %d nodes", ErrSchema, len(f.Unary), f.Nodes)
	}
	b, err := energy.NewBuilder(f.Labels, f.Nodes, 0, 0)
	if err != nil {
		return nil, err
	}

	// 2) Unary
	for v, row := range f.Unary {
		if err = b.SetUnaryRow(v, row); err != nil {
			return nil, err
		}
	}

	// 3) Edges
	for _, e := range f.Edges {
		b.AddEdge(e.U, e.V, e.W)
	}
	if g != nil {
		weight := grid.Uniform(f.Grid.Weight)
		if len(f.Grid.Intensity) > 0 {
			if weight, err = g.ContrastWeight(f.Grid.Intensity, f.Grid.Lambda, f.Grid.Beta); err != nil {
				return nil, err
			}
		}
		for _, e := range g.Edges(weight) {
			b.AddEdge(e.U, e.V, e.Weight)
		}
	}

	// 4) Cliques
	for _, c := range f.Cliques {
		if _, err = b.AddClique(c.Members, c.Truncation, c.Gamma, c.GammaMax); err != nil {
			return nil, err
		}
	}
	for i, s := range f.Segments {
		if err = addSegment(b, g, i, s); err != nil {
			return nil, err
		}
	}

	m, err := b.Build()
	if err != nil {
		return nil, err
	}
	if f.Initial != nil {
		if err = m.ValidateLabels(f.Initial); err != nil {
			return nil, err
		}
	}

	return &Problem{Model: m, Initial: f.Initial}, nil
}

// addSegment flattens a row-major region map and adds one clique per region.
func addSegment(b *energy.Builder, g *grid.Grid, i int, s SegmentSpec) error {
	if len(s.Regions) != g.Height {
		return fmt.Errorf("%w: segment %d has %d rows, grid has %d", ErrSchema, i, len(s.Regions), g.Height)
	}
	flat := make([]int, 0, g.Size())
	for y, row := range s.Regions {
		if len(row) != g.Width {
			return fmt.Errorf("%w: segment %d row %d has %d cells, grid has %d", ErrSchema, i, y, len(row), g.Width)
		}
		flat = append(flat, row...)
	}
	regions, err := g.Regions(flat)
	if err != nil {
		return err
	}
	for _, members := range regions {
		q := s.Truncation
		if s.TruncationRatio > 0 {
			q = s.TruncationRatio * float64(len(members))
		}
		if _, err = b.AddClique(members, q, s.Gamma, s.GammaMax); err != nil {
			return err
		}
	}

	return nil
}
