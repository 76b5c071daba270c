// Package stats summarizes a connectivity matrix.
//
// Strength is the weighted degree of a region: out-strength is its row sum,
// in-strength its column sum. Density counts non-zero off-diagonal cells
// against the N(N-1) possible directed connections. Hub ranking runs
// PageRank over the directed graph of non-zero cells.
package stats

import (
	"cmp"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/graph/network"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/matzehuels/connmat/pkg/matrix"
)

// Summary describes a matrix.
type Summary struct {
	Size        int     `json:"size"`
	Total       int     `json:"total"`
	NonZero     int     `json:"non_zero"`
	Density     float64 `json:"density"`
	Symmetric   bool    `json:"symmetric"`
	Trace       int     `json:"trace"`
	MaxCell     int     `json:"max_cell"`
	OutStrength Moments `json:"out_strength"`
	InStrength  Moments `json:"in_strength"`
	Hubs        []Hub   `json:"hubs,omitempty"`
}

// Moments is a mean and a sample standard deviation.
type Moments struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
}

// Hub is a highly ranked region.
type Hub struct {
	Label uint64  `json:"label"`
	Rank  float64 `json:"rank"`
}

// DefaultHubs is how many hubs [Summarize] reports.
const DefaultHubs = 5

const (
	pageRankDamping   = 0.85
	pageRankTolerance = 1e-6
)

// Summarize computes the summary of m. labels[i] names row i; it may be
// nil, in which case hubs are reported by dense index.
func Summarize(m *matrix.Matrix, labels []uint64, hubs int) Summary {
	n := m.Size()
	s := Summary{
		Size:    n,
		Total:   m.Sum(),
		Trace:   m.Trace(),
		MaxCell: m.Max(),
	}
	if n == 0 {
		s.Symmetric = true
		return s
	}

	d := Dense(m)
	s.Symmetric = mat.Equal(d, d.T())

	out := make([]float64, n)
	in := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = floats.Sum(mat.Row(nil, i, d))
		in[i] = floats.Sum(mat.Col(nil, i, d))
		for j := 0; j < n; j++ {
			if i != j && m.At(i, j) != 0 {
				s.NonZero++
			}
		}
	}
	if n > 1 {
		s.Density = float64(s.NonZero) / float64(n*(n-1))
	}
	s.OutStrength = moments(out)
	s.InStrength = moments(in)
	s.Hubs = rankHubs(m, labels, hubs)
	return s
}

// Dense copies m into a gonum dense matrix.
func Dense(m *matrix.Matrix) *mat.Dense {
	n := m.Size()
	if n == 0 {
		return &mat.Dense{}
	}
	data := make([]float64, 0, n*n)
	for i := 0; i < n; i++ {
		for _, v := range m.Row(i) {
			data = append(data, float64(v))
		}
	}
	return mat.NewDense(n, n, data)
}

func moments(xs []float64) Moments {
	if len(xs) < 2 {
		return Moments{Mean: stat.Mean(xs, nil)}
	}
	mean, std := stat.MeanStdDev(xs, nil)
	return Moments{Mean: mean, StdDev: std}
}

// rankHubs returns the top k regions by PageRank over non-zero
// off-diagonal cells. Ties break on label order.
func rankHubs(m *matrix.Matrix, labels []uint64, k int) []Hub {
	n := m.Size()
	if k <= 0 || n == 0 {
		return nil
	}

	g := simple.NewDirectedGraph()
	for i := 0; i < n; i++ {
		g.AddNode(simple.Node(i))
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i != j && m.At(i, j) > 0 {
				g.SetEdge(g.NewEdge(simple.Node(i), simple.Node(j)))
			}
		}
	}

	ranks := network.PageRank(g, pageRankDamping, pageRankTolerance)
	hubs := make([]Hub, 0, n)
	for i := 0; i < n; i++ {
		label := uint64(i)
		if labels != nil {
			label = labels[i]
		}
		hubs = append(hubs, Hub{Label: label, Rank: ranks[int64(i)]})
	}
	slices.SortStableFunc(hubs, func(a, b Hub) int {
		if c := cmp.Compare(b.Rank, a.Rank); c != 0 {
			return c
		}
		return cmp.Compare(a.Label, b.Label)
	})
	if len(hubs) > k {
		hubs = hubs[:k]
	}
	return hubs
}
