// Package connectivity turns label pairs into a connectivity matrix.
//
// [Build] runs the whole transformation in one synchronous pass:
//
//  1. Collect the distinct labels into a [labels.Index] (ascending order).
//  2. Allocate an N x N zero matrix.
//  3. For every pair, in input order, add one to cell
//     (IndexOf(source), IndexOf(target)). Repeated pairs accumulate.
//  4. If [Options.ZeroDiagonal] is set, clear every (k, k) cell.
//
// Build does no I/O; feed it pairs from [pairs.FromLines] in tests or from
// [pairs.ReadFile] in production.
package connectivity

import (
	"github.com/matzehuels/connmat/pkg/labels"
	"github.com/matzehuels/connmat/pkg/matrix"
	"github.com/matzehuels/connmat/pkg/pairs"
)

// Options controls post-processing of the tallied matrix.
type Options struct {
	// ZeroDiagonal forces self-pair cells to zero after accumulation.
	ZeroDiagonal bool `json:"zero_diagonal" toml:"zero_diagonal"`
}

// DefaultOptions returns the standard options: diagonal zeroing enabled.
func DefaultOptions() Options {
	return Options{ZeroDiagonal: true}
}

// Result is the outcome of [Build].
type Result struct {
	// Index maps labels to matrix rows/columns.
	Index *labels.Index

	// Matrix holds the pair tallies (after optional diagonal zeroing).
	Matrix *matrix.Matrix

	// PairCount is the number of pairs tallied. Before zeroing it equals
	// Matrix.Sum(); afterwards it equals Matrix.Sum() + SelfPairs.
	PairCount int

	// SelfPairs is the diagonal total before zeroing.
	SelfPairs int

	// Options echoes the options the result was built with.
	Options Options
}

// Size returns N, the matrix dimension.
func (r *Result) Size() int {
	return r.Matrix.Size()
}

// Labels returns the row/column labels as plain integers.
func (r *Result) Labels() []uint64 {
	ls := r.Index.Labels()
	out := make([]uint64, len(ls))
	for i, l := range ls {
		out[i] = uint64(l)
	}
	return out
}

// Build remaps the labels in ps to dense indices and tallies the pairs.
func Build(ps []pairs.Pair, opts Options) *Result {
	idx := labels.NewIndex(ps)
	m := matrix.New(idx.Len())

	for _, p := range ps {
		// Every label in ps is in idx by construction.
		i, _ := idx.IndexOf(p.Source)
		j, _ := idx.IndexOf(p.Target)
		m.Inc(i, j)
	}

	self := m.Trace()
	if opts.ZeroDiagonal {
		m.ZeroDiagonal()
	}

	return &Result{
		Index:     idx,
		Matrix:    m,
		PairCount: len(ps),
		SelfPairs: self,
		Options:   opts,
	}
}

// FromLines parses lines and builds the matrix in one call.
func FromLines(lines []string, opts Options) *Result {
	return Build(pairs.FromLines(lines), opts)
}
