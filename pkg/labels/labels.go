// Package labels assigns dense matrix indices to sparse region labels.
//
// Labels in an edge list are arbitrary non-negative integers (1, 2, 1035,
// 2001, ...). An [Index] maps each distinct label to a position in
// [0, N) ordered by label value, so that label k-th smallest lands on row
// and column k of the connectivity matrix.
//
// The mapping is a bijection: IndexOf(LabelAt(i)) == i for every i, and
// every label seen in the input has exactly one index.
package labels

import (
	"slices"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"

	"github.com/matzehuels/connmat/pkg/pairs"
)

// Index is an immutable, ascending label <-> dense index mapping.
type Index struct {
	labels []pairs.Label // sorted ascending, no duplicates
}

// NewIndex builds the index over every label appearing on either side of ps.
func NewIndex(ps []pairs.Pair) *Index {
	set := treeset.NewWith(utils.UInt64Comparator)
	for _, p := range ps {
		set.Add(uint64(p.Source), uint64(p.Target))
	}

	sorted := make([]pairs.Label, 0, set.Size())
	it := set.Iterator()
	for it.Next() {
		sorted = append(sorted, pairs.Label(it.Value().(uint64)))
	}
	return &Index{labels: sorted}
}

// FromLabels builds an index from an explicit label list, as read back from
// a labels sidecar. Duplicates are collapsed and order is normalized.
func FromLabels(ls []pairs.Label) *Index {
	sorted := slices.Clone(ls)
	slices.Sort(sorted)
	return &Index{labels: slices.Compact(sorted)}
}

// Len returns N, the number of distinct labels.
func (x *Index) Len() int {
	return len(x.labels)
}

// IndexOf returns the dense index of label, or false if the label was
// never seen.
func (x *Index) IndexOf(label pairs.Label) (int, bool) {
	return slices.BinarySearch(x.labels, label)
}

// LabelAt returns the label stored at dense index i.
// It panics if i is outside [0, Len()).
func (x *Index) LabelAt(i int) pairs.Label {
	return x.labels[i]
}

// Labels returns a copy of the labels in index order.
func (x *Index) Labels() []pairs.Label {
	return slices.Clone(x.labels)
}

// Map returns the label -> index mapping as a map.
func (x *Index) Map() map[pairs.Label]int {
	m := make(map[pairs.Label]int, len(x.labels))
	for i, l := range x.labels {
		m[l] = i
	}
	return m
}
