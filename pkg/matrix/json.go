package matrix

import (
	"encoding/json"
	"fmt"
	"io"
)

// Document is the JSON form of a labelled matrix:
//
//	{"labels": [1, 2, 3], "matrix": [[0,2,0],[1,0,0],[0,0,0]]}
//
// Labels[i] names row and column i.
type Document struct {
	Labels []uint64 `json:"labels"`
	Matrix [][]int  `json:"matrix"`
}

// WriteJSON encodes m with its row/column labels.
// len(labels) must equal m.Size().
func WriteJSON(w io.Writer, m *Matrix, labels []uint64) error {
	if len(labels) != m.n {
		return fmt.Errorf("have %d labels for a %dx%d matrix", len(labels), m.n, m.n)
	}
	doc := Document{Labels: labels, Matrix: m.Rows()}
	if doc.Labels == nil {
		doc.Labels = []uint64{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadJSON decodes a [Document] and returns its matrix and labels.
func ReadJSON(r io.Reader) (*Matrix, []uint64, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, nil, fmt.Errorf("decode: %w", err)
	}
	m, err := FromRows(doc.Matrix)
	if err != nil {
		return nil, nil, err
	}
	if len(doc.Labels) != m.n {
		return nil, nil, fmt.Errorf("have %d labels for a %dx%d matrix", len(doc.Labels), m.n, m.n)
	}
	return m, doc.Labels, nil
}
