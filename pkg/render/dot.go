package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/connmat/pkg/matrix"
)

// Options configures node-link rendering.
type Options struct {
	// Undirected merges (i, j) and (j, i) into a single edge whose weight
	// is their sum. Diagonal cells are never drawn.
	Undirected bool

	// MaxPenWidth is the stroke width of the heaviest edge. Zero uses 6.
	MaxPenWidth float64
}

const defaultMaxPenWidth = 6.0

// ToDOT converts m to Graphviz DOT. labels[i] names row/column i and must
// have m.Size() entries.
func ToDOT(m *matrix.Matrix, labels []uint64, opts Options) (string, error) {
	n := m.Size()
	if len(labels) != n {
		return "", fmt.Errorf("have %d labels for a %dx%d matrix", len(labels), n, n)
	}
	maxPen := opts.MaxPenWidth
	if maxPen <= 0 {
		maxPen = defaultMaxPenWidth
	}

	kind, arrow := "digraph", "->"
	if opts.Undirected {
		kind, arrow = "graph", "--"
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s G {\n", kind)
	buf.WriteString("  layout=circo;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=14];\n")
	buf.WriteString("  edge [fontsize=10, color=\"#4a4a4a\"];\n")
	buf.WriteString("\n")

	for _, l := range labels {
		fmt.Fprintf(&buf, "  \"%d\";\n", l)
	}
	buf.WriteString("\n")

	edges := collectEdges(m, opts.Undirected)
	heaviest := 0
	for _, e := range edges {
		heaviest = max(heaviest, e.weight)
	}
	for _, e := range edges {
		width := 1 + (maxPen-1)*float64(e.weight)/float64(heaviest)
		fmt.Fprintf(&buf, "  \"%d\" %s \"%d\" [label=\"%d\", penwidth=%.2f];\n",
			labels[e.from], arrow, labels[e.to], e.weight, width)
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

type edge struct {
	from, to, weight int
}

// collectEdges lists non-zero off-diagonal cells in row-major order.
func collectEdges(m *matrix.Matrix, undirected bool) []edge {
	n := m.Size()
	var out []edge
	for i := 0; i < n; i++ {
		start := 0
		if undirected {
			start = i + 1
		}
		for j := start; j < n; j++ {
			if i == j {
				continue
			}
			w := m.At(i, j)
			if undirected {
				w += m.At(j, i)
			}
			if w > 0 {
				out = append(out, edge{from: i, to: j, weight: w})
			}
		}
	}
	return out
}

// RenderSVG renders a DOT graph to SVG using the embedded Graphviz engine.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root tag so the SVG scales from its viewBox.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
