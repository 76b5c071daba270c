// Package render draws a connectivity matrix as a node-link diagram.
//
// [ToDOT] turns the matrix into Graphviz DOT: one node per label, one edge
// per non-zero cell, labelled with the count and thickened in proportion to
// it. [RenderSVG] lays the DOT out with the embedded Graphviz engine from
// goccy/go-graphviz, so no system Graphviz install is required.
//
// Labels with no surviving edges (for example a region that only ever
// paired with itself, once the diagonal is zeroed) are still drawn as
// isolated nodes so the diagram shows all N rows of the matrix.
package render
