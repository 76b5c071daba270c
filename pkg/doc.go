// Package pkg holds the connmat libraries.
//
// # Data flow
//
//	assignments.csv ("source target" per line)
//	         ↓
//	    [pairs] (filter and parse valid lines)
//	         ↓
//	    [labels] (ascending label -> dense index)
//	         ↓
//	    [connectivity] (tally the N x N matrix, zero the diagonal)
//	         ↓
//	    [matrix] / [render] (CSV, JSON, DOT, SVG)
//
// [pipeline] wires these stages together with [cache] and writes outputs
// atomically. [stats] and [archive] consume finished results.
//
// # Quick Start
//
//	res := connectivity.FromLines([]string{"1 2", "2 1", "1 2"}, connectivity.DefaultOptions())
//	_ = matrix.WriteCSV(os.Stdout, res.Matrix)
//	// 0,2
//	// 1,0
//
// [pairs]: github.com/matzehuels/connmat/pkg/pairs
// [labels]: github.com/matzehuels/connmat/pkg/labels
// [connectivity]: github.com/matzehuels/connmat/pkg/connectivity
// [matrix]: github.com/matzehuels/connmat/pkg/matrix
// [render]: github.com/matzehuels/connmat/pkg/render
// [pipeline]: github.com/matzehuels/connmat/pkg/pipeline
// [cache]: github.com/matzehuels/connmat/pkg/cache
// [stats]: github.com/matzehuels/connmat/pkg/stats
// [archive]: github.com/matzehuels/connmat/pkg/archive
package pkg
