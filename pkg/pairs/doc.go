// Package pairs parses label-pair edge lists.
//
// An edge list is plain text with one pair per line:
//
//	1 2
//	2 1
//	3 3
//
// A line contributes a [Pair] only when, after trimming, it splits on
// whitespace into exactly two tokens made entirely of ASCII digits. Every
// other line (headers, comments, negative numbers, decimals, three-column
// rows, values too large for a uint64) is skipped without an error. The
// skip is silent by contract: nothing is logged or counted.
//
// # Line Sources
//
// [Parse] accepts any iter.Seq[string], so callers can feed lines from a
// slice ([FromLines]), an io.Reader ([Read]) or a file ([ReadFile]) without
// touching the file system in tests.
//
// Only [ReadFile] and [Read] can fail, and only for I/O reasons.
package pairs
