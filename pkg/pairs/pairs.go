package pairs

import (
	"fmt"
	"iter"
	"slices"
	"strconv"
	"strings"
)

// Label is a region or node identifier read from the edge list.
type Label uint64

// Pair is one (source, target) edge assignment, kept in input order.
type Pair struct {
	Source Label
	Target Label
}

// String returns the pair in its edge-list form, e.g. "1 2".
func (p Pair) String() string {
	return fmt.Sprintf("%d %d", p.Source, p.Target)
}

// IsSelf reports whether the pair connects a label to itself.
func (p Pair) IsSelf() bool {
	return p.Source == p.Target
}

// ParseLine parses a single edge-list line.
// It returns false for any line that is not exactly two digit-only tokens.
func ParseLine(line string) (Pair, bool) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return Pair{}, false
	}
	src, ok := parseLabel(fields[0])
	if !ok {
		return Pair{}, false
	}
	dst, ok := parseLabel(fields[1])
	if !ok {
		return Pair{}, false
	}
	return Pair{Source: src, Target: dst}, true
}

// parseLabel accepts a token made only of ASCII digits that fits in a uint64.
// Signs, decimal points and exponents are rejected before strconv sees them.
func parseLabel(tok string) (Label, bool) {
	if !isDigits(tok) {
		return 0, false
	}
	v, err := strconv.ParseUint(tok, 10, 64)
	if err != nil {
		return 0, false
	}
	return Label(v), true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Parse collects the valid pairs from lines, preserving input order.
func Parse(lines iter.Seq[string]) []Pair {
	var out []Pair
	for line := range lines {
		if p, ok := ParseLine(line); ok {
			out = append(out, p)
		}
	}
	return out
}

// FromLines is [Parse] over an in-memory slice of lines.
func FromLines(lines []string) []Pair {
	return Parse(slices.Values(lines))
}
