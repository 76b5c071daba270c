package pairs

import (
	"bufio"
	"io"
	"iter"
	"os"

	"github.com/matzehuels/connmat/pkg/errors"
)

// maxLineSize bounds a single input line. Longer lines cannot hold a pair
// and are dropped like any other malformed line.
const maxLineSize = 1 << 20

// Lines returns an iterator over the lines of r and a function reporting
// the first read error once iteration has finished. Lines end at "\n",
// "\r\n" or a lone "\r".
//
// Lines does not close r.
func Lines(r io.Reader) (iter.Seq[string], func() error) {
	br := bufio.NewReaderSize(r, 64*1024)
	var readErr error
	seq := func(yield func(string) bool) {
		var line []byte
		overlong := false
		emit := func() bool {
			skip := overlong
			s := string(line)
			line, overlong = line[:0], false
			return skip || yield(s)
		}
		for {
			c, err := br.ReadByte()
			if err != nil {
				if err != io.EOF {
					readErr = err
					return
				}
				if len(line) > 0 || overlong {
					emit()
				}
				return
			}
			switch c {
			case '\r':
				if next, err := br.Peek(1); err == nil && next[0] == '\n' {
					_, _ = br.Discard(1)
				}
				fallthrough
			case '\n':
				if !emit() {
					return
				}
			default:
				if len(line) < maxLineSize {
					line = append(line, c)
				} else {
					overlong = true
				}
			}
		}
	}
	return seq, func() error { return readErr }
}

// Read parses all valid pairs from r.
// Malformed lines are skipped; only a failing reader produces an error.
func Read(r io.Reader) ([]Pair, error) {
	ps, err := scan(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInputAccess, err, "read input")
	}
	return ps, nil
}

func scan(r io.Reader) ([]Pair, error) {
	lines, errFn := Lines(r)
	ps := Parse(lines)
	return ps, errFn()
}

// ReadFile opens path, parses it with [Read] and closes it.
// A missing or unreadable path is reported as INPUT_ACCESS.
func ReadFile(path string) ([]Pair, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInputAccess, err, "open %s", path)
	}
	defer f.Close()

	ps, err := scan(f)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInputAccess, err, "read %s", path)
	}
	return ps, nil
}
