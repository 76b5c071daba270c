package matrix

import (
	"bufio"
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"

	cmerrors "github.com/matzehuels/connmat/pkg/errors"
)

// WriteCSV writes m to w as comma-separated decimal integers, one row per
// line. Output is deterministic: the same matrix always yields the same bytes.
func WriteCSV(w io.Writer, m *Matrix) error {
	bw := bufio.NewWriter(w)
	var buf []byte
	for i := 0; i < m.n; i++ {
		buf = buf[:0]
		for j := 0; j < m.n; j++ {
			if j > 0 {
				buf = append(buf, ',')
			}
			buf = strconv.AppendInt(buf, int64(m.At(i, j)), 10)
		}
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadCSV parses a matrix written by [WriteCSV].
// Blank input yields a 0 x 0 matrix. Ragged rows, non-square shapes and
// non-integer or negative cells are INVALID_INPUT errors.
func ReadCSV(r io.Reader) (*Matrix, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	var rows [][]int
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, cmerrors.Wrap(cmerrors.ErrCodeInvalidInput, err, "parse matrix csv")
		}
		row := make([]int, len(rec))
		for j, field := range rec {
			v, err := strconv.Atoi(strings.TrimSpace(field))
			if err != nil || v < 0 {
				return nil, cmerrors.New(cmerrors.ErrCodeInvalidInput,
					"row %d column %d: %q is not a non-negative integer", len(rows), j, field)
			}
			row[j] = v
		}
		rows = append(rows, row)
	}

	m, err := FromRows(rows)
	if err != nil {
		return nil, cmerrors.Wrap(cmerrors.ErrCodeInvalidInput, err, "matrix is not square")
	}
	return m, nil
}
