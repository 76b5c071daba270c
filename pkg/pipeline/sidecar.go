package pipeline

import (
	"bufio"
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/matzehuels/connmat/pkg/connectivity"
	"github.com/matzehuels/connmat/pkg/errors"
)

// WriteLabels writes the index -> label mapping as "index,label" rows.
func WriteLabels(w io.Writer, res *connectivity.Result) error {
	bw := bufio.NewWriter(w)
	var buf []byte
	for i, l := range res.Labels() {
		buf = strconv.AppendInt(buf[:0], int64(i), 10)
		buf = append(buf, ',')
		buf = strconv.AppendUint(buf, l, 10)
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadLabels parses a sidecar written by [WriteLabels]. Rows must list
// indices 0..n-1 in order.
func ReadLabels(r io.Reader) ([]uint64, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 2
	cr.ReuseRecord = true

	var out []uint64
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read labels")
		}
		idx, err := strconv.Atoi(rec[0])
		if err != nil || idx != len(out) {
			return nil, errors.New(errors.ErrCodeInvalidInput, "labels row %d: unexpected index %q", len(out)+1, rec[0])
		}
		label, err := strconv.ParseUint(rec[1], 10, 64)
		if err != nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "labels row %d: invalid label %q", len(out)+1, rec[1])
		}
		out = append(out, label)
	}
}

// ReadLabelsFile reads a labels sidecar from path.
func ReadLabelsFile(path string) ([]uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInputAccess, err, "open %s", path)
	}
	defer f.Close()
	return ReadLabels(f)
}
