package matrix

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/connmat/pkg/errors"
)

func TestNewZeroFilled(t *testing.T) {
	m := New(3)

	assert.Equal(t, 3, m.Size())
	assert.Equal(t, 0, m.Sum())
	assert.Equal(t, [][]int{{0, 0, 0}, {0, 0, 0}, {0, 0, 0}}, m.Rows())
}

func TestNewNegativeSize(t *testing.T) {
	assert.Equal(t, 0, New(-2).Size())
}

func TestIncAccumulates(t *testing.T) {
	m := New(2)
	m.Inc(0, 1)
	m.Inc(0, 1)
	m.Inc(1, 1)

	assert.Equal(t, 2, m.At(0, 1))
	assert.Equal(t, 1, m.At(1, 1))
	assert.Equal(t, 3, m.Sum())
	assert.Equal(t, 1, m.Trace())
	assert.Equal(t, 2, m.Max())
}

func TestZeroDiagonal(t *testing.T) {
	m, err := FromRows([][]int{{4, 1}, {2, 5}})
	require.NoError(t, err)

	m.ZeroDiagonal()

	assert.Equal(t, [][]int{{0, 1}, {2, 0}}, m.Rows())
	assert.Equal(t, 0, m.Trace())
}

func TestFromRowsRejectsNonSquare(t *testing.T) {
	_, err := FromRows([][]int{{1, 2}, {3}})
	assert.Error(t, err)

	_, err = FromRows([][]int{{1, 2, 3}})
	assert.Error(t, err)
}

func TestOutOfRangePanics(t *testing.T) {
	m := New(2)
	assert.Panics(t, func() { m.At(2, 0) })
	assert.Panics(t, func() { m.Inc(0, -1) })
}

func TestCloneAndEqual(t *testing.T) {
	m := New(2)
	m.Set(0, 1, 7)
	c := m.Clone()

	assert.True(t, m.Equal(c))
	c.Inc(1, 0)
	assert.False(t, m.Equal(c))
	assert.False(t, m.Equal(nil))
	assert.False(t, New(1).Equal(New(2)))
}

func TestRowReturnsCopy(t *testing.T) {
	m := New(2)
	r := m.Row(0)
	r[0] = 9

	assert.Equal(t, 0, m.At(0, 0))
}

func TestWriteCSV(t *testing.T) {
	m, err := FromRows([][]int{{0, 2, 0}, {1, 0, 0}, {0, 0, 0}})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, m))

	assert.Equal(t, "0,2,0\n1,0,0\n0,0,0\n", buf.String())
}

func TestWriteCSVLargeValues(t *testing.T) {
	m := New(1)
	m.Set(0, 0, 12345678)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, m))

	assert.Equal(t, "12345678\n", buf.String())
}

func TestWriteCSVEmptyMatrix(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, New(0)))

	assert.Zero(t, buf.Len(), "a 0x0 matrix should emit zero lines")
}

func TestWriteCSVDeterministic(t *testing.T) {
	m, err := FromRows([][]int{{1, 2}, {3, 4}})
	require.NoError(t, err)

	var a, b bytes.Buffer
	require.NoError(t, WriteCSV(&a, m))
	require.NoError(t, WriteCSV(&b, m))

	assert.Equal(t, a.Bytes(), b.Bytes())
}

func TestReadCSV(t *testing.T) {
	m, err := ReadCSV(strings.NewReader("0,2,0\n1,0,0\n0,0,0\n"))
	require.NoError(t, err)

	assert.Equal(t, [][]int{{0, 2, 0}, {1, 0, 0}, {0, 0, 0}}, m.Rows())
}

func TestReadCSVEmpty(t *testing.T) {
	m, err := ReadCSV(strings.NewReader(""))
	require.NoError(t, err)

	assert.Equal(t, 0, m.Size())
}

func TestReadCSVInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"ragged", "1,2\n3\n"},
		{"not square", "1,2\n3,4\n5,6\n"},
		{"decimal", "1.0\n"},
		{"negative", "-1\n"},
		{"text", "a,b\nc,d\n"},
		{"bad quote", "\"1,2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
		})
	}
}

func TestCSVRoundTrip(t *testing.T) {
	m, err := FromRows([][]int{{0, 3}, {10, 0}})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, m))
	got, err := ReadCSV(&buf)
	require.NoError(t, err)

	assert.True(t, m.Equal(got))
}

func TestWriteJSON(t *testing.T) {
	m, err := FromRows([][]int{{0, 1}, {2, 0}})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, m, []uint64{10, 20}))

	got, labels, err := ReadJSON(&buf)
	require.NoError(t, err)
	assert.Equal(t, []uint64{10, 20}, labels)
	assert.True(t, m.Equal(got))
}

func TestWriteJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, New(0), nil))

	assert.JSONEq(t, `{"labels": [], "matrix": []}`, buf.String())
}

func TestWriteJSONLabelMismatch(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, WriteJSON(&buf, New(2), []uint64{1}))
}
