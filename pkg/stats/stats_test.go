package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/connmat/pkg/matrix"
)

func TestSummarizeScenario(t *testing.T) {
	m, err := matrix.FromRows([][]int{{0, 2, 0}, {1, 0, 0}, {0, 0, 0}})
	require.NoError(t, err)

	s := Summarize(m, []uint64{1, 2, 3}, DefaultHubs)

	assert.Equal(t, 3, s.Size)
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 2, s.NonZero)
	assert.InDelta(t, 2.0/6.0, s.Density, 1e-12)
	assert.False(t, s.Symmetric)
	assert.Equal(t, 0, s.Trace)
	assert.Equal(t, 2, s.MaxCell)
	assert.InDelta(t, 1.0, s.OutStrength.Mean, 1e-12)
	assert.InDelta(t, 1.0, s.OutStrength.StdDev, 1e-12) // rows 2,1,0
	assert.InDelta(t, 1.0, s.InStrength.Mean, 1e-12)

	require.Len(t, s.Hubs, 3)
	labels := []uint64{s.Hubs[0].Label, s.Hubs[1].Label, s.Hubs[2].Label}
	assert.ElementsMatch(t, []uint64{1, 2, 3}, labels)
	assert.Equal(t, uint64(3), s.Hubs[2].Label, "isolated region ranks last")
}

func TestSummarizeSymmetric(t *testing.T) {
	m, err := matrix.FromRows([][]int{{0, 4}, {4, 0}})
	require.NoError(t, err)

	s := Summarize(m, nil, 1)

	assert.True(t, s.Symmetric)
	assert.InDelta(t, 1.0, s.Density, 1e-12)
	require.Len(t, s.Hubs, 1)
	assert.Contains(t, []uint64{0, 1}, s.Hubs[0].Label)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(matrix.New(0), nil, DefaultHubs)

	assert.Equal(t, 0, s.Size)
	assert.True(t, s.Symmetric)
	assert.Empty(t, s.Hubs)
	assert.Zero(t, s.Density)
}

func TestSummarizeSingleRegion(t *testing.T) {
	m, err := matrix.FromRows([][]int{{3}})
	require.NoError(t, err)

	s := Summarize(m, []uint64{9}, 0)

	assert.Equal(t, 3, s.Trace)
	assert.Zero(t, s.Density)
	assert.InDelta(t, 3.0, s.OutStrength.Mean, 1e-12)
	assert.Zero(t, s.OutStrength.StdDev)
	assert.Empty(t, s.Hubs)
}

func TestDense(t *testing.T) {
	m, err := matrix.FromRows([][]int{{1, 2}, {3, 4}})
	require.NoError(t, err)

	d := Dense(m)
	r, c := d.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 2, c)
	assert.Equal(t, 3.0, d.At(1, 0))
}
