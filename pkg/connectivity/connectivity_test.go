package connectivity

import (
	"bytes"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/connmat/pkg/matrix"
	"github.com/matzehuels/connmat/pkg/pairs"
)

var scenarioLines = []string{"1 2", "2 1", "3 3", "abc 5", "1 2"}

func TestBuildScenarioZeroDiagonal(t *testing.T) {
	r := FromLines(scenarioLines, DefaultOptions())

	require.Equal(t, 3, r.Size())
	assert.Equal(t, []uint64{1, 2, 3}, r.Labels())
	assert.Equal(t, [][]int{{0, 2, 0}, {1, 0, 0}, {0, 0, 0}}, r.Matrix.Rows())
	assert.Equal(t, 4, r.PairCount)
	assert.Equal(t, 1, r.SelfPairs)

	var buf bytes.Buffer
	require.NoError(t, matrix.WriteCSV(&buf, r.Matrix))
	assert.Equal(t, "0,2,0\n1,0,0\n0,0,0\n", buf.String())
}

func TestBuildScenarioKeepDiagonal(t *testing.T) {
	r := FromLines(scenarioLines, Options{ZeroDiagonal: false})

	assert.Equal(t, [][]int{{0, 2, 0}, {1, 0, 0}, {0, 0, 1}}, r.Matrix.Rows())
	assert.Equal(t, r.PairCount, r.Matrix.Sum())
}

func TestBuildEmpty(t *testing.T) {
	r := Build(nil, DefaultOptions())

	assert.Equal(t, 0, r.Size())
	assert.Equal(t, 0, r.PairCount)
	assert.Empty(t, r.Labels())

	var buf bytes.Buffer
	require.NoError(t, matrix.WriteCSV(&buf, r.Matrix))
	assert.Zero(t, buf.Len())
}

func TestBuildSparseLabels(t *testing.T) {
	r := FromLines([]string{"1000 5", "5 70000", "70000 1000"}, DefaultOptions())

	assert.Equal(t, []uint64{5, 1000, 70000}, r.Labels())
	assert.Equal(t, [][]int{{0, 0, 1}, {1, 0, 0}, {0, 1, 0}}, r.Matrix.Rows())
}

func TestDefaultOptions(t *testing.T) {
	assert.True(t, DefaultOptions().ZeroDiagonal)
}

// randomLines builds an edge list with self pairs, repeats and noise.
func randomLines(rng *rand.Rand, n int) []string {
	lines := make([]string, 0, n)
	for i := 0; i < n; i++ {
		switch rng.IntN(6) {
		case 0:
			lines = append(lines, "garbage line")
		case 1:
			l := rng.IntN(20) * 7
			lines = append(lines, fmt.Sprintf("%d %d", l, l))
		default:
			lines = append(lines, fmt.Sprintf("%d %d", rng.IntN(20)*7, rng.IntN(20)*7))
		}
	}
	return lines
}

func TestBuildProperties(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	for round := 0; round < 25; round++ {
		lines := randomLines(rng, 200)
		ps := pairs.FromLines(lines)

		distinct := make(map[pairs.Label]bool)
		self := make(map[pairs.Label]int)
		for _, p := range ps {
			distinct[p.Source] = true
			distinct[p.Target] = true
			if p.IsSelf() {
				self[p.Source]++
			}
		}

		kept := Build(ps, Options{ZeroDiagonal: false})
		zeroed := Build(ps, Options{ZeroDiagonal: true})

		require.Equal(t, len(distinct), kept.Size(), "N equals distinct labels")
		require.Equal(t, len(ps), kept.Matrix.Sum(), "sum equals pair count before zeroing")
		require.Equal(t, kept.PairCount, zeroed.Matrix.Sum()+zeroed.SelfPairs)

		for k := 0; k < kept.Size(); k++ {
			label := kept.Index.LabelAt(k)
			assert.Equal(t, self[label], kept.Matrix.At(k, k), "diagonal %d keeps self pairs", k)
			assert.Zero(t, zeroed.Matrix.At(k, k), "diagonal %d zeroed", k)
		}

		for i := 0; i < kept.Size(); i++ {
			for j := 0; j < kept.Size(); j++ {
				v := kept.Matrix.At(i, j)
				assert.GreaterOrEqual(t, v, 0)
				assert.LessOrEqual(t, v, kept.PairCount)
				if i != j {
					assert.Equal(t, v, zeroed.Matrix.At(i, j))
				}
			}
		}
	}
}

func TestBuildIdempotent(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))
	lines := randomLines(rng, 500)

	encode := func() []byte {
		var buf bytes.Buffer
		require.NoError(t, matrix.WriteCSV(&buf, FromLines(lines, DefaultOptions()).Matrix))
		return buf.Bytes()
	}

	assert.Equal(t, encode(), encode())
}
