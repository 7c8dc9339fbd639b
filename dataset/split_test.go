package dataset

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// labeledFrame builds an n-row dataset whose target has the given positive
// rate, with a feature column that makes every row distinct.
func labeledFrame(t *testing.T, n int, posRate float64) *Dataset {
	t.Helper()
	id := make([]float64, n)
	y := make([]float64, n)
	pos := int(math.Round(float64(n) * posRate))
	for i := 0; i < n; i++ {
		id[i] = float64(i)
		if i < pos {
			y[i] = 1
		}
	}
	ds, err := New(numCol("id", id...), numCol("left", y...))
	require.NoError(t, err)
	return ds
}

func positiveRate(ds *Dataset, target string) float64 {
	col := ds.Column(target)
	sum := 0.0
	for _, v := range col.Floats {
		sum += v
	}
	return sum / float64(col.Len())
}

func TestSplitExactCounts(t *testing.T) {
	t.Parallel()
	for _, n := range []int{10, 97, 1000, 14999} {
		n := n
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			t.Parallel()
			ds := labeledFrame(t, n, 0.166)
			p, err := Split(ds, "left", DefaultRatios(), 42)
			require.NoError(t, err)
			assert.Equal(t, n, p.Train.Len()+p.Validation.Len()+p.Test.Len())
			assert.InDelta(t, 0.6*float64(n), float64(p.Train.Len()), 2)
			assert.InDelta(t, 0.2*float64(n), float64(p.Validation.Len()), 2)
			assert.InDelta(t, 0.2*float64(n), float64(p.Test.Len()), 2)
		})
	}
}

func TestSplitDisjointAndComplete(t *testing.T) {
	t.Parallel()
	n := 500
	ds := labeledFrame(t, n, 0.2)
	p, err := Split(ds, "left", DefaultRatios(), 7)
	require.NoError(t, err)

	seen := make(map[float64]int)
	for _, part := range []*Dataset{p.Train, p.Validation, p.Test} {
		for _, id := range part.Column("id").Floats {
			seen[id]++
		}
	}
	require.Len(t, seen, n)
	for id, count := range seen {
		assert.Equal(t, 1, count, "row %v appears %d times", id, count)
	}
}

func TestSplitStratifies(t *testing.T) {
	t.Parallel()
	ds := labeledFrame(t, 15000, 0.166)
	whole := positiveRate(ds, "left")
	p, err := Split(ds, "left", DefaultRatios(), 42)
	require.NoError(t, err)
	assert.InDelta(t, whole, positiveRate(p.Train, "left"), 0.02)
	assert.InDelta(t, whole, positiveRate(p.Validation, "left"), 0.02)
	assert.InDelta(t, whole, positiveRate(p.Test, "left"), 0.02)
}

func TestSplitDeterministic(t *testing.T) {
	t.Parallel()
	ds := labeledFrame(t, 800, 0.25)
	a, err := Split(ds, "left", DefaultRatios(), 42)
	require.NoError(t, err)
	b, err := Split(ds, "left", DefaultRatios(), 42)
	require.NoError(t, err)
	assert.Equal(t, a.Train.Column("id").Floats, b.Train.Column("id").Floats)
	assert.Equal(t, a.Validation.Column("id").Floats, b.Validation.Column("id").Floats)
	assert.Equal(t, a.Test.Column("id").Floats, b.Test.Column("id").Floats)

	c, err := Split(ds, "left", DefaultRatios(), 43)
	require.NoError(t, err)
	assert.NotEqual(t, a.Train.Column("id").Floats, c.Train.Column("id").Floats,
		"different seeds should shuffle differently")
}

func TestSplitTinyStrata(t *testing.T) {
	t.Parallel()
	// two positives cannot be spread across three partitions, but every
	// row must still land somewhere
	ds := labeledFrame(t, 12, 2.0/12.0)
	p, err := Split(ds, "left", DefaultRatios(), 1)
	require.NoError(t, err)
	total := p.Train.Len() + p.Validation.Len() + p.Test.Len()
	assert.Equal(t, 12, total)
	pos := 0
	for _, part := range []*Dataset{p.Train, p.Validation, p.Test} {
		for _, v := range part.Column("left").Floats {
			if v == 1 {
				pos++
			}
		}
	}
	assert.Equal(t, 2, pos)
}

func TestSplitErrors(t *testing.T) {
	t.Parallel()
	ds := labeledFrame(t, 10, 0.5)

	_, err := Split(ds, "absent", DefaultRatios(), 1)
	assert.ErrorContains(t, err, "not found")

	_, err = Split(ds, "left", Ratios{0.5, 0.5, 0.5}, 1)
	assert.ErrorContains(t, err, "sum to")

	_, err = Split(ds, "left", Ratios{0.8, 0.2, 0}, 1)
	assert.ErrorContains(t, err, "not positive")
}

func TestApportion(t *testing.T) {
	t.Parallel()
	ratios := DefaultRatios()
	for n := 1; n <= 300; n++ {
		counts := apportion(n, ratios)
		sum := counts[0] + counts[1] + counts[2]
		require.Equal(t, n, sum, "n=%d", n)
		for i, c := range counts {
			exact := float64(n) * ratios[i]
			assert.LessOrEqual(t, math.Abs(float64(c)-exact), 1.0, "n=%d partition %d", n, i)
		}
	}
}
