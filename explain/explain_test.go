package explain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/tabml/gboost/booster"
)

// fitThresholdModel trains on three features: a strong signal, a weak
// binary hint and a constant.
func fitThresholdModel(t *testing.T, n int) (*booster.Ensemble, *mat.Dense, []float64) {
	t.Helper()
	x := mat.NewDense(n, 3, nil)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		v := float64(i) / float64(n)
		x.Set(i, 0, v)
		x.Set(i, 1, float64(i%2))
		x.Set(i, 2, 7)
		if v >= 0.6 {
			y[i] = 1
		}
	}
	p := booster.DefaultParams()
	p.NEstimators = 40
	p.MaxDepth = 2
	m, err := booster.Train(x, y, p, []string{"signal", "parity", "constant"})
	require.NoError(t, err)
	return m, x, y
}

func TestImportancesRanking(t *testing.T) {
	t.Parallel()
	m, _, _ := fitThresholdModel(t, 200)
	imps := Importances(m)
	require.Len(t, imps, 3)

	assert.Equal(t, "signal", imps[0].Feature)
	assert.Greater(t, imps[0].Gain, 0.0)
	assert.Equal(t, 0.0, imps[len(imps)-1].Gain, "the constant feature cannot gain")

	total := 0.0
	for _, imp := range imps {
		assert.GreaterOrEqual(t, imp.Fraction, 0.0)
		total += imp.Fraction
	}
	assert.InDelta(t, 1.0, total, 1e-9)

	again := Importances(m)
	assert.Equal(t, imps, again, "the ranking must be stable")
}

func TestPartialDependenceMonotone(t *testing.T) {
	t.Parallel()
	m, x, _ := fitThresholdModel(t, 200)
	curve, err := PartialDependence(m, x, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, "signal", curve.Feature)
	require.Equal(t, len(curve.Values), len(curve.Mean))
	assert.LessOrEqual(t, len(curve.Values), 10)

	first, last := curve.Mean[0], curve.Mean[len(curve.Mean)-1]
	assert.Greater(t, last, first+0.5, "pinning the signal high must raise the mean prediction")

	for i := 1; i < len(curve.Values); i++ {
		assert.Greater(t, curve.Values[i], curve.Values[i-1], "grid values must be strictly increasing")
	}
}

func TestPartialDependenceBinaryFeature(t *testing.T) {
	t.Parallel()
	m, x, _ := fitThresholdModel(t, 100)
	curve, err := PartialDependence(m, x, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1}, curve.Values, "a binary column needs exactly two grid points")
}

func TestPartialDependenceDoesNotMutateData(t *testing.T) {
	t.Parallel()
	m, x, _ := fitThresholdModel(t, 50)
	before := mat.DenseCopyOf(x)
	_, err := PartialDependence(m, x, 0, 5)
	require.NoError(t, err)
	assert.True(t, mat.Equal(before, x))
}

func TestPartialDependenceErrors(t *testing.T) {
	t.Parallel()
	m, x, _ := fitThresholdModel(t, 50)

	_, err := PartialDependence(m, x, 9, 5)
	assert.ErrorContains(t, err, "out of range")

	narrow := mat.NewDense(5, 1, []float64{1, 2, 3, 4, 5})
	_, err = PartialDependence(m, narrow, 0, 5)
	assert.ErrorContains(t, err, "model wants")
}

func TestTopCurves(t *testing.T) {
	t.Parallel()
	m, x, _ := fitThresholdModel(t, 200)
	curves, err := TopCurves(m, x, 3, 8)
	require.NoError(t, err)
	require.NotEmpty(t, curves)
	assert.LessOrEqual(t, len(curves), 3)
	assert.Equal(t, "signal", curves[0].Feature, "curves come back most important first")
	for _, c := range curves {
		assert.NotEqual(t, "constant", c.Feature, "zero-gain features get no curve")
	}

	_, err = TopCurves(m, x, 0, 8)
	assert.ErrorContains(t, err, "want positive")
}
