package explain

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/tabml/gboost/booster"
)

// DefaultPoints caps how many grid values a partial dependence curve
// evaluates.
const DefaultPoints = 20

// Curve is the partial dependence of the predicted probability on one
// feature: the mean prediction over all rows with the feature pinned to
// each grid value.
type Curve struct {
	Feature string    `json:"feature" yaml:"feature"`
	Values  []float64 `json:"values" yaml:"values"`
	Mean    []float64 `json:"mean" yaml:"mean"`
}

// PartialDependence evaluates the curve of one feature column over the
// given data. Grid values are the feature's distinct values when few, its
// quantiles otherwise, capped at points (DefaultPoints when points is not
// positive).
func PartialDependence(m *booster.Ensemble, x *mat.Dense, feature, points int) (*Curve, error) {
	rows, cols := x.Dims()
	if feature < 0 || feature >= cols {
		return nil, fmt.Errorf("explain: feature %d out of range [0,%d)", feature, cols)
	}
	if cols != len(m.Features()) {
		return nil, fmt.Errorf("explain: %d data columns, model wants %d", cols, len(m.Features()))
	}
	if points <= 0 {
		points = DefaultPoints
	}

	values := gridValues(mat.Col(nil, feature, x), points)
	work := mat.DenseCopyOf(x)
	curve := &Curve{
		Feature: m.Features()[feature],
		Values:  values,
		Mean:    make([]float64, len(values)),
	}
	for vi, v := range values {
		for r := 0; r < rows; r++ {
			work.Set(r, feature, v)
		}
		probs, err := m.PredictProba(work)
		if err != nil {
			return nil, err
		}
		curve.Mean[vi] = stat.Mean(probs, nil)
	}
	return curve, nil
}

// TopCurves returns partial dependence curves for the highest-gain
// features, most important first. Features the model never split on get
// no curve; fewer than top may come back.
func TopCurves(m *booster.Ensemble, x *mat.Dense, top, points int) ([]*Curve, error) {
	if top <= 0 {
		return nil, fmt.Errorf("explain: top %d, want positive", top)
	}
	index := make(map[string]int, len(m.Features()))
	for i, name := range m.Features() {
		index[name] = i
	}
	var out []*Curve
	for _, imp := range Importances(m) {
		if len(out) == top {
			break
		}
		if imp.Gain <= 0 {
			break
		}
		c, err := PartialDependence(m, x, index[imp.Feature], points)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// gridValues picks the evaluation points for one feature: all distinct
// values when at most max, evenly spaced quantiles otherwise.
func gridValues(col []float64, max int) []float64 {
	sort.Float64s(col)
	distinct := col[:0:0]
	for i, v := range col {
		if i == 0 || v != col[i-1] {
			distinct = append(distinct, v)
		}
	}
	if len(distinct) <= max {
		return distinct
	}
	out := make([]float64, 0, max)
	for i := 0; i < max; i++ {
		p := float64(i) / float64(max-1)
		q := stat.Quantile(p, stat.Empirical, col, nil)
		if len(out) == 0 || q != out[len(out)-1] {
			out = append(out, q)
		}
	}
	return out
}
