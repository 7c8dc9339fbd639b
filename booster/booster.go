package booster

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Ensemble is a trained boosted-tree classifier. It is immutable after
// Train and safe for concurrent prediction.
type Ensemble struct {
	base     float64
	trees    []tree
	features []string
	params   Params
}

// Train fits an ensemble on a dense feature matrix and 0/1 labels. The
// feature names are carried for importance reporting; pass nil to get
// synthetic names. Training is deterministic: the same inputs always
// produce the same model.
func Train(x *mat.Dense, y []float64, p Params, features []string) (*Ensemble, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	rows, nf := x.Dims()
	if rows == 0 || nf == 0 {
		return nil, fmt.Errorf("booster: empty training matrix")
	}
	if len(y) != rows {
		return nil, fmt.Errorf("booster: %d labels for %d rows", len(y), rows)
	}
	for i, v := range y {
		if v != 0 && v != 1 {
			return nil, fmt.Errorf("booster: label %v at row %d, want 0 or 1", v, i)
		}
	}
	if features == nil {
		features = make([]string, nf)
		for j := range features {
			features[j] = fmt.Sprintf("f%d", j)
		}
	}
	if len(features) != nf {
		return nil, fmt.Errorf("booster: %d feature names for %d columns", len(features), nf)
	}

	cols := make([][]float64, nf)
	for j := 0; j < nf; j++ {
		cols[j] = mat.Col(nil, j, x)
	}

	m := &Ensemble{
		base:     logOdds(stat.Mean(y, nil)),
		features: append([]string(nil), features...),
		params:   p,
	}
	margin := make([]float64, rows)
	for i := range margin {
		margin[i] = m.base
	}
	grad := make([]float64, rows)
	hess := make([]float64, rows)
	all := make([]int, rows)
	for i := range all {
		all[i] = i
	}

	m.trees = make([]tree, 0, p.NEstimators)
	for round := 0; round < p.NEstimators; round++ {
		gradHess(margin, y, grad, hess)
		t := growTree(cols, grad, hess, all, p)
		for i := range margin {
			margin[i] += p.LearningRate * t.predictCols(cols, i)
		}
		m.trees = append(m.trees, t)
	}
	return m, nil
}

// margins sums the shrunk tree outputs plus the base score per row.
func (m *Ensemble) margins(x mat.Matrix) ([]float64, error) {
	rows, nf := x.Dims()
	if nf != len(m.features) {
		return nil, fmt.Errorf("booster: %d feature columns, model wants %d", nf, len(m.features))
	}
	out := make([]float64, rows)
	buf := make([]float64, nf)
	for i := 0; i < rows; i++ {
		mat.Row(buf, i, x)
		margin := m.base
		for t := range m.trees {
			margin += m.params.LearningRate * m.trees[t].predictRow(buf)
		}
		out[i] = margin
	}
	return out, nil
}

// PredictProba returns the positive-class probability for every row.
func (m *Ensemble) PredictProba(x mat.Matrix) ([]float64, error) {
	out, err := m.margins(x)
	if err != nil {
		return nil, err
	}
	for i, v := range out {
		out[i] = sigmoid(v)
	}
	return out, nil
}

// LogLoss reports the logistic loss of the model on the given data,
// mainly for progress logging.
func (m *Ensemble) LogLoss(x mat.Matrix, y []float64) (float64, error) {
	margins, err := m.margins(x)
	if err != nil {
		return 0, err
	}
	if len(y) != len(margins) {
		return 0, fmt.Errorf("booster: %d labels for %d rows", len(y), len(margins))
	}
	return logLoss(margins, y), nil
}

// NTrees returns the number of boosting rounds in the model.
func (m *Ensemble) NTrees() int { return len(m.trees) }

// BaseScore returns the initial log-odds margin.
func (m *Ensemble) BaseScore() float64 { return m.base }

// Params returns the hyperparameters the model was trained with.
func (m *Ensemble) Params() Params { return m.params }

// Features returns the feature names in matrix column order.
func (m *Ensemble) Features() []string {
	return append([]string(nil), m.features...)
}

// GainImportance sums split gain per feature across all trees. Features
// never used to split are absent from the map.
func (m *Ensemble) GainImportance() map[string]float64 {
	out := make(map[string]float64)
	for t := range m.trees {
		for _, n := range m.trees[t].Nodes {
			if n.Feature >= 0 {
				out[m.features[n.Feature]] += n.Gain
			}
		}
	}
	return out
}
