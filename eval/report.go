package eval

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/tabml/gboost/booster"
)

// Report is the full evaluation of a model on one labeled partition.
type Report struct {
	Rows         int             `json:"rows" yaml:"rows"`
	Threshold    float64         `json:"threshold" yaml:"threshold"`
	PositiveRate float64         `json:"positive_rate" yaml:"positive_rate"`
	Confusion    ConfusionMatrix `json:"confusion" yaml:"confusion"`
	Accuracy     float64         `json:"accuracy" yaml:"accuracy"`
	Precision    float64         `json:"precision" yaml:"precision"`
	Recall       float64         `json:"recall" yaml:"recall"`
	F1           float64         `json:"f1" yaml:"f1"`
}

// Evaluate scores the model on an encoded partition at the given decision
// threshold.
func Evaluate(m *booster.Ensemble, x mat.Matrix, y []float64, threshold float64) (*Report, error) {
	probs, err := m.PredictProba(x)
	if err != nil {
		return nil, err
	}
	c, err := Confusion(y, probs, threshold)
	if err != nil {
		return nil, err
	}
	positives := 0
	for _, v := range y {
		if v == 1 {
			positives++
		}
	}
	r := &Report{
		Rows:      c.Total(),
		Threshold: threshold,
		Confusion: c,
		Accuracy:  c.Accuracy(),
		Precision: c.Precision(),
		Recall:    c.Recall(),
		F1:        c.F1(),
	}
	if r.Rows > 0 {
		r.PositiveRate = float64(positives) / float64(r.Rows)
	}
	return r, nil
}

// String renders the report as the fixed-width block the train command
// prints.
func (r *Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "rows           %d\n", r.Rows)
	fmt.Fprintf(&b, "positive rate  %.4f\n", r.PositiveRate)
	fmt.Fprintf(&b, "threshold      %.2f\n", r.Threshold)
	fmt.Fprintf(&b, "accuracy       %.4f\n", r.Accuracy)
	fmt.Fprintf(&b, "precision      %.4f\n", r.Precision)
	fmt.Fprintf(&b, "recall         %.4f\n", r.Recall)
	fmt.Fprintf(&b, "f1             %.4f\n", r.F1)
	fmt.Fprintf(&b, "confusion      %s", r.Confusion)
	return b.String()
}
