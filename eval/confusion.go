// Package eval scores binary classifiers: confusion matrices, the derived
// metrics, and the evaluation report the pipeline prints.
package eval

import "fmt"

// ConfusionMatrix counts binary decisions against true labels. The
// positive class is label 1.
type ConfusionMatrix struct {
	TP int `json:"tp" yaml:"tp"`
	FP int `json:"fp" yaml:"fp"`
	TN int `json:"tn" yaml:"tn"`
	FN int `json:"fn" yaml:"fn"`
}

// Confusion thresholds probabilities and tallies them against labels. A
// probability at or above the threshold predicts the positive class.
func Confusion(y, probs []float64, threshold float64) (ConfusionMatrix, error) {
	var c ConfusionMatrix
	if len(y) != len(probs) {
		return c, fmt.Errorf("eval: %d labels for %d predictions", len(y), len(probs))
	}
	if threshold <= 0 || threshold >= 1 {
		return c, fmt.Errorf("eval: threshold %v, want in (0,1)", threshold)
	}
	for i, label := range y {
		if label != 0 && label != 1 {
			return ConfusionMatrix{}, fmt.Errorf("eval: label %v at row %d, want 0 or 1", label, i)
		}
		positive := probs[i] >= threshold
		switch {
		case positive && label == 1:
			c.TP++
		case positive && label == 0:
			c.FP++
		case !positive && label == 0:
			c.TN++
		default:
			c.FN++
		}
	}
	return c, nil
}

// Total is the number of scored rows.
func (c ConfusionMatrix) Total() int { return c.TP + c.FP + c.TN + c.FN }

// Accuracy is the share of correct decisions, 0 on an empty matrix.
func (c ConfusionMatrix) Accuracy() float64 {
	if c.Total() == 0 {
		return 0
	}
	return float64(c.TP+c.TN) / float64(c.Total())
}

// Precision is TP/(TP+FP), 0 when nothing was predicted positive.
func (c ConfusionMatrix) Precision() float64 {
	if c.TP+c.FP == 0 {
		return 0
	}
	return float64(c.TP) / float64(c.TP+c.FP)
}

// Recall is TP/(TP+FN), 0 when there are no positive rows.
func (c ConfusionMatrix) Recall() float64 {
	if c.TP+c.FN == 0 {
		return 0
	}
	return float64(c.TP) / float64(c.TP+c.FN)
}

// F1 is the harmonic mean of precision and recall, 0 when both are 0.
func (c ConfusionMatrix) F1() float64 {
	p, r := c.Precision(), c.Recall()
	if p+r == 0 {
		return 0
	}
	return 2 * p * r / (p + r)
}

func (c ConfusionMatrix) String() string {
	return fmt.Sprintf("tp=%d fp=%d tn=%d fn=%d", c.TP, c.FP, c.TN, c.FN)
}
