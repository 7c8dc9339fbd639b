package eval

import (
	"fmt"
	"strings"
)

// Metric selects which score the hyperparameter search optimizes.
type Metric string

const (
	MetricRecall    Metric = "recall"
	MetricPrecision Metric = "precision"
	MetricAccuracy  Metric = "accuracy"
	MetricF1        Metric = "f1"
)

// ParseMetric parses the textual form used in configs and flags. The empty
// string means the default, recall.
func ParseMetric(s string) (Metric, error) {
	switch Metric(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return MetricRecall, nil
	case MetricRecall:
		return MetricRecall, nil
	case MetricPrecision:
		return MetricPrecision, nil
	case MetricAccuracy:
		return MetricAccuracy, nil
	case MetricF1:
		return MetricF1, nil
	default:
		return "", fmt.Errorf("eval: unknown metric %q, want recall, precision, accuracy or f1", s)
	}
}

// Score reads the metric off a confusion matrix.
func (m Metric) Score(c ConfusionMatrix) (float64, error) {
	switch m {
	case MetricRecall:
		return c.Recall(), nil
	case MetricPrecision:
		return c.Precision(), nil
	case MetricAccuracy:
		return c.Accuracy(), nil
	case MetricF1:
		return c.F1(), nil
	default:
		return 0, fmt.Errorf("eval: unknown metric %q", string(m))
	}
}
