package dataset

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// ColumnSummary describes one column for logging and reports. Quantile
// fields are only meaningful for numeric columns.
type ColumnSummary struct {
	Name    string  `yaml:"name" json:"name"`
	Numeric bool    `yaml:"numeric" json:"numeric"`
	Rows    int     `yaml:"rows" json:"rows"`
	Missing int     `yaml:"missing" json:"missing"`
	Unique  int     `yaml:"unique" json:"unique"`
	Mean    float64 `yaml:"mean,omitempty" json:"mean,omitempty"`
	Std     float64 `yaml:"std,omitempty" json:"std,omitempty"`
	Min     float64 `yaml:"min,omitempty" json:"min,omitempty"`
	Median  float64 `yaml:"median,omitempty" json:"median,omitempty"`
	Max     float64 `yaml:"max,omitempty" json:"max,omitempty"`
}

// Summarize profiles every column of the dataset, in table order.
func Summarize(ds *Dataset) []ColumnSummary {
	out := make([]ColumnSummary, 0, len(ds.cols))
	for i := range ds.cols {
		out = append(out, summarizeColumn(&ds.cols[i]))
	}
	return out
}

func summarizeColumn(c *Column) ColumnSummary {
	s := ColumnSummary{Name: c.Name, Numeric: c.Numeric, Rows: c.Len(), Missing: c.Missing()}
	if !c.Numeric {
		s.Unique = len(distinctLabels(c.Labels))
		return s
	}
	vals := make([]float64, 0, len(c.Floats))
	for _, v := range c.Floats {
		if v == v { // skip NaN
			vals = append(vals, v)
		}
	}
	if len(vals) == 0 {
		return s
	}
	sort.Float64s(vals)
	s.Unique = countDistinct(vals)
	s.Mean = stat.Mean(vals, nil)
	s.Std = stat.StdDev(vals, nil)
	s.Min = vals[0]
	s.Max = vals[len(vals)-1]
	s.Median = stat.Quantile(0.5, stat.Empirical, vals, nil)
	return s
}

// countDistinct counts distinct values in a sorted slice.
func countDistinct(sorted []float64) int {
	n := 0
	for i, v := range sorted {
		if i == 0 || v != sorted[i-1] {
			n++
		}
	}
	return n
}
