// Package explain derives feature attributions from a trained ensemble:
// gain-based importance rankings and partial dependence curves.
package explain

import (
	"sort"

	"github.com/tabml/gboost/booster"
)

// Importance is one feature's share of the ensemble's total split gain.
type Importance struct {
	Feature  string  `json:"feature" yaml:"feature"`
	Gain     float64 `json:"gain" yaml:"gain"`
	Fraction float64 `json:"fraction" yaml:"fraction"`
}

// Importances ranks every model feature by total split gain, highest
// first, ties broken by name so the ranking is stable. Features the trees
// never split on rank last with zero gain.
func Importances(m *booster.Ensemble) []Importance {
	gains := m.GainImportance()
	total := 0.0
	for _, g := range gains {
		total += g
	}
	out := make([]Importance, 0, len(m.Features()))
	for _, name := range m.Features() {
		imp := Importance{Feature: name, Gain: gains[name]}
		if total > 0 {
			imp.Fraction = imp.Gain / total
		}
		out = append(out, imp)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Gain != out[j].Gain {
			return out[i].Gain > out[j].Gain
		}
		return out[i].Feature < out[j].Feature
	})
	return out
}
