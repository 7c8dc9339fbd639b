// Package search tunes booster hyperparameters by exhaustive grid search
// with stratified k-fold cross-validation. Trials run concurrently, the
// outcome does not depend on the worker count.
package search

import (
	"fmt"
	"math"
	"sort"

	"github.com/tabml/gboost/booster"
)

// Grid maps a hyperparameter axis to the values to try. Axis names follow
// the config spelling: n_estimators, max_depth, learning_rate,
// min_child_weight, lambda, gamma.
type Grid map[string][]float64

// Candidates expands the grid into the full cross product of parameter
// sets, starting from booster.DefaultParams for axes the grid leaves out.
// Axes apply in sorted name order with the first axis varying slowest, so
// the expansion order is fixed for a given grid.
func (g Grid) Candidates() ([]booster.Params, error) {
	if len(g) == 0 {
		return nil, ErrEmptyGrid
	}
	names := make([]string, 0, len(g))
	for name := range g {
		names = append(names, name)
	}
	sort.Strings(names)

	out := []booster.Params{booster.DefaultParams()}
	for _, name := range names {
		values := g[name]
		if len(values) == 0 {
			return nil, fmt.Errorf("search: axis %q has no values", name)
		}
		next := make([]booster.Params, 0, len(out)*len(values))
		for _, base := range out {
			for _, v := range values {
				p := base
				if err := setAxis(&p, name, v); err != nil {
					return nil, err
				}
				next = append(next, p)
			}
		}
		out = next
	}
	return out, nil
}

func setAxis(p *booster.Params, name string, v float64) error {
	switch name {
	case "n_estimators":
		n, err := axisInt(name, v)
		if err != nil {
			return err
		}
		p.NEstimators = n
	case "max_depth":
		n, err := axisInt(name, v)
		if err != nil {
			return err
		}
		p.MaxDepth = n
	case "learning_rate":
		p.LearningRate = v
	case "min_child_weight":
		p.MinChildWeight = v
	case "lambda":
		p.Lambda = v
	case "gamma":
		p.Gamma = v
	default:
		return fmt.Errorf("search: unknown hyperparameter axis %q", name)
	}
	return nil
}

func axisInt(name string, v float64) (int, error) {
	if v != math.Trunc(v) {
		return 0, fmt.Errorf("search: axis %q value %v is not an integer", name, v)
	}
	return int(v), nil
}
