// Package booster implements gradient boosted decision trees for binary
// classification with logistic loss: second-order boosting with exact
// greedy splits, L2 leaf regularization and shrinkage.
package booster

import "fmt"

// Params are the hyperparameters of a boosting run.
type Params struct {
	// NEstimators is the number of boosting rounds.
	NEstimators int `json:"n_estimators" yaml:"n_estimators" mapstructure:"n_estimators"`
	// MaxDepth limits tree depth; a depth-1 tree is a single split.
	MaxDepth int `json:"max_depth" yaml:"max_depth" mapstructure:"max_depth"`
	// LearningRate shrinks each tree's contribution.
	LearningRate float64 `json:"learning_rate" yaml:"learning_rate" mapstructure:"learning_rate"`
	// MinChildWeight is the minimum hessian sum allowed in a child.
	MinChildWeight float64 `json:"min_child_weight" yaml:"min_child_weight" mapstructure:"min_child_weight"`
	// Lambda is the L2 penalty on leaf weights.
	Lambda float64 `json:"lambda" yaml:"lambda" mapstructure:"lambda"`
	// Gamma is the minimum gain required to keep a split.
	Gamma float64 `json:"gamma" yaml:"gamma" mapstructure:"gamma"`
}

// DefaultParams returns the baseline configuration a search starts from.
func DefaultParams() Params {
	return Params{
		NEstimators:    100,
		MaxDepth:       3,
		LearningRate:   0.1,
		MinChildWeight: 1,
		Lambda:         1,
		Gamma:          0,
	}
}

// Validate rejects hyperparameter values a fit cannot run with.
func (p Params) Validate() error {
	if p.NEstimators < 1 {
		return fmt.Errorf("booster: n_estimators %d, want at least 1", p.NEstimators)
	}
	if p.MaxDepth < 1 {
		return fmt.Errorf("booster: max_depth %d, want at least 1", p.MaxDepth)
	}
	if p.LearningRate <= 0 || p.LearningRate > 1 {
		return fmt.Errorf("booster: learning_rate %v, want in (0,1]", p.LearningRate)
	}
	if p.MinChildWeight < 0 {
		return fmt.Errorf("booster: min_child_weight %v, want non-negative", p.MinChildWeight)
	}
	if p.Lambda < 0 {
		return fmt.Errorf("booster: lambda %v, want non-negative", p.Lambda)
	}
	if p.Gamma < 0 {
		return fmt.Errorf("booster: gamma %v, want non-negative", p.Gamma)
	}
	return nil
}

func (p Params) String() string {
	return fmt.Sprintf("n_estimators=%d max_depth=%d learning_rate=%g min_child_weight=%g lambda=%g gamma=%g",
		p.NEstimators, p.MaxDepth, p.LearningRate, p.MinChildWeight, p.Lambda, p.Gamma)
}
