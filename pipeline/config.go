// Package pipeline wires the whole batch job together: load, clean,
// split, encode, search, evaluate, explain.
package pipeline

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/tabml/gboost/dataset"
	"github.com/tabml/gboost/eval"
	"github.com/tabml/gboost/explain"
)

// Config is one run's configuration, usually read from a YAML file.
// Zero-valued fields fall back to the defaults.
type Config struct {
	// Data is the input CSV path.
	Data string `mapstructure:"data" yaml:"data"`
	// Seed drives the split and the fold assignment.
	Seed int64 `mapstructure:"seed" yaml:"seed"`
	// Ratios are the train/validation/test shares, summing to one.
	Ratios []float64 `mapstructure:"ratios" yaml:"ratios"`
	// Folds is the cross-validation fold count.
	Folds int `mapstructure:"folds" yaml:"folds"`
	// Metric is what the search maximizes: recall, precision, accuracy or f1.
	Metric string `mapstructure:"metric" yaml:"metric"`
	// Threshold is the decision threshold on predicted probabilities.
	Threshold float64 `mapstructure:"threshold" yaml:"threshold"`
	// Workers bounds concurrent search trials; zero means all cores.
	Workers int `mapstructure:"workers" yaml:"workers"`
	// UnknownLevels is the policy for unseen nominal levels: bucket or error.
	UnknownLevels string `mapstructure:"unknown_levels" yaml:"unknown_levels"`
	// TopFeatures is how many features get partial dependence curves.
	TopFeatures int `mapstructure:"top_features" yaml:"top_features"`
	// CurvePoints caps the grid size of each curve.
	CurvePoints int `mapstructure:"curve_points" yaml:"curve_points"`
	// Grid is the hyperparameter search space.
	Grid map[string][]float64 `mapstructure:"grid" yaml:"grid"`
	// ModelOut, when set, is where the model bundle is written.
	ModelOut string `mapstructure:"model_out" yaml:"model_out"`
	// ResultOut, when set, is where the YAML result snapshot is written.
	ResultOut string `mapstructure:"result_out" yaml:"result_out"`
}

// DefaultConfig returns the canonical configuration: 60/20/20 split, seed
// 42, five folds, recall at threshold 0.5.
func DefaultConfig() Config {
	return Config{
		Seed:          42,
		Ratios:        []float64{0.6, 0.2, 0.2},
		Folds:         5,
		Metric:        string(eval.MetricRecall),
		Threshold:     0.5,
		UnknownLevels: "bucket",
		TopFeatures:   3,
		CurvePoints:   explain.DefaultPoints,
	}
}

// LoadConfig reads a YAML file over the defaults. An empty path returns
// the defaults untouched.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return cfg, fmt.Errorf("pipeline: read config %s: %w", path, err)
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("pipeline: parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks everything that does not need the data.
func (c Config) Validate() error {
	if _, err := c.ratios(); err != nil {
		return err
	}
	if c.Folds < 2 {
		return fmt.Errorf("pipeline: folds %d, want at least 2", c.Folds)
	}
	if _, err := eval.ParseMetric(c.Metric); err != nil {
		return err
	}
	if c.Threshold <= 0 || c.Threshold >= 1 {
		return fmt.Errorf("pipeline: threshold %v, want in (0,1)", c.Threshold)
	}
	if _, err := dataset.ParseUnknownPolicy(c.UnknownLevels); err != nil {
		return err
	}
	if c.TopFeatures < 1 {
		return fmt.Errorf("pipeline: top_features %d, want at least 1", c.TopFeatures)
	}
	if c.CurvePoints < 2 {
		return fmt.Errorf("pipeline: curve_points %d, want at least 2", c.CurvePoints)
	}
	if c.Workers < 0 {
		return fmt.Errorf("pipeline: workers %d, want non-negative", c.Workers)
	}
	return nil
}

func (c Config) ratios() (dataset.Ratios, error) {
	if len(c.Ratios) != 3 {
		return dataset.Ratios{}, fmt.Errorf("pipeline: %d split ratios, want 3", len(c.Ratios))
	}
	r := dataset.Ratios{c.Ratios[0], c.Ratios[1], c.Ratios[2]}
	return r, r.Validate()
}
