package pipeline

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tabml/gboost/booster"
	"github.com/tabml/gboost/dataset"
	"github.com/tabml/gboost/eval"
	"github.com/tabml/gboost/explain"
	"github.com/tabml/gboost/search"
)

// Result captures one finished run: what the data looked like, what the
// search chose, how the model scored and why it predicts what it does.
type Result struct {
	RunID          string    `json:"run_id" yaml:"run_id"`
	CreatedAt      time.Time `json:"created_at" yaml:"created_at"`
	ElapsedSeconds float64   `json:"elapsed_seconds" yaml:"elapsed_seconds"`

	Rows           int                  `json:"rows" yaml:"rows"`
	Clean          dataset.CleanSummary `json:"clean" yaml:"clean"`
	TrainRows      int                  `json:"train_rows" yaml:"train_rows"`
	ValidationRows int                  `json:"validation_rows" yaml:"validation_rows"`
	TestRows       int                  `json:"test_rows" yaml:"test_rows"`
	Features       []string             `json:"features" yaml:"features"`

	Metric     string         `json:"metric" yaml:"metric"`
	BestParams booster.Params `json:"best_params" yaml:"best_params"`
	CVScore    float64        `json:"cv_score" yaml:"cv_score"`
	Trials     []search.Trial `json:"trials" yaml:"trials"`

	Validation *eval.Report `json:"validation" yaml:"validation"`
	Test       *eval.Report `json:"test" yaml:"test"`

	Importances []explain.Importance `json:"importances" yaml:"importances"`
	Curves      []*explain.Curve     `json:"partial_dependence" yaml:"partial_dependence"`

	Model    *booster.Ensemble `json:"-" yaml:"-"`
	Encoding *dataset.Encoding `json:"-" yaml:"-"`
}

// WriteYAML snapshots the result to a file.
func (r *Result) WriteYAML(path string) error {
	blob, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("pipeline: marshal result: %w", err)
	}
	return os.WriteFile(path, blob, 0o644)
}

// Summary renders the human-readable block the train command prints.
func (r *Result) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "run %s (%.1fs)\n", r.RunID, r.ElapsedSeconds)
	fmt.Fprintf(&b, "rows %d, duplicates dropped %d, split %d/%d/%d\n",
		r.Rows, r.Clean.DuplicatesRemoved, r.TrainRows, r.ValidationRows, r.TestRows)
	fmt.Fprintf(&b, "best params: %s\n", r.BestParams)
	fmt.Fprintf(&b, "cv %s: %.4f over %d trials\n", r.Metric, r.CVScore, len(r.Trials))
	if r.Validation != nil {
		fmt.Fprintf(&b, "\nvalidation:\n%s\n", indent(r.Validation.String()))
	}
	if r.Test != nil {
		fmt.Fprintf(&b, "\ntest:\n%s\n", indent(r.Test.String()))
	}
	if len(r.Importances) > 0 {
		fmt.Fprintf(&b, "\ntop features:\n")
		for i, imp := range r.Importances {
			if i == 5 || imp.Gain <= 0 {
				break
			}
			fmt.Fprintf(&b, "  %-28s %.1f%%\n", imp.Feature, 100*imp.Fraction)
		}
	}
	return b.String()
}

func indent(s string) string {
	return "  " + strings.ReplaceAll(s, "\n", "\n  ")
}
