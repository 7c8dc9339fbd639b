package search

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/tabml/gboost/booster"
	"github.com/tabml/gboost/eval"
	"github.com/tabml/gboost/parallel"
)

// Config drives one grid search.
type Config struct {
	Grid      Grid
	Folds     int         // cross-validation folds, default 5
	Metric    eval.Metric // score to maximize, default recall
	Threshold float64     // decision threshold for fold scoring, default 0.5
	Seed      int64       // fold assignment seed
	Workers   int         // concurrent trials, default parallel.Workers()
	Features  []string    // encoded feature names for the final refit
	Logger    *zap.Logger // nil disables logging
}

// Trial is the cross-validated result of one candidate. Failed trials
// carry the cause in Err and a zero score.
type Trial struct {
	Params booster.Params `json:"params" yaml:"params"`
	Score  float64        `json:"score" yaml:"score"`
	Err    error          `json:"-" yaml:"-"`
}

// Outcome is a finished search: the winning parameters, their mean
// cross-validation score, the model refit on all the training data, and
// every trial in expansion order.
type Outcome struct {
	Best   booster.Params
	Score  float64
	Model  *booster.Ensemble
	Trials []Trial
}

// Run cross-validates every candidate in the grid on the training matrix
// and refits the best one on all of it. Candidates score independently,
// so trials run concurrently; results are keyed by candidate index and the
// winner is chosen by a fixed rule (highest mean score, earliest candidate
// on ties), which makes the outcome independent of scheduling.
func Run(ctx context.Context, x *mat.Dense, y []float64, cfg Config) (*Outcome, error) {
	if cfg.Folds == 0 {
		cfg.Folds = 5
	}
	if cfg.Folds < 2 {
		return nil, fmt.Errorf("search: %d folds, want at least 2", cfg.Folds)
	}
	if cfg.Metric == "" {
		cfg.Metric = eval.MetricRecall
	}
	if _, err := cfg.Metric.Score(eval.ConfusionMatrix{}); err != nil {
		return nil, err
	}
	if cfg.Threshold == 0 {
		cfg.Threshold = 0.5
	}
	if cfg.Workers <= 0 {
		cfg.Workers = parallel.Workers()
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	rows, _ := x.Dims()
	if len(y) != rows {
		return nil, fmt.Errorf("search: %d labels for %d rows", len(y), rows)
	}
	if largest := largestClass(y); largest < cfg.Folds {
		return nil, fmt.Errorf("search: %d folds but the largest class has only %d rows", cfg.Folds, largest)
	}

	candidates, err := cfg.Grid.Candidates()
	if err != nil {
		return nil, err
	}
	log.Info("starting grid search",
		zap.Int("candidates", len(candidates)),
		zap.Int("folds", cfg.Folds),
		zap.Int("workers", cfg.Workers),
		zap.String("metric", string(cfg.Metric)))

	folds := buildFolds(x, y, cfg.Folds, cfg.Seed)
	trials := make([]Trial, len(candidates))
	err = parallel.ForEach(ctx, len(candidates), cfg.Workers, func(i int) error {
		score, ferr := crossValidate(candidates[i], folds, cfg.Metric, cfg.Threshold)
		trials[i] = Trial{Params: candidates[i], Score: score, Err: ferr}
		if ferr != nil {
			log.Warn("trial failed", zap.String("params", candidates[i].String()), zap.Error(ferr))
			return nil
		}
		log.Debug("trial scored",
			zap.String("params", candidates[i].String()),
			zap.Float64("score", score))
		return nil
	})
	if err != nil {
		return nil, err
	}

	best := -1
	for i := range trials {
		if trials[i].Err != nil {
			continue
		}
		if best < 0 || trials[i].Score > trials[best].Score {
			best = i
		}
	}
	if best < 0 {
		ferr := &FitError{}
		for i := range trials {
			ferr.Failures = append(ferr.Failures, TrialFailure{Params: trials[i].Params, Err: trials[i].Err})
		}
		return nil, ferr
	}

	model, err := booster.Train(x, y, trials[best].Params, cfg.Features)
	if err != nil {
		return nil, fmt.Errorf("search: refit of winning candidate: %w", err)
	}
	log.Info("grid search finished",
		zap.String("best", trials[best].Params.String()),
		zap.Float64("score", trials[best].Score))
	return &Outcome{
		Best:   trials[best].Params,
		Score:  trials[best].Score,
		Model:  model,
		Trials: trials,
	}, nil
}

// crossValidate fits one candidate on every fold and averages the metric
// on the held-out rows.
func crossValidate(p booster.Params, folds []foldData, metric eval.Metric, threshold float64) (float64, error) {
	sum := 0.0
	for i := range folds {
		m, err := booster.Train(folds[i].trainX, folds[i].trainY, p, nil)
		if err != nil {
			return 0, err
		}
		probs, err := m.PredictProba(folds[i].heldX)
		if err != nil {
			return 0, err
		}
		c, err := eval.Confusion(folds[i].heldY, probs, threshold)
		if err != nil {
			return 0, err
		}
		score, err := metric.Score(c)
		if err != nil {
			return 0, err
		}
		sum += score
	}
	return sum / float64(len(folds)), nil
}

func largestClass(y []float64) int {
	counts := make(map[float64]int)
	for _, v := range y {
		counts[v]++
	}
	largest := 0
	for _, n := range counts {
		if n > largest {
			largest = n
		}
	}
	return largest
}
