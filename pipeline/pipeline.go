package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tabml/gboost/dataset"
	"github.com/tabml/gboost/eval"
	"github.com/tabml/gboost/explain"
	"github.com/tabml/gboost/search"
)

// Run loads the configured CSV and executes the full pipeline on it.
func Run(ctx context.Context, cfg Config, schema dataset.Schema, log *zap.Logger) (*Result, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Data == "" {
		return nil, fmt.Errorf("pipeline: no data path configured")
	}
	ds, err := dataset.Load(cfg.Data)
	if err != nil {
		return nil, err
	}
	log.Info("loaded dataset",
		zap.String("path", cfg.Data),
		zap.Int("rows", ds.Len()),
		zap.Int("columns", len(ds.ColumnNames())))
	return RunDataset(ctx, ds, cfg, schema, log)
}

// RunDataset executes the pipeline on an already loaded dataset: clean,
// stratified split, fit-time encoding, cross-validated grid search,
// evaluation on the held-out partitions, and the explanation pass. Every
// stage is a pure function of its inputs, so a given dataset, schema,
// config and seed always produce the same model and scores.
func RunDataset(ctx context.Context, ds *dataset.Dataset, cfg Config, schema dataset.Schema, log *zap.Logger) (*Result, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ratios, err := cfg.ratios()
	if err != nil {
		return nil, err
	}
	metric, err := eval.ParseMetric(cfg.Metric)
	if err != nil {
		return nil, err
	}
	schema.Unknown, err = dataset.ParseUnknownPolicy(cfg.UnknownLevels)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result := &Result{
		RunID:     uuid.NewString(),
		CreatedAt: start.UTC(),
		Rows:      ds.Len(),
		Metric:    string(metric),
	}
	log = log.With(zap.String("run_id", result.RunID))

	cleaned, cleanSum, err := dataset.Clean(ds, schema, log)
	if err != nil {
		return nil, err
	}
	result.Clean = cleanSum
	log.Debug("column profile", zap.Any("columns", dataset.Summarize(cleaned)))

	parts, err := dataset.Split(cleaned, schema.Target, ratios, cfg.Seed)
	if err != nil {
		return nil, err
	}
	result.TrainRows = parts.Train.Len()
	result.ValidationRows = parts.Validation.Len()
	result.TestRows = parts.Test.Len()
	log.Info("split dataset",
		zap.Int("train", result.TrainRows),
		zap.Int("validation", result.ValidationRows),
		zap.Int("test", result.TestRows),
		zap.Int64("seed", cfg.Seed))

	enc, err := dataset.FitEncoding(parts.Train, schema)
	if err != nil {
		return nil, err
	}
	result.Encoding = enc
	result.Features = enc.Features()

	xTrain, yTrain, err := enc.Apply(parts.Train)
	if err != nil {
		return nil, err
	}
	xVal, yVal, err := enc.Apply(parts.Validation)
	if err != nil {
		return nil, err
	}
	xTest, yTest, err := enc.Apply(parts.Test)
	if err != nil {
		return nil, err
	}
	if err := sameWidth(xTrain, xVal, xTest); err != nil {
		return nil, err
	}
	log.Info("encoded partitions", zap.Int("features", len(result.Features)))

	outcome, err := search.Run(ctx, xTrain, yTrain, search.Config{
		Grid:      search.Grid(cfg.Grid),
		Folds:     cfg.Folds,
		Metric:    metric,
		Threshold: cfg.Threshold,
		Seed:      cfg.Seed,
		Workers:   cfg.Workers,
		Features:  result.Features,
		Logger:    log,
	})
	if err != nil {
		return nil, err
	}
	result.Model = outcome.Model
	result.BestParams = outcome.Best
	result.CVScore = outcome.Score
	result.Trials = outcome.Trials

	result.Validation, err = eval.Evaluate(outcome.Model, xVal, yVal, cfg.Threshold)
	if err != nil {
		return nil, err
	}
	result.Test, err = eval.Evaluate(outcome.Model, xTest, yTest, cfg.Threshold)
	if err != nil {
		return nil, err
	}

	result.Importances = explain.Importances(outcome.Model)
	result.Curves, err = explain.TopCurves(outcome.Model, xTrain, cfg.TopFeatures, cfg.CurvePoints)
	if err != nil {
		return nil, err
	}

	result.ElapsedSeconds = time.Since(start).Seconds()
	log.Info("pipeline finished",
		zap.Float64("cv_score", result.CVScore),
		zap.Float64("validation_recall", result.Validation.Recall),
		zap.Float64("test_recall", result.Test.Recall),
		zap.Float64("elapsed_seconds", result.ElapsedSeconds))
	return result, nil
}

// sameWidth guards the invariant that every partition encodes to the same
// columns before anything is fit.
func sameWidth(train, val, test interface{ Dims() (int, int) }) error {
	_, w := train.Dims()
	if _, wv := val.Dims(); wv != w {
		return &dataset.ShapeError{Want: w, Got: wv}
	}
	if _, wt := test.Dims(); wt != w {
		return &dataset.ShapeError{Want: w, Got: wt}
	}
	return nil
}
