package pipeline

import (
	"context"
	"math"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/tabml/gboost/dataset"
	"github.com/tabml/gboost/dataset/attrition"
)

// quickConfig is a small but complete search space over all four standard
// axes, cheap enough for tests.
func quickConfig() Config {
	cfg := DefaultConfig()
	cfg.Grid = map[string][]float64{
		"max_depth":        {2, 3},
		"min_child_weight": {1},
		"learning_rate":    {0.2},
		"n_estimators":     {30},
	}
	cfg.Workers = 2
	return cfg
}

func TestPipelineEndToEnd(t *testing.T) {
	t.Parallel()
	ds := attrition.Synthesize(2500, 42)
	res, err := RunDataset(context.Background(), ds, quickConfig(), attrition.Schema(), zaptest.NewLogger(t))
	require.NoError(t, err)

	_, err = uuid.Parse(res.RunID)
	assert.NoError(t, err, "run ids are uuids")

	assert.Equal(t, 2500, res.Rows)
	assert.Greater(t, res.Clean.DuplicatesRemoved, 0)
	assert.Equal(t, res.Clean.Rows, res.TrainRows+res.ValidationRows+res.TestRows,
		"every cleaned row lands in exactly one partition")
	assert.InDelta(t, 0.6, float64(res.TrainRows)/float64(res.Clean.Rows), 0.01)

	// stratification holds the label rate steady across partitions
	assert.InDelta(t, 0.166, res.Validation.PositiveRate, 0.02)
	assert.InDelta(t, 0.166, res.Test.PositiveRate, 0.02)
	assert.InDelta(t, res.Validation.PositiveRate, res.Test.PositiveRate, 0.02)

	// the synthetic classes separate well, so recall clears the floor
	assert.GreaterOrEqual(t, res.CVScore, 0.85)
	assert.GreaterOrEqual(t, res.Validation.Recall, 0.85)
	assert.GreaterOrEqual(t, res.Test.Recall, 0.85)

	assert.Contains(t, res.Features, "salary")
	assert.Contains(t, res.Features, "department=sales")
	assert.Contains(t, res.Features, "department="+dataset.OtherLevel)

	require.Len(t, res.Trials, 2)
	require.NotNil(t, res.Model)
	require.NotNil(t, res.Encoding)
	assert.NotEmpty(t, res.Importances)
	assert.NotEmpty(t, res.Curves)
	assert.LessOrEqual(t, len(res.Curves), 3)

	sum := res.Summary()
	assert.Contains(t, sum, res.RunID)
	assert.Contains(t, sum, "cv recall")
	assert.Contains(t, sum, "validation:")
}

func TestPipelineDeterministic(t *testing.T) {
	t.Parallel()
	ds := attrition.Synthesize(1200, 7)
	cfg := quickConfig()

	a, err := RunDataset(context.Background(), ds, cfg, attrition.Schema(), nil)
	require.NoError(t, err)
	b, err := RunDataset(context.Background(), ds, cfg, attrition.Schema(), nil)
	require.NoError(t, err)

	assert.NotEqual(t, a.RunID, b.RunID, "each run gets its own id")
	assert.Equal(t, a.BestParams, b.BestParams)
	assert.Equal(t, a.CVScore, b.CVScore)
	assert.Equal(t, a.Validation.Confusion, b.Validation.Confusion)
	assert.Equal(t, a.Test.Confusion, b.Test.Confusion)
	assert.Equal(t, a.Features, b.Features)
}

func TestPipelineRunFromCSV(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "hr.csv")
	require.NoError(t, dataset.WriteCSV(attrition.Synthesize(800, 3), path))

	cfg := quickConfig()
	cfg.Data = path

	res, err := Run(context.Background(), cfg, attrition.Schema(), zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, 800, res.Rows)
	assert.GreaterOrEqual(t, res.Validation.Recall, 0.85)
}

func TestPipelineNoDataPath(t *testing.T) {
	t.Parallel()
	_, err := Run(context.Background(), quickConfig(), attrition.Schema(), nil)
	assert.ErrorContains(t, err, "no data path")
}

func TestPipelineRejectsDirtyData(t *testing.T) {
	t.Parallel()
	ds, err := dataset.New(
		dataset.Column{Name: "satisfaction_level", Numeric: true, Floats: []float64{0.4, math.NaN()}},
		dataset.Column{Name: "salary", Labels: []string{"low", "high"}},
		dataset.Column{Name: "left", Numeric: true, Floats: []float64{1, 0}},
	)
	require.NoError(t, err)

	schema := dataset.Schema{
		Ordinal: map[string][]string{"salary": {"low", "medium", "high"}},
		Target:  "left",
	}
	_, err = RunDataset(context.Background(), ds, quickConfig(), schema, nil)
	var derr *dataset.DataError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "clean", derr.Op)
}

func TestPipelineCancelled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ds := attrition.Synthesize(600, 5)
	_, err := RunDataset(ctx, ds, quickConfig(), attrition.Schema(), nil)
	assert.ErrorIs(t, err, context.Canceled)
}
