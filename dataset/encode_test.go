package dataset

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func encodeSchema(policy UnknownPolicy) Schema {
	return Schema{
		Ordinal: map[string][]string{"salary": {"low", "medium", "high"}},
		Nominal: []string{"department"},
		Target:  "left",
		Unknown: policy,
	}
}

func trainFrame(t *testing.T) *Dataset {
	t.Helper()
	ds, err := New(
		numCol("satisfaction", 0.2, 0.8, 0.5),
		catCol("salary", "low", "high", "medium"),
		catCol("department", "sales", "hr", "sales"),
		numCol("left", 1, 0, 0),
	)
	require.NoError(t, err)
	return ds
}

func TestFitEncodingLayout(t *testing.T) {
	t.Parallel()
	enc, err := FitEncoding(trainFrame(t), encodeSchema(UnknownToBucket))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"satisfaction",
		"salary",
		"department=hr",
		"department=sales",
		"department=" + OtherLevel,
	}, enc.Features())
	assert.Equal(t, "left", enc.Target())

	// the strict policy has no bucket column
	strict, err := FitEncoding(trainFrame(t), encodeSchema(UnknownIsError))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"satisfaction",
		"salary",
		"department=hr",
		"department=sales",
	}, strict.Features())
}

func TestApplyEncodesValues(t *testing.T) {
	t.Parallel()
	ds := trainFrame(t)
	enc, err := FitEncoding(ds, encodeSchema(UnknownToBucket))
	require.NoError(t, err)

	x, y, err := enc.Apply(ds)
	require.NoError(t, err)
	want := mat.NewDense(3, 5, []float64{
		0.2, 0, 0, 1, 0,
		0.8, 2, 1, 0, 0,
		0.5, 1, 0, 1, 0,
	})
	assert.True(t, mat.Equal(want, x), "got %v", mat.Formatted(x))
	assert.Equal(t, []float64{1, 0, 0}, y)

	// applying twice yields the same matrix
	x2, y2, err := enc.Apply(ds)
	require.NoError(t, err)
	assert.True(t, mat.Equal(x, x2))
	assert.Equal(t, y, y2)
}

func TestApplyUnseenNominal(t *testing.T) {
	t.Parallel()
	val, err := New(
		numCol("satisfaction", 0.3),
		catCol("salary", "low"),
		catCol("department", "it"),
		numCol("left", 0),
	)
	require.NoError(t, err)

	bucket, err := FitEncoding(trainFrame(t), encodeSchema(UnknownToBucket))
	require.NoError(t, err)
	x, _, err := bucket.Apply(val)
	require.NoError(t, err)
	assert.Equal(t, 1.0, x.At(0, 4), "unseen level must land in the %s column", OtherLevel)
	assert.Equal(t, 0.0, x.At(0, 2))
	assert.Equal(t, 0.0, x.At(0, 3))

	strict, err := FitEncoding(trainFrame(t), encodeSchema(UnknownIsError))
	require.NoError(t, err)
	_, _, err = strict.Apply(val)
	var derr *DataError
	require.ErrorAs(t, err, &derr)
	assert.Contains(t, derr.Error(), `unseen level "it"`)
}

func TestApplyUnseenOrdinalAlwaysFails(t *testing.T) {
	t.Parallel()
	val, err := New(
		numCol("satisfaction", 0.3),
		catCol("salary", "huge"),
		catCol("department", "sales"),
		numCol("left", 0),
	)
	require.NoError(t, err)
	enc, err := FitEncoding(trainFrame(t), encodeSchema(UnknownToBucket))
	require.NoError(t, err)
	_, _, err = enc.Apply(val)
	var derr *DataError
	require.ErrorAs(t, err, &derr)
	assert.Contains(t, derr.Error(), "undeclared level")
}

func TestApplyShapeMismatch(t *testing.T) {
	t.Parallel()
	enc, err := FitEncoding(trainFrame(t), encodeSchema(UnknownToBucket))
	require.NoError(t, err)

	short, err := New(
		numCol("satisfaction", 0.3),
		catCol("salary", "low"),
		numCol("left", 0),
	)
	require.NoError(t, err)
	_, _, err = enc.Apply(short)
	var serr *ShapeError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, []string{"department"}, serr.Missing)

	wide, err := New(
		numCol("satisfaction", 0.3),
		catCol("salary", "low"),
		catCol("department", "sales"),
		numCol("age", 41),
		numCol("left", 0),
	)
	require.NoError(t, err)
	_, _, err = enc.Apply(wide)
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, []string{"age"}, serr.Extra)
}

func TestFitEncodingRejectsUndeclaredCategorical(t *testing.T) {
	t.Parallel()
	ds, err := New(
		catCol("mystery", "a", "b"),
		numCol("left", 0, 1),
	)
	require.NoError(t, err)
	_, err = FitEncoding(ds, Schema{Target: "left"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "neither ordinal nor nominal")
}

func TestEncodingJSONRoundTrip(t *testing.T) {
	t.Parallel()
	ds := trainFrame(t)
	enc, err := FitEncoding(ds, encodeSchema(UnknownToBucket))
	require.NoError(t, err)

	blob, err := json.Marshal(enc)
	require.NoError(t, err)
	var back Encoding
	require.NoError(t, json.Unmarshal(blob, &back))

	assert.Equal(t, enc.Features(), back.Features())
	assert.Equal(t, enc.Target(), back.Target())

	x1, y1, err := enc.Apply(ds)
	require.NoError(t, err)
	x2, y2, err := back.Apply(ds)
	require.NoError(t, err)
	assert.True(t, mat.Equal(x1, x2))
	assert.Equal(t, y1, y2)
}
