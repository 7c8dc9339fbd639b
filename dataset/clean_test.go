package dataset

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func cleanSchema() Schema {
	return Schema{
		Renames: map[string]string{"sales": "department"},
		Nominal: []string{"department"},
		Target:  "left",
	}
}

func TestCleanRenamesAndDeduplicates(t *testing.T) {
	t.Parallel()
	ds, err := New(
		numCol("satisfaction", 0.4, 0.4, 0.9),
		catCol("sales", "hr", "hr", "it"),
		numCol("left", 1, 1, 0),
	)
	require.NoError(t, err)

	out, sum, err := Clean(ds, cleanSchema(), zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Renamed)
	assert.Equal(t, 1, sum.DuplicatesRemoved)
	assert.Equal(t, 2, sum.Rows)
	assert.Equal(t, 2, out.Len())
	assert.NotNil(t, out.Column("department"))
	assert.Nil(t, out.Column("sales"))

	// the input is left untouched
	assert.Equal(t, 3, ds.Len())
	assert.NotNil(t, ds.Column("sales"))
}

func TestCleanIsIdempotent(t *testing.T) {
	t.Parallel()
	ds, err := New(
		numCol("satisfaction", 0.4, 0.4, 0.9),
		catCol("sales", "hr", "hr", "it"),
		numCol("left", 1, 1, 0),
	)
	require.NoError(t, err)

	once, sum1, err := Clean(ds, cleanSchema(), nil)
	require.NoError(t, err)
	twice, sum2, err := Clean(once, cleanSchema(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, sum2.Renamed)
	assert.Equal(t, 0, sum2.DuplicatesRemoved)
	assert.Equal(t, sum1.Rows, sum2.Rows)
	assert.Equal(t, once.ColumnNames(), twice.ColumnNames())
	assert.Equal(t, once.Column("satisfaction").Floats, twice.Column("satisfaction").Floats)
}

func TestCleanRejectsMissing(t *testing.T) {
	t.Parallel()
	ds, err := New(
		numCol("satisfaction", 0.4, math.NaN()),
		catCol("sales", "hr", ""),
		numCol("left", 1, 0),
	)
	require.NoError(t, err)

	_, _, err = Clean(ds, cleanSchema(), nil)
	var derr *DataError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "clean", derr.Op)
	assert.Equal(t, map[string]int{"satisfaction": 1, "department": 1}, derr.Missing)
	assert.Contains(t, derr.Error(), "missing values")
}

func TestCleanValidatesTarget(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		target  Column
		wantErr string
	}{
		{"absent", numCol("other", 0, 1), "not found"},
		{"categorical", catCol("left", "yes", "no"), "not numeric"},
		{"non-binary", numCol("left", 0, 2), "non-binary value"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ds, err := New(numCol("satisfaction", 0.1, 0.2), tt.target)
			require.NoError(t, err)
			_, _, err = Clean(ds, Schema{Target: "left"}, nil)
			require.Error(t, err)
			var derr *DataError
			assert.True(t, errors.As(err, &derr))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
