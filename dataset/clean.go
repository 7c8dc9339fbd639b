package dataset

import (
	"fmt"
	"math"

	"go.uber.org/zap"
)

// CleanSummary reports what cleaning did to a dataset.
type CleanSummary struct {
	Renamed           int `yaml:"renamed" json:"renamed"`
	DuplicatesRemoved int `yaml:"duplicates_removed" json:"duplicates_removed"`
	Rows              int `yaml:"rows" json:"rows"`
}

// Clean canonicalizes header names per the schema, drops exact duplicate
// rows, and verifies the result has no missing cells and a valid 0/1
// target column. The input dataset is not modified. A nil logger disables
// logging.
func Clean(ds *Dataset, schema Schema, log *zap.Logger) (*Dataset, CleanSummary, error) {
	if log == nil {
		log = zap.NewNop()
	}
	var sum CleanSummary
	out := ds.Clone()
	sum.Renamed = out.rename(schema.Renames)
	sum.DuplicatesRemoved = out.deduplicate()
	sum.Rows = out.Len()
	if sum.DuplicatesRemoved > 0 {
		log.Info("dropped duplicate rows",
			zap.Int("duplicates", sum.DuplicatesRemoved),
			zap.Int("rows", sum.Rows))
	}

	if missing := out.MissingCounts(); len(missing) > 0 {
		return nil, sum, &DataError{Op: "clean", Reason: "missing values", Missing: missing}
	}
	if err := checkTarget(out, schema.Target); err != nil {
		return nil, sum, err
	}
	log.Debug("cleaned dataset",
		zap.Int("rows", sum.Rows),
		zap.Int("columns", len(out.cols)),
		zap.Int("renamed", sum.Renamed))
	return out, sum, nil
}

func checkTarget(ds *Dataset, target string) error {
	col := ds.Column(target)
	if col == nil {
		return &DataError{Op: "clean", Reason: fmt.Sprintf("target column %q not found", target)}
	}
	if !col.Numeric {
		return &DataError{Op: "clean", Reason: fmt.Sprintf("target column %q is not numeric", target)}
	}
	for i, v := range col.Floats {
		if v != 0 && v != 1 {
			if math.IsNaN(v) {
				return &DataError{Op: "clean", Reason: fmt.Sprintf("target column %q missing at row %d", target, i)}
			}
			return &DataError{Op: "clean", Reason: fmt.Sprintf("target column %q has non-binary value %v at row %d", target, v, i)}
		}
	}
	return nil
}
