package pipeline

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/tabml/gboost/booster"
	"github.com/tabml/gboost/dataset"
)

// Bundle pairs a trained model with the encoding that feeds it, which is
// everything needed to score a raw CSV later.
type Bundle struct {
	Model    *booster.Ensemble `json:"model"`
	Encoding *dataset.Encoding `json:"encoding"`
}

// WriteBundle saves a bundle as gzip-compressed JSON.
func WriteBundle(w io.Writer, b Bundle) error {
	if b.Model == nil || b.Encoding == nil {
		return fmt.Errorf("pipeline: bundle needs both a model and an encoding")
	}
	zw := gzip.NewWriter(w)
	if err := json.NewEncoder(zw).Encode(b); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}

// SaveBundle writes a bundle to a file.
func SaveBundle(path string, b Bundle) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteBundle(f, b); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadBundle loads a bundle produced by WriteBundle.
func ReadBundle(r io.Reader) (Bundle, error) {
	var b Bundle
	zr, err := gzip.NewReader(r)
	if err != nil {
		return b, err
	}
	if err := json.NewDecoder(zr).Decode(&b); err != nil {
		zr.Close()
		return b, err
	}
	if err := zr.Close(); err != nil {
		return b, err
	}
	if b.Model == nil || b.Encoding == nil {
		return b, fmt.Errorf("pipeline: bundle is missing a model or an encoding")
	}
	if len(b.Model.Features()) != len(b.Encoding.Features()) {
		return b, fmt.Errorf("pipeline: bundle model wants %d features, encoding makes %d",
			len(b.Model.Features()), len(b.Encoding.Features()))
	}
	return b, nil
}

// LoadBundle reads a bundle from a file.
func LoadBundle(path string) (Bundle, error) {
	f, err := os.Open(path)
	if err != nil {
		return Bundle{}, err
	}
	b, err := ReadBundle(f)
	cerr := f.Close()
	if err != nil {
		return Bundle{}, err
	}
	if cerr != nil {
		return Bundle{}, cerr
	}
	return b, nil
}
