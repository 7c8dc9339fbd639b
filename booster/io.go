package booster

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// modelJSON is the serialized form of an Ensemble.
type modelJSON struct {
	BaseScore float64  `json:"base_score"`
	Params    Params   `json:"params"`
	Features  []string `json:"features"`
	Trees     []tree   `json:"trees"`
}

// MarshalJSON serializes the model so it can embed in larger documents.
func (m *Ensemble) MarshalJSON() ([]byte, error) {
	return json.Marshal(modelJSON{
		BaseScore: m.base,
		Params:    m.params,
		Features:  m.features,
		Trees:     m.trees,
	})
}

// UnmarshalJSON restores a model, rejecting structurally broken input.
func (m *Ensemble) UnmarshalJSON(b []byte) error {
	var in modelJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	if err := in.Params.Validate(); err != nil {
		return fmt.Errorf("booster: stored model: %w", err)
	}
	if len(in.Features) == 0 {
		return fmt.Errorf("booster: stored model has no features")
	}
	for t := range in.Trees {
		if err := checkTree(&in.Trees[t], len(in.Features)); err != nil {
			return fmt.Errorf("booster: stored model tree %d: %w", t, err)
		}
	}
	*m = Ensemble{
		base:     in.BaseScore,
		params:   in.Params,
		features: in.Features,
		trees:    in.Trees,
	}
	return nil
}

// Write streams the model as gzip-compressed JSON.
func (m *Ensemble) Write(w io.Writer) error {
	zw := gzip.NewWriter(w)
	if err := json.NewEncoder(zw).Encode(m); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}

// WriteFile saves the model to a file.
func (m *Ensemble) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := m.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Read loads a model produced by Write.
func Read(r io.Reader) (*Ensemble, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, err
	}
	m := new(Ensemble)
	if err := json.NewDecoder(zr).Decode(m); err != nil {
		zr.Close()
		return nil, err
	}
	if err := zr.Close(); err != nil {
		return nil, err
	}
	return m, nil
}

// ReadFile loads a model from a file.
func ReadFile(path string) (*Ensemble, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	m, err := Read(f)
	cerr := f.Close()
	if err != nil {
		return nil, err
	}
	if cerr != nil {
		return nil, cerr
	}
	return m, nil
}

// checkTree verifies node links so a corrupt file cannot send prediction
// out of bounds or into a cycle.
func checkTree(t *tree, nf int) error {
	if len(t.Nodes) == 0 {
		return fmt.Errorf("no nodes")
	}
	for i, n := range t.Nodes {
		if n.Feature < 0 {
			continue
		}
		if n.Feature >= nf {
			return fmt.Errorf("node %d splits on feature %d of %d", i, n.Feature, nf)
		}
		// children must point forward, the grower always lays them out so
		if n.Left <= i || n.Left >= len(t.Nodes) || n.Right <= i || n.Right >= len(t.Nodes) {
			return fmt.Errorf("node %d has bad children %d,%d", i, n.Left, n.Right)
		}
	}
	return nil
}
