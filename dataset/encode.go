package dataset

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// OtherLevel is the indicator column that collects nominal levels unseen
// at fit time under the bucket policy.
const OtherLevel = "__other__"

type colKind int

const (
	kindNumeric colKind = iota
	kindOrdinal
	kindNominal
)

func (k colKind) String() string {
	switch k {
	case kindNumeric:
		return "numeric"
	case kindOrdinal:
		return "ordinal"
	case kindNominal:
		return "nominal"
	default:
		return fmt.Sprintf("colKind(%d)", int(k))
	}
}

// encCol is one source column of a fitted encoding, in table order.
type encCol struct {
	name   string
	kind   colKind
	levels []string // ordinal: declared order; nominal: levels observed at fit
	offset int      // first encoded column
	width  int      // encoded columns produced
}

// Encoding is a fitted, immutable mapping from a typed Dataset to a dense
// feature matrix. Nominal level sets are frozen at fit time, so applying
// the same encoding to train, validation and test partitions always yields
// the same columns in the same order.
type Encoding struct {
	target   string
	unknown  UnknownPolicy
	cols     []encCol
	features []string
}

// FitEncoding learns an encoding from the given dataset, which is the only
// data the encoding ever sees. Ordinal levels come from the schema's
// declared order, nominal levels are the sorted distinct values observed
// here.
func FitEncoding(ds *Dataset, schema Schema) (*Encoding, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	if ds.Column(schema.Target) == nil {
		return nil, &DataError{Op: "encode", Reason: fmt.Sprintf("target column %q not found", schema.Target)}
	}
	nominal := make(map[string]struct{}, len(schema.Nominal))
	for _, n := range schema.Nominal {
		nominal[n] = struct{}{}
	}

	enc := &Encoding{target: schema.Target, unknown: schema.Unknown}
	for i := range ds.cols {
		col := &ds.cols[i]
		if col.Name == schema.Target {
			continue
		}
		switch {
		case len(schema.Ordinal[col.Name]) > 0:
			if col.Numeric {
				return nil, &DataError{Op: "encode", Reason: fmt.Sprintf("ordinal column %q is numeric", col.Name)}
			}
			enc.cols = append(enc.cols, encCol{
				name:   col.Name,
				kind:   kindOrdinal,
				levels: append([]string(nil), schema.Ordinal[col.Name]...),
			})
		case hasKey(nominal, col.Name):
			if col.Numeric {
				return nil, &DataError{Op: "encode", Reason: fmt.Sprintf("nominal column %q is numeric", col.Name)}
			}
			enc.cols = append(enc.cols, encCol{
				name:   col.Name,
				kind:   kindNominal,
				levels: distinctLabels(col.Labels),
			})
		case col.Numeric:
			enc.cols = append(enc.cols, encCol{name: col.Name, kind: kindNumeric})
		default:
			return nil, &DataError{Op: "encode", Reason: fmt.Sprintf("categorical column %q is neither ordinal nor nominal in the schema", col.Name)}
		}
	}
	if len(enc.cols) == 0 {
		return nil, &DataError{Op: "encode", Reason: "no feature columns"}
	}
	enc.layout()
	return enc, nil
}

func hasKey(m map[string]struct{}, k string) bool {
	_, ok := m[k]
	return ok
}

func distinctLabels(labels []string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, l := range labels {
		if l == "" {
			continue
		}
		if _, dup := seen[l]; dup {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// layout assigns encoded column offsets and builds the feature name list.
func (e *Encoding) layout() {
	e.features = e.features[:0]
	for i := range e.cols {
		c := &e.cols[i]
		c.offset = len(e.features)
		switch c.kind {
		case kindNumeric, kindOrdinal:
			c.width = 1
			e.features = append(e.features, c.name)
		case kindNominal:
			c.width = len(c.levels)
			for _, l := range c.levels {
				e.features = append(e.features, c.name+"="+l)
			}
			if e.unknown == UnknownToBucket {
				c.width++
				e.features = append(e.features, c.name+"="+OtherLevel)
			}
		}
	}
}

// Features returns the encoded column names in matrix order.
func (e *Encoding) Features() []string {
	return append([]string(nil), e.features...)
}

// Target returns the target column name the encoding was fitted with.
func (e *Encoding) Target() string { return e.target }

// Apply encodes a cleaned dataset into a feature matrix and a label
// vector. The dataset must carry exactly the columns seen at fit time plus
// the target; anything else is a ShapeError.
func (e *Encoding) Apply(ds *Dataset) (*mat.Dense, []float64, error) {
	if err := e.checkColumns(ds); err != nil {
		return nil, nil, err
	}
	rows := ds.Len()
	x := mat.NewDense(rows, len(e.features), nil)
	for i := range e.cols {
		c := &e.cols[i]
		col := ds.Column(c.name)
		switch c.kind {
		case kindNumeric:
			for r := 0; r < rows; r++ {
				v := col.Floats[r]
				if math.IsNaN(v) {
					return nil, nil, &DataError{Op: "encode", Reason: fmt.Sprintf("column %q missing at row %d", c.name, r)}
				}
				x.Set(r, c.offset, v)
			}
		case kindOrdinal:
			for r := 0; r < rows; r++ {
				code := indexOf(c.levels, col.Labels[r])
				if code < 0 {
					return nil, nil, &DataError{Op: "encode",
						Reason: fmt.Sprintf("ordinal column %q has undeclared level %q at row %d", c.name, col.Labels[r], r)}
				}
				x.Set(r, c.offset, float64(code))
			}
		case kindNominal:
			for r := 0; r < rows; r++ {
				code := indexOf(c.levels, col.Labels[r])
				if code < 0 {
					if e.unknown == UnknownIsError {
						return nil, nil, &DataError{Op: "encode",
							Reason: fmt.Sprintf("nominal column %q has unseen level %q at row %d", c.name, col.Labels[r], r)}
					}
					code = len(c.levels) // the __other__ bucket
				}
				x.Set(r, c.offset+code, 1)
			}
		}
	}

	tcol := ds.Column(e.target)
	y := make([]float64, rows)
	for r := 0; r < rows; r++ {
		v := tcol.Floats[r]
		if v != 0 && v != 1 {
			return nil, nil, &DataError{Op: "encode", Reason: fmt.Sprintf("target %q has non-binary value %v at row %d", e.target, v, r)}
		}
		y[r] = v
	}
	return x, y, nil
}

func (e *Encoding) checkColumns(ds *Dataset) error {
	want := make(map[string]colKind, len(e.cols))
	for i := range e.cols {
		want[e.cols[i].name] = e.cols[i].kind
	}
	var shape ShapeError
	for name := range want {
		if ds.Column(name) == nil {
			shape.Missing = append(shape.Missing, name)
		}
	}
	if ds.Column(e.target) == nil {
		shape.Missing = append(shape.Missing, e.target)
	}
	for i := range ds.cols {
		name := ds.cols[i].Name
		if name == e.target {
			continue
		}
		if _, ok := want[name]; !ok {
			shape.Extra = append(shape.Extra, name)
		}
	}
	if len(shape.Missing) > 0 || len(shape.Extra) > 0 {
		sort.Strings(shape.Missing)
		sort.Strings(shape.Extra)
		return &shape
	}
	for name, kind := range want {
		col := ds.Column(name)
		if col.Numeric != (kind == kindNumeric) {
			return &DataError{Op: "encode", Reason: fmt.Sprintf("column %q changed type since fit", name)}
		}
	}
	tcol := ds.Column(e.target)
	if !tcol.Numeric {
		return &DataError{Op: "encode", Reason: fmt.Sprintf("target column %q is not numeric", e.target)}
	}
	return nil
}

func indexOf(levels []string, label string) int {
	for i, l := range levels {
		if l == label {
			return i
		}
	}
	return -1
}

type encodingJSON struct {
	Target  string       `json:"target"`
	Unknown string       `json:"unknown_policy"`
	Columns []encColJSON `json:"columns"`
}

type encColJSON struct {
	Name   string   `json:"name"`
	Kind   string   `json:"kind"`
	Levels []string `json:"levels,omitempty"`
}

// MarshalJSON lets a fitted encoding travel inside a model bundle.
func (e *Encoding) MarshalJSON() ([]byte, error) {
	out := encodingJSON{Target: e.target, Unknown: e.unknown.String()}
	for i := range e.cols {
		c := &e.cols[i]
		out.Columns = append(out.Columns, encColJSON{
			Name:   c.name,
			Kind:   c.kind.String(),
			Levels: append([]string(nil), c.levels...),
		})
	}
	return json.Marshal(out)
}

func (e *Encoding) UnmarshalJSON(b []byte) error {
	var in encodingJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	policy, err := ParseUnknownPolicy(in.Unknown)
	if err != nil {
		return err
	}
	dec := Encoding{target: in.Target, unknown: policy}
	for _, c := range in.Columns {
		var kind colKind
		switch c.Kind {
		case "numeric":
			kind = kindNumeric
		case "ordinal":
			kind = kindOrdinal
		case "nominal":
			kind = kindNominal
		default:
			return fmt.Errorf("dataset: unknown encoded column kind %q", c.Kind)
		}
		dec.cols = append(dec.cols, encCol{name: c.Name, kind: kind, levels: c.Levels})
	}
	dec.layout()
	*e = dec
	return nil
}
