// Package dataset implements the column-typed table the pipeline runs on:
// loading from CSV, cleaning, fit-time categorical encoding and the seeded
// stratified split.
package dataset

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Column is one named column of a Dataset. A column is either numeric,
// stored in Floats with NaN marking a missing cell, or categorical, stored
// in Labels with the empty string marking a missing cell.
type Column struct {
	Name    string
	Numeric bool
	Floats  []float64
	Labels  []string
}

// Len returns the number of cells in the column.
func (c *Column) Len() int {
	if c.Numeric {
		return len(c.Floats)
	}
	return len(c.Labels)
}

// Missing counts the missing cells in the column.
func (c *Column) Missing() (n int) {
	if c.Numeric {
		for _, v := range c.Floats {
			if math.IsNaN(v) {
				n++
			}
		}
		return
	}
	for _, v := range c.Labels {
		if v == "" {
			n++
		}
	}
	return
}

// cell renders the i-th cell as a canonical string, used for exact
// duplicate detection.
func (c *Column) cell(i int) string {
	if c.Numeric {
		return strconv.FormatFloat(c.Floats[i], 'g', -1, 64)
	}
	return c.Labels[i]
}

func (c *Column) clone() Column {
	out := Column{Name: c.Name, Numeric: c.Numeric}
	if c.Numeric {
		out.Floats = append([]float64(nil), c.Floats...)
	} else {
		out.Labels = append([]string(nil), c.Labels...)
	}
	return out
}

// Dataset is an ordered collection of equally long columns.
type Dataset struct {
	cols []Column
	rows int
}

// New builds a Dataset from columns. All columns must have the same length
// and unique names.
func New(cols ...Column) (*Dataset, error) {
	if len(cols) == 0 {
		return nil, fmt.Errorf("dataset: no columns")
	}
	rows := cols[0].Len()
	seen := make(map[string]struct{}, len(cols))
	for i := range cols {
		if cols[i].Name == "" {
			return nil, fmt.Errorf("dataset: column %d has no name", i)
		}
		if _, dup := seen[cols[i].Name]; dup {
			return nil, fmt.Errorf("dataset: duplicate column %q", cols[i].Name)
		}
		seen[cols[i].Name] = struct{}{}
		if cols[i].Len() != rows {
			return nil, fmt.Errorf("dataset: column %q has %d rows, want %d", cols[i].Name, cols[i].Len(), rows)
		}
	}
	return &Dataset{cols: cols, rows: rows}, nil
}

// Len returns the number of rows.
func (d *Dataset) Len() int { return d.rows }

// ColumnNames returns the column names in table order.
func (d *Dataset) ColumnNames() []string {
	names := make([]string, len(d.cols))
	for i := range d.cols {
		names[i] = d.cols[i].Name
	}
	return names
}

// Column returns the named column, or nil when absent. The returned column
// is shared with the dataset and must be treated as read-only.
func (d *Dataset) Column(name string) *Column {
	for i := range d.cols {
		if d.cols[i].Name == name {
			return &d.cols[i]
		}
	}
	return nil
}

// Clone returns a deep copy of the dataset.
func (d *Dataset) Clone() *Dataset {
	cols := make([]Column, len(d.cols))
	for i := range d.cols {
		cols[i] = d.cols[i].clone()
	}
	return &Dataset{cols: cols, rows: d.rows}
}

// Subset returns a new dataset holding the given rows, in the given order.
func (d *Dataset) Subset(rows []int) (*Dataset, error) {
	for _, r := range rows {
		if r < 0 || r >= d.rows {
			return nil, fmt.Errorf("dataset: row %d out of range [0,%d)", r, d.rows)
		}
	}
	cols := make([]Column, len(d.cols))
	for i := range d.cols {
		src := &d.cols[i]
		dst := Column{Name: src.Name, Numeric: src.Numeric}
		if src.Numeric {
			dst.Floats = make([]float64, len(rows))
			for j, r := range rows {
				dst.Floats[j] = src.Floats[r]
			}
		} else {
			dst.Labels = make([]string, len(rows))
			for j, r := range rows {
				dst.Labels[j] = src.Labels[r]
			}
		}
		cols[i] = dst
	}
	return &Dataset{cols: cols, rows: len(rows)}, nil
}

// MissingCounts returns per-column missing cell counts, omitting columns
// with none.
func (d *Dataset) MissingCounts() map[string]int {
	out := make(map[string]int)
	for i := range d.cols {
		if n := d.cols[i].Missing(); n > 0 {
			out[d.cols[i].Name] = n
		}
	}
	return out
}

// rowKey renders a whole row as a canonical string for exact-match
// deduplication.
func (d *Dataset) rowKey(i int) string {
	var b strings.Builder
	for j := range d.cols {
		if j > 0 {
			b.WriteByte(0x1f)
		}
		b.WriteString(d.cols[j].cell(i))
	}
	return b.String()
}

// deduplicate drops rows that exactly match an earlier row and returns the
// number dropped. Row order is otherwise preserved.
func (d *Dataset) deduplicate() int {
	seen := make(map[string]struct{}, d.rows)
	keep := make([]int, 0, d.rows)
	for i := 0; i < d.rows; i++ {
		k := d.rowKey(i)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		keep = append(keep, i)
	}
	dropped := d.rows - len(keep)
	if dropped == 0 {
		return 0
	}
	sub, err := d.Subset(keep)
	if err != nil {
		// keep is built from valid indices, Subset cannot fail
		panic(err)
	}
	*d = *sub
	return dropped
}

// rename applies the header rename map in place and returns the number of
// columns renamed.
func (d *Dataset) rename(renames map[string]string) int {
	n := 0
	for i := range d.cols {
		if to, ok := renames[d.cols[i].Name]; ok && to != d.cols[i].Name {
			d.cols[i].Name = to
			n++
		}
	}
	return n
}

// Schema declares how a raw table is interpreted: header canonicalization,
// which categorical columns carry a natural order (and that order), which
// are unordered, and the binary target column.
type Schema struct {
	// Renames canonicalizes raw header names, e.g. "sales" -> "department".
	Renames map[string]string
	// Ordinal maps a column name to its declared level order, lowest first.
	Ordinal map[string][]string
	// Nominal lists unordered categorical columns, one-hot encoded.
	Nominal []string
	// Target names the binary label column; its values must be 0 or 1.
	Target string
	// Unknown selects how Apply treats nominal levels unseen at fit time.
	Unknown UnknownPolicy
}

// Validate checks the schema for internal consistency.
func (s Schema) Validate() error {
	if s.Target == "" {
		return fmt.Errorf("schema: target column not set")
	}
	nominal := make(map[string]struct{}, len(s.Nominal))
	for _, n := range s.Nominal {
		if n == s.Target {
			return fmt.Errorf("schema: target %q cannot be nominal", n)
		}
		if _, dup := nominal[n]; dup {
			return fmt.Errorf("schema: duplicate nominal column %q", n)
		}
		nominal[n] = struct{}{}
	}
	for name, levels := range s.Ordinal {
		if name == s.Target {
			return fmt.Errorf("schema: target %q cannot be ordinal", name)
		}
		if _, both := nominal[name]; both {
			return fmt.Errorf("schema: column %q is both ordinal and nominal", name)
		}
		if len(levels) < 2 {
			return fmt.Errorf("schema: ordinal column %q has %d levels, want at least 2", name, len(levels))
		}
		seen := make(map[string]struct{}, len(levels))
		for _, l := range levels {
			if _, dup := seen[l]; dup {
				return fmt.Errorf("schema: ordinal column %q repeats level %q", name, l)
			}
			seen[l] = struct{}{}
		}
	}
	return nil
}

// sortedOrdinalNames returns the ordinal column names in sorted order, for
// deterministic iteration over the Ordinal map.
func (s Schema) sortedOrdinalNames() []string {
	names := make([]string, 0, len(s.Ordinal))
	for name := range s.Ordinal {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
