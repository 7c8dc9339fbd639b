package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// Load reads a CSV file with a header row into a Dataset and closes the
// file before returning. Column types are inferred from content: a column
// whose non-empty cells all parse as floats becomes numeric, anything else
// stays categorical. Empty cells become missing values.
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: open %s: %w", path, err)
	}
	ds, err := Read(f)
	cerr := f.Close()
	if err != nil {
		return nil, fmt.Errorf("dataset: read %s: %w", path, err)
	}
	if cerr != nil {
		return nil, fmt.Errorf("dataset: close %s: %w", path, cerr)
	}
	return ds, nil
}

// WriteCSV saves the dataset as a CSV file with a header row. Missing
// cells become empty fields, so Load reads the file back equivalently.
func WriteCSV(ds *Dataset, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("dataset: create %s: %w", path, err)
	}
	if err := Write(f, ds); err != nil {
		f.Close()
		return fmt.Errorf("dataset: write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("dataset: close %s: %w", path, err)
	}
	return nil
}

// Write streams the dataset as CSV content with a header row.
func Write(w io.Writer, ds *Dataset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ds.ColumnNames()); err != nil {
		return err
	}
	record := make([]string, len(ds.cols))
	for i := 0; i < ds.rows; i++ {
		for j := range ds.cols {
			c := &ds.cols[j]
			if c.Numeric && math.IsNaN(c.Floats[i]) {
				record[j] = ""
				continue
			}
			record[j] = c.cell(i)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read reads CSV content with a header row into a Dataset.
func Read(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty input")
	}
	if err != nil {
		return nil, err
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
		if header[i] == "" {
			return nil, fmt.Errorf("blank header in field %d", i+1)
		}
	}

	raw := make([][]string, len(header))
	numeric := make([]bool, len(header))
	for i := range numeric {
		numeric[i] = true
	}
	rows := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		for i, cell := range rec {
			cell = strings.TrimSpace(cell)
			raw[i] = append(raw[i], cell)
			if cell == "" {
				continue
			}
			if numeric[i] {
				if _, perr := strconv.ParseFloat(cell, 64); perr != nil {
					numeric[i] = false
				}
			}
		}
		rows++
	}
	if rows == 0 {
		return nil, fmt.Errorf("no data rows")
	}

	cols := make([]Column, len(header))
	for i, name := range header {
		if numeric[i] {
			vals := make([]float64, rows)
			for j, cell := range raw[i] {
				if cell == "" {
					vals[j] = math.NaN()
					continue
				}
				v, perr := strconv.ParseFloat(cell, 64)
				if perr != nil {
					return nil, fmt.Errorf("row %d, column %s: %w", j+2, name, perr)
				}
				vals[j] = v
			}
			cols[i] = Column{Name: name, Numeric: true, Floats: vals}
			continue
		}
		cols[i] = Column{Name: name, Labels: raw[i]}
	}
	return New(cols...)
}
