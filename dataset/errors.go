package dataset

import (
	"fmt"
	"sort"
	"strings"
)

// UnknownPolicy selects how encoding treats nominal levels that were not
// observed when the encoding was fitted.
type UnknownPolicy int

const (
	// UnknownToBucket routes unseen nominal levels to a dedicated
	// "__other__" indicator column. This is the default.
	UnknownToBucket UnknownPolicy = iota
	// UnknownIsError rejects unseen nominal levels with a DataError.
	UnknownIsError
)

func (p UnknownPolicy) String() string {
	switch p {
	case UnknownToBucket:
		return "bucket"
	case UnknownIsError:
		return "error"
	default:
		return fmt.Sprintf("UnknownPolicy(%d)", int(p))
	}
}

// ParseUnknownPolicy parses the textual form used in config files.
func ParseUnknownPolicy(s string) (UnknownPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "bucket", "other":
		return UnknownToBucket, nil
	case "error", "strict":
		return UnknownIsError, nil
	default:
		return 0, fmt.Errorf("dataset: unknown-level policy %q, want bucket or error", s)
	}
}

// DataError reports a data integrity problem: missing cells, a malformed
// target, or a categorical level the fitted encoding cannot place.
type DataError struct {
	Op      string         // stage that found the problem: load, clean, encode
	Reason  string         // human-readable cause
	Missing map[string]int // per-column missing counts, when relevant
}

func (e *DataError) Error() string {
	if len(e.Missing) == 0 {
		return fmt.Sprintf("dataset: %s: %s", e.Op, e.Reason)
	}
	names := make([]string, 0, len(e.Missing))
	for name := range e.Missing {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s=%d", name, e.Missing[name])
	}
	return fmt.Sprintf("dataset: %s: %s (%s)", e.Op, e.Reason, strings.Join(parts, ", "))
}

// ShapeError reports a column mismatch between a fitted encoding and the
// dataset it is applied to.
type ShapeError struct {
	Missing []string // columns the encoding needs but the dataset lacks
	Extra   []string // dataset columns the encoding does not know
	Want    int      // expected encoded width, when the mismatch is numeric
	Got     int
}

func (e *ShapeError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing columns "+strings.Join(e.Missing, ", "))
	}
	if len(e.Extra) > 0 {
		parts = append(parts, "unexpected columns "+strings.Join(e.Extra, ", "))
	}
	if e.Want != 0 || e.Got != 0 {
		parts = append(parts, fmt.Sprintf("got %d encoded columns, want %d", e.Got, e.Want))
	}
	if len(parts) == 0 {
		parts = append(parts, "column mismatch")
	}
	return "dataset: " + strings.Join(parts, "; ")
}
