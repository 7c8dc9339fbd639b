package search

import (
	"errors"
	"fmt"

	"github.com/tabml/gboost/booster"
)

// ErrEmptyGrid reports a search over no hyperparameter axes.
var ErrEmptyGrid = errors.New("search: empty hyperparameter grid")

// TrialFailure ties a failed candidate to its cause.
type TrialFailure struct {
	Params booster.Params
	Err    error
}

// FitError reports that every candidate in the grid failed to fit, with
// the per-candidate causes.
type FitError struct {
	Failures []TrialFailure
}

func (e *FitError) Error() string {
	if len(e.Failures) == 0 {
		return "search: no candidate fit"
	}
	return fmt.Sprintf("search: all %d candidates failed to fit; first: %v",
		len(e.Failures), e.Failures[0].Err)
}

// Unwrap exposes the individual causes to errors.Is and errors.As.
func (e *FitError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i := range e.Failures {
		errs[i] = e.Failures[i].Err
	}
	return errs
}
