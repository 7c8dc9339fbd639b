// Package attrition fixes the HR attrition table: the raw export headers,
// the schema that canonicalizes and types them, and the default
// hyperparameter search space, plus a deterministic synthetic generator
// for demos and end-to-end tests.
package attrition

import (
	"github.com/tabml/gboost/dataset"
	"github.com/tabml/gboost/search"
)

// Canonical column names, after cleaning.
const (
	ColSatisfaction = "satisfaction_level"
	ColEvaluation   = "last_evaluation"
	ColProjects     = "number_project"
	ColHours        = "average_monthly_hours"
	ColTenure       = "time_spend_company"
	ColAccident     = "work_accident"
	ColTarget       = "left"
	ColPromotion    = "promotion_last_5years"
	ColDepartment   = "department"
	ColSalary       = "salary"
)

// Raw headers as HR exports spell them; the schema renames them on clean.
const (
	RawColHours      = "average_montly_hours"
	RawColAccident   = "Work_accident"
	RawColDepartment = "sales"
)

// departments are the levels the synthetic generator draws from, the
// spellings real exports use.
var departments = []string{
	"sales", "technical", "support", "IT", "product_mng",
	"marketing", "RandD", "accounting", "hr", "management",
}

// salaryLevels is the natural pay-band order, lowest first.
var salaryLevels = []string{"low", "medium", "high"}

// Schema declares how an HR attrition export is cleaned and encoded:
// quirky headers canonicalized, salary ordinal, department one-hot, the
// left flag as target.
func Schema() dataset.Schema {
	return dataset.Schema{
		Renames: map[string]string{
			RawColDepartment: ColDepartment,
			RawColHours:      ColHours,
			RawColAccident:   ColAccident,
		},
		Ordinal: map[string][]string{ColSalary: append([]string(nil), salaryLevels...)},
		Nominal: []string{ColDepartment},
		Target:  ColTarget,
	}
}

// DefaultGrid is the standard search space: sixteen candidates over tree
// depth, leaf weight, shrinkage and round count.
func DefaultGrid() search.Grid {
	return search.Grid{
		"max_depth":        {3, 5},
		"min_child_weight": {1, 5},
		"learning_rate":    {0.1, 0.3},
		"n_estimators":     {50, 100},
	}
}
