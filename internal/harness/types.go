package harness

import (
	"github.com/roach88/finder/internal/catalog"
)

// CaseResult is what one case compiled to.
type CaseResult struct {
	Entity      string               `json:"entity"`
	Method      string               `json:"method"`
	Plan        *catalog.Plan        `json:"plan,omitempty"`
	Diagnostics []catalog.Diagnostic `json:"diagnostics"`
}

// Result is the outcome of a scenario.
type Result struct {
	// Pass is true when every case met its expectations.
	Pass bool `json:"pass"`

	Cases []CaseResult `json:"cases"`

	// Errors lists each failed expectation. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Cases:  []CaseResult{},
		Errors: []string{},
	}
}

// AddError records a failed expectation and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
