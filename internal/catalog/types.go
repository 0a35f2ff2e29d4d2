package catalog

import (
	"github.com/roach88/finder/internal/queryir"
)

// Severity of a Diagnostic.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Codes raised by the catalog itself, alongside the finder reason codes.
const (
	// CodeUnresolvedReference: the plan refers to a property the entity
	// does not declare (the lenient fallback was taken).
	CodeUnresolvedReference = "E206"
	// CodeUnknownEntity: the repository names an entity missing from the schema.
	CodeUnknownEntity = "E207"
)

// Plan is one successfully compiled method.
type Plan struct {
	Repository string         `json:"repository"`
	Method     string         `json:"method"`
	Query      *queryir.Query `json:"query"`
	Hash       string         `json:"hash"`
}

// Diagnostic reports a method that failed or compiled with a warning.
type Diagnostic struct {
	Repository string   `json:"repository"`
	Method     string   `json:"method"`
	Code       string   `json:"code"`
	Severity   Severity `json:"severity"`
	Message    string   `json:"message"`
}

// Result is the outcome of one Build.
type Result struct {
	RunID       string       `json:"run_id"`
	SchemaHash  string       `json:"schema_hash"`
	Plans       []Plan       `json:"plans"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// HasErrors reports whether any diagnostic has error severity.
func (r *Result) HasErrors() bool {
	for _, d := range r.Diagnostics {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Errors returns the error-severity diagnostics.
func (r *Result) Errors() []Diagnostic {
	var out []Diagnostic
	for _, d := range r.Diagnostics {
		if d.Severity == SeverityError {
			out = append(out, d)
		}
	}
	return out
}

// Plan returns the plan for repository.method, if it compiled.
func (r *Result) Plan(repository, method string) (Plan, bool) {
	for _, p := range r.Plans {
		if p.Repository == repository && p.Method == method {
			return p, true
		}
	}
	return Plan{}, false
}
