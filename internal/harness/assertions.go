package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/finder/internal/catalog"
	"github.com/roach88/finder/internal/queryir"
)

// checkCase returns one message per unmet expectation.
func checkCase(c Case, cr CaseResult) []string {
	var errs []string
	exp := c.Expect

	if exp.Error != "" {
		if cr.Plan != nil {
			errs = append(errs, fmt.Sprintf("expected error %s, got plan %s", exp.Error, cr.Plan.Query))
		}
		if !hasCode(cr.Diagnostics, exp.Error) {
			errs = append(errs, fmt.Sprintf("expected error %s, got %s", exp.Error, describe(cr.Diagnostics)))
		}
		return errs
	}

	if cr.Plan == nil {
		return append(errs, fmt.Sprintf("expected a plan, got %s", describe(cr.Diagnostics)))
	}
	q := cr.Plan.Query

	if exp.Operation != "" && string(q.Operation) != exp.Operation {
		errs = append(errs, mismatch("operation", exp.Operation, string(q.Operation)))
	}
	if exp.Criterion != nil {
		if got := queryir.Format(q.Criterion); got != *exp.Criterion {
			errs = append(errs, mismatch("criterion", *exp.Criterion, got))
		}
	}
	if exp.Orders != nil {
		got := make([]string, len(q.Orders))
		for i, o := range q.Orders {
			got[i] = o.Property + " " + string(o.Direction)
		}
		if !slices.Equal(got, exp.Orders) {
			errs = append(errs, mismatch("orders", list(exp.Orders), list(got)))
		}
	}
	if exp.Projections != nil {
		got := make([]string, len(q.Projections))
		for i, p := range q.Projections {
			got[i] = p.String()
		}
		if !slices.Equal(got, exp.Projections) {
			errs = append(errs, mismatch("projections", list(exp.Projections), list(got)))
		}
	}
	if exp.Result != "" && q.Result.String() != exp.Result {
		errs = append(errs, mismatch("result", exp.Result, q.Result.String()))
	}
	if exp.Parameters != nil {
		if got := q.Parameters(); !slices.Equal(got, exp.Parameters) {
			errs = append(errs, mismatch("parameters", list(exp.Parameters), list(got)))
		}
	}
	if exp.Warnings != nil {
		var got []string
		for _, d := range cr.Diagnostics {
			if d.Severity == catalog.SeverityWarning {
				got = append(got, d.Code)
			}
		}
		if !slices.Equal(got, exp.Warnings) {
			errs = append(errs, mismatch("warnings", list(exp.Warnings), list(got)))
		}
	}

	return errs
}

func hasCode(diags []catalog.Diagnostic, code string) bool {
	for _, d := range diags {
		if d.Code == code {
			return true
		}
	}
	return false
}

func describe(diags []catalog.Diagnostic) string {
	if len(diags) == 0 {
		return "no diagnostics"
	}
	parts := make([]string, len(diags))
	for i, d := range diags {
		parts[i] = fmt.Sprintf("%s %s (%s)", d.Code, d.Message, d.Severity)
	}
	return strings.Join(parts, "; ")
}

func mismatch(field, want, got string) string {
	return fmt.Sprintf("%s: expected %q, got %q", field, want, got)
}

func list(s []string) string {
	return "[" + strings.Join(s, ", ") + "]"
}
