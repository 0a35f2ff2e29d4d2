package finder

import (
	"github.com/roach88/finder/internal/ir"
	"github.com/roach88/finder/internal/queryir"
)

// PlanHash returns the content-addressed identity of a compiled plan.
// Compiling the same method against the same metadata always yields the
// same hash.
func PlanHash(q *queryir.Query) (string, error) {
	return ir.PlanHash(q.ToMap())
}
