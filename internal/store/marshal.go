package store

import (
	"fmt"

	"github.com/roach88/finder/internal/ir"
	"github.com/roach88/finder/internal/queryir"
)

// marshalQuery renders a plan as canonical JSON TEXT, the same bytes its
// hash is computed over.
func marshalQuery(q *queryir.Query) (string, error) {
	data, err := ir.MarshalCanonical(q.ToMap())
	if err != nil {
		return "", fmt.Errorf("marshal query: %w", err)
	}
	return string(data), nil
}
