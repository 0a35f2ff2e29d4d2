package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/finder/internal/catalog"
	"github.com/roach88/finder/internal/finder"
	"github.com/roach88/finder/internal/ir"
)

// createTestStore opens a fresh store in a temp dir.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestResult compiles a small repository into a catalog result.
func createTestResult(t *testing.T, runID string, methods ...ir.MethodSignature) *catalog.Result {
	t.Helper()

	entity := ir.NewEntity("Person",
		ir.Scalar("lastName", "string"),
		ir.Scalar("age", "int"),
	)
	schema, err := ir.NewSchema(entity)
	require.NoError(t, err)

	if len(methods) == 0 {
		methods = []ir.MethodSignature{
			ir.NewSignature("findByLastName", "lastName"),
			ir.NewSignature("countByAgeGreaterThan", "age"),
			ir.NewSignature("findByAgeBetween", "from"),
			ir.NewSignature("save", "p"),
		}
	}

	b, err := catalog.NewBuilder(finder.New(), catalog.WithIDGenerator(catalog.NewFixedGenerator(runID)))
	require.NoError(t, err)

	res, err := b.Build(context.Background(), schema, []ir.Repository{{
		Name:    "PersonRepository",
		Entity:  "Person",
		Methods: methods,
	}})
	require.NoError(t, err)
	return res
}
