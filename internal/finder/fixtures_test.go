package finder

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/finder/internal/ir"
)

// testSchema:
//
//	Person  lastName age status nickname descText tags[] address->Address books->[]Book employer->Company(undeclared)
//	Address street city->City
//	City    name zipCode
//	Book    title pages
func testSchema(t *testing.T) *ir.Schema {
	t.Helper()
	schema, err := ir.NewSchema(
		ir.NewEntity("Person",
			ir.Scalar("lastName", "string"),
			ir.Scalar("age", "int"),
			ir.Scalar("status", "string"),
			ir.Scalar("nickname", "string"),
			ir.Scalar("descText", "string"),
			ir.ScalarCollection("tags", "string"),
			ir.AssociationTo("address", "Address"),
			ir.CollectionOf("books", "Book"),
			ir.AssociationTo("employer", "Company"),
		),
		ir.NewEntity("Address",
			ir.Scalar("street", "string"),
			ir.AssociationTo("city", "City"),
		),
		ir.NewEntity("City",
			ir.Scalar("name", "string"),
			ir.Scalar("zipCode", "string"),
		),
		ir.NewEntity("Book",
			ir.Scalar("title", "string"),
			ir.Scalar("pages", "int"),
		),
	)
	require.NoError(t, err)
	return schema
}

func person(t *testing.T) *ir.EntityMetadata {
	t.Helper()
	e, ok := testSchema(t).Entity("Person")
	require.True(t, ok)
	return e
}
