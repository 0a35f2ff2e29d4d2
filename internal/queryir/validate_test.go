package queryir

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/finder/internal/ir"
)

func testPerson(t *testing.T) *ir.EntityMetadata {
	t.Helper()
	schema := ir.MustSchema(
		ir.NewEntity("Person",
			ir.Scalar("lastName", "string"),
			ir.Scalar("age", "int"),
			ir.AssociationTo("address", "Address"),
			ir.AssociationTo("employer", "Company"),
		),
		ir.NewEntity("Address",
			ir.Scalar("street", "string"),
		),
	)
	person, _ := schema.Entity("Person")
	return person
}

func TestValidate_ValidQuery(t *testing.T) {
	q := &Query{
		Entity:    "Person",
		Operation: OperationFind,
		Criterion: Conjunction{Criteria: []Criterion{
			Restriction{Operator: OpBetween, Property: "age", Params: []string{"from", "to"}},
			AssociationQuery{
				Association: "address",
				Entity:      "Address",
				Criterion:   Restriction{Operator: OpLike, Property: "street", Params: []string{"street"}},
			},
		}},
		Orders: []Order{{Property: "lastName", Direction: Ascending}},
	}

	result := Validate(q, testPerson(t))
	assert.True(t, result.Valid, result.Problems)
	assert.Empty(t, result.Problems)
}

func TestValidate_UnresolvedProperty(t *testing.T) {
	q := &Query{
		Entity:    "Person",
		Criterion: Restriction{Operator: OpEqual, Property: "fooBar", Params: []string{"fooBar"}},
	}

	result := Validate(q, testPerson(t))
	assert.False(t, result.Valid)
	assert.Equal(t, []string{`property "fooBar" does not exist on Person`}, result.Problems)
}

func TestValidate_ArityMismatch(t *testing.T) {
	q := &Query{
		Entity:    "Person",
		Criterion: Restriction{Operator: OpBetween, Property: "age", Params: []string{"from"}},
	}

	result := Validate(q, testPerson(t))
	assert.False(t, result.Valid)
	assert.Contains(t, result.Problems[0], "binds 1 parameters, want 2")
}

func TestValidate_AssociationScope(t *testing.T) {
	person := testPerson(t)

	notAssoc := &Query{Entity: "Person", Criterion: AssociationQuery{
		Association: "age",
		Criterion:   Restriction{Operator: OpEqual, Property: "x", Params: []string{"x"}},
	}}
	result := Validate(notAssoc, person)
	assert.False(t, result.Valid)
	assert.Contains(t, result.Problems[0], `"age" is not an association`)

	undeclared := &Query{Entity: "Person", Criterion: AssociationQuery{
		Association: "employer",
		Entity:      "Company",
		Criterion:   Restriction{Operator: OpEqual, Property: "name", Params: []string{"name"}},
	}}
	result = Validate(undeclared, person)
	assert.False(t, result.Valid)
	assert.Contains(t, result.Problems[0], `undeclared entity "Company"`)

	wrongLeaf := &Query{Entity: "Person", Criterion: AssociationQuery{
		Association: "address",
		Entity:      "Address",
		Criterion:   Restriction{Operator: OpEqual, Property: "zip", Params: []string{"zip"}},
	}}
	result = Validate(wrongLeaf, person)
	assert.Equal(t, []string{`property "zip" does not exist on Person.address`}, result.Problems)
}

func TestValidate_Orders(t *testing.T) {
	q := &Query{
		Entity: "Person",
		Orders: []Order{
			{Property: "height", Direction: Ascending},
			{Property: "age", Direction: "sideways"},
		},
	}

	result := Validate(q, testPerson(t))
	assert.Len(t, result.Problems, 2)
	assert.Contains(t, result.Problems[0], `order property "height"`)
	assert.Contains(t, result.Problems[1], `invalid direction "sideways"`)
}

func TestValidate_NilInputs(t *testing.T) {
	assert.False(t, Validate(nil, testPerson(t)).Valid)

	result := Validate(&Query{Entity: "Ghost"}, nil)
	assert.Equal(t, []string{`unknown entity "Ghost"`}, result.Problems)
}

func TestValidate_EmptyJunctions(t *testing.T) {
	q := &Query{Entity: "Person", Criterion: Disjunction{}}
	result := Validate(q, testPerson(t))
	assert.Equal(t, []string{"empty disjunction in Person"}, result.Problems)
}
