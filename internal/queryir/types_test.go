package queryir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOperator_Arity(t *testing.T) {
	tests := map[Operator]int{
		OpEqual:       1,
		OpNotEqual:    1,
		OpLike:        1,
		OpGreaterThan: 1,
		OpInList:      1,
		OpInRange:     1,
		OpBetween:     2,
		OpIsNull:      0,
		OpIsNotNull:   0,
		OpIsEmpty:     0,
		OpIsNotEmpty:  0,
	}
	for op, want := range tests {
		t.Run(string(op), func(t *testing.T) {
			assert.Equal(t, want, op.Arity())
		})
	}
}

func TestOperator_Valid(t *testing.T) {
	for _, op := range Operators {
		assert.True(t, op.Valid(), op)
	}
	assert.False(t, Operator("approximately").Valid())
	assert.Len(t, Operators, 17)
}

func TestCriterion_SealedInterface(t *testing.T) {
	criteria := []Criterion{
		Restriction{Operator: OpEqual, Property: "name", Params: []string{"name"}},
		Conjunction{},
		Disjunction{},
		Negation{},
		AssociationQuery{},
	}

	for _, c := range criteria {
		switch c.(type) {
		case Restriction, Conjunction, Disjunction, Negation, AssociationQuery:
			// Expected
		default:
			t.Fatalf("unexpected criterion type %T", c)
		}
	}
}

func TestParameters_LeftToRight(t *testing.T) {
	c := Conjunction{Criteria: []Criterion{
		Restriction{Operator: OpEqual, Property: "lastName", Params: []string{"lastName"}},
		Negation{Criterion: Restriction{Operator: OpBetween, Property: "age", Params: []string{"from", "to"}}},
		AssociationQuery{
			Association: "address",
			Entity:      "Address",
			Criterion:   Restriction{Operator: OpLike, Property: "street", Params: []string{"street"}},
		},
		Restriction{Operator: OpIsNull, Property: "nickname"},
	}}

	assert.Equal(t, []string{"lastName", "from", "to", "street"}, Parameters(c))

	q := &Query{Criterion: c}
	assert.Equal(t, Parameters(c), q.Parameters())
}

func TestParameters_Nil(t *testing.T) {
	assert.Empty(t, Parameters(nil))
	assert.Empty(t, (&Query{}).Parameters())
}

func TestRestrictions_ThroughDecorators(t *testing.T) {
	c := Disjunction{Criteria: []Criterion{
		Negation{Criterion: Restriction{Operator: OpEqual, Property: "status", Params: []string{"status"}}},
		AssociationQuery{
			Association: "address",
			Entity:      "Address",
			Criterion: AssociationQuery{
				Association: "city",
				Entity:      "City",
				Criterion:   Restriction{Operator: OpEqual, Property: "name", Params: []string{"name"}},
			},
		},
	}}

	leaves := Restrictions(c)
	if assert.Len(t, leaves, 2) {
		assert.Equal(t, "status", leaves[0].Property)
		assert.Equal(t, "name", leaves[1].Property)
	}
}
