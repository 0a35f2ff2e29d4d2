package queryir

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/finder/internal/ir"
)

func sampleQuery() *Query {
	return &Query{
		Entity:    "Person",
		Operation: OperationFind,
		Criterion: Conjunction{Criteria: []Criterion{
			Restriction{Operator: OpEqual, Property: "lastName", Params: []string{"lastName"}},
			Negation{Criterion: Restriction{Operator: OpGreaterThan, Property: "age", Params: []string{"age"}}},
		}},
		Orders:      []Order{{Property: "age", Direction: Descending}},
		Projections: []Projection{{Kind: ProjectLimit, Limit: 3}},
		Result:      ResultType{Kind: ResultEntity, Type: "Person"},
	}
}

func TestQuery_ToMapCanonical(t *testing.T) {
	data, err := ir.MarshalCanonical(sampleQuery().ToMap())
	require.NoError(t, err)

	expected := `{"criterion":{"criteria":[` +
		`{"operator":"equal","params":["lastName"],"property":"lastName","type":"restriction"},` +
		`{"criterion":{"operator":"greaterThan","params":["age"],"property":"age","type":"restriction"},"type":"not"}` +
		`],"type":"and"},` +
		`"entity":"Person","operation":"find",` +
		`"order":[{"direction":"desc","property":"age"}],` +
		`"projections":[{"kind":"limit","limit":3}],` +
		`"result":{"kind":"entity","type":"Person"}}`
	assert.Equal(t, expected, string(data))
}

func TestQuery_ToMapWithoutCriterion(t *testing.T) {
	q := &Query{Entity: "Person", Operation: OperationCount, Result: ResultType{Kind: ResultNumber}}
	m := q.ToMap()

	_, hasCriterion := m["criterion"]
	assert.False(t, hasCriterion)
	assert.Equal(t, []any{}, m["order"])
	assert.Equal(t, []any{}, m["projections"])

	_, err := ir.MarshalCanonical(m)
	require.NoError(t, err)
}

func TestCriterionMap_ZeroArityHasEmptyParams(t *testing.T) {
	m := CriterionMap(Restriction{Operator: OpIsNull, Property: "nickname"})
	assert.Equal(t, []string{}, m["params"])
}

func TestCriterionMap_Association(t *testing.T) {
	m := CriterionMap(AssociationQuery{
		Association: "address",
		Entity:      "Address",
		Criterion:   Restriction{Operator: OpLike, Property: "street", Params: []string{"s"}},
	})
	assert.Equal(t, "association", m["type"])
	assert.Equal(t, "address", m["association"])
	assert.Equal(t, "Address", m["entity"])
}

func TestQuery_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(sampleQuery())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "Person", decoded["entity"])
	assert.Equal(t, "find", decoded["operation"])
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		crit Criterion
		want string
	}{
		{"nil", nil, ""},
		{"equal", Restriction{Operator: OpEqual, Property: "lastName", Params: []string{"lastName"}}, "lastName = :lastName"},
		{"between", Restriction{Operator: OpBetween, Property: "age", Params: []string{"from", "to"}}, "age BETWEEN :from AND :to"},
		{"isNull", Restriction{Operator: OpIsNull, Property: "nickname"}, "nickname IS NULL"},
		{"notInList", Restriction{Operator: OpNotInList, Property: "status", Params: []string{"s"}}, "status NOT IN :s"},
		{"negation", Negation{Criterion: Restriction{Operator: OpEqual, Property: "status", Params: []string{"status"}}}, "NOT (status = :status)"},
		{
			"nested junction",
			Conjunction{Criteria: []Criterion{
				Restriction{Operator: OpEqual, Property: "a", Params: []string{"a"}},
				Disjunction{Criteria: []Criterion{
					Restriction{Operator: OpEqual, Property: "b", Params: []string{"b"}},
					Restriction{Operator: OpEqual, Property: "c", Params: []string{"c"}},
				}},
			}},
			"a = :a AND (b = :b OR c = :c)",
		},
		{
			"association",
			AssociationQuery{Association: "address", Entity: "Address", Criterion: AssociationQuery{
				Association: "city", Entity: "City",
				Criterion: Restriction{Operator: OpEqual, Property: "name", Params: []string{"name"}},
			}},
			"address -> (city -> (name = :name))",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.crit))
		})
	}
}

func TestQuery_String(t *testing.T) {
	assert.Equal(t,
		"find Person WHERE lastName = :lastName AND NOT (age > :age) ORDER BY age desc PROJECT limit(3) -> entity<Person>",
		sampleQuery().String())

	count := &Query{
		Entity:      "Person",
		Operation:   OperationCount,
		Projections: []Projection{{Kind: ProjectCountDistinct, Property: "lastName"}},
		Result:      ResultType{Kind: ResultNumber},
	}
	assert.Equal(t, "count Person PROJECT countDistinct(lastName) -> number", count.String())
}
