package finder

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/finder/internal/queryir"
)

func TestCheckReturnType(t *testing.T) {
	entity := &queryir.Query{Result: queryir.ResultType{Kind: queryir.ResultEntity, Type: "Person"}}
	number := &queryir.Query{Result: queryir.ResultType{Kind: queryir.ResultNumber}}
	boolean := &queryir.Query{Result: queryir.ResultType{Kind: queryir.ResultBoolean}}
	prop := &queryir.Query{Result: queryir.ResultType{Kind: queryir.ResultProperty, Type: "string"}}
	numericProp := &queryir.Query{Result: queryir.ResultType{Kind: queryir.ResultProperty, Type: "int"}}

	tests := []struct {
		name     string
		query    *queryir.Query
		declared string
		ok       bool
	}{
		{"empty", entity, "", true},
		{"entity", entity, "Person", true},
		{"entity pointer", entity, "*Person", true},
		{"entity slice", entity, "[]Person", true},
		{"entity pointer slice", entity, "[]*Person", true},
		{"entity iterator", entity, "iter.Seq[Person]", true},
		{"entity channel", entity, "<-chan Person", true},
		{"wrong entity", entity, "[]Book", false},
		{"entity as number", entity, "int64", false},
		{"count", number, "int64", true},
		{"count pointer", number, "*int", true},
		{"count slice", number, "[]int", false},
		{"count string", number, "string", false},
		{"exists", boolean, "bool", true},
		{"exists int", boolean, "int", false},
		{"property", prop, "[]string", true},
		{"property single", prop, "string", true},
		{"property mismatch", prop, "int", false},
		{"numeric property widening", numericProp, "[]int64", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckReturnType(tt.query, tt.declared)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			assert.True(t, errors.Is(err, ErrUnsupportedReturnType))
			assert.Contains(t, err.Error(), "E204")
		})
	}
}

func TestIsNumeric(t *testing.T) {
	assert.True(t, IsNumeric("int"))
	assert.True(t, IsNumeric("float64"))
	assert.False(t, IsNumeric("string"))
	assert.False(t, IsNumeric("Person"))
}
