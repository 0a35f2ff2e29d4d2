package finder

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/finder/internal/queryir"
)

func asc(p string) queryir.Order  { return queryir.Order{Property: p, Direction: queryir.Ascending} }
func desc(p string) queryir.Order { return queryir.Order{Property: p, Direction: queryir.Descending} }

func TestExtractOrder(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		residual string
		orders   []queryir.Order
	}{
		{"no order", "LastName", "LastName", nil},
		{"default ascending", "LastNameOrderByAge", "LastName", []queryir.Order{asc("age")}},
		{"descending", "AgeGreaterThanOrderByAgeDesc", "AgeGreaterThan", []queryir.Order{desc("age")}},
		{"explicit ascending", "AgeOrderByLastNameAsc", "Age", []queryir.Order{asc("lastName")}},
		{"chained by direction", "AgeOrderByLastNameAscAgeDesc", "Age", []queryir.Order{asc("lastName"), desc("age")}},
		{"chained by And", "AgeOrderByLastNameAndAgeDesc", "Age", []queryir.Order{asc("lastName"), desc("age")}},
		{"empty residual", "OrderByLastName", "", []queryir.Order{asc("lastName")}},
		{"desc inside a word", "AgeOrderByDescText", "Age", []queryir.Order{asc("descText")}},
		{"desc inside a word then desc", "AgeOrderByDescTextDesc", "Age", []queryir.Order{desc("descText")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			residual, orders := ExtractOrder(tt.in, person(t))
			assert.Equal(t, tt.residual, residual)
			assert.Equal(t, tt.orders, orders)
		})
	}
}

func TestExtractOrder_NilEntity(t *testing.T) {
	residual, orders := ExtractOrder("NameOrderByNameDesc", nil)
	assert.Equal(t, "Name", residual)
	assert.Equal(t, []queryir.Order{desc("name")}, orders)
}

func TestExtractOrder_UnknownPropertyKept(t *testing.T) {
	_, orders := ExtractOrder("AgeOrderByHeight", person(t))
	assert.Equal(t, []queryir.Order{asc("height")}, orders)
}
