package finder

import (
	"regexp"
	"strings"

	"github.com/roach88/finder/internal/ir"
	"github.com/roach88/finder/internal/queryir"
)

var orderByPattern = regexp.MustCompile(`^(.*)OrderBy([A-Z]\w*)$`)

const (
	directionAsc  = "Asc"
	directionDesc = "Desc"
)

// ExtractOrder strips a trailing OrderBy block from a clause sequence.
//
// It returns the residual sequence and the sort instructions in
// declaration order. Several properties may be chained, either with And
// or directly after a direction keyword:
//
//	AgeOrderByLastNameAscAgeDesc  -> "Age",  [lastName asc, age desc]
//	OrderByLastNameAndAge         -> "",     [lastName asc, age asc]
//
// Properties are not checked here; the compiler rejects unknown ones.
// entity may be nil; when present, a token that is itself a property name
// (e.g. "descText") is never split on a direction keyword.
func ExtractOrder(sequence string, entity *ir.EntityMetadata) (string, []queryir.Order) {
	m := orderByPattern.FindStringSubmatch(sequence)
	if m == nil {
		return sequence, nil
	}

	var orders []queryir.Order
	for _, segment := range splitOperator(m[2], OperatorAnd) {
		orders = append(orders, parseOrderSegment(segment, entity)...)
	}
	return m[1], orders
}

func parseOrderSegment(segment string, entity *ir.EntityMetadata) []queryir.Order {
	if segment == "" {
		return []queryir.Order{{Property: "", Direction: queryir.Ascending}}
	}

	var orders []queryir.Order
	for segment != "" {
		name := ir.Decapitalize(segment)
		if _, ok := entity.PropertyByName(name); ok {
			return append(orders, queryir.Order{Property: name, Direction: queryir.Ascending})
		}

		i, dir, n := directionBoundary(segment)
		if i < 0 {
			return append(orders, queryir.Order{Property: name, Direction: queryir.Ascending})
		}
		orders = append(orders, queryir.Order{Property: ir.Decapitalize(segment[:i]), Direction: dir})
		segment = segment[i+n:]
	}
	return orders
}

// directionBoundary finds the first Asc or Desc keyword that ends a
// property token, i.e. is preceded by text and followed by an upper-case
// letter or the end of the segment.
func directionBoundary(segment string) (int, queryir.Direction, int) {
	for i := 1; i < len(segment); i++ {
		rest := segment[i:]
		for _, kw := range []string{directionDesc, directionAsc} {
			if !strings.HasPrefix(rest, kw) {
				continue
			}
			if len(rest) == len(kw) || startsUpper(rest[len(kw):]) {
				dir := queryir.Ascending
				if kw == directionDesc {
					dir = queryir.Descending
				}
				return i, dir, len(kw)
			}
		}
	}
	return -1, "", 0
}
