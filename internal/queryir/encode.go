package queryir

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ToMap renders the query in canonical map form.
//
// Keys are stable and values are restricted to the types accepted by
// ir.MarshalCanonical (strings, ints, bools, slices and maps), so the
// result can be hashed directly.
func (q *Query) ToMap() map[string]any {
	m := map[string]any{
		"entity":    q.Entity,
		"operation": string(q.Operation),
		"result": map[string]any{
			"kind": string(q.Result.Kind),
			"type": q.Result.Type,
		},
	}
	if q.Criterion != nil {
		m["criterion"] = CriterionMap(q.Criterion)
	}

	orders := make([]any, 0, len(q.Orders))
	for _, o := range q.Orders {
		orders = append(orders, map[string]any{
			"property":  o.Property,
			"direction": string(o.Direction),
		})
	}
	m["order"] = orders

	projections := make([]any, 0, len(q.Projections))
	for _, p := range q.Projections {
		pm := map[string]any{"kind": string(p.Kind)}
		if p.Property != "" {
			pm["property"] = p.Property
		}
		if p.Kind == ProjectLimit {
			pm["limit"] = p.Limit
		}
		projections = append(projections, pm)
	}
	m["projections"] = projections

	return m
}

// CriterionMap renders one criterion node in canonical map form.
// Each node carries a "type" discriminator.
func CriterionMap(c Criterion) map[string]any {
	switch n := c.(type) {
	case Restriction:
		params := n.Params
		if params == nil {
			params = []string{}
		}
		return map[string]any{
			"type":     "restriction",
			"operator": string(n.Operator),
			"property": n.Property,
			"params":   params,
		}
	case Conjunction:
		return map[string]any{"type": "and", "criteria": criteriaMaps(n.Criteria)}
	case Disjunction:
		return map[string]any{"type": "or", "criteria": criteriaMaps(n.Criteria)}
	case Negation:
		return map[string]any{"type": "not", "criterion": CriterionMap(n.Criterion)}
	case AssociationQuery:
		return map[string]any{
			"type":        "association",
			"association": n.Association,
			"entity":      n.Entity,
			"criterion":   CriterionMap(n.Criterion),
		}
	default:
		panic(fmt.Sprintf("queryir: unknown criterion %T", c))
	}
}

func criteriaMaps(cs []Criterion) []any {
	out := make([]any, 0, len(cs))
	for _, c := range cs {
		out = append(out, CriterionMap(c))
	}
	return out
}

// MarshalJSON encodes the canonical map form.
func (q *Query) MarshalJSON() ([]byte, error) {
	return json.Marshal(q.ToMap())
}

var comparisonSymbols = map[Operator]string{
	OpEqual:             "=",
	OpNotEqual:          "!=",
	OpLike:              "LIKE",
	OpIlike:             "ILIKE",
	OpRlike:             "RLIKE",
	OpGreaterThan:       ">",
	OpGreaterThanEquals: ">=",
	OpLessThan:          "<",
	OpLessThanEquals:    "<=",
	OpInList:            "IN",
	OpNotInList:         "NOT IN",
	OpInRange:           "IN RANGE",
	OpIsNull:            "IS NULL",
	OpIsNotNull:         "IS NOT NULL",
	OpIsEmpty:           "IS EMPTY",
	OpIsNotEmpty:        "IS NOT EMPTY",
}

// Format renders a criterion as a one-line human readable expression,
// e.g. "lastName = :lastName AND NOT (age > :age)".
func Format(c Criterion) string {
	if c == nil {
		return ""
	}
	var b strings.Builder
	format(&b, c, false)
	return b.String()
}

func format(b *strings.Builder, c Criterion, nested bool) {
	switch n := c.(type) {
	case Restriction:
		b.WriteString(formatRestriction(n))
	case Conjunction:
		formatJunction(b, n.Criteria, " AND ", nested)
	case Disjunction:
		formatJunction(b, n.Criteria, " OR ", nested)
	case Negation:
		b.WriteString("NOT (")
		format(b, n.Criterion, false)
		b.WriteString(")")
	case AssociationQuery:
		b.WriteString(n.Association)
		b.WriteString(" -> (")
		format(b, n.Criterion, false)
		b.WriteString(")")
	}
}

func formatJunction(b *strings.Builder, cs []Criterion, sep string, nested bool) {
	if nested {
		b.WriteString("(")
	}
	for i, child := range cs {
		if i > 0 {
			b.WriteString(sep)
		}
		format(b, child, true)
	}
	if nested {
		b.WriteString(")")
	}
}

func formatRestriction(r Restriction) string {
	params := make([]string, len(r.Params))
	for i, p := range r.Params {
		params[i] = ":" + p
	}

	if r.Operator == OpBetween {
		if len(params) == 2 {
			return fmt.Sprintf("%s BETWEEN %s AND %s", r.Property, params[0], params[1])
		}
		return fmt.Sprintf("%s BETWEEN %s", r.Property, strings.Join(params, ", "))
	}

	sym, ok := comparisonSymbols[r.Operator]
	if !ok {
		sym = string(r.Operator)
	}
	if len(params) == 0 {
		return r.Property + " " + sym
	}
	return r.Property + " " + sym + " " + strings.Join(params, ", ")
}

// String renders the whole query for explain output.
func (q *Query) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", q.Operation, q.Entity)
	if q.Criterion != nil {
		b.WriteString(" WHERE ")
		b.WriteString(Format(q.Criterion))
	}
	if len(q.Orders) > 0 {
		parts := make([]string, len(q.Orders))
		for i, o := range q.Orders {
			parts[i] = o.Property + " " + string(o.Direction)
		}
		b.WriteString(" ORDER BY ")
		b.WriteString(strings.Join(parts, ", "))
	}
	if len(q.Projections) > 0 {
		parts := make([]string, len(q.Projections))
		for i, p := range q.Projections {
			parts[i] = p.String()
		}
		b.WriteString(" PROJECT ")
		b.WriteString(strings.Join(parts, ", "))
	}
	fmt.Fprintf(&b, " -> %s", q.Result)
	return b.String()
}

// String renders a projection as kind(property) or limit(n).
func (p Projection) String() string {
	switch {
	case p.Kind == ProjectLimit:
		return fmt.Sprintf("limit(%d)", p.Limit)
	case p.Property != "":
		return fmt.Sprintf("%s(%s)", p.Kind, p.Property)
	default:
		return string(p.Kind)
	}
}

// String renders a result type as kind or kind<type>.
func (r ResultType) String() string {
	if r.Type == "" {
		return string(r.Kind)
	}
	return fmt.Sprintf("%s<%s>", r.Kind, r.Type)
}
