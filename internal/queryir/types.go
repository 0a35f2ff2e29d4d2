package queryir

// Criterion is a node of the predicate tree.
//
// This is a sealed interface - only types in this package implement it.
//
// Criterion types:
//   - Restriction: property compared against bound parameters
//   - Conjunction: all children must hold
//   - Disjunction: at least one child must hold
//   - Negation: logical NOT over one child
//   - AssociationQuery: child evaluated against an associated entity
type Criterion interface {
	criterionNode() // Marker method - seals interface to this package
}

// Operator is the comparison a Restriction applies.
type Operator string

const (
	OpEqual             Operator = "equal"
	OpNotEqual          Operator = "notEqual"
	OpLike              Operator = "like"
	OpIlike             Operator = "ilike"
	OpRlike             Operator = "rlike"
	OpGreaterThan       Operator = "greaterThan"
	OpGreaterThanEquals Operator = "greaterThanEquals"
	OpLessThan          Operator = "lessThan"
	OpLessThanEquals    Operator = "lessThanEquals"
	OpBetween           Operator = "between"
	OpInList            Operator = "inList"
	OpNotInList         Operator = "notInList"
	OpInRange           Operator = "inRange"
	OpIsNull            Operator = "isNull"
	OpIsNotNull         Operator = "isNotNull"
	OpIsEmpty           Operator = "isEmpty"
	OpIsNotEmpty        Operator = "isNotEmpty"
)

// Operators lists every operator in a stable order.
var Operators = []Operator{
	OpEqual, OpNotEqual, OpLike, OpIlike, OpRlike,
	OpGreaterThan, OpGreaterThanEquals, OpLessThan, OpLessThanEquals,
	OpBetween, OpInList, OpNotInList, OpInRange,
	OpIsNull, OpIsNotNull, OpIsEmpty, OpIsNotEmpty,
}

// Arity returns how many parameters the operator binds.
// InRange takes a single range value; Between takes the two bounds.
func (o Operator) Arity() int {
	switch o {
	case OpBetween:
		return 2
	case OpIsNull, OpIsNotNull, OpIsEmpty, OpIsNotEmpty:
		return 0
	default:
		return 1
	}
}

// Valid reports whether o is a known operator.
func (o Operator) Valid() bool {
	for _, known := range Operators {
		if o == known {
			return true
		}
	}
	return false
}

// Restriction compares one property against bound method parameters.
//
// Example:
//
//	Restriction{Operator: OpBetween, Property: "age", Params: []string{"from", "to"}}
//
// renders as
//
//	age BETWEEN :from AND :to
type Restriction struct {
	Operator Operator
	Property string   // property name on the entity in scope
	Params   []string // parameter names, len == Operator.Arity()
}

func (Restriction) criterionNode() {}

// Conjunction holds when every child holds.
type Conjunction struct {
	Criteria []Criterion
}

func (Conjunction) criterionNode() {}

// Disjunction holds when at least one child holds.
type Disjunction struct {
	Criteria []Criterion
}

func (Disjunction) criterionNode() {}

// Negation inverts its child.
type Negation struct {
	Criterion Criterion
}

func (Negation) criterionNode() {}

// AssociationQuery evaluates Criterion against the entity reached through
// Association. Multi-hop paths nest one AssociationQuery per hop:
//
//	address.city.name = :name
//
// becomes
//
//	AssociationQuery{Association: "address", Entity: "Address",
//	  Criterion: AssociationQuery{Association: "city", Entity: "City",
//	    Criterion: Restriction{Operator: OpEqual, Property: "name", Params: []string{"name"}}}}
type AssociationQuery struct {
	Association string // property name on the enclosing entity
	Entity      string // target entity name
	Criterion   Criterion
}

func (AssociationQuery) criterionNode() {}

// Direction is the sort direction of an Order.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// Order is one sort instruction.
type Order struct {
	Property  string
	Direction Direction
}

// ProjectionKind identifies a projection directive.
type ProjectionKind string

const (
	ProjectCount         ProjectionKind = "count"
	ProjectCountDistinct ProjectionKind = "countDistinct"
	ProjectDistinct      ProjectionKind = "distinct"
	ProjectSum           ProjectionKind = "sum"
	ProjectAvg           ProjectionKind = "avg"
	ProjectMax           ProjectionKind = "max"
	ProjectMin           ProjectionKind = "min"
	ProjectProperty      ProjectionKind = "property"
	ProjectLimit         ProjectionKind = "limit"
)

// Projection alters the shape of results rather than filtering rows.
// Property is empty for whole-entity projections (count, distinct);
// Limit is set only for ProjectLimit.
type Projection struct {
	Kind     ProjectionKind
	Property string
	Limit    int
}

// ResultKind classifies what executing a Query yields.
type ResultKind string

const (
	ResultEntity   ResultKind = "entity"
	ResultNumber   ResultKind = "number"
	ResultBoolean  ResultKind = "boolean"
	ResultProperty ResultKind = "property"
)

// ResultType is the declared result of a Query.
// Type names the entity for ResultEntity and the property type for
// ResultProperty; it is empty otherwise.
type ResultType struct {
	Kind ResultKind
	Type string
}

// Operation is the kind of statement a Query describes.
type Operation string

const (
	OperationFind   Operation = "find"
	OperationCount  Operation = "count"
	OperationExists Operation = "exists"
	OperationDelete Operation = "delete"
)

// Query is a compiled finder plan.
//
// Criterion is nil when the method has no criteria (findAllByOrderByName). A single criterion is stored as-is; several are wrapped
// in a Conjunction or Disjunction.
type Query struct {
	Entity      string
	Operation   Operation
	Criterion   Criterion
	Orders      []Order
	Projections []Projection
	Result      ResultType
}

// Parameters returns the parameter names bound anywhere in c, in
// left-to-right order.
func Parameters(c Criterion) []string {
	var out []string
	walk(c, func(r Restriction) {
		out = append(out, r.Params...)
	})
	return out
}

// Parameters returns the parameter names bound by the query's criteria.
func (q *Query) Parameters() []string {
	return Parameters(q.Criterion)
}

// Restrictions returns the leaves of c in left-to-right order.
func Restrictions(c Criterion) []Restriction {
	var out []Restriction
	walk(c, func(r Restriction) {
		out = append(out, r)
	})
	return out
}

func walk(c Criterion, visit func(Restriction)) {
	switch n := c.(type) {
	case Restriction:
		visit(n)
	case Conjunction:
		for _, child := range n.Criteria {
			walk(child, visit)
		}
	case Disjunction:
		for _, child := range n.Criteria {
			walk(child, visit)
		}
	case Negation:
		walk(n.Criterion, visit)
	case AssociationQuery:
		walk(n.Criterion, visit)
	}
}
