package finder

import "github.com/roach88/finder/internal/queryir"

// Expression is a criterion built from one method-name clause.
//
// This is a sealed interface. The variants are:
//   - Comparison: a keyword applied to a property
//   - Negated: inverts the wrapped expression
//   - AssociationScoped: evaluates the wrapped expression through one
//     association hop
//
// Expressions are values. Bind returns a copy with parameter names
// attached and never modifies the receiver.
type Expression interface {
	// Property is the property the expression is about. For an
	// AssociationScoped expression it is the association name.
	Property() string

	// RequiredArguments is the number of parameters Bind expects.
	RequiredArguments() int

	// Arguments returns the bound parameter names, nil before Bind.
	Arguments() []string

	// Bind attaches parameter names. len(args) must equal RequiredArguments.
	Bind(args []string) Expression

	// Criterion renders the expression as a query tree node.
	Criterion() queryir.Criterion

	expressionNode()
}

// Comparison is a leaf expression: one keyword over one property.
type Comparison struct {
	Keyword  Keyword
	property string
	args     []string
}

// NewComparison creates an unbound comparison.
func NewComparison(kw Keyword, property string) Comparison {
	return Comparison{Keyword: kw, property: property}
}

func (c Comparison) Property() string       { return c.property }
func (c Comparison) RequiredArguments() int { return c.Keyword.Arity }
func (c Comparison) Arguments() []string    { return c.args }

func (c Comparison) Bind(args []string) Expression {
	c.args = append([]string(nil), args...)
	return c
}

func (c Comparison) Criterion() queryir.Criterion {
	params := c.args
	if params == nil {
		params = []string{}
	}
	return queryir.Restriction{Operator: c.Keyword.Operator, Property: c.property, Params: params}
}

func (Comparison) expressionNode() {}

// Negated wraps an expression in a logical NOT.
type Negated struct {
	Inner Expression
}

func (n Negated) Property() string       { return n.Inner.Property() }
func (n Negated) RequiredArguments() int { return n.Inner.RequiredArguments() }
func (n Negated) Arguments() []string    { return n.Inner.Arguments() }

func (n Negated) Bind(args []string) Expression {
	return Negated{Inner: n.Inner.Bind(args)}
}

func (n Negated) Criterion() queryir.Criterion {
	return queryir.Negation{Criterion: n.Inner.Criterion()}
}

func (Negated) expressionNode() {}

// AssociationScoped evaluates Inner against the entity behind Association.
type AssociationScoped struct {
	Association string
	Entity      string
	Inner       Expression
}

func (a AssociationScoped) Property() string       { return a.Association }
func (a AssociationScoped) RequiredArguments() int { return a.Inner.RequiredArguments() }
func (a AssociationScoped) Arguments() []string    { return a.Inner.Arguments() }

func (a AssociationScoped) Bind(args []string) Expression {
	a.Inner = a.Inner.Bind(args)
	return a
}

func (a AssociationScoped) Criterion() queryir.Criterion {
	return queryir.AssociationQuery{
		Association: a.Association,
		Entity:      a.Entity,
		Criterion:   a.Inner.Criterion(),
	}
}

func (AssociationScoped) expressionNode() {}
