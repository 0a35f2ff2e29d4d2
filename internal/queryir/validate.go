package queryir

import (
	"fmt"

	"github.com/roach88/finder/internal/ir"
)

// ValidationResult reports whether a compiled query satisfies the plan
// invariants against concrete metadata.
type ValidationResult struct {
	// Valid is true when no problems were found.
	Valid bool

	// Problems lists every violated invariant. Empty when Valid is true.
	Problems []string
}

// Validate checks a query against the root entity it was compiled for.
//
// Rules:
//  1. Restrictions bind exactly Operator.Arity() parameters
//  2. Restriction properties exist on the entity in scope
//  3. AssociationQuery hops name a resolved association
//  4. Order properties exist on the root entity
//
// The finder compiler tolerates unresolvable property names by design, so
// rule 2 is where such references surface. Validate is a pure function.
func Validate(q *Query, root *ir.EntityMetadata) ValidationResult {
	v := &validator{problems: []string{}}

	if q == nil {
		v.addProblem("nil query")
		return v.result()
	}
	if root == nil {
		v.addProblem("unknown entity %q", q.Entity)
		return v.result()
	}
	if q.Entity != root.Name {
		v.addProblem("query entity %q does not match %q", q.Entity, root.Name)
	}

	if q.Criterion != nil {
		v.validateCriterion(q.Criterion, root, root.Name)
	}

	for _, o := range q.Orders {
		if _, ok := root.PropertyByName(o.Property); !ok {
			v.addProblem("order property %q does not exist on %s", o.Property, root.Name)
		}
		if o.Direction != Ascending && o.Direction != Descending {
			v.addProblem("order on %q has invalid direction %q", o.Property, o.Direction)
		}
	}

	return v.result()
}

// validator accumulates problems during traversal.
type validator struct {
	problems []string
}

func (v *validator) addProblem(format string, args ...any) {
	v.problems = append(v.problems, fmt.Sprintf(format, args...))
}

func (v *validator) result() ValidationResult {
	return ValidationResult{
		Valid:    len(v.problems) == 0,
		Problems: v.problems,
	}
}

// validateCriterion recursively validates c against the entity in scope.
// scope is the dotted path used in messages.
func (v *validator) validateCriterion(c Criterion, entity *ir.EntityMetadata, scope string) {
	switch n := c.(type) {
	case Restriction:
		v.validateRestriction(n, entity, scope)
	case Conjunction:
		if len(n.Criteria) == 0 {
			v.addProblem("empty conjunction in %s", scope)
		}
		for _, child := range n.Criteria {
			v.validateCriterion(child, entity, scope)
		}
	case Disjunction:
		if len(n.Criteria) == 0 {
			v.addProblem("empty disjunction in %s", scope)
		}
		for _, child := range n.Criteria {
			v.validateCriterion(child, entity, scope)
		}
	case Negation:
		if n.Criterion == nil {
			v.addProblem("negation without criterion in %s", scope)
			return
		}
		v.validateCriterion(n.Criterion, entity, scope)
	case AssociationQuery:
		p, ok := entity.PropertyByName(n.Association)
		if !ok || !p.IsAssociation() {
			v.addProblem("%q is not an association of %s", n.Association, scope)
			return
		}
		target := p.Association.AssociatedEntity()
		if target == nil {
			v.addProblem("association %s.%s targets undeclared entity %q", scope, n.Association, p.Association.Target)
			return
		}
		v.validateCriterion(n.Criterion, target, scope+"."+n.Association)
	default:
		v.addProblem("unknown criterion type %T", c)
	}
}

func (v *validator) validateRestriction(r Restriction, entity *ir.EntityMetadata, scope string) {
	if !r.Operator.Valid() {
		v.addProblem("unknown operator %q on %s.%s", r.Operator, scope, r.Property)
	} else if len(r.Params) != r.Operator.Arity() {
		v.addProblem("%s on %s.%s binds %d parameters, want %d",
			r.Operator, scope, r.Property, len(r.Params), r.Operator.Arity())
	}
	if _, ok := entity.PropertyByName(r.Property); !ok {
		v.addProblem("property %q does not exist on %s", r.Property, scope)
	}
}
